// Package repositories defines persistence contracts for the domain layer.
package repositories

import (
	"context"

	"github.com/ochairo/vendorsync/internal/domain/entities"
)

// RecipeRepository provides access to vendor recipes
type RecipeRepository interface {
	// GetRecipe retrieves a vendor recipe by name
	GetRecipe(ctx context.Context, name string) (*entities.Recipe, error)

	// ListRecipes returns all available vendor recipes
	ListRecipes(ctx context.Context) ([]*entities.Recipe, error)
}
