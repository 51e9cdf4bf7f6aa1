package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/vendorsync/internal/external-adapters/yaml"
)

func runList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	recipesDir := fs.String("recipes-dir", "recipes", "Path to recipes directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vendorsync list [options]

List available vendor recipes with their pinned version and destination.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	recipeRepo := yaml.NewRecipeRepository(*recipesDir)
	recipes, err := recipeRepo.ListRecipes(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(recipes) == 0 {
		fmt.Println("No recipes found")
		return
	}

	for _, recipe := range recipes {
		fmt.Printf("%-24s %-12s %s\n", recipe.Name, recipe.Version, recipe.Destination)
		if recipe.Description != "" {
			fmt.Printf("  %s\n", recipe.Description)
		}
	}
}
