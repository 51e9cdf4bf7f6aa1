// Package orchestrators coordinates domain services across recipes.
package orchestrators

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ochairo/vendorsync/internal/domain/entities"
	"github.com/ochairo/vendorsync/internal/domain/interfaces"
	"github.com/ochairo/vendorsync/internal/domain/interfaces/gateways"
	"github.com/ochairo/vendorsync/internal/domain/interfaces/repositories"
	"github.com/ochairo/vendorsync/internal/domain/services"
)

// SyncOrchestrator runs vendoring jobs across one or all recipes. Recipes own
// distinct destination directories, so batch jobs can run concurrently; two
// invocations against the same destination still race and are the operator's
// responsibility to avoid.
type SyncOrchestrator struct {
	recipes  repositories.RecipeRepository
	syncer   *services.SyncService
	versions gateways.VersionSource
	logger   interfaces.Logger

	// Concurrency caps parallel jobs in SyncAll; 0 means a sensible default.
	Concurrency int
}

// NewSyncOrchestrator creates a new sync orchestrator
func NewSyncOrchestrator(
	recipes repositories.RecipeRepository,
	syncer *services.SyncService,
	versions gateways.VersionSource,
	logger interfaces.Logger,
) *SyncOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &SyncOrchestrator{
		recipes:  recipes,
		syncer:   syncer,
		versions: versions,
		logger:   logger,
	}
}

// SyncOne vendors a single recipe by name
func (o *SyncOrchestrator) SyncOne(ctx context.Context, name string, opts services.SyncOptions) (*entities.SyncResult, error) {
	recipe, err := o.recipes.GetRecipe(ctx, name)
	if err != nil {
		return nil, err
	}

	return o.syncer.Sync(ctx, recipe, opts)
}

// SyncAll vendors every recipe in the repository. Individual failures are
// collected into the report rather than aborting the remaining jobs.
func (o *SyncOrchestrator) SyncAll(ctx context.Context, opts services.SyncOptions) (*entities.SyncReport, error) {
	recipes, err := o.recipes.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	report := &entities.SyncReport{Total: len(recipes)}
	var reportMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	limit := o.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for _, recipe := range recipes {
		recipe := recipe
		g.Go(func() error {
			result, err := o.syncer.Sync(ctx, recipe, opts)

			reportMu.Lock()
			defer reportMu.Unlock()
			if err != nil {
				o.logger.Error("sync failed",
					interfaces.F("recipe", recipe.Name),
					interfaces.F("error", err))
				report.Failed = append(report.Failed, entities.SyncFailure{
					Name:    recipe.Name,
					Message: err.Error(),
				})
				return nil
			}
			report.Succeeded = append(report.Succeeded, result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Succeeded, func(i, j int) bool { return report.Succeeded[i].Name < report.Succeeded[j].Name })
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Name < report.Failed[j].Name })

	return report, nil
}

// CheckVersions compares every recipe's pinned version with the latest
// upstream release. Recipes without a version_check source are skipped.
func (o *SyncOrchestrator) CheckVersions(ctx context.Context) ([]entities.VersionStatus, error) {
	recipes, err := o.recipes.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]entities.VersionStatus, 0, len(recipes))
	for _, recipe := range recipes {
		if recipe.VersionCheck.Source == "" {
			continue
		}

		latest, err := o.versions.LatestVersion(ctx, recipe.VersionCheck.Source)
		if err != nil {
			return nil, fmt.Errorf("version check for %s: %w", recipe.Name, err)
		}

		statuses = append(statuses, entities.VersionStatus{
			Name:     recipe.Name,
			Pinned:   recipe.Version,
			Latest:   latest,
			UpToDate: recipe.Version == latest,
		})
	}

	return statuses, nil
}
