package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/vendorsync/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/vendorsync/internal/domain-orchestrators"
	"github.com/ochairo/vendorsync/internal/domain/interfaces"
	"github.com/ochairo/vendorsync/internal/domain/services"
	"github.com/ochairo/vendorsync/internal/external-adapters/yaml"
)

func runSync(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	var (
		recipesDir = fs.String("recipes-dir", "recipes", "Path to recipes directory")
		version    = fs.String("version", "", "Override the recipe's pinned version")
		all        = fs.Bool("all", false, "Sync every recipe in the recipes directory")
		jobs       = fs.Int("jobs", 4, "Concurrent jobs when syncing all recipes")
		skipVerify = fs.Bool("skip-verify", false, "Skip digest and signature verification")
		dryRun     = fs.Bool("dry-run", false, "Run against a scratch directory, leaving destinations untouched")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vendorsync sync <recipe> [options]
       vendorsync sync --all [options]

Vendor the files a recipe selects from its upstream release archive into the
recipe's destination directory. The destination is emptied first, so the
result never mixes stale and fresh files.

Examples:
  vendorsync sync array-api-extra
  vendorsync sync array-api-extra --version 0.4.0
  vendorsync sync --all --recipes-dir recipes

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	logger := &interfaces.StderrLogger{Verbose: *verbose}
	orch := newOrchestrator(*recipesDir, logger)
	orch.Concurrency = *jobs

	opts := services.SyncOptions{
		Version:    *version,
		SkipVerify: *skipVerify,
		DryRun:     *dryRun,
	}

	if *all {
		if *version != "" {
			fmt.Fprintf(os.Stderr, "Error: --version cannot be combined with --all\n")
			os.Exit(1)
		}
		syncAll(ctx, orch, opts)
		return
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: recipe name is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	result, err := orch.SyncOne(ctx, fs.Arg(0), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Printf("%s %s (dry run, would write to %s):\n", result.Name, result.Version, result.Destination)
	} else {
		fmt.Printf("%s %s -> %s:\n", result.Name, result.Version, result.Destination)
	}
	for _, f := range result.Files {
		fmt.Printf("  %s\n", f)
	}
}

func syncAll(ctx context.Context, orch *orchestrators.SyncOrchestrator, opts services.SyncOptions) {
	report, err := orch.SyncAll(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, result := range report.Succeeded {
		fmt.Printf("synced %s %s -> %s (%d files)\n",
			result.Name, result.Version, result.Destination, len(result.Files))
	}
	for _, failure := range report.Failed {
		fmt.Fprintf(os.Stderr, "failed %s: %s\n", failure.Name, failure.Message)
	}

	fmt.Printf("%d/%d recipes synced\n", len(report.Succeeded), report.Total)
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}

// newOrchestrator wires the gateways, service, and repository for a command
func newOrchestrator(recipesDir string, logger interfaces.Logger) *orchestrators.SyncOrchestrator {
	recipeRepo := yaml.NewRecipeRepository(recipesDir)
	syncer := services.NewSyncService(
		gateways.NewFetcher(),
		gateways.NewExtractor(),
		gateways.NewDigestVerifier(),
		gateways.NewGPGVerifier(),
		logger,
	)
	return orchestrators.NewSyncOrchestrator(recipeRepo, syncer, gateways.NewVersionFetcher(), logger)
}
