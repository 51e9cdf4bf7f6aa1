package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/vendorsync/internal/domain/interfaces"
)

func runCheck(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var (
		recipesDir = fs.String("recipes-dir", "recipes", "Path to recipes directory")
		verbose    = fs.Bool("verbose", false, "Enable debug logging")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vendorsync check [options]

Compare every recipe's pinned version against the latest upstream release.
Exits non-zero when any recipe is outdated, so it can gate CI.

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

	statuses, err := orch.CheckVersions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(statuses) == 0 {
		fmt.Println("No recipes with a version_check source")
		return
	}

	outdated := 0
	for _, status := range statuses {
		if status.UpToDate {
			fmt.Printf("%-24s %s (up to date)\n", status.Name, status.Pinned)
			continue
		}
		outdated++
		fmt.Printf("%-24s %s -> %s available\n", status.Name, status.Pinned, status.Latest)
	}

	if outdated > 0 {
		fmt.Printf("%d recipe(s) outdated\n", outdated)
		os.Exit(1)
	}
}
