package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/vendorsync/internal/domain-adapters/gateways"
	"github.com/ochairo/vendorsync/internal/external-adapters/yaml"
)

func runVerify(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	recipesDir := fs.String("recipes-dir", "recipes", "Path to recipes directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vendorsync verify <recipe> [options]

Fetch a recipe's release archive and run its digest and signature checks
without touching the destination directory. Useful for validating a pin
before syncing.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: recipe name is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	recipeRepo := yaml.NewRecipeRepository(*recipesDir)
	recipe, err := recipeRepo.GetRecipe(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	staging, err := os.MkdirTemp("", "vendorsync-verify-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	//nolint:errcheck // Best-effort staging cleanup
	defer os.RemoveAll(staging)

	fetcher := gateways.NewFetcher()
	url := fetcher.BuildURL(recipe.Download.URL, recipe.Version)
	archivePath := filepath.Join(staging, recipe.Name+".tar.gz")

	if err := fetcher.FetchArchive(ctx, url, archivePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	digests := gateways.NewDigestVerifier()
	digest, err := digests.ComputeDigest(archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s %s\nsha256: %s\n", recipe.Name, recipe.Version, digest)

	if recipe.Security.SHA256 != "" {
		if err := digests.VerifyDigest(ctx, archivePath, recipe.Security.SHA256); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("digest pin: ok")
	}

	if recipe.Security.VerifySignature {
		sigURL := fetcher.BuildURL(recipe.Security.SignatureURL, recipe.Version)
		if err := gateways.NewGPGVerifier().VerifyArchiveSignature(ctx, archivePath, sigURL, recipe.Security); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("signature: ok")
	}
}
