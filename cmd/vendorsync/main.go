// Package main provides the vendorsync CLI for vendoring upstream release files.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "sync":
		runSync(ctx, os.Args[2:])
	case "list":
		runList(ctx, os.Args[2:])
	case "verify":
		runVerify(ctx, os.Args[2:])
	case "check":
		runCheck(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`vendorsync - Deterministic vendoring of upstream release files

Usage:
  vendorsync <command> [options]

Commands:
  sync    Vendor one recipe (or all with --all) into its destination
  list    List available vendor recipes
  verify  Fetch and verify a recipe's archive without touching the destination
  check   Compare pinned versions against the latest upstream releases

Use "vendorsync <command> --help" for more information about a command.`)
}
