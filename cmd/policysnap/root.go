// Package main provides the entry point for the policysnap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for policysnap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policysnap",
		Short: "Crawl public policy pages and assemble them into one document",
		Long: `policysnap crawls a bounded set of public policy pages (terms of
service, community guidelines, help-center articles) and assembles the
extracted text into a single ordered document.

The crawl stays on the start URL's host, honors robots.txt, and rate
limits itself per host. Results are snapshotted to JSON so the build
step can re-run without touching the network.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
