package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/policysnap/policysnap/internal/config"
	"github.com/policysnap/policysnap/internal/database"
)

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List archived crawl runs",
		Long: `Runs lists the crawl runs stored in the local SQLite archive,
newest first. Use an ID with "policysnap build --run" to rebuild a
document from an archived crawl.`,
		Args: cobra.NoArgs,
		RunE: runRunsCmd,
	}
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, _ []string) error {
	archive, err := database.Open(config.XDGDataDir(),
		database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run archive yet (run \"policysnap crawl\" first): %w", err)
	}
	defer archive.Close()

	runs, err := archive.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no archived runs")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tPAGES\tSTART URL")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.PageCount, r.StartURL)
	}
	return w.Flush()
}
