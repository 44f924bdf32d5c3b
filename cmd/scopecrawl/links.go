package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/scopecrawl/internal/database"
)

// NewLinksCmd creates the links command.
func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List the link decisions recorded during a replay",
		Long: `Links prints the links found during a replay run, one per line, as
ADMIT <link> or REJECT <rule> <link>, grouped by the page they were found on.

Examples:
  # List recorded runs
  scopecrawl links --list-runs

  # Show every decision of a run
  scopecrawl links --run 1b4e28ba-2fa1-11d2-883f-0016d3cca427

  # Show the frontier a run produced
  scopecrawl links --run 1b4e28ba-2fa1-11d2-883f-0016d3cca427 --admitted`,
		Args: cobra.NoArgs,
		RunE: runLinksCmd,
	}

	cmd.Flags().StringP("run", "r", "", "Run ID to list links for")
	cmd.Flags().BoolP("admitted", "a", false, "List admitted links only")
	cmd.Flags().BoolP("list-runs", "l", false, "List recorded runs instead of links")

	return cmd
}

// runLinksCmd executes the links command.
func runLinksCmd(cmd *cobra.Command, _ []string) error {
	listRuns, err := cmd.Flags().GetBool("list-runs")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}
	admittedOnly, err := cmd.Flags().GetBool("admitted")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if !listRuns && runID == "" {
		return errors.New("--run is required (use --list-runs to see available runs)")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	newLogger(cmd, cfg)

	db, err := openDB(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if listRuns {
		return listRecordedRuns(ctx, cmd.OutOrStdout(), db)
	}
	return listRunLinks(ctx, cmd.OutOrStdout(), db, runID, admittedOnly)
}

// listRecordedRuns prints every run, most recent first.
func listRecordedRuns(ctx context.Context, w io.Writer, db *database.PageDB) error {
	runs, err := db.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found in the database.")
		fmt.Fprintln(w, "\nUse 'scopecrawl replay' to replay the stored pages.")
		return nil
	}

	fmt.Fprintf(w, "Runs (%d):\n\n", len(runs))
	fmt.Fprintf(w, "  %-36s  %-20s  %6s  %6s  %8s  %8s  %6s\n",
		"ID", "Started", "Pages", "Failed", "Admitted", "Rejected", "Unique")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 104))

	for _, run := range runs {
		fmt.Fprintf(w, "  %-36s  %-20s  %6d  %6d  %8d  %8d  %6d%s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Pages, run.Failed, run.Admitted, run.Rejected, run.UniquePages,
			unfinishedMark(run),
		)
	}

	fmt.Fprintln(w, "\nUse 'scopecrawl links --run <id>' to list the links of a run.")
	return nil
}

func unfinishedMark(run *database.Run) string {
	if run.Finished() {
		return ""
	}
	return "  (unfinished)"
}

// listRunLinks prints the link decisions of one run grouped by page.
func listRunLinks(ctx context.Context, w io.Writer, db *database.PageDB, runID string, admittedOnly bool) error {
	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	links, err := db.QueryLinks(ctx, runID, admittedOnly)
	if err != nil {
		return fmt.Errorf("failed to query links: %w", err)
	}

	page := ""
	for _, l := range links {
		if l.PageURL != page {
			if page != "" {
				fmt.Fprintln(w)
			}
			page = l.PageURL
			fmt.Fprintf(w, "%s\n", page)
		}
		if l.Admitted {
			fmt.Fprintf(w, "  ADMIT %s\n", l.Link)
		} else {
			fmt.Fprintf(w, "  REJECT %s %s\n", l.Rule, l.Link)
		}
	}
	return nil
}
