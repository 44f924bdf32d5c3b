package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for scopecrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scopecrawl",
		Short: "Scoped crawler core: URL admission, page scraping and crawl reports",
		Long: `scopecrawl is the per-page core of a scoped web crawler.

It decides whether candidate URLs are admissible, extracts links and visible
words from fetched pages, and maintains crawl statistics that are written to
a report file every 50 unique pages.

Network fetching is out of scope. Fetch results are imported into a local
page database and replayed through the core.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .scopecrawl in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Page database directory (default: XDG data directory)")

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewReplayCmd())
	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewInitCmd())
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
