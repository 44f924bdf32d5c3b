package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Store a fetch result in the page database",
		Long: `Import stores one fetch result in the page database so that it can be
replayed later. The page body is read from file, or from standard input when
file is -. Failed fetches may be imported without a body.

Importing a URL that is already stored replaces the stored result.

Examples:
  scopecrawl import --url http://www.ics.uci.edu/ index.html
  scopecrawl import --url http://www.ics.uci.edu/gone --status 404
  scopecrawl import --url http://ics.uci.edu/ --effective-url https://www.ics.uci.edu/ index.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImportCmd,
	}

	cmd.Flags().StringP("url", "u", "", "Request URL of the page (required)")
	cmd.Flags().String("effective-url", "", "URL after redirects, if different")
	cmd.Flags().IntP("status", "s", http.StatusOK, "HTTP status of the fetch")
	cmd.Flags().String("content-type", "", "Content-Type header of the fetch")
	cmd.Flags().String("error", "", "Fetcher error message, marks the fetch as failed")

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	res, err := fetchResultFromFlags(cmd, path)
	if err != nil {
		return err
	}
	res.EffectiveURL, err = cmd.Flags().GetString("effective-url")
	if err != nil {
		return err
	}

	db, err := openDB(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.UpsertPage(context.Background(), res); err != nil {
		return fmt.Errorf("failed to store page: %w", err)
	}
	logger.Info("page stored", "url", res.URL, "bytes", len(res.Content), "db", db.Path())

	fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%d bytes, status %d)\n", res.URL, len(res.Content), res.StatusCode)
	return nil
}
