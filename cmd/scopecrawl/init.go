package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/scopecrawl/internal/config"
)

//go:embed templates/scopecrawl.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new scopecrawl configuration file",
		Long: `Initialize creates a new .scopecrawl configuration file in the current directory.

The generated file includes:
- The report interval and the number of words listed
- The crawl's domain suffixes and trap filters
- Commented examples for every policy setting

Examples:
  # Create .scopecrawl in current directory
  scopecrawl init

  # Create config file at a specific path
  scopecrawl init -o myconfig.yaml

  # Force overwrite existing file
  scopecrawl init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/scopecrawl.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(w, "\nEdit this file to adapt the crawl, for example:")
	fmt.Fprintln(w, "  - Domain suffixes that are in scope")
	fmt.Fprintln(w, "  - Trap substrings and blocked file extensions")
	fmt.Fprintln(w, "  - Report interval and stop words")

	return nil
}
