package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/scopecrawl/internal/config"
	"github.com/nao1215/scopecrawl/internal/database"
	seclog "github.com/nao1215/scopecrawl/internal/log"
	"github.com/nao1215/scopecrawl/internal/policy"
)

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

// getStringFlag returns a local or inherited string flag, or "" when the
// command was built without it.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// loadConfig builds the configuration from defaults, the configuration file
// and the global flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getStringFlag(cmd, "config")

	if _, err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if dbDir := getStringFlag(cmd, "db-dir"); dbDir != "" {
		cfg.DBDir = dbDir
	}
	return cfg, nil
}

// newLogger creates the secure logger for a command and makes it the default.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := seclog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// newPolicy compiles the configured rule tables.
func newPolicy(cfg *config.Config) (*policy.Policy, error) {
	p, err := policy.New(cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return p, nil
}

// openDB opens the page database. create controls whether a missing
// database is created.
func openDB(cfg *config.Config, create bool) (*database.PageDB, error) {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = create
	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
