package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/scopecrawl/internal/policy"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "scopecrawl"

	// DefaultReportPath is where the text report is written, relative to
	// the working directory.
	DefaultReportPath = "Crawler_Report.txt"

	// DefaultReportEvery is the unique-page interval between reports.
	DefaultReportEvery = 50

	// DefaultTopWords is the number of words listed in a report.
	DefaultTopWords = 50

	// DefaultConcurrency is the number of replay workers.
	DefaultConcurrency = 8

	// DefaultRootDomain is the domain a host must contain to be counted as a
	// subdomain.
	DefaultRootDomain = "uci.edu"
)

// Config holds all configuration options for scopecrawl.
// It is populated from CLI flags and the config file and passed down
// explicitly.
type Config struct {
	// ReportPath is the plain-text report file, overwritten at every
	// report boundary.
	ReportPath string

	// MarkdownReportPath, when set, receives the same snapshot as Markdown.
	MarkdownReportPath string

	// ReportEvery is the unique-page interval between reports.
	// Zero disables periodic reports.
	ReportEvery int

	// TopWords is the number of words listed in a report.
	TopWords int

	// Concurrency is the number of pages replayed in parallel.
	Concurrency int

	// RootDomain is matched as a substring of the request host when counting
	// subdomains.
	RootDomain string

	// DBDir is the directory holding the page database.
	// Defaults to XDG data directory (~/.local/share/scopecrawl on Linux).
	DBDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .scopecrawl in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// MetricsFile, when set, receives the replay counters in the Prometheus
	// text exposition format.
	MetricsFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// Policy is the admissibility rule table.
	Policy policy.Rules

	// StopWords replaces the embedded stop-word list when non-nil.
	StopWords []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ReportPath:  DefaultReportPath,
		ReportEvery: DefaultReportEvery,
		TopWords:    DefaultTopWords,
		Concurrency: DefaultConcurrency,
		RootDomain:  DefaultRootDomain,
		DBDir:       XDGDataDir(),
		Policy:      policy.DefaultRules(),
	}
}

// XDGDataDir returns the XDG data directory for scopecrawl.
// On Linux: ~/.local/share/scopecrawl
// On macOS: ~/Library/Application Support/scopecrawl
// On Windows: %LOCALAPPDATA%\scopecrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for scopecrawl.
// On Linux: ~/.config/scopecrawl
// On macOS: ~/Library/Application Support/scopecrawl
// On Windows: %APPDATA%\scopecrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.ReportPath == "" {
		return ErrNoReportPath
	}

	if c.ReportEvery < 0 {
		return ErrInvalidBatchSize
	}

	if c.TopWords <= 0 {
		return ErrInvalidTopWords
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Policy.MaxURLLength < 0 {
		return ErrInvalidMaxURLLength
	}

	if len(c.Policy.DomainSuffixes) == 0 {
		return ErrNoDomains
	}

	return nil
}
