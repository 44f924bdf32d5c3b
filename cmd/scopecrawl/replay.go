package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/scopecrawl/internal/config"
	"github.com/nao1215/scopecrawl/internal/database"
	"github.com/nao1215/scopecrawl/internal/metrics"
	"github.com/nao1215/scopecrawl/internal/model"
	"github.com/nao1215/scopecrawl/internal/pipeline"
	"github.com/nao1215/scopecrawl/internal/report"
	"github.com/nao1215/scopecrawl/internal/stats"
)

// NewReplayCmd creates the replay command.
func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay every stored page through the crawl core",
		Long: `Replay loads every fetch result stored in the page database and runs it
through the scraper with several workers sharing one set of crawl
statistics. The report file is rewritten each time the number of unique
pages reaches a multiple of the report interval, and once more when the
replay ends.

Each replay is recorded as a run. The links admitted and rejected during
the run are stored and can be listed with 'scopecrawl links'.

Examples:
  scopecrawl replay
  scopecrawl replay --concurrency 16 --report out/Crawler_Report.txt
  scopecrawl replay --markdown-report report.md --metrics-file scopecrawl.prom
  scopecrawl replay --print text`,
		Args: cobra.NoArgs,
		RunE: runReplayCmd,
	}

	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of pages processed concurrently")
	cmd.Flags().StringP("report", "o", config.DefaultReportPath,
		"Report file path (creates directories if needed)")
	cmd.Flags().StringP("markdown-report", "m", "",
		"Also write a Markdown report to this path")
	cmd.Flags().Int("report-every", config.DefaultReportEvery,
		"Unique-page interval between reports (0 disables periodic reports)")
	cmd.Flags().Int("top-words", config.DefaultTopWords,
		"Number of most common words listed in the report")
	cmd.Flags().Bool("final-report", true,
		"Write the report once more when the replay ends")
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus metrics in textfile format to this path")
	cmd.Flags().Bool("no-links", false,
		"Do not store link decisions for the run")
	cmd.Flags().String("print", "",
		"Print the final statistics to standard output: text, markdown or all")

	return cmd
}

// runReplayCmd executes the replay command.
func runReplayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyReplayFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := newLogger(cmd, cfg)

	opts, err := getReplayOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	return runReplay(ctx, cfg, db, opts, cmd.OutOrStdout(), logger)
}

// replayOptions are the replay flags that are not part of the configuration.
type replayOptions struct {
	finalReport bool
	recordLinks bool
	printFormat string
}

func getReplayOptions(cmd *cobra.Command) (replayOptions, error) {
	var opts replayOptions
	var err error

	if opts.finalReport, err = cmd.Flags().GetBool("final-report"); err != nil {
		return opts, err
	}
	noLinks, err := cmd.Flags().GetBool("no-links")
	if err != nil {
		return opts, err
	}
	opts.recordLinks = !noLinks

	if opts.printFormat, err = cmd.Flags().GetString("print"); err != nil {
		return opts, err
	}
	switch opts.printFormat {
	case "", "text", "markdown", "all":
	default:
		return opts, fmt.Errorf("invalid --print value %q (use text, markdown or all)", opts.printFormat)
	}
	return opts, nil
}

// applyReplayFlags overrides configuration values with the flags the user set.
func applyReplayFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if flags.Changed("report") {
		if cfg.ReportPath, err = flags.GetString("report"); err != nil {
			return err
		}
	}
	if flags.Changed("markdown-report") {
		if cfg.MarkdownReportPath, err = flags.GetString("markdown-report"); err != nil {
			return err
		}
	}
	if flags.Changed("report-every") {
		if cfg.ReportEvery, err = flags.GetInt("report-every"); err != nil {
			return err
		}
	}
	if flags.Changed("top-words") {
		if cfg.TopWords, err = flags.GetInt("top-words"); err != nil {
			return err
		}
	}
	if flags.Changed("metrics-file") {
		if cfg.MetricsFile, err = flags.GetString("metrics-file"); err != nil {
			return err
		}
	}
	return nil
}

// newReportEmitter builds the report file emitters configured by cfg.
func newReportEmitter(cfg *config.Config) stats.Emitter {
	text := report.NewTextFileEmitter(cfg.ReportPath, report.WithTopWordsHeading(cfg.TopWords))
	if cfg.MarkdownReportPath == "" {
		return text
	}
	return report.NewMultiEmitter(text, report.NewMarkdownFileEmitter(cfg.MarkdownReportPath))
}

// runReplay replays the stored pages as one run and writes the reports.
func runReplay(
	ctx context.Context,
	cfg *config.Config,
	db *database.PageDB,
	opts replayOptions,
	out io.Writer,
	logger *slog.Logger,
) error {
	collector := metrics.NewCollector(metrics.DefaultNamespace)

	st := newStatistics(cfg, logger, stats.WithEmitter(collector.WrapEmitter(newReportEmitter(cfg))))
	scraper, err := newScraper(cfg, st, collector, logger)
	if err != nil {
		return err
	}

	replayer := pipeline.NewReplayer(db, scraper,
		pipeline.WithReplayConcurrency(cfg.Concurrency),
		pipeline.WithUniqueCounter(st),
		pipeline.WithRecordLinks(opts.recordLinks),
		pipeline.WithReplayLogger(logger),
	)

	run, replayErr := replayer.Replay(ctx)

	// Statistics gathered before a cancellation still make a valid report.
	if opts.finalReport && run != nil {
		if err := st.Report(); err != nil {
			logger.Error("failed to write report", "path", cfg.ReportPath, "error", err)
			if replayErr == nil {
				replayErr = fmt.Errorf("failed to write final report: %w", err)
			}
		}
	}

	if cfg.MetricsFile != "" {
		if err := collector.WriteToTextfile(cfg.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	if run != nil {
		fmt.Fprintf(out, "Run %s: %d pages, %d failed, %d links admitted, %d rejected, %d unique pages\n",
			run.ID, run.Pages, run.Failed, run.Admitted, run.Rejected, run.UniquePages)
	}

	if err := printSnapshot(out, opts.printFormat, st.Snapshot()); err != nil {
		return err
	}

	return replayErr
}

// printSnapshot writes snap to out in the requested format.
func printSnapshot(out io.Writer, format string, snap model.Snapshot) error {
	var w report.Writer
	switch format {
	case "":
		return nil
	case "text":
		w = report.NewTextWriter(out)
	case "markdown":
		w = report.NewMarkdownWriter(out)
	case "all":
		w = report.NewMultiWriter(report.NewTextWriter(out), report.NewMarkdownWriter(out))
	}

	fmt.Fprintln(out)
	if _, err := w.Write(snap); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}
	return nil
}
