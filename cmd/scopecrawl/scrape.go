package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/nao1215/scopecrawl/internal/config"
	"github.com/nao1215/scopecrawl/internal/crawler"
	"github.com/nao1215/scopecrawl/internal/model"
	"github.com/nao1215/scopecrawl/internal/stats"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one fetched page through the scraper",
		Long: `Scrape treats a local file as the body of a fetch result and runs it
through the scraper: links are extracted and resolved against the request
URL, words are counted, and every candidate link is checked against the
admissibility policy. Admitted links are printed one per line.

A fetch result whose status is not 200, or that carries an error, yields no
links, exactly as it would during a crawl.

Examples:
  scopecrawl scrape --url http://www.ics.uci.edu/ --file index.html
  curl -s http://www.ics.uci.edu/ | scopecrawl scrape --url http://www.ics.uci.edu/ --file -
  scopecrawl scrape --url http://www.ics.uci.edu/ --file index.html --rejected`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	cmd.Flags().StringP("url", "u", "", "Request URL of the page (required)")
	cmd.Flags().StringP("file", "f", "", "File holding the page body, - for standard input (required)")
	cmd.Flags().IntP("status", "s", http.StatusOK, "HTTP status of the fetch")
	cmd.Flags().String("content-type", "", "Content-Type header of the fetch")
	cmd.Flags().String("error", "", "Fetcher error message, marks the fetch as failed")
	cmd.Flags().Bool("rejected", false, "Also print rejected links with the rejecting rule")
	cmd.Flags().Bool("words", false, "Print the page's word count and top words")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := newLogger(cmd, cfg)

	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	if file == "" {
		return errors.New("--file is required")
	}

	res, err := fetchResultFromFlags(cmd, file)
	if err != nil {
		return err
	}

	showRejected, err := cmd.Flags().GetBool("rejected")
	if err != nil {
		return err
	}
	showWords, err := cmd.Flags().GetBool("words")
	if err != nil {
		return err
	}

	st := newStatistics(cfg, logger, stats.WithReportEvery(0))
	scraper, err := newScraper(cfg, st, nil, logger)
	if err != nil {
		return err
	}

	out := scraper.Process(res.URL, res)
	if out.Failed() {
		logger.Warn("page yielded no links", "url", res.URL, "reason", out.Reason.String(), "error", out.Err)
	}

	w := cmd.OutOrStdout()
	for _, link := range out.Links {
		fmt.Fprintln(w, link)
	}
	if showRejected {
		rejected := make([]string, 0, len(out.Rejected))
		for link := range out.Rejected {
			rejected = append(rejected, link)
		}
		slices.Sort(rejected)
		for _, link := range rejected {
			fmt.Fprintf(w, "REJECT %s %s\n", out.Rejected[link], link)
		}
	}
	if showWords {
		writeWordSummary(w, st.Snapshot(), out.Words)
	}
	return nil
}

// fetchResultFromFlags assembles a FetchResult from the fetch flags and the
// body stored at path. An empty path leaves the body empty.
func fetchResultFromFlags(cmd *cobra.Command, path string) (*model.FetchResult, error) {
	requestURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return nil, err
	}
	if requestURL == "" {
		return nil, errors.New("--url is required")
	}

	status, err := cmd.Flags().GetInt("status")
	if err != nil {
		return nil, err
	}
	contentType, err := cmd.Flags().GetString("content-type")
	if err != nil {
		return nil, err
	}
	fetchErr, err := cmd.Flags().GetString("error")
	if err != nil {
		return nil, err
	}

	var content []byte
	if path != "" {
		content, err = readBody(cmd.InOrStdin(), path)
		if err != nil {
			return nil, err
		}
	}

	return &model.FetchResult{
		URL:         requestURL,
		StatusCode:  status,
		Error:       fetchErr,
		ContentType: contentType,
		Content:     content,
	}, nil
}

// readBody reads the page body from path, or from stdin when path is "-".
func readBody(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // User-provided page path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read page file: %w", err)
	}
	return data, nil
}

func writeWordSummary(w io.Writer, snap model.Snapshot, words int) {
	fmt.Fprintf(w, "\nWord Count: %d\n", words)
	for _, wc := range snap.TopWords {
		fmt.Fprintf(w, "%s: %d\n", wc.Word, wc.Count)
	}
}

// newStatistics creates the statistics aggregator configured by cfg.
// Extra options are applied last.
func newStatistics(cfg *config.Config, logger *slog.Logger, opts ...stats.Option) *stats.CrawlStatistics {
	base := []stats.Option{
		stats.WithReportEvery(cfg.ReportEvery),
		stats.WithTopWords(cfg.TopWords),
		stats.WithRootDomain(cfg.RootDomain),
		stats.WithLogger(logger),
	}
	return stats.NewCrawlStatistics(append(base, opts...)...)
}

// newScraper creates a scraper over cfg's policy and stop words.
func newScraper(cfg *config.Config, rec crawler.Recorder, observer crawler.Observer, logger *slog.Logger) (*crawler.Scraper, error) {
	p, err := newPolicy(cfg)
	if err != nil {
		return nil, err
	}

	opts := []crawler.ScraperOption{crawler.WithLogger(logger)}
	if observer != nil {
		opts = append(opts, crawler.WithObserver(observer))
	}
	return crawler.NewScraper(rec, p, crawler.NewTokenizer(cfg.StopWords), opts...), nil
}
