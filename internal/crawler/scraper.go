package crawler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nao1215/scopecrawl/internal/model"
	"github.com/nao1215/scopecrawl/internal/policy"
)

// Recorder receives the statistics update of every successfully parsed page.
type Recorder interface {
	Record(requestURL string, words []string)
}

// Observer is notified of every page outcome and every link decision.
type Observer interface {
	ObservePage(reason model.FailureReason)
	ObserveLink(verdict policy.Verdict)
}

// Scraper is the per-page entry point of the crawl core.
type Scraper struct {
	recorder  Recorder
	policy    *policy.Policy
	tokenizer *Tokenizer
	observer  Observer
	logger    *slog.Logger
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// WithObserver sets the observer notified of outcomes and link verdicts.
func WithObserver(o Observer) ScraperOption {
	return func(s *Scraper) {
		s.observer = o
	}
}

// WithLogger sets the logger for parse failures.
func WithLogger(logger *slog.Logger) ScraperOption {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// NewScraper creates a Scraper feeding rec and filtering links with p.
// A nil policy selects policy.Default and a nil tokenizer the default stop
// words.
func NewScraper(rec Recorder, p *policy.Policy, tok *Tokenizer, opts ...ScraperOption) *Scraper {
	if p == nil {
		p = policy.Default()
	}
	if tok == nil {
		tok = NewTokenizer(nil)
	}
	s := &Scraper{
		recorder:  rec,
		policy:    p,
		tokenizer: tok,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape returns the admissible links of the page fetched from requestURL.
// It returns an empty list on any failure.
func (s *Scraper) Scrape(requestURL string, res *model.FetchResult) []string {
	return s.Process(requestURL, res).Links
}

// Process runs one page through extraction, statistics and the policy.
// Statistics are recorded only when the page was fetched and parsed.
func (s *Scraper) Process(requestURL string, res *model.FetchResult) model.Outcome {
	out := s.process(requestURL, res)
	if s.observer != nil {
		s.observer.ObservePage(out.Reason)
	}
	return out
}

func (s *Scraper) process(requestURL string, res *model.FetchResult) model.Outcome {
	key, _, _ := strings.Cut(requestURL, "#")
	out := model.Outcome{
		URL:      key,
		Links:    make([]string, 0),
		Rejected: make(map[string]string),
	}

	switch {
	case res == nil:
		return fail(out, model.ReasonEmptyBody, ErrEmptyBody)
	case res.StatusCode != http.StatusOK:
		return fail(out, model.ReasonFetchStatus, fmt.Errorf("%w: %d", ErrFetchStatus, res.StatusCode))
	case res.Error != "":
		return fail(out, model.ReasonFetchError, fmt.Errorf("%w: %s", ErrFetchError, res.Error))
	case len(res.Content) == 0:
		return fail(out, model.ReasonEmptyBody, ErrEmptyBody)
	}

	base, err := url.Parse(requestURL)
	if err != nil {
		s.logger.Warn("failed to parse page", "url", requestURL, "error", err)
		return fail(out, model.ReasonBadRequestURL, fmt.Errorf("%w: %w", ErrBadRequestURL, err))
	}

	page, err := (&Parser{baseURL: base}).ParseBytes(res.Content, res.ContentType)
	if err != nil {
		s.logger.Warn("failed to parse page", "url", requestURL, "error", err)
		return fail(out, model.ReasonParse, fmt.Errorf("parse %s: %w", requestURL, err))
	}

	words := s.tokenizer.Tokenize(page.Text)
	out.Words = len(words)
	if s.recorder != nil {
		s.recorder.Record(requestURL, words)
	}

	out.Candidates = len(page.Links)
	for _, link := range page.Links {
		v := s.policy.Check(link)
		if s.observer != nil {
			s.observer.ObserveLink(v)
		}
		if v.Admitted {
			out.Links = append(out.Links, link)
		} else {
			out.Rejected[link] = string(v.Rule)
		}
	}

	s.logger.Debug("page scraped",
		"url", out.URL,
		"charset", page.Charset,
		"words", out.Words,
		"candidates", out.Candidates,
		"admitted", len(out.Links),
	)

	return out
}

func fail(out model.Outcome, reason model.FailureReason, err error) model.Outcome {
	out.Reason = reason
	out.Err = err
	return out
}
