package stats

import (
	"cmp"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/scopecrawl/internal/model"
)

// Defaults used by NewCrawlStatistics.
const (
	DefaultReportEvery = 50
	DefaultTopWords    = 50
	DefaultRootDomain  = "uci.edu"
)

// Emitter writes a statistics snapshot somewhere.
type Emitter interface {
	Emit(snap model.Snapshot) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(snap model.Snapshot) error

// Emit calls f(snap).
func (f EmitterFunc) Emit(snap model.Snapshot) error {
	return f(snap)
}

type wordEntry struct {
	count int
	seq   int
}

// CrawlStatistics holds the statistics of every page recorded so far.
// Every counter only increases.
type CrawlStatistics struct {
	mu           sync.Mutex
	uniquePages  map[string]struct{}
	longest      model.LongestPage
	words        map[string]*wordEntry
	nextSeq      int
	subdomains   map[string]int
	lastReported int
	snapSeq      uint64

	// emitMu serializes emitter calls; lastEmitted is the sequence number
	// of the newest snapshot written.
	emitMu      sync.Mutex
	lastEmitted uint64

	reportEvery int
	topWords    int
	rootDomain  string
	emitter     Emitter
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a CrawlStatistics.
type Option func(*CrawlStatistics)

// WithReportEvery sets the unique-page interval at which the emitter runs.
// Zero disables periodic reports.
func WithReportEvery(n int) Option {
	return func(c *CrawlStatistics) {
		c.reportEvery = n
	}
}

// WithTopWords sets the number of words kept in a snapshot.
func WithTopWords(n int) Option {
	return func(c *CrawlStatistics) {
		c.topWords = n
	}
}

// WithRootDomain sets the domain a host must contain to be counted as a
// subdomain. An empty domain counts every host.
func WithRootDomain(domain string) Option {
	return func(c *CrawlStatistics) {
		c.rootDomain = strings.ToLower(domain)
	}
}

// WithEmitter sets the emitter called at every report boundary.
func WithEmitter(e Emitter) Option {
	return func(c *CrawlStatistics) {
		c.emitter = e
	}
}

// WithLogger sets the logger for progress lines and emit failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CrawlStatistics) {
		c.logger = logger
	}
}

// WithClock sets the time source stamped on snapshots.
func WithClock(now func() time.Time) Option {
	return func(c *CrawlStatistics) {
		c.now = now
	}
}

// NewCrawlStatistics creates an empty CrawlStatistics.
func NewCrawlStatistics(opts ...Option) *CrawlStatistics {
	c := &CrawlStatistics{
		uniquePages: make(map[string]struct{}),
		words:       make(map[string]*wordEntry),
		subdomains:  make(map[string]int),
		reportEvery: DefaultReportEvery,
		topWords:    DefaultTopWords,
		rootDomain:  DefaultRootDomain,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Record applies one page to the statistics. requestURL is the URL the page
// was requested with; words are its valid words in document order.
//
// When the unique-page count reaches a multiple of the report interval for
// the first time, Record logs a progress line and calls the emitter before
// returning. Emit failures are logged and swallowed.
func (c *CrawlStatistics) Record(requestURL string, words []string) {
	key, host := pageKey(requestURL)
	counts, order := tally(words)

	c.mu.Lock()

	c.uniquePages[key] = struct{}{}

	if len(words) > c.longest.Words {
		c.longest = model.LongestPage{URL: requestURL, Words: len(words)}
	}

	for _, w := range order {
		e, ok := c.words[w]
		if !ok {
			e = &wordEntry{seq: c.nextSeq}
			c.nextSeq++
			c.words[w] = e
		}
		e.count += counts[w]
	}

	if host != "" && strings.Contains(host, c.rootDomain) {
		c.subdomains[host]++
	}

	var snap model.Snapshot
	var seq uint64
	n := len(c.uniquePages)
	report := c.reportEvery > 0 && n%c.reportEvery == 0 && n > c.lastReported
	if report {
		c.lastReported = n
		snap, seq = c.snapshotLocked()
	}

	c.mu.Unlock()

	if report {
		c.logger.Info("crawl progress", "unique", snap.UniquePages, "longest_words", snap.LongestPage.Words)
		if err := c.emit(snap, seq); err != nil {
			c.logger.Error("failed to write report", "unique", snap.UniquePages, "error", err)
		}
	}
}

// Report emits the current snapshot regardless of the report interval.
// Unlike the periodic reports it returns the emitter's error.
func (c *CrawlStatistics) Report() error {
	c.mu.Lock()
	snap, seq := c.snapshotLocked()
	c.mu.Unlock()

	return c.emit(snap, seq)
}

// Snapshot returns a consistent copy of the statistics.
func (c *CrawlStatistics) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, _ := c.snapshotLocked()
	return snap
}

// UniquePages returns the number of distinct fragment-stripped request URLs.
func (c *CrawlStatistics) UniquePages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.uniquePages)
}

// LongestPage returns the page with the most valid words.
func (c *CrawlStatistics) LongestPage() model.LongestPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.longest
}

// WordCount returns the cumulative count of word.
func (c *CrawlStatistics) WordCount(word string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.words[word]; ok {
		return e.count
	}
	return 0
}

// SubdomainCount returns the number of pages recorded for host.
func (c *CrawlStatistics) SubdomainCount(host string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subdomains[strings.ToLower(host)]
}

// snapshotLocked copies the statistics. c.mu must be held.
func (c *CrawlStatistics) snapshotLocked() (model.Snapshot, uint64) {
	c.snapSeq++

	top := make([]model.WordCount, 0, len(c.words))
	for w, e := range c.words {
		top = append(top, model.WordCount{Word: w, Count: e.count})
	}
	slices.SortFunc(top, func(a, b model.WordCount) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return cmp.Compare(c.words[a.Word].seq, c.words[b.Word].seq)
	})
	if c.topWords >= 0 && len(top) > c.topWords {
		top = top[:c.topWords]
	}

	subs := make([]model.SubdomainCount, 0, len(c.subdomains))
	for h, n := range c.subdomains {
		subs = append(subs, model.SubdomainCount{Subdomain: h, Count: n})
	}
	slices.SortFunc(subs, func(a, b model.SubdomainCount) int {
		return strings.Compare(a.Subdomain, b.Subdomain)
	})

	return model.Snapshot{
		UniquePages: len(c.uniquePages),
		LongestPage: c.longest,
		TopWords:    top,
		Subdomains:  subs,
		TakenAt:     c.now(),
	}, c.snapSeq
}

// emit writes snap unless a newer snapshot has already been written.
func (c *CrawlStatistics) emit(snap model.Snapshot, seq uint64) error {
	if c.emitter == nil {
		return nil
	}

	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	if seq <= c.lastEmitted {
		c.logger.Debug("skipping stale report", "unique", snap.UniquePages)
		return nil
	}
	if err := c.emitter.Emit(snap); err != nil {
		return err
	}
	c.lastEmitted = seq
	return nil
}

// pageKey returns the fragment-stripped request URL and its lowercase host.
func pageKey(requestURL string) (string, string) {
	key, _, _ := strings.Cut(requestURL, "#")
	u, err := url.Parse(requestURL)
	if err != nil {
		return key, ""
	}
	return key, strings.ToLower(u.Hostname())
}

// tally counts words and returns the distinct words in first-seen order.
func tally(words []string) (map[string]int, []string) {
	counts := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, w := range words {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	return counts, order
}
