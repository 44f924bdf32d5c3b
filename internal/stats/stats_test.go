package stats

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/scopecrawl/internal/model"
)

type captureEmitter struct {
	mu    sync.Mutex
	snaps []model.Snapshot
	err   error
}

func (e *captureEmitter) Emit(snap model.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snaps = append(e.snaps, snap)
	return e.err
}

func (e *captureEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.snaps)
}

func newTestStats(t *testing.T, opts ...Option) *CrawlStatistics {
	t.Helper()

	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }),
	}
	return NewCrawlStatistics(append(base, opts...)...)
}

func words(n int) []string {
	return strings.Fields(strings.Repeat("word ", n))
}

// TestRecord tests the statistics update of single pages.
func TestRecord(t *testing.T) {
	t.Parallel()

	t.Run("deduplicates fragment-stripped request URLs", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t)
		st.Record("http://www.ics.uci.edu/page", []string{"alpha"})
		st.Record("http://www.ics.uci.edu/page#section", []string{"alpha"})
		st.Record("http://www.ics.uci.edu/page", nil)

		if got := st.UniquePages(); got != 1 {
			t.Errorf("UniquePages() = %d, want 1", got)
		}
		// Every visit still counts toward words and subdomains.
		if got := st.WordCount("alpha"); got != 2 {
			t.Errorf("WordCount(alpha) = %d, want 2", got)
		}
		if got := st.SubdomainCount("www.ics.uci.edu"); got != 3 {
			t.Errorf("SubdomainCount = %d, want 3", got)
		}
	})

	t.Run("keeps the first strictly longest page", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t)
		for i, n := range []int{5, 12, 3, 12, 20} {
			st.Record(fmt.Sprintf("http://www.ics.uci.edu/p%d", i+1), words(n))
		}

		got := st.LongestPage()
		if got.Words != 20 || got.URL != "http://www.ics.uci.edu/p5" {
			t.Errorf("LongestPage() = %+v", got)
		}
	})

	t.Run("ties keep the earlier page", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t)
		st.Record("http://www.ics.uci.edu/first", words(7))
		st.Record("http://www.ics.uci.edu/second", words(7))

		if got := st.LongestPage().URL; got != "http://www.ics.uci.edu/first" {
			t.Errorf("LongestPage().URL = %q", got)
		}
	})

	t.Run("counts only hosts containing the root domain", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t)
		st.Record("http://WWW.ICS.UCI.EDU/a", nil)
		st.Record("http://www.ics.uci.edu:8080/b", nil)
		st.Record("http://example.com/c", nil)
		st.Record("not a url %zz", nil)

		snap := st.Snapshot()
		want := []model.SubdomainCount{{Subdomain: "www.ics.uci.edu", Count: 2}}
		if len(snap.Subdomains) != 1 || snap.Subdomains[0] != want[0] {
			t.Errorf("Subdomains = %+v, want %+v", snap.Subdomains, want)
		}
		if snap.UniquePages != 4 {
			t.Errorf("UniquePages = %d, want 4", snap.UniquePages)
		}
	})

	t.Run("custom root domain", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t, WithRootDomain("Example.COM"))
		st.Record("http://blog.example.com/", nil)
		st.Record("http://www.ics.uci.edu/", nil)

		if st.SubdomainCount("blog.example.com") != 1 || st.SubdomainCount("www.ics.uci.edu") != 0 {
			t.Errorf("unexpected subdomains %+v", st.Snapshot().Subdomains)
		}
	})
}

func TestMonotonicity(t *testing.T) {
	t.Parallel()

	st := newTestStats(t)
	pages := []struct {
		url   string
		words []string
	}{
		{"http://www.ics.uci.edu/a", []string{"x", "y"}},
		{"http://www.ics.uci.edu/a#dup", []string{"y"}},
		{"http://vision.ics.uci.edu/b", nil},
		{"http://www.ics.uci.edu/c", []string{"z", "x"}},
	}

	prev := st.Snapshot()
	for _, p := range pages {
		st.Record(p.url, p.words)
		cur := st.Snapshot()

		if cur.UniquePages < prev.UniquePages {
			t.Errorf("unique pages decreased: %d -> %d", prev.UniquePages, cur.UniquePages)
		}
		for _, w := range prev.TopWords {
			if st.WordCount(w.Word) < w.Count {
				t.Errorf("count of %q decreased", w.Word)
			}
		}
		for _, s := range prev.Subdomains {
			if st.SubdomainCount(s.Subdomain) < s.Count {
				t.Errorf("count of %q decreased", s.Subdomain)
			}
		}
		prev = cur
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("orders top words by count then first-seen", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t)
		st.Record("http://www.ics.uci.edu/1", []string{"zeta", "alpha", "mid", "zeta"})
		st.Record("http://www.ics.uci.edu/2", []string{"beta", "alpha", "mid"})

		got := st.Snapshot().TopWords
		want := []model.WordCount{
			{Word: "zeta", Count: 2},
			{Word: "alpha", Count: 2},
			{Word: "mid", Count: 2},
			{Word: "beta", Count: 1},
		}
		if len(got) != len(want) {
			t.Fatalf("TopWords = %+v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("TopWords[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("limits top words", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t, WithTopWords(2))
		st.Record("http://www.ics.uci.edu/", []string{"a1", "b1", "c1"})

		if got := len(st.Snapshot().TopWords); got != 2 {
			t.Errorf("expected 2 top words, got %d", got)
		}
	})

	t.Run("sorts subdomains alphabetically", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t)
		for _, u := range []string{"http://www.stat.uci.edu/", "http://archive.ics.uci.edu/", "http://cs.uci.edu/"} {
			st.Record(u, nil)
		}

		subs := st.Snapshot().Subdomains
		got := make([]string, len(subs))
		for i, s := range subs {
			got[i] = s.Subdomain
		}
		if strings.Join(got, ",") != "archive.ics.uci.edu,cs.uci.edu,www.stat.uci.edu" {
			t.Errorf("Subdomains = %v", got)
		}
	})

	t.Run("is a copy", func(t *testing.T) {
		t.Parallel()

		st := newTestStats(t)
		st.Record("http://www.ics.uci.edu/", []string{"alpha"})
		snap := st.Snapshot()
		snap.TopWords[0].Count = 100

		if st.WordCount("alpha") != 1 {
			t.Error("mutating a snapshot changed the statistics")
		}
	})
}

// TestReportTrigger tests emission at report boundaries.
func TestReportTrigger(t *testing.T) {
	t.Parallel()

	t.Run("emits at every multiple of the interval", func(t *testing.T) {
		t.Parallel()

		em := &captureEmitter{}
		st := newTestStats(t, WithReportEvery(50), WithEmitter(em))

		for i := range 149 {
			st.Record(fmt.Sprintf("http://www.ics.uci.edu/%d", i), nil)
		}

		if em.count() != 2 {
			t.Fatalf("expected 2 reports, got %d", em.count())
		}
		if em.snaps[0].UniquePages != 50 || em.snaps[1].UniquePages != 100 {
			t.Errorf("unexpected report sizes %d, %d", em.snaps[0].UniquePages, em.snaps[1].UniquePages)
		}
	})

	t.Run("duplicate page at a boundary does not re-trigger", func(t *testing.T) {
		t.Parallel()

		em := &captureEmitter{}
		st := newTestStats(t, WithReportEvery(2), WithEmitter(em))

		st.Record("http://www.ics.uci.edu/a", nil)
		st.Record("http://www.ics.uci.edu/b", nil)
		st.Record("http://www.ics.uci.edu/b", nil)
		st.Record("http://www.ics.uci.edu/b#again", nil)

		if em.count() != 1 {
			t.Errorf("expected 1 report, got %d", em.count())
		}
	})

	t.Run("emit failures are swallowed and retried at the next boundary", func(t *testing.T) {
		t.Parallel()

		em := &captureEmitter{err: errors.New("disk full")}
		st := newTestStats(t, WithReportEvery(1), WithEmitter(em))

		st.Record("http://www.ics.uci.edu/a", nil)
		st.Record("http://www.ics.uci.edu/b", nil)

		if em.count() != 2 {
			t.Errorf("expected 2 attempts, got %d", em.count())
		}
		if st.UniquePages() != 2 {
			t.Errorf("statistics were lost after a failed emit")
		}
	})

	t.Run("zero interval disables periodic reports", func(t *testing.T) {
		t.Parallel()

		em := &captureEmitter{}
		st := newTestStats(t, WithReportEvery(0), WithEmitter(em))
		for i := range 10 {
			st.Record(fmt.Sprintf("http://www.ics.uci.edu/%d", i), nil)
		}

		if em.count() != 0 {
			t.Errorf("expected no reports, got %d", em.count())
		}
	})

	t.Run("concurrent boundaries are each reported once", func(t *testing.T) {
		t.Parallel()

		em := &captureEmitter{}
		st := newTestStats(t, WithReportEvery(10), WithEmitter(em))

		var wg sync.WaitGroup
		for i := range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				st.Record(fmt.Sprintf("http://www.ics.uci.edu/%d", i), []string{"word"})
			}()
		}
		wg.Wait()

		// Stale snapshots may be dropped, duplicates never happen.
		seen := make(map[int]bool)
		last := 0
		for _, s := range em.snaps {
			if seen[s.UniquePages] {
				t.Errorf("boundary %d reported twice", s.UniquePages)
			}
			seen[s.UniquePages] = true
			if s.UniquePages <= last {
				t.Errorf("report %d written after %d", s.UniquePages, last)
			}
			last = s.UniquePages
		}
		if !seen[100] {
			t.Error("expected the final boundary to be reported")
		}
		if st.WordCount("word") != 100 {
			t.Errorf("WordCount = %d, want 100", st.WordCount("word"))
		}
	})
}

func TestReport(t *testing.T) {
	t.Parallel()

	t.Run("writes the current snapshot", func(t *testing.T) {
		t.Parallel()

		em := &captureEmitter{}
		st := newTestStats(t, WithEmitter(em))
		st.Record("http://www.ics.uci.edu/", []string{"alpha"})

		if err := st.Report(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if em.count() != 1 || em.snaps[0].UniquePages != 1 {
			t.Errorf("unexpected reports %+v", em.snaps)
		}
		if !em.snaps[0].TakenAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
			t.Errorf("TakenAt = %v", em.snaps[0].TakenAt)
		}
	})

	t.Run("returns emitter errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		st := newTestStats(t, WithEmitter(EmitterFunc(func(model.Snapshot) error { return boom })))

		if err := st.Report(); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("no emitter is a no-op", func(t *testing.T) {
		t.Parallel()

		if err := newTestStats(t).Report(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
