package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/scopecrawl/internal/database"
)

// Store is the page database as seen by a replay.
type Store interface {
	PageLoader
	LinkRecorder
	ListPageURLs(ctx context.Context) ([]string, error)
	StartRun(ctx context.Context) (*database.Run, error)
	FinishRun(ctx context.Context, run *database.Run) error
}

// UniqueCounter reports the number of distinct pages recorded so far.
type UniqueCounter interface {
	UniquePages() int
}

// Replayer runs every stored page through a Processor as one run.
type Replayer struct {
	store       Store
	processor   Processor
	unique      UniqueCounter
	concurrency int
	recordLinks bool
	logger      *slog.Logger
}

// ReplayOption configures a Replayer.
type ReplayOption func(*Replayer)

// WithReplayConcurrency sets the number of pages processed at once.
func WithReplayConcurrency(n int) ReplayOption {
	return func(r *Replayer) {
		r.concurrency = n
	}
}

// WithUniqueCounter sets the source of the run's unique page count.
func WithUniqueCounter(u UniqueCounter) ReplayOption {
	return func(r *Replayer) {
		r.unique = u
	}
}

// WithRecordLinks controls whether link decisions are stored. Default true.
func WithRecordLinks(record bool) ReplayOption {
	return func(r *Replayer) {
		r.recordLinks = record
	}
}

// WithReplayLogger sets a custom logger.
func WithReplayLogger(logger *slog.Logger) ReplayOption {
	return func(r *Replayer) {
		r.logger = logger
	}
}

// NewReplayer creates a Replayer reading pages from store.
func NewReplayer(store Store, processor Processor, opts ...ReplayOption) *Replayer {
	r := &Replayer{
		store:       store,
		processor:   processor,
		concurrency: DefaultConcurrency,
		recordLinks: true,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Replay starts a run, processes every stored page and finishes the run
// with its counters. The run is finished even when ctx is cancelled
// midway; the returned error then wraps the context error.
func (r *Replayer) Replay(ctx context.Context) (*database.Run, error) {
	urls, err := r.store.ListPageURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	run, err := r.store.StartRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}

	r.logger.Info("replay started",
		"run", run.ID,
		"pages", len(urls),
	)

	bp := NewBatchProcessor(r.newPipeline(run.ID),
		WithConcurrency(r.concurrency),
		WithBatchLogger(r.logger),
	)

	var mu sync.Mutex
	batchErr := bp.ProcessBatchWithCallback(ctx, urls, func(job *Job, _ int) {
		mu.Lock()
		defer mu.Unlock()

		run.Pages++
		if job.Err != nil || job.Outcome.Failed() {
			run.Failed++
		}
		run.Admitted += len(job.Outcome.Links)
		run.Rejected += len(job.Outcome.Rejected)
	})

	if r.unique != nil {
		run.UniquePages = r.unique.UniquePages()
	}
	run.FinishedAt = time.Now()

	// The run is closed even when the batch was cancelled.
	if err := r.store.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		return run, errors.Join(batchErr, fmt.Errorf("finish run: %w", err))
	}

	r.logger.Info("replay finished",
		"run", run.ID,
		"pages", run.Pages,
		"failed", run.Failed,
		"admitted", run.Admitted,
		"rejected", run.Rejected,
	)

	if batchErr != nil {
		return run, fmt.Errorf("replay cancelled: %w", batchErr)
	}
	return run, nil
}

func (r *Replayer) newPipeline(runID string) func() *Pipeline {
	return func() *Pipeline {
		p := New(WithLogger(r.logger))
		p.AddSteps(NewLoadStep(r.store), NewScrapeStep(r.processor))
		if r.recordLinks {
			p.AddStep(NewRecordLinksStep(r.store, runID))
		}
		return p
	}
}
