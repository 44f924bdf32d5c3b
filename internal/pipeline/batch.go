package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed at once when no
// WithConcurrency option is given.
const DefaultConcurrency = 10

// BatchProcessor runs one pipeline per page with bounded concurrency.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each page.
	pipelineFactory func() *Pipeline

	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent pages.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch processes every URL and returns the jobs in input order.
// Step failures are recorded on the jobs; the error is non-nil only when
// the context was cancelled, in which case pages never started are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*Job, error) {
	jobs := make([]*Job, len(urls))
	err := bp.ProcessBatchWithCallback(ctx, urls, func(job *Job, index int) {
		// Each index is written by exactly one goroutine.
		jobs[index] = job
	})
	return jobs, err
}

// ProcessBatchWithCallback processes every URL and calls callback with each
// finished job and its index in urls. The callback runs on the worker
// goroutine and must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(job *Job, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_pages", len(urls),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			job := NewJob(u)
			if err := bp.pipelineFactory().Execute(ctx, job); err != nil {
				// Recorded on the job; other pages keep going.
				bp.logger.Warn("page failed",
					"url", u,
					"error", err,
				)
			}

			callback(job, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_pages", len(urls),
		"elapsed", time.Since(startTime),
	)

	return err
}
