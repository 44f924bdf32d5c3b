package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/scopecrawl/internal/model"
)

// Job carries one page through a pipeline.
type Job struct {
	// URL is the request URL of the page.
	URL string

	// Result is the stored fetch result, filled by LoadStep.
	Result *model.FetchResult

	// Outcome is the scraper result, filled by ScrapeStep.
	Outcome model.Outcome

	// Err is the first step error, if any.
	Err error

	// Cancelled is set when the context ended before every step ran.
	Cancelled bool

	// PerformedSteps lists the names of the steps that ran, in order.
	PerformedSteps []string
}

// NewJob creates a Job for requestURL.
func NewJob(requestURL string) *Job {
	return &Job{URL: requestURL}
}

// Step is one stage of page processing.
type Step interface {
	// Do executes the step. Page-level failures are recorded on the job
	// and return nil.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps executing the remaining steps after a failure.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence. The context is checked before each
// step. It returns the first step error unless continueOnError is set.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"url", job.URL,
				"reason", ctx.Err(),
			)
			job.Cancelled = true
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", job.URL,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", job.URL,
				"error", err,
			)

			if job.Err == nil {
				job.Err = err
			}
			if !p.continueOnError {
				return err
			}
		}

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
