package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/scopecrawl/internal/database"
	"github.com/nao1215/scopecrawl/internal/model"
)

// PageLoader reads stored fetch results.
type PageLoader interface {
	GetPage(ctx context.Context, url string) (*database.PageRecord, error)
}

// Processor runs one fetch result through the crawl core.
type Processor interface {
	Process(requestURL string, res *model.FetchResult) model.Outcome
}

// LinkRecorder stores the link decisions of a page.
type LinkRecorder interface {
	InsertLinks(ctx context.Context, runID string, out model.Outcome) error
}

// LoadStep loads the job's fetch result from the page database.
// Jobs that already carry a result are left untouched.
type LoadStep struct {
	loader PageLoader
}

// NewLoadStep creates a LoadStep reading from loader.
func NewLoadStep(loader PageLoader) *LoadStep {
	return &LoadStep{loader: loader}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(ctx context.Context, job *Job) error {
	if job.Result != nil {
		return nil
	}

	rec, err := s.loader.GetPage(ctx, job.URL)
	if err != nil {
		return fmt.Errorf("load %s: %w", job.URL, err)
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrPageNotFound, job.URL)
	}

	res := rec.Result
	job.Result = &res
	return nil
}

// ScrapeStep runs the job's fetch result through a Processor.
// A failed scrape is recorded in the outcome, never returned.
type ScrapeStep struct {
	processor Processor
}

// NewScrapeStep creates a ScrapeStep using processor.
func NewScrapeStep(processor Processor) *ScrapeStep {
	return &ScrapeStep{processor: processor}
}

// Name returns the step name.
func (s *ScrapeStep) Name() string {
	return "scrape"
}

// Do executes the scrape step.
func (s *ScrapeStep) Do(_ context.Context, job *Job) error {
	job.Outcome = s.processor.Process(job.URL, job.Result)
	return nil
}

// RecordLinksStep stores the admitted and rejected links of the job's
// outcome under a run.
type RecordLinksStep struct {
	recorder LinkRecorder
	runID    string
}

// NewRecordLinksStep creates a RecordLinksStep writing to recorder under runID.
func NewRecordLinksStep(recorder LinkRecorder, runID string) *RecordLinksStep {
	return &RecordLinksStep{recorder: recorder, runID: runID}
}

// Name returns the step name.
func (s *RecordLinksStep) Name() string {
	return "record_links"
}

// Do executes the record step.
func (s *RecordLinksStep) Do(ctx context.Context, job *Job) error {
	if s.runID == "" {
		return ErrNoRun
	}
	if err := s.recorder.InsertLinks(ctx, s.runID, job.Outcome); err != nil {
		return fmt.Errorf("record links of %s: %w", job.URL, err)
	}
	return nil
}
