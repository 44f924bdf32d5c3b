// Package pipeline replays stored fetch results through the crawl core.
//
// Each page is processed by a Pipeline, an ordered list of Steps sharing a
// Job: the stored result is loaded, scraped, and its link decisions are
// recorded against the current run. A BatchProcessor runs one pipeline per
// page with bounded concurrency, and a Replayer ties the batch to a run in
// the page database.
//
// Steps record page-level failures on the Job and return nil; only storage
// errors and cancellation stop a pipeline.
package pipeline
