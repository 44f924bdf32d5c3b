package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrNoReportPath is returned when the text report path is empty.
	ErrNoReportPath = errors.New("no report path specified")

	// ErrInvalidBatchSize is returned when the report interval is negative.
	// Zero is valid and disables periodic reports.
	ErrInvalidBatchSize = errors.New("invalid report interval: must be non-negative")

	// ErrInvalidTopWords is returned when the number of report words is not
	// positive.
	ErrInvalidTopWords = errors.New("invalid top words: must be positive")

	// ErrInvalidConcurrency is returned when the replay concurrency is not
	// positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxURLLength is returned when the policy's maximum URL length
	// is negative. Zero disables the length rule.
	ErrInvalidMaxURLLength = errors.New("invalid max URL length: must be non-negative")

	// ErrNoDomains is returned when the policy has no domain suffixes, which
	// would reject every URL.
	ErrNoDomains = errors.New("no domain suffixes configured")
)
