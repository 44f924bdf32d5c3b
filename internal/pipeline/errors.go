package pipeline

import "errors"

// ErrPageNotFound is returned when a replayed URL has no stored fetch result.
var ErrPageNotFound = errors.New("page not found in database")

// ErrNoRun is returned when links are recorded without a run.
var ErrNoRun = errors.New("no run to record links against")
