package detect

import (
	"fmt"
	"time"
)

// The orchestrator converts every analysis-layer failure into one of
// these types; nothing below it terminates a request abnormally.

// ValidationError means the request itself is malformed. The client must
// fix and resend; it is never retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InvalidDataError means the sample data is inconsistent with the
// headers for every row.
type InvalidDataError struct {
	Msg string
}

func (e *InvalidDataError) Error() string { return e.Msg }

// RateLimitError means the caller exceeded its request window. Transient;
// retry after the window resets.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter.Round(time.Second))
}

// InvariantError means an assembled result failed internal validation.
// It indicates a logic defect and is surfaced as a generic failure.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return e.Msg }
