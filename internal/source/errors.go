package source

import "fmt"

// SourceUnavailable reports a failed upstream call: a transport error or a
// non-2xx response. Retryable by the backoff executor.
type SourceUnavailable struct {
	Status int // HTTP status, 0 for transport failures
	URL    string
	Err    error
}

func (e *SourceUnavailable) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("source unavailable: %s returned %d", e.URL, e.Status)
	}
	return fmt.Sprintf("source unavailable: %s: %v", e.URL, e.Err)
}

func (e *SourceUnavailable) Unwrap() error {
	return e.Err
}

// SourceShapeError reports a 200 response missing an expected structural
// field. Adapters degrade individual rows to zero values; only a missing
// structural collection raises this error.
type SourceShapeError struct {
	Source string
	Field  string
}

func (e *SourceShapeError) Error() string {
	return fmt.Sprintf("%s payload missing %q", e.Source, e.Field)
}
