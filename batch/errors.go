package batch

import "fmt"

// ConfigError is returned by New when the supplied Config is invalid.
// Configuration problems are fatal: no processor is constructed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("batch config: %s %s", e.Field, e.Reason)
}

// RetryError is returned when an item's retries are exhausted. It wraps the
// error from the final attempt and records how many attempts were made.
type RetryError struct {
	Attempts int
	Err      error
}

func (e RetryError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e RetryError) Unwrap() error {
	return e.Err
}
