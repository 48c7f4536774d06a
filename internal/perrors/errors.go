// Package perrors defines the typed errors used across the categorization
// pipeline. Load-time configuration problems are fatal; per-transaction
// problems never are.
package perrors

import (
	"errors"
	"fmt"
)

// ConfigError represents a fatal load-time problem with a dictionary or
// industry configuration file: missing required file, unparsable rows,
// inconsistent mappings. It aborts the whole run.
type ConfigError struct {
	File   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error in %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("config error in %s: %s", e.File, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// AIServiceError represents a failed call to the external classification
// service. Transient errors are retried once before the default category
// kicks in; permanent errors skip the retry and surface as a run warning.
type AIServiceError struct {
	Operation string
	Transient bool
	Err       error
}

func (e *AIServiceError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("ai service error (%s) during %s: %v", kind, e.Operation, e.Err)
}

func (e *AIServiceError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is an AIServiceError marked transient.
func IsTransient(err error) bool {
	var aiErr *AIServiceError
	return errors.As(err, &aiErr) && aiErr.Transient
}

// UnknownCategoryError is returned when a category cannot be resolved to a
// statement line-item by any loaded industry configuration. It signals
// dictionary/config drift and is reported to the caller, never defaulted.
type UnknownCategoryError struct {
	Category string
	Industry string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("category %q has no line-item mapping in industry config %q", e.Category, e.Industry)
}

// FormatError represents an input file that does not conform to the
// expected tabular format.
type FormatError struct {
	File     string
	Expected string
	Reason   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format in file %q: %s (expected %s)", e.File, e.Reason, e.Expected)
}
