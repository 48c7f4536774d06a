// Package aicat assigns categories to transactions the dictionaries could
// not match, by asking an external classifier and validating its answer
// against the closed set of known category labels.
package aicat

import "context"

// Classifier labels a transaction description with one of the allowed
// category labels. Implementations talk to an external model service;
// the Categorizer wrapping them owns timeouts, retries and fallback, so
// implementations should return errors rather than handle them.
type Classifier interface {
	Classify(ctx context.Context, description string, allowed []string) (string, error)
}
