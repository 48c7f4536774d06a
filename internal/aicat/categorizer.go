package aicat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/models"
	"mlaurent/stmt-categorize/internal/normalize"
	"mlaurent/stmt-categorize/internal/perrors"
)

// Options configures the categorizer's fallback and retry behavior.
type Options struct {
	// DefaultCategory is assigned whenever the classifier is unavailable,
	// fails, or answers outside the allowed set.
	DefaultCategory string
	// Confidence is the fixed confidence recorded for accepted classifier
	// answers. The external service reports no score of its own.
	Confidence float64
	// Timeout bounds each individual classifier call. Zero disables the
	// per-call deadline.
	Timeout time.Duration
}

// Result is the outcome of one categorization attempt. A Result always
// carries a usable category; Err records the cause when the default had to
// be assigned, for auditing only.
type Result struct {
	Category   string
	Confidence float64
	Source     models.MatchSource
	Err        error
}

// Categorizer wraps a Classifier with the batch-survival policy: every
// call produces a category, transient failures get exactly one retry, and
// anything else degrades to the default category instead of an error.
type Categorizer struct {
	classifier Classifier
	allowed    []string
	lookup     map[string]string
	opts       Options
	logger     logging.Logger
}

// New builds a Categorizer over the given classifier and allowed label
// set. A nil classifier is valid and yields the default category for every
// call, which is how the pipeline runs with AI disabled.
func New(classifier Classifier, allowed []string, opts Options, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}

	lookup := make(map[string]string, len(allowed))
	for _, label := range allowed {
		lookup[normalize.Fold(label)] = label
	}

	return &Categorizer{
		classifier: classifier,
		allowed:    allowed,
		lookup:     lookup,
		opts:       opts,
		logger:     logger,
	}
}

// Enabled reports whether a classifier is wired in.
func (c *Categorizer) Enabled() bool {
	return c.classifier != nil
}

// Default returns the configured fallback category.
func (c *Categorizer) Default() string {
	return c.opts.DefaultCategory
}

// Categorize labels one short description. It never returns an error:
// classifier failures, timeouts and invalid answers all degrade to the
// default category with the cause recorded in Result.Err.
func (c *Categorizer) Categorize(ctx context.Context, shortDesc string) Result {
	if c.classifier == nil {
		return c.fallback(nil)
	}

	label, err := c.classifyOnce(ctx, shortDesc)
	if err != nil && perrors.IsTransient(err) {
		c.logger.WithError(err).WithField(logging.FieldShortDesc, shortDesc).
			Warn("Transient classifier failure, retrying once")
		label, err = c.classifyOnce(ctx, shortDesc)
	}
	if err != nil {
		c.logger.WithError(err).WithField(logging.FieldShortDesc, shortDesc).
			Warn("Classifier failed, assigning default category")
		return c.fallback(err)
	}

	label = strings.TrimSpace(label)
	canonical, ok := c.lookup[normalize.Fold(label)]
	if !ok {
		c.logger.WithFields(
			logging.Field{Key: logging.FieldShortDesc, Value: shortDesc},
			logging.Field{Key: logging.FieldCategory, Value: label},
		).Warn("Classifier returned a category outside the allowed set, assigning default")
		return c.fallback(fmt.Errorf("category %q not in allowed set", label))
	}

	return Result{
		Category:   canonical,
		Confidence: c.opts.Confidence,
		Source:     models.MatchSourceAI,
	}
}

func (c *Categorizer) classifyOnce(ctx context.Context, shortDesc string) (string, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	return c.classifier.Classify(ctx, shortDesc, c.allowed)
}

func (c *Categorizer) fallback(cause error) Result {
	return Result{
		Category: c.opts.DefaultCategory,
		Source:   models.MatchSourceDefault,
		Err:      cause,
	}
}
