// Package pipeline orchestrates categorization: the synchronous dictionary
// matching phase, the concurrent AI phase for unmatched descriptions, and
// the single-threaded merge of results back into the transaction table.
package pipeline

import (
	"context"
	"sort"

	"mlaurent/stmt-categorize/internal/aicat"
	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/matcher"
	"mlaurent/stmt-categorize/internal/models"
	"mlaurent/stmt-categorize/internal/normalize"
)

// Summary reports how a batch was categorized, for the run report and for
// auditing how much of the output leaned on fallbacks.
type Summary struct {
	Total          int
	FromDictionary int
	FromAI         int
	Defaulted      int
	Warnings       int
}

// Pipeline runs the full categorization flow over a batch. Matching is
// synchronous and pure; only the AI phase fans out, bounded by the worker
// count, and its results are merged on the calling goroutine.
type Pipeline struct {
	matcher     *matcher.Matcher
	categorizer *aicat.Categorizer
	workers     int
	logger      logging.Logger
}

// New builds a pipeline. workers bounds concurrent classifier calls and is
// clamped to at least one.
func New(m *matcher.Matcher, c *aicat.Categorizer, workers int, logger logging.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Pipeline{matcher: m, categorizer: c, workers: workers, logger: logger}
}

// Categorize annotates every transaction with a short description,
// category, match source and confidence. It always returns one result per
// input transaction: per-transaction failures degrade to the default
// category and are counted, never raised. Cancelling ctx stops new
// classifier calls; transactions already categorized keep their results
// and the rest fall back to the default category.
func (p *Pipeline) Categorize(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, Summary) {
	out := make([]models.Transaction, len(transactions))
	copy(out, transactions)

	summary := Summary{Total: len(out)}

	// Dictionary phase: pure and CPU-bound, no reason to fan out.
	pending := make(map[string][]int)
	for i := range out {
		out[i].ShortDescription = normalize.ShortDescription(out[i].Description)

		if match, ok := p.matcher.Match(out[i].ShortDescription); ok {
			out[i].Category = match.Category
			out[i].MatchSource = models.MatchSourceDictionary
			out[i].Confidence = match.Confidence
			summary.FromDictionary++
			continue
		}

		// Unmatched transactions are grouped by folded short description
		// so the classifier is asked once per distinct description.
		key := normalize.Fold(out[i].ShortDescription)
		pending[key] = append(pending[key], i)
	}

	if len(pending) == 0 {
		return out, summary
	}

	results := p.classifyKeys(ctx, sortedKeys(pending))

	// Merge phase, single-threaded by construction.
	for key, indexes := range pending {
		res := results[key]
		for _, i := range indexes {
			out[i].Category = res.Category
			out[i].MatchSource = res.Source
			out[i].Confidence = res.Confidence
			switch res.Source {
			case models.MatchSourceAI:
				summary.FromAI++
			default:
				summary.Defaulted++
				if res.Err != nil {
					summary.Warnings++
				}
			}
		}
	}

	p.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: summary.Total},
		logging.Field{Key: "from_dictionary", Value: summary.FromDictionary},
		logging.Field{Key: "from_ai", Value: summary.FromAI},
		logging.Field{Key: "defaulted", Value: summary.Defaulted},
	).Info("Categorization complete")

	return out, summary
}

// classifyKeys runs the classifier over the distinct unmatched keys with a
// bounded number of concurrent calls. Keys are dispatched in sorted order
// so runs are reproducible. Once ctx is cancelled no new calls start; keys
// not yet dispatched resolve to the default category.
func (p *Pipeline) classifyKeys(ctx context.Context, keys []string) map[string]aicat.Result {
	type keyed struct {
		key string
		res aicat.Result
	}

	results := make(map[string]aicat.Result, len(keys))
	// Buffered to the key count: workers must be able to hand off their
	// result and free a semaphore slot while dispatch is still running.
	ch := make(chan keyed, len(keys))
	sem := make(chan struct{}, p.workers)

	dispatched := 0
	for _, key := range keys {
		if key == "" {
			// Nothing usable to classify.
			results[key] = aicat.Result{
				Category: p.categorizer.Default(),
				Source:   models.MatchSourceDefault,
			}
			continue
		}
		if ctx.Err() != nil {
			results[key] = p.cancelledResult(ctx, key)
			continue
		}

		select {
		case <-ctx.Done():
			results[key] = p.cancelledResult(ctx, key)
			continue
		case sem <- struct{}{}:
		}

		dispatched++
		go func(key string) {
			defer func() { <-sem }()
			ch <- keyed{key: key, res: p.categorizer.Categorize(ctx, key)}
		}(key)
	}

	for i := 0; i < dispatched; i++ {
		r := <-ch
		results[r.key] = r.res
	}

	return results
}

func (p *Pipeline) cancelledResult(ctx context.Context, key string) aicat.Result {
	p.logger.WithField(logging.FieldShortDesc, key).Warn("Run cancelled, assigning default category")
	return aicat.Result{
		Category: p.categorizer.Default(),
		Source:   models.MatchSourceDefault,
		Err:      ctx.Err(),
	}
}

func sortedKeys(pending map[string][]int) []string {
	keys := make([]string, 0, len(pending))
	for key := range pending {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
