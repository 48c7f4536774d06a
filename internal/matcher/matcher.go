// Package matcher scores short descriptions against the category
// dictionaries and decides whether a dictionary match is confident enough
// to stand on its own.
//
// The tie-break policy is part of the contract and affects reproducibility:
// on equal scores an industry-scoped entry beats a general entry, and among
// entries of equal scope the earliest-loaded one wins.
package matcher

import (
	"sort"
	"strings"

	"mlaurent/stmt-categorize/internal/dictionary"
	"mlaurent/stmt-categorize/internal/normalize"
)

// Match is a confident dictionary match.
type Match struct {
	Category   string
	Confidence float64
	Entry      dictionary.Entry
}

// Matcher scores a short description against every dictionary entry in
// scope. It is a pure function of its construction inputs: the entry list
// is copied at construction and never mutated, so results are reproducible
// and safe for concurrent use.
type Matcher struct {
	entries   []dictionary.Entry
	threshold float64
}

// New builds a matcher over the given dictionary with the given confidence
// threshold. Scores below the threshold are reported as no-match rather
// than a low-confidence guess; that boundary is what hands a transaction
// over to the AI classifier.
func New(d *dictionary.Dictionary, threshold float64) *Matcher {
	return &Matcher{
		entries:   d.Entries(),
		threshold: threshold,
	}
}

// Threshold returns the configured confidence threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match scores shortDesc against every entry and returns the best match if
// its confidence reaches the threshold. ok is false for below-threshold
// scores and for empty input.
func (m *Matcher) Match(shortDesc string) (Match, bool) {
	key := normalize.Fold(shortDesc)
	if key == "" {
		return Match{}, false
	}

	var (
		best      dictionary.Entry
		bestScore = -1.0
	)
	for _, e := range m.entries {
		score := Similarity(key, e.Key)
		if score > bestScore {
			best, bestScore = e, score
			continue
		}
		// Equal score: industry entries outrank general ones. Among equal
		// scope the earlier entry is already held, so nothing to do.
		if score == bestScore && e.Scope.IsIndustry() && !best.Scope.IsIndustry() {
			best = e
		}
	}

	if bestScore < m.threshold {
		return Match{}, false
	}

	return Match{
		Category:   best.Category,
		Confidence: bestScore,
		Entry:      best,
	}, true
}

// Similarity computes a textual similarity in [0,1] as the better of the
// token-sort and token-set scores. Token-sort covers reordered tokens
// ("MKTPLACE AMAZON" scores like "AMAZON MKTPLACE"); token-set covers
// subset patterns, so a dictionary pattern "amazon" scores 1.0 against
// "amazon mktplace". Inputs are expected to be folded already.
func Similarity(a, b string) float64 {
	s := TokenSortRatio(a, b)
	if t := TokenSetRatio(a, b); t > s {
		s = t
	}
	return s
}

// TokenSortRatio sorts each input's tokens, rejoins them and returns the
// normalized Levenshtein similarity of the rejoined strings.
func TokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(strings.Fields(a)), sortTokens(strings.Fields(b)))
}

// TokenSetRatio splits both inputs into token sets and scores the shared
// core against each side's full token list, returning the best of the
// pairwise comparisons. When one input's tokens are a subset of the
// other's the score is 1.0.
func TokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var common, onlyA, onlyB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}

	core := sortTokens(common)
	full1 := sortTokens(append(common, onlyA...))
	full2 := sortTokens(append(common, onlyB...))

	best := ratio(core, full1)
	if s := ratio(core, full2); s > best {
		best = s
	}
	if s := ratio(full1, full2); s > best {
		best = s
	}
	return best
}

func ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

func sortTokens(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// levenshtein computes the edit distance with the classic two-row DP.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
