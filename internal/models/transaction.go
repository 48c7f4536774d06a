// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MatchSource records which method produced a transaction's category.
// It is written to the output table so downstream reviewers can audit
// low-confidence assignments.
type MatchSource string

const (
	// MatchSourceDictionary marks a confident fuzzy match against a
	// category dictionary.
	MatchSourceDictionary MatchSource = "DICTIONARY"
	// MatchSourceAI marks a category assigned by the external classifier.
	MatchSourceAI MatchSource = "AI"
	// MatchSourceDefault marks the forced fallback category used when the
	// classifier failed, timed out, or returned an invalid label.
	MatchSourceDefault MatchSource = "DEFAULT"
)

// Transaction is one row of the statement table as it flows through the
// pipeline. Date, Description and Amount come from the conversion stage;
// the remaining fields are filled in by categorization.
type Transaction struct {
	Date             string          `csv:"date"`
	Description      string          `csv:"description"`
	Amount           decimal.Decimal `csv:"amount"`
	ShortDescription string          `csv:"short_description"`
	Category         string          `csv:"category"`
	MatchSource      MatchSource     `csv:"match_source"`
	Confidence       float64         `csv:"confidence"`
}

// IsCategorized reports whether categorization has assigned this row a
// category.
func (t Transaction) IsCategorized() bool {
	return t.Category != "" && t.MatchSource != ""
}

// ParseAmount parses a signed monetary amount from loosely formatted input.
// Currency codes, thousands separators and surrounding whitespace are
// tolerated; an unparsable value returns ok=false rather than an error so
// callers can apply the row-exclusion data-quality policy.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	// Strip a trailing or leading currency code ("10.50 EUR", "CHF 25.00").
	fields := strings.Fields(s)
	if len(fields) == 2 {
		if isCurrencyCode(fields[0]) {
			s = fields[1]
		} else if isCurrencyCode(fields[1]) {
			s = fields[0]
		}
	}

	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
