// Package dictionary loads the phrase-to-category dictionaries that drive
// deterministic fuzzy matching. Two layers exist: a general-purpose
// dictionary that is always loaded, and an industry-specific dictionary
// selected by the active industry configuration.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"

	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/normalize"
	"mlaurent/stmt-categorize/internal/perrors"

	"github.com/gocarina/gocsv"
)

// GeneralFile is the file name of the required general-purpose dictionary.
const GeneralFile = "general_categories.csv"

// Scope identifies which dictionary layer an entry belongs to.
type Scope string

// ScopeGeneral marks entries from the general-purpose dictionary.
const ScopeGeneral Scope = "GENERAL"

// IndustryScope returns the scope tag for an industry-specific dictionary.
func IndustryScope(id string) Scope {
	return Scope("INDUSTRY:" + id)
}

// IsIndustry reports whether the scope is industry-specific.
func (s Scope) IsIndustry() bool {
	return s != ScopeGeneral && s != ""
}

// Entry is one loaded dictionary row. Entries keep their load order:
// the matcher's tie-break rule depends on it, so the slice ordering is part
// of the package contract.
type Entry struct {
	Pattern  string
	Key      string // folded form of Pattern, precomputed for scoring
	Category string
	Scope    Scope
}

// row is the on-disk CSV shape, matching the original dictionary layout.
type row struct {
	Pattern  string `csv:"pattern"`
	Category string `csv:"category"`
}

// Dictionary holds the merged, ordered entry list. It is immutable after
// Load so concurrent matching needs no synchronization.
type Dictionary struct {
	entries []Entry
	logger  logging.Logger
}

// Load reads the general dictionary plus the industry dictionary for the
// given industry id from dir. The general dictionary is required: a missing
// or malformed file is a fatal ConfigError. The industry dictionary is
// optional; its absence is logged and matching proceeds on the general
// layer alone. Within one scope a later row for the same folded pattern
// overrides an earlier one (last-wins), keeping the earlier position.
func Load(dir, industry string, logger logging.Logger) (*Dictionary, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	d := &Dictionary{logger: logger}

	generalPath := filepath.Join(dir, GeneralFile)
	if err := d.loadFile(generalPath, ScopeGeneral, true); err != nil {
		return nil, err
	}

	if industry != "" {
		industryPath := filepath.Join(dir, industry+"_categories.csv")
		if err := d.loadFile(industryPath, IndustryScope(industry), false); err != nil {
			return nil, err
		}
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(d.entries)},
		logging.Field{Key: logging.FieldIndustry, Value: industry},
	).Debug("Loaded category dictionaries")

	return d, nil
}

func (d *Dictionary) loadFile(path string, scope Scope, required bool) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			d.logger.WithField(logging.FieldFile, path).Warn("Industry dictionary not found, using general dictionary only")
			return nil
		}
		return &perrors.ConfigError{File: path, Reason: "dictionary file not readable", Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			d.logger.WithError(err).Warn("Failed to close dictionary file")
		}
	}()

	var rows []row
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return &perrors.ConfigError{File: path, Reason: "dictionary file not parsable", Err: err}
	}

	for i, r := range rows {
		key := normalize.Fold(r.Pattern)
		if key == "" || r.Category == "" {
			return &perrors.ConfigError{
				File:   path,
				Reason: fmt.Sprintf("row %d has empty pattern or category", i+1),
			}
		}

		if idx, ok := d.find(key, scope); ok {
			// Last-wins within a scope: the later row's category replaces
			// the earlier one, the earlier load position is kept.
			d.entries[idx].Category = r.Category
			continue
		}

		d.entries = append(d.entries, Entry{
			Pattern:  r.Pattern,
			Key:      key,
			Category: r.Category,
			Scope:    scope,
		})
	}

	return nil
}

func (d *Dictionary) find(key string, scope Scope) (int, bool) {
	for i, e := range d.entries {
		if e.Key == key && e.Scope == scope {
			return i, true
		}
	}
	return 0, false
}

// Entries returns the loaded entries in load order. The returned slice is
// a copy; the dictionary itself stays immutable.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Categories returns the distinct category labels across both layers in
// load order. This is the closed set of labels offered to the external
// classifier.
func (d *Dictionary) Categories() []string {
	seen := make(map[string]struct{}, len(d.entries))
	var out []string
	for _, e := range d.entries {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// Len returns the number of loaded entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}
