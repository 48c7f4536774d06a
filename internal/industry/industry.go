// Package industry loads the per-industry reporting configuration: the
// ordered statement line items and the mapping from category labels to
// those line items.
package industry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/perrors"
)

// CategoryMapping binds one category label to a statement line item.
type CategoryMapping struct {
	Name     string `yaml:"name"`
	LineItem string `yaml:"line_item"`
}

// Config is one industry's reporting configuration as loaded from
// <dir>/<id>.yaml. LineItems defines statement ordering; Categories binds
// every known category label to one of those line items.
type Config struct {
	ID              string            `yaml:"id"`
	DefaultCategory string            `yaml:"default_category"`
	LineItems       []string          `yaml:"line_items"`
	Categories      []CategoryMapping `yaml:"categories"`
}

// Load reads and validates the configuration for the given industry id.
// Any missing file, parse failure or inconsistency is a ConfigError: an
// industry config that cannot be fully resolved must stop the run before
// any transaction is categorized.
func Load(dir, id string, logger logging.Logger) (*Config, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	path := filepath.Join(dir, id+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &perrors.ConfigError{File: path, Reason: "industry configuration not readable", Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &perrors.ConfigError{File: path, Reason: "industry configuration not parsable", Err: err}
	}
	if cfg.ID == "" {
		cfg.ID = id
	}

	if err := cfg.validate(path); err != nil {
		return nil, err
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldIndustry, Value: cfg.ID},
		logging.Field{Key: logging.FieldCount, Value: len(cfg.Categories)},
	).Debug("Loaded industry configuration")

	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if len(c.LineItems) == 0 {
		return &perrors.ConfigError{File: path, Reason: "no line items defined"}
	}

	items := make(map[string]struct{}, len(c.LineItems))
	for _, li := range c.LineItems {
		if li == "" {
			return &perrors.ConfigError{File: path, Reason: "empty line item name"}
		}
		if _, ok := items[li]; ok {
			return &perrors.ConfigError{File: path, Reason: fmt.Sprintf("duplicate line item %q", li)}
		}
		items[li] = struct{}{}
	}

	seen := make(map[string]struct{}, len(c.Categories))
	for _, m := range c.Categories {
		if m.Name == "" || m.LineItem == "" {
			return &perrors.ConfigError{File: path, Reason: "category mapping with empty name or line item"}
		}
		if _, ok := seen[m.Name]; ok {
			return &perrors.ConfigError{File: path, Reason: fmt.Sprintf("duplicate category %q", m.Name)}
		}
		seen[m.Name] = struct{}{}
		if _, ok := items[m.LineItem]; !ok {
			return &perrors.ConfigError{
				File:   path,
				Reason: fmt.Sprintf("category %q maps to undefined line item %q", m.Name, m.LineItem),
			}
		}
	}

	if c.DefaultCategory == "" {
		return &perrors.ConfigError{File: path, Reason: "no default category defined"}
	}
	if _, ok := seen[c.DefaultCategory]; !ok {
		return &perrors.ConfigError{
			File:   path,
			Reason: fmt.Sprintf("default category %q has no line item mapping", c.DefaultCategory),
		}
	}

	return nil
}

// Mapper resolves category labels to statement line items. It is a pure
// function of the loaded config: repeated calls with the same input always
// return the same line item.
type Mapper struct {
	industry string
	byName   map[string]string
}

// NewMapper builds a Mapper from a validated config.
func NewMapper(cfg *Config) *Mapper {
	byName := make(map[string]string, len(cfg.Categories))
	for _, m := range cfg.Categories {
		byName[m.Name] = m.LineItem
	}
	return &Mapper{industry: cfg.ID, byName: byName}
}

// Map returns the line item for a category label. A label no loaded config
// resolves is an UnknownCategoryError: it signals a dictionary/config
// inconsistency that has to be fixed upstream, so it is never swallowed or
// defaulted here.
func (m *Mapper) Map(category string) (string, error) {
	li, ok := m.byName[category]
	if !ok {
		return "", &perrors.UnknownCategoryError{Category: category, Industry: m.industry}
	}
	return li, nil
}
