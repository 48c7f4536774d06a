// Package container provides dependency injection for the application.
// It centralizes the creation and wiring of all pipeline dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"mlaurent/stmt-categorize/internal/aicat"
	"mlaurent/stmt-categorize/internal/config"
	"mlaurent/stmt-categorize/internal/dictionary"
	"mlaurent/stmt-categorize/internal/industry"
	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/matcher"
	"mlaurent/stmt-categorize/internal/pipeline"
)

// Container holds all application dependencies and provides methods to
// access them. It is immutable after creation: all fields are private and
// only reachable through getters, so nothing rewires dependencies after
// initialization.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	dictionary  *dictionary.Dictionary
	industryCfg *industry.Config
	mapper      *industry.Mapper
	classifier  *aicat.GeminiClassifier
	categorizer *aicat.Categorizer
	matcher     *matcher.Matcher
	pipeline    *pipeline.Pipeline
}

// NewContainer creates and wires all dependencies for categorizing under
// the given industry. Load-time problems (dictionaries, industry config,
// classifier construction) are returned as-is so the caller can treat
// them as fatal.
func NewContainer(ctx context.Context, cfg *config.Config, industryID string) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if industryID == "" {
		return nil, fmt.Errorf("industry must be specified")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	dict, err := dictionary.Load(cfg.Dictionaries.Dir, industryID, logger)
	if err != nil {
		return nil, err
	}

	industryCfg, err := industry.Load(cfg.Industries.Dir, industryID, logger)
	if err != nil {
		return nil, err
	}

	// The industry config's default category wins over the app-level one:
	// it is guaranteed to resolve to a statement line item.
	defaultCategory := industryCfg.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = cfg.Categorization.DefaultCategory
	}

	var classifier *aicat.GeminiClassifier
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		classifier, err = aicat.NewGeminiClassifier(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("AI categorization enabled")
	} else {
		logger.Info("AI categorization disabled")
	}

	categorizer := newCategorizer(classifier, dict, defaultCategory, cfg, logger)

	m := matcher.New(dict, cfg.Categorization.ConfidenceThreshold)

	return &Container{
		logger:      logger,
		config:      cfg,
		dictionary:  dict,
		industryCfg: industryCfg,
		mapper:      industry.NewMapper(industryCfg),
		classifier:  classifier,
		categorizer: categorizer,
		matcher:     m,
		pipeline:    pipeline.New(m, categorizer, cfg.Categorization.Workers, logger),
	}, nil
}

func newCategorizer(classifier *aicat.GeminiClassifier, dict *dictionary.Dictionary, defaultCategory string, cfg *config.Config, logger logging.Logger) *aicat.Categorizer {
	opts := aicat.Options{
		DefaultCategory: defaultCategory,
		Confidence:      cfg.AI.Confidence,
		Timeout:         time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}
	if classifier == nil {
		// A typed nil inside the interface would defeat the nil check in
		// the categorizer.
		return aicat.New(nil, dict.Categories(), opts, logger)
	}
	return aicat.New(classifier, dict.Categories(), opts, logger)
}

// GetLogger returns the configured logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the application configuration.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetDictionary returns the loaded category dictionary.
func (c *Container) GetDictionary() *dictionary.Dictionary {
	return c.dictionary
}

// GetIndustryConfig returns the loaded industry configuration.
func (c *Container) GetIndustryConfig() *industry.Config {
	return c.industryCfg
}

// GetMapper returns the category-to-line-item mapper.
func (c *Container) GetMapper() *industry.Mapper {
	return c.mapper
}

// GetCategorizer returns the AI categorizer.
func (c *Container) GetCategorizer() *aicat.Categorizer {
	return c.categorizer
}

// GetMatcher returns the fuzzy matcher.
func (c *Container) GetMatcher() *matcher.Matcher {
	return c.matcher
}

// GetPipeline returns the categorization pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.classifier != nil {
		return c.classifier.Close()
	}
	return nil
}
