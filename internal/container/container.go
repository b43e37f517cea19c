// Package container provides dependency injection for the budget-rollup application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/budget-rollup/internal/aggregator"
	"fjacquet/budget-rollup/internal/config"
	"fjacquet/budget-rollup/internal/dashboard"
	"fjacquet/budget-rollup/internal/lineitem"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/report"
	"fjacquet/budget-rollup/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.ClassificationStore
	aggregator *aggregator.Aggregator
	reader     *lineitem.Reader
	generator  *report.Generator
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	classificationStore := store.NewClassificationStore(cfg.Classification.FunctionalFile, logger)

	agg := aggregator.NewAggregator(logger, aggregator.Labels{
		Unclassified: cfg.Labels.Unclassified,
		Unknown:      cfg.Labels.Unknown,
	})

	logger.Debug("Container initialized successfully",
		logging.F("classification_file", cfg.Classification.FunctionalFile),
		logging.F("debounce_ms", cfg.Search.DebounceMS))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      classificationStore,
		aggregator: agg,
		reader:     lineitem.NewReader(cfg.DelimiterRune(), logger),
		generator:  report.NewGenerator(logger),
	}, nil
}

// NewDashboard creates an expense/income dashboard using the configured
// labels and debounce interval.
func (c *Container) NewDashboard(names store.Names, initialExpenseTerm, initialIncomeTerm string) *dashboard.Dashboard {
	return dashboard.New(c.aggregator, dashboard.Config{
		Names:              names,
		Debounce:           c.config.Debounce(),
		InitialExpenseTerm: initialExpenseTerm,
		InitialIncomeTerm:  initialIncomeTerm,
	}, c.logger)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the classification store.
func (c *Container) GetStore() *store.ClassificationStore {
	return c.store
}

// GetAggregator returns the aggregator configured with the fallback labels.
func (c *Container) GetAggregator() *aggregator.Aggregator {
	return c.aggregator
}

// GetReader returns the line-item reader.
func (c *Container) GetReader() *lineitem.Reader {
	return c.reader
}

// GetGenerator returns the report generator.
func (c *Container) GetGenerator() *report.Generator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
