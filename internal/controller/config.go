package controller

import (
	"time"

	"facetgrip/internal/collection"
)

// DefaultSearchDebounce is the quiet period applied to search keystrokes
const DefaultSearchDebounce = 150 * time.Millisecond

// Config tunes the controller pipeline
type Config struct {
	SearchDebounce    time.Duration
	ReconcileEnabled  bool
	ReconcileInterval time.Duration
	// RawLabelFallback shows the raw tag value as the facet summary when the
	// tag declares no label; when false the summary is suppressed instead
	RawLabelFallback bool
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{
		SearchDebounce:    DefaultSearchDebounce,
		ReconcileEnabled:  true,
		ReconcileInterval: collection.DefaultReconcileInterval,
		RawLabelFallback:  true,
	}
}

func (c Config) withDefaults() Config {
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = DefaultSearchDebounce
	}
	if c.ReconcileInterval <= 0 {
		c.ReconcileInterval = collection.DefaultReconcileInterval
	}
	return c
}
