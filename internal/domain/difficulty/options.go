package difficulty

import (
	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithLogger sets a custom logger for the controller.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithStartingLevel sets the level the controller starts and resets at.
// Zero or unknown values keep the easy default.
func WithStartingLevel(level model.DifficultyLevel) Option {
	return func(c *Controller) {
		switch level {
		case model.Easy, model.Medium, model.Hard:
			c.startingLevel = level
		}
	}
}

// WithWindowSize sets the size of the transition window.
func WithWindowSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.windowSize = size
		}
	}
}

// WithPromoteThreshold sets the window mean at or above which the level is
// raised.
func WithPromoteThreshold(threshold float64) Option {
	return func(c *Controller) {
		if threshold > 0 && threshold <= 1 {
			c.promoteThreshold = threshold
		}
	}
}

// WithDemoteThreshold sets the window mean below which the level is lowered.
func WithDemoteThreshold(threshold float64) Option {
	return func(c *Controller) {
		if threshold > 0 && threshold < 1 {
			c.demoteThreshold = threshold
		}
	}
}

// WithMinWindowSamples sets how many samples the window needs before any
// transition is considered.
func WithMinWindowSamples(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.minWindowSamples = n
		}
	}
}
