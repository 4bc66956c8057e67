package selection

import (
	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/pkg/logger"
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithLogger sets a custom logger for the selector.
func WithLogger(log logger.Logger) Option {
	return func(s *Selector) {
		if log != nil {
			s.log = log
		}
	}
}

// WithBalanceTargets overrides the question-type balance targets. Types
// missing from the map keep their defaults; non-positive ratios are ignored.
func WithBalanceTargets(targets map[model.QuestionType]float64) Option {
	return func(s *Selector) {
		for t, ratio := range targets {
			if ratio > 0 && ratio <= 1 {
				s.targets[t] = ratio
			}
		}
	}
}

// WithCoverageBands overrides the gap-priority coverage bands. The bands
// must be strictly increasing to take effect.
func WithCoverageBands(urgent, high, medium float64) Option {
	return func(s *Selector) {
		if urgent > 0 && urgent < high && high < medium {
			s.urgentCoverage = urgent
			s.highCoverage = high
			s.mediumCoverage = medium
		}
	}
}
