package coverage

import "github.com/quantcoach/tempo/pkg/logger"

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithLogger sets a custom logger for the ledger.
func WithLogger(log logger.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// WithGapThreshold sets the score under which a competency counts as a gap.
func WithGapThreshold(threshold float64) Option {
	return func(l *Ledger) {
		if threshold > 0 {
			l.gapThreshold = threshold
		}
	}
}

// WithFocusThreshold sets the score under which the lowest competency is
// still offered as the next focus area.
func WithFocusThreshold(threshold float64) Option {
	return func(l *Ledger) {
		if threshold > 0 {
			l.focusThreshold = threshold
		}
	}
}
