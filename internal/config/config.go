// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and TEMPO_-prefixed env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// StartingDifficulty is the level new interviews begin at: easy,
	// medium, or hard.
	StartingDifficulty string `koanf:"starting_difficulty"`

	// PromoteThreshold is the recent-window mean at or above which the
	// difficulty is raised.
	PromoteThreshold float64 `koanf:"promote_threshold"`

	// DemoteThreshold is the recent-window mean below which the difficulty
	// is lowered.
	DemoteThreshold float64 `koanf:"demote_threshold"`

	// WindowSize bounds the recent-performance window used for
	// difficulty transitions.
	WindowSize int `koanf:"window_size"`

	// GapThreshold is the coverage score under which a competency counts
	// as a gap.
	GapThreshold float64 `koanf:"gap_threshold"`

	// BehavioralTarget, TechnicalTarget and SituationalTarget are the
	// desired shares of each question type over an interview.
	BehavioralTarget  float64 `koanf:"behavioral_target"`
	TechnicalTarget   float64 `koanf:"technical_target"`
	SituationalTarget float64 `koanf:"situational_target"`
}

// New creates a Config with production defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		StartingDifficulty: "easy",
		PromoteThreshold:   0.80,
		DemoteThreshold:    0.45,
		WindowSize:         5,
		GapThreshold:       30,
		BehavioralTarget:   0.60,
		TechnicalTarget:    0.30,
		SituationalTarget:  0.10,
	}
}
