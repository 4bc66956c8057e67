package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/quantcoach/tempo/internal/domain/model"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if TEMPO_CONFIG is set
//  3. env (prefix TEMPO_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TEMPO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TEMPO_LOG_LEVEL, TEMPO_WINDOW_SIZE, ...
	// Map env keys like TEMPO_WINDOW_SIZE -> window_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TEMPO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "tempo_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := model.ParseDifficulty(c.StartingDifficulty); err != nil {
		return fmt.Errorf("%w: starting_difficulty %q", ErrInvalidConfig, c.StartingDifficulty)
	}

	if c.PromoteThreshold <= 0 || c.PromoteThreshold > 1 {
		return fmt.Errorf("%w: promote_threshold must be in (0,1], got %v", ErrInvalidConfig, c.PromoteThreshold)
	}
	if c.DemoteThreshold <= 0 || c.DemoteThreshold >= c.PromoteThreshold {
		return fmt.Errorf("%w: demote_threshold must be in (0, promote_threshold), got %v", ErrInvalidConfig, c.DemoteThreshold)
	}

	if c.WindowSize <= 0 {
		return fmt.Errorf("%w: window_size must be positive, got %d", ErrInvalidConfig, c.WindowSize)
	}

	if c.GapThreshold <= 0 || c.GapThreshold > 100 {
		return fmt.Errorf("%w: gap_threshold must be in (0,100], got %v", ErrInvalidConfig, c.GapThreshold)
	}

	for name, target := range map[string]float64{
		"behavioral_target":  c.BehavioralTarget,
		"technical_target":   c.TechnicalTarget,
		"situational_target": c.SituationalTarget,
	} {
		if target <= 0 || target > 1 {
			return fmt.Errorf("%w: %s must be in (0,1], got %v", ErrInvalidConfig, name, target)
		}
	}

	return nil
}

// StartingLevel returns the parsed starting difficulty. Call after a
// successful Load; an unparseable value falls back to easy.
func (c *Config) StartingLevel() model.DifficultyLevel {
	level, err := model.ParseDifficulty(c.StartingDifficulty)
	if err != nil {
		return model.Easy
	}
	return level
}

// BalanceTargets returns the question-type targets keyed for the selector.
func (c *Config) BalanceTargets() map[model.QuestionType]float64 {
	return map[model.QuestionType]float64{
		model.Behavioral:  c.BehavioralTarget,
		model.Technical:   c.TechnicalTarget,
		model.Situational: c.SituationalTarget,
	}
}
