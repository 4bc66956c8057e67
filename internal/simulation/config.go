// Package simulation drives the engine through a synthetic interview:
// it generates or loads a question pool, plays a candidate archetype
// against it turn by turn, and reports the resulting coverage, difficulty
// trajectory, and selection distributions.
package simulation

import (
	"fmt"

	"github.com/quantcoach/tempo/internal/config"
)

// Archetype names a synthetic candidate profile the signal generator
// plays during a run.
type Archetype string

const (
	// ArchetypeSteady answers consistently around the hold band.
	ArchetypeSteady Archetype = "steady"
	// ArchetypeStrong answers well enough to climb to hard.
	ArchetypeStrong Archetype = "strong"
	// ArchetypeStruggling answers poorly throughout.
	ArchetypeStruggling Archetype = "struggling"
	// ArchetypeImproving starts weak and finishes strong.
	ArchetypeImproving Archetype = "improving"
	// ArchetypeVolatile alternates strong and weak answers.
	ArchetypeVolatile Archetype = "volatile"
)

// ParseArchetype maps a flag value onto an Archetype.
func ParseArchetype(s string) (Archetype, error) {
	switch Archetype(s) {
	case ArchetypeSteady, ArchetypeStrong, ArchetypeStruggling, ArchetypeImproving, ArchetypeVolatile:
		return Archetype(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownArchetype, s)
	}
}

// Config holds configuration for one simulated interview.
type Config struct {
	InterviewID     string         // Session id used in the registry
	Turns           int            // Number of question/answer turns to play
	Archetype       Archetype      // Candidate behavior to synthesize
	Seed            int64          // RNG seed; runs with the same seed repeat exactly
	PoolFile        string         // YAML question pool; empty generates one
	PoolSize        int            // Size of the generated pool
	SavePool        string         // When set, write the generated pool to this YAML file
	DurationMinutes float64        // Simulated interview length
	LogFile         string         // Log file for run output
	Verbose         bool           // Enable debug logging
	Engine          *config.Config // Engine tunables; nil uses defaults
}

func (c *Config) validate() error {
	if c.Turns <= 0 {
		return fmt.Errorf("%w: turns must be positive, got %d", ErrInvalidRun, c.Turns)
	}
	if c.PoolFile == "" && c.PoolSize <= 0 {
		return fmt.Errorf("%w: pool size must be positive, got %d", ErrInvalidRun, c.PoolSize)
	}
	if c.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidRun, c.DurationMinutes)
	}
	if _, err := ParseArchetype(string(c.Archetype)); err != nil {
		return err
	}
	return nil
}
