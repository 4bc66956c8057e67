// Package app wires the three engine components into a per-interview
// session and provides the registry that owns session lifecycles.
package app

import (
	"context"
	"time"

	"github.com/quantcoach/tempo/internal/domain/coverage"
	"github.com/quantcoach/tempo/internal/domain/difficulty"
	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/internal/domain/selection"
	"github.com/quantcoach/tempo/pkg/logger"
)

// Session is the engine state for one live interview. All mutating methods
// must be called sequentially for a given interview: the session performs no
// internal locking so that misuse by concurrent callers surfaces instead of
// being silently masked. Different sessions are fully independent.
type Session struct {
	id        string
	startedAt time.Time

	ledger     *coverage.Ledger
	controller *difficulty.Controller
	selector   *selection.Selector

	log logger.Logger
}

// Turn is the engine output for one full decision cycle.
type Turn struct {
	Snapshot   coverage.Snapshot
	Difficulty difficulty.Signal
	Selection  *selection.Result
}

// ID returns the interview identifier this session belongs to.
func (s *Session) ID() string { return s.id }

// StartedAt returns the session creation time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// ElapsedMinutes returns how long the interview has been running.
func (s *Session) ElapsedMinutes() float64 {
	return time.Since(s.startedAt).Minutes()
}

// UpdateCoverage merges evaluator signals into the coverage ledger.
func (s *Session) UpdateCoverage(ctx context.Context, obs coverage.Observation) coverage.Snapshot {
	return s.ledger.Update(ctx, obs)
}

// RecordPerformance feeds one answer's evaluation into the difficulty
// controller and returns the normalized score.
func (s *Session) RecordPerformance(ctx context.Context, obs difficulty.Observation) float64 {
	return s.controller.RecordPerformance(ctx, obs)
}

// NextDifficulty evaluates the hysteresis rule and returns the target level
// for the next question.
func (s *Session) NextDifficulty(ctx context.Context) model.DifficultyLevel {
	return s.controller.NextDifficulty(ctx)
}

// SelectQuestion picks the next question from the pool against the current
// coverage state and the given target difficulty. The caller supplies the
// elapsed interview minutes, which drive the stage-fit factor; the
// transport layer usually has the authoritative clock.
func (s *Session) SelectQuestion(
	ctx context.Context,
	pool []model.Question,
	target model.DifficultyLevel,
	profile *model.Profile,
	elapsedMinutes float64,
) (selection.Result, bool) {
	return s.selector.Select(ctx, pool, s.ledger.Snapshot(), target, profile, elapsedMinutes)
}

// NextTurn runs one full decision cycle: merge the evaluator signals,
// record performance, settle the next difficulty, and select a question.
// The Selection field is nil when the pool is exhausted.
func (s *Session) NextTurn(
	ctx context.Context,
	cov coverage.Observation,
	perf difficulty.Observation,
	pool []model.Question,
	profile *model.Profile,
	elapsedMinutes float64,
) Turn {
	snap := s.ledger.Update(ctx, cov)
	s.controller.RecordPerformance(ctx, perf)
	target := s.controller.NextDifficulty(ctx)

	turn := Turn{
		Snapshot:   snap,
		Difficulty: s.controller.Signal(),
	}

	if res, ok := s.selector.Select(ctx, pool, snap, target, profile, elapsedMinutes); ok {
		turn.Selection = &res
	} else {
		s.log.Warn(ctx, "no question available this turn", logger.String("interview", s.id))
	}

	return turn
}

// CoverageSnapshot returns the current coverage state.
func (s *Session) CoverageSnapshot() coverage.Snapshot {
	return s.ledger.Snapshot()
}

// CoverageSummary returns the one-line coverage digest.
func (s *Session) CoverageSummary() string {
	return s.ledger.Summary()
}

// NextFocusArea returns the competency most in need of probing, if any.
func (s *Session) NextFocusArea() (model.Competency, bool) {
	return s.ledger.NextFocusArea()
}

// DifficultySignal returns the current level and trend.
func (s *Session) DifficultySignal() difficulty.Signal {
	return s.controller.Signal()
}

// PerformanceSummary returns the non-mutating difficulty summary.
func (s *Session) PerformanceSummary() difficulty.Summary {
	return s.controller.Summary()
}

// PerformanceBreakdown returns per-difficulty performance aggregates.
func (s *Session) PerformanceBreakdown() map[model.DifficultyLevel]difficulty.LevelStats {
	return s.controller.Breakdown()
}

// SelectionStats returns the per-type/competency/difficulty usage
// distributions.
func (s *Session) SelectionStats() selection.Stats {
	return s.selector.Stats()
}

// SelectionHistory returns a copy of the append-only selection log.
func (s *Session) SelectionHistory() []model.SelectionRecord {
	return s.selector.History()
}

// Reset clears all per-interview state while keeping the session
// registered, e.g. when an interview restarts in the same room.
func (s *Session) Reset() {
	s.ledger.Reset()
	s.controller.Reset()
	s.selector.Reset()
	s.startedAt = time.Now().UTC()
}
