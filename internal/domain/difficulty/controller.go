// Package difficulty adjusts question difficulty over the course of an
// interview based on recent candidate performance, with hysteresis so a
// single strong or weak answer cannot swing the level back and forth.
package difficulty

import (
	"context"
	"math"
	"time"

	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/pkg/logger"
	"github.com/quantcoach/tempo/pkg/metrics"
)

// Default controller thresholds.
const (
	defaultWindowSize       = 5
	defaultPromoteThreshold = 0.80
	defaultDemoteThreshold  = 0.45
	defaultMinWindowSamples = 2

	goodThreshold = 0.65

	// neutralScore is assumed when an observation carries no signal at all.
	neutralScore = 0.65

	trendDelta      = 0.10
	trendMinSamples = 4
)

// Signal blend weights, renormalized over whichever signals are present.
const (
	starWeight       = 0.30
	competencyWeight = 0.30
	qualityWeight    = 0.20
	ratingWeight     = 0.20
)

// Rating and percentage bounds for incoming signals.
const (
	minRating  = 1
	maxRating  = 5
	maxPercent = 100.0
)

// Trend describes the direction of performance over the full history.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// PerformanceLevel labels a normalized score band.
type PerformanceLevel string

const (
	PerformanceExcellent  PerformanceLevel = "excellent"
	PerformanceGood       PerformanceLevel = "good"
	PerformanceFair       PerformanceLevel = "fair"
	PerformanceStruggling PerformanceLevel = "struggling"
)

// Observation carries the per-answer signals from the external evaluators.
// Nil fields mean the corresponding evaluator produced nothing this turn.
type Observation struct {
	// Difficulty of the question that was asked.
	Difficulty model.DifficultyLevel

	// StarCompletion is a percentage in [0,100].
	StarCompletion *float64

	// CompetencyScore is in [0,100].
	CompetencyScore *float64

	// ResponseQuality is the interviewer-feedback quality label.
	ResponseQuality *model.ResponseQuality

	// InterviewerRating is in [1,5].
	InterviewerRating *int
}

// Sample is one normalized performance record in the full history.
type Sample struct {
	Timestamp   time.Time
	Difficulty  model.DifficultyLevel
	LevelAtTime model.DifficultyLevel
	Score       float64
}

// Signal is the controller output surfaced to collaborators.
type Signal struct {
	CurrentLevel model.DifficultyLevel
	Trend        Trend
}

// Summary describes the controller state without mutating it.
type Summary struct {
	TotalSamples       int
	CurrentLevel       model.DifficultyLevel
	AveragePerformance float64
	RecentPerformance  float64
	RecentSamples      int
	Trend              Trend
	// Recommendation is the level NextDifficulty would settle on right now.
	Recommendation   model.DifficultyLevel
	PerformanceLevel PerformanceLevel
}

// LevelStats aggregates performance per question difficulty.
type LevelStats struct {
	Count   int
	Average float64
	Min     float64
	Max     float64
}

// Controller is the per-interview difficulty state machine. It is not safe
// for concurrent use: the caller owns serialization per interview id.
type Controller struct {
	level   model.DifficultyLevel
	window  []float64
	history []Sample

	windowSize       int
	promoteThreshold float64
	demoteThreshold  float64
	minWindowSamples int
	startingLevel    model.DifficultyLevel

	log logger.Logger
}

// New creates a controller starting at easy unless configured otherwise.
func New(opts ...Option) *Controller {
	c := &Controller{
		windowSize:       defaultWindowSize,
		promoteThreshold: defaultPromoteThreshold,
		demoteThreshold:  defaultDemoteThreshold,
		minWindowSamples: defaultMinWindowSamples,
		startingLevel:    model.Easy,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Nop()
	}
	c.level = c.startingLevel
	c.window = make([]float64, 0, c.windowSize)

	return c
}

// RecordPerformance normalizes the observation into a [0,1] score and
// appends it to both the transition window and the full history. The
// normalized score is returned for the caller's bookkeeping.
func (c *Controller) RecordPerformance(ctx context.Context, obs Observation) float64 {
	score := c.normalize(ctx, obs)

	sample := Sample{
		Timestamp:   time.Now().UTC(),
		Difficulty:  obs.Difficulty,
		LevelAtTime: c.level,
		Score:       score,
	}
	c.history = append(c.history, sample)

	c.window = append(c.window, score)
	if len(c.window) > c.windowSize {
		c.window = c.window[1:]
	}

	metrics.RecordPerformanceSample()
	c.log.Debug(ctx, "performance recorded",
		logger.Float64("score", score),
		logger.String("questionDifficulty", string(obs.Difficulty)),
		logger.Int("windowSize", len(c.window)),
	)

	return score
}

// NextDifficulty applies the hysteresis rule and returns the level the next
// question should target. Demotion clears the window so stale low samples
// cannot trigger a second demotion immediately.
func (c *Controller) NextDifficulty(ctx context.Context) model.DifficultyLevel {
	if len(c.window) < c.minWindowSamples {
		c.log.Debug(ctx, "insufficient window, holding level",
			logger.String("level", string(c.level)),
			logger.Int("samples", len(c.window)),
		)
		return c.level
	}

	avg := mean(c.window)

	switch {
	case avg >= c.promoteThreshold && c.level != model.Hard:
		from := c.level
		c.level = c.level.Promote()
		metrics.RecordDifficultyTransition("promote")
		c.log.Info(ctx, "strong performance, raising difficulty",
			logger.Float64("windowAvg", avg),
			logger.String("from", string(from)),
			logger.String("to", string(c.level)),
		)
	case avg < c.demoteThreshold && c.level != model.Easy:
		from := c.level
		c.level = c.level.Demote()
		c.window = c.window[:0]
		metrics.RecordDifficultyTransition("demote")
		c.log.Info(ctx, "struggling, lowering difficulty",
			logger.Float64("windowAvg", avg),
			logger.String("from", string(from)),
			logger.String("to", string(c.level)),
		)
	default:
		c.log.Debug(ctx, "holding difficulty",
			logger.Float64("windowAvg", avg),
			logger.String("level", string(c.level)),
		)
	}

	return c.level
}

// CurrentLevel returns the level without evaluating a transition.
func (c *Controller) CurrentLevel() model.DifficultyLevel {
	return c.level
}

// ShouldPromote reports whether the window currently justifies a promotion.
func (c *Controller) ShouldPromote() bool {
	return len(c.window) >= c.minWindowSamples &&
		mean(c.window) >= c.promoteThreshold &&
		c.level != model.Hard
}

// ShouldDemote reports whether the window currently justifies a demotion.
func (c *Controller) ShouldDemote() bool {
	return len(c.window) >= c.minWindowSamples &&
		mean(c.window) < c.demoteThreshold &&
		c.level != model.Easy
}

// Trend compares the first half of the full history against the second half.
func (c *Controller) Trend() Trend {
	if len(c.history) < trendMinSamples {
		return TrendInsufficientData
	}

	scores := make([]float64, len(c.history))
	for i, s := range c.history {
		scores[i] = s.Score
	}
	mid := len(scores) / 2
	diff := mean(scores[mid:]) - mean(scores[:mid])

	switch {
	case diff > trendDelta:
		return TrendImproving
	case diff < -trendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Signal returns the controller output for collaborators.
func (c *Controller) Signal() Signal {
	return Signal{
		CurrentLevel: c.level,
		Trend:        c.Trend(),
	}
}

// Summary returns a non-mutating view of the controller state.
func (c *Controller) Summary() Summary {
	s := Summary{
		TotalSamples:   len(c.history),
		CurrentLevel:   c.level,
		Trend:          c.Trend(),
		Recommendation: c.level,
		RecentSamples:  len(c.window),
	}

	if len(c.history) == 0 {
		return s
	}

	scores := make([]float64, len(c.history))
	for i, sample := range c.history {
		scores[i] = sample.Score
	}
	s.AveragePerformance = round2(mean(scores))

	reference := s.AveragePerformance
	if len(c.window) > 0 {
		s.RecentPerformance = round2(mean(c.window))
		reference = s.RecentPerformance
	}

	switch {
	case c.ShouldPromote():
		s.Recommendation = c.level.Promote()
	case c.ShouldDemote():
		s.Recommendation = c.level.Demote()
	}

	s.PerformanceLevel = performanceLevel(reference, c.promoteThreshold, c.demoteThreshold)

	return s
}

// Breakdown aggregates performance per question difficulty across the full
// history. Levels never asked report a zero Count.
func (c *Controller) Breakdown() map[model.DifficultyLevel]LevelStats {
	grouped := make(map[model.DifficultyLevel][]float64, 3)
	for _, s := range c.history {
		grouped[s.Difficulty] = append(grouped[s.Difficulty], s.Score)
	}

	out := make(map[model.DifficultyLevel]LevelStats, 3)
	for _, level := range model.DifficultyLevels() {
		scores := grouped[level]
		if len(scores) == 0 {
			out[level] = LevelStats{}
			continue
		}
		stats := LevelStats{
			Count:   len(scores),
			Average: round2(mean(scores)),
			Min:     math.Inf(1),
			Max:     math.Inf(-1),
		}
		for _, sc := range scores {
			stats.Min = math.Min(stats.Min, sc)
			stats.Max = math.Max(stats.Max, sc)
		}
		stats.Min = round2(stats.Min)
		stats.Max = round2(stats.Max)
		out[level] = stats
	}

	return out
}

// History returns a copy of the full sample history.
func (c *Controller) History() []Sample {
	out := make([]Sample, len(c.history))
	copy(out, c.history)
	return out
}

// Reset returns the controller to the starting level with empty state.
func (c *Controller) Reset() {
	c.level = c.startingLevel
	c.window = c.window[:0]
	c.history = nil
}

// normalize blends the present signals into a [0,1] score, renormalizing
// weights over the fields that actually arrived. Out-of-range fields are
// skipped, not rejected. No signal at all reads as neutral.
func (c *Controller) normalize(ctx context.Context, obs Observation) float64 {
	var weightedSum, totalWeight float64

	if obs.StarCompletion != nil {
		if v := *obs.StarCompletion; v >= 0 && v <= maxPercent {
			weightedSum += v / maxPercent * starWeight
			totalWeight += starWeight
		} else {
			c.log.Warn(ctx, "skipping out-of-range star completion", logger.Float64("value", v))
		}
	}

	if obs.CompetencyScore != nil {
		if v := *obs.CompetencyScore; v >= 0 && v <= maxPercent {
			weightedSum += v / maxPercent * competencyWeight
			totalWeight += competencyWeight
		} else {
			c.log.Warn(ctx, "skipping out-of-range competency score", logger.Float64("value", v))
		}
	}

	if obs.ResponseQuality != nil {
		weightedSum += obs.ResponseQuality.Normalized() * qualityWeight
		totalWeight += qualityWeight
	}

	if obs.InterviewerRating != nil {
		if r := *obs.InterviewerRating; r >= minRating && r <= maxRating {
			weightedSum += float64(r-minRating) / float64(maxRating-minRating) * ratingWeight
			totalWeight += ratingWeight
		} else {
			c.log.Warn(ctx, "skipping out-of-range interviewer rating", logger.Int("value", r))
		}
	}

	if totalWeight == 0 {
		c.log.Debug(ctx, "no performance signals present, assuming neutral score")
		return neutralScore
	}

	return weightedSum / totalWeight
}

func performanceLevel(score, promoteThreshold, demoteThreshold float64) PerformanceLevel {
	switch {
	case score >= promoteThreshold:
		return PerformanceExcellent
	case score >= goodThreshold:
		return PerformanceGood
	case score >= demoteThreshold:
		return PerformanceFair
	default:
		return PerformanceStruggling
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
