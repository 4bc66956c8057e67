package simulation

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/quantcoach/tempo/internal/app"
	"github.com/quantcoach/tempo/internal/config"
	"github.com/quantcoach/tempo/internal/domain/coverage"
	"github.com/quantcoach/tempo/internal/domain/difficulty"
	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/internal/domain/selection"
	"github.com/quantcoach/tempo/pkg/logger"
)

// Report is the closing state of one simulated interview.
type Report struct {
	InterviewID string
	Turns       int
	Repeats     int
	Promotions  int
	Demotions   int
	Trajectory  []model.DifficultyLevel
	FinalLevel  model.DifficultyLevel
	Coverage    coverage.Snapshot
	Performance difficulty.Summary
	Selections  selection.Stats
	Duration    time.Duration
}

// Run plays one full simulated interview and returns the closing report.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := logger.Get().Named("simulation")
	start := time.Now()

	engine := cfg.Engine
	if engine == nil {
		engine = config.New()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	pool, err := buildPool(cfg, rng)
	if err != nil {
		return nil, err
	}
	if cfg.SavePool != "" && cfg.PoolFile == "" {
		if err := WritePool(cfg.SavePool, pool); err != nil {
			return nil, err
		}
		log.Info(ctx, "generated pool saved", logger.String("path", cfg.SavePool))
	}

	interviewID := cfg.InterviewID
	if interviewID == "" {
		interviewID = uuid.New().String()
	}

	registry := app.NewRegistry(
		app.WithLogger(log),
		app.WithStartingLevel(engine.StartingLevel()),
		app.WithBalanceTargets(engine.BalanceTargets()),
		app.WithGapThreshold(engine.GapThreshold),
		app.WithHysteresis(engine.PromoteThreshold, engine.DemoteThreshold),
		app.WithWindowSize(engine.WindowSize),
	)
	session := registry.Session(ctx, interviewID)
	defer registry.Dispose(ctx, interviewID)

	log.Info(ctx, "starting simulated interview",
		logger.String("interview", interviewID),
		logger.String("archetype", string(cfg.Archetype)),
		logger.Int("turns", cfg.Turns),
		logger.Int("poolSize", len(pool)),
	)

	report := &Report{
		InterviewID: interviewID,
		Trajectory:  make([]model.DifficultyLevel, 0, cfg.Turns),
	}
	level := session.DifficultySignal().CurrentLevel

	for turn := 0; turn < cfg.Turns; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		elapsed := cfg.DurationMinutes * float64(turn) / float64(cfg.Turns)

		target := session.NextDifficulty(ctx)
		switch {
		case target.Index() > level.Index():
			report.Promotions++
		case target.Index() < level.Index():
			report.Demotions++
		}
		level = target

		res, ok := session.SelectQuestion(ctx, pool, target, nil, elapsed)
		if !ok {
			break
		}
		if res.Repeated {
			report.Repeats++
		}

		score := answerScore(rng, cfg.Archetype, turn, cfg.Turns)
		cov, perf := synthesizeSignals(res.Question, score)
		session.UpdateCoverage(ctx, cov)
		session.RecordPerformance(ctx, perf)

		report.Turns++
		report.Trajectory = append(report.Trajectory, target)

		log.Debug(ctx, "turn played",
			logger.Int("turn", turn),
			logger.String("competency", string(res.Question.Competency)),
			logger.String("difficulty", string(res.Question.Difficulty)),
			logger.Float64("answerScore", score),
		)
	}

	report.FinalLevel = session.DifficultySignal().CurrentLevel
	report.Coverage = session.CoverageSnapshot()
	report.Performance = session.PerformanceSummary()
	report.Selections = session.SelectionStats()
	report.Duration = time.Since(start)

	log.Info(ctx, "simulated interview finished",
		logger.String("interview", interviewID),
		logger.Int("turns", report.Turns),
		logger.Int("repeats", report.Repeats),
		logger.Int("promotions", report.Promotions),
		logger.Int("demotions", report.Demotions),
		logger.String("finalLevel", string(report.FinalLevel)),
		logger.Float64("overallCoverage", report.Coverage.OverallCoverage),
		logger.String("summary", session.CoverageSummary()),
	)

	return report, nil
}

func buildPool(cfg *Config, rng *rand.Rand) ([]model.Question, error) {
	if cfg.PoolFile != "" {
		return LoadPool(cfg.PoolFile)
	}
	return generatePool(rng, cfg.PoolSize), nil
}
