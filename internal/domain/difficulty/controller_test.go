package difficulty_test

import (
	"context"
	"testing"

	"github.com/quantcoach/tempo/internal/domain/difficulty"
	"github.com/quantcoach/tempo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func qualityPtr(q model.ResponseQuality) *model.ResponseQuality { return &q }

// recordScore feeds an observation whose competency score normalizes to the
// given [0,1] value.
func recordScore(ctx context.Context, c *difficulty.Controller, level model.DifficultyLevel, normalized float64) {
	c.RecordPerformance(ctx, difficulty.Observation{
		Difficulty:      level,
		CompetencyScore: floatPtr(normalized * 100),
	})
}

func TestNormalization(t *testing.T) {
	Convey("Given a fresh controller", t, func() {
		ctx := context.Background()
		c := difficulty.New()

		Convey("When all four signals are present", func() {
			score := c.RecordPerformance(ctx, difficulty.Observation{
				Difficulty:        model.Easy,
				StarCompletion:    floatPtr(100),
				CompetencyScore:   floatPtr(100),
				ResponseQuality:   qualityPtr(model.QualityExcellent),
				InterviewerRating: intPtr(5),
			})

			Convey("Then a perfect answer normalizes to 1", func() {
				So(score, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When only some signals are present", func() {
			score := c.RecordPerformance(ctx, difficulty.Observation{
				Difficulty:      model.Easy,
				StarCompletion:  floatPtr(100),
				CompetencyScore: floatPtr(50),
			})

			Convey("Then weights renormalize over the present fields", func() {
				// (1.0*0.30 + 0.5*0.30) / 0.60
				So(score, ShouldAlmostEqual, 0.75, 1e-9)
			})
		})

		Convey("When only the interviewer rating is present", func() {
			score := c.RecordPerformance(ctx, difficulty.Observation{
				Difficulty:        model.Easy,
				InterviewerRating: intPtr(3),
			})

			Convey("Then the 1-5 scale maps onto [0,1]", func() {
				So(score, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When no signal is present at all", func() {
			score := c.RecordPerformance(ctx, difficulty.Observation{Difficulty: model.Easy})

			Convey("Then the neutral default applies", func() {
				So(score, ShouldAlmostEqual, 0.65, 1e-9)
			})
		})

		Convey("When a signal is out of range", func() {
			score := c.RecordPerformance(ctx, difficulty.Observation{
				Difficulty:        model.Easy,
				CompetencyScore:   floatPtr(250),
				InterviewerRating: intPtr(5),
			})

			Convey("Then the bad field is skipped and the rest still count", func() {
				So(score, ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When quality labels arrive", func() {
			score := c.RecordPerformance(ctx, difficulty.Observation{
				Difficulty:      model.Medium,
				ResponseQuality: qualityPtr(model.QualityPoor),
			})

			Convey("Then the label ladder drives the score", func() {
				So(score, ShouldAlmostEqual, 0.25, 1e-9)
			})
		})
	})
}

func TestHysteresisPromotion(t *testing.T) {
	Convey("Given a controller starting at easy", t, func() {
		ctx := context.Background()
		c := difficulty.New()

		Convey("When only one strong sample is recorded", func() {
			recordScore(ctx, c, model.Easy, 0.85)

			Convey("Then the level holds for lack of window data", func() {
				So(c.NextDifficulty(ctx), ShouldEqual, model.Easy)
			})
		})

		Convey("When two strong samples are recorded", func() {
			recordScore(ctx, c, model.Easy, 0.85)
			recordScore(ctx, c, model.Easy, 0.82)

			Convey("Then the level promotes one step", func() {
				So(c.NextDifficulty(ctx), ShouldEqual, model.Medium)
			})

			Convey("And sustained strength climbs all the way to hard but not past it", func() {
				So(c.NextDifficulty(ctx), ShouldEqual, model.Medium)
				recordScore(ctx, c, model.Medium, 0.9)
				recordScore(ctx, c, model.Medium, 0.9)
				So(c.NextDifficulty(ctx), ShouldEqual, model.Hard)
				recordScore(ctx, c, model.Hard, 0.95)
				So(c.NextDifficulty(ctx), ShouldEqual, model.Hard)
			})
		})

		Convey("When performance sits between the bands", func() {
			recordScore(ctx, c, model.Easy, 0.60)
			recordScore(ctx, c, model.Easy, 0.70)

			Convey("Then the level holds", func() {
				So(c.NextDifficulty(ctx), ShouldEqual, model.Easy)
			})
		})
	})
}

func TestHysteresisDemotion(t *testing.T) {
	Convey("Given a controller pushed up to medium", t, func() {
		ctx := context.Background()
		c := difficulty.New()
		recordScore(ctx, c, model.Easy, 0.9)
		recordScore(ctx, c, model.Easy, 0.9)
		So(c.NextDifficulty(ctx), ShouldEqual, model.Medium)

		Convey("When the candidate then struggles badly", func() {
			// Window still holds the two 0.9 samples; push the mean under
			// the demote band with three very low samples.
			recordScore(ctx, c, model.Medium, 0.1)
			recordScore(ctx, c, model.Medium, 0.1)
			recordScore(ctx, c, model.Medium, 0.1)
			So(c.NextDifficulty(ctx), ShouldEqual, model.Easy)

			Convey("Then the demotion clears the window", func() {
				// No new samples: the cleared window must hold, not demote
				// again (easy is already the floor, so instead check the
				// summary says the window is empty).
				So(c.NextDifficulty(ctx), ShouldEqual, model.Easy)
				So(c.Summary().RecentSamples, ShouldEqual, 0)
			})

			Convey("And the floor is never demoted past easy", func() {
				recordScore(ctx, c, model.Easy, 0.1)
				recordScore(ctx, c, model.Easy, 0.1)
				So(c.NextDifficulty(ctx), ShouldEqual, model.Easy)
			})
		})
	})

	Convey("Given a controller pushed up to hard", t, func() {
		ctx := context.Background()
		c := difficulty.New()
		recordScore(ctx, c, model.Easy, 0.9)
		recordScore(ctx, c, model.Easy, 0.9)
		So(c.NextDifficulty(ctx), ShouldEqual, model.Medium)
		recordScore(ctx, c, model.Medium, 0.9)
		recordScore(ctx, c, model.Medium, 0.9)
		So(c.NextDifficulty(ctx), ShouldEqual, model.Hard)

		Convey("When it demotes from hard after the window fills with low scores", func() {
			for i := 0; i < 5; i++ {
				recordScore(ctx, c, model.Hard, 0.2)
			}
			So(c.NextDifficulty(ctx), ShouldEqual, model.Medium)

			Convey("Then an immediate follow-up call holds at medium on the fresh window", func() {
				So(c.NextDifficulty(ctx), ShouldEqual, model.Medium)
			})
		})
	})
}

func TestWindowEviction(t *testing.T) {
	Convey("Given a controller with the default 5-slot window", t, func() {
		ctx := context.Background()
		c := difficulty.New()

		Convey("When more than five samples arrive", func() {
			// Old low scores must be evicted by newer strong ones.
			for i := 0; i < 5; i++ {
				recordScore(ctx, c, model.Easy, 0.1)
			}
			for i := 0; i < 5; i++ {
				recordScore(ctx, c, model.Easy, 0.9)
			}

			Convey("Then only the last five drive the transition", func() {
				So(c.NextDifficulty(ctx), ShouldEqual, model.Medium)
				So(c.Summary().RecentSamples, ShouldEqual, 5)
			})
		})
	})
}

func TestTrend(t *testing.T) {
	Convey("Given a controller", t, func() {
		ctx := context.Background()
		c := difficulty.New()

		Convey("When fewer than four samples exist", func() {
			recordScore(ctx, c, model.Easy, 0.5)
			recordScore(ctx, c, model.Easy, 0.9)
			recordScore(ctx, c, model.Easy, 0.9)

			Convey("Then the trend is insufficient data", func() {
				So(c.Trend(), ShouldEqual, difficulty.TrendInsufficientData)
			})
		})

		Convey("When the second half clearly beats the first half", func() {
			for _, s := range []float64{0.3, 0.4, 0.7, 0.8} {
				recordScore(ctx, c, model.Easy, s)
			}

			Convey("Then the trend is improving", func() {
				So(c.Trend(), ShouldEqual, difficulty.TrendImproving)
			})
		})

		Convey("When the second half clearly lags the first half", func() {
			for _, s := range []float64{0.8, 0.7, 0.4, 0.3} {
				recordScore(ctx, c, model.Easy, s)
			}

			Convey("Then the trend is declining", func() {
				So(c.Trend(), ShouldEqual, difficulty.TrendDeclining)
			})
		})

		Convey("When both halves are close", func() {
			for _, s := range []float64{0.6, 0.62, 0.64, 0.66} {
				recordScore(ctx, c, model.Easy, s)
			}

			Convey("Then the trend is stable", func() {
				So(c.Trend(), ShouldEqual, difficulty.TrendStable)
			})
		})

		Convey("When the trend uses the full history, not the window", func() {
			// Six low then six high: the window only sees the high tail,
			// but the halves comparison still sees the climb.
			for i := 0; i < 6; i++ {
				recordScore(ctx, c, model.Easy, 0.2)
			}
			for i := 0; i < 6; i++ {
				recordScore(ctx, c, model.Easy, 0.9)
			}

			Convey("Then the full history reports improvement", func() {
				So(c.Trend(), ShouldEqual, difficulty.TrendImproving)
			})
		})
	})
}

func TestSummaryAndBreakdown(t *testing.T) {
	Convey("Given a controller with mixed history", t, func() {
		ctx := context.Background()
		c := difficulty.New()

		Convey("When no samples exist", func() {
			s := c.Summary()

			Convey("Then the summary is the empty-interview sentinel", func() {
				So(s.TotalSamples, ShouldEqual, 0)
				So(s.CurrentLevel, ShouldEqual, model.Easy)
				So(s.Trend, ShouldEqual, difficulty.TrendInsufficientData)
				So(s.Recommendation, ShouldEqual, model.Easy)
			})
		})

		Convey("When strong samples accumulate", func() {
			recordScore(ctx, c, model.Easy, 0.9)
			recordScore(ctx, c, model.Easy, 0.86)
			s := c.Summary()

			Convey("Then the summary recommends promotion without mutating", func() {
				So(s.Recommendation, ShouldEqual, model.Medium)
				So(c.CurrentLevel(), ShouldEqual, model.Easy)
				So(s.PerformanceLevel, ShouldEqual, difficulty.PerformanceExcellent)
				So(s.RecentPerformance, ShouldAlmostEqual, 0.88, 1e-9)
			})
		})

		Convey("When samples span several difficulties", func() {
			recordScore(ctx, c, model.Easy, 0.8)
			recordScore(ctx, c, model.Easy, 0.6)
			recordScore(ctx, c, model.Medium, 0.4)
			b := c.Breakdown()

			Convey("Then the breakdown aggregates per question difficulty", func() {
				So(b[model.Easy].Count, ShouldEqual, 2)
				So(b[model.Easy].Average, ShouldAlmostEqual, 0.7, 1e-9)
				So(b[model.Easy].Min, ShouldAlmostEqual, 0.6, 1e-9)
				So(b[model.Easy].Max, ShouldAlmostEqual, 0.8, 1e-9)
				So(b[model.Medium].Count, ShouldEqual, 1)
				So(b[model.Hard].Count, ShouldEqual, 0)
			})
		})
	})
}

func TestStartingLevelAndReset(t *testing.T) {
	Convey("Given a controller configured to start at medium", t, func() {
		ctx := context.Background()
		c := difficulty.New(difficulty.WithStartingLevel(model.Medium))

		Convey("Then it starts there and resets there", func() {
			So(c.CurrentLevel(), ShouldEqual, model.Medium)
			recordScore(ctx, c, model.Medium, 0.9)
			recordScore(ctx, c, model.Medium, 0.9)
			So(c.NextDifficulty(ctx), ShouldEqual, model.Hard)

			c.Reset()
			So(c.CurrentLevel(), ShouldEqual, model.Medium)
			So(c.Summary().TotalSamples, ShouldEqual, 0)
		})
	})

	Convey("Given an invalid starting level", t, func() {
		c := difficulty.New(difficulty.WithStartingLevel(model.DifficultyLevel("impossible")))

		Convey("Then the controller falls back to easy", func() {
			So(c.CurrentLevel(), ShouldEqual, model.Easy)
		})
	})
}
