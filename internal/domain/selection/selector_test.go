package selection_test

import (
	"context"
	"testing"

	"github.com/quantcoach/tempo/internal/domain/coverage"
	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

// snapWith builds a coverage snapshot with the given competency scores and
// zeros everywhere else.
func snapWith(scores map[model.Competency]float64) coverage.Snapshot {
	comps := make(map[model.Competency]float64, 10)
	for _, c := range model.Competencies() {
		comps[c] = 0
	}
	for c, v := range scores {
		comps[c] = v
	}
	return coverage.Snapshot{Competencies: comps}
}

func question(id string, comp model.Competency, diff model.DifficultyLevel, qt model.QuestionType, topics ...string) model.Question {
	return model.Question{
		ID:         id,
		Text:       "question " + id,
		Competency: comp,
		Difficulty: diff,
		Type:       qt,
		Topics:     topics,
	}
}

func TestSelectBasics(t *testing.T) {
	Convey("Given a selector", t, func() {
		ctx := context.Background()
		s := selection.New()

		Convey("When the pool is empty", func() {
			_, ok := s.Select(ctx, nil, snapWith(nil), model.Easy, nil, 0)

			Convey("Then no selection is made and it is not an error", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When one question is available", func() {
			pool := []model.Question{question("q1", model.Leadership, model.Easy, model.Behavioral)}
			res, ok := s.Select(ctx, pool, snapWith(nil), model.Easy, nil, 0)

			Convey("Then it is selected and recorded", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "q1")
				So(res.Repeated, ShouldBeFalse)
				So(res.Stats.TotalSelections, ShouldEqual, 1)
			})
		})
	})
}

func TestNoRepeatSelection(t *testing.T) {
	Convey("Given a selector and a three-question pool", t, func() {
		ctx := context.Background()
		s := selection.New()
		pool := []model.Question{
			question("q1", model.Leadership, model.Easy, model.Behavioral),
			question("q2", model.Communication, model.Easy, model.Behavioral),
			question("q3", model.Teamwork, model.Easy, model.Behavioral),
		}
		snap := snapWith(nil)

		Convey("When selecting three times in a row", func() {
			seen := map[string]bool{}
			for i := 0; i < 3; i++ {
				res, ok := s.Select(ctx, pool, snap, model.Easy, nil, 0)
				So(ok, ShouldBeTrue)
				So(res.Repeated, ShouldBeFalse)
				seen[res.Question.ID] = true
			}

			Convey("Then three distinct questions come back", func() {
				So(len(seen), ShouldEqual, 3)
			})

			Convey("And a fourth call falls back to the unfiltered pool", func() {
				res, ok := s.Select(ctx, pool, snap, model.Easy, nil, 0)
				So(ok, ShouldBeTrue)
				So(res.Repeated, ShouldBeTrue)
				So(seen[res.Question.ID], ShouldBeTrue)
			})
		})
	})
}

func TestCoverageGapDominance(t *testing.T) {
	Convey("Given two otherwise-identical questions", t, func() {
		ctx := context.Background()
		s := selection.New()
		pool := []model.Question{
			question("covered", model.Leadership, model.Medium, model.Behavioral),
			question("gap", model.Creativity, model.Medium, model.Behavioral),
		}
		snap := snapWith(map[model.Competency]float64{
			model.Leadership: 90,
			model.Creativity: 10,
		})

		Convey("When selecting", func() {
			res, ok := s.Select(ctx, pool, snap, model.Medium, nil, 15)

			Convey("Then the under-covered competency wins despite pool order", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "gap")
			})

			Convey("Then the justification flags the urgency", func() {
				So(res.Justification, ShouldContainSubstring, "URGENT: creativity competency has only 10% coverage")
			})
		})
	})
}

func TestDifficultyMatchFactor(t *testing.T) {
	Convey("Given candidates at each difficulty for the same competency", t, func() {
		ctx := context.Background()
		s := selection.New()
		pool := []model.Question{
			question("hard", model.Ownership, model.Hard, model.Behavioral),
			question("easy", model.Ownership, model.Easy, model.Behavioral),
			question("medium", model.Ownership, model.Medium, model.Behavioral),
		}

		Convey("When the target is medium in mid-interview", func() {
			res, ok := s.Select(ctx, pool, snapWith(nil), model.Medium, nil, 15)

			Convey("Then the exact match wins", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "medium")
				So(res.Justification, ShouldContainSubstring, "Matches target difficulty: medium")
			})
		})

		Convey("When the target is hard in mid-interview", func() {
			res, ok := s.Select(ctx, pool, snapWith(nil), model.Hard, nil, 15)

			Convey("Then the hard question wins and mismatch wording is absent", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "hard")
			})
		})
	})
}

func TestTypeBalanceFactor(t *testing.T) {
	Convey("Given a selector that has already asked two behavioral questions", t, func() {
		ctx := context.Background()
		s := selection.New()
		warmup := []model.Question{
			question("b1", model.Leadership, model.Easy, model.Behavioral),
			question("b2", model.Communication, model.Easy, model.Behavioral),
		}
		snap := snapWith(nil)
		for range warmup {
			_, ok := s.Select(ctx, warmup, snap, model.Easy, nil, 0)
			So(ok, ShouldBeTrue)
		}

		Convey("When an equal behavioral/technical pair is offered", func() {
			// Behavioral now sits at 100% of asked questions, far over its
			// 60% target; technical sits at 0% under its 30% target.
			pool := []model.Question{
				question("b3", model.Teamwork, model.Easy, model.Behavioral),
				question("t1", model.Teamwork, model.Easy, model.Technical),
			}
			res, ok := s.Select(ctx, pool, snap, model.Easy, nil, 0)

			Convey("Then the under-represented type wins", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "t1")
				So(res.Justification, ShouldContainSubstring, "Balancing question types (technical: 0% of 30% target)")
			})
		})
	})
}

func TestCandidateRelevanceFactor(t *testing.T) {
	Convey("Given two equal questions differing only in topics", t, func() {
		ctx := context.Background()
		s := selection.New()
		pool := []model.Question{
			question("offtopic", model.ProblemSolving, model.Medium, model.Technical, "fortran", "mainframes"),
			question("ontopic", model.ProblemSolving, model.Medium, model.Technical, "go", "kafka"),
		}
		profile := &model.Profile{
			TechnicalSkills: []string{"Go"},
			Technologies:    []string{"Kafka"},
		}

		Convey("When a profile is provided", func() {
			res, ok := s.Select(ctx, pool, snapWith(nil), model.Medium, profile, 15)

			Convey("Then topic overlap with the candidate's background wins", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "ontopic")
			})
		})

		Convey("When no profile is provided", func() {
			res, ok := s.Select(ctx, pool, snapWith(nil), model.Medium, nil, 15)

			Convey("Then relevance is neutral and pool order decides", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "offtopic")
			})
		})
	})
}

func TestStageFitFactor(t *testing.T) {
	Convey("Given equal easy and hard questions", t, func() {
		ctx := context.Background()

		pool := []model.Question{
			question("hard", model.Adaptability, model.Hard, model.Behavioral),
			question("easy", model.Adaptability, model.Easy, model.Behavioral),
		}

		Convey("When the interview has just started and the target is between them", func() {
			s := selection.New()
			// Target medium keeps the difficulty factor equal (one level
			// off for both), so stage fit decides.
			res, ok := s.Select(ctx, pool, snapWith(nil), model.Medium, nil, 2)

			Convey("Then the opening stage prefers easy", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "easy")
			})
		})

		Convey("When the interview is in the deep-dive stage", func() {
			s := selection.New()
			res, ok := s.Select(ctx, pool, snapWith(nil), model.Medium, nil, 35)

			Convey("Then the deep dive prefers hard", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "hard")
			})
		})

		Convey("When the interview is closing", func() {
			s := selection.New()
			res, ok := s.Select(ctx, pool, snapWith(nil), model.Medium, nil, 50)

			Convey("Then the closing stage winds down to easy", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.ID, ShouldEqual, "easy")
			})
		})
	})
}

func TestStableTieBreak(t *testing.T) {
	Convey("Given two fully identical candidates", t, func() {
		ctx := context.Background()
		s := selection.New()
		pool := []model.Question{
			question("first", model.Leadership, model.Medium, model.Behavioral),
			question("second", model.Leadership, model.Medium, model.Behavioral),
		}

		Convey("When selecting twice", func() {
			res1, ok1 := s.Select(ctx, pool, snapWith(nil), model.Medium, nil, 15)
			res2, ok2 := s.Select(ctx, pool, snapWith(nil), model.Medium, nil, 15)

			Convey("Then the earliest pool entry wins ties, then the next", func() {
				So(ok1, ShouldBeTrue)
				So(res1.Question.ID, ShouldEqual, "first")
				So(ok2, ShouldBeTrue)
				So(res2.Question.ID, ShouldEqual, "second")
			})
		})
	})
}

func TestGapOrderingPinsDown(t *testing.T) {
	Convey("Given leadership partially covered and technical depth untouched", t, func() {
		ctx := context.Background()
		s := selection.New()
		snap := snapWith(map[model.Competency]float64{model.Leadership: 20})
		pool := []model.Question{
			question("l1", model.Leadership, model.Medium, model.Behavioral),
			question("l2", model.Leadership, model.Medium, model.Behavioral),
			question("t1", model.TechnicalDepth, model.Medium, model.Technical),
			question("t2", model.TechnicalDepth, model.Medium, model.Technical),
		}

		Convey("When selecting at twelve minutes with a medium target", func() {
			res, ok := s.Select(ctx, pool, snap, model.Medium, nil, 12)

			Convey("Then the zero-coverage competency is the more urgent gap", func() {
				So(ok, ShouldBeTrue)
				So(res.Question.Competency, ShouldEqual, model.TechnicalDepth)
				So(res.Question.Difficulty, ShouldEqual, model.Medium)
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given a selector with a few recorded selections", t, func() {
		ctx := context.Background()
		s := selection.New()
		snap := snapWith(nil)
		pool := []model.Question{
			question("b1", model.Leadership, model.Easy, model.Behavioral),
			question("b2", model.Leadership, model.Medium, model.Behavioral),
			question("t1", model.TechnicalDepth, model.Medium, model.Technical),
			question("s1", model.Teamwork, model.Easy, model.Situational),
		}
		for i := 0; i < 4; i++ {
			_, ok := s.Select(ctx, pool, snap, model.Easy, nil, 0)
			So(ok, ShouldBeTrue)
		}

		Convey("When computing stats", func() {
			stats := s.Stats()

			Convey("Then totals and distributions add up", func() {
				So(stats.TotalSelections, ShouldEqual, 4)
				So(stats.ByType[model.Behavioral].Count, ShouldEqual, 2)
				So(stats.ByType[model.Behavioral].Percentage, ShouldEqual, 50)
				So(stats.ByType[model.Technical].Count, ShouldEqual, 1)
				So(stats.ByType[model.Technical].Percentage, ShouldEqual, 25)
				So(stats.ByCompetency[model.Leadership].Count, ShouldEqual, 2)
				So(stats.ByDifficulty[model.Easy].Count+stats.ByDifficulty[model.Medium].Count, ShouldEqual, 4)
			})
		})

		Convey("When the selector is reset", func() {
			s.Reset()

			Convey("Then stats and history are empty again", func() {
				So(s.Stats().TotalSelections, ShouldEqual, 0)
				So(s.History(), ShouldBeEmpty)
			})
		})
	})
}

func TestNextRecommendedCompetency(t *testing.T) {
	Convey("Given a selector", t, func() {
		s := selection.New()

		Convey("When one competency lags", func() {
			scores := map[model.Competency]float64{}
			for _, c := range model.Competencies() {
				scores[c] = 85
			}
			scores[model.Ownership] = 40

			Convey("Then it is the recommended target", func() {
				comp, ok := s.NextRecommendedCompetency(snapWith(scores))
				So(ok, ShouldBeTrue)
				So(comp, ShouldEqual, model.Ownership)
			})
		})

		Convey("When everything is well covered", func() {
			scores := map[model.Competency]float64{}
			for _, c := range model.Competencies() {
				scores[c] = 85
			}

			Convey("Then nothing is recommended", func() {
				_, ok := s.NextRecommendedCompetency(snapWith(scores))
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestFallbackByTextKey(t *testing.T) {
	Convey("Given questions without ids", t, func() {
		ctx := context.Background()
		s := selection.New()
		pool := []model.Question{
			{Text: "Describe a conflict you resolved", Competency: model.Teamwork, Difficulty: model.Easy, Type: model.Behavioral},
			{Text: "Walk me through a system you designed", Competency: model.TechnicalDepth, Difficulty: model.Easy, Type: model.Technical},
		}

		Convey("When selecting twice", func() {
			res1, ok1 := s.Select(ctx, pool, snapWith(nil), model.Easy, nil, 0)
			res2, ok2 := s.Select(ctx, pool, snapWith(nil), model.Easy, nil, 0)

			Convey("Then the text hash key still prevents repeats", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(res1.Question.Text, ShouldNotEqual, res2.Question.Text)
			})
		})
	})
}
