package simulation

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/quantcoach/tempo/internal/domain/coverage"
	"github.com/quantcoach/tempo/internal/domain/difficulty"
	"github.com/quantcoach/tempo/internal/domain/model"
)

// Archetype base levels on the normalized [0,1] performance scale.
const (
	steadyBase     = 0.65
	strongBase     = 0.90
	strugglingBase = 0.30
	improvingStart = 0.35
	improvingEnd   = 0.90
	volatileHigh   = 0.85
	volatileLow    = 0.35

	answerNoise = 0.05

	// starCompleteAbove marks answers that hit all four STAR parts.
	starCompleteAbove = 0.70
)

// Question text templates and topics per competency, used when no pool file
// is supplied.
var questionTopics = map[model.Competency][]string{
	model.Leadership:        {"mentoring", "delegation", "conflict resolution"},
	model.Communication:     {"stakeholders", "presentations", "written updates"},
	model.TechnicalDepth:    {"system design", "debugging", "performance"},
	model.ProblemSolving:    {"root cause analysis", "tradeoffs", "prioritization"},
	model.Ownership:         {"incident response", "follow-through", "accountability"},
	model.Adaptability:      {"reorgs", "changing requirements", "new tools"},
	model.StrategicThinking: {"roadmaps", "long-term bets", "market shifts"},
	model.Creativity:        {"novel solutions", "prototyping", "brainstorming"},
	model.Teamwork:          {"pairing", "code review", "cross-team projects"},
	model.CultureFit:        {"values", "feedback culture", "collaboration style"},
}

// generatePool builds a synthetic question pool cycling through every
// competency and difficulty, with question types near the default 60/30/10
// interview balance.
func generatePool(rng *rand.Rand, size int) []model.Question {
	competencies := model.Competencies()
	pool := make([]model.Question, 0, size)

	for i := 0; i < size; i++ {
		competency := competencies[i%len(competencies)]
		difficultyLevel := model.DifficultyLevels()[i%3]

		var questionType model.QuestionType
		switch i % 10 {
		case 0, 1, 2, 3, 4, 5:
			questionType = model.Behavioral
		case 6, 7, 8:
			questionType = model.Technical
		default:
			questionType = model.Situational
		}

		topics := questionTopics[competency]
		topic := topics[rng.Intn(len(topics))]

		pool = append(pool, model.Question{
			ID:         uuid.New().String(),
			Text:       fmt.Sprintf("Tell me about a time %s came up in your work.", topic),
			Competency: competency,
			Difficulty: difficultyLevel,
			Type:       questionType,
			Topics:     []string{topic},
		})
	}

	return pool
}

// answerScore synthesizes the candidate's normalized performance for one
// turn of the given archetype.
func answerScore(rng *rand.Rand, archetype Archetype, turn, totalTurns int) float64 {
	var base float64
	switch archetype {
	case ArchetypeStrong:
		base = strongBase
	case ArchetypeStruggling:
		base = strugglingBase
	case ArchetypeImproving:
		progress := 0.0
		if totalTurns > 1 {
			progress = float64(turn) / float64(totalTurns-1)
		}
		base = improvingStart + (improvingEnd-improvingStart)*progress
	case ArchetypeVolatile:
		if turn%2 == 0 {
			base = volatileHigh
		} else {
			base = volatileLow
		}
	default:
		base = steadyBase
	}

	score := base + (rng.Float64()*2-1)*answerNoise
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// synthesizeSignals turns one answer score into the observations the two
// external evaluators would have produced for the asked question.
func synthesizeSignals(q model.Question, score float64) (coverage.Observation, difficulty.Observation) {
	percent := score * 100
	starComplete := score >= starCompleteAbove
	quality := qualityFor(score)
	rating := 1 + int(score*4+0.5)
	if rating > 5 {
		rating = 5
	}

	cov := coverage.Observation{
		Topics:       q.Topics,
		Competencies: map[string]float64{string(q.Competency): percent},
		QuestionType: q.Type,
		StarComplete: &starComplete,
	}

	perf := difficulty.Observation{
		Difficulty:        q.Difficulty,
		StarCompletion:    &percent,
		CompetencyScore:   &percent,
		ResponseQuality:   &quality,
		InterviewerRating: &rating,
	}

	return cov, perf
}

func qualityFor(score float64) model.ResponseQuality {
	switch {
	case score >= 0.80:
		return model.QualityExcellent
	case score >= 0.60:
		return model.QualityGood
	case score >= 0.40:
		return model.QualityFair
	default:
		return model.QualityPoor
	}
}
