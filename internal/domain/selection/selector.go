// Package selection picks the next interview question from a candidate
// pool by scoring every candidate against coverage gaps, the target
// difficulty, question-type balance, candidate relevance, and the current
// interview stage.
package selection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quantcoach/tempo/internal/domain/coverage"
	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/pkg/logger"
	"github.com/quantcoach/tempo/pkg/metrics"
)

// Coverage-gap priority bands (percent coverage of the question's
// competency). The gap factor is deliberately the largest single factor so
// coverage gaps dominate selection.
const (
	defaultUrgentCoverage = 20.0
	defaultHighCoverage   = 50.0
	defaultMediumCoverage = 80.0

	gapUrgentPoints = 40.0
	gapHighPoints   = 30.0
	gapMediumPoints = 20.0
	gapLowPoints    = 10.0
)

// Difficulty-match points by distance from the target level.
const (
	difficultyExactPoints  = 25.0
	difficultyNearPoints   = 15.0
	difficultyFarPoints    = 5.0
	balanceTargetSlack     = 0.10
	balanceUnderPoints     = 15.0
	balanceNearPoints      = 10.0
	balanceOverPoints      = 5.0
	relevanceBasePoints    = 5.0
	relevanceOverlapPoints = 5.0
	relevanceMaxPoints     = 10.0
)

// Default question-type balance targets.
const (
	defaultBehavioralTarget  = 0.60
	defaultTechnicalTarget   = 0.30
	defaultSituationalTarget = 0.10
)

// Interview stage boundaries in elapsed minutes and their fit points.
const (
	openingEndMinutes  = 10.0
	middleEndMinutes   = 30.0
	deepDiveEndMinutes = 45.0

	stageStrongFit = 10.0
	stageMiddleFit = 8.0
	stageMediumFit = 7.0
	stageClosePass = 6.0
	stageWeakFit   = 5.0
	stageSoftFit   = 4.0
	stagePoorFit   = 2.0
)

// Result is a successful selection plus its machine-readable justification.
type Result struct {
	Question model.Question
	Score    float64
	// Justification names the dominant scoring factors for the pick.
	Justification string
	// Repeated is set when the pool was exhausted and the selection was
	// served from the unfiltered pool, so a repeat was permitted.
	Repeated bool
	// Stats is the usage distribution after recording this selection.
	Stats Stats
}

// Selector holds per-interview selection state. It is not safe for
// concurrent use: the caller owns serialization per interview id.
type Selector struct {
	asked      map[string]struct{}
	typeCounts map[model.QuestionType]int
	history    []model.SelectionRecord

	targets        map[model.QuestionType]float64
	urgentCoverage float64
	highCoverage   float64
	mediumCoverage float64

	log logger.Logger
}

// New creates an empty selector for a fresh interview.
func New(opts ...Option) *Selector {
	s := &Selector{
		targets: map[model.QuestionType]float64{
			model.Behavioral:  defaultBehavioralTarget,
			model.Technical:   defaultTechnicalTarget,
			model.Situational: defaultSituationalTarget,
		},
		urgentCoverage: defaultUrgentCoverage,
		highCoverage:   defaultHighCoverage,
		mediumCoverage: defaultMediumCoverage,
		log:            logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.reset()

	return s
}

// Select scores every not-yet-asked candidate and returns the best one. If
// every candidate has been asked already, the unfiltered pool is used and
// the result is flagged as a repeat. An empty pool returns ok=false: a
// normal business outcome, not an error.
func (s *Selector) Select(
	ctx context.Context,
	pool []model.Question,
	snap coverage.Snapshot,
	targetDifficulty model.DifficultyLevel,
	profile *model.Profile,
	elapsedMinutes float64,
) (Result, bool) {
	if len(pool) == 0 {
		s.log.Warn(ctx, "empty question pool")
		metrics.RecordSelectionExhausted()
		return Result{}, false
	}

	candidates := make([]model.Question, 0, len(pool))
	for _, q := range pool {
		if _, seen := s.asked[q.Key()]; !seen {
			candidates = append(candidates, q)
		}
	}

	repeated := false
	if len(candidates) == 0 {
		s.log.Warn(ctx, "all questions asked, allowing repeats", logger.Int("poolSize", len(pool)))
		candidates = pool
		repeated = true
		metrics.RecordSelectionFallback()
	}

	// Deterministic argmax: candidates are scored in pool order and only a
	// strictly greater score displaces the current best, so the earliest
	// candidate wins ties. Pool position is the documented secondary key.
	best := 0
	bestScore := -1.0
	for i, q := range candidates {
		score := s.score(q, snap, targetDifficulty, profile, elapsedMinutes)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	chosen := candidates[best]
	s.recordUse(chosen)

	metrics.RecordSelection(string(chosen.Type))
	metrics.RecordSelectionScore(bestScore)

	s.log.Info(ctx, "question selected",
		logger.String("key", chosen.Key()),
		logger.String("competency", string(chosen.Competency)),
		logger.String("difficulty", string(chosen.Difficulty)),
		logger.Float64("score", bestScore),
		logger.Bool("repeated", repeated),
	)

	return Result{
		Question:      chosen,
		Score:         bestScore,
		Justification: s.justify(chosen, snap, targetDifficulty),
		Repeated:      repeated,
		Stats:         s.Stats(),
	}, true
}

// score sums the five independently bounded factors for one candidate.
func (s *Selector) score(
	q model.Question,
	snap coverage.Snapshot,
	targetDifficulty model.DifficultyLevel,
	profile *model.Profile,
	elapsedMinutes float64,
) float64 {
	total := s.gapPriority(snap.Competencies[q.Competency])
	total += difficultyMatch(q.Difficulty, targetDifficulty)
	total += s.typeBalance(q.Type)
	total += relevance(q, profile)
	total += stageFit(q.Difficulty, elapsedMinutes)
	return total
}

// gapPriority rewards questions probing under-covered competencies (0-40).
func (s *Selector) gapPriority(cov float64) float64 {
	switch {
	case cov < s.urgentCoverage:
		return gapUrgentPoints
	case cov < s.highCoverage:
		return gapHighPoints
	case cov < s.mediumCoverage:
		return gapMediumPoints
	default:
		return gapLowPoints
	}
}

// difficultyMatch rewards proximity to the target level (0-25).
func difficultyMatch(have, want model.DifficultyLevel) float64 {
	switch have.Distance(want) {
	case 0:
		return difficultyExactPoints
	case 1:
		return difficultyNearPoints
	default:
		return difficultyFarPoints
	}
}

// typeBalance rewards question types running under their target share of
// the interview (0-15).
func (s *Selector) typeBalance(t model.QuestionType) float64 {
	total := 0
	for _, count := range s.typeCounts {
		total += count
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(s.typeCounts[t]) / float64(total)
	}

	target := s.targets[t]
	switch {
	case ratio < target:
		return balanceUnderPoints
	case ratio < target+balanceTargetSlack:
		return balanceNearPoints
	default:
		return balanceOverPoints
	}
}

// relevance rewards topic overlap with the candidate's background (0-10).
// Without a profile, or without topics on the question, the factor is
// neutral.
func relevance(q model.Question, profile *model.Profile) float64 {
	if profile == nil || len(q.Topics) == 0 {
		return relevanceBasePoints
	}

	skills := profile.SkillSet()
	overlap := 0
	for _, topic := range q.Topics {
		if _, ok := skills[strings.ToLower(strings.TrimSpace(topic))]; ok {
			overlap++
		}
	}

	score := relevanceBasePoints + relevanceOverlapPoints*float64(overlap)/float64(len(q.Topics))
	if score > relevanceMaxPoints {
		score = relevanceMaxPoints
	}
	return score
}

// stageFit rewards difficulty appropriate to the elapsed interview time
// (0-10): easy openers, anything mid-interview, hard deep dives, gentler
// closers.
func stageFit(d model.DifficultyLevel, elapsedMinutes float64) float64 {
	switch {
	case elapsedMinutes < openingEndMinutes:
		switch d {
		case model.Easy:
			return stageStrongFit
		case model.Medium:
			return stageWeakFit
		default:
			return stagePoorFit
		}
	case elapsedMinutes < middleEndMinutes:
		return stageMiddleFit
	case elapsedMinutes < deepDiveEndMinutes:
		switch d {
		case model.Hard:
			return stageStrongFit
		case model.Medium:
			return stageMediumFit
		default:
			return stageSoftFit
		}
	default:
		if d == model.Hard {
			return stageClosePass
		}
		return stageStrongFit
	}
}

// justify builds the human/machine-readable explanation for a pick.
func (s *Selector) justify(q model.Question, snap coverage.Snapshot, target model.DifficultyLevel) string {
	cov := snap.Competencies[q.Competency]

	reasons := make([]string, 0, 3)
	switch {
	case cov < s.urgentCoverage:
		reasons = append(reasons, fmt.Sprintf("URGENT: %s competency has only %.0f%% coverage", q.Competency, cov))
	case cov < s.highCoverage:
		reasons = append(reasons, fmt.Sprintf("Targeting %s competency (current coverage: %.0f%%)", q.Competency, cov))
	default:
		reasons = append(reasons, fmt.Sprintf("Deepening %s assessment (coverage: %.0f%%)", q.Competency, cov))
	}

	if q.Difficulty == target {
		reasons = append(reasons, "Matches target difficulty: "+string(target))
	} else {
		reasons = append(reasons, fmt.Sprintf("Difficulty: %s (target: %s)", q.Difficulty, target))
	}

	// recordUse already counted this pick, so compare against the state
	// before it when reporting the balance motivation.
	total := 0
	for _, count := range s.typeCounts {
		total += count
	}
	priorTotal := total - 1
	priorRatio := 0.0
	if priorTotal > 0 {
		priorRatio = float64(s.typeCounts[q.Type]-1) / float64(priorTotal)
	}
	if targetRatio := s.targets[q.Type]; priorRatio < targetRatio {
		reasons = append(reasons, fmt.Sprintf("Balancing question types (%s: %.0f%% of %.0f%% target)",
			q.Type, priorRatio*100, targetRatio*100))
	}

	return strings.Join(reasons, " | ")
}

// recordUse marks a question as asked and appends to the selection log.
func (s *Selector) recordUse(q model.Question) {
	s.asked[q.Key()] = struct{}{}
	s.typeCounts[q.Type]++
	s.history = append(s.history, model.SelectionRecord{
		QuestionKey: q.Key(),
		Competency:  q.Competency,
		Difficulty:  q.Difficulty,
		Type:        q.Type,
		Timestamp:   time.Now().UTC(),
	})
}

// NextRecommendedCompetency returns the lowest-coverage competency while it
// still sits under the medium-priority band.
func (s *Selector) NextRecommendedCompetency(snap coverage.Snapshot) (model.Competency, bool) {
	var lowest model.Competency
	lowestScore := -1.0
	for _, c := range model.Competencies() {
		cov := snap.Competencies[c]
		if lowestScore < 0 || cov < lowestScore {
			lowest = c
			lowestScore = cov
		}
	}
	if lowestScore >= 0 && lowestScore < s.mediumCoverage {
		return lowest, true
	}
	return "", false
}

// History returns a copy of the append-only selection log.
func (s *Selector) History() []model.SelectionRecord {
	out := make([]model.SelectionRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Reset clears the selector for a new interview.
func (s *Selector) Reset() {
	s.reset()
}

func (s *Selector) reset() {
	s.asked = make(map[string]struct{})
	s.typeCounts = map[model.QuestionType]int{
		model.Behavioral:  0,
		model.Technical:   0,
		model.Situational: 0,
	}
	s.history = nil
}
