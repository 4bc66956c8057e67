// Package coverage tracks how well each competency has been demonstrated
// over the course of a single interview.
package coverage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/pkg/logger"
	"github.com/quantcoach/tempo/pkg/metrics"
)

// Default ledger thresholds.
const (
	defaultGapThreshold   = 30.0
	defaultFocusThreshold = 50.0

	maxCompetencyScore = 100.0

	// Recommendation nudge thresholds.
	minQuestionsForDepth  = 5
	minQuestionsPerFormat = 2
	minStarCompletionRate = 0.5

	topGapCount = 3
)

// Status buckets derived from overall coverage.
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusModerate  Status = "moderate"
	StatusLimited   Status = "limited"
	StatusMinimal   Status = "minimal"
)

// Observation carries the signals produced by the external evaluators for
// one exchange. Zero-value fields mean "no signal this turn".
type Observation struct {
	// Topics discussed during the exchange; unioned into the topic set.
	Topics []string

	// Competencies maps evaluator-reported competency names to scores in
	// [0,100]. Unknown names and out-of-range scores are skipped, not
	// rejected.
	Competencies map[string]float64

	// QuestionType, when non-empty, counts the exchange as a question of
	// that type.
	QuestionType model.QuestionType

	// StarComplete, when non-nil, counts a STAR attempt and whether all
	// four parts were present.
	StarComplete *bool
}

// Metrics holds the per-interview counters surfaced in a snapshot.
type Metrics struct {
	TotalQuestions      int
	BehavioralQuestions int
	TechnicalQuestions  int
	StarAttempts        int
	CompleteStarAnswers int
	// StarCompletionRate is a percentage; zero when no attempts were made.
	StarCompletionRate float64
	DurationMinutes    float64
}

// Snapshot is the point-in-time coverage state handed to callers and to the
// question selector.
type Snapshot struct {
	// OverallCoverage is the mean over all ten competencies. Competencies
	// never probed count as zero, so partial coverage drags the mean down.
	OverallCoverage float64
	Competencies    map[model.Competency]float64
	Topics          []string
	TopicCount      int
	Gaps            []model.Competency
	Recommendations []string
	Metrics         Metrics
	Status          Status
	LastUpdated     time.Time
}

// Ledger is the per-interview coverage record. It is not safe for
// concurrent use: the caller owns serialization per interview id.
type Ledger struct {
	scores map[model.Competency]float64
	topics map[string]struct{}

	questionsAsked      int
	behavioralQuestions int
	technicalQuestions  int
	starAttempts        int
	completeStarAnswers int

	gapThreshold   float64
	focusThreshold float64

	startTime  time.Time
	lastUpdate time.Time

	log logger.Logger
}

// New creates an empty ledger for a fresh interview.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		gapThreshold:   defaultGapThreshold,
		focusThreshold: defaultFocusThreshold,
		log:            logger.Nop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.reset()

	return l
}

// Update merges one observation into the ledger and returns the resulting
// snapshot. Competency scores only ever move upward: the ledger keeps the
// best evidence seen, not the most recent.
func (l *Ledger) Update(ctx context.Context, obs Observation) Snapshot {
	l.lastUpdate = time.Now().UTC()

	for _, topic := range obs.Topics {
		topic = strings.TrimSpace(topic)
		if topic != "" {
			l.topics[topic] = struct{}{}
		}
	}

	for name, score := range obs.Competencies {
		comp, err := model.ParseCompetency(name)
		if err != nil {
			l.log.Warn(ctx, "skipping unknown competency", logger.String("competency", name))
			metrics.RecordCoverageSkip()
			continue
		}
		if score < 0 || score > maxCompetencyScore {
			l.log.Warn(ctx, "skipping out-of-range competency score",
				logger.String("competency", name),
				logger.Float64("score", score),
			)
			metrics.RecordCoverageSkip()
			continue
		}
		if score > l.scores[comp] {
			l.scores[comp] = score
		}
	}

	if obs.QuestionType != "" {
		l.questionsAsked++
		switch obs.QuestionType {
		case model.Behavioral:
			l.behavioralQuestions++
		case model.Technical:
			l.technicalQuestions++
		}
	}

	if obs.StarComplete != nil {
		l.starAttempts++
		if *obs.StarComplete {
			l.completeStarAnswers++
		}
	}

	metrics.RecordCoverageUpdate()

	snap := l.Snapshot()
	l.log.Debug(ctx, "coverage updated",
		logger.Float64("overall", snap.OverallCoverage),
		logger.Int("gaps", len(snap.Gaps)),
		logger.Int("questions", l.questionsAsked),
	)

	return snap
}

// Snapshot computes the current coverage state.
func (l *Ledger) Snapshot() Snapshot {
	comps := model.Competencies()

	var sum float64
	scores := make(map[model.Competency]float64, len(comps))
	gaps := make([]model.Competency, 0, len(comps))
	for _, c := range comps {
		score := l.scores[c]
		scores[c] = round1(score)
		sum += score
		if score < l.gapThreshold {
			gaps = append(gaps, c)
		}
	}
	overall := round1(sum / float64(len(comps)))

	topics := make([]string, 0, len(l.topics))
	for t := range l.topics {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	starRate := 0.0
	if l.starAttempts > 0 {
		starRate = round1(float64(l.completeStarAnswers) / float64(l.starAttempts) * 100)
	}

	return Snapshot{
		OverallCoverage: overall,
		Competencies:    scores,
		Topics:          topics,
		TopicCount:      len(topics),
		Gaps:            gaps,
		Recommendations: l.recommendations(gaps),
		Metrics: Metrics{
			TotalQuestions:      l.questionsAsked,
			BehavioralQuestions: l.behavioralQuestions,
			TechnicalQuestions:  l.technicalQuestions,
			StarAttempts:        l.starAttempts,
			CompleteStarAnswers: l.completeStarAnswers,
			StarCompletionRate:  starRate,
			DurationMinutes:     round1(l.lastUpdate.Sub(l.startTime).Minutes()),
		},
		Status:      statusFor(overall),
		LastUpdated: l.lastUpdate,
	}
}

// NextFocusArea returns the lowest-scoring competency when it is still under
// the focus threshold. The second return is false once every competency has
// adequate coverage.
func (l *Ledger) NextFocusArea() (model.Competency, bool) {
	var lowest model.Competency
	lowestScore := math.Inf(1)
	for _, c := range model.Competencies() {
		if l.scores[c] < lowestScore {
			lowest = c
			lowestScore = l.scores[c]
		}
	}
	if lowestScore < l.focusThreshold {
		return lowest, true
	}
	return "", false
}

// Summary returns a one-line human-readable digest of the coverage state.
func (l *Ledger) Summary() string {
	snap := l.Snapshot()

	parts := []string{
		fmt.Sprintf("Overall Coverage: %.1f%% (%s)", snap.OverallCoverage, snap.Status),
		fmt.Sprintf("Questions Asked: %d", snap.Metrics.TotalQuestions),
		fmt.Sprintf("Topics Covered: %d", snap.TopicCount),
	}

	if len(snap.Gaps) > 0 {
		top := snap.Gaps
		if len(top) > topGapCount {
			top = top[:topGapCount]
		}
		names := make([]string, len(top))
		for i, g := range top {
			names[i] = string(g)
		}
		parts = append(parts, "Gaps: "+strings.Join(names, ", "))
	}

	return strings.Join(parts, " | ")
}

// Reset clears the ledger for a new interview.
func (l *Ledger) Reset() {
	l.reset()
}

func (l *Ledger) reset() {
	l.scores = make(map[model.Competency]float64, len(model.Competencies()))
	for _, c := range model.Competencies() {
		l.scores[c] = 0
	}
	l.topics = make(map[string]struct{})
	l.questionsAsked = 0
	l.behavioralQuestions = 0
	l.technicalQuestions = 0
	l.starAttempts = 0
	l.completeStarAnswers = 0
	l.startTime = time.Now().UTC()
	l.lastUpdate = l.startTime
}

// recommendationTemplates suggests a probing angle per competency.
var recommendationTemplates = map[model.Competency]string{ //nolint:gochecknoglobals // static template table
	model.Leadership:        "Ask about times they led a team or made important decisions",
	model.Communication:     "Explore how they explain complex concepts or handle difficult conversations",
	model.TechnicalDepth:    "Dig deeper into technical implementations and trade-offs",
	model.ProblemSolving:    "Ask about challenging problems they've solved",
	model.Ownership:         "Explore their sense of responsibility and accountability",
	model.Adaptability:      "Ask how they've handled change or learned new skills quickly",
	model.StrategicThinking: "Discuss long-term planning and business impact",
	model.Creativity:        "Ask about innovative solutions or novel approaches they've used",
	model.Teamwork:          "Explore collaboration and working with diverse teams",
	model.CultureFit:        "Assess values alignment and work style preferences",
}

func (l *Ledger) recommendations(gaps []model.Competency) []string {
	if len(gaps) == 0 {
		return []string{"Good coverage across all competencies"}
	}

	top := gaps
	if len(top) > topGapCount {
		top = top[:topGapCount]
	}

	recs := make([]string, 0, topGapCount+4)
	for _, gap := range top {
		if tmpl, ok := recommendationTemplates[gap]; ok {
			recs = append(recs, fmt.Sprintf("%s: %s", displayName(gap), tmpl))
		}
	}

	if l.questionsAsked < minQuestionsForDepth {
		recs = append(recs, "Still early in the interview - continue exploring different areas")
	}
	if l.behavioralQuestions < minQuestionsPerFormat {
		recs = append(recs, "Ask more behavioral questions (STAR format)")
	}
	if l.technicalQuestions < minQuestionsPerFormat {
		recs = append(recs, "Explore technical depth more thoroughly")
	}
	if l.starAttempts > 0 && float64(l.completeStarAnswers)/float64(l.starAttempts) < minStarCompletionRate {
		recs = append(recs, "Encourage more complete STAR answers with follow-ups")
	}

	return recs
}

// displayName renders a competency for human-facing strings,
// e.g. "technical_depth" -> "Technical Depth".
func displayName(c model.Competency) string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func statusFor(overall float64) Status {
	switch {
	case overall >= 80:
		return StatusExcellent
	case overall >= 60:
		return StatusGood
	case overall >= 40:
		return StatusModerate
	case overall >= 20:
		return StatusLimited
	default:
		return StatusMinimal
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
