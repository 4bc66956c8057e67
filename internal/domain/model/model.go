// Package model contains the value types passed between the engine's
// components and its callers. Values produced by external evaluators are
// validated here, at the boundary, so the domain packages only ever see
// well-formed inputs.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Competency is one of the ten fixed skill/trait categories assessed during
// an interview.
type Competency string

// The ten core competencies. The set is fixed; coverage arithmetic always
// runs over all ten, whether or not a competency has been probed yet.
const (
	Leadership        Competency = "leadership"
	Communication     Competency = "communication"
	TechnicalDepth    Competency = "technical_depth"
	ProblemSolving    Competency = "problem_solving"
	Ownership         Competency = "ownership"
	Adaptability      Competency = "adaptability"
	StrategicThinking Competency = "strategic_thinking"
	Creativity        Competency = "creativity"
	Teamwork          Competency = "teamwork"
	CultureFit        Competency = "culture_fit"
)

// Competencies returns the fixed competency set in canonical order.
func Competencies() []Competency {
	return []Competency{
		Leadership,
		Communication,
		TechnicalDepth,
		ProblemSolving,
		Ownership,
		Adaptability,
		StrategicThinking,
		Creativity,
		Teamwork,
		CultureFit,
	}
}

// ParseCompetency parses a competency name (case-insensitive).
func ParseCompetency(s string) (Competency, error) {
	c := Competency(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Competencies() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCompetency, s)
}

// DifficultyLevel is an ordered difficulty scale: easy < medium < hard.
type DifficultyLevel string

const (
	Easy   DifficultyLevel = "easy"
	Medium DifficultyLevel = "medium"
	Hard   DifficultyLevel = "hard"
)

// DifficultyLevels returns the scale in ascending order.
func DifficultyLevels() []DifficultyLevel {
	return []DifficultyLevel{Easy, Medium, Hard}
}

// ParseDifficulty parses a difficulty name (case-insensitive).
func ParseDifficulty(s string) (DifficultyLevel, error) {
	switch DifficultyLevel(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy, nil
	case Medium:
		return Medium, nil
	case Hard:
		return Hard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// Index returns the position of the level on the ordered scale, with medium
// as the fallback for zero values.
func (d DifficultyLevel) Index() int {
	switch d {
	case Easy:
		return 0
	case Medium:
		return 1
	case Hard:
		return 2
	default:
		return 1
	}
}

// Distance returns the absolute number of levels between two difficulties.
func (d DifficultyLevel) Distance(other DifficultyLevel) int {
	diff := d.Index() - other.Index()
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// Promote returns the next level up, capped at hard.
func (d DifficultyLevel) Promote() DifficultyLevel {
	levels := DifficultyLevels()
	idx := d.Index()
	if idx < len(levels)-1 {
		return levels[idx+1]
	}
	return d
}

// Demote returns the next level down, capped at easy.
func (d DifficultyLevel) Demote() DifficultyLevel {
	levels := DifficultyLevels()
	idx := d.Index()
	if idx > 0 {
		return levels[idx-1]
	}
	return d
}

// QuestionType classifies a question's format.
type QuestionType string

const (
	Behavioral  QuestionType = "behavioral"
	Technical   QuestionType = "technical"
	Situational QuestionType = "situational"
)

// QuestionTypes returns all question types in canonical order.
func QuestionTypes() []QuestionType {
	return []QuestionType{Behavioral, Technical, Situational}
}

// ParseQuestionType parses a question type name (case-insensitive).
func ParseQuestionType(s string) (QuestionType, error) {
	switch QuestionType(strings.ToLower(strings.TrimSpace(s))) {
	case Behavioral:
		return Behavioral, nil
	case Technical:
		return Technical, nil
	case Situational:
		return Situational, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, s)
	}
}

// ResponseQuality is the qualitative answer rating assigned by the
// interviewer-feedback collaborator.
type ResponseQuality string

const (
	QualityPoor      ResponseQuality = "poor"
	QualityFair      ResponseQuality = "fair"
	QualityGood      ResponseQuality = "good"
	QualityExcellent ResponseQuality = "excellent"
)

// Normalized maps the quality label onto [0,1]. Unknown labels read as fair.
func (q ResponseQuality) Normalized() float64 {
	switch q {
	case QualityPoor:
		return 0.25
	case QualityFair:
		return 0.50
	case QualityGood:
		return 0.75
	case QualityExcellent:
		return 1.0
	default:
		return 0.50
	}
}

// ParseResponseQuality parses a quality label (case-insensitive).
func ParseResponseQuality(s string) (ResponseQuality, error) {
	switch ResponseQuality(strings.ToLower(strings.TrimSpace(s))) {
	case QualityPoor:
		return QualityPoor, nil
	case QualityFair:
		return QualityFair, nil
	case QualityGood:
		return QualityGood, nil
	case QualityExcellent:
		return QualityExcellent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuality, s)
	}
}

// questionKeyLength bounds the fallback key derived from question text when
// a pool entry carries no id.
const questionKeyLength = 100

// Question is a candidate question offered by the external question bank.
type Question struct {
	ID         string          `yaml:"id"`
	Text       string          `yaml:"text"`
	Competency Competency      `yaml:"competency"`
	Difficulty DifficultyLevel `yaml:"difficulty"`
	Type       QuestionType    `yaml:"type"`
	Topics     []string        `yaml:"topics"`
}

// Key returns the identifier used for repeat tracking: the id when present,
// otherwise a prefix of the question text.
func (q Question) Key() string {
	if q.ID != "" {
		return q.ID
	}
	if len(q.Text) > questionKeyLength {
		return q.Text[:questionKeyLength]
	}
	return q.Text
}

// Profile summarizes the candidate's background as provided by the external
// profile store.
type Profile struct {
	TechnicalSkills []string `yaml:"technical_skills"`
	SoftSkills      []string `yaml:"soft_skills"`
	Domains         []string `yaml:"domains"`
	Technologies    []string `yaml:"technologies"`
}

// SkillSet flattens all profile fields into a lower-cased lookup set.
func (p Profile) SkillSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range [][]string{p.TechnicalSkills, p.SoftSkills, p.Domains, p.Technologies} {
		for _, s := range group {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				set[s] = struct{}{}
			}
		}
	}
	return set
}

// SelectionRecord is one append-only entry in the per-interview selection
// log, used for repeat avoidance accounting and usage distributions.
type SelectionRecord struct {
	QuestionKey string
	Competency  Competency
	Difficulty  DifficultyLevel
	Type        QuestionType
	Timestamp   time.Time
}
