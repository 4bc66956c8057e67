package model

import "errors"

// Sentinel kinds for boundary validation. Callers can match with errors.Is.
var (
	ErrUnknownCompetency   = errors.New("unknown competency")
	ErrUnknownDifficulty   = errors.New("unknown difficulty level")
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrUnknownQuality      = errors.New("unknown response quality")
	ErrScoreOutOfRange     = errors.New("score out of range")
	ErrRatingOutOfRange    = errors.New("rating out of range")
)
