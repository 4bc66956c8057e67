package simulation

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownArchetype = errors.New("unknown archetype")
	ErrInvalidRun       = errors.New("invalid run config")
	ErrEmptyPool        = errors.New("question pool is empty")
	ErrLoadPool         = errors.New("load question pool failed")
)
