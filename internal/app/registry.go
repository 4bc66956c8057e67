package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quantcoach/tempo/internal/domain/coverage"
	"github.com/quantcoach/tempo/internal/domain/difficulty"
	"github.com/quantcoach/tempo/internal/domain/model"
	"github.com/quantcoach/tempo/internal/domain/selection"
	"github.com/quantcoach/tempo/pkg/logger"
	"github.com/quantcoach/tempo/pkg/metrics"
)

// Registry owns one Session per interview id, created on first use and
// disposed explicitly at interview end. The registry map is the only state
// shared across interviews, so it is the only place with locking; the
// sessions it hands out keep the single-writer-per-interview contract.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	startingLevel  model.DifficultyLevel
	balanceTargets map[model.QuestionType]float64
	gapThreshold   float64
	promote        float64
	demote         float64
	windowSize     int

	log logger.Logger
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithLogger sets a custom logger for the registry and its sessions.
func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithStartingLevel sets the difficulty new sessions start at.
func WithStartingLevel(level model.DifficultyLevel) Option {
	return func(r *Registry) {
		r.startingLevel = level
	}
}

// WithBalanceTargets sets the question-type balance targets for new
// sessions.
func WithBalanceTargets(targets map[model.QuestionType]float64) Option {
	return func(r *Registry) {
		if len(targets) > 0 {
			r.balanceTargets = targets
		}
	}
}

// WithGapThreshold sets the coverage score under which a competency counts
// as a gap in new sessions.
func WithGapThreshold(threshold float64) Option {
	return func(r *Registry) {
		if threshold > 0 {
			r.gapThreshold = threshold
		}
	}
}

// WithHysteresis sets the promote/demote window-mean thresholds for new
// sessions.
func WithHysteresis(promote, demote float64) Option {
	return func(r *Registry) {
		if promote > demote && demote > 0 {
			r.promote = promote
			r.demote = demote
		}
	}
}

// WithWindowSize sets the difficulty transition window size for new
// sessions.
func WithWindowSize(size int) Option {
	return func(r *Registry) {
		if size > 0 {
			r.windowSize = size
		}
	}
}

// NewRegistry creates an empty session registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions:      make(map[string]*Session),
		startingLevel: model.Easy,
		log:           logger.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Session returns the session for the interview id, creating it on first
// use.
func (r *Registry) Session(ctx context.Context, interviewID string) *Session {
	r.mu.RLock()
	s, ok := r.sessions[interviewID]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check under the write lock; another caller may have created it.
	if s, ok := r.sessions[interviewID]; ok {
		return s
	}

	s = r.newSession(interviewID)
	r.sessions[interviewID] = s

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(len(r.sessions))
	r.log.Info(ctx, "interview session created", logger.String("interview", interviewID))

	return s
}

// Peek returns the session for the id without creating one.
func (r *Registry) Peek(interviewID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[interviewID]
	return s, ok
}

// Dispose removes the session for the interview id. Callers that need the
// final state should snapshot it before disposing.
func (r *Registry) Dispose(ctx context.Context, interviewID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[interviewID]; !ok {
		return
	}
	delete(r.sessions, interviewID)

	metrics.RecordSessionDisposed()
	metrics.UpdateActiveSessions(len(r.sessions))
	r.log.Info(ctx, "interview session disposed", logger.String("interview", interviewID))
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the live interview ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) newSession(interviewID string) *Session {
	log := r.log.Named("session")

	covOpts := []coverage.Option{coverage.WithLogger(log)}
	if r.gapThreshold > 0 {
		covOpts = append(covOpts, coverage.WithGapThreshold(r.gapThreshold))
	}

	diffOpts := []difficulty.Option{
		difficulty.WithLogger(log),
		difficulty.WithStartingLevel(r.startingLevel),
	}
	if r.promote > 0 {
		diffOpts = append(diffOpts, difficulty.WithPromoteThreshold(r.promote))
	}
	if r.demote > 0 {
		diffOpts = append(diffOpts, difficulty.WithDemoteThreshold(r.demote))
	}
	if r.windowSize > 0 {
		diffOpts = append(diffOpts, difficulty.WithWindowSize(r.windowSize))
	}

	selOpts := []selection.Option{selection.WithLogger(log)}
	if len(r.balanceTargets) > 0 {
		selOpts = append(selOpts, selection.WithBalanceTargets(r.balanceTargets))
	}

	return &Session{
		id:         interviewID,
		startedAt:  time.Now().UTC(),
		ledger:     coverage.New(covOpts...),
		controller: difficulty.New(diffOpts...),
		selector:   selection.New(selOpts...),
		log:        log,
	}
}
