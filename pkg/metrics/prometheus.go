// Package metrics provides Prometheus metrics for the tempo interview
// engine. Metrics register on a custom registry so embedding processes can
// expose them (or not) on their own terms.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Coverage metrics
	coverageUpdates prometheus.Counter
	coverageSkips   prometheus.Counter

	// Difficulty metrics
	performanceSamples    prometheus.Counter
	difficultyTransitions *prometheus.CounterVec

	// Selection metrics
	selections         *prometheus.CounterVec
	selectionFallbacks prometheus.Counter
	selectionExhausted prometheus.Counter
	selectionScore     prometheus.Histogram

	// Registry metrics
	activeSessions   prometheus.Gauge
	sessionsCreated  prometheus.Counter
	sessionsDisposed prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Registry is the custom registry the engine registers on, kept separate
// from the default registry to avoid dragging in Go runtime collectors.
var Registry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(Registry))
}

// selectionScoreBuckets covers the 0-100 additive selection score range.
var selectionScoreBuckets = prometheus.LinearBuckets(10, 10, 9) //nolint:gochecknoglobals // bucket layout constant

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tempo",
		subsystem:        "engine",
		histogramBuckets: selectionScoreBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.coverageUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coverage_updates_total",
		Help:      "Total number of coverage ledger updates applied",
	})

	m.coverageSkips = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coverage_skipped_inputs_total",
		Help:      "Total number of unknown or out-of-range coverage inputs skipped",
	})

	m.performanceSamples = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "performance_samples_total",
		Help:      "Total number of performance samples recorded",
	})

	m.difficultyTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "difficulty_transitions_total",
		Help:      "Total number of difficulty transitions by direction",
	}, []string{"direction"})

	m.selections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selections_total",
		Help:      "Total number of question selections by question type",
	}, []string{"type"})

	m.selectionFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selection_fallbacks_total",
		Help:      "Total number of selections that fell back to the unfiltered pool",
	})

	m.selectionExhausted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selection_exhausted_total",
		Help:      "Total number of selections that found an empty pool",
	})

	m.selectionScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selection_score",
		Help:      "Histogram of winning selection scores",
		Buckets:   m.histogramBuckets,
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Number of live interview sessions in the registry",
	})

	m.sessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_created_total",
		Help:      "Total number of interview sessions created",
	})

	m.sessionsDisposed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_disposed_total",
		Help:      "Total number of interview sessions disposed",
	})
}

// Package-level helpers on the global manager.

// RecordCoverageUpdate counts an applied coverage update.
func RecordCoverageUpdate() {
	if globalManager.enabled {
		globalManager.coverageUpdates.Inc()
	}
}

// RecordCoverageSkip counts a skipped unknown/out-of-range coverage input.
func RecordCoverageSkip() {
	if globalManager.enabled {
		globalManager.coverageSkips.Inc()
	}
}

// RecordPerformanceSample counts a recorded performance sample.
func RecordPerformanceSample() {
	if globalManager.enabled {
		globalManager.performanceSamples.Inc()
	}
}

// RecordDifficultyTransition counts a promote/demote transition.
func RecordDifficultyTransition(direction string) {
	if globalManager.enabled {
		globalManager.difficultyTransitions.WithLabelValues(direction).Inc()
	}
}

// RecordSelection counts a selection by question type.
func RecordSelection(questionType string) {
	if globalManager.enabled {
		globalManager.selections.WithLabelValues(questionType).Inc()
	}
}

// RecordSelectionFallback counts a selection served from the unfiltered pool.
func RecordSelectionFallback() {
	if globalManager.enabled {
		globalManager.selectionFallbacks.Inc()
	}
}

// RecordSelectionExhausted counts a selection attempt against an empty pool.
func RecordSelectionExhausted() {
	if globalManager.enabled {
		globalManager.selectionExhausted.Inc()
	}
}

// RecordSelectionScore observes the winning candidate's score.
func RecordSelectionScore(score float64) {
	if globalManager.enabled {
		globalManager.selectionScore.Observe(score)
	}
}

// UpdateActiveSessions sets the live session gauge.
func UpdateActiveSessions(n int) {
	if globalManager.enabled {
		globalManager.activeSessions.Set(float64(n))
	}
}

// RecordSessionCreated counts a registry session creation.
func RecordSessionCreated() {
	if globalManager.enabled {
		globalManager.sessionsCreated.Inc()
	}
}

// RecordSessionDisposed counts a registry session disposal.
func RecordSessionDisposed() {
	if globalManager.enabled {
		globalManager.sessionsDisposed.Inc()
	}
}
