package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	solveDuration  *prometheus.HistogramVec
	backendInvokes *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
)

// InitMetrics registers all malloovia metrics with the provided registry.
func InitMetrics(registry prometheus.Registerer) error {
	solveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "malloovia_solve_duration_seconds",
			Help:    "Wall-clock time spent building and solving a MILP, by phase",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase", "status"},
	)
	backendInvokes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malloovia_backend_invocations_total",
			Help: "Total number of times a backend.Solver was invoked",
		},
		[]string{"phase"},
	)
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "malloovia_phase_ii_cache_hits_total",
			Help: "Phase II memoization cache hits",
		},
	)
	cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "malloovia_phase_ii_cache_misses_total",
			Help: "Phase II memoization cache misses",
		},
	)

	if err := registry.Register(solveDuration); err != nil {
		return fmt.Errorf("failed to register solveDuration metric: %w", err)
	}
	if err := registry.Register(backendInvokes); err != nil {
		return fmt.Errorf("failed to register backendInvokes metric: %w", err)
	}
	if err := registry.Register(cacheHits); err != nil {
		return fmt.Errorf("failed to register cacheHits metric: %w", err)
	}
	if err := registry.Register(cacheMisses); err != nil {
		return fmt.Errorf("failed to register cacheMisses metric: %w", err)
	}

	return nil
}

// InitMetricsAndEmitter registers metrics with Prometheus and returns an
// Emitter bound to them.
func InitMetricsAndEmitter(registry prometheus.Registerer) (*Emitter, error) {
	if err := InitMetrics(registry); err != nil {
		return nil, err
	}
	return NewEmitter(), nil
}

// Emitter records solve timing, backend invocation counts, and phase II
// memoization cache behavior. A nil *Emitter is safe to use: every method
// becomes a no-op, so callers that run without a registered registry (tests,
// `validate`) don't need to guard every call site.
type Emitter struct{}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// ObserveSolve records a single formulate-and-solve call.
func (e *Emitter) ObserveSolve(phase string, status string, d time.Duration) {
	if e == nil || solveDuration == nil {
		return
	}
	solveDuration.With(prometheus.Labels{"phase": phase, "status": status}).Observe(d.Seconds())
}

// IncBackendInvocation records one call into a backend.Solver.
func (e *Emitter) IncBackendInvocation(phase string) {
	if e == nil || backendInvokes == nil {
		return
	}
	backendInvokes.With(prometheus.Labels{"phase": phase}).Inc()
}

// IncCacheHit records a Phase II memoization cache hit.
func (e *Emitter) IncCacheHit() {
	if e == nil || cacheHits == nil {
		return
	}
	cacheHits.Inc()
}

// IncCacheMiss records a Phase II memoization cache miss.
func (e *Emitter) IncCacheMiss() {
	if e == nil || cacheMisses == nil {
		return
	}
	cacheMisses.Inc()
}
