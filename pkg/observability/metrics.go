package observability

import (
	"context"
	"time"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taskstream"

// Metrics holds the pipeline collectors.
type Metrics struct {
	ProblemsAssembled *prometheus.CounterVec
	ProblemFacts      *prometheus.GaugeVec
	UntypedEntities   *prometheus.CounterVec
	ActionsTranslated *prometheus.CounterVec
	Translations      *prometheus.CounterVec
	SolveDuration     *prometheus.HistogramVec
	StoreOperations   *prometheus.CounterVec
	StoreDuration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProblemsAssembled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "problems_assembled_total",
			Help:      "Total number of assembled planning problems.",
		}, []string{"scenario", "stream_mode"}),
		ProblemFacts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "problem_facts",
			Help:      "Number of initial facts in the last assembled problem.",
		}, []string{"scenario"}),
		UntypedEntities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "untyped_entities_total",
			Help:      "Entities that matched no classification rule.",
		}, []string{"scenario"}),
		ActionsTranslated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_translated_total",
			Help:      "Plan actions translated into commands.",
		}, []string{"action"}),
		Translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Finished plan translations by status.",
		}, []string{"status"}),
		SolveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Duration of solver calls.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"solver", "outcome"}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Plan store operations by result.",
		}, []string{"op", "status"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_duration_seconds",
			Help:      "Duration of plan store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.ProblemsAssembled, m.ProblemFacts, m.UntypedEntities,
			m.ActionsTranslated, m.Translations, m.SolveDuration,
			m.StoreOperations, m.StoreDuration,
		)
	}
	return m
}

// Hooks records lifecycle events as metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProblemAssembled: func(_ context.Context, e *domain.ProblemEvent) {
			m.ProblemsAssembled.WithLabelValues(e.Scenario, string(e.StreamMode)).Inc()
			m.ProblemFacts.WithLabelValues(e.Scenario).Set(float64(e.Facts))
		},
		OnEntityUntyped: func(_ context.Context, e *domain.EntityEvent) {
			m.UntypedEntities.WithLabelValues(e.Scenario).Inc()
		},
		OnActionTranslated: func(_ context.Context, e *domain.ActionEvent) {
			m.ActionsTranslated.WithLabelValues(e.Action).Inc()
		},
		OnTranslationComplete: func(_ context.Context, e *domain.TranslationEvent) {
			status := "ok"
			if e.Err != nil {
				status = "error"
			}
			m.Translations.WithLabelValues(status).Inc()
		},
	}
}

// ObserveSolve records one solver call. The outcome is "solved", "unsolved" or "error".
func (m *Metrics) ObserveSolve(solver string, sol domain.Solution, err error, d time.Duration) {
	outcome := "unsolved"
	switch {
	case err != nil:
		outcome = "error"
	case sol.Solved():
		outcome = "solved"
	}
	m.SolveDuration.WithLabelValues(solver, outcome).Observe(d.Seconds())
}

// ObserveStore records one plan store operation.
func (m *Metrics) ObserveStore(op string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreOperations.WithLabelValues(op, status).Inc()
	m.StoreDuration.WithLabelValues(op).Observe(d.Seconds())
}
