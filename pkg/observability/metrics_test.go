package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnProblemAssembled(ctx, &domain.ProblemEvent{Scenario: "kitchen", Facts: 28, StreamMode: domain.StreamModeReal})
	hooks.OnProblemAssembled(ctx, &domain.ProblemEvent{Scenario: "kitchen", Facts: 30, StreamMode: domain.StreamModeReal})
	hooks.OnEntityUntyped(ctx, &domain.EntityEvent{Scenario: "kitchen", Entity: "teapot"})
	hooks.OnActionTranslated(ctx, &domain.ActionEvent{Action: "move"})
	hooks.OnActionTranslated(ctx, &domain.ActionEvent{Action: "move"})
	hooks.OnTranslationComplete(ctx, &domain.TranslationEvent{})
	hooks.OnTranslationComplete(ctx, &domain.TranslationEvent{Err: domain.ErrNotHolding})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProblemsAssembled.WithLabelValues("kitchen", "real")))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.ProblemFacts.WithLabelValues("kitchen")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UntypedEntities.WithLabelValues("kitchen")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActionsTranslated.WithLabelValues("move")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Translations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Translations.WithLabelValues("error")))
}

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveSolve("focused", domain.Solution{Plan: domain.NewPlan()}, nil, time.Second)
	m.ObserveSolve("focused", domain.NoSolution(), nil, time.Second)
	m.ObserveSolve("focused", domain.Solution{}, errors.New("boom"), time.Second)
	m.ObserveStore("save", nil, time.Millisecond)
	m.ObserveStore("load", domain.ErrRunNotFound, time.Millisecond)

	assert.Equal(t, 3, testutil.CollectAndCount(m.SolveDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("save", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues("load", "error")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := domain.ChainHooks(LoggingHooks(logger))
	ctx := context.Background()

	hooks.OnProblemAssembled(ctx, &domain.ProblemEvent{Scenario: "rovers", Facts: 12})
	hooks.OnEntityUntyped(ctx, &domain.EntityEvent{Scenario: "rovers", Entity: "boulder"})
	hooks.OnActionTranslated(ctx, &domain.ActionEvent{Index: 0, Action: "move"})
	hooks.OnTranslationComplete(ctx, &domain.TranslationEvent{Err: domain.ErrNotHolding})

	out := buf.String()
	assert.Contains(t, out, "problem_assembled")
	assert.Contains(t, out, "entity=boulder")
	assert.Contains(t, out, "action=move")
	assert.Contains(t, out, "level=ERROR")
}
