package taskstream_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/taskstream"
	"github.com/aretw0/taskstream/pkg/adapters/memory"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/scenario/kitchen"
	"github.com/aretw0/taskstream/pkg/scenario/rovers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Rovers(t *testing.T) {
	exec := memory.NewExecutor(nil)
	p, err := taskstream.New(rovers.Bundle(),
		taskstream.WithSolver("fixed", memory.PlanSolver(2, samplePlan()...)),
		taskstream.WithExecutor(exec),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	outcome, err := taskstream.NewRunner(&out).Run(context.Background(), p, nil)
	require.NoError(t, err)

	assert.Equal(t, rovers.Name, outcome.Problem.Name)
	assert.True(t, outcome.Run.Solution.Solved())
	require.NotNil(t, outcome.Result)
	assert.Len(t, exec.Batches(), 1)
	assert.Equal(t, outcome.Result.Commands, exec.Commands())

	text := out.String()
	assert.Contains(t, text, "# Problem `rovers`")
	assert.Contains(t, text, "# Plan (2 actions, cost 2)")
	assert.Contains(t, text, "`Attach(v1:base_link <- rock1)`")
}

func TestRunner_KitchenIsNotTranslated(t *testing.T) {
	exec := memory.NewExecutor(nil)
	plan := []domain.Action{domain.NewAction("move", "gripper", domain.Handle{Type: "q", ID: "0"})}
	p, err := taskstream.New(kitchen.Bundle(),
		taskstream.WithSolver("fixed", memory.PlanSolver(1, plan...)),
		taskstream.WithExecutor(exec),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	outcome, err := taskstream.NewRunner(&out).Run(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Nil(t, outcome.Result)
	assert.Empty(t, exec.Batches())
	assert.Contains(t, out.String(), "| 0 | `move(gripper, #q0)` | - |")
}

func TestRunner_TranslationFailureStopsExecution(t *testing.T) {
	exec := memory.NewExecutor(nil)
	p, err := taskstream.New(rovers.Bundle(),
		taskstream.WithSolver("fixed", memory.PlanSolver(1, domain.NewAction("drop_rock", "v1", "store"))),
		taskstream.WithExecutor(exec),
	)
	require.NoError(t, err)

	runner := &taskstream.Runner{Output: &bytes.Buffer{}, Headless: true}
	outcome, err := runner.Run(context.Background(), p, nil)
	assert.ErrorIs(t, err, domain.ErrNotHolding)

	var terr *domain.TranslationError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 0, terr.Index)
	assert.NotNil(t, outcome.Run, "the run is stored before translation")
	assert.Empty(t, exec.Batches())
}

func TestRunner_HeadlessAndRenderer(t *testing.T) {
	p, err := taskstream.New(rovers.Bundle(), taskstream.WithSolver("none", memory.NewSolver()))
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = (&taskstream.Runner{Output: &out, Headless: true}).Run(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Empty(t, out.String())

	out.Reset()
	upper := func(s string) (string, error) { return strings.ToUpper(s), nil }
	_, err = (&taskstream.Runner{Output: &out, Renderer: upper}).Run(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "# NO PLAN FOUND")
}

func TestRunner_RequiresOutput(t *testing.T) {
	p, err := taskstream.New(rovers.Bundle())
	require.NoError(t, err)
	_, err = (&taskstream.Runner{}).Run(context.Background(), p, nil)
	assert.Error(t, err)
}

func TestRunner_SerializesOnKey(t *testing.T) {
	locker := memory.NewLocker()
	p, err := taskstream.New(rovers.Bundle(),
		taskstream.WithSolver("none", memory.NewSolver()),
		taskstream.WithLocker(locker, time.Minute),
	)
	require.NoError(t, err)

	unlock, err := locker.Lock(context.Background(), "rovers:mission", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = (&taskstream.Runner{Output: &bytes.Buffer{}, Key: "mission"}).Run(ctx, p, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(context.Background()))
	_, err = (&taskstream.Runner{Output: &bytes.Buffer{}, Key: "mission"}).Run(context.Background(), p, nil)
	assert.NoError(t, err)
}
