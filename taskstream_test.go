package taskstream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/taskstream"
	"github.com/aretw0/taskstream/pkg/adapters/memory"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/observability"
	"github.com/aretw0/taskstream/pkg/scenario"
	"github.com/aretw0/taskstream/pkg/scenario/kitchen"
	"github.com/aretw0/taskstream/pkg/scenario/rovers"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleConf = domain.Conf{Body: "v1", ID: "2", Positions: []float64{1, 0.25, 0}}

func samplePlan() []domain.Action {
	return []domain.Action{
		domain.NewAction("sample_rock", "v1", sampleConf, "rock1", "store"),
		domain.NewAction("drop_rock", "v1", "store"),
	}
}

func fixedIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestNew_RequiresScenario(t *testing.T) {
	_, err := taskstream.New(nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = taskstream.New(&scenario.Bundle{Scenario: kitchen.New()})
	assert.ErrorIs(t, err, domain.ErrConfiguration, "no descriptions and no source")
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, taskstream.Version())
	assert.NotContains(t, taskstream.Version(), "\n")
}

func TestPipeline_Solve(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	solver := memory.PlanSolver(2, samplePlan()...)
	p, err := taskstream.New(rovers.Bundle(),
		taskstream.WithSolver("fixed", solver),
		taskstream.WithPlanStore(store),
		taskstream.WithIDGenerator(fixedIDs("run-1")),
	)
	require.NoError(t, err)

	problem, err := p.Assemble(ctx, nil)
	require.NoError(t, err)

	run, err := p.Solve(ctx, problem, p.Options())
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, rovers.Name, run.Scenario)
	assert.Equal(t, "fixed", run.Labels["solver"])
	assert.False(t, run.CreatedAt.IsZero())

	stored, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Solution.Plan, stored.Solution.Plan)

	require.Len(t, solver.Problems(), 1)
	assert.Same(t, problem, solver.Problems()[0])
	assert.Equal(t, "ff-wastar3", solver.Options()[0].Planner)
}

func TestPipeline_Solve_NoPlan(t *testing.T) {
	ctx := context.Background()
	p, err := taskstream.New(kitchen.Bundle(), taskstream.WithSolver("empty", memory.NewSolver()))
	require.NoError(t, err)

	problem, err := p.Assemble(ctx, nil)
	require.NoError(t, err)
	run, err := p.Solve(ctx, problem, p.Options())
	require.NoError(t, err, "no plan is an answer, not a failure")
	assert.False(t, run.Solution.Solved())

	_, res, err := p.TranslateRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestPipeline_Solve_Errors(t *testing.T) {
	ctx := context.Background()
	problem := &domain.Problem{Name: rovers.Name}

	t.Run("no solver", func(t *testing.T) {
		p, err := taskstream.New(rovers.Bundle())
		require.NoError(t, err)
		_, err = p.Solve(ctx, problem, domain.SolverOptions{})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("solver failure is not stored", func(t *testing.T) {
		store := memory.NewStore()
		solver := memory.NewSolver().FailWith(domain.ErrSolverFailed)
		p, err := taskstream.New(rovers.Bundle(), taskstream.WithSolver("broken", solver), taskstream.WithPlanStore(store))
		require.NoError(t, err)

		_, err = p.Solve(ctx, problem, domain.SolverOptions{})
		assert.ErrorIs(t, err, domain.ErrSolverFailed)
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("plan without cost", func(t *testing.T) {
		solver := memory.NewSolver(domain.Solution{Plan: domain.NewPlan(samplePlan()...), Cost: domain.Cost(nan())})
		p, err := taskstream.New(rovers.Bundle(), taskstream.WithSolver("nan", solver))
		require.NoError(t, err)
		_, err = p.Solve(ctx, problem, domain.SolverOptions{})
		assert.ErrorIs(t, err, domain.ErrInvalidSolution)
	})
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}

func TestPipeline_Options(t *testing.T) {
	p, err := taskstream.New(rovers.Bundle(),
		taskstream.WithSolverOptions(domain.SolverOptions{Planner: "ff-astar", MaxTime: domain.Float(30)}),
	)
	require.NoError(t, err)

	opts := p.Options(domain.SolverOptions{MaxTime: domain.Float(5)})
	assert.Equal(t, "ff-astar", opts.Planner, "pipeline override beats scenario default")
	assert.Equal(t, 5.0, *opts.MaxTime, "call-site options beat everything")
	assert.Equal(t, "focused", opts.Algorithm, "unset fields fall back to the scenario")
	assert.Equal(t, 2.0, *opts.SearchSampleRatio)
}

func TestPipeline_TranslateRun(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	p, err := taskstream.New(rovers.Bundle(),
		taskstream.WithSolver("fixed", memory.PlanSolver(2, samplePlan()...)),
		taskstream.WithPlanStore(store),
	)
	require.NoError(t, err)

	problem, err := p.Assemble(ctx, nil)
	require.NoError(t, err)
	run, err := p.Solve(ctx, problem, p.Options())
	require.NoError(t, err)

	loaded, res, err := p.TranslateRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, []domain.Command{
		domain.Attach{Agent: "v1", Link: rovers.BaseLink, Body: "rock1"},
		domain.Detach{Agent: "v1", Link: rovers.BaseLink, Body: "rock1"},
	}, res.Commands)
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, res.Spans)

	_, _, err = p.TranslateRun(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	foreign := &domain.Run{ID: "foreign", Scenario: kitchen.Name, Solution: domain.NoSolution()}
	require.NoError(t, store.Save(ctx, foreign))
	_, _, err = p.TranslateRun(ctx, "foreign")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestPipeline_AssembleInstance(t *testing.T) {
	ctx := context.Background()
	entities := []domain.Entity{
		domain.NewEntity("gripper", domain.P(0, 15, 0)),
		domain.NewEntity("cup", domain.P(7.5, 0, 0)),
		domain.NewEntity("block", domain.P(-20, 0, 0)),
		domain.NewEntity("teapot", domain.P(3, 0, 0)),
	}

	tests := []struct {
		name    string
		inst    domain.Instance
		wantErr error
	}{
		{name: "lenient", inst: domain.Instance{Name: "a", Scenario: kitchen.Name, Entities: entities}},
		{name: "strict", inst: domain.Instance{Name: "b", Scenario: kitchen.Name, Entities: entities, Strict: true}, wantErr: domain.ErrUntypedEntity},
		{name: "wrong scenario", inst: domain.Instance{Name: "c", Scenario: rovers.Name}, wantErr: domain.ErrConfiguration},
	}

	p, err := taskstream.New(kitchen.Bundle())
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem, err := p.AssembleInstance(ctx, &tt.inst)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, problem.Init.Contains(domain.NewFact("IsCup", "cup")))
		})
	}
}

func TestPipeline_AssembleInstance_Debug(t *testing.T) {
	p, err := taskstream.New(rovers.Bundle())
	require.NoError(t, err)

	live, err := p.Assemble(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, live.Streams.IsDebug())

	debug, err := p.AssembleInstance(context.Background(), &domain.Instance{Name: "dbg", Debug: true, Entities: rovers.Rovers1().Entities()})
	require.NoError(t, err)
	assert.True(t, debug.Streams.IsDebug())
	assert.Equal(t, 0, debug.Streams.Len())
}

func TestPipeline_Metrics(t *testing.T) {
	ctx := context.Background()
	m := observability.NewMetrics(nil)
	p, err := taskstream.New(rovers.Bundle(),
		taskstream.WithMetrics(m),
		taskstream.WithSolver("fixed", memory.PlanSolver(2, samplePlan()...)),
	)
	require.NoError(t, err)

	problem, err := p.Assemble(ctx, nil)
	require.NoError(t, err)
	run, err := p.Solve(ctx, problem, p.Options())
	require.NoError(t, err)
	_, err = p.Translate(ctx, run.Solution.Plan)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProblemsAssembled.WithLabelValues(rovers.Name, "real")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SolveDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionsTranslated.WithLabelValues("drop_rock")))
}

func TestPipeline_Execute(t *testing.T) {
	exec := memory.NewExecutor(nil)
	p, err := taskstream.New(rovers.Bundle(), taskstream.WithExecutor(exec))
	require.NoError(t, err)

	require.NoError(t, p.Execute(context.Background(), nil))
	assert.Empty(t, exec.Batches(), "empty sequences are not sent")

	cmds := []domain.Command{domain.Scan{Agent: "v1", Target: "objective1", CameraFrame: rovers.CameraFrame}}
	require.NoError(t, p.Execute(context.Background(), cmds))
	assert.Equal(t, cmds, exec.Commands())

	failing := memory.NewExecutor(errors.New("arm fault"))
	p, err = taskstream.New(rovers.Bundle(), taskstream.WithExecutor(failing))
	require.NoError(t, err)
	assert.EqualError(t, p.Execute(context.Background(), cmds), "arm fault")
}
