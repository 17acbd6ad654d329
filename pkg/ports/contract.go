package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPlanStoreContract runs a suite of tests to verify that a PlanStore implementation
// adheres to the defined interface contract.
func RunPlanStoreContract(t *testing.T, store PlanStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	newRun := func(id string) *domain.Run {
		return &domain.Run{
			ID:       id,
			Scenario: "rovers",
			Options:  domain.SolverOptions{Planner: "ff-wastar3", MaxTime: domain.Float(120)},
			Solution: domain.Solution{
				Plan: domain.NewPlan(
					domain.NewAction("sample_rock", "v1", domain.Conf{Body: "v1", ID: "0", Positions: []float64{1, 2, 0}}, "rock1", "store"),
					domain.NewAction("drop_rock", "v1", "store"),
				),
				Cost: 2,
			},
			Labels:    map[string]string{"origin": "contract"},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		run := newRun(runID)

		err := store.Save(ctx, run)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.Scenario, loaded.Scenario)
		assert.Equal(t, run.Solution.Plan, loaded.Solution.Plan)
		assert.Equal(t, run.Solution.Cost, loaded.Solution.Cost)
		assert.Equal(t, "ff-wastar3", loaded.Options.Planner)
		assert.True(t, run.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("No Plan Survives Persistence", func(t *testing.T) {
		id := runID + "-noplan"
		run := newRun(id)
		run.Solution = domain.NoSolution()
		require.NoError(t, store.Save(ctx, run))
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, loaded.Solution.Plan, "a missing plan must not come back as an empty plan")
		assert.True(t, loaded.Solution.Cost.IsInf())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.True(t, errors.Is(err, domain.ErrRunNotFound), "expected ErrRunNotFound, got %v", err)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newRun(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, newRun(id1))
		_ = store.Save(ctx, newRun(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunDescriptionSourceContract verifies that a DescriptionSource returns the
// stored documents verbatim and reports missing ones as configuration errors.
func RunDescriptionSourceContract(t *testing.T, source DescriptionSource, setupData map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("ReadDescription_Success", func(t *testing.T) {
		for path, expected := range setupData {
			desc, err := source.ReadDescription(ctx, path)
			require.NoError(t, err, "reading %s", path)
			assert.Equal(t, expected, desc.Text, "content mismatch for %s", path)
			assert.Equal(t, path, desc.Path)
		}
	})

	t.Run("ReadDescription_NotFound", func(t *testing.T) {
		_, err := source.ReadDescription(ctx, "missing/domain.pddl")
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
