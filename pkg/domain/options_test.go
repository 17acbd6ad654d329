package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCost_JSON(t *testing.T) {
	data, err := json.Marshal(Infinity())
	require.NoError(t, err)
	assert.Equal(t, `"inf"`, string(data))

	tests := []struct {
		in   string
		want Cost
	}{
		{`"inf"`, Infinity()},
		{`"Infinity"`, Infinity()},
		{`0`, 0},
		{`12.5`, 12.5},
		{`"3"`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c Cost
			require.NoError(t, json.Unmarshal([]byte(tt.in), &c))
			assert.Equal(t, tt.want, c)
		})
	}

	var bad Cost
	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &bad))
}

func TestSolverOptions_YAML(t *testing.T) {
	src := `
planner: ff-wastar3
max_planner_time: 10
success_cost: .inf
unit_costs: false
`
	var opts SolverOptions
	require.NoError(t, yaml.Unmarshal([]byte(src), &opts))

	assert.Equal(t, "ff-wastar3", opts.Planner)
	require.NotNil(t, opts.MaxPlannerTime)
	assert.Equal(t, 10.0, *opts.MaxPlannerTime)
	require.NotNil(t, opts.SuccessCost)
	assert.True(t, opts.SuccessCost.IsInf())
	require.NotNil(t, opts.UnitCosts)
	assert.False(t, *opts.UnitCosts)
	assert.Nil(t, opts.MaxTime)
}

func TestSolverOptions_Merge(t *testing.T) {
	defaults := SolverOptions{
		Planner:      "ff-eager",
		UnitCosts:    Bool(true),
		EffortWeight: Float(1),
	}
	override := SolverOptions{UnitCosts: Bool(false), MaxTime: Float(30)}

	merged := override.Merge(defaults)
	assert.Equal(t, "ff-eager", merged.Planner)
	assert.False(t, *merged.UnitCosts)
	assert.Equal(t, 1.0, *merged.EffortWeight)
	assert.Equal(t, 30.0, *merged.MaxTime)
	assert.Nil(t, merged.Verbose)
}

func TestDecodeOptions(t *testing.T) {
	opts, err := DecodeOptions(map[string]any{
		"planner":          "ff-wastar3",
		"max_planner_time": 10,
		"max_time":         "120",
		"success_cost":     "inf",
		"unit_efforts":     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ff-wastar3", opts.Planner)
	assert.Equal(t, 10.0, *opts.MaxPlannerTime)
	assert.Equal(t, 120.0, *opts.MaxTime)
	assert.True(t, opts.SuccessCost.IsInf())
	assert.True(t, *opts.UnitEfforts)
	assert.Nil(t, opts.EffortWeight)

	finite, err := DecodeOptions(map[string]any{"success_cost": 0})
	require.NoError(t, err)
	assert.Equal(t, Cost(0), *finite.SuccessCost)

	_, err = DecodeOptions(map[string]any{"plannr": "typo"})
	assert.ErrorIs(t, err, ErrConfiguration)

	empty, err := DecodeOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, SolverOptions{}, empty)
}
