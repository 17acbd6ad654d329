package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs_JSONRoundTrip(t *testing.T) {
	q0 := Conf{Body: "rover", ID: "0", Positions: []float64{1, 2, 0.5}}
	args := Args{
		Symbol("rover"),
		Variable("?r"),
		P(-20, 0, 0),
		q0,
		Trajectory{ID: "3", Body: "rover", Path: []Conf{q0, {Body: "rover", ID: "1", Positions: []float64{2, 2, 0}}}},
		Ray{ID: "2", Body: "rover", Target: "lander", Start: P(0, 0, 1), End: P(4, 0, 1)},
		Handle{Type: "grasp", ID: "7"},
	}

	data, err := json.Marshal(args)
	require.NoError(t, err)

	var decoded Args
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, args, decoded)
}

func TestFact_TupleEncoding(t *testing.T) {
	f := NewFact("AtPose", "block", P(-20, 0, 0))

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `["AtPose", "block", [-20, 0, 0]]`, string(data))

	var decoded Fact
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, f.Equal(decoded))
}

func TestDecodeValue_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"short pose", []any{1.0, 2.0}},
		{"non numeric pose", []any{1.0, "x", 2.0}},
		{"unknown type", map[string]any{"type": "wormhole"}},
		{"bare number", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeValue(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestDecodeValue_YAMLStyleNumbers(t *testing.T) {
	v, err := DecodeValue([]any{-20, 0, 0.5})
	require.NoError(t, err)
	assert.Equal(t, P(-20, 0, 0.5), v)
}

func TestSolution_JSON(t *testing.T) {
	sol := Solution{
		Plan: NewPlan(
			NewAction("sample_rock", "v1", Conf{Body: "v1", ID: "0", Positions: []float64{0}}, "rock1", "store"),
			NewAction("drop_rock", "v1", "store"),
		),
		Cost: 2,
	}

	data, err := json.Marshal(sol)
	require.NoError(t, err)

	var decoded Solution
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sol.Plan, decoded.Plan)
	assert.Equal(t, Cost(2), decoded.Cost)
}

func TestEncodeCommand(t *testing.T) {
	attach := EncodeCommand(Attach{Agent: "v1", Link: "base_link", Body: "rock1"})
	assert.Equal(t, CommandAttach, attach["kind"])
	assert.Equal(t, "rock1", attach["body"])

	follow := EncodeCommand(Trajectory{ID: "1", Body: "v1"})
	assert.Equal(t, CommandFollow, follow["kind"])
	assert.Equal(t, TypeTrajectory, follow["type"])
}

func TestEncodeProblem_OmitsCallbacks(t *testing.T) {
	p := &Problem{
		Name:    "kitchen",
		Domain:  Description{Text: "(define (domain kitchen))"},
		Streams: DebugStreams(),
		Init:    FactSet{NewFact("Empty", "gripper")},
		Goal:    Conj(NewFact("Empty", "gripper")),
	}

	doc := EncodeProblem(p)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stream_mode":"debug"`)
	assert.Contains(t, string(data), `["Empty","gripper"]`)
}
