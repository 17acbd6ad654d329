package dto

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionDocument_Forms(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		solved    bool
		wantCost  domain.Cost
		wantSteps int
	}{
		{"object actions", `{"plan":[{"name":"drop_rock","args":["v1","store"]}],"cost":3}`, true, 3, 1},
		{"tuple actions", `{"plan":[["move","v1",{"type":"handle","kind":"q","id":"1"},{"type":"handle","kind":"t","id":"2"},{"type":"handle","kind":"q","id":"3"}]],"cost":1}`, true, 1, 1},
		{"empty plan", `{"plan":[],"cost":0}`, true, 0, 0},
		{"no plan", `{"plan":null}`, false, domain.Infinity(), 0},
		{"missing plan", `{"evidence":{"evaluations":12}}`, false, domain.Infinity(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc SolutionDocument
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &doc))
			sol := doc.ToSolution()
			assert.Equal(t, tt.solved, sol.Solved())
			assert.Equal(t, tt.wantCost, sol.Cost)
			assert.Equal(t, tt.wantSteps, sol.Plan.Len())
		})
	}
}

func TestSolutionDocument_PlanWithoutCost(t *testing.T) {
	for _, doc := range []string{
		`{"plan":[["drop_rock","v1","store"]],"cost":null}`,
		`{"plan":[["drop_rock","v1","store"]]}`,
	} {
		t.Run(doc, func(t *testing.T) {
			var d SolutionDocument
			require.NoError(t, json.Unmarshal([]byte(doc), &d))
			sol := d.ToSolution()
			assert.True(t, sol.Solved())
			assert.ErrorIs(t, sol.Validate(), domain.ErrInvalidSolution)
			assert.Equal(t, 1, d.ToPlan().Len())
		})
	}
}

func TestSolutionDocument_ToPlan(t *testing.T) {
	assert.Nil(t, SolutionDocument{}.ToPlan())
	empty := []ActionDTO{}
	plan := SolutionDocument{Plan: &empty}.ToPlan()
	require.NotNil(t, plan)
	assert.Equal(t, 0, plan.Len())
}

func TestSolutionDocument_TupleArgs(t *testing.T) {
	var doc SolutionDocument
	require.NoError(t, json.Unmarshal([]byte(`{"plan":[["pick","gripper","cup",[7.5,0,0]]]}`), &doc))
	sol := doc.ToSolution()
	assert.Equal(t, domain.NewAction("pick", "gripper", "cup", domain.P(7.5, 0, 0)), sol.Plan.Actions[0])
}

func TestFromSolution(t *testing.T) {
	assert.Nil(t, FromSolution(domain.NoSolution()).Plan)

	doc := FromSolution(domain.Solution{Plan: domain.NewPlan(domain.NewAction("stir", "gripper", "cup")), Cost: 2})
	require.NotNil(t, doc.Plan)
	assert.Equal(t, "stir", (*doc.Plan)[0].Name)
	assert.Equal(t, domain.Cost(2), *doc.Cost)
}
