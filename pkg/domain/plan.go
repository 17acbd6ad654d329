package domain

import (
	"fmt"
	"math"
)

// Action is one grounded step of a plan as returned by the solver.
type Action struct {
	Name string `json:"name"`
	Args Args   `json:"args"`
}

// NewAction builds an action, promoting plain strings like NewFact does.
func NewAction(name string, args ...any) Action {
	f := NewFact(name, args...)
	return Action{Name: name, Args: f.Args}
}

func (a Action) String() string {
	if len(a.Args) == 0 {
		return a.Name + "()"
	}
	return a.Name + "(" + joinValues(a.Args) + ")"
}

// Plan is a totally ordered action sequence. A nil *Plan means no plan was
// found; a non-nil Plan with no actions is an empty, successful plan.
type Plan struct {
	Actions []Action `json:"actions"`
}

// NewPlan builds a plan from actions.
func NewPlan(actions ...Action) *Plan {
	if actions == nil {
		actions = []Action{}
	}
	return &Plan{Actions: actions}
}

// Len returns the number of actions. It is 0 for a nil plan.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Actions)
}

// Solution is the solver response: (plan, cost, evidence).
type Solution struct {
	Plan *Plan `json:"plan"`
	// Cost is meaningful only when Plan is non-nil.
	Cost Cost `json:"cost"`
	// Evidence is an opaque solver payload (e.g. the evaluations that support the plan).
	Evidence any `json:"evidence,omitempty"`
}

// NoSolution is the response for "no plan found".
func NoSolution() Solution {
	return Solution{Cost: Cost(math.Inf(1))}
}

// Solved reports whether the solver returned a plan.
func (s Solution) Solved() bool {
	return s.Plan != nil
}

// Validate rejects a plan without a defined cost.
func (s Solution) Validate() error {
	if s.Plan != nil && math.IsNaN(float64(s.Cost)) {
		return fmt.Errorf("%w: plan of %d actions has no cost", ErrInvalidSolution, s.Plan.Len())
	}
	return nil
}
