// Package dto holds the wire shapes exchanged with external solvers: solution
// documents and the stream evaluation protocol.
package dto

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/aretw0/taskstream/pkg/domain"
)

// ActionDTO is one plan step. It accepts both {"name": "move", "args": [...]}
// and the tuple form ["move", ...].
type ActionDTO struct {
	Name string      `json:"name"`
	Args domain.Args `json:"args"`
}

// UnmarshalJSON accepts the object and the tuple form.
func (a *ActionDTO) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err == nil {
		if len(tuple) == 0 {
			return fmt.Errorf("empty action tuple")
		}
		if err := json.Unmarshal(tuple[0], &a.Name); err != nil {
			return fmt.Errorf("action name must be a string: %w", err)
		}
		rest, err := json.Marshal(tuple[1:])
		if err != nil {
			return err
		}
		return json.Unmarshal(rest, &a.Args)
	}

	type plain ActionDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("action must be an object or a tuple: %w", err)
	}
	*a = ActionDTO(p)
	return nil
}

// SolutionDocument is a solver answer. A missing or null plan means no plan
// was found.
type SolutionDocument struct {
	Plan     *[]ActionDTO `json:"plan"`
	Cost     *domain.Cost `json:"cost,omitempty"`
	Evidence any          `json:"evidence,omitempty"`
}

// ToSolution converts the document. A plan without a cost is left with an
// undefined (NaN) cost so Solution.Validate rejects it.
func (d SolutionDocument) ToSolution() domain.Solution {
	plan := d.ToPlan()
	if plan == nil {
		sol := domain.NoSolution()
		sol.Evidence = d.Evidence
		return sol
	}
	cost := domain.Cost(math.NaN())
	if d.Cost != nil {
		cost = *d.Cost
	}
	return domain.Solution{Plan: plan, Cost: cost, Evidence: d.Evidence}
}

// ToPlan converts only the plan. It is nil when the document carries no plan.
func (d SolutionDocument) ToPlan() *domain.Plan {
	if d.Plan == nil {
		return nil
	}
	actions := make([]domain.Action, len(*d.Plan))
	for i, a := range *d.Plan {
		actions[i] = domain.Action{Name: a.Name, Args: a.Args}
	}
	return domain.NewPlan(actions...)
}

// FromSolution builds the document for a solution.
func FromSolution(s domain.Solution) SolutionDocument {
	doc := SolutionDocument{Evidence: s.Evidence}
	if s.Plan == nil {
		return doc
	}
	actions := make([]ActionDTO, len(s.Plan.Actions))
	for i, a := range s.Plan.Actions {
		actions[i] = ActionDTO{Name: a.Name, Args: a.Args}
	}
	cost := s.Cost
	doc.Plan = &actions
	doc.Cost = &cost
	return doc
}
