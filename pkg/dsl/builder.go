package dsl

import (
	"fmt"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Builder manages the problem construction.
type Builder struct {
	problem domain.Problem
	goal    *GoalBuilder
	formula domain.Formula
}

// New creates a new problem builder.
func New(name string) *Builder {
	return &Builder{
		problem: domain.Problem{
			Name:        name,
			ConstantMap: make(map[string]domain.Value),
		},
	}
}

// Domain sets the domain description.
func (b *Builder) Domain(d domain.Description) *Builder {
	b.problem.Domain = d
	return b
}

// StreamDescription sets the stream description.
func (b *Builder) StreamDescription(d domain.Description) *Builder {
	b.problem.StreamDescription = d
	return b
}

// Constant adds an entry to the constant map.
func (b *Builder) Constant(name string, v domain.Value) *Builder {
	b.problem.ConstantMap[name] = v
	return b
}

// Streams sets the stream map.
func (b *Builder) Streams(m domain.StreamMap) *Builder {
	b.problem.Streams = m
	return b
}

// Init adds an initial fact. Plain strings become symbols (or variables when
// prefixed with '?').
func (b *Builder) Init(predicate string, args ...any) *Builder {
	b.problem.Init = append(b.problem.Init, domain.NewFact(predicate, args...))
	return b
}

// InitFacts adds already built initial facts.
func (b *Builder) InitFacts(facts ...domain.Fact) *Builder {
	b.problem.Init = append(b.problem.Init, facts...)
	return b
}

// Goal returns the builder for the top-level goal conjunction.
// Calling it again returns the same builder.
func (b *Builder) Goal() *GoalBuilder {
	if b.goal == nil {
		b.goal = Goal()
	}
	return b.goal
}

// GoalFormula sets a prebuilt goal, replacing anything added through Goal.
func (b *Builder) GoalFormula(f domain.Formula) *Builder {
	b.formula = f
	b.goal = nil
	return b
}

// Build validates the goal and returns the problem.
func (b *Builder) Build() (*domain.Problem, error) {
	p := b.problem
	switch {
	case b.goal != nil:
		p.Goal = b.goal.Formula()
	case b.formula != nil:
		p.Goal = b.formula
	}
	if err := domain.ValidateGoal(p.Goal); err != nil {
		return nil, fmt.Errorf("problem %s: %w", p.Name, err)
	}
	p.Init = append(domain.FactSet(nil), p.Init...)
	constants := make(map[string]domain.Value, len(p.ConstantMap))
	for k, v := range p.ConstantMap {
		constants[k] = v
	}
	p.ConstantMap = constants
	return &p, nil
}
