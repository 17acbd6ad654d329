package memory

import (
	"context"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Solver is a scripted ports.Solver. It returns its solutions in order and
// keeps returning the last one once the script runs out. An empty script
// answers with domain.NoSolution.
type Solver struct {
	mu       sync.Mutex
	script   []domain.Solution
	calls    int
	problems []*domain.Problem
	options  []domain.SolverOptions
	err      error
}

// NewSolver creates a solver answering with solutions.
func NewSolver(solutions ...domain.Solution) *Solver {
	return &Solver{script: solutions}
}

// PlanSolver answers every problem with a plan made of actions.
func PlanSolver(cost domain.Cost, actions ...domain.Action) *Solver {
	return NewSolver(domain.Solution{Plan: domain.NewPlan(actions...), Cost: cost})
}

// FailWith makes every later call fail with err.
func (s *Solver) FailWith(err error) *Solver {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Solve records the problem and returns the next scripted solution.
func (s *Solver) Solve(ctx context.Context, problem *domain.Problem, opts domain.SolverOptions) (domain.Solution, error) {
	if err := ctx.Err(); err != nil {
		return domain.Solution{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems = append(s.problems, problem)
	s.options = append(s.options, opts)
	if s.err != nil {
		return domain.Solution{}, s.err
	}
	if len(s.script) == 0 {
		return domain.NoSolution(), nil
	}
	i := s.calls
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.calls++
	return s.script[i], nil
}

// Problems returns every problem received so far.
func (s *Solver) Problems() []*domain.Problem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Problem(nil), s.problems...)
}

// Options returns the options of every call so far.
func (s *Solver) Options() []domain.SolverOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SolverOptions(nil), s.options...)
}

// Executor is a ports.Executor that records the command sequences it receives.
type Executor struct {
	mu      sync.Mutex
	batches [][]domain.Command
	err     error
}

// NewExecutor creates a recording executor. A non-nil err is returned from
// every Execute call after recording.
func NewExecutor(err error) *Executor {
	return &Executor{err: err}
}

// Execute records commands.
func (e *Executor) Execute(ctx context.Context, commands []domain.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batches = append(e.batches, append([]domain.Command(nil), commands...))
	return e.err
}

// Batches returns every recorded command sequence.
func (e *Executor) Batches() [][]domain.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]domain.Command(nil), e.batches...)
}

// Commands returns all recorded commands, flattened in execution order.
func (e *Executor) Commands() []domain.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []domain.Command
	for _, b := range e.batches {
		out = append(out, b...)
	}
	return out
}
