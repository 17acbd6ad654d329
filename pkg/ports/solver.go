package ports

import (
	"context"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Solver is the external planner. It consumes a Problem and returns a
// Solution. A Solution with a nil Plan means no plan was found within
// budget; it is not an error.
type Solver interface {
	Solve(ctx context.Context, problem *domain.Problem, opts domain.SolverOptions) (domain.Solution, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, problem *domain.Problem, opts domain.SolverOptions) (domain.Solution, error)

func (f SolverFunc) Solve(ctx context.Context, problem *domain.Problem, opts domain.SolverOptions) (domain.Solution, error) {
	return f(ctx, problem, opts)
}

// Executor consumes a translated command sequence. Execution results are not
// fed back into the pipeline.
type Executor interface {
	Execute(ctx context.Context, commands []domain.Command) error
}
