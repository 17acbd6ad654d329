package taskstream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/taskstream/internal/presentation/tui"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/translator"
)

// Runner drives one full pass of a Pipeline: assemble, solve, store,
// translate and execute, writing a report of each stage to Output.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
	// Key serializes runners that share it. Defaults to the scenario name.
	Key string
	// Options are merged over the pipeline's solver options.
	Options domain.SolverOptions
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Outcome is what a Run produced. Result is nil when no plan was found.
type Outcome struct {
	Problem *domain.Problem
	Run     *domain.Run
	Result  *translator.Result
}

// NewRunner creates a Runner writing to w.
func NewRunner(w io.Writer) *Runner {
	return &Runner{Output: w}
}

// Run executes the pipeline once for entities. Nil entities use the scenario defaults.
func (r *Runner) Run(ctx context.Context, p *Pipeline, entities []domain.Entity) (*Outcome, error) {
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	key := r.Key
	if key == "" {
		key = p.Name()
	}
	unlock, err := p.lock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	defer func() {
		if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
			p.logger.Warn("failed to release lock", "key", key, "error", uerr)
		}
	}()

	out := &Outcome{}
	out.Problem, err = p.Assemble(ctx, entities)
	if err != nil {
		return out, err
	}
	if err := r.print(tui.ProblemReport(out.Problem)); err != nil {
		return out, err
	}

	out.Run, err = p.Solve(ctx, out.Problem, p.Options(r.Options))
	if err != nil {
		return out, err
	}

	if !p.Translates() {
		return out, r.print(tui.PlanReport(out.Run.Solution, nil))
	}
	out.Result, err = p.Translate(ctx, out.Run.Solution.Plan)
	if err != nil {
		var terr *domain.TranslationError
		if errors.As(err, &terr) {
			p.logger.Error("plan translation failed", "run_id", out.Run.ID, "index", terr.Index, "action", terr.Action)
		}
		return out, err
	}
	if err := r.print(tui.PlanReport(out.Run.Solution, out.Result)); err != nil {
		return out, err
	}

	if out.Result == nil {
		return out, nil
	}
	if err := p.Execute(ctx, out.Result.Commands); err != nil {
		return out, fmt.Errorf("execute run %s: %w", out.Run.ID, err)
	}
	return out, nil
}

func (r *Runner) print(markdown string) error {
	if r.Headless {
		return nil
	}
	text := markdown
	if r.Renderer != nil {
		rendered, err := r.Renderer(markdown)
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		text = rendered
	}
	_, err := fmt.Fprintln(r.Output, text)
	return err
}
