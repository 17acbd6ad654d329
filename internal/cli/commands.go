package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/taskstream"
	"github.com/aretw0/taskstream/internal/compiler"
	"github.com/aretw0/taskstream/internal/dto"
	"github.com/aretw0/taskstream/internal/presentation/graph"
	"github.com/aretw0/taskstream/internal/presentation/tui"
	"github.com/aretw0/taskstream/internal/validator"
	httpAdapter "github.com/aretw0/taskstream/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/taskstream/pkg/adapters/mcp"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/translator"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatMermaid  = "mermaid"
)

// Options are the flags shared by the pipeline commands.
type Options struct {
	Scenario string
	// Instance names a stored scenario instance.
	Instance string
	// EntitiesFile is a YAML or JSON list of entities.
	EntitiesFile string
	// PlanFile is a solver answer (JSON, YAML or PDDL plan).
	PlanFile string
	// RunID selects a stored run.
	RunID  string
	Format string
}

// LoadEntities reads a YAML or JSON entity list.
func LoadEntities(path string) ([]domain.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read entities: %w", domain.ErrConfiguration, err)
	}
	var in []dto.EntityDTO
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: parse entities %s: %w", domain.ErrConfiguration, path, err)
	}
	if in == nil {
		in = []dto.EntityDTO{}
	}
	entities, err := dto.ToEntities(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, path, err)
	}
	return entities, nil
}

// problem assembles the problem selected by opts. The instance, when one is
// used, supplies extra solver options.
func (e *Env) problem(ctx context.Context, p *taskstream.Pipeline, opts Options) (*domain.Problem, domain.SolverOptions, error) {
	switch {
	case opts.Instance != "":
		inst, err := e.Instances.GetInstance(ctx, opts.Instance)
		if err != nil {
			return nil, domain.SolverOptions{}, err
		}
		problem, err := p.AssembleInstance(ctx, inst)
		return problem, inst.Options, err
	case opts.EntitiesFile != "":
		entities, err := LoadEntities(opts.EntitiesFile)
		if err != nil {
			return nil, domain.SolverOptions{}, err
		}
		problem, err := p.Assemble(ctx, entities)
		return problem, domain.SolverOptions{}, err
	default:
		problem, err := p.Assemble(ctx, nil)
		return problem, domain.SolverOptions{}, err
	}
}

// scenarioFor resolves the scenario of opts: an instance names its own.
func (e *Env) scenarioFor(ctx context.Context, opts Options) (string, error) {
	if opts.Scenario != "" || opts.Instance == "" {
		return opts.Scenario, nil
	}
	inst, err := e.Instances.GetInstance(ctx, opts.Instance)
	if err != nil {
		return "", err
	}
	return inst.Scenario, nil
}

func (e *Env) pipelineFor(ctx context.Context, opts Options) (*taskstream.Pipeline, error) {
	name, err := e.scenarioFor(ctx, opts)
	if err != nil {
		return nil, err
	}
	return e.Pipeline(name)
}

// Assemble writes the assembled problem.
func Assemble(ctx context.Context, env *Env, w io.Writer, opts Options) error {
	p, err := env.pipelineFor(ctx, opts)
	if err != nil {
		return err
	}
	problem, _, err := env.problem(ctx, p, opts)
	if err != nil {
		return err
	}
	if opts.Format == FormatJSON {
		return writeJSON(w, domain.EncodeProblem(problem))
	}
	return writeMarkdown(w, tui.ProblemReport(problem))
}

// Translate writes the commands of a stored run or of a plan file.
func Translate(ctx context.Context, env *Env, w io.Writer, opts Options) error {
	p, err := env.pipelineFor(ctx, opts)
	if err != nil {
		return err
	}

	var sol domain.Solution
	var res *translator.Result
	switch {
	case opts.RunID != "":
		var run *domain.Run
		run, res, err = p.TranslateRun(ctx, opts.RunID)
		if err != nil {
			return err
		}
		sol = run.Solution
	case opts.PlanFile != "":
		data, err := os.ReadFile(opts.PlanFile)
		if err != nil {
			return fmt.Errorf("%w: read plan: %w", domain.ErrConfiguration, err)
		}
		sol, err = compiler.NewParser(compiler.FormatAuto).Parse(data)
		if err != nil {
			return err
		}
		if res, err = p.Translate(ctx, sol.Plan); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: translate needs a run ID or a plan file", domain.ErrConfiguration)
	}
	return writeTranslation(w, opts.Format, sol, res)
}

func writeTranslation(w io.Writer, format string, sol domain.Solution, res *translator.Result) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, map[string]any{
			"solution":    dto.FromSolution(sol),
			"translation": dto.FromResult(res),
		})
	case FormatMermaid:
		_, err := fmt.Fprint(w, graph.GenerateMermaid(sol.Plan, res, nil))
		return err
	default:
		return writeMarkdown(w, tui.PlanReport(sol, res))
	}
}

// Solve assembles, solves and stores a run, then writes it.
func Solve(ctx context.Context, env *Env, w io.Writer, opts Options) error {
	p, err := env.pipelineFor(ctx, opts)
	if err != nil {
		return err
	}
	problem, extra, err := env.problem(ctx, p, opts)
	if err != nil {
		return err
	}
	run, err := p.Solve(ctx, problem, p.Options(extra))
	if err != nil {
		return err
	}
	if opts.Format == FormatJSON {
		return writeJSON(w, run)
	}
	if err := writeMarkdown(w, tui.PlanReport(run.Solution, nil)); err != nil {
		return err
	}
	printSystemMessage(w, "Run '%s' stored.", run.ID)
	return nil
}

// Run executes the full pipeline once, rendering each stage to w.
func Run(ctx context.Context, env *Env, w io.Writer, opts Options, headless bool) (*taskstream.Outcome, error) {
	p, err := env.pipelineFor(ctx, opts)
	if err != nil {
		return nil, err
	}

	runner := &taskstream.Runner{Output: w, Headless: headless, Renderer: Renderer(w), Key: opts.Instance}
	var entities []domain.Entity
	switch {
	case opts.Instance != "":
		inst, err := env.Instances.GetInstance(ctx, opts.Instance)
		if err != nil {
			return nil, err
		}
		entities = inst.Entities
		runner.Options = inst.Options
	case opts.EntitiesFile != "":
		if entities, err = LoadEntities(opts.EntitiesFile); err != nil {
			return nil, err
		}
	}

	outcome, err := runner.Run(ctx, p, entities)
	if err == nil && !headless && outcome.Run != nil {
		printSystemMessage(w, "Run '%s' finished.", outcome.Run.ID)
	}
	return outcome, err
}

// Validate checks the named scenario, or every scenario, and the stored
// instances. It returns an error when any problem was found.
func Validate(ctx context.Context, env *Env, w io.Writer, scenarioName string) error {
	names := env.Catalog.Names()
	if scenarioName != "" {
		names = []string{scenarioName}
	}

	var failed []error
	for _, name := range names {
		b, err := env.Catalog.Get(name)
		if err != nil {
			return err
		}
		report, err := validator.ValidateBundle(ctx, b, nil)
		if err != nil {
			return err
		}
		if err := writeMarkdown(w, tui.ValidationReport(report)); err != nil {
			return err
		}
		if err := report.Err(); err != nil {
			failed = append(failed, err)
		}
	}

	broken, err := validator.ValidateInstances(ctx, env.Instances, env.Catalog)
	if err != nil {
		return err
	}
	for _, msg := range broken {
		failed = append(failed, fmt.Errorf("%w: instance %s", domain.ErrConfiguration, msg))
	}
	return errors.Join(failed...)
}

// Serve runs the HTTP API until ctx is done.
func Serve(ctx context.Context, env *Env, addr string) error {
	set, err := env.Pipelines()
	if err != nil {
		return err
	}
	opts := []httpAdapter.Option{httpAdapter.WithLogger(env.Logger)}
	if env.Config.Metrics.Enabled {
		opts = append(opts, httpAdapter.WithMetrics(env.Registry))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpAdapter.NewHandler(set, opts...),
		ReadHeaderTimeout: env.Config.Server.ReadTimeout,
		ReadTimeout:       env.Config.Server.ReadTimeout,
		WriteTimeout:      env.Config.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		env.Logger.Info("HTTP server listening", "address", addr, "scenarios", set.Names())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		env.Logger.Info("shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		return nil
	}
}

// ServeMCP runs the MCP server on stdio, or over SSE when port is set.
func ServeMCP(ctx context.Context, env *Env, port int) error {
	set, err := env.Pipelines()
	if err != nil {
		return err
	}
	if env.Config.Metrics.Enabled && env.Config.Metrics.Address != "" {
		go serveMetrics(ctx, env)
	}
	server := mcpAdapter.NewServer(set, env.Logger)
	if port > 0 {
		return server.ServeSSE(ctx, port)
	}
	return server.ServeStdio()
}

// serveMetrics exposes the registry on the metrics address until ctx is done.
func serveMetrics(ctx context.Context, env *Env) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(env.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: env.Config.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	env.Logger.Info("metrics listening", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		env.Logger.Warn("metrics server failed", "error", err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMarkdown(w io.Writer, markdown string) error {
	text, err := Renderer(w)(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}
