package taskstream

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/taskstream/pkg/adapters/file"
	"github.com/aretw0/taskstream/pkg/adapters/memory"
	"github.com/aretw0/taskstream/pkg/assembler"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/observability"
	"github.com/aretw0/taskstream/pkg/ports"
	"github.com/aretw0/taskstream/pkg/scenario"
	"github.com/aretw0/taskstream/pkg/translator"
	"github.com/google/uuid"
)

//go:embed VERSION
var version string

// Version returns the module version.
func Version() string {
	return strings.TrimSpace(version)
}

// Pipeline is the high-level entry point for one scenario. It assembles
// problems, hands them to a Solver, keeps every answer as a Run in a
// PlanStore and translates plans into executor commands.
type Pipeline struct {
	bundle     *scenario.Bundle
	assembler  *assembler.Assembler
	translator *translator.Translator

	source   ports.DescriptionSource
	solver   ports.Solver
	store    ports.PlanStore
	locker   ports.Locker
	executor ports.Executor

	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	metrics *observability.Metrics

	strict     bool
	streamMode domain.StreamMode
	overrides  domain.SolverOptions
	solverName string
	lockTTL    time.Duration
	newID      func() string
}

// Option defines a functional option for configuring the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks for assembly and translation.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithMetrics records solver and pipeline metrics. The metric hooks are
// chained after any hooks set with WithLifecycleHooks.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithDescriptionSource reads descriptions from source instead of the
// bundle's embedded documents.
func WithDescriptionSource(source ports.DescriptionSource) Option {
	return func(p *Pipeline) {
		p.source = source
	}
}

// WithSolver sets the solver. name labels metrics and logs.
func WithSolver(name string, solver ports.Solver) Option {
	return func(p *Pipeline) {
		p.solverName = name
		p.solver = solver
	}
}

// WithPlanStore sets where runs are kept (default: in memory).
func WithPlanStore(store ports.PlanStore) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// WithLocker serializes runs that share a key, across processes when the
// locker is distributed (default: process-local).
func WithLocker(locker ports.Locker, ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.locker = locker
		p.lockTTL = ttl
	}
}

// WithExecutor sets the consumer of translated commands.
func WithExecutor(executor ports.Executor) Option {
	return func(p *Pipeline) {
		p.executor = executor
	}
}

// WithStrict rejects entities that match no classification rule.
func WithStrict(strict bool) Option {
	return func(p *Pipeline) {
		p.strict = strict
	}
}

// WithStreamMode overrides the scenario's stream map variant.
func WithStreamMode(mode domain.StreamMode) Option {
	return func(p *Pipeline) {
		p.streamMode = mode
	}
}

// WithSolverOptions overrides the scenario's tuned solver options field by field.
func WithSolverOptions(opts domain.SolverOptions) Option {
	return func(p *Pipeline) {
		p.overrides = opts
	}
}

// WithIDGenerator replaces the run ID generator (default: random UUIDs).
func WithIDGenerator(gen func() string) Option {
	return func(p *Pipeline) {
		p.newID = gen
	}
}

// New creates a Pipeline for a scenario bundle.
func New(bundle *scenario.Bundle, opts ...Option) (*Pipeline, error) {
	if bundle == nil || bundle.Scenario == nil {
		return nil, fmt.Errorf("%w: no scenario", domain.ErrConfiguration)
	}
	p := &Pipeline{bundle: bundle, lockTTL: 10 * time.Minute}
	for _, opt := range opts {
		opt(p)
	}

	if p.source == nil {
		if bundle.Descriptions == nil {
			return nil, fmt.Errorf("%w: scenario %s has no descriptions and no source was given", domain.ErrConfiguration, bundle.Name())
		}
		p.source = file.NewSource(bundle.Descriptions)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.logger = p.logger.With("scenario", bundle.Name())
	if p.store == nil {
		p.store = memory.NewStore()
	}
	if p.locker == nil {
		p.locker = memory.NewLocker()
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}
	if p.metrics != nil {
		p.hooks = domain.ChainHooks(p.hooks, p.metrics.Hooks())
	}

	p.assembler = p.newAssembler(p.strict, p.streamMode)
	p.translator = translator.New(
		translator.WithLogger(p.logger),
		translator.WithLifecycleHooks(p.hooks),
		translator.WithHandlers(bundle.Handlers...),
	)
	return p, nil
}

func (p *Pipeline) newAssembler(strict bool, mode domain.StreamMode) *assembler.Assembler {
	return assembler.New(p.source,
		assembler.WithLogger(p.logger),
		assembler.WithLifecycleHooks(p.hooks),
		assembler.WithStrict(strict),
		assembler.WithStreamMode(mode),
	)
}

// Name returns the scenario name.
func (p *Pipeline) Name() string {
	return p.bundle.Name()
}

// Store returns the plan store.
func (p *Pipeline) Store() ports.PlanStore {
	return p.store
}

// Translator returns the plan translator.
func (p *Pipeline) Translator() *translator.Translator {
	return p.translator
}

// Translates reports whether the scenario's plans can be turned into commands.
func (p *Pipeline) Translates() bool {
	return len(p.bundle.Handlers) > 0
}

// Assemble builds the problem for entities. Nil entities use the scenario defaults.
func (p *Pipeline) Assemble(ctx context.Context, entities []domain.Entity) (*domain.Problem, error) {
	return p.assembler.Assemble(ctx, p.bundle.Scenario, entities)
}

// AssembleInstance builds the problem for a stored instance. The instance's
// strict and debug flags add to the pipeline's own.
func (p *Pipeline) AssembleInstance(ctx context.Context, inst *domain.Instance) (*domain.Problem, error) {
	if inst.Scenario != "" && inst.Scenario != p.Name() {
		return nil, fmt.Errorf("%w: instance %s is for scenario %s, not %s", domain.ErrConfiguration, inst.Name, inst.Scenario, p.Name())
	}
	mode := p.streamMode
	if inst.Debug {
		mode = domain.StreamModeDebug
	}
	a := p.assembler
	if (inst.Strict && !p.strict) || mode != p.streamMode {
		a = p.newAssembler(p.strict || inst.Strict, mode)
	}
	return a.Assemble(ctx, p.bundle.Scenario, inst.Entities)
}

// Options returns the effective solver options: each layer fills the fields
// left unset by the previous one, starting from extra, then the pipeline
// overrides, then the scenario defaults.
func (p *Pipeline) Options(extra ...domain.SolverOptions) domain.SolverOptions {
	var out domain.SolverOptions
	for _, o := range extra {
		out = out.Merge(o)
	}
	return out.Merge(p.overrides).Merge(p.bundle.Scenario.Defaults)
}

// Solve hands problem to the solver and stores the answer as a new run.
// A solver that finds no plan is not an error: the run is stored without a plan.
func (p *Pipeline) Solve(ctx context.Context, problem *domain.Problem, opts domain.SolverOptions) (*domain.Run, error) {
	if p.solver == nil {
		return nil, fmt.Errorf("%w: no solver configured", domain.ErrConfiguration)
	}

	start := time.Now()
	sol, err := p.solver.Solve(ctx, problem, opts)
	if err == nil {
		err = sol.Validate()
	}
	if p.metrics != nil {
		p.metrics.ObserveSolve(p.solverName, sol, err, time.Since(start))
	}
	if err != nil {
		p.logger.Error("solve failed", "solver", p.solverName, "error", err)
		return nil, err
	}

	run := &domain.Run{
		ID:        p.newID(),
		Scenario:  p.Name(),
		Options:   opts,
		Solution:  sol,
		CreatedAt: time.Now().UTC(),
	}
	if p.solverName != "" {
		run.Labels = map[string]string{"solver": p.solverName}
	}
	if err := p.store.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("save run %s: %w", run.ID, err)
	}
	p.logger.Info("run stored",
		"run_id", run.ID,
		"solved", sol.Solved(),
		"cost", sol.Cost.String(),
		"actions", sol.Plan.Len(),
		"duration", time.Since(start),
	)
	return run, nil
}

// Translate converts a plan into commands. A nil plan yields a nil result.
func (p *Pipeline) Translate(ctx context.Context, plan *domain.Plan) (*translator.Result, error) {
	return p.translator.Translate(ctx, plan)
}

// TranslateRun loads a stored run and translates its plan.
func (p *Pipeline) TranslateRun(ctx context.Context, id string) (*domain.Run, *translator.Result, error) {
	run, err := p.store.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if run.Scenario != p.Name() {
		return nil, nil, fmt.Errorf("%w: run %s belongs to scenario %s", domain.ErrConfiguration, id, run.Scenario)
	}
	res, err := p.Translate(ctx, run.Solution.Plan)
	if err != nil {
		return run, nil, err
	}
	return run, res, nil
}

// Execute hands commands to the executor. Without an executor it does nothing.
func (p *Pipeline) Execute(ctx context.Context, commands []domain.Command) error {
	if p.executor == nil || len(commands) == 0 {
		return nil
	}
	return p.executor.Execute(ctx, commands)
}

// lock serializes work on key.
func (p *Pipeline) lock(ctx context.Context, key string) (ports.UnlockFunc, error) {
	return p.locker.Lock(ctx, p.Name()+":"+key, p.lockTTL)
}
