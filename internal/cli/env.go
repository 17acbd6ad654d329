// Package cli wires configuration into pipelines and implements the
// taskstream commands.
package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/taskstream"
	"github.com/aretw0/taskstream/internal/config"
	"github.com/aretw0/taskstream/pkg/adapters/file"
	"github.com/aretw0/taskstream/pkg/adapters/loam"
	"github.com/aretw0/taskstream/pkg/adapters/memory"
	"github.com/aretw0/taskstream/pkg/adapters/process"
	"github.com/aretw0/taskstream/pkg/adapters/redis"
	"github.com/aretw0/taskstream/pkg/adapters/sqlite"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/observability"
	"github.com/aretw0/taskstream/pkg/persistence/middleware"
	"github.com/aretw0/taskstream/pkg/ports"
	"github.com/aretw0/taskstream/pkg/scenario"
	"github.com/aretw0/taskstream/pkg/scenario/kitchen"
	"github.com/aretw0/taskstream/pkg/scenario/rovers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// lockTTL bounds how long a crashed runner can hold a scenario lock.
const lockTTL = 15 * time.Minute

// Catalog returns the built-in scenarios.
func Catalog() *scenario.Catalog {
	return scenario.NewCatalog(kitchen.Bundle(), rovers.Bundle())
}

// Env is everything the commands share: configuration, logging, metrics and
// the backends pipelines are built on.
type Env struct {
	Config    *config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Metrics   *observability.Metrics
	Catalog   *scenario.Catalog
	Instances ports.ScenarioSource
	Store     ports.PlanStore
	Locker    ports.Locker
	Executor  ports.Executor

	solverName string
	solver     ports.Solver
	closers    []func() error
}

// NewEnv opens the backends named by cfg. Close releases them.
func NewEnv(ctx context.Context, cfg *config.Config, logger *slog.Logger) (env *Env, err error) {
	env = &Env{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		Catalog:  Catalog(),
	}
	defer func() {
		if err != nil {
			_ = env.Close()
		}
	}()

	env.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	env.Metrics = observability.NewMetrics(env.Registry)

	if env.Instances, err = openInstances(cfg.ScenarioDir); err != nil {
		return nil, err
	}
	if err = env.openStore(ctx); err != nil {
		return nil, err
	}
	if err = env.openSolver(); err != nil {
		return nil, err
	}
	return env, nil
}

func openInstances(dir string) (ports.ScenarioSource, error) {
	if dir == "" {
		return memory.NewSource(), nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return memory.NewSource(), nil
	}
	return loam.Open(dir)
}

func (e *Env) openStore(ctx context.Context) error {
	sc := e.Config.Store
	var base ports.PlanStore
	switch sc.Kind {
	case config.StoreMemory:
		base = memory.NewStore()
		e.Locker = memory.NewLocker()
	case config.StoreFile:
		base = file.NewStore(sc.Path)
		e.Locker = memory.NewLocker()
	case config.StoreRedis:
		opts := []redis.Option{redis.WithTTL(sc.TTL)}
		if sc.Prefix != "" {
			opts = append(opts, redis.WithPrefix(sc.Prefix))
		}
		store := redis.New(sc.Address, sc.Password, sc.DB, opts...)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return fmt.Errorf("%w: redis %s: %w", domain.ErrConfiguration, sc.Address, err)
		}
		e.closers = append(e.closers, store.Close)
		base = store
		e.Locker = redis.NewLocker(store.Client(), "taskstream:")
	case config.StoreSQLite:
		path := sc.Path
		if path == "" {
			path = "taskstream.db"
		}
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("%w: sqlite %s: %w", domain.ErrConfiguration, path, err)
		}
		e.closers = append(e.closers, store.Close)
		base = store
		e.Locker = memory.NewLocker()
	default:
		return fmt.Errorf("%w: unknown store kind %q", domain.ErrConfiguration, sc.Kind)
	}

	mws := []middleware.Middleware{
		middleware.NewLoggingMiddleware(e.Logger),
		middleware.NewMetricsMiddleware(e.Metrics),
	}
	if len(sc.Redact) > 0 {
		redact, err := middleware.NewRedactMiddleware(sc.Redact)
		if err != nil {
			return err
		}
		mws = append(mws, redact)
	}
	if sc.EncryptionKeyEnv != "" {
		key, err := base64.StdEncoding.DecodeString(os.Getenv(sc.EncryptionKeyEnv))
		if err != nil {
			return fmt.Errorf("%w: %s is not base64: %w", domain.ErrConfiguration, sc.EncryptionKeyEnv, err)
		}
		encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return err
		}
		mws = append(mws, encrypt)
	}
	e.Store = middleware.Chain(base, mws...)
	return nil
}

func (e *Env) openSolver() error {
	sc := e.Config.Solver
	if sc.Name == "" {
		return nil
	}
	solvers, err := process.LoadSolvers(sc.Solvers)
	if err != nil {
		return err
	}
	cfg, ok := solvers[sc.Name]
	if !ok {
		return fmt.Errorf("%w: solver %q is not defined in %s (known: %v)", domain.ErrConfiguration, sc.Name, sc.Solvers, process.Names(solvers))
	}
	e.solverName = sc.Name
	e.solver = process.NewSolver(cfg, process.WithLogger(e.Logger))
	return nil
}

// UseSolver replaces the configured solver.
func (e *Env) UseSolver(name string, solver ports.Solver) {
	e.solverName = name
	e.solver = solver
}

// Pipeline builds the pipeline for scenario name from the configuration.
func (e *Env) Pipeline(name string, opts ...taskstream.Option) (*taskstream.Pipeline, error) {
	if name == "" {
		name = e.Config.Scenario
	}
	bundle, err := e.Catalog.Get(name)
	if err != nil {
		return nil, err
	}
	overrides, err := e.Config.SolverOptions()
	if err != nil {
		return nil, err
	}

	base := []taskstream.Option{
		taskstream.WithLogger(e.Logger),
		taskstream.WithLifecycleHooks(observability.LoggingHooks(e.Logger)),
		taskstream.WithMetrics(e.Metrics),
		taskstream.WithPlanStore(e.Store),
		taskstream.WithLocker(e.Locker, lockTTL),
		taskstream.WithStrict(e.Config.StrictClassification),
		taskstream.WithSolverOptions(overrides),
	}
	if e.Config.DebugStreams {
		base = append(base, taskstream.WithStreamMode(domain.StreamModeDebug))
	}
	if e.Config.DescriptionDir != "" && bundle.Descriptions != nil {
		dir := filepath.Join(e.Config.DescriptionDir, name)
		base = append(base, taskstream.WithDescriptionSource(file.Overlay{file.NewDirSource(dir), file.NewSource(bundle.Descriptions)}))
	}
	if e.solver != nil {
		base = append(base, taskstream.WithSolver(e.solverName, e.solver))
	}
	if e.Executor != nil {
		base = append(base, taskstream.WithExecutor(e.Executor))
	}
	return taskstream.New(bundle, append(base, opts...)...)
}

// Pipelines builds a pipeline for every scenario of the catalog.
func (e *Env) Pipelines() (*taskstream.Set, error) {
	set := taskstream.NewSet()
	for _, name := range e.Catalog.Names() {
		p, err := e.Pipeline(name)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", name, err)
		}
		set.Add(p)
	}
	return set, nil
}

// Close releases the store backends.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i]())
	}
	e.closers = nil
	return errors.Join(errs...)
}
