package assembler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/aretw0/taskstream/pkg/description"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/dsl"
	"github.com/aretw0/taskstream/pkg/ports"
	"github.com/aretw0/taskstream/pkg/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/taskstream/pkg/assembler"

// Assembler builds Problems from scenarios and entity sets. Apart from reading
// the descriptions it is a pure function of its inputs: the same scenario and
// entities always yield structurally equal problems.
type Assembler struct {
	source ports.DescriptionSource
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	strict bool
	mode   domain.StreamMode
}

// New creates an Assembler reading descriptions from source.
func New(source ports.DescriptionSource, opts ...Option) *Assembler {
	a := &Assembler{source: source}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

// AssembleMap assembles a problem from a name to pose mapping. Entities are
// processed in name order.
func (a *Assembler) AssembleMap(ctx context.Context, sc *Scenario, poses map[string]domain.Value) (*domain.Problem, error) {
	names := make([]string, 0, len(poses))
	for name := range poses {
		names = append(names, name)
	}
	sort.Strings(names)

	entities := make([]domain.Entity, len(names))
	for i, name := range names {
		entities[i] = domain.NewEntity(name, poses[name])
	}
	return a.Assemble(ctx, sc, entities)
}

// Assemble builds the problem for sc over entities. A nil entity slice uses
// the scenario's default entities.
func (a *Assembler) Assemble(ctx context.Context, sc *Scenario, entities []domain.Entity) (problem *domain.Problem, err error) {
	if entities == nil {
		entities = sc.Entities
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "assembler.Assemble", trace.WithAttributes(
		attribute.String("scenario.name", sc.Name),
		attribute.Int("scenario.entities", len(entities)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger := a.logger.With("scenario", sc.Name)

	domainDesc, err := a.read(ctx, sc.DomainPath)
	if err != nil {
		return nil, err
	}
	streamDesc, err := a.read(ctx, sc.StreamPath)
	if err != nil {
		return nil, err
	}

	streams := sc.streamMap(a.mode)
	if !streams.IsDebug() {
		declared := description.Names(description.Streams(streamDesc))
		if err := registry.CheckCoverage(streams.Names(), declared); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, sc.StreamPath, err)
		}
	}

	var init domain.FactSet
	if sc.Facts != nil {
		init = append(init, sc.Facts(entities)...)
	}

	for _, e := range entities {
		typed, matched := Classify(sc.Rules, e)
		if len(matched) == 0 {
			if a.strict {
				return nil, fmt.Errorf("%w: %q", domain.ErrUntypedEntity, e.Name)
			}
			logger.Warn("entity matches no classification rule", "entity", e.Name)
			if a.hooks.OnEntityUntyped != nil {
				a.hooks.OnEntityUntyped(ctx, &domain.EntityEvent{
					EventBase: domain.NewEventBase(domain.EventEntityUntyped),
					Scenario:  sc.Name,
					Entity:    e.Name,
				})
			}
		}
		placed, err := place(sc.Placements, e)
		if err != nil {
			return nil, err
		}
		init = append(init, typed...)
		init = append(init, placed...)
	}

	var goal domain.Formula
	if sc.Goal != nil {
		goal = sc.Goal(entities)
	}

	b := dsl.New(sc.Name).
		Domain(domainDesc).
		StreamDescription(streamDesc).
		Streams(streams).
		InitFacts(init...).
		GoalFormula(goal)
	for name, v := range sc.Constants {
		b.Constant(name, v)
	}

	problem, err = b.Build()
	if err != nil {
		return nil, err
	}

	logger.Debug("problem assembled",
		"entities", len(entities),
		"facts", len(problem.Init),
		"streams", problem.Streams.Mode(),
	)
	span.SetAttributes(attribute.Int("problem.facts", len(problem.Init)))
	if a.hooks.OnProblemAssembled != nil {
		a.hooks.OnProblemAssembled(ctx, &domain.ProblemEvent{
			EventBase:  domain.NewEventBase(domain.EventProblemAssembled),
			Scenario:   sc.Name,
			Entities:   len(entities),
			Facts:      len(problem.Init),
			StreamMode: problem.Streams.Mode(),
		})
	}
	return problem, nil
}

// read loads a description. Any failure is a configuration error.
func (a *Assembler) read(ctx context.Context, path string) (domain.Description, error) {
	if path == "" {
		return domain.Description{}, nil
	}
	if a.source == nil {
		return domain.Description{}, fmt.Errorf("%w: no description source for %s", domain.ErrConfiguration, path)
	}
	desc, err := a.source.ReadDescription(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return domain.Description{}, err
		}
		return domain.Description{}, fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, path, err)
	}
	return desc, nil
}
