package assembler

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/aretw0/taskstream/pkg/adapters/file"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const streamPDDL = `(define (stream toy)
  ; a comment mentioning (:stream ignored)
  (:stream sample-pose
    :inputs (?o)
    :outputs (?p)
    :certified (IsPose ?o ?p))
  (:stream test-free
    :inputs (?o ?p)
    :certified (Free ?o ?p)))`

func toySource() *file.Source {
	return file.NewSource(fstest.MapFS{
		"toy/domain.pddl": {Data: []byte("(define (domain toy))")},
		"toy/stream.pddl": {Data: []byte(streamPDDL)},
	})
}

func toyScenario() *Scenario {
	return &Scenario{
		Name:       "toy",
		DomainPath: "toy/domain.pddl",
		StreamPath: "toy/stream.pddl",
		Rules: []Rule{
			Tag("box", Keyword("box"), "IsBox"),
			Tag("heavy", AttributeEquals("weight", "heavy"), "IsHeavy"),
			Tag("any", HasAttribute("color"), "Colored"),
		},
		Placements: []Placement{
			Unplaced("floating", Keyword("drone")),
		},
		Facts: func(entities []domain.Entity) domain.FactSet {
			return domain.FactSet{domain.NewFact("Count", fmt.Sprint(len(entities)))}
		},
		Goal: func([]domain.Entity) domain.Formula {
			return domain.Conj(domain.NewFact("Holding", "box"))
		},
		Constants:  map[string]domain.Value{"origin": domain.P(0, 0, 0)},
		StreamMode: domain.StreamModeDebug,
	}
}

func TestAssemble_ClassifiesAndPlaces(t *testing.T) {
	a := New(toySource())
	entities := []domain.Entity{
		{Name: "box", Pose: domain.P(1, 0, 0), Attributes: map[string]any{"weight": "heavy", "color": "red"}},
		{Name: "drone", Pose: domain.P(0, 0, 5)},
	}

	p, err := a.Assemble(context.Background(), toyScenario(), entities)
	require.NoError(t, err)

	for _, f := range []domain.Fact{
		domain.NewFact("Count", "2"),
		domain.NewFact("IsBox", "box"),
		domain.NewFact("IsHeavy", "box"),
		domain.NewFact("Colored", "box"),
		domain.NewFact("AtPose", "box", domain.P(1, 0, 0)),
	} {
		assert.True(t, p.Init.Contains(f), "missing %s", f)
	}
	assert.Len(t, p.Init.WithPredicate("AtPose"), 1, "drone must not be placed")
	assert.Equal(t, domain.P(0, 0, 0), p.ConstantMap["origin"])
	assert.Equal(t, "toy/domain.pddl", p.Domain.Path)
}

func TestAssemble_DefaultEntities(t *testing.T) {
	sc := toyScenario()
	sc.Entities = []domain.Entity{domain.NewEntity("box", domain.P(2, 0, 0))}

	p, err := New(toySource()).Assemble(context.Background(), sc, nil)
	require.NoError(t, err)
	assert.True(t, p.Init.Contains(domain.NewFact("AtPose", "box", domain.P(2, 0, 0))))
}

func TestAssemble_MapIsSortedByName(t *testing.T) {
	var seen []string
	sc := toyScenario()
	sc.Facts = func(entities []domain.Entity) domain.FactSet {
		for _, e := range entities {
			seen = append(seen, e.Name)
		}
		return nil
	}

	_, err := New(toySource()).AssembleMap(context.Background(), sc, map[string]domain.Value{
		"c_box": domain.P(3, 0, 0),
		"a_box": domain.P(1, 0, 0),
		"b_box": domain.P(2, 0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_box", "b_box", "c_box"}, seen)
}

func TestAssemble_StreamCoverage(t *testing.T) {
	ctx := context.Background()
	ok := func(context.Context, []domain.Value) (bool, error) { return true, nil }
	gen := func(context.Context, []domain.Value) domain.Generator { return domain.FromSlice() }

	tests := []struct {
		name    string
		setup   func(r *registry.Registry)
		wantErr error
	}{
		{
			name: "exact coverage",
			setup: func(r *registry.Registry) {
				require.NoError(t, r.RegisterGenerator("sample-pose", gen, domain.StreamInfo{}))
				require.NoError(t, r.RegisterTest("test-free", ok, domain.StreamInfo{}))
			},
		},
		{
			name: "missing binding",
			setup: func(r *registry.Registry) {
				require.NoError(t, r.RegisterGenerator("sample-pose", gen, domain.StreamInfo{}))
			},
			wantErr: domain.ErrUndeclaredStream,
		},
		{
			name: "undeclared binding",
			setup: func(r *registry.Registry) {
				require.NoError(t, r.RegisterGenerator("sample-pose", gen, domain.StreamInfo{}))
				require.NoError(t, r.RegisterTest("test-free", ok, domain.StreamInfo{}))
				require.NoError(t, r.RegisterTest("test-extra", ok, domain.StreamInfo{}))
			},
			wantErr: domain.ErrUndeclaredStream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := registry.NewRegistry()
			tt.setup(r)
			sc := toyScenario()
			sc.Streams = r

			p, err := New(toySource(), WithStreamMode(domain.StreamModeReal)).Assemble(ctx, sc, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.False(t, p.Streams.IsDebug())
			assert.Equal(t, 2, p.Streams.Len())
		})
	}

	t.Run("debug mode skips the check", func(t *testing.T) {
		sc := toyScenario()
		sc.Streams = registry.NewRegistry()
		p, err := New(toySource()).Assemble(ctx, sc, nil)
		require.NoError(t, err)
		assert.True(t, p.Streams.IsDebug())
	})
}

func TestAssemble_Hooks(t *testing.T) {
	var events []*domain.ProblemEvent
	hooks := domain.LifecycleHooks{
		OnProblemAssembled: func(_ context.Context, e *domain.ProblemEvent) { events = append(events, e) },
	}

	_, err := New(toySource(), WithLifecycleHooks(hooks)).Assemble(context.Background(), toyScenario(),
		[]domain.Entity{domain.NewEntity("box", domain.P(0, 0, 0))})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "toy", events[0].Scenario)
	assert.Equal(t, 1, events[0].Entities)
	assert.Equal(t, domain.StreamModeDebug, events[0].StreamMode)
}

func TestAssemble_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no source", func(t *testing.T) {
		_, err := New(nil).Assemble(ctx, toyScenario(), nil)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("entity without pose", func(t *testing.T) {
		_, err := New(toySource()).Assemble(ctx, toyScenario(), []domain.Entity{{Name: "box"}})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("invalid goal", func(t *testing.T) {
		sc := toyScenario()
		sc.Goal = func([]domain.Entity) domain.Formula {
			return domain.Conj(domain.NewFact("Holding", "?x"))
		}
		_, err := New(toySource()).Assemble(ctx, sc, []domain.Entity{domain.NewEntity("box", domain.P(0, 0, 0))})
		assert.ErrorIs(t, err, domain.ErrInvalidGoal)
	})
}

func TestClassify_AllMatchingRules(t *testing.T) {
	rules := []Rule{
		Tag("spoon", Keyword("spoon"), "IsSpoon"),
		Tag("stirrer", Keyword("stirrer"), "IsStirrer"),
		Tag("cup", Keyword("cup"), "IsCup"),
	}

	facts, matched := Classify(rules, domain.Entity{Name: "Spoon-Stirrer"})
	assert.Equal(t, []string{"spoon", "stirrer"}, matched)
	assert.Len(t, facts, 2)

	facts, matched = Classify(rules, domain.Entity{Name: "thing", Keywords: []string{"CUP"}})
	assert.Equal(t, []string{"cup"}, matched)
	assert.Equal(t, domain.FactSet{domain.NewFact("IsCup", "thing")}, facts)

	_, matched = Classify(rules, domain.Entity{Name: "plate"})
	assert.Empty(t, matched)
}
