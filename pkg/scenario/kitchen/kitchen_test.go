package kitchen_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/aretw0/taskstream/pkg/adapters/file"
	"github.com/aretw0/taskstream/pkg/assembler"
	"github.com/aretw0/taskstream/pkg/description"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/scenario/kitchen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, poses map[string]domain.Value, opts ...assembler.Option) *domain.Problem {
	t.Helper()
	a := assembler.New(file.NewSource(kitchen.Descriptions), opts...)
	p, err := a.AssembleMap(context.Background(), kitchen.New(), poses)
	require.NoError(t, err)
	return p
}

func TestKitchen_EndToEnd(t *testing.T) {
	p := assemble(t, map[string]domain.Value{
		"gripper": domain.P(0, 15, 0),
		"cup":     domain.P(7.5, 0, 0),
		"block":   domain.P(-20, 0, 0),
	})

	want := []domain.Fact{
		domain.NewFact("IsGripper", "gripper"),
		domain.NewFact("IsCup", "cup"),
		domain.NewFact("IsBlock", "block"),
		domain.NewFact("IsPose", "block", domain.P(-20, 0, 0)),
		domain.NewFact("AtPose", "block", domain.P(-20, 0, 0)),
		domain.NewFact("TableSupport", domain.P(-20, 0, 0)),
	}
	for _, f := range want {
		assert.True(t, p.Init.Contains(f), "missing initial fact %s", f)
	}

	conjuncts := domain.Conjuncts(p.Goal)
	assert.Contains(t, conjuncts, domain.Formula(domain.Atom{Fact: domain.NewFact("AtPose", "block", domain.P(-25, 0, 0))}))
	assert.Contains(t, conjuncts, domain.Formula(domain.Atom{Fact: domain.NewFact("On", "cup", "block")}))

	assert.True(t, p.Streams.IsDebug())
	assert.Equal(t, kitchen.Name, p.Name)
	assert.Contains(t, p.Domain.Text, "(define (domain kitchen2d)")
	assert.Equal(t, "stream.pddl", p.StreamDescription.Path)
}

func TestKitchen_PoseConsistency(t *testing.T) {
	p, err := assembler.New(file.NewSource(kitchen.Descriptions)).Assemble(context.Background(), kitchen.New(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, p.Init)

	for _, e := range kitchen.Entities() {
		t.Run(e.Name, func(t *testing.T) {
			assert.True(t, p.Init.Contains(domain.NewFact("IsPose", e.Name, e.Pose)))
			assert.True(t, p.Init.Contains(domain.NewFact("AtPose", e.Name, e.Pose)))
			assert.True(t, p.Init.Contains(domain.NewFact("TableSupport", e.Pose)))
		})
	}

	// Every AtPose refers to a pose the same entity is known to occupy.
	for _, at := range p.Init.WithPredicate("AtPose") {
		assert.True(t, p.Init.Contains(domain.Fact{Predicate: "IsPose", Args: at.Args}), "AtPose without IsPose: %s", at)
	}
}

func TestKitchen_MultiClassification(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		want   []string
		absent []string
	}{
		{"spoon is a stirrer", "spoon", []string{"IsSpoon", "IsStirrer"}, []string{"IsCup"}},
		{"both keywords", "spoon_stirrer", []string{"IsSpoon", "IsStirrer"}, nil},
		{"keyword inside a compound name", "sugar_cup", []string{"IsCup"}, []string{"IsSpoon"}},
		{"stirrer only", "stirrer", []string{"IsStirrer"}, []string{"IsSpoon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := assemble(t, map[string]domain.Value{tt.entity: domain.P(1, 2, 0)})
			for _, pred := range tt.want {
				assert.True(t, p.Init.Contains(domain.NewFact(pred, tt.entity)), "%s(%s) missing", pred, tt.entity)
			}
			for _, pred := range tt.absent {
				assert.False(t, p.Init.Contains(domain.NewFact(pred, tt.entity)), "%s(%s) unexpected", pred, tt.entity)
			}
		})
	}
}

func TestKitchen_Idempotent(t *testing.T) {
	poses := map[string]domain.Value{
		"gripper": domain.P(0, 15, 0),
		"cup":     domain.P(7.5, 0, 0),
		"block":   domain.P(-20, 0, 0),
		"spoon":   domain.P(0.5, 0.5, 0),
	}
	first := assemble(t, poses)
	second := assemble(t, poses)

	assert.Equal(t, first.Init, second.Init)
	assert.Equal(t, first.Goal, second.Goal)
	assert.Equal(t, domain.EncodeProblem(first), domain.EncodeProblem(second))
}

func TestKitchen_UntypedEntity(t *testing.T) {
	poses := map[string]domain.Value{
		"gripper": domain.P(0, 15, 0),
		"teapot":  domain.P(3, 0, 0),
	}

	t.Run("accepted with a warning", func(t *testing.T) {
		var buf bytes.Buffer
		var untyped []string
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		hooks := domain.LifecycleHooks{
			OnEntityUntyped: func(_ context.Context, e *domain.EntityEvent) {
				untyped = append(untyped, e.Entity)
			},
		}

		p := assemble(t, poses, assembler.WithLogger(logger), assembler.WithLifecycleHooks(hooks))
		assert.Equal(t, []string{"teapot"}, untyped)
		assert.Contains(t, buf.String(), "entity matches no classification rule")
		assert.True(t, p.Init.Contains(domain.NewFact("AtPose", "teapot", domain.P(3, 0, 0))))
	})

	t.Run("rejected when strict", func(t *testing.T) {
		a := assembler.New(file.NewSource(kitchen.Descriptions), assembler.WithStrict(true))
		_, err := a.AssembleMap(context.Background(), kitchen.New(), poses)
		assert.ErrorIs(t, err, domain.ErrUntypedEntity)
	})
}

func TestKitchen_MissingDescription(t *testing.T) {
	src := file.NewSource(fstest.MapFS{
		"domain.pddl": {Data: []byte("(define (domain kitchen2d))")},
	})
	_, err := assembler.New(src).Assemble(context.Background(), kitchen.New(), nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestKitchen_DescriptionsDeclareGoalPredicates(t *testing.T) {
	data, err := kitchen.Descriptions.ReadFile("domain.pddl")
	require.NoError(t, err)
	actions := description.Names(description.Actions(domain.Description{Text: string(data)}))
	assert.Contains(t, actions, "stack")
	assert.Contains(t, actions, "stir")

	streams, err := kitchen.Descriptions.ReadFile("stream.pddl")
	require.NoError(t, err)
	assert.Contains(t, description.Names(description.Streams(domain.Description{Text: string(streams)})), "sample-grasp")
}
