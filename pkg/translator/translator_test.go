package translator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pick struct {
	Agent  string
	Object string
}

type place struct {
	Agent string
}

var (
	followSig = schema.Of(schema.Arg("a", schema.Symbol()), schema.Arg("t", schema.Trajectory()))
	pickSig   = schema.Of(schema.Arg("a", schema.Symbol()), schema.Arg("o", schema.Symbol()))
	placeSig  = schema.Of(schema.Arg("a", schema.Symbol()))
)

func newTestTranslator(opts ...Option) *Translator {
	handlers := WithHandlers(
		PassThrough("follow", followSig, 1),
		Action("pick", pickSig,
			func(args domain.Args) (pick, error) {
				return pick{Agent: SymbolAt(args, 0), Object: SymbolAt(args, 1)}, nil
			},
			func(state domain.TranslationState, s pick) ([]domain.Command, domain.TranslationState, error) {
				next := state.Attach(s.Agent, s.Object)
				return []domain.Command{domain.Attach{Agent: s.Agent, Link: "hand", Body: s.Object}}, next, nil
			},
		),
		Action("place", placeSig,
			func(args domain.Args) (place, error) {
				return place{Agent: SymbolAt(args, 0)}, nil
			},
			func(state domain.TranslationState, s place) ([]domain.Command, domain.TranslationState, error) {
				obj, next, err := state.Detach(s.Agent)
				if err != nil {
					return nil, state, err
				}
				return []domain.Command{domain.Detach{Agent: s.Agent, Link: "hand", Body: obj}}, next, nil
			},
		),
		Action("noop", schema.Of(),
			func(domain.Args) (struct{}, error) { return struct{}{}, nil },
			func(state domain.TranslationState, _ struct{}) ([]domain.Command, domain.TranslationState, error) {
				return nil, state, nil
			},
		),
	)
	return New(append([]Option{handlers}, opts...)...)
}

func traj(id string) domain.Trajectory {
	return domain.Trajectory{ID: id, Body: "robot"}
}

func TestTranslate_NilPlan(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	hooks := domain.LifecycleHooks{
		OnActionTranslated:    func(context.Context, *domain.ActionEvent) { calls++ },
		OnTranslationComplete: func(context.Context, *domain.TranslationEvent) { calls++ },
	}
	tr := newTestTranslator(
		WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithLifecycleHooks(hooks),
	)

	res, err := tr.Translate(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Zero(t, calls, "no diagnostics for a missing plan")
	assert.Empty(t, buf.String())
}

func TestTranslate_EmptyPlan(t *testing.T) {
	res, err := newTestTranslator().Translate(context.Background(), domain.NewPlan())
	require.NoError(t, err)
	require.NotNil(t, res, "an empty plan is a successful plan")
	assert.Empty(t, res.Commands)
	assert.True(t, res.State.Empty())
}

func TestTranslate_PreservesOrder(t *testing.T) {
	tr := newTestTranslator()
	plan := domain.NewPlan(
		domain.NewAction("follow", "robot", traj("1")),
		domain.NewAction("noop"),
		domain.NewAction("follow", "robot", traj("2")),
		domain.NewAction("follow", "robot", traj("3")),
	)

	res, err := tr.Translate(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, []domain.Command{traj("1"), traj("2"), traj("3")}, res.Commands)
	assert.Equal(t, [][2]int{{0, 1}, {1, 1}, {1, 2}, {2, 3}}, res.Spans)

	reordered := domain.NewPlan(plan.Actions[3], plan.Actions[1], plan.Actions[2], plan.Actions[0])
	res, err = tr.Translate(context.Background(), reordered)
	require.NoError(t, err)
	assert.Equal(t, []domain.Command{traj("3"), traj("2"), traj("1")}, res.Commands)
}

func TestTranslate_AttachmentPairing(t *testing.T) {
	var events []*domain.ActionEvent
	tr := newTestTranslator(WithLifecycleHooks(domain.LifecycleHooks{
		OnActionTranslated: func(_ context.Context, e *domain.ActionEvent) { events = append(events, e) },
	}))
	plan := domain.NewPlan(
		domain.NewAction("pick", "robot", "cup"),
		domain.NewAction("follow", "robot", traj("1")),
		domain.NewAction("place", "robot"),
	)

	res, err := tr.Translate(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, res.Commands, 3)
	assert.Equal(t, domain.Attach{Agent: "robot", Link: "hand", Body: "cup"}, res.Commands[0])
	assert.Equal(t, domain.Detach{Agent: "robot", Link: "hand", Body: "cup"}, res.Commands[2])
	assert.True(t, res.State.Empty())

	require.Len(t, events, 3)
	assert.Equal(t, 2, events[2].Index)
	assert.Equal(t, "place", events[2].Action)
}

func TestTranslate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		plan    *domain.Plan
		wantErr error
		index   int
	}{
		{
			name:    "unknown action",
			plan:    domain.NewPlan(domain.NewAction("follow", "robot", traj("1")), domain.NewAction("teleport", "robot")),
			wantErr: domain.ErrUnhandledAction,
			index:   1,
		},
		{
			name:    "arity mismatch",
			plan:    domain.NewPlan(domain.NewAction("pick", "robot")),
			wantErr: domain.ErrArgumentShape,
			index:   0,
		},
		{
			name:    "wrong argument type",
			plan:    domain.NewPlan(domain.NewAction("follow", "robot", "somewhere")),
			wantErr: domain.ErrArgumentShape,
			index:   0,
		},
		{
			name:    "release without attachment",
			plan:    domain.NewPlan(domain.NewAction("follow", "robot", traj("1")), domain.NewAction("place", "robot")),
			wantErr: domain.ErrNotHolding,
			index:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var failed error
			tr := newTestTranslator(WithLifecycleHooks(domain.LifecycleHooks{
				OnTranslationComplete: func(_ context.Context, e *domain.TranslationEvent) { failed = e.Err },
			}))

			res, err := tr.Translate(context.Background(), tt.plan)
			assert.Nil(t, res, "no partial output")
			assert.ErrorIs(t, err, tt.wantErr)

			var terr *domain.TranslationError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.index, terr.Index)
			assert.ErrorIs(t, failed, tt.wantErr)
		})
	}
}

func TestTranslate_UnknownActionEmitsNothing(t *testing.T) {
	emitted := 0
	tr := newTestTranslator(WithLifecycleHooks(domain.LifecycleHooks{
		OnActionTranslated: func(context.Context, *domain.ActionEvent) { emitted++ },
	}))
	plan := domain.NewPlan(
		domain.NewAction("follow", "robot", traj("1")),
		domain.NewAction("follow", "robot", traj("2")),
		domain.NewAction("teleport", "robot"),
	)

	_, err := tr.Translate(context.Background(), plan)
	assert.ErrorIs(t, err, domain.ErrUnhandledAction)
	assert.Zero(t, emitted, "actions before the unknown one must not be emitted")
}

func TestTranslator_Actions(t *testing.T) {
	assert.Equal(t, []string{"follow", "noop", "pick", "place"}, newTestTranslator().Actions())
}
