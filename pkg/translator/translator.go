package translator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/taskstream/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/taskstream/pkg/translator"

// Step is a plan action parsed into its handler's typed record.
type Step struct {
	Index   int
	Action  domain.Action
	Record  any
	handler Handler
}

// Result is the outcome of a successful translation.
type Result struct {
	// Commands preserves plan order: commands of action i precede those of action i+1.
	Commands []domain.Command
	// State is the translation state after the last action.
	State domain.TranslationState
	// Spans maps each action index to the half-open range of its commands.
	Spans [][2]int
}

// Translator converts plans into command sequences using a fixed handler set.
type Translator struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// New creates a Translator.
func New(opts ...Option) *Translator {
	t := &Translator{handlers: make(map[string]Handler)}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return t
}

// Register adds a handler. A handler with the same action name is replaced.
func (t *Translator) Register(h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[h.Name()] = h
}

// Lookup returns the handler for an action name.
func (t *Translator) Lookup(name string) (Handler, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.handlers[name]
	return h, ok
}

// Actions returns the handled action names, sorted.
func (t *Translator) Actions() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.handlers))
	for name := range t.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse converts every action of the plan into its typed step. It fails on
// the first unknown action (domain.ErrUnhandledAction) or argument mismatch
// (domain.ErrArgumentShape), reported as a *domain.TranslationError.
func (t *Translator) Parse(plan *domain.Plan) ([]Step, error) {
	if plan == nil {
		return nil, nil
	}
	steps := make([]Step, 0, len(plan.Actions))
	for i, a := range plan.Actions {
		h, ok := t.Lookup(a.Name)
		if !ok {
			return nil, &domain.TranslationError{Index: i, Action: a.Name, Err: domain.ErrUnhandledAction}
		}
		record, err := h.Parse(a.Args)
		if err != nil {
			return nil, &domain.TranslationError{Index: i, Action: a.Name, Err: fmt.Errorf("%w: %w", domain.ErrArgumentShape, err)}
		}
		steps = append(steps, Step{Index: i, Action: a, Record: record, handler: h})
	}
	return steps, nil
}

// Fold applies parsed steps in order, starting from an empty translation state.
func (t *Translator) Fold(ctx context.Context, steps []Step) (*Result, error) {
	res := &Result{Spans: make([][2]int, 0, len(steps))}
	var state domain.TranslationState
	for _, s := range steps {
		cmds, next, err := s.handler.Apply(state, s.Record)
		if err != nil {
			return nil, &domain.TranslationError{Index: s.Index, Action: s.Action.Name, Err: err}
		}
		state = next

		t.logger.Debug("action translated",
			"index", s.Index,
			"action", s.Action.Name,
			"args", s.Action.Args,
			"commands", cmds,
		)
		if t.hooks.OnActionTranslated != nil {
			t.hooks.OnActionTranslated(ctx, &domain.ActionEvent{
				EventBase: domain.NewEventBase(domain.EventActionTranslated),
				Index:     s.Index,
				Action:    s.Action.Name,
				Args:      s.Action.Args,
				Commands:  cmds,
			})
		}

		start := len(res.Commands)
		res.Commands = append(res.Commands, cmds...)
		res.Spans = append(res.Spans, [2]int{start, len(res.Commands)})
	}
	if res.Commands == nil {
		res.Commands = []domain.Command{}
	}
	res.State = state
	return res, nil
}

// Translate parses the plan and folds it into commands. A nil plan means no
// plan was found: Translate returns nil without error and emits nothing. On
// error no commands are returned.
func (t *Translator) Translate(ctx context.Context, plan *domain.Plan) (res *Result, err error) {
	if plan == nil {
		return nil, nil
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "translator.Translate", trace.WithAttributes(
		attribute.Int("plan.actions", plan.Len()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("plan.commands", len(res.Commands)))
		}
		span.End()
	}()

	steps, err := t.Parse(plan)
	if err == nil {
		res, err = t.Fold(ctx, steps)
	}

	if err != nil {
		t.logger.Error("translation failed", "error", err)
	}
	if t.hooks.OnTranslationComplete != nil {
		ev := &domain.TranslationEvent{
			EventBase: domain.NewEventBase(domain.EventTranslationComplete),
			Actions:   plan.Len(),
			Err:       err,
		}
		if res != nil {
			ev.Commands = len(res.Commands)
		}
		t.hooks.OnTranslationComplete(ctx, ev)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
