package translator

import (
	"fmt"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/schema"
)

// Handler translates one kind of action. Parse turns the positional
// arguments into the handler's typed step record; Apply folds a parsed step
// into commands and the next translation state.
type Handler interface {
	Name() string
	Signature() schema.Signature
	Parse(args domain.Args) (any, error)
	Apply(state domain.TranslationState, step any) ([]domain.Command, domain.TranslationState, error)
}

// ParseFunc builds a typed step from arguments already checked against the signature.
type ParseFunc[S any] func(args domain.Args) (S, error)

// ApplyFunc folds a typed step into commands and the next state.
type ApplyFunc[S any] func(state domain.TranslationState, step S) ([]domain.Command, domain.TranslationState, error)

type typedHandler[S any] struct {
	name  string
	sig   schema.Signature
	parse ParseFunc[S]
	apply ApplyFunc[S]
}

// Action binds an action name to a typed step record S.
func Action[S any](name string, sig schema.Signature, parse ParseFunc[S], apply ApplyFunc[S]) Handler {
	return &typedHandler[S]{name: name, sig: sig, parse: parse, apply: apply}
}

func (h *typedHandler[S]) Name() string                { return h.name }
func (h *typedHandler[S]) Signature() schema.Signature { return h.sig }

func (h *typedHandler[S]) Parse(args domain.Args) (any, error) {
	if err := schema.Validate(h.sig, args); err != nil {
		return nil, err
	}
	return h.parse(args)
}

func (h *typedHandler[S]) Apply(state domain.TranslationState, step any) ([]domain.Command, domain.TranslationState, error) {
	s, ok := step.(S)
	if !ok {
		return nil, state, fmt.Errorf("%w: handler %s got step %T", domain.ErrArgumentShape, h.name, step)
	}
	return h.apply(state, s)
}

// PassThrough returns a handler forwarding the argument at position as the
// action's only command.
func PassThrough(name string, sig schema.Signature, position int) Handler {
	return Action(name, sig,
		func(args domain.Args) (domain.Command, error) {
			return AsCommand(args[position])
		},
		func(state domain.TranslationState, cmd domain.Command) ([]domain.Command, domain.TranslationState, error) {
			return []domain.Command{cmd}, state, nil
		},
	)
}

// AsCommand checks that a value can be executed directly.
func AsCommand(v domain.Value) (domain.Command, error) {
	cmd, ok := v.(domain.Command)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not executable", domain.ErrArgumentShape, v)
	}
	return cmd, nil
}

// SymbolAt returns the symbolic name at position i of args.
func SymbolAt(args domain.Args, i int) string {
	if s, ok := args[i].(domain.Symbol); ok {
		return string(s)
	}
	return args[i].String()
}
