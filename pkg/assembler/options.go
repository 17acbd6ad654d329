package assembler

import (
	"log/slog"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Option configures the Assembler.
type Option func(*Assembler)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assembler) {
		a.hooks = hooks
	}
}

// WithStrict rejects entities that match no classification rule with
// domain.ErrUntypedEntity instead of accepting them untyped.
func WithStrict(strict bool) Option {
	return func(a *Assembler) {
		a.strict = strict
	}
}

// WithStreamMode overrides the scenario's stream map variant.
func WithStreamMode(mode domain.StreamMode) Option {
	return func(a *Assembler) {
		a.mode = mode
	}
}
