package translator

import (
	"log/slog"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Option configures the Translator.
type Option func(*Translator)

// WithLogger sets the logger receiving the per-action diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Translator) {
		t.hooks = hooks
	}
}

// WithHandlers registers handlers at construction.
func WithHandlers(handlers ...Handler) Option {
	return func(t *Translator) {
		for _, h := range handlers {
			t.handlers[h.Name()] = h
		}
	}
}
