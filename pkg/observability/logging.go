package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/taskstream/pkg/domain"
)

// LoggingHooks logs lifecycle events. Per-action events are logged at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProblemAssembled: func(ctx context.Context, e *domain.ProblemEvent) {
			logger.InfoContext(ctx, "problem_assembled",
				"scenario", e.Scenario,
				"entities", e.Entities,
				"facts", e.Facts,
				"stream_mode", e.StreamMode,
			)
		},
		OnEntityUntyped: func(ctx context.Context, e *domain.EntityEvent) {
			logger.WarnContext(ctx, "entity_untyped", "scenario", e.Scenario, "entity", e.Entity)
		},
		OnActionTranslated: func(ctx context.Context, e *domain.ActionEvent) {
			logger.DebugContext(ctx, "action_translated",
				"index", e.Index,
				"action", e.Action,
				"commands", len(e.Commands),
			)
		},
		OnTranslationComplete: func(ctx context.Context, e *domain.TranslationEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "translation_complete", "actions", e.Actions, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "translation_complete", "actions", e.Actions, "commands", e.Commands)
		},
	}
}
