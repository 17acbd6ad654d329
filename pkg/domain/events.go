package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventProblemAssembled    EventType = "problem_assembled"
	EventEntityUntyped       EventType = "entity_untyped"
	EventActionTranslated    EventType = "action_translated"
	EventTranslationComplete EventType = "translation_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event of type t with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// ProblemEvent is emitted after a problem has been assembled.
type ProblemEvent struct {
	EventBase
	Scenario   string     `json:"scenario"`
	Entities   int        `json:"entities"`
	Facts      int        `json:"facts"`
	StreamMode StreamMode `json:"stream_mode"`
}

// EntityEvent is emitted for an entity that matched no classification rule.
type EntityEvent struct {
	EventBase
	Scenario string `json:"scenario"`
	Entity   string `json:"entity"`
}

// ActionEvent is the per-action translation diagnostic.
type ActionEvent struct {
	EventBase
	Index    int       `json:"index"`
	Action   string    `json:"action"`
	Args     Args      `json:"args"`
	Commands []Command `json:"-"`
}

// TranslationEvent is emitted when a translation finishes. Err is nil on success.
type TranslationEvent struct {
	EventBase
	Actions  int   `json:"actions"`
	Commands int   `json:"commands"`
	Err      error `json:"-"`
}

// LifecycleHooks defines callbacks for pipeline observability.
type LifecycleHooks struct {
	OnProblemAssembled    func(context.Context, *ProblemEvent)
	OnEntityUntyped       func(context.Context, *EntityEvent)
	OnActionTranslated    func(context.Context, *ActionEvent)
	OnTranslationComplete func(context.Context, *TranslationEvent)
}

// ChainHooks fans every event out to each of the given hook sets, in order.
func ChainHooks(all ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnProblemAssembled: func(ctx context.Context, e *ProblemEvent) {
			for _, h := range all {
				if h.OnProblemAssembled != nil {
					h.OnProblemAssembled(ctx, e)
				}
			}
		},
		OnEntityUntyped: func(ctx context.Context, e *EntityEvent) {
			for _, h := range all {
				if h.OnEntityUntyped != nil {
					h.OnEntityUntyped(ctx, e)
				}
			}
		},
		OnActionTranslated: func(ctx context.Context, e *ActionEvent) {
			for _, h := range all {
				if h.OnActionTranslated != nil {
					h.OnActionTranslated(ctx, e)
				}
			}
		},
		OnTranslationComplete: func(ctx context.Context, e *TranslationEvent) {
			for _, h := range all {
				if h.OnTranslationComplete != nil {
					h.OnTranslationComplete(ctx, e)
				}
			}
		},
	}
}
