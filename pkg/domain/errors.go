package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned when a scenario cannot be configured, e.g. a
// description document is missing or unreadable. It is fatal and never retried.
var ErrConfiguration = errors.New("configuration error")

// ErrUndeclaredStream is returned when the stream map and the stream description disagree.
var ErrUndeclaredStream = errors.New("undeclared stream")

// ErrUntypedEntity is returned by strict assembly when an entity matches no classification rule.
var ErrUntypedEntity = errors.New("untyped entity")

// ErrInvalidGoal is returned for malformed goal formulas.
var ErrInvalidGoal = errors.New("invalid goal formula")

// ErrUnhandledAction is returned when a plan contains an action with no registered handler.
var ErrUnhandledAction = errors.New("unhandled action")

// ErrArgumentShape is returned when an action's arguments do not match its handler's signature.
var ErrArgumentShape = errors.New("argument shape mismatch")

// ErrNotHolding is returned when releasing an attachment that was never recorded.
var ErrNotHolding = errors.New("agent is not holding anything")

// ErrInvalidSolution is returned for solver responses outside the defined states.
var ErrInvalidSolution = errors.New("invalid solution")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrUnknownStream is returned when evaluating a stream that is not in the map.
var ErrUnknownStream = errors.New("unknown stream")

// ErrStreamFailed wraps callback failures reported back to the solver.
var ErrStreamFailed = errors.New("stream evaluation failed")

// TranslationError locates a fatal translation failure inside a plan.
type TranslationError struct {
	Index  int
	Action string
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("action %d (%s): %v", e.Index, e.Action, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// ErrInstanceNotFound is returned when a scenario instance document does not exist.
var ErrInstanceNotFound = errors.New("scenario instance not found")

// ErrUnknownScenario is returned when no scenario is registered under a name.
var ErrUnknownScenario = errors.New("unknown scenario")

// ErrSolverFailed is returned when an external solver exits without answering.
var ErrSolverFailed = errors.New("solver failed")
