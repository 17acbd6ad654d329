package dto

import (
	"github.com/aretw0/taskstream/pkg/domain"
)

// Message types of the solver protocol. The host writes "problem" once and
// then answers every "evaluate" with a "result"; the solver ends the session
// with "solution" and may interleave "log" messages.
const (
	MessageProblem  = "problem"
	MessageEvaluate = "evaluate"
	MessageResult   = "result"
	MessageSolution = "solution"
	MessageLog      = "log"
)

// Message is one JSON line of the protocol. Only the fields of its Type are set.
type Message struct {
	Type string `json:"type"`
	ID   int    `json:"id,omitempty"`

	// problem
	Problem map[string]any        `json:"problem,omitempty"`
	Options *domain.SolverOptions `json:"options,omitempty"`

	// evaluate
	Stream  string      `json:"stream,omitempty"`
	Inputs  domain.Args `json:"inputs,omitempty"`
	Outputs []string    `json:"outputs,omitempty"`
	Max     int         `json:"max,omitempty"`

	// result
	Truth     *bool         `json:"truth,omitempty"`
	Tuples    []domain.Args `json:"tuples,omitempty"`
	Exhausted bool          `json:"exhausted,omitempty"`
	Error     string        `json:"error,omitempty"`

	// solution
	Solution *SolutionDocument `json:"solution,omitempty"`

	// log
	Level string `json:"level,omitempty"`
	Text  string `json:"msg,omitempty"`
}
