package domain

import (
	"fmt"
	"sort"
)

// TranslationState tracks which object each agent currently holds while a
// plan is being translated. It is an immutable value: Attach and Detach
// return a new state and leave the receiver untouched.
type TranslationState struct {
	attachments map[string]string
}

// Holding returns the object currently attached to agent.
func (s TranslationState) Holding(agent string) (string, bool) {
	obj, ok := s.attachments[agent]
	return obj, ok
}

// Attach records that agent now holds obj. Attaching over an existing
// attachment replaces it.
func (s TranslationState) Attach(agent, obj string) TranslationState {
	next := s.clone()
	next.attachments[agent] = obj
	return next
}

// Detach clears the attachment of agent and returns the object it held.
func (s TranslationState) Detach(agent string) (string, TranslationState, error) {
	obj, ok := s.attachments[agent]
	if !ok {
		return "", s, fmt.Errorf("%w: %s", ErrNotHolding, agent)
	}
	next := s.clone()
	delete(next.attachments, agent)
	return obj, next, nil
}

// Empty reports whether no agent holds anything.
func (s TranslationState) Empty() bool {
	return len(s.attachments) == 0
}

// Attachments returns a copy of the agent to object mapping.
func (s TranslationState) Attachments() map[string]string {
	out := make(map[string]string, len(s.attachments))
	for k, v := range s.attachments {
		out[k] = v
	}
	return out
}

// Agents returns the agents holding an object, sorted.
func (s TranslationState) Agents() []string {
	agents := make([]string, 0, len(s.attachments))
	for a := range s.attachments {
		agents = append(agents, a)
	}
	sort.Strings(agents)
	return agents
}

func (s TranslationState) clone() TranslationState {
	next := TranslationState{attachments: make(map[string]string, len(s.attachments)+1)}
	for k, v := range s.attachments {
		next.attachments[k] = v
	}
	return next
}
