package domain

import "time"

// Run is a persisted solver outcome for a scenario, kept so the plan can be
// translated later or by another process.
type Run struct {
	ID        string            `json:"id"`
	Scenario  string            `json:"scenario"`
	Options   SolverOptions     `json:"options"`
	Solution  Solution          `json:"solution"`
	Labels    map[string]string `json:"labels,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
