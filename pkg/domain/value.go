package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a single argument of a Fact or Action.
// Two values are structurally equal when their keys are equal.
type Value interface {
	// Key returns a canonical representation used for structural equality.
	Key() string
	String() string
}

// Value type names used by the wire codec.
const (
	TypeSymbol     = "symbol"
	TypeVariable   = "variable"
	TypePose       = "pose"
	TypeConf       = "conf"
	TypeTrajectory = "trajectory"
	TypeRay        = "ray"
	TypeHandle     = "handle"
)

// Symbol is a symbolic object name (e.g. "cup", "rover1").
type Symbol string

func (s Symbol) Key() string    { return "sym:" + string(s) }
func (s Symbol) String() string { return string(s) }

// Variable is a quantified variable inside a goal formula. By convention it starts with '?'.
type Variable string

func (v Variable) Key() string    { return "var:" + string(v) }
func (v Variable) String() string { return string(v) }

// Pose is a planar pose or position 3-tuple.
type Pose struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	Z float64 `json:"z" mapstructure:"z"`
}

// P is shorthand for a Pose literal.
func P(x, y, z float64) Pose {
	return Pose{X: x, Y: y, Z: z}
}

func (p Pose) Key() string { return "pose:" + p.String() }

func (p Pose) String() string {
	return "(" + formatFloat(p.X) + ", " + formatFloat(p.Y) + ", " + formatFloat(p.Z) + ")"
}

// Conf is a configuration handle for a body (e.g. the base joints of a rover).
type Conf struct {
	Body      string    `json:"body" mapstructure:"body"`
	ID        string    `json:"id" mapstructure:"id"`
	Positions []float64 `json:"positions,omitempty" mapstructure:"positions"`
}

func (c Conf) Key() string    { return "conf:" + c.Body + "/" + c.ID }
func (c Conf) String() string { return fmt.Sprintf("q%s[%s]", c.ID, c.Body) }

// Trajectory is a pre-sampled motion for a body.
// It is also a Command: executing a plan step that carries it means following it.
type Trajectory struct {
	ID   string `json:"id" mapstructure:"id"`
	Body string `json:"body" mapstructure:"body"`
	Path []Conf `json:"path,omitempty" mapstructure:"path"`
}

func (t Trajectory) Key() string    { return "traj:" + t.Body + "/" + t.ID }
func (t Trajectory) String() string { return fmt.Sprintf("t%s[%s,%d]", t.ID, t.Body, len(t.Path)) }

// Ray is a visibility or communication ray from a body to a target.
// Transmission actions forward it unchanged, so it is also a Command.
type Ray struct {
	ID     string `json:"id" mapstructure:"id"`
	Body   string `json:"body" mapstructure:"body"`
	Target string `json:"target" mapstructure:"target"`
	Start  Pose   `json:"start" mapstructure:"start"`
	End    Pose   `json:"end" mapstructure:"end"`
}

func (r Ray) Key() string    { return "ray:" + r.Body + "/" + r.ID }
func (r Ray) String() string { return fmt.Sprintf("y%s[%s->%s]", r.ID, r.Body, r.Target) }

// Handle is an opaque typed value the core does not interpret, such as a
// placeholder synthesized in debug stream mode.
type Handle struct {
	Type string `json:"kind" mapstructure:"kind"`
	ID   string `json:"id" mapstructure:"id"`
}

func (h Handle) Key() string    { return "handle:" + h.Type + "/" + h.ID }
func (h Handle) String() string { return "#" + h.Type + h.ID }

// IsVariable reports whether v is a quantified variable.
func IsVariable(v Value) bool {
	_, ok := v.(Variable)
	return ok
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func joinValues(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
