package domain

import "fmt"

// Command kinds.
const (
	CommandFollow   = "follow"
	CommandTransmit = "transmit"
	CommandAttach   = "attach"
	CommandDetach   = "detach"
	CommandRegister = "register"
	CommandScan     = "scan"
	// CommandPlaceholder is carried by debug placeholders standing in for a
	// pass-through value the solver never sampled.
	CommandPlaceholder = "placeholder"
)

// Command is an opaque unit of physical or simulated execution.
type Command interface {
	CommandKind() string
	String() string
}

// CommandKind makes a Trajectory directly executable.
func (t Trajectory) CommandKind() string { return CommandFollow }

// CommandKind makes a Ray directly executable (transmit along the ray).
func (r Ray) CommandKind() string { return CommandTransmit }

// CommandKind lets a debug placeholder flow through pass-through handlers.
func (h Handle) CommandKind() string { return CommandPlaceholder }

// Attach rigidly attaches Body to Link of Agent.
type Attach struct {
	Agent string `json:"agent"`
	Link  string `json:"link"`
	// Grasp is empty when the attachment has no grasp transform.
	Grasp string `json:"grasp,omitempty"`
	Body  string `json:"body"`
}

func (Attach) CommandKind() string { return CommandAttach }
func (a Attach) String() string {
	return fmt.Sprintf("Attach(%s:%s <- %s)", a.Agent, a.Link, a.Body)
}

// Detach releases Body from Link of Agent.
type Detach struct {
	Agent string `json:"agent"`
	Link  string `json:"link"`
	Body  string `json:"body"`
}

func (Detach) CommandKind() string { return CommandDetach }
func (d Detach) String() string {
	return fmt.Sprintf("Detach(%s:%s -> %s)", d.Agent, d.Link, d.Body)
}

// Register localizes Target with the sensor mounted at CameraFrame on Agent.
type Register struct {
	Agent       string  `json:"agent"`
	Target      string  `json:"target"`
	CameraFrame string  `json:"camera_frame"`
	MaxDepth    float64 `json:"max_depth"`
}

func (Register) CommandKind() string { return CommandRegister }
func (r Register) String() string {
	return fmt.Sprintf("Register(%s -> %s, frame=%s, depth=%s)", r.Agent, r.Target, r.CameraFrame, formatFloat(r.MaxDepth))
}

// Scan captures an image of Target from CameraFrame on Agent.
type Scan struct {
	Agent       string `json:"agent"`
	Target      string `json:"target"`
	Detect      bool   `json:"detect"`
	CameraFrame string `json:"camera_frame"`
}

func (Scan) CommandKind() string { return CommandScan }
func (s Scan) String() string {
	return fmt.Sprintf("Scan(%s -> %s, frame=%s, detect=%t)", s.Agent, s.Target, s.CameraFrame, s.Detect)
}
