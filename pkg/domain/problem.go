package domain

// Description is an externally authored, read-only text document (a PDDL
// domain or stream description). The core never interprets Text beyond
// checking declared names.
type Description struct {
	Path string `json:"path,omitempty"`
	Text string `json:"text"`
}

// Empty reports whether the description has no content.
func (d Description) Empty() bool {
	return d.Text == ""
}

// Problem is the aggregate handed to the external solver.
type Problem struct {
	// Name identifies the scenario that produced the problem.
	Name              string
	Domain            Description
	ConstantMap       map[string]Value
	StreamDescription Description
	Streams           StreamMap
	Init              FactSet
	Goal              Formula
}
