package loam

// InstanceMetadata is the frontmatter of a scenario instance document:
//
//	---
//	scenario: kitchen
//	strict: true
//	entities:
//	  - name: cup
//	    pose: [7.5, 0, 0]
//	  - name: v1
//	    keywords: [rover]
//	    pose: {type: conf, body: v1, id: "0", positions: [0, -1.5, 0]}
//	options:
//	  planner: ff-eager
//	---
//	Free text notes.
type InstanceMetadata struct {
	ID       string           `json:"id" mapstructure:"id"`
	Scenario string           `json:"scenario" mapstructure:"scenario"`
	Strict   bool             `json:"strict" mapstructure:"strict"`
	Debug    bool             `json:"debug" mapstructure:"debug"`
	Entities []EntityMetadata `json:"entities" mapstructure:"entities"`
	Options  map[string]any   `json:"options" mapstructure:"options"`
}

// EntityMetadata is one entity of an instance. Pose is kept loosely typed and
// decoded with the value codec.
type EntityMetadata struct {
	Name       string         `json:"name" mapstructure:"name"`
	Keywords   []string       `json:"keywords" mapstructure:"keywords"`
	Pose       any            `json:"pose" mapstructure:"pose"`
	Attributes map[string]any `json:"attributes" mapstructure:"attributes"`
}
