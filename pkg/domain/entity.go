package domain

import "strings"

// Entity is the structured descriptor a scenario classifies into type facts.
type Entity struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	// Keywords are explicit capability tags. When empty, the name is split on
	// '_' and '-' to derive them.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty" mapstructure:"keywords"`
	// Pose is the initial pose or other placement value of the entity.
	Pose       Value          `json:"-" yaml:"-" mapstructure:"-"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty" mapstructure:"attributes"`
}

// NewEntity builds an entity at the given pose.
func NewEntity(name string, pose Value) Entity {
	return Entity{Name: name, Pose: pose}
}

// Tags returns the keywords used for classification, lower-cased.
func (e Entity) Tags() []string {
	src := e.Keywords
	if len(src) == 0 {
		src = strings.FieldsFunc(e.Name, func(r rune) bool {
			return r == '_' || r == '-' || r == ' '
		})
	}
	tags := make([]string, 0, len(src))
	for _, k := range src {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			tags = append(tags, k)
		}
	}
	return tags
}

// HasTag reports whether the entity carries the keyword tag.
func (e Entity) HasTag(tag string) bool {
	tag = strings.ToLower(tag)
	for _, t := range e.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Attribute returns a named attribute.
func (e Entity) Attribute(key string) (any, bool) {
	v, ok := e.Attributes[key]
	return v, ok
}

// Instance is a stored scenario input: which scenario to assemble, with
// which entities and solver options.
type Instance struct {
	Name     string        `json:"name"`
	Scenario string        `json:"scenario"`
	Entities []Entity      `json:"entities"`
	Strict   bool          `json:"strict,omitempty"`
	Debug    bool          `json:"debug,omitempty"`
	Options  SolverOptions `json:"options"`
	Notes    string        `json:"notes,omitempty"`
}
