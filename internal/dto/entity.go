package dto

import (
	"fmt"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/translator"
)

// EntityDTO is an entity as sent by clients. Pose uses the value codec:
// [x, y, z] or a typed map.
type EntityDTO struct {
	Name       string         `json:"name" yaml:"name"`
	Keywords   []string       `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Pose       any            `json:"pose,omitempty" yaml:"pose,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// ToEntity decodes the pose.
func (e EntityDTO) ToEntity() (domain.Entity, error) {
	if e.Name == "" {
		return domain.Entity{}, fmt.Errorf("entity without a name")
	}
	out := domain.Entity{Name: e.Name, Keywords: e.Keywords, Attributes: e.Attributes}
	if e.Pose != nil {
		pose, err := domain.DecodeValue(e.Pose)
		if err != nil {
			return domain.Entity{}, fmt.Errorf("%s pose: %w", e.Name, err)
		}
		out.Pose = pose
	}
	return out, nil
}

// ToEntities decodes a list. A nil list stays nil so callers fall back to
// the scenario's default entities.
func ToEntities(in []EntityDTO) ([]domain.Entity, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]domain.Entity, len(in))
	for i, e := range in {
		ent, err := e.ToEntity()
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		out[i] = ent
	}
	return out, nil
}

// FromEntity encodes an entity for clients.
func FromEntity(e domain.Entity) EntityDTO {
	return EntityDTO{Name: e.Name, Keywords: e.Keywords, Pose: domain.EncodeValue(e.Pose), Attributes: e.Attributes}
}

// TranslationDTO is a translated plan: the flat command list, the command
// span of every action and what each agent still holds afterwards.
type TranslationDTO struct {
	Commands []map[string]any  `json:"commands"`
	Spans    [][2]int          `json:"spans"`
	Holding  map[string]string `json:"holding,omitempty"`
}

// FromResult encodes a translation. A nil result stays nil.
func FromResult(res *translator.Result) *TranslationDTO {
	if res == nil {
		return nil
	}
	spans := res.Spans
	if spans == nil {
		spans = [][2]int{}
	}
	return &TranslationDTO{
		Commands: domain.EncodeCommands(res.Commands),
		Spans:    spans,
		Holding:  res.State.Attachments(),
	}
}
