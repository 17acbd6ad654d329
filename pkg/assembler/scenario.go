package assembler

import (
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/registry"
)

// Scenario is the fixed, domain-designer-owned part of a problem: which
// descriptions to read, how entities are classified and placed, which facts
// always hold and what the goal is.
type Scenario struct {
	Name string

	// DomainPath and StreamPath locate the descriptions, relative to the
	// DescriptionSource of the assembler.
	DomainPath string
	StreamPath string

	Rules []Rule
	// Placements override the default table placement. The first match wins.
	Placements []Placement

	// Facts returns the scenario-fixed facts. It may depend on the entity set.
	Facts func(entities []domain.Entity) domain.FactSet
	// Goal builds the goal template for the entity set.
	Goal func(entities []domain.Entity) domain.Formula

	Constants map[string]domain.Value

	// Streams holds the real callbacks. Nil means no callbacks.
	Streams *registry.Registry
	// StreamMode is the variant used when the caller does not choose one.
	StreamMode domain.StreamMode

	// Defaults are the solver options the scenario was tuned with.
	Defaults domain.SolverOptions
	// Entities is the default entity set.
	Entities []domain.Entity
}

func (s *Scenario) streamMap(mode domain.StreamMode) domain.StreamMap {
	if mode == "" {
		mode = s.StreamMode
	}
	if mode == domain.StreamModeDebug {
		return domain.DebugStreams()
	}
	if s.Streams == nil {
		return domain.RealStreams()
	}
	return s.Streams.StreamMap(domain.StreamModeReal)
}
