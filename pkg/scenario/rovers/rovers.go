// Package rovers is the planetary rovers scenario: rovers drive between
// sampled configurations to photograph objectives, sample rocks and soil,
// and send images and analyses to a lander.
//
// The scenario binds real streams through a Samplers implementation and
// translates plans into executable commands.
package rovers

import (
	"embed"
	"fmt"

	"github.com/aretw0/taskstream/pkg/assembler"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/dsl"
	"github.com/aretw0/taskstream/pkg/scenario"
)

// Descriptions holds domain.pddl and stream.pddl.
//
//go:embed domain.pddl stream.pddl
var Descriptions embed.FS

const Name = "rovers"

// Entity kinds.
const (
	KindRover     = "rover"
	KindLander    = "lander"
	KindStore     = "store"
	KindObjective = "objective"
	KindRock      = "rock"
)

// Rock types.
const (
	TypeStone = "stone"
	TypeSoil  = "soil"
)

// The single camera every rover carries, and the mode it images in.
const (
	Camera = "RGBD"
	Mode   = "color"
)

// Rules classifies rovers bodies.
func Rules() []assembler.Rule {
	return []assembler.Rule{
		{
			Name:  KindRover,
			Match: assembler.Keyword(KindRover),
			Facts: func(e domain.Entity) domain.FactSet {
				return domain.FactSet{
					domain.NewFact("Rover", e.Name),
					domain.NewFact("OnBoard", Camera, e.Name),
				}
			},
		},
		assembler.Tag(KindLander, assembler.Keyword(KindLander), "Lander"),
		assembler.Tag(KindStore, assembler.Keyword(KindStore), "Store"),
		assembler.Tag(KindObjective, assembler.Keyword(KindObjective), "Objective"),
		assembler.Tag(KindRock, assembler.Keyword(KindRock), "Rock"),
		{
			Name:  "type",
			Match: assembler.HasAttribute("type"),
			Facts: func(e domain.Entity) domain.FactSet {
				ty, _ := e.Attribute("type")
				return domain.FactSet{domain.NewFact("Type", e.Name, fmt.Sprint(ty))}
			},
		},
	}
}

// Placements puts rovers at their initial configuration. Other bodies are
// fixed and carry no pose facts.
func Placements() []assembler.Placement {
	return []assembler.Placement{
		{
			Name:  "base",
			Match: assembler.Keyword(KindRover),
			Place: func(e domain.Entity) (domain.FactSet, error) {
				q, ok := e.Pose.(domain.Conf)
				if !ok {
					return nil, fmt.Errorf("%w: rover %s needs an initial configuration, got %T", domain.ErrConfiguration, e.Name, e.Pose)
				}
				return domain.FactSet{
					domain.NewFact("Conf", e.Name, q),
					domain.NewFact("AtConf", e.Name, q),
				}, nil
			},
		},
		assembler.Unplaced("fixed", assembler.Always()),
	}
}

// Facts returns the camera facts and makes every store free for every rover.
func Facts(entities []domain.Entity) domain.FactSet {
	facts := domain.FactSet{
		domain.NewFact("Camera", Camera),
		domain.NewFact("Supports", Camera, Mode),
		domain.NewFact("Mode", Mode),
	}
	for _, s := range ofKind(entities, KindStore) {
		for _, v := range ofKind(entities, KindRover) {
			facts = append(facts, domain.NewFact("Free", v.Name, s.Name))
		}
	}
	return facts
}

// Goal asks for one analysed stone, one analysed soil and an image of every
// objective, with every rover back at its start and every store emptied.
func Goal(entities []domain.Entity) domain.Formula {
	g := dsl.Goal().
		Exists("?rock").Fact("Type", "?rock", TypeStone).Fact("ReceivedAnalysis", "?rock").End().
		Exists("?soil").Fact("Type", "?soil", TypeSoil).Fact("ReceivedAnalysis", "?soil").End()

	rovers := ofKind(entities, KindRover)
	for _, v := range rovers {
		if q, ok := v.Pose.(domain.Conf); ok {
			g.Fact("AtConf", v.Name, q)
		}
	}
	for _, s := range ofKind(entities, KindStore) {
		for _, v := range rovers {
			g.Fact("Free", v.Name, s.Name)
		}
	}
	for _, o := range ofKind(entities, KindObjective) {
		g.Fact("ReceivedImage", o.Name, Mode)
	}
	return g.Formula()
}

func ofKind(entities []domain.Entity, kind string) []domain.Entity {
	var out []domain.Entity
	for _, e := range entities {
		if e.HasTag(kind) {
			out = append(out, e)
		}
	}
	return out
}

// Defaults are the solver options the scenario is tuned for. An optimal run
// keeps searching until it finds a zero cost plan or runs out of time.
func Defaults(optimal bool) domain.SolverOptions {
	success := domain.Infinity()
	if optimal {
		success = 0
	}
	return domain.SolverOptions{
		Algorithm:         "focused",
		Planner:           "ff-wastar3",
		MaxPlannerTime:    domain.Float(10),
		SearchSampleRatio: domain.Float(2),
		MaxTime:           domain.Float(120),
		SuccessCost:       domain.CostOf(success),
		UnitEfforts:       domain.Bool(true),
		EffortWeight:      domain.Float(1),
		Verbose:           domain.Bool(true),
	}
}

// New returns the rovers scenario over w. Streams are bound to s; a nil s
// leaves the scenario in debug stream mode.
func New(w World, s Samplers) (*assembler.Scenario, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	sc := &assembler.Scenario{
		Name:       Name,
		DomainPath: "domain.pddl",
		StreamPath: "stream.pddl",
		Rules:      Rules(),
		Placements: Placements(),
		Facts:      Facts,
		Goal:       Goal,
		Constants:  map[string]domain.Value{},
		StreamMode: domain.StreamModeDebug,
		Defaults:   Defaults(false),
		Entities:   w.Entities(),
	}
	if s != nil {
		streams, err := Streams(s)
		if err != nil {
			return nil, err
		}
		sc.Streams = streams
		sc.StreamMode = domain.StreamModeReal
	}
	return sc, nil
}

// Bundle returns the rovers1 world with grid samplers and the rovers translator.
func Bundle() *scenario.Bundle {
	w := Rovers1()
	sc, err := New(w, NewGridSamplers(w))
	if err != nil {
		panic(fmt.Sprintf("rovers: built-in world is invalid: %v", err))
	}
	return &scenario.Bundle{
		Scenario:     sc,
		Handlers:     Handlers(),
		Descriptions: Descriptions,
	}
}
