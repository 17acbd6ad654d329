// Package kitchen is the coffee-making scenario: a gripper stacks a cup on a
// coaster block and fills it with coffee, cream and sugar before stirring.
// It runs against debug streams, so plans carry placeholder handles.
package kitchen

import (
	"embed"

	"github.com/aretw0/taskstream/pkg/assembler"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/dsl"
	"github.com/aretw0/taskstream/pkg/scenario"
)

// Descriptions holds domain.pddl and stream.pddl.
//
//go:embed domain.pddl stream.pddl
var Descriptions embed.FS

const (
	Name     = "kitchen"
	Robot    = "gripper"
	Cup      = "cup"
	Coaster  = "block"
	SugarCup = "sugar_cup"
	CreamCup = "cream_cup"
)

// BlockGoal is where the coaster has to end up.
var BlockGoal = domain.P(-25, 0, 0)

// Rules classifies kitchen entities. A spoon is also a stirrer.
func Rules() []assembler.Rule {
	return []assembler.Rule{
		assembler.Tag("gripper", assembler.Keyword("gripper"), "IsGripper"),
		assembler.Tag("cup", assembler.Keyword("cup"), "IsCup"),
		assembler.Tag("spoon", assembler.Keyword("spoon"), "IsSpoon", "IsStirrer"),
		assembler.Tag("stirrer", assembler.Keyword("stirrer"), "IsStirrer"),
		assembler.Tag("block", assembler.Keyword("block"), "IsBlock"),
	}
}

// Facts returns the facts that hold regardless of the entity set.
func Facts([]domain.Entity) domain.FactSet {
	return domain.FactSet{
		domain.NewFact("IsPose", Coaster, BlockGoal),
		domain.NewFact("Empty", Robot),
		domain.NewFact("CanMove", Robot),
		domain.NewFact("HasSugar", SugarCup),
		domain.NewFact("HasCream", CreamCup),
		domain.NewFact("IsPourable", CreamCup),
		domain.NewFact("Stackable", Cup, Coaster),
		domain.NewFact("Clear", Coaster),
	}
}

// Goal is the coffee goal: the coaster moved, the cup on it, filled and mixed,
// and the gripper empty again.
func Goal([]domain.Entity) domain.Formula {
	return dsl.Goal().
		Fact("AtPose", Coaster, BlockGoal).
		Fact("On", Cup, Coaster).
		Fact("HasCoffee", Cup).
		Fact("HasCream", Cup).
		Fact("HasSugar", Cup).
		Fact("Mixed", Cup).
		Fact("Empty", Robot).
		Formula()
}

// Entities returns the default kitchen layout.
func Entities() []domain.Entity {
	return []domain.Entity{
		domain.NewEntity(Robot, domain.P(0, 15, 0)),
		domain.NewEntity(Cup, domain.P(7.5, 0, 0)),
		domain.NewEntity(SugarCup, domain.P(-10, 0, 0)),
		domain.NewEntity(CreamCup, domain.P(15, 0, 0)),
		domain.NewEntity("spoon", domain.P(0.5, 0.5, 0)),
		domain.NewEntity("stirrer", domain.P(20, 0.5, 0)),
		domain.NewEntity(Coaster, domain.P(-20, 0, 0)),
	}
}

// Defaults are the solver options the scenario is tuned for.
func Defaults() domain.SolverOptions {
	return domain.SolverOptions{
		Algorithm:    "focused",
		Planner:      "ff-eager",
		UnitCosts:    domain.Bool(true),
		UnitEfforts:  domain.Bool(true),
		EffortWeight: domain.Float(1),
	}
}

// New returns the kitchen scenario.
func New() *assembler.Scenario {
	return &assembler.Scenario{
		Name:       Name,
		DomainPath: "domain.pddl",
		StreamPath: "stream.pddl",
		Rules:      Rules(),
		Facts:      Facts,
		Goal:       Goal,
		Constants:  map[string]domain.Value{},
		StreamMode: domain.StreamModeDebug,
		Defaults:   Defaults(),
		Entities:   Entities(),
	}
}

// Bundle returns the kitchen scenario with its descriptions. Kitchen plans are
// not translated into commands.
func Bundle() *scenario.Bundle {
	return &scenario.Bundle{
		Scenario:     New(),
		Descriptions: Descriptions,
	}
}
