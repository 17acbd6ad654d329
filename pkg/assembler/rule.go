package assembler

import (
	"fmt"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Matcher decides whether a rule applies to an entity.
type Matcher func(e domain.Entity) bool

// Keyword matches entities carrying any of the given keyword tags.
func Keyword(keywords ...string) Matcher {
	return func(e domain.Entity) bool {
		for _, k := range keywords {
			if e.HasTag(k) {
				return true
			}
		}
		return false
	}
}

// HasAttribute matches entities that define the attribute.
func HasAttribute(key string) Matcher {
	return func(e domain.Entity) bool {
		_, ok := e.Attribute(key)
		return ok
	}
}

// AttributeEquals matches entities whose attribute renders to want.
func AttributeEquals(key, want string) Matcher {
	return func(e domain.Entity) bool {
		v, ok := e.Attribute(key)
		return ok && fmt.Sprint(v) == want
	}
}

// Always matches every entity.
func Always() Matcher {
	return func(domain.Entity) bool { return true }
}

// Rule derives classification facts for the entities it matches. Rules are
// evaluated in order and every matching rule contributes: an entity may carry
// several types at once.
type Rule struct {
	Name  string
	Match Matcher
	Facts func(e domain.Entity) domain.FactSet
}

// Tag returns a rule adding Predicate(entity) for each predicate.
func Tag(name string, match Matcher, predicates ...string) Rule {
	return Rule{
		Name:  name,
		Match: match,
		Facts: func(e domain.Entity) domain.FactSet {
			out := make(domain.FactSet, len(predicates))
			for i, p := range predicates {
				out[i] = domain.NewFact(p, domain.Symbol(e.Name))
			}
			return out
		},
	}
}

// Classify applies rules in order and returns the facts of every matching
// rule along with the names of the rules that matched.
func Classify(rules []Rule, e domain.Entity) (domain.FactSet, []string) {
	var facts domain.FactSet
	var matched []string
	for _, r := range rules {
		if r.Match == nil || !r.Match(e) {
			continue
		}
		matched = append(matched, r.Name)
		if r.Facts != nil {
			facts = append(facts, r.Facts(e)...)
		}
	}
	return facts, matched
}

// Placement produces the pose and support facts of an entity. The first
// placement whose matcher accepts the entity wins.
type Placement struct {
	Name  string
	Match Matcher
	Place func(e domain.Entity) (domain.FactSet, error)
}

// TableSupport is the default placement: the entity is at its initial pose,
// which is a valid pose for it and lies on the table.
func TableSupport() Placement {
	return Placement{
		Name:  "table",
		Match: Always(),
		Place: func(e domain.Entity) (domain.FactSet, error) {
			if e.Pose == nil {
				return nil, fmt.Errorf("%w: entity %q has no initial pose", domain.ErrConfiguration, e.Name)
			}
			name := domain.Symbol(e.Name)
			return domain.FactSet{
				domain.NewFact("IsPose", name, e.Pose),
				domain.NewFact("AtPose", name, e.Pose),
				domain.NewFact("TableSupport", e.Pose),
			}, nil
		},
	}
}

// Unplaced matches entities that receive no placement facts at all.
func Unplaced(name string, match Matcher) Placement {
	return Placement{
		Name:  name,
		Match: match,
		Place: func(domain.Entity) (domain.FactSet, error) { return nil, nil },
	}
}

func place(placements []Placement, e domain.Entity) (domain.FactSet, error) {
	for _, p := range placements {
		if p.Match == nil || p.Match(e) {
			return p.Place(e)
		}
	}
	return TableSupport().Place(e)
}
