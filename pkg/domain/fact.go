package domain

import (
	"fmt"
	"strings"
)

// Fact is a ground (or, inside goals, possibly quantified) predicate instance.
// Facts carry no identity beyond structural equality.
type Fact struct {
	Predicate string `json:"predicate"`
	Args      Args   `json:"args"`
}

// NewFact builds a fact. Plain strings are promoted to Symbol, or to Variable
// when they start with '?'.
func NewFact(predicate string, args ...any) Fact {
	values := make(Args, 0, len(args))
	for _, a := range args {
		values = append(values, ToValue(a))
	}
	return Fact{Predicate: predicate, Args: values}
}

// ToValue promotes Go literals to Values.
func ToValue(a any) Value {
	switch v := a.(type) {
	case Value:
		return v
	case string:
		if strings.HasPrefix(v, "?") {
			return Variable(v)
		}
		return Symbol(v)
	default:
		return Handle{Type: "literal", ID: fmt.Sprint(v)}
	}
}

// Key returns the canonical form of the fact.
func (f Fact) Key() string {
	var sb strings.Builder
	sb.WriteString(f.Predicate)
	sb.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Key())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Equal reports structural equality.
func (f Fact) Equal(other Fact) bool {
	return f.Key() == other.Key()
}

func (f Fact) String() string {
	if len(f.Args) == 0 {
		return "(" + f.Predicate + ")"
	}
	return "(" + f.Predicate + " " + joinValues(f.Args) + ")"
}

// Variables returns the quantified variables used by the fact, in argument order.
func (f Fact) Variables() []Variable {
	var vars []Variable
	for _, a := range f.Args {
		if v, ok := a.(Variable); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

// FactSet is an ordered collection of facts. Order is irrelevant to planning
// and duplicates are redundant, not erroneous.
type FactSet []Fact

// Contains reports whether an equal fact is in the set.
func (s FactSet) Contains(f Fact) bool {
	key := f.Key()
	for _, existing := range s {
		if existing.Key() == key {
			return true
		}
	}
	return false
}

// Distinct returns the set without duplicates, keeping first occurrences.
func (s FactSet) Distinct() FactSet {
	seen := make(map[string]struct{}, len(s))
	out := make(FactSet, 0, len(s))
	for _, f := range s {
		k := f.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, f)
	}
	return out
}

// WithPredicate returns the facts whose predicate is name.
func (s FactSet) WithPredicate(name string) FactSet {
	var out FactSet
	for _, f := range s {
		if f.Predicate == name {
			out = append(out, f)
		}
	}
	return out
}
