package domain

import (
	"fmt"
	"strings"
)

// Formula is a goal formula: a tree over AND and EXISTS with facts as leaves.
type Formula interface {
	String() string
	formula()
}

// Atom is a leaf formula.
type Atom struct {
	Fact Fact
}

// And is a conjunction.
type And struct {
	Children []Formula
}

// Exists introduces quantified variables that may only be used inside Body.
type Exists struct {
	Vars []Variable
	Body Formula
}

func (Atom) formula()   {}
func (And) formula()    {}
func (Exists) formula() {}

func (a Atom) String() string { return a.Fact.String() }

func (a And) String() string {
	parts := make([]string, len(a.Children))
	for i, c := range a.Children {
		parts[i] = c.String()
	}
	return "(and " + strings.Join(parts, " ") + ")"
}

func (e Exists) String() string {
	vars := make([]string, len(e.Vars))
	for i, v := range e.Vars {
		vars[i] = string(v)
	}
	return "(exists (" + strings.Join(vars, " ") + ") " + e.Body.String() + ")"
}

// Conj builds a conjunction of facts and formulas.
func Conj(items ...any) And {
	children := make([]Formula, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case Fact:
			children = append(children, Atom{Fact: v})
		case Formula:
			children = append(children, v)
		default:
			panic(fmt.Sprintf("domain: cannot use %T in a conjunction", it))
		}
	}
	return And{Children: children}
}

// Exist builds an existential formula over the given variable names.
func Exist(vars []string, body Formula) Exists {
	vs := make([]Variable, len(vars))
	for i, v := range vars {
		vs[i] = Variable(v)
	}
	return Exists{Vars: vs, Body: body}
}

// Conjuncts returns the top-level conjuncts of f, flattening nested conjunctions.
func Conjuncts(f Formula) []Formula {
	and, ok := f.(And)
	if !ok {
		return []Formula{f}
	}
	var out []Formula
	for _, c := range and.Children {
		out = append(out, Conjuncts(c)...)
	}
	return out
}

// Facts returns every leaf fact of f in depth-first order.
func Facts(f Formula) FactSet {
	var out FactSet
	walk(f, func(a Atom) { out = append(out, a.Fact) })
	return out
}

func walk(f Formula, visit func(Atom)) {
	switch v := f.(type) {
	case Atom:
		visit(v)
	case And:
		for _, c := range v.Children {
			walk(c, visit)
		}
	case Exists:
		walk(v.Body, visit)
	}
}

// FreeVariables returns the variables used outside the scope of any quantifier binding them.
func FreeVariables(f Formula) []Variable {
	var free []Variable
	seen := make(map[Variable]bool)
	collectFree(f, map[Variable]int{}, func(v Variable) {
		if !seen[v] {
			seen[v] = true
			free = append(free, v)
		}
	})
	return free
}

func collectFree(f Formula, bound map[Variable]int, report func(Variable)) {
	switch v := f.(type) {
	case Atom:
		for _, variable := range v.Fact.Variables() {
			if bound[variable] == 0 {
				report(variable)
			}
		}
	case And:
		for _, c := range v.Children {
			collectFree(c, bound, report)
		}
	case Exists:
		for _, variable := range v.Vars {
			bound[variable]++
		}
		collectFree(v.Body, bound, report)
		for _, variable := range v.Vars {
			bound[variable]--
		}
	}
}

// ValidateGoal checks that a goal formula is well formed: no nil subtrees and
// every variable is bound by an enclosing EXISTS.
func ValidateGoal(f Formula) error {
	if f == nil {
		return fmt.Errorf("%w: empty goal", ErrInvalidGoal)
	}
	if err := checkTree(f); err != nil {
		return err
	}
	if free := FreeVariables(f); len(free) > 0 {
		return fmt.Errorf("%w: unbound variables %v", ErrInvalidGoal, free)
	}
	return nil
}

func checkTree(f Formula) error {
	switch v := f.(type) {
	case nil:
		return fmt.Errorf("%w: nil subformula", ErrInvalidGoal)
	case Atom:
		if v.Fact.Predicate == "" {
			return fmt.Errorf("%w: fact without predicate", ErrInvalidGoal)
		}
	case And:
		for _, c := range v.Children {
			if err := checkTree(c); err != nil {
				return err
			}
		}
	case Exists:
		if len(v.Vars) == 0 {
			return fmt.Errorf("%w: exists without variables", ErrInvalidGoal)
		}
		return checkTree(v.Body)
	}
	return nil
}
