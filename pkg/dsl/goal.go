package dsl

import "github.com/aretw0/taskstream/pkg/domain"

// GoalBuilder provides a fluent API for a conjunction, optionally scoped by
// an existential quantifier.
type GoalBuilder struct {
	vars     []string
	children []domain.Formula
	parent   *GoalBuilder
}

// Goal starts a top-level conjunction.
func Goal() *GoalBuilder {
	return &GoalBuilder{}
}

// Fact adds a conjunct.
func (g *GoalBuilder) Fact(predicate string, args ...any) *GoalBuilder {
	g.children = append(g.children, domain.Atom{Fact: domain.NewFact(predicate, args...)})
	return g
}

// Facts adds already built facts as conjuncts.
func (g *GoalBuilder) Facts(facts ...domain.Fact) *GoalBuilder {
	for _, f := range facts {
		g.children = append(g.children, domain.Atom{Fact: f})
	}
	return g
}

// Add appends an arbitrary subformula as a conjunct.
func (g *GoalBuilder) Add(f domain.Formula) *GoalBuilder {
	g.children = append(g.children, f)
	return g
}

// Exists opens a quantified scope. Facts added to the returned builder may use
// the variables; End closes the scope and returns the enclosing builder.
func (g *GoalBuilder) Exists(vars ...string) *GoalBuilder {
	return &GoalBuilder{vars: vars, parent: g}
}

// End closes an Exists scope. On the top-level builder it returns itself.
func (g *GoalBuilder) End() *GoalBuilder {
	if g.parent == nil {
		return g
	}
	g.parent.children = append(g.parent.children, g.Formula())
	return g.parent
}

// Formula returns the built formula.
func (g *GoalBuilder) Formula() domain.Formula {
	and := domain.And{Children: append([]domain.Formula(nil), g.children...)}
	if len(g.vars) > 0 {
		return domain.Exist(g.vars, and)
	}
	return and
}
