package axiom

import (
	"errors"

	"github.com/skaslev/polya/term"
)

// Formula is a minimal propositional algebra over Literal atoms, just
// expressive enough to state the axioms this module actually needs:
// outermost-universal clauses of the shape
//
//	ForAll(vars, Implies(And(atoms...), Or(atoms...)))
//
// or a bare disjunction with no antecedent. Anything more general (nested
// quantifiers, arbitrary boolean combinations) is out of scope — the core
// only ever reasons about ground Horn-like clauses once instantiated
// (§4.5, §6).
type Formula interface {
	isFormula()
}

// Atomic wraps a single literal as a Formula leaf.
type Atomic struct{ Lit Literal }

func (Atomic) isFormula() {}

// And is a conjunction, valid only as the antecedent of an Implies.
type And struct{ Args []Formula }

func (And) isFormula() {}

// Or is a disjunction of atoms — the clause body itself.
type Or struct{ Args []Formula }

func (Or) isFormula() {}

// Implies is Ante => Cons; its CNF form is (not Ante) or Cons.
type Implies struct {
	Ante Formula
	Cons Formula
}

func (Implies) isFormula() {}

// ForAll universally quantifies Body over Vars.
type ForAll struct {
	Vars []int
	Body Formula
}

func (ForAll) isFormula() {}

// errNotHorn is returned when a Formula uses a shape CNF cannot reduce to a
// single clause (e.g. a nested And inside an Or, or a quantifier anywhere
// but the outermost position).
var errNotHorn = errors.New("axiom: formula is not an outermost-universal Horn-like clause")

// NewAxiomFromFormula builds an Axiom from a Formula, deriving its trigger
// patterns from every App-rooted subterm the clause's literals mention.
func NewAxiomFromFormula(f Formula) (*Axiom, error) {
	vars := []int{}
	body := f
	if fa, ok := f.(ForAll); ok {
		vars = fa.Vars
		body = fa.Body
	}
	lits, err := clauseLiterals(body)
	if err != nil {
		return nil, err
	}
	triggers := collectTriggers(lits)
	return NewAxiomWithVars(vars, triggers, lits), nil
}

// NewAxiomWithVars is like NewAxiom but takes the literals as a slice rather
// than variadically; like NewAxiom it derives TrigArgVars from triggers and
// vars. Used by NewAxiomFromFormula, where vars come from the outermost
// ForAll.
func NewAxiomWithVars(vars []int, triggers []*term.App, literals []Literal) *Axiom {
	return &Axiom{
		Vars:        vars,
		Triggers:    triggers,
		TrigArgVars: trigArgVarsOf(triggers, vars),
		Literals:    literals,
	}
}

func clauseLiterals(f Formula) ([]Literal, error) {
	switch v := f.(type) {
	case Atomic:
		return []Literal{v.Lit}, nil
	case Or:
		var out []Literal
		for _, arg := range v.Args {
			lits, err := clauseLiterals(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, lits...)
		}
		return out, nil
	case Implies:
		anteArgs := []Formula{v.Ante}
		if and, ok := v.Ante.(And); ok {
			anteArgs = and.Args
		}
		var ante []Literal
		for _, a := range anteArgs {
			lits, err := clauseLiterals(a)
			if err != nil {
				return nil, err
			}
			ante = append(ante, lits...)
		}
		cons, err := clauseLiterals(v.Cons)
		if err != nil {
			return nil, err
		}
		out := make([]Literal, 0, len(ante)+len(cons))
		for _, a := range ante {
			out = append(out, Literal{LHS: a.LHS, Op: a.Op.Negate(), RHS: a.RHS})
		}
		out = append(out, cons...)
		return out, nil
	case And:
		// A conjunction only has a well-defined CNF-to-single-clause
		// reduction as the antecedent of an Implies, handled above; as a
		// bare clause body it would require splitting into multiple
		// axioms, which this minimal algebra does not do.
		return nil, errNotHorn
	default:
		return nil, errNotHorn
	}
}

// collectTriggers walks every literal's operands and returns the distinct
// App-rooted subterms found (by structural equality on the term, not
// pointer identity) — the candidate trigger patterns for the unifier.
func collectTriggers(lits []Literal) []*term.App {
	seen := map[term.Key]bool{}
	var out []*term.App
	var walk func(t term.Term)
	walk = func(t term.Term) {
		switch v := t.(type) {
		case *term.App:
			k := v.Key()
			if !seen[k] {
				seen[k] = true
				out = append(out, v)
			}
			for _, a := range v.Args {
				walk(a.Term)
			}
		case *term.Add:
			for _, a := range v.Args {
				walk(a.Term)
			}
		case *term.Mul:
			for _, a := range v.Args {
				walk(a.Term)
			}
		case *term.Abs:
			walk(v.Arg)
		case *term.Min:
			for _, a := range v.Args {
				walk(a.Term)
			}
		}
	}
	for _, l := range lits {
		walk(l.LHS.Term)
		walk(l.RHS.Term)
	}
	return out
}
