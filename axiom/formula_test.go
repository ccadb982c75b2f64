package axiom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skaslev/polya/blackboard"
	"github.com/skaslev/polya/internal/testboard"
	"github.com/skaslev/polya/term"
)

// recordingBoard wraps testboard.Board to remember every clause handed to
// AssertClause, so a test can inspect exactly which ground literal an axiom
// instantiated.
type recordingBoard struct {
	*testboard.Board
	clauses [][]blackboard.GroundLiteral
}

func (r *recordingBoard) AssertClause(lits ...blackboard.GroundLiteral) error {
	r.clauses = append(r.clauses, append([]blackboard.GroundLiteral(nil), lits...))
	return r.Board.AssertClause(lits...)
}

func (r *recordingBoard) mentions(idx int) bool {
	for _, clause := range r.clauses {
		for _, lit := range clause {
			if lit.L == idx || lit.R == idx {
				return true
			}
		}
	}
	return false
}

// TestClauseLiteralsRejectsBareConjunction: an And used as a bare clause
// body (not as the antecedent of an Implies) has no single-clause CNF
// reduction in this minimal algebra.
func TestClauseLiteralsRejectsBareConjunction(t *testing.T) {
	u := term.NewUVar(0)
	lit := NewLiteral(term.S(u), term.EQ, term.S(u))
	_, err := clauseLiterals(And{Args: []Formula{Atomic{Lit: lit}}})
	assert.Error(t, err)
}

// TestClauseLiteralsNegatesAntecedent: Implies(u>=v, u<v) reduces to
// the disjunction [NOT(u>=v), u<v], i.e. the antecedent's literal
// comes back with its operator negated.
func TestClauseLiteralsNegatesAntecedent(t *testing.T) {
	u, v := term.NewUVar(0), term.NewUVar(1)
	ante := NewLiteral(term.S(u), term.GE, term.S(v))
	cons := NewLiteral(term.S(u), term.LT, term.S(v))
	lits, err := clauseLiterals(Implies{Ante: Atomic{Lit: ante}, Cons: Atomic{Lit: cons}})
	require.NoError(t, err)
	require.Len(t, lits, 2)
	assert.Equal(t, term.LT, lits[0].Op)
	assert.Equal(t, term.LT, lits[1].Op)
}

// TestCollectTriggersFindsCompoundSubterm confirms collectTriggers walks
// into a literal's Add/Mul structure and picks up an App-rooted subterm
// nested inside it, deduplicated by term.Key — not just the top-level App
// on either side of the comparison.
func TestCollectTriggersFindsCompoundSubterm(t *testing.T) {
	f := term.NewFunc("f", 1)
	u, v := term.NewUVar(0), term.NewUVar(1)
	lhs := term.NewAdd(
		term.Scaled{Coeff: term.NewRational(1, 2), Term: f.Apply(term.S(u))},
		term.Scaled{Coeff: term.NewRational(1, 2), Term: f.Apply(term.S(v))},
	)
	rhs := f.Apply(term.Scaled{Coeff: term.NewRational(1, 2), Term: term.Sum(u, v)})
	lit := NewLiteral(term.S(lhs), term.GE, term.S(rhs))

	triggers := collectTriggers([]Literal{lit})
	require.Len(t, triggers, 3, "expected f(u), f(v), and the compound f((u+v)/2)")

	names := map[string]int{}
	for _, trig := range triggers {
		names[trig.Name]++
	}
	assert.Equal(t, 3, names["f"])
}

// TestNewAxiomFromFormulaMidpointConcavity builds the midpoint-concavity
// axiom "forall u v. (f(u)+f(v))/2 >= f((u+v)/2)" via NewAxiomFromFormula,
// so its triggers come from collectTriggers's real walk rather than a
// hand-picked list — in particular the compound third trigger f((u+v)/2),
// whose argument reuses both quantified variables once they're already
// bound by the first two triggers. Driving the resulting Axiom through
// Module.Update is what actually exercises unify.Unify's handling of a
// trigger whose argument is a compound expression over already-bound
// UVars, rather than a bare UVar itself.
func TestNewAxiomFromFormulaMidpointConcavity(t *testing.T) {
	b := &recordingBoard{Board: testboard.NewBoard()}
	f := term.NewFunc("f", 1)
	x, y := term.NewVar("x"), term.NewVar("y")
	xi := b.TermName(term.Canonize(x).Term)
	yi := b.TermName(term.Canonize(y).Term)
	ix, iy := term.NewIVar(xi), term.NewIVar(yi)

	b.TermName(term.Canonize(term.NewApp("f", term.S(ix))).Term)
	b.TermName(term.Canonize(term.NewApp("f", term.S(iy))).Term)
	sumIdx := b.TermName(term.Canonize(term.NewAdd(term.S(ix), term.S(iy))).Term)
	midIdx := b.TermName(term.Canonize(term.NewApp("f", term.Scaled{Coeff: term.NewRational(1, 2), Term: term.NewIVar(sumIdx)})).Term)

	u, v := term.NewUVar(0), term.NewUVar(1)
	lhs := term.NewAdd(
		term.Scaled{Coeff: term.NewRational(1, 2), Term: f.Apply(term.S(u))},
		term.Scaled{Coeff: term.NewRational(1, 2), Term: f.Apply(term.S(v))},
	)
	rhs := f.Apply(term.Scaled{Coeff: term.NewRational(1, 2), Term: term.Sum(u, v)})
	lit := NewLiteral(term.S(lhs), term.GE, term.S(rhs))
	formula := ForAll{Vars: []int{0, 1}, Body: Atomic{Lit: lit}}

	ax, err := NewAxiomFromFormula(formula)
	require.NoError(t, err)
	require.Len(t, ax.Triggers, 3, "collectTriggers should find f(u), f(v), and the compound f((u+v)/2)")
	require.ElementsMatch(t, []int{0, 1}, ax.TrigArgVars)

	m := NewModule(WithAxioms(ax))
	require.NoError(t, m.Update(context.Background(), b))

	assert.True(t, b.mentions(midIdx),
		"expected the env binding u=x, v=y to close f((u+v)/2) against the already-named midpoint term (index %d)", midIdx)
}
