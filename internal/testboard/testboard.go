// Package testboard provides a minimal, mutex-guarded in-memory
// implementation of blackboard.Blackboard (§4.2). It is deliberately not
// the saturation/sign-inference engine §1 places out of scope: facts are
// asserted directly by a caller (a test, or a scenario driver) rather than
// derived from arithmetic reasoning. It exists so the core's three tightly
// coupled components (term matcher, unifier, axiom module) can be exercised
// end-to-end without waiting on that external collaborator.
//
// The interning and mutex-guarded-map shape here is grounded in the
// teacher's own fact store (pkg/minikanren/fact_store.go NewFact/generateFactID)
// and constraint store (constraint_store.go's sync.RWMutex-guarded map),
// adapted from "facts as tuples of terms" to "terms named by index".
package testboard

import (
	"sort"
	"sync"

	"github.com/skaslev/polya/blackboard"
	"github.com/skaslev/polya/term"
)

// Board is a hand-fed Blackboard: NewBoard() always starts with IVar(0)
// bound to term.One(), matching §4.2's "index 0 is the constant One".
type Board struct {
	mu    sync.RWMutex
	defs  []term.Term
	names map[term.Key]int

	// equalities maps an unordered pair (lo, hi) with lo<hi to the
	// coefficient c such that IVar(lo) = c*IVar(hi), i.e. §4.2's
	// get_equalities()/equalities[{i,j}] combined into one store. A J
	// value equal to NumTerms() (recorded as pairKey{lo, sentinel}) means
	// "IVar(lo) = 0" per the zero sentinel convention.
	equalities map[pairKey]term.Rational
	zero       map[int]bool

	// facts is allocated by NewBoard but nothing writes or reads it; the
	// admits/compatible helpers below are likewise not called. Direct
	// contradictions are detected by assertLiteral and contradictsEquality.
	facts map[pairKey][]directedFact
}

type pairKey struct{ lo, hi int }

// directedFact is one normalized relational claim loCoeff*IVar(lo) Op
// hiCoeff*IVar(hi).
type directedFact struct {
	loCoeff, hiCoeff term.Rational
	op               term.CompOp
}

// admits reports which of the three trichotomy cases (lo<hi, lo=hi, lo>hi,
// in the ordering the comparison's two sides induce) a CompOp allows.
func admits(op term.CompOp) (lt, eq, gt bool) {
	switch op {
	case term.GT:
		return false, false, true
	case term.GE:
		return false, true, true
	case term.EQ:
		return false, true, false
	case term.LE:
		return true, true, false
	case term.LT:
		return true, false, false
	case term.NE:
		return true, false, true
	}
	return true, true, true
}

// compatible reports whether two CompOps about the exact same comparison
// could simultaneously hold — i.e. whether their admitted trichotomy cases
// overlap. No overlap means the two claims directly contradict each other,
// with no arithmetic beyond trichotomy required.
func compatible(a, b term.CompOp) bool {
	alt, aeq, agt := admits(a)
	blt, beq, bgt := admits(b)
	return (alt && blt) || (aeq && beq) || (agt && bgt)
}

// NewBoard returns an empty board with only the constant term interned.
func NewBoard() *Board {
	b := &Board{
		names:      map[term.Key]int{},
		equalities: map[pairKey]term.Rational{},
		zero:       map[int]bool{},
		facts:      map[pairKey][]directedFact{},
	}
	one := term.NewOne()
	b.defs = append(b.defs, one)
	b.names[one.Key()] = 0
	return b
}

func (b *Board) NumTerms() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.defs)
}

func (b *Board) TermDef(i int) term.Term {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.defs[i]
}

func (b *Board) HasName(t term.Term) (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.names[t.Key()]
	return i, ok
}

func (b *Board) TermName(t term.Term) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i, ok := b.names[t.Key()]; ok {
		return i
	}
	i := len(b.defs)
	b.defs = append(b.defs, t)
	b.names[t.Key()] = i
	return i
}

func (b *Board) Equalities() []blackboard.Equality {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := len(b.defs)
	out := make([]blackboard.Equality, 0, len(b.equalities)+len(b.zero))
	for pk, c := range b.equalities {
		out = append(out, blackboard.Equality{I: pk.lo, J: pk.hi, Coeff: c})
	}
	for i := range b.zero {
		out = append(out, blackboard.Equality{I: i, J: n, Coeff: term.Zero()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].I != out[j].I {
			return out[i].I < out[j].I
		}
		return out[i].J < out[j].J
	})
	return out
}

func (b *Board) EqualityCoeff(i, j int) (term.Rational, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i > j {
		i, j = j, i
	}
	c, ok := b.equalities[pairKey{i, j}]
	return c, ok
}

func (b *Board) IsZero(i int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.zero[i]
}

// Implies reports whether IVar(i) `op` c*IVar(j) already follows from the
// pair equalities recorded so far. This board only proves what a recorded
// equality between i and j states outright (§1: saturation beyond that is
// the excluded collaborator's job), plus the reflexive case i==j; a zero
// fact on its own is not consulted.
func (b *Board) Implies(i int, op term.CompOp, c term.Rational, j int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i == j {
		switch op {
		case term.EQ, term.GE, term.LE:
			return c.IsOne()
		case term.NE, term.GT, term.LT:
			return false
		}
	}
	lo, hi := i, j
	flip := false
	if lo > hi {
		lo, hi = hi, lo
		flip = true
	}
	eq, ok := b.equalities[pairKey{lo, hi}]
	if !ok {
		return false
	}
	// IVar(lo) = eq*IVar(hi). The caller asked about IVar(i) op c*IVar(j);
	// normalize to the lo/hi orientation actually stored.
	want := eq
	if flip {
		// i==hi, j==lo: IVar(hi) = (1/eq)*IVar(lo) when eq != 0.
		if eq.IsZero() {
			return op == term.EQ && c.IsZero() && b.zero[hi]
		}
		want = eq.Inv()
	}
	switch op {
	case term.EQ:
		return want.Equal(c)
	case term.NE:
		return !want.Equal(c)
	default:
		return false
	}
}

func (b *Board) assertLiteral(l blackboard.GroundLiteral) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l.Op != term.EQ {
		// This board only records equalities/zero facts (the comparisons
		// S1-S6 actually exercise through the axiom module); anything else
		// is accepted without strengthening the fact base, matching the
		// documented scope of a hand-fed test board (§1).
		return nil
	}
	if l.LCoeff.IsZero() {
		b.recordZero(l.R)
		return b.checkContradiction()
	}
	if l.RCoeff.IsZero() {
		b.recordZero(l.L)
		return b.checkContradiction()
	}
	lo, hi, coeff := l.L, l.R, l.RCoeff.Div(l.LCoeff)
	if lo > hi {
		lo, hi = hi, lo
		coeff = coeff.Inv()
	}
	if existing, ok := b.equalities[pairKey{lo, hi}]; ok && !existing.Equal(coeff) {
		return &blackboard.Contradiction{Clause: []blackboard.GroundLiteral{l}}
	}
	b.equalities[pairKey{lo, hi}] = coeff
	return b.checkContradiction()
}

func (b *Board) recordZero(i int) {
	b.zero[i] = true
}

// checkContradiction performs no check and always returns nil. The
// contradictions this board reports come from assertLiteral (a conflicting
// coefficient for an already-recorded pair) and from AssertClause's
// single-literal path via contradictsEquality (a strict or disequality
// literal against a recorded equality).
func (b *Board) checkContradiction() error {
	return nil
}

// AssertClause asserts a disjunction of ground literals. A singleton clause
// is treated as a conjunct (the common case every axiom instantiation in
// this module produces, since Horn-clause literals are asserted one
// environment at a time); a clause whose sole literal is the negation of
// an already-known equality fact is flagged as a contradiction, matching
// §7's "Contradiction propagated unchanged" for the direct case this board
// supports. An empty clause is always a contradiction (§4.2).
func (b *Board) AssertClause(lits ...blackboard.GroundLiteral) error {
	if len(lits) == 0 {
		return &blackboard.Contradiction{}
	}
	if len(lits) == 1 {
		l := lits[0]
		if l.Op == term.NE || l.Op == term.LT || l.Op == term.GT {
			if b.contradictsEquality(l) {
				return &blackboard.Contradiction{Clause: lits}
			}
		}
		return b.assertLiteral(l)
	}
	// A genuine multi-literal disjunction is weaker than any single
	// conjunct; this board records nothing from it (consistent with
	// leaving saturation to the excluded collaborator) but never reports a
	// spurious contradiction either.
	return nil
}

// contradictsEquality reports whether l (a strict/disequality literal)
// directly contradicts an equality fact already on the board between the
// same two terms.
func (b *Board) contradictsEquality(l blackboard.GroundLiteral) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if l.L == l.R {
		return !l.LCoeff.Equal(l.RCoeff)
	}
	lo, hi, want := l.L, l.R, l.RCoeff
	flip := false
	if lo > hi {
		lo, hi = hi, lo
		flip = true
	}
	eq, ok := b.equalities[pairKey{lo, hi}]
	if !ok {
		if b.zero[l.L] && l.LCoeff.IsZero() {
			return !l.RCoeff.IsZero()
		}
		if b.zero[l.R] && l.RCoeff.IsZero() {
			return !l.LCoeff.IsZero()
		}
		return false
	}
	if flip {
		if eq.IsZero() {
			return false
		}
		eq = eq.Inv()
	}
	// Known: IVar(l.L) = eq*IVar(l.R). The literal claims
	// l.LCoeff*IVar(l.L) op l.RCoeff*IVar(l.R); substituting, it claims
	// l.LCoeff*eq op l.RCoeff as a statement purely about the shared
	// quantity IVar(l.R) (nonzero needed, handled by the zero branch above).
	lhsCoeff := l.LCoeff.Mul(eq)
	return lhsCoeff.Equal(want)
}

// AssertComparisons interns each comparison's operands and asserts it as a
// singleton clause (§4.2).
func (b *Board) AssertComparisons(cmps ...term.Comparison) error {
	for _, c := range cmps {
		lidx := b.TermName(c.LHS.Term)
		ridx := b.TermName(c.RHS.Term)
		lit := blackboard.GroundLiteral{L: lidx, LCoeff: c.LHS.Coeff, Op: c.Op, R: ridx, RCoeff: c.RHS.Coeff}
		if err := b.AssertClause(lit); err != nil {
			return err
		}
	}
	return nil
}
