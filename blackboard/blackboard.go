// Package blackboard defines component C2 of the core: the shared fact
// store every other component reads from and writes to. A Blackboard holds
// the set of terms the engine has ever named (interned), the linear
// equalities known to hold between them, and the set of those known to be
// zero, and accepts new ground facts through AssertClause and
// AssertComparisons.
//
// This package deliberately defines only the interface and its supporting
// types — term interning, equality bookkeeping, and general arithmetic
// saturation are left to the concrete implementation driving a given
// deployment (§9: the saturation/sign-inference engine is an external
// collaborator, out of scope here). internal/testboard in this module
// provides a minimal, test-only implementation for scenarios that already
// know their term/equality structure in advance.
package blackboard

import (
	"errors"
	"fmt"

	"github.com/skaslev/polya/term"
)

// Equality is one fact IVar(I) = Coeff * IVar(J), or, when J equals the
// owning Blackboard's NumTerms(), IVar(I) = 0 — the sentinel encoding
// get_equalities() uses so a single slice element type can carry both a
// real paired equality and a known-zero fact (§4.2).
type Equality struct {
	I, J  int
	Coeff term.Rational
}

// GroundLiteral is a single literal of a ground clause asserted to a
// Blackboard: LCoeff*IVar(L) Op RCoeff*IVar(R). Both sides must already be
// named terms — asserting a literal about an unnamed term is a caller
// error; name it first via TermName.
type GroundLiteral struct {
	L      int
	LCoeff term.Rational
	Op     term.CompOp
	R      int
	RCoeff term.Rational
}

func (l GroundLiteral) String() string {
	return fmt.Sprintf("%s*t%d %s %s*t%d", l.LCoeff, l.L, l.Op, l.RCoeff, l.R)
}

// Contradiction is returned (wrapped or bare) when asserting a clause would
// make the blackboard's fact set unsatisfiable. It carries the offending
// clause so callers can report which hypotheses were involved. Per §7,
// Contradiction propagates out of Module.Update unchanged — callers detect
// it with errors.As, not a sentinel comparison, since each contradiction
// carries distinct data.
type Contradiction struct {
	Clause []GroundLiteral
}

func (e *Contradiction) Error() string {
	return fmt.Sprintf("blackboard: contradiction asserting %v", e.Clause)
}

// Unwrap makes errors.Is(err, ErrContradiction) succeed for any
// *Contradiction, regardless of which concrete Blackboard produced it.
func (e *Contradiction) Unwrap() error { return ErrContradiction }

// ErrContradiction is a sentinel usable with errors.Is for callers that only
// care whether a contradiction occurred, not its contents. Concrete
// Blackboard implementations should return a *Contradiction that wraps this
// sentinel (fmt.Errorf("...: %w", ErrContradiction) or an Unwrap/Is method)
// so both styles of check work.
var ErrContradiction = errors.New("blackboard: contradiction")

// Blackboard is the shared fact store (§4.2). All indices are IVar indices
// in the range [0, NumTerms()).
type Blackboard interface {
	// NumTerms returns the number of terms currently named.
	NumTerms() int

	// TermDef returns the defining term.Term for IVar(i) — the canonical
	// term that was interned to produce that index.
	TermDef(i int) term.Term

	// HasName reports whether t (assumed already canonical) has been
	// interned, and if so its index.
	HasName(t term.Term) (int, bool)

	// TermName interns t if necessary and returns its index. Interning is
	// idempotent: calling it twice on structurally equal terms returns the
	// same index.
	TermName(t term.Term) int

	// Equalities returns every known linear equality between named terms,
	// as described by Equality.
	Equalities() []Equality

	// EqualityCoeff returns the coefficient c such that IVar(i) = c*IVar(j)
	// is known to hold, when i < j. Its second result is false when no such
	// fact is recorded.
	EqualityCoeff(i, j int) (term.Rational, bool)

	// IsZero reports whether IVar(i) is known to equal zero.
	IsZero(i int) bool

	// Implies reports whether the fact Coeff(IVar(i)) Op Coeff(IVar(j))
	// already follows from the blackboard's current knowledge, without
	// asserting anything.
	Implies(i int, op term.CompOp, c term.Rational, j int) bool

	// AssertClause asserts a disjunction of ground literals (an
	// empty-clause assertion, i.e. zero literals, is an immediate
	// contradiction). Returns a *Contradiction if the new fact makes the
	// blackboard's knowledge unsatisfiable.
	AssertClause(lits ...GroundLiteral) error

	// AssertComparisons asserts one or more term.Comparison facts (as a
	// conjunction — each call AssertClause would make with a singleton
	// clause), interning any term that is not yet named. Returns a
	// *Contradiction on conflict.
	AssertComparisons(cmps ...term.Comparison) error
}
