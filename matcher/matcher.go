// Package matcher implements component C3: given a blackboard and an
// arbitrary term, find an already-named "problem term" it is linearly or
// multiplicatively equivalent to, scaled by some rational coefficient.
// This is the bridge between free-form term construction (package term)
// and the ground, index-based facts a Blackboard actually stores (§4.3).
package matcher

import (
	"errors"

	"github.com/skaslev/polya/blackboard"
	"github.com/skaslev/polya/linalg"
	"github.com/skaslev/polya/term"
)

// ErrNoTerm is returned when t has no known equivalent among the
// blackboard's named terms. It is an internal control-flow signal (§7):
// callers (the unifier, the axiom module) catch it and treat the
// environment or literal it arose from as simply not reducible yet, never
// letting it escape to the top level.
var ErrNoTerm = errors.New("matcher: no equivalent problem term")

// FindProblemTerm returns (c, i) such that t canonicalizes to c * IVar(i)
// for some already-named IVar(i), or ErrNoTerm if no such i is known to the
// blackboard.
func FindProblemTerm(b blackboard.Blackboard, t term.Term) (term.Rational, int, error) {
	s := term.Canonize(t)
	c, idx, err := findCanonical(b, s.Term)
	if err != nil {
		return term.Rational{}, 0, err
	}
	return s.Coeff.Mul(c), idx, nil
}

func findCanonical(b blackboard.Blackboard, t term.Term) (term.Rational, int, error) {
	if iv, ok := t.(*term.IVar); ok {
		return term.One(), iv.Index, nil
	}
	if idx, ok := b.HasName(t); ok {
		return term.One(), idx, nil
	}
	switch v := t.(type) {
	case *term.App:
		return findApp(b, v)
	case *term.Add:
		return findAdd(b, v)
	case *term.Mul:
		return findMul(b, v)
	case *term.Abs:
		return findAbs(b, v)
	default:
		return term.Rational{}, 0, ErrNoTerm
	}
}

// resolveScaled reduces a canonical Scaled argument to (effective
// coefficient, IVar index) against the blackboard, failing with ErrNoTerm
// if the argument's own term has no known name.
func resolveScaled(b blackboard.Blackboard, s term.Scaled) (term.Rational, int, error) {
	c, idx, err := findCanonical(b, s.Term)
	if err != nil {
		return term.Rational{}, 0, err
	}
	return s.Coeff.Mul(c), idx, nil
}

// reconcile reports whether (coeffA, idxA) and (coeffB, idxB) denote the
// same scaled quantity according to the blackboard's known facts: either
// they are literally the same index with equal coefficients, that shared
// index is known to be zero, or an equality links the two indices with a
// coefficient that reconciles the two scalars (§4.3).
func reconcile(b blackboard.Blackboard, coeffA term.Rational, idxA int, coeffB term.Rational, idxB int) bool {
	if idxA == idxB {
		if coeffA.Equal(coeffB) {
			return true
		}
		return b.IsZero(idxA) && coeffA.IsZero() == coeffB.IsZero()
	}
	lo, hi := idxA, idxB
	loCoeff, hiCoeff := coeffA, coeffB
	if lo > hi {
		lo, hi = hi, lo
		loCoeff, hiCoeff = hiCoeff, loCoeff
	}
	eq, ok := b.EqualityCoeff(lo, hi)
	if !ok {
		return false
	}
	// t_lo = eq * t_hi, so loCoeff*t_lo == hiCoeff*t_hi becomes
	// loCoeff*eq*t_hi == hiCoeff*t_hi.
	return loCoeff.Mul(eq).Equal(hiCoeff)
}

// findApp matches an App against the blackboard's existing App
// definitions, position by position, after resolving each argument to a
// (coefficient, index) pair (§4.3).
func findApp(b blackboard.Blackboard, a *term.App) (term.Rational, int, error) {
	argCoeffs := make([]term.Rational, len(a.Args))
	argIdx := make([]int, len(a.Args))
	for i, arg := range a.Args {
		c, idx, err := resolveScaled(b, arg)
		if err != nil {
			return term.Rational{}, 0, ErrNoTerm
		}
		argCoeffs[i] = c
		argIdx[i] = idx
	}

	for i := 0; i < b.NumTerms(); i++ {
		cand, ok := b.TermDef(i).(*term.App)
		if !ok || cand.Name != a.Name || len(cand.Args) != len(a.Args) {
			continue
		}
		matched := true
		for pos, candArg := range cand.Args {
			candCoeff, candIdx, err := resolveScaled(b, candArg)
			if err != nil {
				matched = false
				break
			}
			if !reconcile(b, candCoeff, candIdx, argCoeffs[pos], argIdx[pos]) {
				matched = false
				break
			}
		}
		if matched {
			return term.One(), i, nil
		}
	}
	return term.Rational{}, 0, ErrNoTerm
}

// findAbs resolves the argument of an Abs and looks for a named Abs of
// that same resolved term (§4.3).
func findAbs(b blackboard.Blackboard, a *term.Abs) (term.Rational, int, error) {
	_, innerIdx, err := findCanonical(b, a.Arg)
	if err != nil {
		return term.Rational{}, 0, ErrNoTerm
	}
	for i := 0; i < b.NumTerms(); i++ {
		cand, ok := b.TermDef(i).(*term.Abs)
		if !ok {
			continue
		}
		if _, candIdx, err := findCanonical(b, cand.Arg); err == nil && candIdx == innerIdx {
			return term.One(), i, nil
		}
	}
	return term.Rational{}, 0, ErrNoTerm
}

// findAdd implements the additive Fourier-Motzkin search of §4.3: resolve
// every summand to a (coefficient, index) pair, build the rows of
// equalityRows (known equalities and Add definitions) plus one goal row for
// the sum itself, eliminate each goal column that has a pivot row, and
// classify what remains.
func findAdd(b blackboard.Blackboard, a *term.Add) (term.Rational, int, error) {
	n := b.NumTerms()
	width := n + 1 // term columns [0,n) plus one sentinel column at n

	summandIdx := make([]int, len(a.Args))
	summandCoeff := make([]term.Rational, len(a.Args))
	for i, s := range a.Args {
		c, idx, err := resolveScaled(b, s)
		if err != nil {
			return term.Rational{}, 0, ErrNoTerm
		}
		summandIdx[i] = idx
		summandCoeff[i] = c
	}

	goal := make(linalg.Row, width)
	for i := range goal {
		goal[i] = term.Zero()
	}
	for i, idx := range summandIdx {
		goal[idx] = goal[idx].Add(summandCoeff[i])
	}
	goal[n] = term.One().Neg() // sentinel marks "this row equals the unknown problem coefficient"

	rows := equalityRows(b, width)

	// Eliminate every term column the goal touches for which an
	// eliminating equality row is available, leaving the sentinel column
	// plus whatever term columns have no such row — those either collapse
	// out along the way (as §4.3's worked examples do) or are exactly the
	// surviving problem-term column the classification below looks for. A
	// column with no pivot is not itself a failure: it simply can't be
	// eliminated further, and the post-loop classification decides whether
	// that leaves a usable match.
	for col := 0; col < n; col++ {
		if goal[col].IsZero() {
			continue
		}
		pivot := findPivotRow(rows, col)
		if pivot == nil {
			continue
		}
		reduced := linalg.ElimVar(col, pivot, append(rows, goal))
		rows = reduced[:len(reduced)-1]
		goal = reduced[len(reduced)-1]
	}

	switch linalg.CountNonzero(goal) {
	case 0:
		// Every column, including the sentinel, vanished: 0=0, no
		// information. Not expected in practice (the sentinel starts at
		// -1 and elimination never targets it) but handled rather than
		// falling through to a panic.
		return term.Rational{}, 0, ErrNoTerm
	case 1:
		// Only the sentinel survived: the sum is forced to exactly zero
		// (§4.3's "implies u = 0"). Report it as 0*IVar(0) — the constant
		// term is always named at index 0 — rather than requiring a
		// separately registered known-zero witness.
		if !goal[n].IsZero() {
			return term.Zero(), 0, nil
		}
		return term.Rational{}, 0, ErrNoTerm
	case 2:
		// Sentinel plus exactly one term column survive: the sum equals
		// coeff * IVar(col) for that column, scaled against the sentinel.
		for col := 0; col < n; col++ {
			if !goal[col].IsZero() {
				return goal[col].Div(goal[n].Neg()), col, nil
			}
		}
	}
	return term.Rational{}, 0, ErrNoTerm
}

// findMul implements the multiplicative analogue of findAdd: resolve each
// factor, build exponent-space rows from the same equalities (reused here
// as "constant 1/eq, term i exp 1, term j exp -1" relations), eliminate with
// linalg.ElimVarMul, and classify. Column 0 carries the row's constant
// scalar, so elimination and classification only visit term columns 1..n-1.
func findMul(b blackboard.Blackboard, m *term.Mul) (term.Rational, int, error) {
	n := b.NumTerms()
	width := n + 1

	factorIdx := make([]int, len(m.Args))
	factorExp := make([]int, len(m.Args))
	for i, p := range m.Args {
		_, idx, err := findCanonical(b, p.Term)
		if err != nil {
			return term.Rational{}, 0, ErrNoTerm
		}
		factorIdx[i] = idx
		factorExp[i] = p.Exp
	}

	// §4.3: the matcher first reduces each argument via C3 and rebuilds a
	// product of IVar powers; if that rebuilt product interns directly,
	// return it without ever touching the elimination machinery.
	rebuilt := make([]term.MulPair, len(factorIdx))
	for i, idx := range factorIdx {
		rebuilt[i] = term.MulPair{Term: term.NewIVar(idx), Exp: factorExp[i]}
	}
	rebCanon := term.Canonize(term.NewMul(rebuilt...))
	if idx, ok := b.HasName(rebCanon.Term); ok {
		return rebCanon.Coeff, idx, nil
	}
	if iv, ok := rebCanon.Term.(*term.IVar); ok {
		return rebCanon.Coeff, iv.Index, nil
	}

	// Multiplicative FM elimination is only sound when every factor is
	// known nonzero (§4.3: "division by zero invalidates multiplicative
	// reasoning"). Any factor without a proven nonzero sign aborts the
	// whole pass rather than risking an unsound pivot.
	for _, idx := range factorIdx {
		if !b.Implies(idx, term.NE, term.Zero(), 0) {
			return term.Rational{}, 0, ErrNoTerm
		}
	}

	goal := make(linalg.Row, width)
	goal[0] = term.One()
	for i := 1; i < width; i++ {
		goal[i] = term.Zero()
	}
	for i, idx := range factorIdx {
		goal[idx] = goal[idx].Add(term.FromInt(int64(factorExp[i])))
	}
	goal[n] = term.FromInt(-1)

	rows := mulEqualityRows(b, width)

	for col := 1; col < n; col++ {
		if goal[col].IsZero() {
			continue
		}
		pivot := findPivotRow(rows, col)
		if pivot == nil {
			continue
		}
		reduced, err := linalg.ElimVarMul(col, pivot, append(rows, goal))
		if err != nil {
			return term.Rational{}, 0, ErrNoTerm
		}
		rows = reduced[:len(reduced)-1]
		goal = reduced[len(reduced)-1]
	}

	nonTrivial := 0
	col := -1
	for i := 1; i < n; i++ {
		if !goal[i].IsZero() {
			nonTrivial++
			col = i
		}
	}
	if nonTrivial == 1 && goal[col].IsOne() {
		return goal[0], col, nil
	}
	if nonTrivial == 0 {
		// Only the constant survives: c * u^-1 = 1, so u = c * IVar(0).
		return goal[0], 0, nil
	}
	return term.Rational{}, 0, ErrNoTerm
}

// equalityRows builds one additive row per known equality: -1 in the i
// column, eq in the j column (or, for a known-zero fact, just -1 in the i
// column with nothing else), zero sentinel — plus, per §4.3, one further
// row per blackboard term whose own definition is an Add: -1 in its own
// column, its summands' coefficients in their columns. A definitional row
// is only emitted when every summand is itself a named IVar (the common
// case for a sum interned over already-named subterms); a summand that
// isn't simply has no row contributed for that definition, rather than
// failing the whole pass.
func equalityRows(b blackboard.Blackboard, width int) []linalg.Row {
	n := b.NumTerms()
	var rows []linalg.Row
	for _, e := range b.Equalities() {
		row := make(linalg.Row, width)
		for i := range row {
			row[i] = term.Zero()
		}
		row[e.I] = term.FromInt(-1)
		if e.J != n {
			row[e.J] = e.Coeff
		}
		rows = append(rows, row)
	}
	for i := 0; i < n; i++ {
		add, ok := b.TermDef(i).(*term.Add)
		if !ok {
			continue
		}
		row := make(linalg.Row, width)
		for k := range row {
			row[k] = term.Zero()
		}
		row[i] = term.FromInt(-1)
		complete := true
		for _, s := range add.Args {
			iv, ok := s.Term.(*term.IVar)
			if !ok {
				complete = false
				break
			}
			row[iv.Index] = row[iv.Index].Add(s.Coeff)
		}
		if complete {
			rows = append(rows, row)
		}
	}
	return rows
}

// mulEqualityRows builds the multiplicative analogue: for each equality
// t_i = eq * t_j with a nonzero coefficient and i != 0, a row encoding
// "(1/eq) * t_i^1 * t_j^-1 = 1". Known-zero facts and equalities whose left
// side is the constant IVar(0) (whose column holds the row constant)
// contribute no row.
func mulEqualityRows(b blackboard.Blackboard, width int) []linalg.Row {
	n := b.NumTerms()
	var rows []linalg.Row
	for _, e := range b.Equalities() {
		if e.J == n || e.I == 0 || e.Coeff.IsZero() {
			continue
		}
		row := make(linalg.Row, width)
		row[0] = e.Coeff.Inv()
		for i := 1; i < width; i++ {
			row[i] = term.Zero()
		}
		row[e.I] = term.One()
		if e.J != 0 {
			row[e.J] = term.FromInt(-1)
		}
		rows = append(rows, row)
	}
	// §4.3: rows also source from definitions of multiplicative problem
	// terms known to be nonzero — "1 = const^-1 * t_i^-1 * t_j1^e1 * ...".
	// Only contributed when the definition's own factors are all named
	// IVars, same caveat as equalityRows' Add rows.
	for i := 0; i < n; i++ {
		mul, ok := b.TermDef(i).(*term.Mul)
		if !ok || !b.Implies(i, term.NE, term.Zero(), 0) {
			continue
		}
		row := make(linalg.Row, width)
		row[0] = term.One()
		for k := 1; k < width; k++ {
			row[k] = term.Zero()
		}
		row[i] = term.FromInt(-1)
		complete := true
		for _, p := range mul.Args {
			iv, ok := p.Term.(*term.IVar)
			if !ok {
				complete = false
				break
			}
			row[iv.Index] = row[iv.Index].Add(term.FromInt(int64(p.Exp)))
		}
		if complete {
			rows = append(rows, row)
		}
	}
	return rows
}

func findPivotRow(rows []linalg.Row, col int) linalg.Row {
	for _, r := range rows {
		if !r[col].IsZero() {
			return r
		}
	}
	return nil
}
