// Package linalg implements the exact-rational vector and pivot-elimination
// primitives component C6 of the core specifies: componentwise vector
// arithmetic and Fourier-Motzkin style row elimination, both over rationals
// (additive case) and over rational exponent vectors (multiplicative case).
//
// All arithmetic goes through term.Rational, never float64 — the same
// no-floating-point discipline §4.6 requires of the rest of the core.
package linalg

import (
	"errors"
	"fmt"

	"github.com/skaslev/polya/term"
)

// Row is a vector of exact rationals: a row of the elimination matrix built
// by package matcher. Column 0 plays a different role in the additive and
// multiplicative cases (an ordinary coordinate in the former, the
// multiplicative constant scalar in the latter) — linalg treats it as an
// ordinary coordinate and leaves that interpretation to the caller.
type Row []term.Rational

// ErrNonIntegerPower is returned by ElimVarMul when eliminating a column
// would require raising a non-unit constant to a non-integer rational
// power — the "likely irrational" guard of §4.3/§9 Open Question 1. It is
// deliberately conservative: a rational result may still exist in
// principle (4^(1/2) = 2), but the reference declines to pursue it, and
// this port preserves that documented incompleteness rather than
// attempting general real-root extraction.
var ErrNonIntegerPower = errors.New("linalg: elimination would require a non-integer power of a non-unit constant")

// AddList returns the componentwise sum of a and b. Panics if the lengths
// differ — a mismatched row width is a programmer error, not a runtime
// condition (§7).
func AddList(a, b Row) Row {
	if len(a) != len(b) {
		panic(fmt.Sprintf("linalg: AddList length mismatch: %d vs %d", len(a), len(b)))
	}
	out := make(Row, len(a))
	for i := range a {
		out[i] = a[i].Add(b[i])
	}
	return out
}

// ScaleList returns s*r, componentwise.
func ScaleList(s term.Rational, r Row) Row {
	out := make(Row, len(r))
	for i, v := range r {
		out[i] = s.Mul(v)
	}
	return out
}

// ElimVar performs the additive pivot: for each row, subtract
// (row[i]/pivot[i])*pivot so the result has a zero in column i. Panics if
// pivot[i] is zero (§4.6: "fail loudly").
func ElimVar(i int, pivot Row, rows []Row) []Row {
	if pivot[i].IsZero() {
		panic("linalg: ElimVar: pivot column is zero")
	}
	out := make([]Row, len(rows))
	for k, r := range rows {
		if r[i].IsZero() {
			out[k] = r
			continue
		}
		factor := r[i].Div(pivot[i]).Neg()
		out[k] = AddList(r, ScaleList(factor, pivot))
	}
	return out
}

// ElimVarMul performs the multiplicative pivot in exponent space (§4.6).
// Entry 0 of every row is a rational constant scalar; the remaining entries
// are integer exponents carried as exact rationals. Eliminating column i
// against pivot combines constants multiplicatively
// (newConst = r[0] * pivot[0]^scale, scale = -r[i]/pivot[i]) and exponents
// additively (newRow[k] = r[k] + scale*pivot[k]).
//
// Returns ErrNonIntegerPower if any row would require raising a non-unit
// pivot constant to a non-integer power.
func ElimVarMul(i int, pivot Row, rows []Row) ([]Row, error) {
	if pivot[i].IsZero() {
		panic("linalg: ElimVarMul: pivot column is zero")
	}
	out := make([]Row, len(rows))
	for k, r := range rows {
		if r[i].IsZero() {
			out[k] = r
			continue
		}
		scale := r[i].Div(pivot[i]).Neg()
		var newConst term.Rational
		switch {
		case pivot[0].IsOne():
			newConst = r[0]
		case scale.IsInteger():
			newConst = r[0].Mul(pivot[0].Pow(int(scale.Num().Int64())))
		default:
			return nil, ErrNonIntegerPower
		}
		newRow := make(Row, len(r))
		newRow[0] = newConst
		for j := 1; j < len(r); j++ {
			newRow[j] = r[j].Add(scale.Mul(pivot[j]))
		}
		out[k] = newRow
	}
	return out, nil
}

// CountNonzero returns the number of nonzero entries in r, used by the
// matcher's post-elimination classification step.
func CountNonzero(r Row) int {
	n := 0
	for _, v := range r {
		if !v.IsZero() {
			n++
		}
	}
	return n
}
