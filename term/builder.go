package term

import "strings"

// This file is the uncanonicalized construction DSL (§9 design note): plain
// functions assembling raw Term/Comparison values with implicit coefficient
// 1, mirroring how the reference overloads +, *, **, abs() and the
// relational operators on its Term class. Go has no operator overloading, so
// arithmetic goes through these functions and relational construction goes
// through Lt/Le/Gt/Ge/EqOf/Ne, which return Comparison rather than bool.

// Vars splits a whitespace-separated name list and declares one Var per
// name, mirroring the reference's `x, y, z = Vars('x y z')` convenience.
func Vars(names string) []*Var {
	fields := strings.Fields(names)
	out := make([]*Var, len(fields))
	for i, n := range fields {
		out[i] = NewVar(n)
	}
	return out
}

// S wraps a bare Term as a Scaled with coefficient 1.
func S(t Term) Scaled { return Scaled{Coeff: One(), Term: t} }

// Int builds the term for an integer literal, promoting it the way the
// reference promotes a bare Python int wherever a Term is expected.
func Int(n int64) Term {
	return &Add{Args: []Scaled{{Coeff: FromInt(n), Term: NewOne()}}}
}

// Rat builds the term for a rational literal num/den.
func Rat(num, den int64) Term {
	return &Add{Args: []Scaled{{Coeff: NewRational(num, den), Term: NewOne()}}}
}

// Sum builds the raw sum of terms, each with coefficient 1.
func Sum(terms ...Term) Term {
	args := make([]Scaled, len(terms))
	for i, t := range terms {
		args[i] = S(t)
	}
	return NewAdd(args...)
}

// SumScaled builds the raw sum of already-scaled terms, e.g. for
// 2*x + 3*y.
func SumScaled(args ...Scaled) Term { return NewAdd(args...) }

// Sub builds lhs - rhs.
func Sub(lhs, rhs Term) Term {
	return NewAdd(S(lhs), Scaled{Coeff: FromInt(-1), Term: rhs})
}

// Neg builds -t.
func Neg(t Term) Term { return NewAdd(Scaled{Coeff: FromInt(-1), Term: t}) }

// Product builds the raw product of terms, each with exponent 1.
func Product(terms ...Term) Term {
	args := make([]MulPair, len(terms))
	for i, t := range terms {
		args[i] = MulPair{Term: t, Exp: 1}
	}
	return NewMul(args...)
}

// Pow builds t^n.
func Pow(t Term, n int) Term { return NewMul(MulPair{Term: t, Exp: n}) }

// AbsOf builds |t|.
func AbsOf(t Term) Term { return NewAbs(t) }

// MinOf builds the minimum of terms, each with coefficient 1.
func MinOf(terms ...Term) Term {
	args := make([]Scaled, len(terms))
	for i, t := range terms {
		args[i] = S(t)
	}
	return NewMin(args...)
}

// MaxOf builds the maximum of terms as -min(-terms...), per §3's encoding of
// max in terms of Min.
func MaxOf(terms ...Term) Term {
	neg := make([]Scaled, len(terms))
	for i, t := range terms {
		neg[i] = Scaled{Coeff: FromInt(-1), Term: t}
	}
	return Neg(&Min{Args: neg})
}

// ---------------------------------------------------------------------
// Relational construction
// ---------------------------------------------------------------------

// Lt, Le, Gt, Ge, EqOf and Ne build term1 `op` term2 and immediately reduce
// it to canonical form, mirroring the reference's relational operators
// (which canonize as they build). Comparison, not bool, is always the
// result — the caller asserts it to a Blackboard rather than branching on
// it directly.
func Lt(lhs, rhs Term) Comparison { return NewComparison(S(lhs), LT, S(rhs)).Canonize() }
func Le(lhs, rhs Term) Comparison { return NewComparison(S(lhs), LE, S(rhs)).Canonize() }
func Gt(lhs, rhs Term) Comparison { return NewComparison(S(lhs), GT, S(rhs)).Canonize() }
func Ge(lhs, rhs Term) Comparison { return NewComparison(S(lhs), GE, S(rhs)).Canonize() }
func EqOf(lhs, rhs Term) Comparison { return NewComparison(S(lhs), EQ, S(rhs)).Canonize() }
func Ne(lhs, rhs Term) Comparison { return NewComparison(S(lhs), NE, S(rhs)).Canonize() }

// LtS, LeS, GtS, GeS, EqS and NeS are the Scaled-operand variants, for
// callers that already hold a coefficient (e.g. 2*x < 3).
func LtS(lhs, rhs Scaled) Comparison { return NewComparison(lhs, LT, rhs).Canonize() }
func LeS(lhs, rhs Scaled) Comparison { return NewComparison(lhs, LE, rhs).Canonize() }
func GtS(lhs, rhs Scaled) Comparison { return NewComparison(lhs, GT, rhs).Canonize() }
func GeS(lhs, rhs Scaled) Comparison { return NewComparison(lhs, GE, rhs).Canonize() }
func EqS(lhs, rhs Scaled) Comparison { return NewComparison(lhs, EQ, rhs).Canonize() }
func NeS(lhs, rhs Scaled) Comparison { return NewComparison(lhs, NE, rhs).Canonize() }
