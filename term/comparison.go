package term

import "fmt"

// CompOp is one of the six relational operators (§4.1). The numeric
// ordering (GT=0 .. NE=5) is chosen so Reverse and Negate are the constant
// expressions the reference uses (comp_reverse, comp_negate in terms.py).
type CompOp int

const (
	GT CompOp = iota
	GE
	EQ
	LE
	LT
	NE
)

func (c CompOp) String() string {
	switch c {
	case GT:
		return ">"
	case GE:
		return ">="
	case EQ:
		return "="
	case LE:
		return "<="
	case LT:
		return "<"
	case NE:
		return "!="
	default:
		return "?"
	}
}

// Reverse swaps > with <, >= with <=, and leaves = and != fixed — the
// operator to use when the two sides of a comparison are swapped.
func (c CompOp) Reverse() CompOp {
	if c == NE {
		return NE
	}
	return 4 - c
}

// Negate swaps > with <=, >= with <, and = with != — the operator for the
// logical negation of the comparison.
func (c CompOp) Negate() CompOp {
	return (c + 3) % 6
}

// Comparison is term1 `op` term2, built by Lt/Le/Gt/Ge/EqOf/Ne rather than
// by overloading relational operators (Go has none) — the two-layer
// builder DSL SPEC_FULL.md §9 calls for. LHS and RHS are Scaled because a
// bare numeric literal (e.g. `x < 3`) is just as valid an operand as a
// Term.
type Comparison struct {
	LHS Scaled
	Op  CompOp
	RHS Scaled
}

// NewComparison builds lhs `op` rhs.
func NewComparison(lhs Scaled, op CompOp, rhs Scaled) Comparison {
	return Comparison{LHS: lhs, Op: op, RHS: rhs}
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.LHS, c.Op, c.RHS)
}

// Canonize reduces a comparison to the normal form "term op scaled" (§4.1):
// either the right side is 0*One, or term1.key < scaled.term.key, with a
// negative leading scalar folded into the comparison operator (strict/
// nonstrict ordering flips; = and != are unaffected).
func (c Comparison) Canonize() Comparison {
	lhsInner := Canonize(c.LHS.Term)
	t1 := Scaled{Coeff: c.LHS.Coeff.Mul(lhsInner.Coeff), Term: lhsInner.Term}
	rhsInner := Canonize(c.RHS.Term)
	t2 := Scaled{Coeff: c.RHS.Coeff.Mul(rhsInner.Coeff), Term: rhsInner.Term}

	comp := c.Op

	if t1.Term.Key() == t2.Term.Key() {
		t := t1.Term
		diffCoeff := t1.Coeff.Sub(t2.Coeff)
		if diffCoeff.IsZero() {
			if comp == LT || comp == GT || comp == NE {
				return Comparison{LHS: Scaled{Coeff: One(), Term: t}, Op: comp, RHS: Scaled{Coeff: One(), Term: t}}
			}
			return Comparison{LHS: Scaled{Coeff: One(), Term: t}, Op: EQ, RHS: Scaled{Coeff: One(), Term: t}}
		}
		t1 = Scaled{Coeff: diffCoeff, Term: t}
		t2 = Scaled{Coeff: Zero(), Term: NewOne()}
	}

	if t1.Term.Key() > t2.Term.Key() {
		t1, t2 = t2, t1
		comp = comp.Reverse()
	}
	if t1.Coeff.IsZero() {
		t1, t2 = t2, Scaled{Coeff: Zero(), Term: NewOne()}
		comp = comp.Reverse()
	}
	if t1.Coeff.Sign() < 0 {
		comp = comp.Reverse()
	}

	return Comparison{
		LHS: Scaled{Coeff: One(), Term: t1.Term},
		Op:  comp,
		RHS: Scaled{Coeff: t2.Coeff.Div(t1.Coeff), Term: t2.Term},
	}
}
