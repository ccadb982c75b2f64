package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompOpReverse(t *testing.T) {
	assert.Equal(t, LT, GT.Reverse())
	assert.Equal(t, GT, LT.Reverse())
	assert.Equal(t, LE, GE.Reverse())
	assert.Equal(t, GE, LE.Reverse())
	assert.Equal(t, EQ, EQ.Reverse())
	assert.Equal(t, NE, NE.Reverse())
}

func TestCompOpNegate(t *testing.T) {
	assert.Equal(t, LE, GT.Negate())
	assert.Equal(t, LT, GE.Negate())
	assert.Equal(t, NE, EQ.Negate())
	assert.Equal(t, GT, LE.Negate())
	assert.Equal(t, GE, LT.Negate())
	assert.Equal(t, EQ, NE.Negate())
}

// canonicalFormOK checks the invariant §4.1 requires of a canonical
// Comparison: either the right side is 0*One, or the left term's key is
// strictly less than the right term's key.
func canonicalFormOK(c Comparison) bool {
	if c.RHS.Coeff.IsZero() {
		_, isOne := c.RHS.Term.(OneTerm)
		return isOne
	}
	return c.LHS.Term.Key() < c.RHS.Term.Key()
}

func TestComparisonCanonizeSatisfiesNormalForm(t *testing.T) {
	x, y := NewVar("x"), NewVar("y")
	cases := []Comparison{
		Lt(Int(3), x),
		Lt(Product(Int(-2), x), Int(4)),
		Lt(Sum(x, y), Int(5)),
		Ge(x, y),
		EqOf(x, Int(7)),
	}
	for _, c := range cases {
		assert.True(t, canonicalFormOK(c), "not in normal form: %v", c)
	}
}

func TestComparisonCanonizeIsIdempotent(t *testing.T) {
	x, y := NewVar("x"), NewVar("y")
	c := Lt(Sum(x, y), Int(5))
	c2 := c.Canonize()
	assert.Equal(t, c.Op, c2.Op)
	assert.Equal(t, c.LHS.Key(), c2.LHS.Key())
	assert.Equal(t, c.RHS.Key(), c2.RHS.Key())
}

func TestComparisonCanonizeSameTermDifferenceStrict(t *testing.T) {
	x := NewVar("x")
	// x < x is identically false; canonical form keeps the strict operator
	// with both sides equal, a marker downstream code treats as
	// unsatisfiable.
	c := Lt(x, x)
	assert.Equal(t, LT, c.Op)
	assert.Equal(t, c.LHS.Key(), c.RHS.Key())
}

func TestComparisonCanonizeSameTermDifferenceNonStrict(t *testing.T) {
	x := NewVar("x")
	c := Le(x, x)
	assert.Equal(t, EQ, c.Op)
	assert.Equal(t, c.LHS.Key(), c.RHS.Key())
}

func TestComparisonCanonizeFoldsNegativeLeadingCoeffReversesOp(t *testing.T) {
	x := NewVar("x")
	// -2x < 4  is equivalent to  x > -2, so after folding the negative
	// leading coefficient into the operator, Lt must have become Gt (or
	// stayed consistent with however the two sides landed).
	a := Lt(Product(Int(-2), x), Int(4))
	b := Gt(Product(Int(2), x), Int(-4))
	assert.Equal(t, a.Op, b.Op)
	assert.Equal(t, a.LHS.Key(), b.LHS.Key())
	assert.Equal(t, a.RHS.Key(), b.RHS.Key())
}

func TestComparisonCanonizePureConstantsReduceToSameTerm(t *testing.T) {
	// 0 < 5 is always true; canonical form reduces both sides to the same
	// underlying term (One), with the operator recording the truth value.
	c := Lt(Int(0), Int(5))
	assert.Equal(t, c.LHS.Term.Key(), c.RHS.Term.Key())
}
