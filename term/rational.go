package term

import (
	"fmt"
	"math/big"
)

// Rational represents an exact rational number (fraction) with arbitrary
// precision numerator and denominator.
//
// Rationals are always stored in normalized form (reduced to lowest terms,
// positive denominator). This enables exact representation of fractional
// coefficients without floating-point errors, which §4.6 requires throughout
// the core: Fourier-Motzkin elimination chains together pivot ratios across
// up to num_terms rows, and machine-word integers would silently overflow
// long before a fixed-size int would notice.
type Rational struct {
	num *big.Int // numerator
	den *big.Int // denominator, always > 0 after normalization
}

// NewRational creates a rational number num/den in normalized form.
// Panics if den is zero — an attempt to construct 1/0 is a programmer
// error, not a runtime condition (§7).
func NewRational(num, den int64) Rational {
	return NewRationalBig(big.NewInt(num), big.NewInt(den))
}

// NewRationalBig is NewRational for arbitrary-precision operands.
func NewRationalBig(num, den *big.Int) Rational {
	if den.Sign() == 0 {
		panic("term: rational division by zero")
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
	if g.Sign() != 0 {
		n.Div(n, g)
		d.Div(d, g)
	}
	return Rational{num: n, den: d}
}

// FromInt builds the rational n/1.
func FromInt(n int64) Rational {
	return NewRational(n, 1)
}

// Zero is the rational 0/1.
func Zero() Rational { return FromInt(0) }

// One is the rational 1/1.
func One() Rational { return FromInt(1) }

func (r Rational) normalizedOrOne() Rational {
	if r.den == nil {
		return One()
	}
	return r
}

// Num returns the normalized numerator.
func (r Rational) Num() *big.Int { return new(big.Int).Set(r.normalizedOrOne().num) }

// Den returns the normalized (positive) denominator.
func (r Rational) Den() *big.Int { return new(big.Int).Set(r.normalizedOrOne().den) }

// Add returns r + other.
func (r Rational) Add(other Rational) Rational {
	r, other = r.normalizedOrOne(), other.normalizedOrOne()
	n := new(big.Int).Add(new(big.Int).Mul(r.num, other.den), new(big.Int).Mul(other.num, r.den))
	d := new(big.Int).Mul(r.den, other.den)
	return NewRationalBig(n, d)
}

// Sub returns r - other.
func (r Rational) Sub(other Rational) Rational {
	return r.Add(other.Neg())
}

// Mul returns r * other.
func (r Rational) Mul(other Rational) Rational {
	r, other = r.normalizedOrOne(), other.normalizedOrOne()
	n := new(big.Int).Mul(r.num, other.num)
	d := new(big.Int).Mul(r.den, other.den)
	return NewRationalBig(n, d)
}

// Div returns r / other. Panics if other is zero.
func (r Rational) Div(other Rational) Rational {
	other = other.normalizedOrOne()
	if other.num.Sign() == 0 {
		panic("term: rational division by zero")
	}
	r = r.normalizedOrOne()
	n := new(big.Int).Mul(r.num, other.den)
	d := new(big.Int).Mul(r.den, other.num)
	return NewRationalBig(n, d)
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	r = r.normalizedOrOne()
	return Rational{num: new(big.Int).Neg(r.num), den: new(big.Int).Set(r.den)}
}

// Abs returns |r|.
func (r Rational) Abs() Rational {
	r = r.normalizedOrOne()
	if r.num.Sign() < 0 {
		return r.Neg()
	}
	return r
}

// Inv returns 1/r. Panics if r is zero.
func (r Rational) Inv() Rational {
	r = r.normalizedOrOne()
	if r.num.Sign() == 0 {
		panic("term: rational inverse of zero")
	}
	return NewRationalBig(r.den, r.num)
}

// Sign returns -1, 0, or 1 according to the sign of r.
func (r Rational) Sign() int { return r.normalizedOrOne().num.Sign() }

// IsZero reports whether r is 0.
func (r Rational) IsZero() bool { return r.Sign() == 0 }

// IsOne reports whether r is exactly 1.
func (r Rational) IsOne() bool {
	r = r.normalizedOrOne()
	return r.num.Cmp(r.den) == 0 && r.num.Sign() > 0
}

// IsInteger reports whether r has denominator 1.
func (r Rational) IsInteger() bool {
	return r.normalizedOrOne().den.Cmp(big.NewInt(1)) == 0
}

// Cmp returns -1, 0, or +1 as r is less than, equal to, or greater than other.
func (r Rational) Cmp(other Rational) int {
	r, other = r.normalizedOrOne(), other.normalizedOrOne()
	lhs := new(big.Int).Mul(r.num, other.den)
	rhs := new(big.Int).Mul(other.num, r.den)
	return lhs.Cmp(rhs)
}

// Equal reports whether r and other represent the same rational number.
func (r Rational) Equal(other Rational) bool { return r.Cmp(other) == 0 }

// Pow raises r to the integer power n (n may be negative; r must be nonzero
// in that case, a programmer error otherwise per §7).
func (r Rational) Pow(n int) Rational {
	if n == 0 {
		return One()
	}
	base := r
	neg := n < 0
	if neg {
		n = -n
	}
	result := One()
	for i := 0; i < n; i++ {
		result = result.Mul(base)
	}
	if neg {
		result = result.Inv()
	}
	return result
}

// String renders r as "num/den", or "num" when the denominator is 1.
func (r Rational) String() string {
	r = r.normalizedOrOne()
	if r.den.Cmp(big.NewInt(1)) == 0 {
		return r.num.String()
	}
	return fmt.Sprintf("%s/%s", r.num.String(), r.den.String())
}
