package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skaslev/polya/internal/testboard"
	"github.com/skaslev/polya/term"
)

func TestFindProblemTermDirectHit(t *testing.T) {
	b := testboard.NewBoard()
	x := term.NewVar("x")
	xi := b.TermName(term.Canonize(x).Term)

	c, idx, err := FindProblemTerm(b, x)
	require.NoError(t, err)
	assert.True(t, c.IsOne())
	assert.Equal(t, xi, idx)
}

func TestFindProblemTermScaledDirectHit(t *testing.T) {
	b := testboard.NewBoard()
	x := term.NewVar("x")
	xi := b.TermName(term.Canonize(x).Term)

	// 3*x should resolve to (3, xi).
	c, idx, err := FindProblemTerm(b, term.Product(term.Int(3), x))
	require.NoError(t, err)
	assert.True(t, c.Equal(term.FromInt(3)))
	assert.Equal(t, xi, idx)
}

func TestFindProblemTermUnknownFails(t *testing.T) {
	b := testboard.NewBoard()
	_, _, err := FindProblemTerm(b, term.NewVar("z"))
	assert.ErrorIs(t, err, ErrNoTerm)
}

// Additive FM elimination: x and y are each named, x is known equal to
// 2*y, and the query sum x-2*y (not itself named) should reduce to exactly
// zero via elimination — the §4.3 "1 nonzero" (sentinel-only) case.
func TestFindProblemTermAdditiveEliminationToZero(t *testing.T) {
	b := testboard.NewBoard()
	x, y := term.NewVar("x"), term.NewVar("y")
	b.TermName(term.Canonize(x).Term)
	b.TermName(term.Canonize(y).Term)

	require.NoError(t, b.AssertComparisons(term.EqOf(x, term.Product(term.Int(2), y))))

	c, idx, err := FindProblemTerm(b, term.Sub(x, term.Product(term.Int(2), y)))
	require.NoError(t, err)
	assert.True(t, c.IsZero())
	assert.Equal(t, 0, idx)
}

// Additive FM elimination, the "2 nonzero" success case: x and y are each
// named and known equal (coeff 1); the unnamed sum x+y should reduce,
// after eliminating x via the equality row, to 2*IVar(y).
func TestFindProblemTermAdditiveEliminationToNamedTerm(t *testing.T) {
	b := testboard.NewBoard()
	x, y := term.NewVar("x"), term.NewVar("y")
	b.TermName(term.Canonize(x).Term)
	yi := b.TermName(term.Canonize(y).Term)

	require.NoError(t, b.AssertComparisons(term.EqOf(x, y)))

	c, idx, err := FindProblemTerm(b, term.Sum(x, y))
	require.NoError(t, err)
	assert.True(t, c.Equal(term.FromInt(2)))
	assert.Equal(t, yi, idx)
}

// Additive FM elimination through a two-step equality chain: x=2y and
// y=3z are both known, neither alone lets x-6z collapse, but eliminating
// x via the first equality and then y via the second should still carry
// the substitution all the way through to the sentinel-only zero case —
// confirming the single left-to-right column sweep performs a genuine
// forward substitution (each elimination step updates every remaining
// row, not just the goal) rather than only handling one equality step.
func TestFindProblemTermAdditiveEliminationChainsThroughTwoEqualities(t *testing.T) {
	b := testboard.NewBoard()
	x, y, z := term.NewVar("x"), term.NewVar("y"), term.NewVar("z")
	b.TermName(term.Canonize(x).Term)
	b.TermName(term.Canonize(y).Term)
	b.TermName(term.Canonize(z).Term)

	require.NoError(t, b.AssertComparisons(term.EqOf(x, term.Product(term.Int(2), y))))
	require.NoError(t, b.AssertComparisons(term.EqOf(y, term.Product(term.Int(3), z))))

	c, idx, err := FindProblemTerm(b, term.Sub(x, term.Product(term.Int(6), z)))
	require.NoError(t, err)
	assert.True(t, c.IsZero())
	assert.Equal(t, 0, idx)
}

func TestFindProblemTermAbs(t *testing.T) {
	b := testboard.NewBoard()
	x := term.NewVar("x")
	xi := b.TermName(term.Canonize(x).Term)
	absIdx := b.TermName(term.Canonize(term.AbsOf(x)).Term)

	c, idx, err := FindProblemTerm(b, term.AbsOf(x))
	require.NoError(t, err)
	assert.True(t, c.IsOne())
	assert.Equal(t, absIdx, idx)
	_ = xi
}

func TestFindProblemTermApp(t *testing.T) {
	b := testboard.NewBoard()
	x := term.NewVar("x")
	fx := term.NewApp("f", term.S(x))
	fxIdx := b.TermName(term.Canonize(fx).Term)

	c, idx, err := FindProblemTerm(b, fx)
	require.NoError(t, err)
	assert.True(t, c.IsOne())
	assert.Equal(t, fxIdx, idx)
}

func TestFindProblemTermAppArgViaZero(t *testing.T) {
	b := testboard.NewBoard()
	x, y := term.NewVar("x"), term.NewVar("y")
	xi := b.TermName(term.Canonize(x).Term)
	_ = xi
	// f(x) is named; x-y is known to be zero (x == y), so f(y) should
	// resolve to the same index via the equality branch of reconcile, the
	// recorded x = 1*y (§4.3 App case).
	fx := term.NewApp("f", term.S(x))
	fxIdx := b.TermName(term.Canonize(fx).Term)
	require.NoError(t, b.AssertComparisons(term.EqOf(x, y)))

	fy := term.NewApp("f", term.S(y))
	c, idx, err := FindProblemTerm(b, fy)
	require.NoError(t, err)
	assert.True(t, c.IsOne())
	assert.Equal(t, fxIdx, idx)
}
