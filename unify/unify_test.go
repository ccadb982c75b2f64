package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skaslev/polya/internal/testboard"
	"github.com/skaslev/polya/matcher"
	"github.com/skaslev/polya/term"
)

// buildPattern constructs the App pattern f(c*UVar(uv)) used by several
// tests: a single-argument trigger with the unification variable as the
// sole (possibly scaled) argument, per §4.4's precondition on arg_uvars.
func buildPattern(name string, uv int, coeff term.Rational) *term.App {
	return &term.App{Name: name, Args: []term.Scaled{{Coeff: coeff, Term: &term.UVar{Index: uv}}}}
}

func TestUnifyFindsEveryMatchingApp(t *testing.T) {
	b := testboard.NewBoard()
	x, y := term.NewVar("x"), term.NewVar("y")
	xi := b.TermName(term.Canonize(x).Term)
	yi := b.TermName(term.Canonize(y).Term)
	b.TermName(term.Canonize(term.NewApp("f", term.S(term.NewIVar(xi)))).Term)
	b.TermName(term.Canonize(term.NewApp("f", term.S(term.NewIVar(yi)))).Term)

	// One environment per matching App, each binding u to that App's
	// argument (x or y), not to the App itself.
	pattern := buildPattern("f", 0, term.One())
	envs, err := Unify(b, []*term.App{pattern}, []int{0}, []int{0}, []term.Env{{}})
	require.NoError(t, err)
	require.Len(t, envs, 2)

	got := map[int]bool{}
	for _, env := range envs {
		binding, ok := env.Lookup(0)
		require.True(t, ok)
		assert.True(t, binding.Coeff.IsOne())
		got[binding.Index] = true
	}
	assert.True(t, got[xi])
	assert.True(t, got[yi])
}

func TestUnifyScaledArgument(t *testing.T) {
	b := testboard.NewBoard()
	x := term.NewVar("x")
	xi := b.TermName(term.Canonize(x).Term)
	fx := b.TermName(term.Canonize(term.NewApp("f", term.Scaled{Coeff: term.FromInt(2), Term: x})).Term)

	// Pattern f(3*u): f's argument is 2*x, so u must bind to (2/3)*xi for
	// 3*u to equal 2*x.
	pattern := buildPattern("f", 0, term.FromInt(3))
	envs, err := Unify(b, []*term.App{pattern}, []int{0}, []int{0}, []term.Env{{}})
	require.NoError(t, err)
	require.Len(t, envs, 1)

	binding, ok := envs[0].Lookup(0)
	require.True(t, ok)
	assert.True(t, binding.Coeff.Equal(term.NewRational(2, 3)))
	assert.Equal(t, xi, binding.Index)
	_ = fx
}

func TestUnifyNoMatchingApp(t *testing.T) {
	b := testboard.NewBoard()
	pattern := buildPattern("f", 0, term.One())
	envs, err := Unify(b, []*term.App{pattern}, []int{0}, []int{0}, []term.Env{{}})
	require.NoError(t, err)
	assert.Empty(t, envs)
}

// No arg_uvars but uvars nonempty: §4.4's documented early return leaves
// envs unchanged rather than enumerating bindings (Open Question 3).
func TestUnifyNoArgUvarsReturnsEnvsUnchanged(t *testing.T) {
	b := testboard.NewBoard()
	envs, err := Unify(b, nil, []int{0}, nil, []term.Env{{}})
	require.NoError(t, err)
	assert.Equal(t, []term.Env{{}}, envs)
}

// Every environment Unify returns must make every trigger pass
// FindProblemTerm when substituted — §8 invariant 6 (unifier soundness).
func TestUnifySoundness(t *testing.T) {
	b := testboard.NewBoard()
	x, y := term.NewVar("x"), term.NewVar("y")
	xi := b.TermName(term.Canonize(x).Term)
	yi := b.TermName(term.Canonize(y).Term)
	b.TermName(term.Canonize(term.NewApp("f", term.S(term.NewIVar(xi)))).Term)
	b.TermName(term.Canonize(term.NewApp("f", term.S(term.NewIVar(yi)))).Term)

	pattern := buildPattern("f", 0, term.One())
	envs, err := Unify(b, []*term.App{pattern}, []int{0}, []int{0}, []term.Env{{}})
	require.NoError(t, err)
	require.NotEmpty(t, envs)

	for _, env := range envs {
		substituted, closed := term.Substitute(pattern, env)
		require.True(t, closed)
		_, _, err := matcher.FindProblemTerm(b, substituted.Term)
		assert.NoError(t, err)
	}
}

// Two triggers sharing a variable: only the environments consistent with
// both survive.
func TestUnifyTwoTriggersIntersect(t *testing.T) {
	b := testboard.NewBoard()
	x, y := term.NewVar("x"), term.NewVar("y")
	xi := b.TermName(term.Canonize(x).Term)
	yi := b.TermName(term.Canonize(y).Term)
	b.TermName(term.Canonize(term.NewApp("f", term.S(term.NewIVar(xi)))).Term)
	b.TermName(term.Canonize(term.NewApp("f", term.S(term.NewIVar(yi)))).Term)
	b.TermName(term.Canonize(term.NewApp("g", term.S(term.NewIVar(xi)))).Term)

	f := buildPattern("f", 0, term.One())
	g := buildPattern("g", 0, term.One())
	envs, err := Unify(b, []*term.App{f, g}, []int{0}, []int{0}, []term.Env{{}})
	require.NoError(t, err)
	require.Len(t, envs, 1)

	binding, ok := envs[0].Lookup(0)
	require.True(t, ok)
	assert.Equal(t, xi, binding.Index)
}

// A trigger whose argument is a compound expression mentioning a UVar
// already bound by an earlier trigger (f(u), f(v), then g((u+v)/2)) must
// have that UVar substituted before the compound expression is checked
// against the blackboard. Before the fix, the third trigger's pattern
// argument was handed to matcher.FindProblemTerm in raw, unsubstituted
// form — (u+v)/2, still containing UVars — which never matches anything,
// so the whole axiom's unification silently produced zero environments.
func TestUnifyCompoundArgumentReusesBoundVar(t *testing.T) {
	b := testboard.NewBoard()
	x, y := term.NewVar("x"), term.NewVar("y")
	xi := b.TermName(term.Canonize(x).Term)
	yi := b.TermName(term.Canonize(y).Term)
	ix, iy := term.NewIVar(xi), term.NewIVar(yi)

	b.TermName(term.Canonize(term.NewApp("f", term.S(ix))).Term)
	b.TermName(term.Canonize(term.NewApp("f", term.S(iy))).Term)
	sumIdx := b.TermName(term.Canonize(term.NewAdd(term.S(ix), term.S(iy))).Term)
	midIdx := b.TermName(term.Canonize(term.NewApp("g", term.Scaled{Coeff: term.NewRational(1, 2), Term: term.NewIVar(sumIdx)})).Term)

	u, v := term.NewUVar(0), term.NewUVar(1)
	fu := buildPattern("f", 0, term.One())
	fv := buildPattern("f", 1, term.One())
	compound := &term.App{
		Name: "g",
		Args: []term.Scaled{{Coeff: term.NewRational(1, 2), Term: term.NewAdd(term.S(u), term.S(v))}},
	}

	envs, err := Unify(b, []*term.App{fu, fv, compound}, []int{0, 1}, []int{0, 1}, []term.Env{{}})
	require.NoError(t, err)
	require.NotEmpty(t, envs)

	found := false
	for _, env := range envs {
		ub, ok := env.Lookup(0)
		require.True(t, ok)
		vb, ok := env.Lookup(1)
		require.True(t, ok)
		if ub.Index == xi && vb.Index == yi {
			found = true
		}
	}
	assert.True(t, found, "expected an environment binding u=x, v=y, confirming the compound trigger matched midIdx=%d", midIdx)
}
