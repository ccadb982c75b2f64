// Package unify implements component C4: the trigger unifier. Given an
// axiom's trigger terms (App-shaped patterns that may mention universally
// quantified variables) and a blackboard, it finds every environment
// binding those variables consistently with an already-named App
// definition on the blackboard (§4.4).
package unify

import (
	"github.com/skaslev/polya/blackboard"
	"github.com/skaslev/polya/matcher"
	"github.com/skaslev/polya/term"
)

// Unify finds environments binding uvars (the full set of an axiom's
// universally quantified variables) against termlist, a list of trigger
// patterns — App terms whose arguments may be UVars, compound expressions
// mentioning UVars, or already-closed terms. envs is the set of partial
// environments to extend (pass a single empty environment, term.Env{}, to
// start from scratch).
//
// argUvars is the subset of uvars that appear as a direct, sole App
// argument somewhere in termlist; only those can ever be bound by reading a
// concrete IVar off a matching blackboard App definition — see the two
// early returns below. Unify picks the head of argUvars, enumerates every
// binding the blackboard offers for it, and for each one substitutes it
// through the rest of termlist before recursing on whatever is still open.
func Unify(b blackboard.Blackboard, termlist []*term.App, uvars []int, argUvars []int, envs []term.Env) ([]term.Env, error) {
	if len(uvars) == 0 {
		// Nothing left to bind.
		return envs, nil
	}
	if len(argUvars) == 0 {
		// §4.4 Open Question: a universally quantified variable that never
		// appears as a direct, sole App argument cannot be bound by reading
		// a concrete IVar off a blackboard term definition — there is no
		// App position to read one from. Rather than erroring, this leaves
		// envs unchanged, preserving the documented limitation: such
		// variables stay unbound and any axiom literal depending on them
		// will later fail to close in axiom.Module.Update.
		return envs, nil
	}

	v := argUvars[0]
	name, arity, ind, coeff, ok := soleArgTrigger(termlist, v)
	if !ok {
		// Invariant violation: v was recorded as an arg_uvar but no trigger
		// in the current termlist carries it alone anymore. This can only
		// happen if a caller hands argUvars that doesn't match termlist;
		// skip v defensively rather than binding it to nothing useful.
		return Unify(b, termlist, dropVar(uvars, v), argUvars[1:], envs)
	}

	var result []term.Env
	for i := 0; i < b.NumTerms(); i++ {
		cand, ok := b.TermDef(i).(*term.App)
		if !ok || cand.Name != name || len(cand.Args) != arity {
			continue
		}
		arg := cand.Args[ind]
		argCoeff, argIdx, err := matcher.FindProblemTerm(b, arg.Term)
		if err != nil {
			continue
		}
		binding := arg.Coeff.Mul(argCoeff).Div(coeff)
		bindEnv := term.Env{}.With(v, binding, argIdx)

		open, ok := closeAgainstBoard(b, termlist, bindEnv)
		if !ok {
			continue
		}

		extended := make([]term.Env, len(envs))
		for j, e := range envs {
			extended[j] = e.With(v, binding, argIdx)
		}

		sub, err := Unify(b, open, dropVar(uvars, v), argUvars[1:], extended)
		if err != nil {
			return nil, err
		}
		result = append(result, sub...)
	}
	return result, nil
}

// soleArgTrigger scans termlist for a trigger in which UVar(v) occurs alone
// (not nested inside a compound expression) at some argument position,
// returning that App's name, arity, the position, and the coefficient v is
// scaled by there.
func soleArgTrigger(termlist []*term.App, v int) (name string, arity, ind int, coeff term.Rational, ok bool) {
	for _, t := range termlist {
		for i, arg := range t.Args {
			if uv, isUVar := arg.Term.(*term.UVar); isUVar && uv.Index == v {
				return t.Name, len(t.Args), i, arg.Coeff, true
			}
		}
	}
	return "", 0, 0, term.Rational{}, false
}

// closeAgainstBoard substitutes bindEnv (a single new UVar binding) through
// every trigger in termlist. A trigger that closes completely must pass
// matcher.FindProblemTerm against the blackboard or the whole candidate is
// rejected; a trigger that's still open (mentions an unbound UVar) carries
// forward, partially substituted, for the next recursive call.
func closeAgainstBoard(b blackboard.Blackboard, termlist []*term.App, bindEnv term.Env) ([]*term.App, bool) {
	var open []*term.App
	for _, t := range termlist {
		s, closed := term.Substitute(t, bindEnv)
		app := s.Term.(*term.App) // Substitute's App case always returns an *App.
		if !closed {
			open = append(open, app)
			continue
		}
		if _, _, err := matcher.FindProblemTerm(b, app); err != nil {
			return nil, false
		}
	}
	return open, true
}

func dropVar(vars []int, v int) []int {
	out := make([]int, 0, len(vars))
	for _, x := range vars {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
