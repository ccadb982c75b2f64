package term

import "sort"

// Binding is one entry of an Env: UVar index `UVar` is bound to
// `Coeff * IVar(Index)` (§3, §4.1).
type Binding struct {
	UVar  int
	Coeff Rational
	Index int
}

// Env is a partial map from UVar index to (coeff, IVar-index), implemented
// as a sorted flat slice rather than a hash map: per SPEC_FULL.md §9, a
// sorted flat vector outperforms a map at the expected axiom sizes (at most
// ~10 variables) and keeps Env trivially comparable/copyable.
type Env []Binding

// Lookup returns the binding for uvar, if any.
func (e Env) Lookup(uvar int) (Binding, bool) {
	i := sort.Search(len(e), func(i int) bool { return e[i].UVar >= uvar })
	if i < len(e) && e[i].UVar == uvar {
		return e[i], true
	}
	return Binding{}, false
}

// With returns a new Env extending e with a binding for uvar, keeping the
// slice sorted by UVar index. e is not mutated.
func (e Env) With(uvar int, coeff Rational, index int) Env {
	out := make(Env, 0, len(e)+1)
	inserted := false
	for _, b := range e {
		if !inserted && uvar < b.UVar {
			out = append(out, Binding{UVar: uvar, Coeff: coeff, Index: index})
			inserted = true
		}
		out = append(out, b)
	}
	if !inserted {
		out = append(out, Binding{UVar: uvar, Coeff: coeff, Index: index})
	}
	return out
}

// Clone returns an independent copy of e.
func (e Env) Clone() Env {
	out := make(Env, len(e))
	copy(out, e)
	return out
}

// Substitute replaces every UVar bound in env with coeff*IVar(index) and
// returns the resulting Scaled along with a flag reporting whether every
// UVar occurrence was resolved (§4.1). Unrecognized UVars pass through
// unchanged and clear the flag, mirroring the reference's reduce_term.
func Substitute(t Term, env Env) (Scaled, bool) {
	switch v := t.(type) {
	case OneTerm:
		return Scaled{Coeff: One(), Term: NewOne()}, true
	case *Var, *IVar:
		return Scaled{Coeff: One(), Term: v}, true
	case *UVar:
		if b, ok := env.Lookup(v.Index); ok {
			return Scaled{Coeff: b.Coeff, Term: &IVar{Index: b.Index}}, true
		}
		return Scaled{Coeff: One(), Term: v}, false
	case *Add:
		closed := true
		var flat []addTerm
		for _, raw := range v.Args {
			s, ok := Substitute(raw.Term, env)
			closed = closed && ok
			c := raw.Coeff.Mul(s.Coeff)
			if c.IsZero() {
				continue
			}
			if innerAdd, isAdd := s.Term.(*Add); isAdd {
				for _, sub := range innerAdd.Args {
					cc := c.Mul(sub.Coeff)
					if !cc.IsZero() {
						flat = append(flat, addTerm{term: sub.Term, coeff: cc})
					}
				}
				continue
			}
			flat = append(flat, addTerm{term: s.Term, coeff: c})
		}
		return combineAddFlat(flat), closed
	case *Mul:
		closed := true
		scalar := One()
		var flat []mulTerm
		for _, raw := range v.Args {
			s, ok := Substitute(raw.Term, env)
			closed = closed && ok
			scalar = scalar.Mul(s.Coeff.Pow(raw.Exp))
			switch st := s.Term.(type) {
			case OneTerm:
			case *Mul:
				for _, p := range st.Args {
					flat = append(flat, mulTerm{term: p.Term, exp: p.Exp * raw.Exp})
				}
			default:
				flat = append(flat, mulTerm{term: st, exp: raw.Exp})
			}
		}
		return combineMulFlat(scalar, flat), closed
	case *App:
		closed := true
		args := make([]Scaled, len(v.Args))
		for i, raw := range v.Args {
			s, ok := Substitute(raw.Term, env)
			closed = closed && ok
			args[i] = Scaled{Coeff: raw.Coeff.Mul(s.Coeff), Term: s.Term}
		}
		return Scaled{Coeff: One(), Term: &App{Name: v.Name, Args: args}}, closed
	case *Abs:
		s, ok := Substitute(v.Arg, env)
		coeff := s.Coeff.Abs()
		switch s.Term.(type) {
		case OneTerm:
			return Scaled{Coeff: coeff, Term: NewOne()}, ok
		case *Abs:
			return Scaled{Coeff: coeff, Term: s.Term}, ok
		default:
			return Scaled{Coeff: coeff, Term: &Abs{Arg: s.Term}}, ok
		}
	case *Min:
		closed := true
		args := make([]Scaled, len(v.Args))
		for i, raw := range v.Args {
			s, ok := Substitute(raw.Term, env)
			closed = closed && ok
			args[i] = Scaled{Coeff: raw.Coeff.Mul(s.Coeff), Term: s.Term}
		}
		return Scaled{Coeff: One(), Term: &Min{Args: args}}, closed
	default:
		panic("term: Substitute: unrecognized term variant")
	}
}
