package term

import "sort"

// Canonize puts a term in canonical normal form and returns the leading
// Scaled (§4.1). It is the single recursive entry point every other
// algorithm in the core builds on: the matcher and unifier only ever see
// canonical terms.
func Canonize(t Term) Scaled {
	switch v := t.(type) {
	case OneTerm:
		return Scaled{Coeff: One(), Term: NewOne()}
	case *Var, *IVar, *UVar:
		return Scaled{Coeff: One(), Term: v}
	case *Add:
		return canonizeAdd(v)
	case *Mul:
		return canonizeMul(v)
	case *Abs:
		return canonizeAbs(v)
	case *Min:
		return canonizeMin(v)
	case *App:
		return canonizeApp(v)
	default:
		panic("term: Canonize: unrecognized term variant")
	}
}

// addTerm is one summand in a flattened, not-yet-combined sum.
type addTerm struct {
	term  Term
	coeff Rational
}

// flattenAddArg expands one raw Scaled summand of an Add into flat addTerms,
// recursively canonizing it and splicing in the summands of a nested
// canonical Add (one level, since a canonical Add never itself contains a
// nested Add — invariant 1).
func flattenAddArg(raw Scaled) []addTerm {
	inner := Canonize(raw.Term)
	effCoeff := raw.Coeff.Mul(inner.Coeff)
	if effCoeff.IsZero() {
		return nil
	}
	if innerAdd, ok := inner.Term.(*Add); ok {
		var out []addTerm
		for _, sub := range innerAdd.Args {
			c := effCoeff.Mul(sub.Coeff)
			if !c.IsZero() {
				out = append(out, addTerm{term: sub.Term, coeff: c})
			}
		}
		return out
	}
	return []addTerm{{term: inner.Term, coeff: effCoeff}}
}

// combineAddFlat merges already-flat addTerms by term key, drops
// zero-coefficient entries, sorts, and lifts the leading coefficient out to
// the enclosing Scaled (§3 invariant 1). Shared by canonizeAdd (whose
// summands still need recursive canonization) and Substitute (whose
// summands are already canonical, mirroring the reference's reduce_term,
// which combines via plain STerm addition without recanonizing).
func combineAddFlat(flat []addTerm) Scaled {
	index := map[Key]int{}
	var combined []addTerm
	for _, f := range flat {
		k := f.term.Key()
		if i, ok := index[k]; ok {
			combined[i].coeff = combined[i].coeff.Add(f.coeff)
		} else {
			index[k] = len(combined)
			combined = append(combined, f)
		}
	}
	nonzero := combined[:0]
	for _, c := range combined {
		if !c.coeff.IsZero() {
			nonzero = append(nonzero, c)
		}
	}
	combined = nonzero

	if len(combined) == 0 {
		return Scaled{Coeff: Zero(), Term: NewOne()}
	}
	if len(combined) == 1 {
		// Collapse a sum with a single surviving summand to that summand
		// itself rather than re-wrapping in a one-element Add. The
		// reference (terms.py AddTerm.canonize) always re-wraps, even for
		// one argument, relying on pretty_print to hide the wrapper — but
		// that leaves two semantically identical terms (e.g. `y` and
		// `y + 0`) with different canonical keys, which breaks the
		// key-equality identity the matcher and blackboard are built on.
		// Resolved here in favor of the collapse.
		return Scaled{Coeff: combined[0].coeff, Term: combined[0].term}
	}

	sort.Slice(combined, func(i, j int) bool { return combined[i].term.Key() < combined[j].term.Key() })

	leading := combined[0].coeff
	args := make([]Scaled, len(combined))
	for i, c := range combined {
		args[i] = Scaled{Coeff: c.coeff.Div(leading), Term: c.term}
	}
	return Scaled{Coeff: leading, Term: &Add{Args: args}}
}

// canonizeAdd implements §4.1's Add rule: flatten nested canonical sums,
// combine matching term keys by summing coefficients, drop zero-coefficient
// entries, sort by key, and lift the (now-leading) first entry's
// coefficient out to the enclosing Scaled so that entry's own coefficient
// becomes 1 (§3 invariant 1).
func canonizeAdd(a *Add) Scaled {
	var flat []addTerm
	for _, raw := range a.Args {
		flat = append(flat, flattenAddArg(raw)...)
	}
	return combineAddFlat(flat)
}

// canonizeMul implements §4.1's Mul rule: flatten nested canonical products
// (distributing the outer exponent into an already-canonical Mul base, the
// reference's MulTerm.__pow__ special case), combine matching term keys by
// summing exponents, drop zero-exponent entries, multiply extracted
// scalars, sort by key. Unlike Add, no leading-exponent normalization is
// performed (exponents are integers, not generally invertible).
// mulTerm is one factor in a flattened, not-yet-combined product.
type mulTerm struct {
	term Term
	exp  int
}

// flattenMulArg expands one raw MulPair factor of a Mul into flat mulTerms
// plus its contribution to the extracted scalar, recursively canonizing it
// and distributing the outer exponent into a nested canonical Mul base (the
// reference's MulTerm.__pow__ special case for an already-multiplicative
// base).
func flattenMulArg(raw MulPair) (Rational, []mulTerm) {
	inner := Canonize(raw.Term)
	scalar := inner.Coeff.Pow(raw.Exp)
	switch it := inner.Term.(type) {
	case OneTerm:
		return scalar, nil
	case *Mul:
		out := make([]mulTerm, len(it.Args))
		for i, p := range it.Args {
			out[i] = mulTerm{term: p.Term, exp: p.Exp * raw.Exp}
		}
		return scalar, out
	default:
		return scalar, []mulTerm{{term: it, exp: raw.Exp}}
	}
}

// combineMulFlat merges already-flat mulTerms by term key, drops
// zero-exponent entries, and sorts. Shared by canonizeMul and Substitute.
func combineMulFlat(scalar Rational, flat []mulTerm) Scaled {
	index := map[Key]int{}
	var combined []mulTerm
	for _, f := range flat {
		k := f.term.Key()
		if i, ok := index[k]; ok {
			combined[i].exp += f.exp
		} else {
			index[k] = len(combined)
			combined = append(combined, f)
		}
	}
	nonzero := combined[:0]
	for _, c := range combined {
		if c.exp != 0 {
			nonzero = append(nonzero, c)
		}
	}
	combined = nonzero

	if len(combined) == 0 {
		return Scaled{Coeff: scalar, Term: NewOne()}
	}
	if len(combined) == 1 && combined[0].exp == 1 {
		// As with Add, collapse a single surviving factor with exponent 1
		// to the bare term rather than re-wrapping in a one-element Mul,
		// for the same key-equality reason. A surviving factor with a
		// nontrivial exponent still needs the Mul wrapper: Scaled has no
		// field to carry an exponent.
		return Scaled{Coeff: scalar, Term: combined[0].term}
	}

	sort.Slice(combined, func(i, j int) bool { return combined[i].term.Key() < combined[j].term.Key() })

	pairs := make([]MulPair, len(combined))
	for i, c := range combined {
		pairs[i] = MulPair{Term: c.term, Exp: c.exp}
	}
	return Scaled{Coeff: scalar, Term: &Mul{Args: pairs}}
}

func canonizeMul(m *Mul) Scaled {
	scalar := One()
	var flat []mulTerm
	for _, raw := range m.Args {
		s, fs := flattenMulArg(raw)
		scalar = scalar.Mul(s)
		flat = append(flat, fs...)
	}
	return combineMulFlat(scalar, flat)
}

// canonizeAbs implements §4.1's Abs rule and invariant 4: pull |coeff| out,
// wrap the remainder in Abs — unless the remainder is already 1 (|c|*1) or
// already an Abs (idempotent, matching the reference's AbsTerm.__abs__
// returning self).
func canonizeAbs(a *Abs) Scaled {
	inner := Canonize(a.Arg)
	coeff := inner.Coeff.Abs()
	switch inner.Term.(type) {
	case OneTerm:
		return Scaled{Coeff: coeff, Term: NewOne()}
	case *Abs:
		return Scaled{Coeff: coeff, Term: inner.Term}
	default:
		return Scaled{Coeff: coeff, Term: &Abs{Arg: inner.Term}}
	}
}

// canonizeMin canonizes each argument and removes exact duplicates,
// sorting by key. The reference leaves Min/Max arithmetic simplification
// unimplemented (terms.py's MinTerm carries a literal "not implemented
// yet" TODO for binary min/max combination); this port preserves that
// documented gap rather than inventing simplification rules the spec never
// states.
func canonizeMin(m *Min) Scaled {
	seen := map[Key]bool{}
	var args []Scaled
	for _, raw := range m.Args {
		inner := Canonize(raw.Term)
		s := Scaled{Coeff: raw.Coeff.Mul(inner.Coeff), Term: inner.Term}
		k := s.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		args = append(args, s)
	}
	sort.Slice(args, func(i, j int) bool { return args[i].Term.Key() < args[j].Term.Key() })
	if len(args) == 1 {
		return args[0]
	}
	return Scaled{Coeff: One(), Term: &Min{Args: args}}
}

// canonizeApp implements §4.1's App rule: canonicalize each argument
// independently, keeping the function name, and preserving the per-argument
// scalar rather than lifting it to the enclosing Scaled (an uninterpreted
// function does not distribute over scalar multiplication).
func canonizeApp(a *App) Scaled {
	args := make([]Scaled, len(a.Args))
	for i, raw := range a.Args {
		inner := Canonize(raw.Term)
		args[i] = Scaled{Coeff: raw.Coeff.Mul(inner.Coeff), Term: inner.Term}
	}
	return Scaled{Coeff: One(), Term: &App{Name: a.Name, Args: args}}
}
