// Package term implements Polya's canonicalized term algebra (§3-§4.1 of
// SPEC_FULL.md / spec.md's component C1): an immutable representation of
// arithmetic expressions over variables, scaled sums, products with integer
// exponents, absolute value, min/max, and uninterpreted function
// application, with a stable comparison key and a canonical normal form.
//
// Terms are built via the constructors in this file and builder.go (an
// uncanonicalized "raw" form, mirroring how the reference's operator
// overloading assembled expressions) and normalized on demand with
// Canonize. Relational construction (term1 < term2, and so on) is a
// separate layer (comparison.go) returning Comparison values, never bool —
// Go has no operator overloading, so the reference's dual use of Python's
// comparison operators to both build and evaluate expressions is split into
// two explicit APIs, per SPEC_FULL.md §9.
package term

import (
	"fmt"
	"sort"
	"strings"
)

// printLevel classifies a pretty-printed term so a parent knows whether it
// needs parentheses (§4.1 pretty_print in the original).
type printLevel int

const (
	LevelAtom printLevel = iota
	LevelSum
	LevelProduct
)

// Term is the common interface implemented by every term variant: One, Var,
// IVar, UVar, Add, Mul, Abs, Min, App.
type Term interface {
	// Kind identifies the variant, used for exhaustive type switches.
	Kind() Kind
	// Key returns the term's canonical comparison key.
	Key() Key
	// String renders the term for diagnostics.
	String() string
	// pretty returns (level, text) for parenthesization decisions.
	pretty() (printLevel, string)
}

// ---------------------------------------------------------------------
// Atoms
// ---------------------------------------------------------------------

// OneTerm is the constant 1. Use NewOne() to build it (there is a single
// canonical instance per SPEC_FULL.md's "global mutable state" note, but it
// carries no state so sharing is purely an optimization, not a correctness
// requirement).
type OneTerm struct{}

func NewOne() OneTerm { return OneTerm{} }

func (OneTerm) Kind() Kind                 { return KindOne }
func (OneTerm) Key() Key                   { return buildKey(KindOne, "1") }
func (t OneTerm) String() string           { _, s := t.pretty(); return s }
func (OneTerm) pretty() (printLevel, string) { return LevelAtom, "1" }

// Var is a user-facing variable, scoped outside the blackboard (e.g. the
// outer `x`, `y` a caller writes hypotheses in terms of).
type Var struct {
	Name string
}

func NewVar(name string) *Var { return &Var{Name: name} }

func (v *Var) Kind() Kind       { return KindVar }
func (v *Var) Key() Key         { return buildKey(KindVar, v.Name) }
func (v *Var) String() string   { _, s := v.pretty(); return s }
func (v *Var) pretty() (printLevel, string) { return LevelAtom, v.Name }

// IVar names a problem term: an index into the blackboard (§3, §4.2).
type IVar struct {
	Index int
}

func NewIVar(index int) *IVar { return &IVar{Index: index} }

func (v *IVar) Kind() Kind     { return KindIVar }
func (v *IVar) Key() Key       { return buildKey(KindIVar, itoa(v.Index)) }
func (v *IVar) String() string { _, s := v.pretty(); return s }
func (v *IVar) pretty() (printLevel, string) {
	return LevelAtom, fmt.Sprintf("t%d", v.Index)
}

// UVar is a unification variable, scoped to a single axiom (§3).
type UVar struct {
	Index int
}

func NewUVar(index int) *UVar { return &UVar{Index: index} }

func (v *UVar) Kind() Kind     { return KindUVar }
func (v *UVar) Key() Key       { return buildKey(KindUVar, itoa(v.Index)) }
func (v *UVar) String() string { _, s := v.pretty(); return s }
func (v *UVar) pretty() (printLevel, string) {
	return LevelAtom, fmt.Sprintf("u%d", v.Index)
}

// ---------------------------------------------------------------------
// Scaled and MulPair
// ---------------------------------------------------------------------

// Scaled (the reference's STerm) is a pair (coeff, term) representing
// coeff*term. When Coeff is zero the Term field is normalized to One (§3,
// invariant 3).
type Scaled struct {
	Coeff Rational
	Term  Term
}

// NewScaled builds coeff*t, normalizing a zero coefficient to One per §3.
func NewScaled(coeff Rational, t Term) Scaled {
	if coeff.IsZero() {
		return Scaled{Coeff: Zero(), Term: NewOne()}
	}
	return Scaled{Coeff: coeff, Term: t}
}

// Key returns (term.key, coeff) per §3.
func (s Scaled) Key() Key { return scaledKey(s.Coeff, s.Term.Key()) }

func (s Scaled) String() string { _, str := s.pretty(); return str }

func (s Scaled) pretty() (printLevel, string) {
	if s.Coeff.IsZero() {
		return LevelAtom, "0"
	}
	if s.Coeff.IsOne() {
		return s.Term.pretty()
	}
	if _, ok := s.Term.(OneTerm); ok {
		return LevelProduct, s.Coeff.String()
	}
	lt, st := s.Term.pretty()
	switch lt {
	case LevelSum:
		return LevelProduct, fmt.Sprintf("%s*(%s)", s.Coeff.String(), st)
	default:
		return LevelProduct, fmt.Sprintf("%s*%s", s.Coeff.String(), st)
	}
}

// MulPair is a (term, exponent) pair appearing inside a Mul (§3).
type MulPair struct {
	Term Term
	Exp  int
}

func (p MulPair) Key() Key { return buildKey(KindMul, itoa(p.Exp), p.Term.Key()) }

func (p MulPair) String() string { _, s := p.pretty(); return s }

func (p MulPair) pretty() (printLevel, string) {
	if p.Exp == 1 {
		return p.Term.pretty()
	}
	l, s := p.Term.pretty()
	if l == LevelAtom {
		return LevelAtom, fmt.Sprintf("%s^%d", s, p.Exp)
	}
	return LevelAtom, fmt.Sprintf("(%s)^%d", s, p.Exp)
}

// ---------------------------------------------------------------------
// Compound terms
// ---------------------------------------------------------------------

// Add is Sigma c_i * s_i, an uncanonicalized (or canonical, depending on
// provenance) sum of Scaled terms (§3).
type Add struct {
	Args []Scaled
}

// NewAdd builds a raw (not necessarily canonical) sum. Canonize normalizes
// it: sorted args, no duplicate term-keys, leading coefficient 1.
func NewAdd(args ...Scaled) Term {
	if len(args) == 0 {
		return NewOne()
	}
	return &Add{Args: args}
}

func (a *Add) Kind() Kind { return KindAdd }

func (a *Add) Key() Key {
	children := make([]Key, len(a.Args))
	for i, arg := range a.Args {
		children[i] = arg.Key()
	}
	return buildKey(KindAdd, "sum", children...)
}

func (a *Add) String() string { _, s := a.pretty(); return s }

func (a *Add) pretty() (printLevel, string) {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		_, parts[i] = arg.pretty()
	}
	return LevelSum, strings.Join(parts, " + ")
}

// Mul is Pi t_i^n_i, an uncanonicalized (or canonical) product of MulPairs
// (§3).
type Mul struct {
	Args []MulPair
}

// NewMul builds a raw product of MulPairs.
func NewMul(args ...MulPair) Term {
	if len(args) == 0 {
		return NewOne()
	}
	return &Mul{Args: args}
}

func (m *Mul) Kind() Kind { return KindMul }

func (m *Mul) Key() Key {
	children := make([]Key, len(m.Args))
	for i, arg := range m.Args {
		children[i] = arg.Key()
	}
	return buildKey(KindMul, "prod", children...)
}

func (m *Mul) String() string { _, s := m.pretty(); return s }

func (m *Mul) pretty() (printLevel, string) {
	if len(m.Args) == 1 {
		return m.Args[0].pretty()
	}
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		lvl, s := a.pretty()
		if lvl == LevelSum {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return LevelProduct, strings.Join(parts, " * ")
}

// Abs is |arg| (§3).
type Abs struct {
	Arg Term
}

func NewAbs(arg Term) Term { return &Abs{Arg: arg} }

func (a *Abs) Kind() Kind { return KindAbs }
func (a *Abs) Key() Key   { return buildKey(KindAbs, "abs", a.Arg.Key()) }
func (a *Abs) String() string { _, s := a.pretty(); return s }
func (a *Abs) pretty() (printLevel, string) {
	_, s := a.Arg.pretty()
	return LevelAtom, fmt.Sprintf("abs(%s)", s)
}

// Min is the minimum of its args; max is encoded as -Min(-args...) (§3).
type Min struct {
	Args []Scaled
}

func NewMin(args ...Scaled) Term { return &Min{Args: args} }

func (m *Min) Kind() Kind { return KindMin }

func (m *Min) Key() Key {
	children := make([]Key, len(m.Args))
	for i, arg := range m.Args {
		children[i] = arg.Key()
	}
	return buildKey(KindMin, "min", children...)
}

func (m *Min) String() string { _, s := m.pretty(); return s }
func (m *Min) pretty() (printLevel, string) {
	parts := make([]string, len(m.Args))
	for i, a := range m.Args {
		_, parts[i] = a.pretty()
	}
	return LevelAtom, fmt.Sprintf("min(%s)", strings.Join(parts, ", "))
}

// App is an uninterpreted function application: name(args...), each
// argument a Scaled (§3).
type App struct {
	Name string
	Args []Scaled
}

// NewApp builds f(args...).
func NewApp(name string, args ...Scaled) Term { return &App{Name: name, Args: args} }

func (a *App) Kind() Kind { return KindApp }

func (a *App) Key() Key {
	children := make([]Key, len(a.Args))
	for i, arg := range a.Args {
		children[i] = arg.Key()
	}
	return buildKey(KindApp, a.Name, children...)
}

func (a *App) String() string { _, s := a.pretty(); return s }
func (a *App) pretty() (printLevel, string) {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		_, parts[i] = arg.pretty()
	}
	return LevelAtom, fmt.Sprintf("%s(%s)", a.Name, strings.Join(parts, ", "))
}

// Func is a named, optionally fixed-arity uninterpreted function, mirroring
// the reference's Func helper (terms.py Func class).
type Func struct {
	Name  string
	Arity int // 0 means "unconstrained"
}

// NewFunc declares a function symbol. arity <= 0 means any arity is
// accepted.
func NewFunc(name string, arity int) Func { return Func{Name: name, Arity: arity} }

// Apply builds name(args...), panicking if the function has a fixed arity
// that doesn't match len(args) — a programmer error per §7.
func (f Func) Apply(args ...Scaled) Term {
	if f.Arity > 0 && len(args) != f.Arity {
		panic(fmt.Sprintf("term: wrong number of arguments to %s: want %d, got %d", f.Name, f.Arity, len(args)))
	}
	return NewApp(f.Name, args...)
}

// sortScaled sorts a slice of Scaled in place by term key, the canonical
// ordering required by §3 invariant 1.
func sortScaled(args []Scaled) {
	sort.Slice(args, func(i, j int) bool { return args[i].Term.Key() < args[j].Term.Key() })
}

// sortMulPairs sorts a slice of MulPair in place by term key (§3 invariant 2).
func sortMulPairs(args []MulPair) {
	sort.Slice(args, func(i, j int) bool { return args[i].Term.Key() < args[j].Term.Key() })
}
