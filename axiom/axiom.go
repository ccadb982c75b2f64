// Package axiom implements component C5: the axiom module. An Axiom is a
// universally quantified Horn-like clause over terms, triggered by one or
// more App-shaped patterns. Module.Update unifies every axiom's triggers
// against a blackboard, reduces each resulting environment's literals to
// ground facts, and asserts them (§4.5).
package axiom

import (
	"context"

	"github.com/skaslev/polya/blackboard"
	"github.com/skaslev/polya/internal/trace"
	"github.com/skaslev/polya/matcher"
	"github.com/skaslev/polya/term"
	"github.com/skaslev/polya/unify"
)

// Literal is one disjunct of an axiom's clause: LHS Op RHS, with LHS and
// RHS built from the axiom's universally quantified variables (term.UVar)
// and otherwise-closed terms.
type Literal struct {
	LHS term.Scaled
	Op  term.CompOp
	RHS term.Scaled
}

func NewLiteral(lhs term.Scaled, op term.CompOp, rhs term.Scaled) Literal {
	return Literal{LHS: lhs, Op: op, RHS: rhs}
}

// Axiom is one universally quantified clause (§3, §4.5). Vars is the full
// set of quantified variable indices; Triggers is the subset of the
// clause's App-shaped subterms the unifier searches the blackboard for;
// TrigArgVars is the subset of Vars that appear as a direct argument of
// some Trigger — see unify.Unify's documented limitation on the rest.
type Axiom struct {
	Vars        []int
	Triggers    []*term.App
	TrigArgVars []int
	Literals    []Literal
}

// NewAxiom builds an Axiom from its quantified variables, trigger
// patterns, and clause literals, deriving TrigArgVars automatically.
func NewAxiom(vars []int, triggers []*term.App, literals ...Literal) *Axiom {
	return &Axiom{
		Vars:        vars,
		Triggers:    triggers,
		TrigArgVars: trigArgVarsOf(triggers, vars),
		Literals:    literals,
	}
}

func trigArgVarsOf(triggers []*term.App, vars []int) []int {
	inVars := map[int]bool{}
	for _, v := range vars {
		inVars[v] = true
	}
	seen := map[int]bool{}
	var out []int
	for _, trig := range triggers {
		for _, arg := range trig.Args {
			if uv, ok := arg.Term.(*term.UVar); ok && inVars[uv.Index] && !seen[uv.Index] {
				seen[uv.Index] = true
				out = append(out, uv.Index)
			}
		}
	}
	return out
}

// Option configures a Module.
type Option func(*Module)

// WithMaxEnvironments caps how many ground clauses Update asserts per axiom
// per call (§5); environments that do not close every literal do not count
// towards the cap. Unify itself still enumerates every environment. Zero
// (the default) means unlimited.
func WithMaxEnvironments(n int) Option {
	return func(m *Module) { m.maxEnvironments = n }
}

// WithAxioms adds axioms at construction time.
func WithAxioms(axioms ...*Axiom) Option {
	return func(m *Module) { m.axioms = append(m.axioms, axioms...) }
}

// WithTracer attaches a diagnostic tracer (internal/trace) that announces
// unification and instantiation activity at DEBUG level — the core's only
// concession to the message logging §1 otherwise treats as an external
// collaborator. The default (no option given) is trace.NoOp().
func WithTracer(t *trace.Tracer) Option {
	return func(m *Module) { m.tracer = t }
}

// Module holds a set of axioms and applies them to a blackboard.
type Module struct {
	axioms          []*Axiom
	maxEnvironments int
	tracer          *trace.Tracer
}

// NewModule builds a Module from options (WithAxioms, WithMaxEnvironments).
func NewModule(opts ...Option) *Module {
	m := &Module{tracer: trace.NoOp()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddAxiom registers one more axiom with the module.
func (m *Module) AddAxiom(a *Axiom) {
	m.axioms = append(m.axioms, a)
}

// Update runs every axiom against b: for each axiom, unify its triggers
// against b's named terms, and for every resulting environment, reduce the
// axiom's literals to ground facts and assert them as a clause (§4.5).
//
// A *blackboard.Contradiction returned by AssertClause propagates out of
// Update unchanged, per §7 — it is not an internal control-flow signal like
// matcher.ErrNoTerm, it is the answer the caller was looking for. ctx is
// checked between axioms and between environments, honoring cooperative
// cancellation (§5).
func (m *Module) Update(ctx context.Context, b blackboard.Blackboard) error {
	for axiomIndex, ax := range m.axioms {
		if err := ctx.Err(); err != nil {
			return err
		}
		envs, err := unify.Unify(b, ax.Triggers, ax.Vars, ax.TrigArgVars, []term.Env{{}})
		if err != nil {
			return err
		}
		m.tracer.Unify(axiomIndex, len(envs))
		count := 0
		for _, env := range envs {
			if m.maxEnvironments > 0 && count >= m.maxEnvironments {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			lits, ok := reduceClause(b, env, ax.Literals, m.tracer, axiomIndex)
			if !ok {
				// An operand failed to close (an unbound quantified
				// variable never reached through a trigger argument);
				// this environment cannot produce a ground clause, skip
				// it rather than fail the whole update (§4.5).
				continue
			}
			if err := b.AssertClause(lits...); err != nil {
				return err
			}
			m.tracer.Instantiate(axiomIndex, len(lits))
			count++
		}
	}
	return nil
}

// reduceClause reduces every literal of a clause against env, substituting
// bound UVars and resolving the result to a blackboard.GroundLiteral.
// Per §4.5, when an operand's substituted term has no known problem term,
// it is interned on the spot rather than causing the whole clause to be
// dropped — a fresh name still lets the clause participate in future
// reasoning once more facts accumulate.
func reduceClause(b blackboard.Blackboard, env term.Env, lits []Literal, tracer *trace.Tracer, axiomIndex int) ([]blackboard.GroundLiteral, bool) {
	out := make([]blackboard.GroundLiteral, 0, len(lits))
	for _, lit := range lits {
		lc, lidx, ok := resolveOperand(b, env, lit.LHS, tracer, axiomIndex)
		if !ok {
			return nil, false
		}
		rc, ridx, ok := resolveOperand(b, env, lit.RHS, tracer, axiomIndex)
		if !ok {
			return nil, false
		}
		out = append(out, blackboard.GroundLiteral{L: lidx, LCoeff: lc, Op: lit.Op, R: ridx, RCoeff: rc})
	}
	return out, true
}

func resolveOperand(b blackboard.Blackboard, env term.Env, s term.Scaled, tracer *trace.Tracer, axiomIndex int) (term.Rational, int, bool) {
	substituted, closed := term.Substitute(s.Term, env)
	if !closed {
		return term.Rational{}, 0, false
	}
	eff := s.Coeff.Mul(substituted.Coeff)
	canon := term.Canonize(substituted.Term)
	eff = eff.Mul(canon.Coeff)
	if c, idx, err := matcher.FindProblemTerm(b, canon.Term); err == nil {
		return eff.Mul(c), idx, true
	}
	tracer.NoTerm(axiomIndex)
	return eff, b.TermName(canon.Term), true
}
