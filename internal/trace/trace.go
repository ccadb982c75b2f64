// Package trace provides the core's only concession to message logging
// (§1 explicitly places message logging out of scope as an external
// collaborator; this is the thin seam the rest of the module logs through
// rather than importing a logging library directly).
//
// It mirrors drand/drand's common/log pattern of wrapping go.uber.org/zap
// behind a small interface (see common/log in that repo) rather than the
// teacher's own pkg/minikanren, which carries no logging at all — the
// teacher has nothing to enrich from here, so the rest of the retrieval
// pack supplies the idiom (§SPEC_FULL "Ambient stack").
package trace

import "go.uber.org/zap"

// Tracer is the minimal logging seam the axiom module announces through:
// unification results, instantiations, and trigger terms the matcher could
// not resolve. Every method returns early on a nil *Tracer, so a nil
// *Tracer behaves like NoOp(), matching the "opt-in, no-op by default"
// shape SPEC_FULL.md calls for.
type Tracer struct {
	log *zap.SugaredLogger
}

// New wraps an existing zap logger.
func New(log *zap.Logger) *Tracer {
	if log == nil {
		return NoOp()
	}
	return &Tracer{log: log.Sugar()}
}

// NoOp returns a Tracer that discards everything, the default for callers
// that don't care about instantiation diagnostics.
func NoOp() *Tracer {
	return &Tracer{log: zap.NewNop().Sugar()}
}

// Unify announces that axiom's triggers unified against the blackboard,
// producing n candidate environments — the analogue of the reference's
// messages.announce calls in function_module.py's update_blackboard.
func (t *Tracer) Unify(axiomIndex, n int) {
	if t == nil {
		return
	}
	t.log.Debugw("axiom triggers unified", "axiom", axiomIndex, "environments", n)
}

// Instantiate announces that one environment of an axiom produced a ground
// clause of the given literal count.
func (t *Tracer) Instantiate(axiomIndex int, literals int) {
	if t == nil {
		return
	}
	t.log.Debugw("axiom instantiated", "axiom", axiomIndex, "literals", literals)
}

// NoTerm announces that a literal operand failed to resolve against the
// blackboard and was interned fresh instead (§4.5's documented failure
// handling).
func (t *Tracer) NoTerm(axiomIndex int) {
	if t == nil {
		return
	}
	t.log.Debugw("literal operand interned fresh, no problem term found", "axiom", axiomIndex)
}
