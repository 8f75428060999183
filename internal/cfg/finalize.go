package cfg

import (
	"context"

	"go.uber.org/atomic"
)

// Finalize runs the fixed pipeline of passes that turn a raw CFG (as a
// front end would hand off, or as Builder constructs by hand) into the
// form flow-sensitive analysis consumes: simplify, the two topological
// orderings, loop-header marking, dealiasing, dead-assignment removal,
// loop-depth summaries, and block argument inference. Reads/writes are
// recomputed wherever a preceding pass invalidated them rather than
// reused across a pass boundary that changed operands.
func Finalize(ctx *Context, g *CFG) {
	_ = FinalizeWithCancel(ctx, g, nil)
}

// FinalizeWithCancel is Finalize with a cancellation flag checked between
// passes only - never mid-pass. A nil flag behaves like a
// flag that never fires, so Finalize can delegate to this directly. Returns
// context.Canceled if cancelled was observed set at any boundary.
func FinalizeWithCancel(ctx *Context, g *CFG, cancelled *atomic.Bool) error {
	if isCancelled(cancelled) {
		return context.Canceled
	}
	simplify(ctx, g)
	if isCancelled(cancelled) {
		return context.Canceled
	}

	g.ForwardTopoSort = topoSortFwd(g)
	g.BackwardTopoSort = topoSortBwd(g)
	sanityCheckTopoCoverage(ctx, g)
	if isCancelled(cancelled) {
		return context.Canceled
	}

	markLoopHeaders(g)
	dealias(ctx, g)
	if isCancelled(cancelled) {
		return context.Canceled
	}

	rw := collectReadsWrites(g)
	removeDeadAssigns(ctx, rw, g)
	computeMinMaxLoops(rw, g)
	if isCancelled(cancelled) {
		return context.Canceled
	}

	// removeDeadAssigns changed which bindings exist, so the argument
	// inference below needs a fresh reads/writes snapshot rather than the
	// one computeMinMaxLoops just consumed.
	rw = collectReadsWrites(g)
	fillInBlockArguments(ctx, rw, g)
	return nil
}

func isCancelled(flag *atomic.Bool) bool {
	return flag != nil && flag.Load()
}

// sanityCheckTopoCoverage is a debug-mode-only check that the two
// orderings cover exactly the live blocks once each, matching spec
// property 2 ("topo-sort coverage").
func sanityCheckTopoCoverage(ctx *Context, g *CFG) {
	if !ctx.Errors.DebugMode() {
		return
	}
	ctx.Errors.Enforce(len(g.ForwardTopoSort) == len(g.Blocks),
		"forwardsTopoSort covers %d blocks, expected %d", len(g.ForwardTopoSort), len(g.Blocks))
	ctx.Errors.Enforce(len(g.BackwardTopoSort) == len(g.Blocks),
		"backwardsTopoSort covers %d blocks, expected %d", len(g.BackwardTopoSort), len(g.Blocks))
}
