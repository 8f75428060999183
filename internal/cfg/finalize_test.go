package cfg

import "testing"

// A full run through Finalize on a small if/else CFG: checks the pipeline
// completes without tripping any debug-mode assertion, and that its
// output contract holds - both topo-sorts cover the live set, every
// back-edge is still symmetric, and x, which crosses a branch, has a
// loop-depth summary.
func TestFinalizeEndToEnd(t *testing.T) {
	ctx, tbl, _ := newTestContext()
	g := newRawCFG()

	dead := addDeadBlock(g)
	entry := addBlock(g, 0)
	thenBlk := addBlock(g, 0)
	elseBlk := addBlock(g, 0)
	merge := addBlock(g, 0)
	g.Entry, g.DeadBlock = entry, dead

	cond := freshVar(tbl, "cond", 1)
	x := freshVar(tbl, "x", 2)
	y := freshVar(tbl, "y", 3)
	result := freshVar(tbl, "result", 4)

	wireCond(entry, cond, thenBlk, elseBlk)
	thenBlk.Exprs = []Binding{{Bind: x, Value: IntLit{Value: 1}}}
	wire(thenBlk, merge, merge)
	elseBlk.Exprs = []Binding{{Bind: x, Value: IntLit{Value: 2}}}
	wire(elseBlk, merge, merge)
	merge.Exprs = []Binding{
		{Bind: y, Value: Ident{What: x}},
		{Bind: result, Value: Return{What: y}},
	}
	wire(merge, dead, dead)

	Finalize(ctx, g)

	if len(g.ForwardTopoSort) != len(g.Blocks) {
		t.Fatalf("forwardsTopoSort coverage broken after Finalize: %d vs %d", len(g.ForwardTopoSort), len(g.Blocks))
	}
	if len(g.BackwardTopoSort) != len(g.Blocks) {
		t.Fatalf("backwardsTopoSort coverage broken after Finalize: %d vs %d", len(g.BackwardTopoSort), len(g.Blocks))
	}
	for _, bb := range g.Blocks {
		for _, parent := range bb.BackEdges {
			if parent.Bexit.Thenb != bb && parent.Bexit.Elseb != bb {
				t.Fatalf("back-edge asymmetry: block %d lists parent %d which doesn't point back", bb.ID, parent.ID)
			}
		}
	}
	if _, ok := g.MinLoops[x]; !ok {
		t.Fatalf("expected minLoops to have an entry for x")
	}
}

func TestEnforcePanicsOnForcedInvariantViolation(t *testing.T) {
	ctx, _, q := newTestContext()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected Enforce to panic on a forced false condition")
		}
		if len(q.Entries()) == 0 {
			t.Fatalf("expected the violation to also be recorded on the queue")
		}
	}()
	ctx.Errors.Enforce(false, "forced failure for test coverage")
}
