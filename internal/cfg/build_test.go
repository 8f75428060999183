package cfg

import "testing"

// TestBuilderOutputSurvivesFinalize drives a CFG built through the real
// Builder API (not the testctx helpers, which hand-wire invariants Builder
// itself is responsible for establishing) end to end through Finalize: a
// branch whose arms merge into a block that returns, never touching
// newRawCFG/addDeadBlock/wire. This is the front-end contract Builder
// promises to uphold - every block Builder emits, including DeadBlock and
// every terminal block, must already have a well-formed Bexit and
// consistent back-edges before Finalize ever runs a pass over it.
func TestBuilderOutputSurvivesFinalize(t *testing.T) {
	ctx, tbl, _ := newTestContext()
	b := NewBuilder()

	cond := freshVar(tbl, "cond", 1)
	result := freshVar(tbl, "result", 2)
	ret := freshVar(tbl, "ret", 3)

	entry := b.Current()
	b.Bind(cond, LoadArg{Index: 0})

	thenb := b.NewBlock(0)
	elseb := b.NewBlock(0)
	merge := b.NewBlock(0)

	b.Branch(entry, cond, thenb, elseb)

	b.SetCurrent(thenb)
	b.Bind(result, BoolLit{Value: true})
	b.Jump(thenb, merge)

	b.SetCurrent(elseb)
	b.Bind(result, BoolLit{Value: false})
	b.Jump(elseb, merge)

	b.SetCurrent(merge)
	b.Bind(ret, Return{What: result})
	b.Jump(merge, b.Dead())

	g := b.Finish()

	for _, p := range g.DeadBlock.BackEdges {
		if p == entry {
			t.Fatalf("expected entry to no longer be one of DeadBlock's back-edges once it targets thenb/elseb instead")
		}
	}

	Finalize(ctx, g)

	if len(g.ForwardTopoSort) != len(g.Blocks) {
		t.Fatalf("forwardTopoSort coverage broken after Finalize: %d vs %d", len(g.ForwardTopoSort), len(g.Blocks))
	}
	if len(g.BackwardTopoSort) != len(g.Blocks) {
		t.Fatalf("backwardTopoSort coverage broken after Finalize: %d vs %d", len(g.BackwardTopoSort), len(g.Blocks))
	}
}

func TestBuilderProducesWellFormedSkeleton(t *testing.T) {
	b := NewBuilder()
	g := b.Finish()

	if g.Entry == nil || g.DeadBlock == nil {
		t.Fatalf("expected entry and deadBlock to be set")
	}
	if g.Entry.Bexit.Thenb != g.DeadBlock || g.Entry.Bexit.Elseb != g.DeadBlock {
		t.Fatalf("expected a fresh builder's entry to fall through to deadBlock")
	}
	if len(g.DeadBlock.BackEdges) != 1 || g.DeadBlock.BackEdges[0] != g.Entry {
		t.Fatalf("expected deadBlock's back-edge to record entry")
	}
	if g.DeadBlock.Bexit.Thenb != g.DeadBlock || g.DeadBlock.Bexit.Elseb != g.DeadBlock {
		t.Fatalf("expected deadBlock to self-loop its own branch exit")
	}
}

func TestBuilderJumpWiresBothDirections(t *testing.T) {
	b := NewBuilder()
	g := b.Finish()

	mid := b.NewBlock(0)
	b.Jump(g.Entry, mid)

	if g.Entry.Bexit.Thenb != mid || g.Entry.Bexit.Elseb != mid {
		t.Fatalf("expected entry to jump to mid")
	}
	found := false
	for _, p := range mid.BackEdges {
		if p == g.Entry {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected mid.BackEdges to record entry")
	}
	for _, p := range g.DeadBlock.BackEdges {
		if p == g.Entry {
			t.Fatalf("expected entry's stale back-edge on deadBlock to be dropped once entry targets mid instead")
		}
	}
}
