package cfg

import "testing"

// A single empty trampoline block is bypassed.
func TestSimplifyBypassesEmptyTrampoline(t *testing.T) {
	ctx, tbl, _ := newTestContext()
	g := newRawCFG()

	dead := addDeadBlock(g)
	entry := addBlock(g, 0)
	a := addBlock(g, 0)
	b := addBlock(g, 0)
	g.Entry, g.DeadBlock = entry, dead

	wire(entry, a, a)
	wire(a, b, b)
	wire(b, dead, dead)
	entry.BackEdges = nil // entry has no predecessor of its own

	// b needs real content, otherwise it is itself an empty trampoline and
	// simplify would keep collapsing past it; this test is specifically
	// about a single trampoline being bypassed, not a whole chain.
	b.Exprs = []Binding{{Bind: freshVar(tbl, "r", 1), Value: Self{}}}

	simplify(ctx, g)

	if entry.Bexit.Thenb != b || entry.Bexit.Elseb != b {
		t.Fatalf("expected entry to jump straight to b, got thenb=%v elseb=%v", entry.Bexit.Thenb.ID, entry.Bexit.Elseb.ID)
	}
	for _, bb := range g.Blocks {
		if bb == a {
			t.Fatalf("expected a to be removed from the block list")
		}
	}
	for _, p := range b.BackEdges {
		if p == a {
			t.Fatalf("expected a to be removed from b's back-edges")
		}
	}
}

// An unreachable block is dropped after simplification.
func TestSimplifyRemovesUnreachableBlock(t *testing.T) {
	ctx, _, _ := newTestContext()
	g := newRawCFG()

	dead := addDeadBlock(g)
	entry := addBlock(g, 0)
	d := addBlock(g, 0) // never wired as anyone's successor
	g.Entry, g.DeadBlock = entry, dead

	wire(entry, dead, dead)
	entry.BackEdges = nil
	wire(d, dead, dead) // d has outgoing edges but no incoming ones
	g.ForwardTopoSort = []*BasicBlock{entry, d}
	g.BackwardTopoSort = []*BasicBlock{d, entry}

	simplify(ctx, g)

	for _, bb := range g.Blocks {
		if bb == d {
			t.Fatalf("expected d to be removed from the block list")
		}
	}
	for _, bb := range g.ForwardTopoSort {
		if bb == d {
			t.Fatalf("expected d to be removed from forwardsTopoSort")
		}
	}
	for _, bb := range g.BackwardTopoSort {
		if bb == d {
			t.Fatalf("expected d to be removed from backwardsTopoSort")
		}
	}
	for _, p := range dead.BackEdges {
		if p == d {
			t.Fatalf("expected d to be removed from dead's back-edges")
		}
	}
}

func TestSimplifyIsIdempotent(t *testing.T) {
	ctx, tbl, _ := newTestContext()
	g := newRawCFG()

	dead := addDeadBlock(g)
	entry := addBlock(g, 0)
	a := addBlock(g, 0)
	b := addBlock(g, 0)
	g.Entry, g.DeadBlock = entry, dead

	wire(entry, a, a)
	wire(a, b, b)
	wire(b, dead, dead)
	entry.BackEdges = nil
	b.Exprs = []Binding{{Bind: freshVar(tbl, "r", 1), Value: Self{}}}

	simplify(ctx, g)
	firstLen := len(g.Blocks)
	simplify(ctx, g)
	if len(g.Blocks) != firstLen {
		t.Fatalf("expected simplify to be idempotent, block count changed from %d to %d", firstLen, len(g.Blocks))
	}
}
