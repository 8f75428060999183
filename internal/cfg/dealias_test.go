package cfg

import "testing"

// An alias chain collapses: `t := a; y := send(t, :bar, t)` with t
// synthetic rewrites to `y := send(a, :bar, a)`, after which t's own
// binding is removable by removeDeadAssigns.
func TestDealiasCollapsesAliasChain(t *testing.T) {
	ctx, tbl, _ := newTestContext()
	g := newRawCFG()
	dead := addDeadBlock(g)
	entry := addBlock(g, 0)
	g.Entry, g.DeadBlock = entry, dead
	wire(entry, dead, dead)

	a := freshVar(tbl, "a", 1)
	temp := freshVar(tbl, "t", 2)
	tbl.MarkSyntheticTemporary(temp.Name)
	y := freshVar(tbl, "y", 3)

	entry.Exprs = []Binding{
		{Bind: temp, Value: Ident{What: a}},
		{Bind: y, Value: Send{Recv: temp, Method: tbl.Intern("bar"), Args: []Var{temp}}},
	}

	g.ForwardTopoSort = topoSortFwd(g)
	g.BackwardTopoSort = topoSortBwd(g)
	dealias(ctx, g)

	send, ok := entry.Exprs[1].Value.(Send)
	if !ok {
		t.Fatalf("expected second binding to still be a Send, got %T", entry.Exprs[1].Value)
	}
	if send.Recv != a {
		t.Fatalf("expected Send.Recv to be dealiased to a, got %+v", send.Recv)
	}
	if len(send.Args) != 1 || send.Args[0] != a {
		t.Fatalf("expected Send.Args[0] to be dealiased to a, got %+v", send.Args)
	}

	rw := collectReadsWrites(g)
	removeDeadAssigns(ctx, rw, g)
	if len(entry.Exprs) != 1 {
		t.Fatalf("expected t's now-unread binding to be removed, got %d bindings left", len(entry.Exprs))
	}
}

func TestMaybeDealiasLeavesRealVariablesAlone(t *testing.T) {
	ctx, tbl, _ := newTestContext()
	a := freshVar(tbl, "a", 1)
	aliases := map[Var]Var{a: freshVar(tbl, "b", 2)}

	got := maybeDealias(ctx, a, aliases)
	if got != a {
		t.Fatalf("expected a non-synthetic variable to never be substituted, got %+v", got)
	}
}
