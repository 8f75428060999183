package serialize

import (
	"testing"

	"github.com/solalang/solatype/internal/cfg"
	"github.com/solalang/solatype/internal/names"
)

func TestRoundTripSimpleGraph(t *testing.T) {
	tbl := names.New()
	g := &cfg.CFG{}
	dead := &cfg.BasicBlock{ID: 0}
	dead.Bexit = cfg.BranchExit{Thenb: dead, Elseb: dead}
	entry := &cfg.BasicBlock{ID: 1}
	x := cfg.Var{Name: tbl.Intern("x"), Unique: 1}
	entry.Exprs = []cfg.Binding{{Bind: x, Value: cfg.IntLit{Value: 42}}}
	entry.Bexit = cfg.BranchExit{Thenb: dead, Elseb: dead}
	dead.BackEdges = append(dead.BackEdges, entry)
	g.Blocks = []*cfg.BasicBlock{dead, entry}
	g.Entry, g.DeadBlock = entry, dead

	data, err := Marshal(tbl, g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	tbl2 := names.New()
	got, err := Unmarshal(tbl2, data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(got.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(got.Blocks))
	}
	var gotEntry *cfg.BasicBlock
	for _, bb := range got.Blocks {
		if bb.ID == entry.ID {
			gotEntry = bb
		}
	}
	if gotEntry == nil {
		t.Fatalf("entry block not found after round trip")
	}
	if len(gotEntry.Exprs) != 1 {
		t.Fatalf("expected 1 binding on entry, got %d", len(gotEntry.Exprs))
	}
	lit, ok := gotEntry.Exprs[0].Value.(cfg.IntLit)
	if !ok || lit.Value != 42 {
		t.Fatalf("expected IntLit(42), got %+v", gotEntry.Exprs[0].Value)
	}
	if tbl2.String(gotEntry.Exprs[0].Bind.Name) != "x" {
		t.Fatalf("expected bound variable name to round-trip as x")
	}
}

func TestDecodeRejectsUnknownBlockReference(t *testing.T) {
	tbl := names.New()
	_, err := Decode(tbl, Graph{
		Blocks:  []Block{{ID: 0, Thenb: 99, Elseb: 0}},
		EntryID: 0,
		DeadID:  0,
	})
	if err == nil {
		t.Fatalf("expected an error for a thenb pointing at a nonexistent block")
	}
}
