package cfg

import (
	"github.com/solalang/solatype/internal/diag"
	"github.com/solalang/solatype/internal/names"
	"github.com/solalang/solatype/internal/telemetry"
)

// newTestContext builds a Context with debug-mode assertions live, the way
// tests want to catch an invariant violation instead of silently letting
// one slide, backed by the real names/diag/telemetry implementations
// rather than mocks, since all three are small enough to use directly.
func newTestContext() (*Context, *names.Table, *diag.Queue) {
	tbl := names.New()
	q := diag.NewQueue(true)
	ctx := &Context{
		Names:     tbl,
		Errors:    q,
		Telemetry: telemetry.NoopSink{},
	}
	return ctx, tbl, q
}

func freshVar(tbl *names.Table, label string, unique int) Var {
	return Var{Name: tbl.Intern(label), Unique: unique}
}

// newRawCFG and its helpers build a CFG by hand, the way a front end's
// output would look, rather than through Builder's cursor/jump API -
// scenario tests want full control over exactly which blocks exist and
// how they're wired, including intentionally malformed back-edge sets,
// without Builder's single-current-block bookkeeping getting in the way.
func newRawCFG() *CFG {
	return &CFG{}
}

func addBlock(g *CFG, outerLoops int) *BasicBlock {
	bb := &BasicBlock{ID: g.nextID, OuterLoops: outerLoops}
	g.nextID++
	g.Blocks = append(g.Blocks, bb)
	return bb
}

// addDeadBlock allocates deadBlock and self-loops its branch exit, so
// simplify's uniform per-block Bexit handling never dereferences a nil
// thenb/elseb on it, matching the real deadBlock's never-executing but
// still well-formed exit.
func addDeadBlock(g *CFG) *BasicBlock {
	dead := addBlock(g, 0)
	dead.Bexit = BranchExit{Thenb: dead, Elseb: dead}
	return dead
}

// wire sets from's branch exit to thenb/elseb and appends from to each
// target's back-edges; call once per block being wired in a fresh graph.
func wire(from, thenb, elseb *BasicBlock) {
	from.Bexit = BranchExit{Thenb: thenb, Elseb: elseb}
	thenb.BackEdges = append(thenb.BackEdges, from)
	if elseb != thenb {
		elseb.BackEdges = append(elseb.BackEdges, from)
	}
}

// wireCond is wire with an explicit branch condition.
func wireCond(from *BasicBlock, cond Var, thenb, elseb *BasicBlock) {
	from.Bexit = BranchExit{Cond: cond, Thenb: thenb, Elseb: elseb}
	thenb.BackEdges = append(thenb.BackEdges, from)
	if elseb != thenb {
		elseb.BackEdges = append(elseb.BackEdges, from)
	}
}
