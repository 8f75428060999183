package main

import (
	"fmt"

	"github.com/solalang/solatype/internal/cfg"
	"github.com/solalang/solatype/internal/names"
)

// demoBuilders names the raw CFGs the CLI can build via cfg.Builder when no
// -cfg fixture is given, each exercising a different shape Finalize has to
// handle: straight-line, a diamond if/else, and a loop-carried accumulator.
var demoBuilders = map[string]func(*names.Table) *cfg.CFG{
	"straight": buildStraightLineDemoCFG,
	"branch":   buildBranchingDemoCFG,
	"loop":     buildLoopDemoCFG,
}

func demoNames() []string {
	return []string{"straight", "branch", "loop"}
}

func buildDemo(name string, tbl *names.Table) (*cfg.CFG, error) {
	build, ok := demoBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo %q (want one of %v)", name, demoNames())
	}
	return build(tbl), nil
}

// buildStraightLineDemoCFG is a single block with no branches at all: two
// binds and a return. Finalize's passes should all be no-ops on it besides
// populating the loop-depth tables (every variable at depth 0) and the
// trivial topo sorts.
func buildStraightLineDemoCFG(tbl *names.Table) *cfg.CFG {
	b := cfg.NewBuilder()

	x := cfg.Var{Name: tbl.Intern("x"), Unique: 1}
	y := cfg.Var{Name: tbl.Intern("y"), Unique: 2}
	ret := cfg.Var{Name: tbl.Intern("ret"), Unique: 3}

	entry := b.Current()
	b.Bind(x, cfg.LoadArg{Index: 0})
	b.Bind(y, cfg.Send{Recv: x, Method: tbl.Intern("succ"), Args: nil})
	b.Bind(ret, cfg.Return{What: y})
	b.Jump(entry, b.Dead())

	return b.Finish()
}

// buildBranchingDemoCFG is a diamond: entry branches on cond into a then
// and an else arm, both of which fall into merge. Neither arm is a loop
// body, so markLoopHeaders should leave both unflagged, and merge's sole
// phi-position argument should be the variable bound differently on each
// arm.
func buildBranchingDemoCFG(tbl *names.Table) *cfg.CFG {
	b := cfg.NewBuilder()

	cond := cfg.Var{Name: tbl.Intern("cond"), Unique: 1}
	result := cfg.Var{Name: tbl.Intern("result"), Unique: 2}
	ret := cfg.Var{Name: tbl.Intern("ret"), Unique: 3}

	entry := b.Current()
	b.Bind(cond, cfg.LoadArg{Index: 0})

	thenb := b.NewBlock(0)
	elseb := b.NewBlock(0)
	merge := b.NewBlock(0)

	b.Branch(entry, cond, thenb, elseb)

	b.SetCurrent(thenb)
	b.Bind(result, cfg.BoolLit{Value: true})
	b.Jump(thenb, merge)

	b.SetCurrent(elseb)
	b.Bind(result, cfg.BoolLit{Value: false})
	b.Jump(elseb, merge)

	b.SetCurrent(merge)
	b.Bind(ret, cfg.Return{What: result})
	b.Jump(merge, b.Dead())

	return b.Finish()
}

// buildLoopDemoCFG constructs a loop-carried-accumulator method body
// directly through cfg.Builder, standing in for what a front end would
// hand Finalize after lowering something like:
//
//	i := 0
//	sum := 0
//	while i < n
//	  sum := sum + i
//	  i := i + 1
//	end
//	return sum
//
// as a raw, unfinalized CFG - no topo sort, no loop-header flags, no
// block arguments yet. Finalize fills all of that in.
func buildLoopDemoCFG(tbl *names.Table) *cfg.CFG {
	b := cfg.NewBuilder()

	n := cfg.Var{Name: tbl.Intern("n"), Unique: 1}
	i := cfg.Var{Name: tbl.Intern("i"), Unique: 2}
	sum := cfg.Var{Name: tbl.Intern("sum"), Unique: 3}
	cond := cfg.Var{Name: tbl.Intern("cond"), Unique: 4}
	next := cfg.Var{Name: tbl.Intern("next"), Unique: 5}
	one := cfg.Var{Name: tbl.Intern("one"), Unique: 7}

	entry := b.Current()
	b.Bind(n, cfg.LoadArg{Index: 0})
	b.Bind(i, cfg.IntLit{Value: 0})
	b.Bind(sum, cfg.IntLit{Value: 0})
	b.Bind(one, cfg.IntLit{Value: 1})

	header := b.NewBlock(1)
	body := b.NewBlock(1)
	exit := b.NewBlock(0)

	b.Jump(entry, header)

	b.SetCurrent(header)
	b.Bind(cond, cfg.Send{Recv: i, Method: tbl.Intern("<"), Args: []cfg.Var{n}})
	b.Branch(header, cond, body, exit)

	b.SetCurrent(body)
	b.Bind(sum, cfg.Send{Recv: sum, Method: tbl.Intern("+"), Args: []cfg.Var{i}})
	b.Bind(next, cfg.Send{Recv: i, Method: tbl.Intern("+"), Args: []cfg.Var{one}})
	b.Bind(i, cfg.Ident{What: next})
	b.Jump(body, header)

	b.SetCurrent(exit)
	b.Bind(cfg.Var{Name: tbl.Intern("ret"), Unique: 6}, cfg.Return{What: sum})
	b.Jump(exit, b.Dead())

	g := b.Finish()
	// A header's back-edges must list strictly-shallower predecessors
	// first; Builder's Jump appends in call order, which already
	// satisfies that here since entry (depth 0) was wired before body
	// (depth 1).
	return g
}
