package cfg

// simplify repeatedly removes unreachable blocks and applies four
// block-merging rewrite rules until a full scan changes nothing, mirroring
// CFGBuilder::simplify in builder_finalize.cc: the whole block list is
// rescanned from the top whenever any rule fires, rather than resuming
// where it left off, since a rewrite at block i can make an earlier block
// eligible too (e.g. after shortcutting, a predecessor two hops back may
// now qualify for squashing).
func simplify(ctx *Context, g *CFG) {
	sanityCheck(ctx, g)
	changed := true
	for changed {
		changed = false
		i := 0
		for i < len(g.Blocks) {
			bb := g.Blocks[i]
			thenb, elseb := bb.Bexit.Thenb, bb.Bexit.Elseb

			if bb != g.DeadBlock && bb != g.Entry {
				if len(bb.BackEdges) == 0 {
					// remove unreachable block
					removeBackEdge(thenb, bb)
					if elseb != thenb {
						removeBackEdge(elseb, bb)
					}
					g.Blocks = append(g.Blocks[:i], g.Blocks[i+1:]...)
					g.ForwardTopoSort = removeBlock(g.ForwardTopoSort, bb)
					g.BackwardTopoSort = removeBlock(g.BackwardTopoSort, bb)
					changed = true
					sanityCheck(ctx, g)
					continue
				}
				sortAndDedupBackEdges(bb)
			}

			// squash: then and else branch to the same block, which is only
			// reachable from here.
			if thenb == elseb && thenb != g.DeadBlock && thenb != bb {
				if len(thenb.BackEdges) == 1 {
					bb.Exprs = append(bb.Exprs, thenb.Exprs...)
					thenb.BackEdges = nil
					bb.Bexit = thenb.Bexit
					bb.Bexit.Thenb.BackEdges = append(bb.Bexit.Thenb.BackEdges, bb)
					if bb.Bexit.Thenb != bb.Bexit.Elseb {
						bb.Bexit.Elseb.BackEdges = append(bb.Bexit.Elseb.BackEdges, bb)
					}
					changed = true
					sanityCheck(ctx, g)
					continue
				}
				if !ctx.Names.IsBlockCall(thenb.Bexit.Cond.Name) && len(thenb.Exprs) == 0 {
					// don't remove block headers (cond == blockCall marks one)
					bb.Bexit = thenb.Bexit
					removeBackEdge(thenb, bb)
					bb.Bexit.Thenb.BackEdges = append(bb.Bexit.Thenb.BackEdges, bb)
					if bb.Bexit.Thenb != bb.Bexit.Elseb {
						bb.Bexit.Elseb.BackEdges = append(bb.Bexit.Elseb.BackEdges, bb)
					}
					changed = true
					sanityCheck(ctx, g)
					continue
				}
			}

			// shortcut then: thenb is empty and falls straight through.
			if thenb != g.DeadBlock && len(thenb.Exprs) == 0 && thenb.Bexit.Thenb == thenb.Bexit.Elseb &&
				bb.Bexit.Thenb != thenb.Bexit.Thenb {
				bb.Bexit.Thenb = thenb.Bexit.Thenb
				thenb.Bexit.Thenb.BackEdges = append(thenb.Bexit.Thenb.BackEdges, bb)
				removeBackEdge(thenb, bb)
				changed = true
				sanityCheck(ctx, g)
				continue
			}

			// shortcut else: elseb is empty and falls straight through.
			if elseb != g.DeadBlock && len(elseb.Exprs) == 0 && elseb.Bexit.Thenb == elseb.Bexit.Elseb &&
				bb.Bexit.Elseb != elseb.Bexit.Elseb {
				sanityCheck(ctx, g)
				bb.Bexit.Elseb = elseb.Bexit.Elseb
				bb.Bexit.Elseb.BackEdges = append(bb.Bexit.Elseb.BackEdges, bb)
				removeBackEdge(elseb, bb)
				changed = true
				sanityCheck(ctx, g)
				continue
			}

			i++
		}
	}
}

func removeBackEdge(of, pred *BasicBlock) {
	out := of.BackEdges[:0]
	for _, p := range of.BackEdges {
		if p != pred {
			out = append(out, p)
		}
	}
	of.BackEdges = out
}

func removeBlock(order []*BasicBlock, bb *BasicBlock) []*BasicBlock {
	out := order[:0]
	for _, b := range order {
		if b != bb {
			out = append(out, b)
		}
	}
	return out
}

func sortAndDedupBackEdges(bb *BasicBlock) {
	edges := bb.BackEdges
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && edges[j-1].ID > edges[j].ID; j-- {
			edges[j-1], edges[j] = edges[j], edges[j-1]
		}
	}
	out := edges[:0]
	var last *BasicBlock
	for _, e := range edges {
		if e != last {
			out = append(out, e)
			last = e
		}
	}
	bb.BackEdges = out
}

// sanityCheck is the Go shape of the C++ sanityCheck: a no-op unless the
// error queue is in debug mode, then it verifies every block's back-edges
// agree with its parent's branch exit in both directions.
func sanityCheck(ctx *Context, g *CFG) {
	if !ctx.Errors.DebugMode() {
		return
	}
	for _, bb := range g.Blocks {
		for _, parent := range bb.BackEdges {
			ctx.Errors.Enforce(parent.Bexit.Thenb == bb || parent.Bexit.Elseb == bb,
				"parent block %d is not aware of child block %d", parent.ID, bb.ID)
		}
		if bb == g.DeadBlock {
			continue
		}
		ctx.Errors.Enforce(containsBlock(bb.Bexit.Thenb.BackEdges, bb), "back-edge unset for thenb of block %d", bb.ID)
		ctx.Errors.Enforce(containsBlock(bb.Bexit.Elseb.BackEdges, bb), "back-edge unset for elseb of block %d", bb.ID)
	}
}

func containsBlock(edges []*BasicBlock, bb *BasicBlock) bool {
	for _, e := range edges {
		if e == bb {
			return true
		}
	}
	return false
}
