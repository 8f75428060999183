package cfg

// fillInBlockArguments computes each block's phi-position argument list:
// the variables it must accept from its predecessors because they were
// written somewhere that doesn't dominate every read. The algorithm
// (unattributed in the original, kept here as "two upper bounds,
// intersected") computes two overestimates - one by propagating reads
// forward along successors, one by propagating writes backward along
// predecessors - and takes their intersection per block. Complexity is
// roughly (|blocks| + |variables|) * |loop nesting depth|, so neither
// fixed point may be replaced by anything quadratic in block count.
func fillInBlockArguments(ctx *Context, rw *ReadsAndWrites, g *CFG) {
	readsByBlock := make([]map[Var]struct{}, len(g.Blocks))
	writesByBlock := make([]map[Var]struct{}, len(g.Blocks))
	indexOf := make(map[BlockID]int, len(g.Blocks))
	for i, bb := range g.Blocks {
		indexOf[bb.ID] = i
		readsByBlock[i] = make(map[Var]struct{})
		writesByBlock[i] = make(map[Var]struct{})
	}

	for v, reads := range rw.Reads {
		writes := rw.Writes[v]
		ctx.Telemetry.HistogramInc("cfgbuilder.readsPerBlock", len(reads))
		switch {
		case len(reads) == 1 && len(writes) == 1 && sameSingleBlock(reads, writes):
			// v never escapes the one block that both reads and writes it.
			for bb := range writes {
				delete(writes, bb)
			}
			for bb := range reads {
				delete(reads, bb)
			}
		case len(writes) == 0:
			// an uninitialized read propagates undefined, not an argument.
			for bb := range reads {
				delete(reads, bb)
			}
		}
	}

	for v, writes := range rw.Writes {
		ctx.Telemetry.HistogramInc("cfgbuilder.writesPerBlock", len(writes))
		reads := rw.Reads[v]
		if len(reads) == 0 {
			for bb := range writes {
				delete(writes, bb)
			}
		}
		for bb := range reads {
			readsByBlock[indexOf[bb.ID]][v] = struct{}{}
		}
		for bb := range writes {
			writesByBlock[indexOf[bb.ID]][v] = struct{}{}
		}
	}

	// Upper bound 1: forward propagation of reads over forwardsTopoSort.
	upper1 := make([]map[Var]struct{}, len(g.Blocks))
	for i := range upper1 {
		upper1[i] = make(map[Var]struct{})
	}
	changed := true
	for changed {
		changed = false
		for _, bb := range g.ForwardTopoSort {
			i := indexOf[bb.ID]
			before := len(upper1[i])
			mergeInto(upper1[i], readsByBlock[i])
			if bb.Bexit.Thenb != g.DeadBlock {
				mergeInto(upper1[i], upper1[indexOf[bb.Bexit.Thenb.ID]])
			}
			if bb.Bexit.Elseb != g.DeadBlock {
				mergeInto(upper1[i], upper1[indexOf[bb.Bexit.Elseb.ID]])
			}
			if len(upper1[i]) != before {
				changed = true
			}
		}
	}

	// Upper bound 2: backward propagation of writes over backwardsTopoSort.
	upper2 := make([]map[Var]struct{}, len(g.Blocks))
	for i := range upper2 {
		upper2[i] = make(map[Var]struct{})
	}
	changed = true
	for changed {
		changed = false
		for _, bb := range g.BackwardTopoSort {
			i, ok := indexOf[bb.ID]
			if !ok {
				continue
			}
			before := len(upper2[i])
			mergeInto(upper2[i], writesByBlock[i])
			for _, parent := range bb.BackEdges {
				if parent != g.DeadBlock {
					mergeInto(upper2[i], upper2[indexOf[parent.ID]])
				}
			}
			if len(upper2[i]) != before {
				changed = true
			}
		}
	}

	// Intersect, sort by name id to give a deterministic argument order.
	for i, bb := range g.Blocks {
		set2 := upper2[i]
		args := make([]Var, 0, minInt(len(upper1[i]), len(set2)))
		for v := range upper1[i] {
			if _, ok := set2[v]; ok {
				args = append(args, v)
			}
		}
		sortVarsByName(args)
		bb.Args = args
		ctx.Telemetry.HistogramInc("cfgbuilder.blockArguments", len(args))
	}
}

func sameSingleBlock(reads, writes map[*BasicBlock]struct{}) bool {
	for bb := range reads {
		_, ok := writes[bb]
		return ok
	}
	return false
}

func mergeInto(dst, src map[Var]struct{}) {
	for v := range src {
		dst[v] = struct{}{}
	}
}

func sortVarsByName(vars []Var) {
	for i := 1; i < len(vars); i++ {
		for j := i; j > 0 && vars[j-1].Name > vars[j].Name; j-- {
			vars[j-1], vars[j] = vars[j], vars[j-1]
		}
	}
}
