package cfg

// dealias removes assignment chains of the form `t = a; use(t)` -> `use(a)`
// introduced by lowering expressions like `a.foo(a = expr, ...)`: the
// front end materializes a synthetic temporary to evaluate the
// reassignment before the call, and this pass substitutes the temporary
// back out wherever it is only ever a copy of something else.
//
// The alias map built per block is a strict intersection over
// predecessors: the first predecessor seeds the map, then every other
// predecessor can only narrow it (dropping any key it disagrees with or
// lacks). At a loop header this is conservative, since the back-edge
// predecessor hasn't been visited yet in backwardsTopoSort order and so
// contributes an empty map - that's deliberately not "fixed" here; it
// matches the pass's original behavior rather than a more precise
// fixed-point dataflow.
func dealias(ctx *Context, g *CFG) {
	// Blocks may have been removed by simplify, so IDs are no longer dense;
	// size the side table to the highest surviving ID rather than the
	// block count.
	maxID := BlockID(0)
	for _, bb := range g.Blocks {
		if bb.ID > maxID {
			maxID = bb.ID
		}
	}
	outAliases := make([]map[Var]Var, maxID+1)

	for _, bb := range g.BackwardTopoSort {
		if bb == g.DeadBlock {
			continue
		}
		var current map[Var]Var
		if len(bb.BackEdges) > 0 {
			current = copyAliasMap(outAliases[bb.BackEdges[0].ID])
		} else {
			current = make(map[Var]Var)
		}

		for _, parent := range bb.BackEdges[minInt(1, len(bb.BackEdges)):] {
			other := outAliases[parent.ID]
			for k, v := range current {
				ov, ok := other[k]
				if !ok || ov != v {
					delete(current, k)
				}
			}
		}

		for i := range bb.Exprs {
			bind := &bb.Exprs[i]

			// A pre-invalidation pass over Ident alone: resolves the
			// operand before the invalidation step below drops aliases of
			// the variable being rebound, so a copy such as `a := t`,
			// where t currently aliases a, still resolves to `a := a`.
			if ident, ok := bind.Value.(Ident); ok {
				ident.What = maybeDealias(ctx, ident.What, current)
				bind.Value = ident
			}

			// invalidate any alias whose value is exactly the variable
			// being rebound here.
			for k, v := range current {
				if v == bind.Bind {
					delete(current, k)
				}
			}

			switch v := bind.Value.(type) {
			case Ident:
				v.What = maybeDealias(ctx, v.What, current)
				bind.Value = v
			case Send:
				v.Recv = maybeDealias(ctx, v.Recv, current)
				for i := range v.Args {
					v.Args[i] = maybeDealias(ctx, v.Args[i], current)
				}
				bind.Value = v
			case Return:
				v.What = maybeDealias(ctx, v.What, current)
				bind.Value = v
			}

			if ident, ok := bind.Value.(Ident); ok {
				current[bind.Bind] = ident.What
			}
		}

		if bb.Bexit.Cond.Exists() {
			bb.Bexit.Cond = maybeDealias(ctx, bb.Bexit.Cond, current)
		}

		outAliases[bb.ID] = current
	}
}

// maybeDealias follows what to its current alias only if what is a
// synthetic temporary; real (front-end-named) variables are never
// substituted.
func maybeDealias(ctx *Context, what Var, aliases map[Var]Var) Var {
	if !ctx.Names.IsSyntheticTemporary(what.Name) {
		return what
	}
	if v, ok := aliases[what]; ok {
		return v
	}
	return what
}

func copyAliasMap(m map[Var]Var) map[Var]Var {
	out := make(map[Var]Var, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
