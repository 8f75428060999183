package cfg

// removeDeadAssigns drops bindings whose result is never read and whose
// instruction tag is on the side-effect-free allow-list; a bind that
// shadows a module-level name is never dropped regardless of liveness,
// since code outside this CFG may observe the global through it.
func removeDeadAssigns(ctx *Context, rw *ReadsAndWrites, g *CFG) {
	for _, bb := range g.Blocks {
		live := bb.Exprs[:0]
		for _, bind := range bb.Exprs {
			if ctx.Names.IsAliasForGlobal(bind.Bind.Name) {
				live = append(live, bind)
				continue
			}
			if _, read := rw.Reads[bind.Bind]; !read && isSideEffectFree(bind.Value) {
				continue
			}
			live = append(live, bind)
		}
		bb.Exprs = live
	}
}
