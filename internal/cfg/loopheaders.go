package cfg

// markLoopHeaders flags every block that has at least one predecessor
// nested less deeply (strictly shallower) than itself - the predecessor
// coming from outside the loop this block begins, i.e. the edge that
// first enters the loop.
func markLoopHeaders(g *CFG) {
	for _, bb := range g.Blocks {
		for _, parent := range bb.BackEdges {
			if parent.OuterLoops < bb.OuterLoops {
				bb.setFlag(FlagLoopHeader)
				break
			}
		}
	}
}
