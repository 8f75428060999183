package cfg

import "math"

// computeMinMaxLoops derives, for every variable mentioned anywhere in the
// CFG, the shallowest loop depth it is ever read at (minLoops) and the
// deepest loop depth it is ever written at (maxLoopWrite). minLoops is
// refined by both reads and writes - a write at a shallower depth than
// any read still counts - but maxLoopWrite only by writes.
func computeMinMaxLoops(rw *ReadsAndWrites, g *CFG) {
	g.MinLoops = make(map[Var]int, len(rw.Reads))
	g.MaxLoopWrite = make(map[Var]int, len(rw.Writes))

	for v, where := range rw.Reads {
		min, ok := g.MinLoops[v]
		if !ok {
			min = math.MaxInt32
		}
		for bb := range where {
			if bb.OuterLoops < min {
				min = bb.OuterLoops
			}
		}
		g.MinLoops[v] = min
	}

	for v, where := range rw.Writes {
		min, ok := g.MinLoops[v]
		if !ok {
			min = math.MaxInt32
		}
		max := g.MaxLoopWrite[v]
		for bb := range where {
			if bb.OuterLoops < min {
				min = bb.OuterLoops
			}
			if bb.OuterLoops > max {
				max = bb.OuterLoops
			}
		}
		g.MinLoops[v] = min
		g.MaxLoopWrite[v] = max
	}
}
