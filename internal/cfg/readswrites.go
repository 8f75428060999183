package cfg

// collectReadsWrites scans every binding in every block and records, for
// each variable, the set of blocks that read it (mention it as an
// operand, including a branch condition) and the set of blocks that write
// it (bind it). Callers re-run this after any pass that rewrites operands
// (dealias) since its output would otherwise go stale.
func collectReadsWrites(g *CFG) *ReadsAndWrites {
	rw := newReadsAndWrites()
	for _, bb := range g.Blocks {
		for _, bind := range bb.Exprs {
			rw.addWrite(bind.Bind, bb)
			for _, operand := range operands(bind.Value) {
				rw.addRead(operand, bb)
			}
		}
		if bb.Bexit.Cond.Exists() {
			rw.addRead(bb.Bexit.Cond, bb)
		}
	}
	return rw
}
