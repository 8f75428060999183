package cfg

// Builder is the hand-construction surface that stands in for "a front end
// lowered a method body into a raw CFG" - parsing and AST lowering are out
// of scope here, but this module still needs some way to produce the raw
// CFG Finalize consumes. It is modeled directly on the
// teacher's compiler.CFGBuilder: a currentBlock cursor, AddSuccessor wiring
// both the successor and its back-edge in one call, and a loopStack of
// continue/break targets for patching loop bodies - just emitting this
// package's Binding/Instruction shapes instead of ast.Statement.
type Builder struct {
	cfg          *CFG
	currentBlock *BasicBlock
	loopStack    []loopContext
}

type loopContext struct {
	continueTarget *BasicBlock
	breakTarget    *BasicBlock
}

// NewBuilder starts a new CFG with an Entry and a DeadBlock already wired:
// Entry unconditionally falls through to DeadBlock until real blocks are
// appended, so the graph is always well-formed between Builder calls.
// DeadBlock self-loops its own branch exit, the same way addDeadBlock does
// in tests, so simplify's uniform per-block Bexit handling never
// dereferences a nil thenb/elseb on it.
func NewBuilder() *Builder {
	b := &Builder{cfg: &CFG{}}
	dead := b.newBlock(0)
	entry := b.newBlock(0)
	b.cfg.DeadBlock = dead
	b.cfg.Entry = entry
	dead.Bexit = BranchExit{Thenb: dead, Elseb: dead}
	entry.Bexit = BranchExit{Thenb: dead, Elseb: dead}
	dead.BackEdges = append(dead.BackEdges, entry)
	b.currentBlock = entry
	return b
}

// Dead returns the CFG's designated dead block, so callers can explicitly
// jump a terminal block (one ending in Return) there once they're done
// with it - every block needs a non-nil Bexit before Finalize runs.
func (b *Builder) Dead() *BasicBlock {
	return b.cfg.DeadBlock
}

func (b *Builder) newBlock(outerLoops int) *BasicBlock {
	bb := &BasicBlock{ID: b.cfg.nextID, OuterLoops: outerLoops}
	b.cfg.nextID++
	b.cfg.Blocks = append(b.cfg.Blocks, bb)
	return bb
}

// NewBlock allocates a fresh, unconnected block at the given loop depth.
func (b *Builder) NewBlock(outerLoops int) *BasicBlock {
	return b.newBlock(outerLoops)
}

// Current returns the block the builder is currently appending to.
func (b *Builder) Current() *BasicBlock { return b.currentBlock }

// SetCurrent repositions the builder's cursor, e.g. after manually wiring a
// branch's two arms.
func (b *Builder) SetCurrent(bb *BasicBlock) { b.currentBlock = bb }

// Bind appends `v := inst` to the current block.
func (b *Builder) Bind(v Var, inst Instruction) {
	b.currentBlock.Exprs = append(b.currentBlock.Exprs, Binding{Bind: v, Value: inst})
}

// BindIn appends `v := inst` to an explicit block (for patching arms built
// out of cursor order, e.g. the then/else halves of an if).
func (b *Builder) BindIn(bb *BasicBlock, v Var, inst Instruction) {
	bb.Exprs = append(bb.Exprs, Binding{Bind: v, Value: inst})
}

// Jump sets an unconditional branch from `from` to `to`, wiring the
// back-edge both ways in the one call, the way nova's AddSuccessor
// updates Predecessors and Successors together.
func (b *Builder) Jump(from, to *BasicBlock) {
	b.retarget(from, BranchExit{Thenb: to, Elseb: to})
}

// Branch sets a conditional branch from `from` on cond, to thenb if true
// and elseb if false, wiring both back-edges.
func (b *Builder) Branch(from *BasicBlock, cond Var, thenb, elseb *BasicBlock) {
	b.retarget(from, BranchExit{Cond: cond, Thenb: thenb, Elseb: elseb})
}

// retarget replaces from's branch exit with next, dropping from out of
// whatever blocks its old exit pointed at (NewBuilder pre-wires entry to
// DeadBlock, and a later Jump/Branch must not leave entry listed among
// DeadBlock's back-edges once it no longer targets it - a stale back-edge
// there fails simplify's sanityCheck) before recording the new back-edges.
func (b *Builder) retarget(from *BasicBlock, next BranchExit) {
	old := from.Bexit
	if old.Thenb != nil {
		removeBackEdge(old.Thenb, from)
		if old.Elseb != old.Thenb {
			removeBackEdge(old.Elseb, from)
		}
	}
	from.Bexit = next
	next.Thenb.BackEdges = append(next.Thenb.BackEdges, from)
	if next.Elseb != next.Thenb {
		next.Elseb.BackEdges = append(next.Elseb.BackEdges, from)
	}
}

// PushLoop records continue/break targets for the duration of one loop
// body, so nested Break/Continue calls can find them.
func (b *Builder) PushLoop(continueTarget, breakTarget *BasicBlock) {
	b.loopStack = append(b.loopStack, loopContext{continueTarget: continueTarget, breakTarget: breakTarget})
}

// PopLoop discards the innermost loop context.
func (b *Builder) PopLoop() {
	b.loopStack = b.loopStack[:len(b.loopStack)-1]
}

// Break jumps the current block to the innermost loop's break target.
func (b *Builder) Break() {
	ctx := b.loopStack[len(b.loopStack)-1]
	b.Jump(b.currentBlock, ctx.breakTarget)
}

// Continue jumps the current block to the innermost loop's continue target.
func (b *Builder) Continue() {
	ctx := b.loopStack[len(b.loopStack)-1]
	b.Jump(b.currentBlock, ctx.continueTarget)
}

// Finish returns the constructed raw CFG. Callers pass this straight to
// Finalize; Builder does no simplification or sorting of its own.
func (b *Builder) Finish() *CFG {
	return b.cfg
}
