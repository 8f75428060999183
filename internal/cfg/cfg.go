// Package cfg implements the control-flow-graph finalization pipeline: the
// sequence of passes that turn a front end's raw basic-block graph into the
// form flow-sensitive type inference consumes. The pipeline
// consults its collaborators only through the small Names/ErrorQueue/
// Telemetry interfaces declared here, never through the concrete
// internal/diag or internal/telemetry types, so a caller can substitute a
// test double.
package cfg

import "github.com/solalang/solatype/internal/names"

// BlockID is a dense integer index, unique within one CFG and stable across
// simplification, used to key the side tables the passes build (per-block
// reads/writes sets, the two topo-sort visited maps, upper_bounds1/2).
type BlockID int

// BlockFlags is the bitset attribute a basic block carries, named `flags`.
type BlockFlags uint8

const (
	FlagLoopHeader BlockFlags = 1 << iota
)

// BranchExit is a basic block's single conditional branch. An unconditional
// branch is encoded as Thenb == Elseb.
type BranchExit struct {
	Cond  Var // zero Var (Cond.Exists() == false) for an unconditional branch
	Thenb *BasicBlock
	Elseb *BasicBlock
}

// BasicBlock is a maximal straight-line sequence of Bindings terminated by
// one BranchExit.
type BasicBlock struct {
	ID         BlockID
	Exprs      []Binding
	Bexit      BranchExit
	BackEdges  []*BasicBlock // predecessors; deduped and id-sorted after each simplify pass
	OuterLoops int           // loop-nesting depth, assigned by the front end
	Flags      BlockFlags
	Args       []Var // phi-position arguments, populated by fillInBlockArguments
}

func (b *BasicBlock) hasFlag(f BlockFlags) bool  { return b.Flags&f != 0 }
func (b *BasicBlock) setFlag(f BlockFlags)        { b.Flags |= f }
func (b *BasicBlock) clearFlag(f BlockFlags)      { b.Flags &^= f }

// IsLoopHeader reports whether markLoopHeaders flagged this block.
func (b *BasicBlock) IsLoopHeader() bool { return b.hasFlag(FlagLoopHeader) }

// SetLoopHeader sets or clears the loop-header flag directly, for a
// caller reconstructing a previously-finalized CFG (e.g. internal/serialize
// decoding a dump) rather than deriving it via markLoopHeaders.
func (b *BasicBlock) SetLoopHeader(v bool) {
	if v {
		b.setFlag(FlagLoopHeader)
	} else {
		b.clearFlag(FlagLoopHeader)
	}
}

// ReadsAndWrites holds the per-variable block sets collectReadsWrites
// computes: which blocks mention a variable as an operand, and which blocks
// bind it.
type ReadsAndWrites struct {
	Reads  map[Var]map[*BasicBlock]struct{}
	Writes map[Var]map[*BasicBlock]struct{}
}

func newReadsAndWrites() *ReadsAndWrites {
	return &ReadsAndWrites{
		Reads:  make(map[Var]map[*BasicBlock]struct{}),
		Writes: make(map[Var]map[*BasicBlock]struct{}),
	}
}

func (rw *ReadsAndWrites) addRead(v Var, b *BasicBlock) {
	if !v.Exists() {
		return
	}
	s, ok := rw.Reads[v]
	if !ok {
		s = make(map[*BasicBlock]struct{})
		rw.Reads[v] = s
	}
	s[b] = struct{}{}
}

func (rw *ReadsAndWrites) addWrite(v Var, b *BasicBlock) {
	if !v.Exists() {
		return
	}
	s, ok := rw.Writes[v]
	if !ok {
		s = make(map[*BasicBlock]struct{})
		rw.Writes[v] = s
	}
	s[b] = struct{}{}
}

// CFG is an owned arena of basic blocks plus the two designated blocks
// (Entry, DeadBlock), the two topological orderings, and the two
// per-variable loop-depth maps the pipeline fills in.
type CFG struct {
	Blocks  []*BasicBlock
	Entry   *BasicBlock
	DeadBlock *BasicBlock

	ForwardTopoSort  []*BasicBlock
	BackwardTopoSort []*BasicBlock

	MinLoops     map[Var]int
	MaxLoopWrite map[Var]int

	rw       *ReadsAndWrites // not assigned by any pass; collectReadsWrites returns its result to the caller instead
	nextID   BlockID
}

// Names is the subset of a name table the pipeline needs (ctx.names):
// temporary/alias predicates and the blockCall marker.
type Names interface {
	IsSyntheticTemporary(r names.Ref) bool
	IsAliasForGlobal(r names.Ref) bool
	IsBlockCall(r names.Ref) bool
}

// ErrorQueue is the subset of internal/diag.Queue the pipeline needs:
// fail-loud assertions in debug mode, silent elsewhere.
type ErrorQueue interface {
	Enforce(cond bool, format string, args ...any)
	DebugMode() bool
}

// Telemetry is the histogramInc sink: observation-only, never required
// for correctness.
type Telemetry interface {
	HistogramInc(name string, value int)
}

// Context bundles the three external collaborators the pipeline consults.
type Context struct {
	Names      Names
	Errors     ErrorQueue
	Telemetry  Telemetry
}
