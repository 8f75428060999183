package worker

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/solalang/solatype/internal/cfg"
)

// Digest computes a structural hash of a raw CFG - block count, each
// block's edges and outer-loop depth, and the tag of every instruction a
// block binds - good enough to recognize "the same graph, submitted
// twice in this batch" without hashing variable names or interned refs,
// which differ across otherwise-identical graphs built by two separate
// front-end runs.
func Digest(g *cfg.CFG) [blake2b.Size]byte {
	h, _ := blake2b.New256(nil)
	write := func(n int) {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(n)))
		h.Write(buf[:])
	}

	write(len(g.Blocks))
	for _, bb := range g.Blocks {
		write(int(bb.ID))
		write(bb.OuterLoops)
		write(len(bb.Exprs))
		for _, bind := range bb.Exprs {
			h.Write([]byte(instructionTag(bind.Value)))
		}
		if bb.Bexit.Thenb != nil {
			write(int(bb.Bexit.Thenb.ID))
		}
		if bb.Bexit.Elseb != nil {
			write(int(bb.Bexit.Elseb.ID))
		}
	}

	var out [blake2b.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

func instructionTag(i cfg.Instruction) string {
	switch i.(type) {
	case cfg.Ident:
		return "ident"
	case cfg.Send:
		return "send"
	case cfg.Return:
		return "return"
	case cfg.Self:
		return "self"
	case cfg.LoadArg:
		return "loadarg"
	case cfg.BoolLit:
		return "bool"
	case cfg.IntLit:
		return "int"
	case cfg.FloatLit:
		return "float"
	case cfg.StringLit:
		return "string"
	case cfg.SymbolLit:
		return "symbol"
	case cfg.ArraySplat:
		return "arraysplat"
	case cfg.HashSplat:
		return "hashsplat"
	default:
		return "unknown"
	}
}
