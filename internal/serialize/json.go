// Package serialize is the CFG<->JSON codec the CLI uses to load a raw
// graph fixture from disk and to dump a finalized one for inspection. This
// is input/output plumbing for the CLI and for tests, not persisted state
// owned by the pipeline itself (the pipeline never reads or writes a
// file). Uses github.com/segmentio/encoding/json, a drop-in faster
// replacement for the stdlib package of the same name, since nova's
// go.mod already names it.
package serialize

import (
	"fmt"

	"github.com/segmentio/encoding/json"

	"github.com/solalang/solatype/internal/cfg"
	"github.com/solalang/solatype/internal/names"
)

// Graph is the wire shape of a raw or finalized CFG: block IDs instead of
// pointers, variable names resolved against a names.Table instead of bare
// Refs (a Ref is only meaningful relative to the Table that minted it, so
// serializing the integer alone would be useless to a reader of the file).
type Graph struct {
	Blocks    []Block `json:"blocks"`
	EntryID   int     `json:"entry"`
	DeadID    int     `json:"dead_block"`
	MinLoops  map[string]int `json:"min_loops,omitempty"`
	MaxLoops  map[string]int `json:"max_loop_write,omitempty"`
}

// Block is one basic block: its exit edges, predecessors, bindings, and
// (once filled in by fillInBlockArguments) its phi-position arguments.
type Block struct {
	ID         int      `json:"id"`
	OuterLoops int      `json:"outer_loops"`
	Cond       *Var     `json:"cond,omitempty"`
	Thenb      int      `json:"thenb"`
	Elseb      int      `json:"elseb"`
	BackEdges  []int    `json:"back_edges,omitempty"`
	Exprs      []Binding `json:"exprs,omitempty"`
	Args       []Var    `json:"args,omitempty"`
	LoopHeader bool     `json:"loop_header,omitempty"`
}

// Var is a variable's wire form: its surface name plus the uniquifying
// counter the front end assigned it.
type Var struct {
	Name   string `json:"name"`
	Unique int    `json:"unique"`
}

// Binding is one `bind := value`, with Value a tagged instruction.
type Binding struct {
	Bind  Var         `json:"bind"`
	Value Instruction `json:"value"`
}

// Instruction is the wire form of cfg.Instruction: a tag plus whichever
// fields that tag uses; the rest are left zero, matching
// cfg.Instruction's closed set.
type Instruction struct {
	Tag     string  `json:"tag"`
	What    *Var    `json:"what,omitempty"`
	Recv    *Var    `json:"recv,omitempty"`
	Method  string  `json:"method,omitempty"`
	Args    []Var   `json:"args,omitempty"`
	Index   int     `json:"index,omitempty"`
	Bool    bool    `json:"bool,omitempty"`
	Int     int64   `json:"int,omitempty"`
	Float   float64 `json:"float,omitempty"`
	String  string  `json:"string,omitempty"`
	Symbol  string  `json:"symbol,omitempty"`
}

// Encode converts a *cfg.CFG into its wire Graph, resolving every Var's
// Name through tbl.
func Encode(tbl *names.Table, g *cfg.CFG) Graph {
	out := Graph{
		EntryID: int(g.Entry.ID),
		DeadID:  int(g.DeadBlock.ID),
	}
	if g.MinLoops != nil {
		out.MinLoops = make(map[string]int, len(g.MinLoops))
		for v, n := range g.MinLoops {
			out.MinLoops[varKey(tbl, v)] = n
		}
	}
	if g.MaxLoopWrite != nil {
		out.MaxLoops = make(map[string]int, len(g.MaxLoopWrite))
		for v, n := range g.MaxLoopWrite {
			out.MaxLoops[varKey(tbl, v)] = n
		}
	}
	for _, bb := range g.Blocks {
		out.Blocks = append(out.Blocks, encodeBlock(tbl, bb))
	}
	return out
}

func varKey(tbl *names.Table, v cfg.Var) string {
	return fmt.Sprintf("%s#%d", tbl.String(v.Name), v.Unique)
}

func encodeVar(tbl *names.Table, v cfg.Var) Var {
	return Var{Name: tbl.String(v.Name), Unique: v.Unique}
}

func encodeBlock(tbl *names.Table, bb *cfg.BasicBlock) Block {
	b := Block{
		ID:         int(bb.ID),
		OuterLoops: bb.OuterLoops,
		Thenb:      int(bb.Bexit.Thenb.ID),
		Elseb:      int(bb.Bexit.Elseb.ID),
		LoopHeader: bb.IsLoopHeader(),
	}
	if bb.Bexit.Cond.Exists() {
		v := encodeVar(tbl, bb.Bexit.Cond)
		b.Cond = &v
	}
	for _, p := range bb.BackEdges {
		b.BackEdges = append(b.BackEdges, int(p.ID))
	}
	for _, bind := range bb.Exprs {
		b.Exprs = append(b.Exprs, Binding{
			Bind:  encodeVar(tbl, bind.Bind),
			Value: encodeInstruction(tbl, bind.Value),
		})
	}
	for _, a := range bb.Args {
		b.Args = append(b.Args, encodeVar(tbl, a))
	}
	return b
}

func encodeInstruction(tbl *names.Table, i cfg.Instruction) Instruction {
	switch v := i.(type) {
	case cfg.Ident:
		w := encodeVar(tbl, v.What)
		return Instruction{Tag: "ident", What: &w}
	case cfg.Send:
		r := encodeVar(tbl, v.Recv)
		out := Instruction{Tag: "send", Recv: &r, Method: tbl.String(v.Method)}
		for _, a := range v.Args {
			out.Args = append(out.Args, encodeVar(tbl, a))
		}
		return out
	case cfg.Return:
		w := encodeVar(tbl, v.What)
		return Instruction{Tag: "return", What: &w}
	case cfg.Self:
		return Instruction{Tag: "self"}
	case cfg.LoadArg:
		return Instruction{Tag: "load_arg", Index: v.Index}
	case cfg.BoolLit:
		return Instruction{Tag: "bool", Bool: v.Value}
	case cfg.IntLit:
		return Instruction{Tag: "int", Int: v.Value}
	case cfg.FloatLit:
		return Instruction{Tag: "float", Float: v.Value}
	case cfg.StringLit:
		return Instruction{Tag: "string", String: v.Value}
	case cfg.SymbolLit:
		return Instruction{Tag: "symbol", Symbol: v.Value}
	case cfg.ArraySplat:
		w := encodeVar(tbl, v.What)
		return Instruction{Tag: "array_splat", What: &w}
	case cfg.HashSplat:
		w := encodeVar(tbl, v.What)
		return Instruction{Tag: "hash_splat", What: &w}
	default:
		return Instruction{Tag: "unknown"}
	}
}

// Decode rebuilds a *cfg.CFG from a wire Graph, interning every variable
// and method name into tbl as it goes.
func Decode(tbl *names.Table, g Graph) (*cfg.CFG, error) {
	out := &cfg.CFG{}
	byID := make(map[int]*cfg.BasicBlock, len(g.Blocks))
	for _, wb := range g.Blocks {
		byID[wb.ID] = &cfg.BasicBlock{ID: cfg.BlockID(wb.ID), OuterLoops: wb.OuterLoops}
	}
	for _, wb := range g.Blocks {
		bb := byID[wb.ID]
		thenb, ok := byID[wb.Thenb]
		if !ok {
			return nil, fmt.Errorf("block %d: thenb %d not found", wb.ID, wb.Thenb)
		}
		elseb, ok := byID[wb.Elseb]
		if !ok {
			return nil, fmt.Errorf("block %d: elseb %d not found", wb.ID, wb.Elseb)
		}
		bb.Bexit = cfg.BranchExit{Thenb: thenb, Elseb: elseb}
		if wb.Cond != nil {
			bb.Bexit.Cond = decodeVar(tbl, *wb.Cond)
		}
		for _, pid := range wb.BackEdges {
			p, ok := byID[pid]
			if !ok {
				return nil, fmt.Errorf("block %d: back-edge from unknown block %d", wb.ID, pid)
			}
			bb.BackEdges = append(bb.BackEdges, p)
		}
		for _, wbind := range wb.Exprs {
			inst, err := decodeInstruction(tbl, wbind.Value)
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", wb.ID, err)
			}
			bb.Exprs = append(bb.Exprs, cfg.Binding{Bind: decodeVar(tbl, wbind.Bind), Value: inst})
		}
		for _, wv := range wb.Args {
			bb.Args = append(bb.Args, decodeVar(tbl, wv))
		}
		if wb.LoopHeader {
			bb.SetLoopHeader(true)
		}
		out.Blocks = append(out.Blocks, bb)
	}
	entry, ok := byID[g.EntryID]
	if !ok {
		return nil, fmt.Errorf("entry block %d not found", g.EntryID)
	}
	dead, ok := byID[g.DeadID]
	if !ok {
		return nil, fmt.Errorf("dead block %d not found", g.DeadID)
	}
	out.Entry, out.DeadBlock = entry, dead
	return out, nil
}

func decodeVar(tbl *names.Table, v Var) cfg.Var {
	return cfg.Var{Name: tbl.Intern(v.Name), Unique: v.Unique}
}

func decodeInstruction(tbl *names.Table, i Instruction) (cfg.Instruction, error) {
	switch i.Tag {
	case "ident":
		if i.What == nil {
			return nil, fmt.Errorf("ident missing what")
		}
		return cfg.Ident{What: decodeVar(tbl, *i.What)}, nil
	case "send":
		if i.Recv == nil {
			return nil, fmt.Errorf("send missing recv")
		}
		args := make([]cfg.Var, 0, len(i.Args))
		for _, a := range i.Args {
			args = append(args, decodeVar(tbl, a))
		}
		return cfg.Send{Recv: decodeVar(tbl, *i.Recv), Method: tbl.Intern(i.Method), Args: args}, nil
	case "return":
		if i.What == nil {
			return nil, fmt.Errorf("return missing what")
		}
		return cfg.Return{What: decodeVar(tbl, *i.What)}, nil
	case "self":
		return cfg.Self{}, nil
	case "load_arg":
		return cfg.LoadArg{Index: i.Index}, nil
	case "bool":
		return cfg.BoolLit{Value: i.Bool}, nil
	case "int":
		return cfg.IntLit{Value: i.Int}, nil
	case "float":
		return cfg.FloatLit{Value: i.Float}, nil
	case "string":
		return cfg.StringLit{Value: i.String}, nil
	case "symbol":
		return cfg.SymbolLit{Value: i.Symbol}, nil
	case "array_splat":
		if i.What == nil {
			return nil, fmt.Errorf("array_splat missing what")
		}
		return cfg.ArraySplat{What: decodeVar(tbl, *i.What)}, nil
	case "hash_splat":
		if i.What == nil {
			return nil, fmt.Errorf("hash_splat missing what")
		}
		return cfg.HashSplat{What: decodeVar(tbl, *i.What)}, nil
	default:
		return nil, fmt.Errorf("unknown instruction tag %q", i.Tag)
	}
}

// Marshal encodes g as indented JSON.
func Marshal(tbl *names.Table, g *cfg.CFG) ([]byte, error) {
	return json.MarshalIndent(Encode(tbl, g), "", "  ")
}

// Unmarshal parses JSON produced by Marshal (or a hand-written fixture in
// the same shape) back into a *cfg.CFG.
func Unmarshal(tbl *names.Table, data []byte) (*cfg.CFG, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return Decode(tbl, g)
}

// MarshalAny indents v with the same codec Marshal uses, for CLI output
// (e.g. a dump of protocol.Diagnostic values) that isn't a Graph itself.
func MarshalAny(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
