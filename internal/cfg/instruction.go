package cfg

import "github.com/solalang/solatype/internal/names"

// Var is a local variable: a name plus a uniquifying counter, the way the
// front end distinguishes two bindings that happen to share a surface name
// (e.g. across two branches of an if before they're merged).
type Var struct {
	Name   names.Ref
	Unique int
}

// Exists reports whether v is a real variable rather than the zero Var
// used as "no condition" on an unconditional branch exit.
func (v Var) Exists() bool {
	return v.Name != 0
}

// Binding is one `bind := value` evaluated in sequence within a block.
type Binding struct {
	Bind  Var
	Value Instruction
}

// Instruction is the closed tagged union of values a Binding can produce.
// The set is closed by construction - every concrete type below has an
// unexported marker method, so no type outside this package can implement
// Instruction, and removeDeadAssigns's allow-list switch is exhaustive by
// inspection.
type Instruction interface {
	instruction()
}

// Ident is a copy: `bind := what`.
type Ident struct {
	What Var
}

// Send is a method call: `bind := recv.method(args...)`.
type Send struct {
	Recv   Var
	Method names.Ref
	Args   []Var
}

// Return is a return statement's operand binding.
type Return struct {
	What Var
}

// Self reads the receiver.
type Self struct{}

// LoadArg reads the index-th positional argument of the enclosing method.
type LoadArg struct {
	Index int
}

// BoolLit, IntLit, FloatLit, StringLit, SymbolLit are literal constants.
type BoolLit struct{ Value bool }
type IntLit struct{ Value int64 }
type FloatLit struct{ Value float64 }
type StringLit struct{ Value string }
type SymbolLit struct{ Value string }

// ArraySplat and HashSplat expand a variable into a call's argument list.
type ArraySplat struct{ What Var }
type HashSplat struct{ What Var }

func (Ident) instruction()      {}
func (Send) instruction()       {}
func (Return) instruction()     {}
func (Self) instruction()       {}
func (LoadArg) instruction()    {}
func (BoolLit) instruction()    {}
func (IntLit) instruction()     {}
func (FloatLit) instruction()   {}
func (StringLit) instruction()  {}
func (SymbolLit) instruction()  {}
func (ArraySplat) instruction() {}
func (HashSplat) instruction()  {}

// isSideEffectFree reports whether an instruction's allow-list tag makes it
// safe to drop as a dead store when its bound variable is never read.
// Send, Return, and any future allocation/new-style node are NOT on this
// list and so are always preserved regardless of liveness, since they may
// have side effects.
func isSideEffectFree(i Instruction) bool {
	switch i.(type) {
	case Ident, ArraySplat, HashSplat, BoolLit, IntLit, FloatLit, StringLit, SymbolLit, Self, LoadArg:
		return true
	default:
		return false
	}
}

// operands returns the Vars an instruction reads (recv before args for a
// Send); collectReadsWrites records each one as a read.
func operands(i Instruction) []Var {
	switch v := i.(type) {
	case Ident:
		return []Var{v.What}
	case Send:
		out := make([]Var, 0, 1+len(v.Args))
		out = append(out, v.Recv)
		out = append(out, v.Args...)
		return out
	case Return:
		return []Var{v.What}
	case ArraySplat:
		return []Var{v.What}
	case HashSplat:
		return []Var{v.What}
	default:
		return nil
	}
}
