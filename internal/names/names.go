// Package names provides the interned name table the CFG finalization
// pipeline consults through its Context (ctx.names in spec terms):
// whether a name is a synthetic temporary eligible for dealiasing, whether
// it shadows a module-level name and so is never dead, and the single
// reserved blockCall marker that protects block-call trampolines in
// simplify.
package names

import "sync"

// Ref is an interned name id. Zero is reserved for "no name" so the zero
// value of Ref never aliases a real entry.
type Ref int

const noRef Ref = 0

// Table interns strings into small integer ids and tracks which ids carry
// which front-end-assigned traits. It is modeled on the registry shape of
// a compiler symbol table (one map per concern, looked up by id) rather
// than attaching traits to the string itself, so Var equality downstream
// stays a cheap integer comparison.
type Table struct {
	mu          sync.RWMutex
	byString    map[string]Ref
	strings     []string // Ref(i+1) -> strings[i]
	synthetic   map[Ref]bool
	aliasGlobal map[Ref]bool
	blockCall   Ref
}

// New creates an empty name table and reserves the blockCall marker name.
func New() *Table {
	t := &Table{
		byString:    make(map[string]Ref),
		synthetic:   make(map[Ref]bool),
		aliasGlobal: make(map[Ref]bool),
	}
	t.blockCall = t.Intern("<blockCall>")
	return t
}

// Intern returns the Ref for s, allocating a new one on first use.
func (t *Table) Intern(s string) Ref {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.byString[s]; ok {
		return r
	}
	t.strings = append(t.strings, s)
	r := Ref(len(t.strings))
	t.byString[s] = r
	return r
}

// String returns the interned text for r, or "" for an unknown/zero Ref.
func (t *Table) String(r Ref) string {
	if r == noRef {
		return ""
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx := int(r) - 1
	if idx < 0 || idx >= len(t.strings) {
		return ""
	}
	return t.strings[idx]
}

// MarkSyntheticTemporary records that r was minted by the front end as a
// temporary (e.g. the "t$3" in `a.foo(t$3 = expr, ...)`), making it a
// dealiasing candidate.
func (t *Table) MarkSyntheticTemporary(r Ref) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.synthetic[r] = true
}

// MarkAliasForGlobal records that r shadows a module/process-scope name,
// so bindings to it are never dead-store eliminated.
func (t *Table) MarkAliasForGlobal(r Ref) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.aliasGlobal[r] = true
}

// IsSyntheticTemporary reports whether r is eligible for dealiasing.
func (t *Table) IsSyntheticTemporary(r Ref) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.synthetic[r]
}

// IsAliasForGlobal reports whether r shadows a module-level name.
func (t *Table) IsAliasForGlobal(r Ref) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.aliasGlobal[r]
}

// IsBlockCall reports whether r is the reserved blockCall marker name,
// used on a branch condition to mark a protected block-call header.
func (t *Table) IsBlockCall(r Ref) bool {
	return r == t.blockCall
}

// BlockCall returns the reserved blockCall marker Ref.
func (t *Table) BlockCall() Ref {
	return t.blockCall
}
