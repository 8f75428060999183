package diag

import (
	"fmt"
	"sync"
)

// Diagnostic is the Go shape of nova's CompileError, trimmed to what
// a CFG-invariant violation needs: no Labels/Hints/Notes, since these never
// reach a user - they describe a programmer error in the front end or in
// one of the finalization passes themselves.
type Diagnostic struct {
	Code    Code
	Level   Level
	File    string
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: [%s] %s", d.File, d.Line, d.Column, d.Code, d.Message)
}

// EnforceViolation is panicked by Queue.Enforce when a debug-mode
// assertion fails, carrying the Diagnostic that was also appended to the
// queue so a recovering caller (tests, the worker pool) can inspect it
// without re-deriving the message.
type EnforceViolation struct {
	Diagnostic Diagnostic
}

func (e *EnforceViolation) Error() string {
	return e.Diagnostic.Error()
}

// Queue is the append-only, thread-safe error sink the Context exposes.
// Multiple worker-pool goroutines may each own a distinct CFG but still
// share one Queue, the sole shared-mutable resource across a batch, so
// every method takes a lock around a plain slice append rather than
// reaching for a lock-free structure.
type Queue struct {
	mu        sync.Mutex
	debugMode bool
	entries   []Diagnostic
}

// NewQueue creates an empty queue. debugMode gates Enforce: true makes a
// failed condition fatal (panics with EnforceViolation), false makes
// Enforce a no-op, so production builds skip these checks for speed.
func NewQueue(debugMode bool) *Queue {
	return &Queue{debugMode: debugMode}
}

// DebugMode reports whether this queue's Enforce calls are live.
func (q *Queue) DebugMode() bool {
	return q.debugMode
}

// Append records a diagnostic without aborting. Used for the occasional
// case a caller wants a soft diagnostic even in debug mode.
func (q *Queue) Append(d Diagnostic) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, d)
}

// Entries returns a snapshot copy of everything appended so far.
func (q *Queue) Entries() []Diagnostic {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Diagnostic, len(q.entries))
	copy(out, q.entries)
	return out
}

// Enforce is the Go expression of ENFORCE: in debug mode, a false cond
// appends a Diagnostic and panics with it; outside debug mode it is a
// no-op, same as the C++ macro compiling to nothing in release builds.
// It satisfies cfg.ErrorQueue's narrow (cond, format, args) signature -
// callers that want a specific Code (rather than the generic
// CInvariantViolation) should build a Diagnostic and call Append directly.
func (q *Queue) Enforce(cond bool, format string, args ...any) {
	if cond || !q.debugMode {
		return
	}
	d := Diagnostic{
		Code:    CInvariantViolation,
		Level:   LevelError,
		Message: fmt.Sprintf(format, args...),
	}
	q.Append(d)
	panic(&EnforceViolation{Diagnostic: d})
}

// EnforceWithCode behaves like Enforce but records a specific Code and
// source location, for call sites (e.g. input-contract validation) that
// know more than "some invariant failed".
func (q *Queue) EnforceWithCode(cond bool, code Code, file string, line, col int, format string, args ...any) {
	if cond || !q.debugMode {
		return
	}
	d := Diagnostic{
		Code:    code,
		Level:   LevelError,
		File:    file,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
	q.Append(d)
	panic(&EnforceViolation{Diagnostic: d})
}
