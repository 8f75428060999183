// Package lspbridge adapts internal/diag.Diagnostic values - the CFG
// finalization pipeline's own invariant-violation records - into the
// go.lsp.dev/protocol shapes an editor's LSP client expects, the way
// nova's internal/lsp/diagnostics.go converts its own CompileError-style
// values via ErrorCodeToDiagnostic. This package implements only the
// value-type conversion, not a server loop: cfg.Finalize's diagnostics are
// programmer-error assertions about the pipeline itself, not user-facing
// language errors, but the CLI's -lsp-diagnostics flag still wants to see
// them rendered the way an editor would.
package lspbridge

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/solalang/solatype/internal/diag"
)

// ToDiagnostic converts one diag.Diagnostic into a protocol.Diagnostic,
// the same Line/Column-to-zero-based-Position mapping nova's
// ErrorCodeToDiagnostic uses, with error/warning severity taken from the
// Diagnostic's Level. A zero Line/
// Column (no source position attached, the common case for a CFG
// invariant violation) is rendered as the file's first character rather
// than nova's "estimate +10 characters" heuristic, which assumes a
// real source position to begin with.
func ToDiagnostic(d diag.Diagnostic) protocol.Diagnostic {
	severity := severityFor(d.Level)

	line := d.Line - 1
	if line < 0 {
		line = 0
	}
	col := d.Column - 1
	if col < 0 {
		col = 0
	}
	endCol := col
	if d.Line > 0 {
		endCol = col + 10
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(endCol)},
		},
		Severity: severity,
		Code:     string(d.Code),
		Source:   "solatype-cfg",
		Message:  d.Message,
	}
}

func severityFor(level diag.Level) protocol.DiagnosticSeverity {
	switch level {
	case diag.LevelWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityError
	}
}

// ToDiagnostics converts every entry in entries, in order.
func ToDiagnostics(entries []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(entries))
	for _, d := range entries {
		out = append(out, ToDiagnostic(d))
	}
	return out
}

// FileURI converts a filesystem path into the file:// URI an editor
// expects in a PublishDiagnosticsParams, mirroring nova's
// uriToPath in the opposite direction.
func FileURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(uri.File(path))
}

// PathFromURI is nova's uriToPath, renamed: converts an editor's
// document URI back into a filesystem path, falling back to the raw
// string if it doesn't parse as a URI.
func PathFromURI(docURI protocol.DocumentURI) string {
	u, err := uri.Parse(string(docURI))
	if err != nil {
		return string(docURI)
	}
	return u.Filename()
}
