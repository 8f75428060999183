package lspbridge

import (
	"testing"

	"go.lsp.dev/protocol"

	"github.com/solalang/solatype/internal/diag"
)

func TestToDiagnosticMapsErrorLevelToErrorSeverity(t *testing.T) {
	d := diag.Diagnostic{
		Code:    diag.CBackEdgeAsymmetry,
		Level:   diag.LevelError,
		File:    "graph.json",
		Line:    3,
		Column:  5,
		Message: "back-edge asymmetry on block 2",
	}
	got := ToDiagnostic(d)
	if got.Severity != protocol.DiagnosticSeverityError {
		t.Fatalf("expected error severity, got %v", got.Severity)
	}
	if got.Range.Start.Line != 2 || got.Range.Start.Character != 4 {
		t.Fatalf("expected zero-based position (2,4), got %+v", got.Range.Start)
	}
	if got.Code != string(diag.CBackEdgeAsymmetry) {
		t.Fatalf("expected code to round-trip, got %v", got.Code)
	}
}

func TestToDiagnosticMapsWarningLevel(t *testing.T) {
	d := diag.Diagnostic{Level: diag.LevelWarning, Message: "non-fatal"}
	got := ToDiagnostic(d)
	if got.Severity != protocol.DiagnosticSeverityWarning {
		t.Fatalf("expected warning severity, got %v", got.Severity)
	}
}

func TestFileURIRoundTripsThroughPathFromURI(t *testing.T) {
	u := FileURI("/tmp/example.sola")
	back := PathFromURI(u)
	if back != "/tmp/example.sola" {
		t.Fatalf("expected round trip to recover the original path, got %q", back)
	}
}
