package main

import (
	"testing"

	"github.com/hdlfront/svcore/diag"
)

func TestFormatSpanWithFile(t *testing.T) {
	s := diag.Span{File: "top.sv", StartLine: 12, StartCol: 4}
	got := formatSpan(s)
	want := "top.sv:12:4"
	if got != want {
		t.Errorf("formatSpan = %q, want %q", got, want)
	}
}

func TestFormatSpanWithoutFileIsUnknown(t *testing.T) {
	got := formatSpan(diag.Span{})
	if got != "<unknown>" {
		t.Errorf("formatSpan of a zero Span = %q, want <unknown>", got)
	}
}

func TestRenderDiagnosticsEmptySinkDoesNotPanic(t *testing.T) {
	sink := diag.NewSink()
	renderDiagnostics(sink)
}

func TestRenderDiagnosticsWithMixedSeveritiesDoesNotPanic(t *testing.T) {
	sink := diag.NewSink()
	sink.Errorf(diag.Span{File: "a.sv", StartLine: 1, StartCol: 1}, diag.CodeNotConstant, "bad thing")
	sink.Warnf(diag.Span{File: "a.sv", StartLine: 2, StartCol: 1}, diag.CodeUnknownCondition, "questionable thing")
	sink.AddNote("previous", "declared here", diag.Span{File: "a.sv", StartLine: 1, StartCol: 1})
	renderDiagnostics(sink)
}
