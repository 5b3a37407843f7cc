package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "note", SeverityNote.String())
}

func TestErrorfAppendsErrorDiagnostic(t *testing.T) {
	s := NewSink()
	s.Errorf(Span{File: "a.sv", StartLine: 3}, CodeTypeMismatch, "cannot assign %s to %s", "int", "string")

	diags := s.Diagnostics()
	if assert.Len(t, diags, 1) {
		d := diags[0]
		assert.Equal(t, SeverityError, d.Severity)
		assert.Equal(t, CodeTypeMismatch, d.Code)
		assert.Equal(t, "cannot assign int to string", d.Message)
		assert.Equal(t, "a.sv", d.Span.File)
		assert.Equal(t, 3, d.Span.StartLine)
	}
}

func TestWarnfAppendsWarningDiagnostic(t *testing.T) {
	s := NewSink()
	s.Warnf(Span{}, CodeUnknownCondition, "questionable")

	diags := s.Diagnostics()
	if assert.Len(t, diags, 1) {
		assert.Equal(t, SeverityWarning, diags[0].Severity)
	}
}

func TestAnyErrorsIgnoresWarnings(t *testing.T) {
	s := NewSink()
	s.Warnf(Span{}, CodeUnknownCondition, "just a warning")
	assert.False(t, s.AnyErrors())

	s.Errorf(Span{}, CodeTypeMismatch, "now an error")
	assert.True(t, s.AnyErrors())
}

func TestAddNoteAttachesToMostRecentDiagnostic(t *testing.T) {
	s := NewSink()
	s.Errorf(Span{File: "a.sv"}, CodeDuplicateDeclaration, "duplicate")
	s.AddNote("previous", "first declared here", Span{File: "a.sv", StartLine: 1})

	notes := s.Diagnostics()[0].Notes
	if assert.Len(t, notes, 1) {
		assert.Equal(t, "previous", notes[0].Kind)
		assert.Equal(t, "first declared here", notes[0].Message)
	}
}

func TestAddNoteOnEmptySinkIsNoop(t *testing.T) {
	s := NewSink()
	s.AddNote("previous", "nothing to attach to", Span{})
	assert.Empty(t, s.Diagnostics())
}

func TestDiagnosticsPreservesInsertionOrder(t *testing.T) {
	s := NewSink()
	s.Errorf(Span{}, CodeTypeMismatch, "first")
	s.Warnf(Span{}, CodeUnknownCondition, "second")
	s.Errorf(Span{}, CodeDivideByZero, "third")

	diags := s.Diagnostics()
	if assert.Len(t, diags, 3) {
		assert.Equal(t, "first", diags[0].Message)
		assert.Equal(t, "second", diags[1].Message)
		assert.Equal(t, "third", diags[2].Message)
	}
}
