// Package diag implements the diagnostic sink owned by each Compilation.
package diag

import "fmt"

// Severity is the importance of a reported Diagnostic.
type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// Code is a stable diagnostic code. The zero value is never issued.
type Code int

// Enumeration of diagnostic codes, grouped by category: name resolution,
// type compatibility, constant evaluation, and argument binding.
const (
	_ Code = iota

	// Lookup
	CodeNameNotFound
	CodeAmbiguousImport
	CodeHierarchicalNotAllowed

	// Type
	CodeTypeMismatch
	CodeBadCast
	CodeUnsizedDynamicType

	// Access
	CodeStaticAccess
	CodePrivateAccess

	// Argument mismatch
	CodeTooFewArguments
	CodeTooManyArguments
	CodeMixedArguments
	CodeDuplicateNamedArgument
	CodeUnknownNamedArgument
	CodeMissingDefault

	// Constant evaluation
	CodeNotConstant
	CodeConstCallNotAllowed
	CodeConstFormalDirection
	CodeConstFunctionInGenerate
	CodeHierarchicalInConstant
	CodeDivideByZero
	CodeRecursionLimit
	CodeUnknownCondition

	// Dependency cycle
	CodeDependencyCycle

	// Elaboration / declaration
	CodeDuplicateDeclaration
	CodeInvalidParameterOverride
	CodeLocalParameterOverride
)

// Note is a secondary annotation attached to a Diagnostic, e.g. pointing back
// at a previous declaration.
type Note struct {
	Kind    string
	Message string
	Span    Span
}

// Span is a half-open source range. The core treats it as an opaque value
// supplied by the syntax tree; it never interprets file identity itself.
type Span struct {
	File             string
	StartLine, StartCol int
	EndLine, EndCol     int
}

// Diagnostic is a single structured error, warning, or note.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     Span
	Message  string
	Notes    []Note
}

// Sink collects diagnostics in insertion order for a single Compilation. It
// never aborts the process; callers decide what to do with severities.
type Sink struct {
	diags []Diagnostic
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Errorf appends an error diagnostic at the given span.
func (s *Sink) Errorf(span Span, code Code, format string, args ...interface{}) {
	s.diags = append(s.diags, Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warnf appends a warning diagnostic at the given span.
func (s *Sink) Warnf(span Span, code Code, format string, args ...interface{}) {
	s.diags = append(s.diags, Diagnostic{
		Code:     code,
		Severity: SeverityWarning,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	})
}

// AddNote attaches a note to the most recently reported diagnostic. It is a
// no-op if nothing has been reported yet.
func (s *Sink) AddNote(kind, msg string, span Span) {
	if len(s.diags) == 0 {
		return
	}
	last := &s.diags[len(s.diags)-1]
	last.Notes = append(last.Notes, Note{Kind: kind, Message: msg, Span: span})
}

// Diagnostics returns the collected diagnostics in insertion order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}

// AnyErrors reports whether any SeverityError diagnostic has been collected.
func (s *Sink) AnyErrors() bool {
	for _, d := range s.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
