package collector

import "github.com/apexls/core/internal/symbol"

// Diagnostic is one semantic error or warning produced during collection or
// by a modifier/visibility validator.
type Diagnostic struct {
	Code     string
	Message  string
	Location *symbol.Location
}

// ErrorReporter is the sink the collector and its modifier validators write
// semantic diagnostics to (spec.md §4.3). The collector never aborts a file
// on a reported error — it keeps building symbols to maximize recovery.
type ErrorReporter interface {
	Error(code, message string, loc *symbol.Location)
	Warning(code, message string, loc *symbol.Location)
}

// DiagnosticSink is the concrete in-memory ErrorReporter the surface layer
// reads back after a collection run.
type DiagnosticSink struct {
	errors   []Diagnostic
	warnings []Diagnostic
}

// NewDiagnosticSink returns an empty sink.
func NewDiagnosticSink() *DiagnosticSink { return &DiagnosticSink{} }

func (s *DiagnosticSink) Error(code, message string, loc *symbol.Location) {
	s.errors = append(s.errors, Diagnostic{Code: code, Message: message, Location: loc})
}

func (s *DiagnosticSink) Warning(code, message string, loc *symbol.Location) {
	s.warnings = append(s.warnings, Diagnostic{Code: code, Message: message, Location: loc})
}

// Errors returns every error reported so far, in report order.
func (s *DiagnosticSink) Errors() []Diagnostic { return s.errors }

// Warnings returns every warning reported so far, in report order.
func (s *DiagnosticSink) Warnings() []Diagnostic { return s.warnings }
