// Package diagnostic defines the Diagnostic record the Analyzer produces.
// Rendering is ambient (see output.TextFormatter / output.JSONFormatter);
// this package only models the data.
package diagnostic

import "github.com/typewright/typewright/internal/ast"

// Severity classifies a Diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// Diagnostic is a single semantic finding: a file, a severity, a source
// span, and a human-readable message.
type Diagnostic struct {
	File     string
	Severity Severity
	Start    ast.Pos
	End      ast.Pos
	Message  string
}
