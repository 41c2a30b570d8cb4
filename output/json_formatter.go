package output

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"

	"github.com/typewright/typewright/internal/diagnostic"
)

// JSONFormatter renders diagnostics and the analysis summary as a
// machine-readable JSON envelope.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a JSON formatter writing to stdout.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{writer: os.Stdout}
}

// NewJSONFormatterWithWriter creates a formatter with custom writer (for testing).
func NewJSONFormatterWithWriter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// JSONOutput is the complete JSON envelope.
type JSONOutput struct {
	Tool        JSONTool         `json:"tool"`
	Run         JSONRun          `json:"run"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Summary     JSONSummary      `json:"summary"`
}

// JSONTool contains tool metadata.
type JSONTool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// JSONRun identifies one analysis run.
type JSONRun struct {
	ID        string  `json:"id"`
	Target    string  `json:"target"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration"`
}

// JSONDiagnostic is a single finding.
type JSONDiagnostic struct {
	File     string `json:"file"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	EndLine  int    `json:"end_line"`   //nolint:tagliatelle
	EndCol   int    `json:"end_column"` //nolint:tagliatelle
	Message  string `json:"message"`
}

// JSONSummary contains the aggregate counts.
type JSONSummary struct {
	Modules         int     `json:"modules"`
	ParseFailures   int     `json:"parse_failures"` //nolint:tagliatelle
	Definitions     int     `json:"definitions"`
	References      int     `json:"references"`
	Resolved        int     `json:"resolved"`
	Unresolved      int     `json:"unresolved"`
	ResolutionRate  float64 `json:"resolution_rate"`  //nolint:tagliatelle
	CalledFunctions int     `json:"called_functions"` //nolint:tagliatelle
	SemanticErrors  int     `json:"semantic_errors"`  //nolint:tagliatelle
}

// RunInfo carries per-run metadata the formatter cannot derive from the
// summary alone.
type RunInfo struct {
	Version  string
	Duration time.Duration
}

// Format outputs the envelope: diagnostics ordered by file, and within a
// file in the order they were recorded.
func (f *JSONFormatter) Format(diags map[string][]*diagnostic.Diagnostic, summary *Summary, info RunInfo) error {
	out := JSONOutput{
		Tool: JSONTool{
			Name:    "typewright",
			Version: info.Version,
		},
		Run: JSONRun{
			ID:        summary.RunID,
			Target:    summary.Target,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Duration:  info.Duration.Seconds(),
		},
		Diagnostics: buildDiagnostics(diags),
		Summary: JSONSummary{
			Modules:         summary.Modules,
			ParseFailures:   summary.ParseFailures,
			Definitions:     summary.Definitions,
			References:      summary.References,
			Resolved:        summary.Resolved,
			Unresolved:      summary.Unresolved,
			ResolutionRate:  summary.ResolutionRate(),
			CalledFunctions: summary.CalledFunctions,
			SemanticErrors:  summary.SemanticErrors,
		},
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func buildDiagnostics(diags map[string][]*diagnostic.Diagnostic) []JSONDiagnostic {
	files := make([]string, 0, len(diags))
	for file := range diags {
		files = append(files, file)
	}
	sort.Strings(files)

	out := make([]JSONDiagnostic, 0)
	for _, file := range files {
		for _, d := range diags[file] {
			out = append(out, JSONDiagnostic{
				File:     d.File,
				Severity: d.Severity.String(),
				Line:     d.Start.Line,
				Column:   d.Start.Column,
				EndLine:  d.End.Line,
				EndCol:   d.End.Column,
				Message:  d.Message,
			})
		}
	}
	return out
}
