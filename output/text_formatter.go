package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/typewright/typewright/internal/diagnostic"
)

// TextFormatter renders diagnostics and the analysis summary as
// human-readable text.
type TextFormatter struct {
	writer io.Writer
	logger *Logger
}

// NewTextFormatter creates a text formatter writing to stdout.
func NewTextFormatter(logger *Logger) *TextFormatter {
	return &TextFormatter{writer: os.Stdout, logger: logger}
}

// NewTextFormatterWithWriter creates a formatter with custom writer (for testing).
func NewTextFormatterWithWriter(w io.Writer, logger *Logger) *TextFormatter {
	return &TextFormatter{writer: w, logger: logger}
}

// Format outputs every diagnostic grouped by file, then the summary block.
func (f *TextFormatter) Format(diags map[string][]*diagnostic.Diagnostic, summary *Summary) error {
	total := 0
	for _, ds := range diags {
		total += len(ds)
	}

	if total == 0 {
		fmt.Fprintln(f.writer, "No issues found.")
		fmt.Fprintln(f.writer)
		f.writeSummary(summary)
		return nil
	}

	files := make([]string, 0, len(diags))
	for file, ds := range diags {
		if len(ds) > 0 {
			files = append(files, file)
		}
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Fprintf(f.writer, "%s:\n", file)
		for _, d := range diags[file] {
			f.writeDiagnostic(d)
		}
		fmt.Fprintln(f.writer)
	}

	f.writeSummary(summary)
	return nil
}

func (f *TextFormatter) writeDiagnostic(d *diagnostic.Diagnostic) {
	if d.Start.Line > 0 {
		fmt.Fprintf(f.writer, "  %d:%d [%s] %s\n", d.Start.Line, d.Start.Column, d.Severity, d.Message)
		return
	}
	fmt.Fprintf(f.writer, "  [%s] %s\n", d.Severity, d.Message)
}

func (f *TextFormatter) writeSummary(summary *Summary) {
	if summary == nil {
		return
	}
	fmt.Fprintln(f.writer, "Summary:")
	fmt.Fprintf(f.writer, "  %d modules loaded, %d failed to parse\n", summary.Modules, summary.ParseFailures)
	fmt.Fprintf(f.writer, "  %d definitions, %d references\n", summary.Definitions, summary.References)
	fmt.Fprintf(f.writer, "  %d functions analyzed under calls\n", summary.CalledFunctions)
	fmt.Fprintf(f.writer, "  %d semantic errors\n", summary.SemanticErrors)
	fmt.Fprintf(f.writer, "  name resolution: %d resolved, %d unresolved (%.1f%%)\n",
		summary.Resolved, summary.Unresolved, summary.ResolutionRate())
}

// Summary holds the aggregate counts an analysis run produces.
type Summary struct {
	RunID           string
	Target          string
	Modules         int
	ParseFailures   int
	Definitions     int
	References      int
	Resolved        int
	Unresolved      int
	CalledFunctions int
	SemanticErrors  int
}

// ResolutionRate returns the share of identifier uses that resolved to a
// binding, as a percentage. A run with no identifier uses counts as fully
// resolved.
func (s *Summary) ResolutionRate() float64 {
	total := s.Resolved + s.Unresolved
	if total == 0 {
		return 100.0
	}
	return float64(s.Resolved) / float64(total) * 100.0
}
