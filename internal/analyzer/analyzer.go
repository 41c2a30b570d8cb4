// Package analyzer implements the coordinator: it owns the global scope, the
// binding and reference registries, the module loader, the inference walker,
// and the diagnostics produced by a run, and drives the top-level fixed
// point over the uncalled-function worklist.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/typewright/typewright/internal/ast"
	"github.com/typewright/typewright/internal/astcache"
	"github.com/typewright/typewright/internal/binding"
	"github.com/typewright/typewright/internal/builtins"
	"github.com/typewright/typewright/internal/diagnostic"
	"github.com/typewright/typewright/internal/driver"
	"github.com/typewright/typewright/internal/fs"
	"github.com/typewright/typewright/internal/loader"
	"github.com/typewright/typewright/internal/parser"
	"github.com/typewright/typewright/internal/scope"
	"github.com/typewright/typewright/internal/types"
	"github.com/typewright/typewright/output"
)

// Config carries everything New needs to assemble an Analyzer. FS and Log
// are required; Parser is optional (a tree-sitter parser fronted by the AST
// disk cache is built when nil); SearchPath lists extra module-resolution
// directories (the project root is always prepended by Analyze).
type Config struct {
	FS         fs.FS
	Log        *output.Logger
	Parser     parser.Parser
	SearchPath []string
	CacheSize  int
	CacheDir   string
}

// Analyzer is the single owner of all analysis state. It is not safe for
// concurrent use: the whole inference walk is synchronous and
// single-threaded.
type Analyzer struct {
	RunID   string
	Factory *types.Factory
	Reg     *binding.Registry
	Global  *scope.Scope
	Modules *scope.Scope
	Loader  *loader.Loader
	Walker  *driver.Walker
	Log     *output.Logger

	cache  *astcache.Cache
	fs     fs.FS
	target string

	semanticErrors map[string][]*diagnostic.Diagnostic
	finished       bool
}

// DefaultCacheSize bounds the AST cache's in-process LRU layer.
const DefaultCacheSize = 256

// New assembles an Analyzer: factory, registries, global and module scopes
// seeded with builtins, the module loader, and the inference walker, wired
// together. The one fatal startup condition is a failure to create the AST
// cache directory, returned as an error.
func New(cfg Config) (*Analyzer, error) {
	factory := types.NewFactory()
	reg := binding.NewRegistry()
	global := scope.New(scope.Global, nil, "")
	modules := scope.New(scope.Global, nil, "")
	builtins.Seed(global, modules, factory, reg)

	p := cfg.Parser
	var cache *astcache.Cache
	if p == nil {
		size := cfg.CacheSize
		if size <= 0 {
			size = DefaultCacheSize
		}
		var err error
		cache, err = astcache.New(cfg.FS, parser.New(cfg.FS.ReadFile), size, cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("starting analyzer: %w", err)
		}
		p = cache
	}

	ld := loader.New(cfg.FS, p, factory, reg, modules)
	ld.Global = global
	ld.SearchPath = cfg.SearchPath

	w := driver.New(factory, reg, ld)
	ld.Driver = w

	return &Analyzer{
		RunID:          uuid.NewString(),
		Factory:        factory,
		Reg:            reg,
		Global:         global,
		Modules:        modules,
		Loader:         ld,
		Walker:         w,
		Log:            cfg.Log,
		cache:          cache,
		fs:             cfg.FS,
		semanticErrors: make(map[string][]*diagnostic.Diagnostic),
	}, nil
}

// Analyze resolves rootPath, recursively discovers .py files beneath it (or
// takes it directly when it names a single file), and loads each one in
// filesystem-entry order. The project root joins the front of the module
// search path so sibling imports resolve. ctx is only consulted between
// file loads; a single file's inference is never interrupted.
func (a *Analyzer) Analyze(ctx context.Context, rootPath string) error {
	full, err := a.fs.GetFullPath(rootPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", rootPath, err)
	}

	var files []string
	root := full
	switch {
	case a.fs.FileExists(full):
		files = []string{full}
		root = a.fs.GetDirectoryName(full)
	case a.fs.DirectoryExists(full):
		files = a.discover(full)
	default:
		return fmt.Errorf("no such file or directory: %s", full)
	}
	a.target = root
	a.Loader.SearchPath = append([]string{root}, a.Loader.SearchPath...)

	a.Log.Debug("discovered %d files under %s", len(files), root)
	_ = a.Log.StartProgress("Analyzing", len(files))
	for _, f := range files {
		if ctx.Err() != nil {
			a.Log.Warning("analysis interrupted after %d files", len(a.Loader.LoadedFiles))
			break
		}
		a.Log.Debug("loading %s", f)
		if _, err := a.Loader.LoadFile(f); err != nil {
			a.Log.Debug("load failed for %s: %v", f, err)
		}
		_ = a.Log.UpdateProgress(1)
	}
	_ = a.Log.FinishProgress()
	return nil
}

// discover walks dir recursively, collecting .py files in the order the
// filesystem reports entries. Directories are descended in that same order.
func (a *Analyzer) discover(dir string) []string {
	var files []string
	entries, err := a.fs.GetFileSystemEntries(dir)
	if err != nil {
		a.Log.Warning("reading %s: %v", dir, err)
		return nil
	}
	for _, e := range entries {
		switch {
		case a.fs.DirectoryExists(e):
			files = append(files, a.discover(e)...)
		case strings.HasSuffix(e, ".py"):
			files = append(files, e)
		}
	}
	return files
}

// LoadModule resolves a dotted module name against the search path and binds
// it into callerScope, delegating to the module loader.
func (a *Analyzer) LoadModule(dottedName string, callerScope *scope.Scope) (*types.DataType, bool) {
	return a.Loader.LoadModule(dottedName, callerScope)
}

// Finish drives uncalled functions to fixed point, emits unused-variable
// diagnostics, and prints the summary. Idempotent: a second call finds the
// worklist empty and the diagnostics already recorded.
func (a *Analyzer) Finish() {
	if a.finished {
		return
	}
	a.finished = true
	a.applyUncalled()
	for _, d := range a.Walker.SemanticDiags {
		a.AddSemanticError(d)
	}
	a.Walker.SemanticDiags = nil
	a.reportUnused()
	a.Log.Info("%s", a.AnalysisSummary())
}

// applyUncalled drains the uncalled worklist to a snapshot, applies each
// function with Unknown arguments, and repeats: analyzing one body may
// define new functions, which join the worklist for the next round. Each
// application removes its target and the number of function definitions is
// finite, so the loop terminates.
func (a *Analyzer) applyUncalled() {
	for !a.Walker.UncalledEmpty() {
		for _, fn := range a.Walker.UncalledSnapshot() {
			a.Walker.ApplyUnknown(fn)
		}
	}
}

// reportUnused walks every binding in creation order and records an ERROR
// diagnostic for each unused variable. Type, kind and builtin/synthetic
// exclusions live on Binding.Unused.
func (a *Analyzer) reportUnused() {
	for _, b := range a.Reg.All {
		if !b.Unused() || b.Node == nil {
			continue
		}
		loc := b.Node.Location()
		a.AddSemanticError(&diagnostic.Diagnostic{
			File:     loc.File,
			Severity: diagnostic.Error,
			Start:    loc.Start,
			End:      loc.End,
			Message:  fmt.Sprintf("Unused variable: %s", b.Name),
		})
	}
}

// AddSemanticError records d under its file.
func (a *Analyzer) AddSemanticError(d *diagnostic.Diagnostic) {
	a.semanticErrors[d.File] = append(a.semanticErrors[d.File], d)
}

// Close releases the AST cache. Safe to call when the analyzer was built
// with an injected parser and owns no cache.
func (a *Analyzer) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// AllBindings returns every binding created during the run, in insertion
// order.
func (a *Analyzer) AllBindings() []*binding.Binding {
	return a.Reg.All
}

// References returns the node -> bindings index.
func (a *Analyzer) References() map[ast.Node][]*binding.Binding {
	return a.Reg.References
}

// ResolvedNames returns the set of identifier nodes that resolved to at
// least one binding.
func (a *Analyzer) ResolvedNames() map[ast.Node]bool {
	return a.Walker.ResolvedNames
}

// UnresolvedNames returns the set of identifier nodes that resolved to
// nothing.
func (a *Analyzer) UnresolvedNames() map[ast.Node]bool {
	return a.Walker.UnresolvedNames
}

// LoadedFiles returns the set of file paths successfully loaded.
func (a *Analyzer) LoadedFiles() map[string]bool {
	return a.Loader.LoadedFiles
}

// FailedToParse returns the set of file paths whose parse failed.
func (a *Analyzer) FailedToParse() map[string]bool {
	return a.Loader.FailedToParse
}

// DiagnosticsForFile returns every diagnostic recorded for path: parse
// errors first, then semantic errors, each in insertion order.
func (a *Analyzer) DiagnosticsForFile(path string) []*diagnostic.Diagnostic {
	var out []*diagnostic.Diagnostic
	out = append(out, a.Loader.ParseErrors[path]...)
	out = append(out, a.semanticErrors[path]...)
	return out
}

// Diagnostics returns every diagnostic of the run keyed by file.
func (a *Analyzer) Diagnostics() map[string][]*diagnostic.Diagnostic {
	out := make(map[string][]*diagnostic.Diagnostic, len(a.semanticErrors))
	for file, ds := range a.Loader.ParseErrors {
		out[file] = append(out[file], ds...)
	}
	for file, ds := range a.semanticErrors {
		out[file] = append(out[file], ds...)
	}
	return out
}

// Summary builds the aggregate counts for the formatters.
func (a *Analyzer) Summary() *output.Summary {
	definitions := 0
	for _, b := range a.Reg.All {
		if !b.IsBuiltin && !b.IsSynthetic {
			definitions++
		}
	}
	references := 0
	for _, bs := range a.Reg.References {
		references += len(bs)
	}
	semantic := 0
	for _, ds := range a.semanticErrors {
		semantic += len(ds)
	}
	return &output.Summary{
		RunID:           a.RunID,
		Target:          a.target,
		Modules:         len(a.Loader.LoadedFiles),
		ParseFailures:   len(a.Loader.FailedToParse),
		Definitions:     definitions,
		References:      references,
		Resolved:        len(a.Walker.ResolvedNames),
		Unresolved:      len(a.Walker.UnresolvedNames),
		CalledFunctions: a.Walker.CalledFunctions,
		SemanticErrors:  semantic,
	}
}

// AnalysisSummary renders the run's counts as a human-readable block.
func (a *Analyzer) AnalysisSummary() string {
	s := a.Summary()
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis %s\n", a.RunID)
	fmt.Fprintf(&b, "  modules: %d loaded, %d failed to parse\n", s.Modules, s.ParseFailures)
	fmt.Fprintf(&b, "  definitions: %d\n", s.Definitions)
	fmt.Fprintf(&b, "  references: %d\n", s.References)
	fmt.Fprintf(&b, "  called functions: %d\n", s.CalledFunctions)
	fmt.Fprintf(&b, "  semantic errors: %d\n", s.SemanticErrors)
	fmt.Fprintf(&b, "  resolution: %d/%d (%.1f%%)", s.Resolved, s.Resolved+s.Unresolved, s.ResolutionRate())
	return b.String()
}
