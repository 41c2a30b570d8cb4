// Package loader implements the recursive module loader: it resolves a
// dotted module name against a search path, reads and parses the matching
// file(s), memoizes the resulting Module types by qualified name, and
// guards against circular imports.
package loader

import (
	"fmt"
	"strings"

	"github.com/typewright/typewright/internal/ast"
	"github.com/typewright/typewright/internal/binding"
	"github.com/typewright/typewright/internal/diagnostic"
	"github.com/typewright/typewright/internal/fs"
	"github.com/typewright/typewright/internal/parser"
	"github.com/typewright/typewright/internal/scope"
	"github.com/typewright/typewright/internal/types"
)

// Driver is the minimal surface the loader needs from the inference driver:
// visit a module's body in its own scope, writing bindings and references.
// Declared here (rather than importing internal/driver) so the loader and
// driver packages can reference each other through interfaces without an
// import cycle; the Analyzer wires the concrete *driver.Walker in after
// constructing both.
type Driver interface {
	Visit(node ast.Node, sc *scope.Scope) *types.DataType
}

// Loader resolves module names, loads files, and tracks loaded files, parse
// failures, and the circular-import guard.
type Loader struct {
	FS      fs.FS
	AST     parser.Parser
	Factory *types.Factory
	Reg     *binding.Registry
	Driver  Driver

	// ModuleScope is the flat registry every loaded module (and every
	// built-in module) is installed into, keyed by its full qualified
	// name. It doubles as the round-trip target for LookupType(qname).
	ModuleScope *scope.Scope

	// Global, when set, parents every loaded module's scope so lexical
	// lookup inside a module body falls through to the seeded builtins.
	Global *scope.Scope

	// SearchPath lists the static directories consulted after the current
	// working directory: the project root, then PYTHONPATH entries.
	SearchPath []string

	LoadedFiles   map[string]bool
	FailedToParse map[string]bool
	ParseErrors   map[string][]*diagnostic.Diagnostic

	importStack map[string]bool
	cwd         string
}

// New constructs a Loader. Driver must be set by the caller once the
// corresponding Walker exists (see internal/analyzer), since Loader and
// Driver are constructed in either order depending on the coordinator.
func New(filesystem fs.FS, p parser.Parser, factory *types.Factory, reg *binding.Registry, moduleScope *scope.Scope) *Loader {
	return &Loader{
		FS:            filesystem,
		AST:           p,
		Factory:       factory,
		Reg:           reg,
		ModuleScope:   moduleScope,
		LoadedFiles:   make(map[string]bool),
		FailedToParse: make(map[string]bool),
		ParseErrors:   make(map[string][]*diagnostic.Diagnostic),
		importStack:   make(map[string]bool),
	}
}

// ImportStackEmpty reports whether the circular-import guard is balanced,
// i.e. no file is still marked as mid-load.
func (l *Loader) ImportStackEmpty() bool {
	return len(l.importStack) == 0
}

// LoadModule resolves dottedName segment by segment starting from
// callerScope: each prefix that is already a built-in module (registered
// flatly in ModuleScope) is bound directly; each prefix that is a real
// package/file is located on the search path, loaded, and bound into the
// scope reached so far, before descending into the scope it introduces for
// the next segment. Returns the final segment's type, or ok=false if any
// segment could not be resolved (module not found — the caller records this
// as an unresolved reference; no diagnostic is produced).
func (l *Loader) LoadModule(dottedName string, callerScope *scope.Scope) (*types.DataType, bool) {
	segs := splitDots(dottedName)
	if len(segs) == 0 {
		return nil, false
	}

	curScope := callerScope
	var curType *types.DataType
	accum := ""
	baseDir := ""
	haveDir := false

	for i, seg := range segs {
		if accum == "" {
			accum = seg
		} else {
			accum = accum + "." + seg
		}

		if bs := l.ModuleScope.LookupLocal(accum); len(bs) > 0 && bs[0].IsBuiltin {
			b := curScope.Bind(l.Reg, l.Factory, seg, nil, bs[0].Type, binding.Module)
			b.IsSynthetic = true
			curType = bs[0].Type
			if ns, ok := curType.Scope.(*scope.Scope); ok {
				curScope = ns
			}
			continue
		}

		if !haveDir {
			dir, ok := l.locateModule(seg)
			if !ok {
				return nil, false
			}
			baseDir, haveDir = dir, true
		}

		segDir := l.FS.CombinePath(baseDir, seg)
		initPath := l.FS.CombinePath(segDir, "__init__.py")
		if l.FS.FileExists(initPath) {
			modType, err := l.LoadFile(initPath)
			if err != nil || modType == nil {
				return nil, false
			}
			curScope.Bind(l.Reg, l.Factory, seg, nil, modType, binding.Module)
			curType, baseDir = modType, segDir
			if ns, ok := modType.Scope.(*scope.Scope); ok {
				curScope = ns
			}
			continue
		}

		if i == len(segs)-1 {
			filePath := segDir + ".py"
			if l.FS.FileExists(filePath) {
				modType, err := l.LoadFile(filePath)
				if err != nil || modType == nil {
					return nil, false
				}
				curScope.Bind(l.Reg, l.Factory, seg, nil, modType, binding.Module)
				curType = modType
				continue
			}
		}
		return nil, false
	}

	return curType, true
}

// locateModule walks cwd-then-SearchPath for the first directory containing
// either <head>/__init__.py or <head>.py.
func (l *Loader) locateModule(head string) (string, bool) {
	dirs := l.SearchPath
	if l.cwd != "" {
		dirs = append([]string{l.cwd}, dirs...)
	}
	for _, dir := range dirs {
		if l.FS.FileExists(l.FS.CombinePath(dir, head, "__init__.py")) {
			return dir, true
		}
		if l.FS.FileExists(l.FS.CombinePath(dir, head+".py")) {
			return dir, true
		}
	}
	return "", false
}

// LoadFile loads and analyzes a single file by path, memoizing the result
// by its qualified name so repeated calls are idempotent and so a circular
// import resolves to the partially-built module instead of recursing
// forever.
func (l *Loader) LoadFile(path string) (*types.DataType, error) {
	full, err := l.FS.GetFullPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %s: %w", path, err)
	}
	if !l.FS.FileExists(full) {
		return nil, fmt.Errorf("module file not found: %s", full)
	}

	qname := QName(full)
	if bs := l.ModuleScope.LookupLocal(qname); len(bs) > 0 {
		return bs[0].Type, nil
	}
	if l.importStack[full] {
		// The file is mid-load but its Module binding is not registered
		// yet (that happens below, just before its body is visited), so
		// there is nothing to return and the caller leaves this segment
		// unbound. A circular import reached from the module's body does
		// not get here: the lookup above already finds the partially
		// built module and returns it.
		return nil, nil
	}

	l.importStack[full] = true
	prevCwd := l.cwd
	l.cwd = l.FS.GetDirectoryName(full)
	defer func() {
		delete(l.importStack, full)
		l.cwd = prevCwd
	}()

	module, err := l.AST.GetAST(full)
	if err != nil {
		l.FailedToParse[full] = true
		l.ParseErrors[full] = append(l.ParseErrors[full], &diagnostic.Diagnostic{
			File:     full,
			Severity: diagnostic.Error,
			Message:  fmt.Sprintf("parse error: %v", err),
		})
		return nil, err
	}

	modScope := scope.New(scope.ModuleScope, l.Global, qname)
	modType := l.Factory.Module(moduleName(l.FS, full), qname, modScope, full)
	b := l.Reg.Create(qname, module, modType, binding.Module)
	l.ModuleScope.InsertBinding(qname, b)
	l.LoadedFiles[full] = true

	if l.Driver != nil {
		l.Driver.Visit(module, modScope)
	}

	return modType, nil
}

func moduleName(filesystem fs.FS, path string) string {
	base := filesystem.GetFileName(path)
	if base == "__init__.py" {
		return filesystem.GetFileName(filesystem.GetDirectoryName(path))
	}
	return strings.TrimSuffix(base, ".py")
}

func splitDots(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}
