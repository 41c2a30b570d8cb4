// Package builtins installs the standard library's surface into the global
// scope before analysis begins, as full Module/Fun/Class bindings in the
// scope graph: the driver's identifier and attribute rules resolve `len`,
// `os.path`, `math.sqrt`, and so on exactly like any user-defined binding,
// rather than consulting a side table.
package builtins

import (
	"github.com/typewright/typewright/internal/binding"
	"github.com/typewright/typewright/internal/scope"
	"github.com/typewright/typewright/internal/types"
)

// module describes one built-in module: its dotted name and the public
// names it exposes. Each name in funcs is seeded as a Fun binding; each
// name in types is seeded as a Class binding, so that builtins such as
// Exception, str and int are constructible.
type module struct {
	name  string
	funcs []string
	types []string
}

var seedModules = []module{
	{
		name: "builtins",
		funcs: []string{
			"print", "len", "range", "isinstance", "issubclass", "getattr",
			"setattr", "hasattr", "super", "open", "input", "iter", "next",
			"sum", "min", "max", "sorted", "reversed", "enumerate", "zip",
			"map", "filter", "abs", "round", "repr", "id", "hash", "vars",
			"format",
		},
		types: []string{
			"int", "float", "bool", "str", "bytes", "list", "dict", "tuple",
			"set", "frozenset", "object", "type", "Exception", "ValueError",
			"TypeError", "KeyError", "IndexError", "StopIteration",
		},
	},
	{name: "math", funcs: []string{"sqrt", "floor", "ceil", "pow", "log", "sin", "cos", "isnan"}},
	{name: "os", funcs: []string{"getcwd", "listdir", "environ", "makedirs", "remove"}},
	{name: "os.path", funcs: []string{"join", "exists", "isfile", "isdir", "basename", "dirname", "abspath"}},
	{name: "sys", funcs: []string{"exit", "argv", "path", "version", "stderr", "stdout"}},
	{name: "json", funcs: []string{"dumps", "loads", "dump", "load"}},
	{name: "re", funcs: []string{"match", "search", "findall", "sub", "compile", "split"}},
	{name: "typing", types: []string{"List", "Dict", "Tuple", "Set", "Optional", "Union", "Any", "Callable"}},
	{name: "collections", types: []string{"OrderedDict", "defaultdict", "namedtuple", "Counter", "deque"}},
	{name: "itertools", funcs: []string{"chain", "product", "permutations", "combinations", "count", "cycle", "islice"}},
	{name: "functools", funcs: []string{"reduce", "partial", "wraps", "lru_cache"}},
	{name: "datetime", types: []string{"datetime", "date", "time", "timedelta"}},
}

// Seed installs every module in seedModules into globalScope, under its
// dotted name (so `os.path` is bound as an attribute of the `os` module,
// reachable via qualified lookup), marking every binding isBuiltin so
// Analyzer.Finish's unused-variable pass and any user-facing module listing
// exclude them. moduleRegistry additionally receives each module under its
// full dotted name as a flat key, matching the shape the module loader
// consults to recognize "math", "os.path", and so on as already-resolved
// without touching the filesystem.
func Seed(globalScope, moduleRegistry *scope.Scope, factory *types.Factory, reg *binding.Registry) {
	modScopes := make(map[string]*scope.Scope)

	for _, m := range seedModules {
		modScope := scope.New(scope.ModuleScope, nil, m.name)
		modType := factory.Module(m.name, m.name, modScope, "")
		modScopes[m.name] = modScope

		// Names in the builtins module are also visible bare, so `len`
		// and `print` resolve without an import.
		implicit := m.name == "builtins"

		for _, name := range m.funcs {
			fn := factory.Fun(name, m.name+"."+name, nil, nil, nil, factory.Unknown(), nil)
			b := bindBuiltin(modScope, reg, name, fn, binding.Function)
			if implicit {
				globalScope.InsertBinding(name, b)
			}
		}
		for _, name := range m.types {
			classScope := scope.New(scope.ClassScope, nil, m.name+"."+name)
			cls := factory.Class(name, m.name+"."+name, classScope)
			b := bindBuiltin(modScope, reg, name, cls, binding.Class)
			if implicit {
				globalScope.InsertBinding(name, b)
			}
		}

		bindBuiltin(moduleRegistry, reg, m.name, modType, binding.Module)

		// Bind the module itself into its parent package's scope (os.path
		// into os) or the global scope for top-level modules.
		if idx := lastDot(m.name); idx >= 0 {
			parent, head := m.name[:idx], m.name[idx+1:]
			if parentScope, ok := modScopes[parent]; ok {
				bindBuiltin(parentScope, reg, head, modType, binding.Module)
				continue
			}
		}
		bindBuiltin(globalScope, reg, m.name, modType, binding.Module)
	}
}

func bindBuiltin(s *scope.Scope, reg *binding.Registry, name string, typ *types.DataType, kind binding.Kind) *binding.Binding {
	b := reg.Create(name, nil, typ, kind)
	b.IsBuiltin = true
	s.InsertBinding(name, b)
	return b
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
