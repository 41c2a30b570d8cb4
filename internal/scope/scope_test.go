package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewright/typewright/internal/ast"
	"github.com/typewright/typewright/internal/binding"
	"github.com/typewright/typewright/internal/scope"
	"github.com/typewright/typewright/internal/types"
)

func newEnv() (*types.Factory, *binding.Registry) {
	return types.NewFactory(), binding.NewRegistry()
}

func TestBindWidensVariableReassignment(t *testing.T) {
	f, reg := newEnv()
	sc := scope.New(scope.ModuleScope, nil, "m")

	n1 := &ast.Assign{}
	n2 := &ast.Assign{}
	sc.Bind(reg, f, "x", n1, f.Int(), binding.Variable)
	sc.Bind(reg, f, "x", n2, f.Str(), binding.Variable)

	bs := sc.LookupLocal("x")
	require.Len(t, bs, 1, "re-assignment must widen the existing variable binding")
	assert.Same(t, f.Union(f.Int(), f.Str()), bs[0].Type)
	assert.Len(t, reg.All, 1)
}

func TestBindKeepsSeparateFunctionDefinitions(t *testing.T) {
	f, reg := newEnv()
	sc := scope.New(scope.ModuleScope, nil, "m")

	fn1 := f.Fun("f", "m.f", nil, nil, nil, f.Unknown(), nil)
	fn2 := f.Fun("f", "m.f", nil, nil, nil, f.Unknown(), nil)
	sc.Bind(reg, f, "f", &ast.FunctionDef{}, fn1, binding.Function)
	sc.Bind(reg, f, "f", &ast.FunctionDef{}, fn2, binding.Function)

	assert.Len(t, sc.LookupLocal("f"), 2, "each definition site keeps its own binding")
}

func TestLookupLexicalWalksParents(t *testing.T) {
	f, reg := newEnv()
	module := scope.New(scope.ModuleScope, nil, "m")
	fn := scope.New(scope.FunctionScope, module, "m.f")

	module.Bind(reg, f, "x", &ast.Assign{}, f.Int(), binding.Variable)

	bs := fn.LookupLexical("x")
	require.Len(t, bs, 1)
	assert.Same(t, f.Int(), bs[0].Type)
	assert.Nil(t, fn.LookupLocal("x"))
}

func TestLookupLexicalSkipsEnclosingClassScopes(t *testing.T) {
	f, reg := newEnv()
	module := scope.New(scope.ModuleScope, nil, "m")
	class := scope.New(scope.ClassScope, module, "m.C")
	method := scope.New(scope.FunctionScope, class, "m.C.m")

	class.Bind(reg, f, "attr", &ast.Assign{}, f.Int(), binding.Attribute)
	module.Bind(reg, f, "attr", &ast.Assign{}, f.Str(), binding.Variable)

	// A nested function cannot see the enclosing class body as bare names;
	// the lookup falls through to the module scope.
	bs := method.LookupLexical("attr")
	require.Len(t, bs, 1)
	assert.Same(t, f.Str(), bs[0].Type)

	// But a reference written directly in the class body resolves against
	// the class's own table: the starting scope is never skipped.
	bs = class.LookupLexical("attr")
	require.Len(t, bs, 1)
	assert.Same(t, f.Int(), bs[0].Type)
}

func TestLookupAttributeFollowsBasesLeftToRight(t *testing.T) {
	f, reg := newEnv()
	base1 := scope.New(scope.ClassScope, nil, "m.A")
	base2 := scope.New(scope.ClassScope, nil, "m.B")
	derived := scope.New(scope.ClassScope, nil, "m.C")
	derived.Bases = []*scope.Scope{base1, base2}

	base1.Bind(reg, f, "x", &ast.Assign{}, f.Int(), binding.Attribute)
	base2.Bind(reg, f, "x", &ast.Assign{}, f.Str(), binding.Attribute)
	base2.Bind(reg, f, "y", &ast.Assign{}, f.Bool(), binding.Attribute)

	bs := derived.LookupAttribute("x")
	require.Len(t, bs, 1)
	assert.Same(t, f.Int(), bs[0].Type, "first base wins")

	bs = derived.LookupAttribute("y")
	require.Len(t, bs, 1)
	assert.Same(t, f.Bool(), bs[0].Type)
}

func TestLookupAttributeForwardsInstanceToClass(t *testing.T) {
	f, reg := newEnv()
	class := scope.New(scope.ClassScope, nil, "m.C")
	inst := scope.New(scope.InstanceScope, nil, "m.C")
	inst.Forwarding = class

	class.Bind(reg, f, "m", &ast.FunctionDef{}, f.Fun("m", "m.C.m", nil, nil, nil, f.Unknown(), nil), binding.Method)
	inst.Bind(reg, f, "x", &ast.Assign{}, f.Int(), binding.Attribute)

	require.Len(t, inst.LookupAttribute("x"), 1, "assigned instance attributes are local")
	require.Len(t, inst.LookupAttribute("m"), 1, "methods forward to the class scope")
	assert.Nil(t, inst.LookupAttribute("nope"))
}

func TestLookupTypeDescendsQualifiedName(t *testing.T) {
	f, reg := newEnv()
	root := scope.New(scope.Global, nil, "")
	modScope := scope.New(scope.ModuleScope, nil, "pkg")
	clsScope := scope.New(scope.ClassScope, modScope, "pkg.C")

	mod := f.Module("pkg", "pkg", modScope, "")
	cls := f.Class("C", "pkg.C", clsScope)
	root.Bind(reg, f, "pkg", nil, mod, binding.Module)
	modScope.Bind(reg, f, "C", &ast.ClassDef{}, cls, binding.Class)

	bs := root.LookupType("pkg.C")
	require.Len(t, bs, 1)
	assert.Same(t, cls, bs[0].Type)

	assert.Nil(t, root.LookupType("pkg.D"))
	assert.Nil(t, root.LookupType("nope.C"))
}

func TestMerge(t *testing.T) {
	f, reg := newEnv()
	dst := scope.New(scope.ModuleScope, nil, "dst")
	src := scope.New(scope.ModuleScope, nil, "src")

	src.Bind(reg, f, "a", &ast.Assign{}, f.Int(), binding.Variable)
	src.Bind(reg, f, "b", &ast.Assign{}, f.Str(), binding.Variable)

	dst.Merge(src)
	assert.Len(t, dst.LookupLocal("a"), 1)
	assert.Len(t, dst.LookupLocal("b"), 1)
}

func TestCopyIsShallow(t *testing.T) {
	f, reg := newEnv()
	orig := scope.New(scope.FunctionScope, nil, "m.f")
	b := orig.Bind(reg, f, "a", nil, f.Unknown(), binding.Parameter)

	cp := orig.Copy()
	require.Len(t, cp.LookupLocal("a"), 1)
	assert.Same(t, b, cp.LookupLocal("a")[0], "copies share binding objects")

	// New names bound in the copy do not leak back.
	cp.Bind(reg, f, "fresh", &ast.Assign{}, f.Int(), binding.Variable)
	assert.Nil(t, orig.LookupLocal("fresh"))
}
