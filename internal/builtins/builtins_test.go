package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewright/typewright/internal/binding"
	"github.com/typewright/typewright/internal/builtins"
	"github.com/typewright/typewright/internal/scope"
	"github.com/typewright/typewright/internal/types"
)

func seed() (*scope.Scope, *scope.Scope, *binding.Registry) {
	f := types.NewFactory()
	reg := binding.NewRegistry()
	global := scope.New(scope.Global, nil, "")
	modules := scope.New(scope.Global, nil, "")
	builtins.Seed(global, modules, f, reg)
	return global, modules, reg
}

func TestBuiltinFunctionsVisibleBare(t *testing.T) {
	global, _, _ := seed()
	for _, name := range []string{"print", "len", "range", "isinstance"} {
		bs := global.LookupLocal(name)
		require.NotEmpty(t, bs, "%s must resolve without an import", name)
		assert.True(t, bs[0].IsBuiltin)
		assert.Equal(t, types.KindFun, bs[0].Type.Kind)
	}
}

func TestBuiltinConverterClasses(t *testing.T) {
	global, _, _ := seed()
	bs := global.LookupLocal("int")
	require.NotEmpty(t, bs)
	assert.Equal(t, types.KindClass, bs[0].Type.Kind)
	assert.Equal(t, "builtins.int", bs[0].Type.QName)
}

func TestModulesRegisteredByDottedName(t *testing.T) {
	_, modules, _ := seed()
	for _, name := range []string{"builtins", "math", "os", "os.path", "sys", "json"} {
		bs := modules.LookupLocal(name)
		require.NotEmpty(t, bs, "module %s must be registered flat", name)
		assert.True(t, bs[0].IsBuiltin)
		assert.Equal(t, types.KindModule, bs[0].Type.Kind)
	}
}

func TestSubmoduleBoundInParentScope(t *testing.T) {
	global, _, _ := seed()
	bs := global.LookupLocal("os")
	require.NotEmpty(t, bs)
	osScope, ok := bs[0].Type.Scope.(*scope.Scope)
	require.True(t, ok)

	pathBindings := osScope.LookupLocal("path")
	require.NotEmpty(t, pathBindings, "os.path must hang off the os module scope")
	assert.Equal(t, types.KindModule, pathBindings[0].Type.Kind)

	pathScope, ok := pathBindings[0].Type.Scope.(*scope.Scope)
	require.True(t, ok)
	assert.NotEmpty(t, pathScope.LookupLocal("join"))
}

func TestQualifiedLookupThroughGlobal(t *testing.T) {
	global, _, _ := seed()
	bs := global.LookupType("math.sqrt")
	require.NotEmpty(t, bs)
	assert.Equal(t, types.KindFun, bs[0].Type.Kind)
}

func TestEveryBindingIsMarkedBuiltin(t *testing.T) {
	_, _, reg := seed()
	require.NotEmpty(t, reg.All)
	for _, b := range reg.All {
		assert.True(t, b.IsBuiltin)
		assert.False(t, b.Unused(), "builtins never count as unused")
	}
}
