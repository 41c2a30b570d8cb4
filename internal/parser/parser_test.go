package parser_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typewright/typewright/internal/ast"
	"github.com/typewright/typewright/internal/parser"
)

func parse(t *testing.T, source string) *ast.Module {
	t.Helper()
	p := parser.New(func(string) ([]byte, error) { return []byte(source), nil })
	m, err := p.GetAST("test.py")
	require.NoError(t, err)
	return m
}

func TestParseAssignment(t *testing.T) {
	m := parse(t, "x = 1\n")
	require.Len(t, m.Body, 1)

	as, ok := m.Body[0].(*ast.Assign)
	require.True(t, ok)
	require.Len(t, as.Targets, 1)

	target, ok := as.Targets[0].(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "x", target.Id)

	lit, ok := as.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LitInt, lit.Kind)
}

func TestParseFunctionDef(t *testing.T) {
	m := parse(t, "def f(a, b=1, c: int = 2):\n    return a\n")
	require.Len(t, m.Body, 1)

	def, ok := m.Body[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "f", def.Name)
	require.Len(t, def.Params, 3)
	assert.Equal(t, "a", def.Params[0].Name)
	assert.Equal(t, "b", def.Params[1].Name)
	assert.NotNil(t, def.Params[1].Default)
	assert.Equal(t, "c", def.Params[2].Name)
	assert.NotNil(t, def.Params[2].Annotation)
	assert.NotNil(t, def.Params[2].Default)

	require.Len(t, def.Body, 1)
	ret, ok := def.Body[0].(*ast.Return)
	require.True(t, ok)
	assert.IsType(t, &ast.Name{}, ret.Value)
}

func TestParseClassDef(t *testing.T) {
	m := parse(t, "class C(Base):\n    def m(self):\n        pass\n")
	require.Len(t, m.Body, 1)

	cls, ok := m.Body[0].(*ast.ClassDef)
	require.True(t, ok)
	assert.Equal(t, "C", cls.Name)
	require.Len(t, cls.Bases, 1)
	require.Len(t, cls.Body, 1)
	assert.IsType(t, &ast.FunctionDef{}, cls.Body[0])
}

func TestParseImports(t *testing.T) {
	m := parse(t, "import os.path\nimport json as j\nfrom math import sqrt, floor as fl\nfrom os import *\n")
	require.Len(t, m.Body, 4)

	imp, ok := m.Body[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "os.path", imp.Module)
	assert.Empty(t, imp.Alias)

	aliased, ok := m.Body[1].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "json", aliased.Module)
	assert.Equal(t, "j", aliased.Alias)

	from, ok := m.Body[2].(*ast.ImportFrom)
	require.True(t, ok)
	assert.Equal(t, "math", from.Module)
	assert.Equal(t, []string{"sqrt", "floor"}, from.Names)
	assert.Equal(t, []string{"", "fl"}, from.Aliases)

	star, ok := m.Body[3].(*ast.ImportFrom)
	require.True(t, ok)
	assert.Equal(t, []string{"*"}, star.Names)
}

func TestParseCallAndAttribute(t *testing.T) {
	m := parse(t, "os.path.join(a, b, sep=c)\n")
	require.Len(t, m.Body, 1)

	stmt, ok := m.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.Value.(*ast.Call)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
	assert.Contains(t, call.Kwargs, "sep")

	attr, ok := call.Func.(*ast.Attribute)
	require.True(t, ok)
	assert.Equal(t, "join", attr.Attr)
	inner, ok := attr.Value.(*ast.Attribute)
	require.True(t, ok)
	assert.Equal(t, "path", inner.Attr)
}

func TestParseCollections(t *testing.T) {
	m := parse(t, "xs = [1, 2]\nd = {\"k\": 1}\nt = (1, \"s\")\n")
	require.Len(t, m.Body, 3)

	assert.IsType(t, &ast.ListExpr{}, m.Body[0].(*ast.Assign).Value)
	d := m.Body[1].(*ast.Assign).Value.(*ast.DictExpr)
	require.Len(t, d.Keys, 1)
	require.Len(t, d.Values, 1)
	tup := m.Body[2].(*ast.Assign).Value.(*ast.TupleExpr)
	assert.Len(t, tup.Elts, 2)
}

func TestParseComprehension(t *testing.T) {
	m := parse(t, "ys = [i for i in xs]\n")
	comp, ok := m.Body[0].(*ast.Assign).Value.(*ast.Comprehension)
	require.True(t, ok)
	assert.False(t, comp.IsDict)
	assert.IsType(t, &ast.Name{}, comp.Elt)
	assert.IsType(t, &ast.Name{}, comp.Target)
	assert.IsType(t, &ast.Name{}, comp.Iter)
}

func TestParseControlFlow(t *testing.T) {
	m := parse(t, "if x:\n    pass\nelse:\n    pass\nfor i in xs:\n    break\nwhile x:\n    continue\n")
	require.Len(t, m.Body, 3)
	assert.IsType(t, &ast.If{}, m.Body[0])
	assert.IsType(t, &ast.For{}, m.Body[1])
	assert.IsType(t, &ast.While{}, m.Body[2])
}

func TestParseSyntaxErrorReported(t *testing.T) {
	p := parser.New(func(string) ([]byte, error) { return []byte("def f(:\n"), nil })
	_, err := p.GetAST("bad.py")
	assert.Error(t, err)
}

func TestParseUnreadableFile(t *testing.T) {
	p := parser.New(func(string) ([]byte, error) { return nil, os.ErrNotExist })
	_, err := p.GetAST("gone.py")
	assert.Error(t, err)
}

func TestNodePositions(t *testing.T) {
	m := parse(t, "x = 1\ny = 2\n")
	second := m.Body[1].(*ast.Assign)
	loc := second.Location()
	assert.Equal(t, "test.py", loc.File)
	assert.Equal(t, 2, loc.Start.Line)
	assert.Equal(t, 1, loc.Start.Column)
}
