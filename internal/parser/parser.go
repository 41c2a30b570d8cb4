// Package parser is the AST-producing collaborator the core depends on only
// through the Parser interface. TreeSitterParser is the concrete
// implementation: it walks a tree-sitter concrete syntax tree for the Python
// grammar and lowers it into the uniform internal/ast node tree the driver
// visits.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/typewright/typewright/internal/ast"
)

// Parser is the external collaborator contract: GetAST either returns a
// uniform Module tree (every node carrying file/start/end) or a non-nil
// error describing why the file could not be parsed.
type Parser interface {
	GetAST(filePath string) (*ast.Module, error)
}

// GrammarVersion is mixed into the AST disk cache's key so that a grammar
// upgrade naturally invalidates every cached entry.
const GrammarVersion = "python-tree-sitter-v1"

// TreeSitterParser parses Python source with github.com/smacker/go-tree-sitter
// and its bundled python grammar, then lowers the concrete syntax tree into
// internal/ast nodes.
type TreeSitterParser struct {
	readFile func(string) ([]byte, error)
}

// New constructs a TreeSitterParser that reads files with readFile (usually
// fs.FS.ReadFile).
func New(readFile func(string) ([]byte, error)) *TreeSitterParser {
	return &TreeSitterParser{readFile: readFile}
}

// GetAST parses filePath and lowers it to a *ast.Module. A tree-sitter parse
// failure, an unreadable file, or a root node containing an ERROR or
// MISSING node all
// return a non-nil error; the Analyzer records these in failedToParse and
// continues with the remaining files.
func (p *TreeSitterParser) GetAST(filePath string) (*ast.Module, error) {
	source, err := p.readFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(python.GetLanguage())

	tree, err := sp.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if containsError(root) {
		return nil, fmt.Errorf("syntax error in %s", filePath)
	}

	l := &lowerer{file: filePath, src: source}
	body := l.block(root)
	return &ast.Module{
		Base: base(root, filePath),
		Body: body,
	}, nil
}

func containsError(n *sitter.Node) bool {
	if n.IsError() || n.IsMissing() {
		return true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if containsError(n.Child(i)) {
			return true
		}
	}
	return false
}

// lowerer holds the per-file state (source bytes, file name) needed to turn
// sitter.Node content into ast node fields.
type lowerer struct {
	file string
	src  []byte
}

func base(n *sitter.Node, file string) ast.Base {
	start := n.StartPoint()
	end := n.EndPoint()
	return ast.Base{
		File:  file,
		Start: ast.Pos{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:   ast.Pos{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
	}
}

func (l *lowerer) content(n *sitter.Node) string {
	return n.Content(l.src)
}

// block lowers every named statement child of n into ast nodes, skipping
// children whose statement form is not (yet) modeled.
func (l *lowerer) block(n *sitter.Node) []ast.Node {
	var out []ast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if stmt := l.statement(n.NamedChild(i)); stmt != nil {
			out = append(out, stmt)
		}
	}
	return out
}

func (l *lowerer) statement(n *sitter.Node) ast.Node {
	switch n.Type() {
	case "function_definition":
		return l.functionDef(n, nil)
	case "class_definition":
		return l.classDef(n, nil)
	case "decorated_definition":
		return l.decorated(n)
	case "expression_statement":
		return l.expressionStatement(n)
	case "return_statement":
		return l.returnStmt(n)
	case "if_statement":
		return l.ifStmt(n)
	case "for_statement":
		return l.forStmt(n)
	case "while_statement":
		return l.whileStmt(n)
	case "import_statement":
		return l.importStmt(n)
	case "import_from_statement":
		return l.importFromStmt(n)
	case "raise_statement":
		return l.raiseStmt(n)
	case "pass_statement":
		return &ast.Pass{Base: base(n, l.file)}
	case "break_statement":
		return &ast.Break{Base: base(n, l.file)}
	case "continue_statement":
		return &ast.Continue{Base: base(n, l.file)}
	default:
		return nil
	}
}

// decorated unwraps a decorated_definition to the function/class it
// decorates, attaching the decorator expressions.
func (l *lowerer) decorated(n *sitter.Node) ast.Node {
	var decorators []ast.Node
	var inner *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "decorator" {
			if expr := l.decoratorExpr(c); expr != nil {
				decorators = append(decorators, expr)
			}
			continue
		}
		inner = c
	}
	if inner == nil {
		return nil
	}
	switch inner.Type() {
	case "function_definition":
		return l.functionDef(inner, decorators)
	case "class_definition":
		return l.classDef(inner, decorators)
	default:
		return nil
	}
}

func (l *lowerer) decoratorExpr(n *sitter.Node) ast.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		return l.expr(n.NamedChild(i))
	}
	return nil
}

func (l *lowerer) functionDef(n *sitter.Node, decorators []ast.Node) ast.Node {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = l.content(nameNode)
	}

	var params []ast.Param
	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
			p := paramsNode.NamedChild(i)
			params = append(params, l.param(p))
		}
	}

	body := l.suiteBody(n.ChildByFieldName("body"))

	return &ast.FunctionDef{
		Base:       base(n, l.file),
		Name:       name,
		Params:     params,
		Decorators: decorators,
		Body:       body,
	}
}

func (l *lowerer) param(n *sitter.Node) ast.Param {
	switch n.Type() {
	case "identifier":
		return ast.Param{Name: l.content(n)}
	case "typed_parameter":
		name := ""
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "identifier" {
				name = l.content(n.NamedChild(i))
				break
			}
		}
		var ann ast.Node
		if t := n.ChildByFieldName("type"); t != nil {
			ann = l.expr(t)
		}
		return ast.Param{Name: name, Annotation: ann}
	case "default_parameter":
		nameNode := n.ChildByFieldName("name")
		valNode := n.ChildByFieldName("value")
		p := ast.Param{}
		if nameNode != nil {
			p.Name = l.content(nameNode)
		}
		if valNode != nil {
			p.Default = l.expr(valNode)
		}
		return p
	case "typed_default_parameter":
		nameNode := n.ChildByFieldName("name")
		typeNode := n.ChildByFieldName("type")
		valNode := n.ChildByFieldName("value")
		p := ast.Param{}
		if nameNode != nil {
			p.Name = l.content(nameNode)
		}
		if typeNode != nil {
			p.Annotation = l.expr(typeNode)
		}
		if valNode != nil {
			p.Default = l.expr(valNode)
		}
		return p
	case "list_splat_pattern", "dictionary_splat_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			return ast.Param{Name: l.content(n.NamedChild(i))}
		}
		return ast.Param{Name: l.content(n)}
	default:
		return ast.Param{Name: l.content(n)}
	}
}

func (l *lowerer) classDef(n *sitter.Node, decorators []ast.Node) ast.Node {
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = l.content(nameNode)
	}

	var bases []ast.Node
	if superNode := n.ChildByFieldName("superclasses"); superNode != nil {
		for i := 0; i < int(superNode.NamedChildCount()); i++ {
			c := superNode.NamedChild(i)
			if c.Type() == "keyword_argument" {
				continue
			}
			bases = append(bases, l.expr(c))
		}
	}

	body := l.suiteBody(n.ChildByFieldName("body"))
	_ = decorators // decorators on classes (dataclass, etc.) are not yet modeled beyond parsing.

	return &ast.ClassDef{
		Base:  base(n, l.file),
		Name:  name,
		Bases: bases,
		Body:  body,
	}
}

func (l *lowerer) suiteBody(n *sitter.Node) []ast.Node {
	if n == nil {
		return nil
	}
	return l.block(n)
}

func (l *lowerer) expressionStatement(n *sitter.Node) ast.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	child := n.NamedChild(0)
	switch child.Type() {
	case "assignment":
		return l.assignment(child)
	case "augmented_assignment":
		return l.augAssign(child)
	default:
		return &ast.ExprStmt{Base: base(n, l.file), Value: l.expr(child)}
	}
}

func (l *lowerer) assignment(n *sitter.Node) ast.Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	var targets []ast.Node
	if left != nil {
		targets = append(targets, l.expr(left))
	}
	var value ast.Node
	if right != nil {
		value = l.expr(right)
	}
	return &ast.Assign{Base: base(n, l.file), Targets: targets, Value: value}
}

func (l *lowerer) augAssign(n *sitter.Node) ast.Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	op := ""
	if opNode := n.ChildByFieldName("operator"); opNode != nil {
		op = l.content(opNode)
	}
	var target, value ast.Node
	if left != nil {
		target = l.expr(left)
	}
	if right != nil {
		value = l.expr(right)
	}
	return &ast.AugAssign{Base: base(n, l.file), Target: target, Op: op, Value: value}
}

func (l *lowerer) returnStmt(n *sitter.Node) ast.Node {
	var val ast.Node
	if n.NamedChildCount() > 0 {
		val = l.expr(n.NamedChild(0))
	}
	return &ast.Return{Base: base(n, l.file), Value: val}
}

func (l *lowerer) ifStmt(n *sitter.Node) ast.Node {
	test := l.expr(n.ChildByFieldName("condition"))
	body := l.suiteBody(n.ChildByFieldName("consequence"))
	var elseBody []ast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "elif_clause":
			elseBody = []ast.Node{l.elifClause(c)}
		case "else_clause":
			if body2 := c.ChildByFieldName("body"); body2 != nil {
				elseBody = l.suiteBody(body2)
			}
		}
	}
	return &ast.If{Base: base(n, l.file), Test: test, Body: body, Else: elseBody}
}

func (l *lowerer) elifClause(n *sitter.Node) ast.Node {
	test := l.expr(n.ChildByFieldName("condition"))
	body := l.suiteBody(n.ChildByFieldName("consequence"))
	return &ast.If{Base: base(n, l.file), Test: test, Body: body}
}

func (l *lowerer) forStmt(n *sitter.Node) ast.Node {
	target := l.expr(n.ChildByFieldName("left"))
	iter := l.expr(n.ChildByFieldName("right"))
	body := l.suiteBody(n.ChildByFieldName("body"))
	var elseBody []ast.Node
	if elseNode := n.ChildByFieldName("alternative"); elseNode != nil {
		if b := elseNode.ChildByFieldName("body"); b != nil {
			elseBody = l.suiteBody(b)
		}
	}
	return &ast.For{Base: base(n, l.file), Target: target, Iter: iter, Body: body, Else: elseBody}
}

func (l *lowerer) whileStmt(n *sitter.Node) ast.Node {
	test := l.expr(n.ChildByFieldName("condition"))
	body := l.suiteBody(n.ChildByFieldName("body"))
	return &ast.While{Base: base(n, l.file), Test: test, Body: body}
}

func (l *lowerer) importStmt(n *sitter.Node) ast.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "dotted_name":
			return &ast.Import{Base: base(n, l.file), Module: l.content(c)}
		case "aliased_import":
			nameNode := c.ChildByFieldName("name")
			aliasNode := c.ChildByFieldName("alias")
			imp := &ast.Import{Base: base(n, l.file)}
			if nameNode != nil {
				imp.Module = l.content(nameNode)
			}
			if aliasNode != nil {
				imp.Alias = l.content(aliasNode)
			}
			return imp
		}
	}
	return &ast.Import{Base: base(n, l.file)}
}

func (l *lowerer) importFromStmt(n *sitter.Node) ast.Node {
	stmt := &ast.ImportFrom{Base: base(n, l.file)}
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode != nil {
		if moduleNode.Type() == "relative_import" {
			stmt.Level = strings.Count(l.content(moduleNode), ".")
			for i := 0; i < int(moduleNode.NamedChildCount()); i++ {
				if moduleNode.NamedChild(i).Type() == "dotted_name" {
					stmt.Module = l.content(moduleNode.NamedChild(i))
				}
			}
		} else {
			stmt.Module = l.content(moduleNode)
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "dotted_name":
			if c == moduleNode {
				continue
			}
			stmt.Names = append(stmt.Names, l.content(c))
			stmt.Aliases = append(stmt.Aliases, "")
		case "wildcard_import":
			stmt.Names = append(stmt.Names, "*")
			stmt.Aliases = append(stmt.Aliases, "")
		case "aliased_import":
			nameNode := c.ChildByFieldName("name")
			aliasNode := c.ChildByFieldName("alias")
			name, alias := "", ""
			if nameNode != nil {
				name = l.content(nameNode)
			}
			if aliasNode != nil {
				alias = l.content(aliasNode)
			}
			stmt.Names = append(stmt.Names, name)
			stmt.Aliases = append(stmt.Aliases, alias)
		}
	}
	return stmt
}

func (l *lowerer) raiseStmt(n *sitter.Node) ast.Node {
	var exc ast.Node
	if n.NamedChildCount() > 0 {
		exc = l.expr(n.NamedChild(0))
	}
	return &ast.Raise{Base: base(n, l.file), Exc: exc}
}

// expr lowers an expression node. Node kinds outside the modeled grammar
// subset fall back to a string Literal carrying the raw source text, so the
// driver always receives a concrete node to visit rather than nil.
func (l *lowerer) expr(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "integer":
		return &ast.Literal{Base: base(n, l.file), Kind: ast.LitInt, Value: l.content(n)}
	case "float":
		return &ast.Literal{Base: base(n, l.file), Kind: ast.LitFloat, Value: l.content(n)}
	case "true", "false":
		return &ast.Literal{Base: base(n, l.file), Kind: ast.LitBool, Value: l.content(n)}
	case "none":
		return &ast.Literal{Base: base(n, l.file), Kind: ast.LitNone, Value: "None"}
	case "string":
		return &ast.Literal{Base: base(n, l.file), Kind: l.stringLitKind(n), Value: l.content(n)}
	case "identifier":
		return &ast.Name{Base: base(n, l.file), Id: l.content(n)}
	case "attribute":
		value := l.expr(n.ChildByFieldName("object"))
		attr := ""
		if attrNode := n.ChildByFieldName("attribute"); attrNode != nil {
			attr = l.content(attrNode)
		}
		return &ast.Attribute{Base: base(n, l.file), Value: value, Attr: attr}
	case "call":
		return l.call(n)
	case "list":
		return &ast.ListExpr{Base: base(n, l.file), Elts: l.namedChildren(n)}
	case "set":
		return &ast.SetExpr{Base: base(n, l.file), Elts: l.namedChildren(n)}
	case "tuple":
		return &ast.TupleExpr{Base: base(n, l.file), Elts: l.namedChildren(n)}
	case "dictionary":
		return l.dict(n)
	case "list_comprehension", "set_comprehension", "generator_expression":
		return l.comprehension(n, false)
	case "dictionary_comprehension":
		return l.comprehension(n, true)
	case "lambda":
		return l.lambda(n)
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return l.expr(n.NamedChild(0))
		}
		return &ast.Literal{Base: base(n, l.file), Kind: ast.LitNone, Value: "None"}
	default:
		return &ast.Literal{Base: base(n, l.file), Kind: ast.LitStr, Value: l.content(n)}
	}
}

func (l *lowerer) stringLitKind(n *sitter.Node) ast.LiteralKind {
	text := l.content(n)
	if strings.HasPrefix(text, "b\"") || strings.HasPrefix(text, "b'") ||
		strings.HasPrefix(text, "rb\"") || strings.HasPrefix(text, "rb'") {
		return ast.LitBytes
	}
	return ast.LitStr
}

func (l *lowerer) namedChildren(n *sitter.Node) []ast.Node {
	var out []ast.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, l.expr(n.NamedChild(i)))
	}
	return out
}

func (l *lowerer) call(n *sitter.Node) ast.Node {
	fn := l.expr(n.ChildByFieldName("function"))
	call := &ast.Call{Base: base(n, l.file), Func: fn, Kwargs: map[string]ast.Node{}}
	argsNode := n.ChildByFieldName("arguments")
	if argsNode != nil {
		for i := 0; i < int(argsNode.NamedChildCount()); i++ {
			arg := argsNode.NamedChild(i)
			if arg.Type() == "keyword_argument" {
				nameNode := arg.ChildByFieldName("name")
				valNode := arg.ChildByFieldName("value")
				if nameNode != nil {
					call.Kwargs[l.content(nameNode)] = l.expr(valNode)
				}
				continue
			}
			call.Args = append(call.Args, l.expr(arg))
		}
	}
	return call
}

func (l *lowerer) dict(n *sitter.Node) ast.Node {
	d := &ast.DictExpr{Base: base(n, l.file)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		pair := n.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		k := pair.ChildByFieldName("key")
		v := pair.ChildByFieldName("value")
		d.Keys = append(d.Keys, l.expr(k))
		d.Values = append(d.Values, l.expr(v))
	}
	return d
}

func (l *lowerer) comprehension(n *sitter.Node, isDict bool) ast.Node {
	c := &ast.Comprehension{Base: base(n, l.file), IsDict: isDict}
	if isDict {
		if pairNode := n.NamedChild(0); pairNode != nil && pairNode.Type() == "pair" {
			c.Key = l.expr(pairNode.ChildByFieldName("key"))
			c.Elt = l.expr(pairNode.ChildByFieldName("value"))
		}
	} else if n.NamedChildCount() > 0 {
		c.Elt = l.expr(n.NamedChild(0))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() == "for_in_clause" {
			c.Target = l.expr(clause.ChildByFieldName("left"))
			c.Iter = l.expr(clause.ChildByFieldName("right"))
			break
		}
	}
	return c
}

func (l *lowerer) lambda(n *sitter.Node) ast.Node {
	var params []ast.Param
	if paramsNode := n.ChildByFieldName("parameters"); paramsNode != nil {
		for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
			params = append(params, l.param(paramsNode.NamedChild(i)))
		}
	}
	body := l.expr(n.ChildByFieldName("body"))
	return &ast.Lambda{Base: base(n, l.file), Params: params, Body: body}
}
