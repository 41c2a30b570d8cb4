// Package driver implements the inference driver: the AST walker that reads
// and writes the scope graph, applying one typing rule per node kind.
package driver

import (
	"fmt"
	"strings"

	"github.com/typewright/typewright/internal/ast"
	"github.com/typewright/typewright/internal/binding"
	"github.com/typewright/typewright/internal/diagnostic"
	"github.com/typewright/typewright/internal/scope"
	"github.com/typewright/typewright/internal/types"
)

// Driver is the contract the module loader and analyzer depend on.
type Driver interface {
	Visit(node ast.Node, sc *scope.Scope) *types.DataType
}

// ModuleLoader is the minimal surface the walker needs from the module
// loader to resolve an Import/ImportFrom statement. Declared here (rather
// than importing internal/loader) so driver and loader reference each other
// only through interfaces; the Analyzer wires the concrete *loader.Loader in
// after constructing both.
type ModuleLoader interface {
	LoadModule(dottedName string, callerScope *scope.Scope) (*types.DataType, bool)
}

type callKey struct {
	fn   *types.DataType
	args string
}

// Walker is the concrete Driver: it owns the reentrancy guard, the uncalled
// worklist, and the resolved/unresolved name sets the Analyzer reports on.
type Walker struct {
	Factory *types.Factory
	Reg     *binding.Registry
	Loader  ModuleLoader

	Uncalled        map[*types.DataType]bool
	ResolvedNames   map[ast.Node]bool
	UnresolvedNames map[ast.Node]bool
	CalledFunctions int

	// SemanticDiags accumulates diagnostics raised by explicit typing
	// rules (currently only non-callable callees); the coordinator drains
	// it into the per-file diagnostic map.
	SemanticDiags []*diagnostic.Diagnostic

	callStack map[callKey]*types.DataType
	funcBody  map[*types.DataType][]ast.Node

	// returnAcc, when non-nil, collects every Return's value type encountered
	// while walking the body currently under application. It is saved and
	// restored around each applyFunction call so a nested (but not yet
	// applied) function definition's eventual body walk never contaminates an
	// unrelated call's return set.
	returnAcc *[]*types.DataType
}

// New constructs a Walker. Loader may be set after construction if the
// loader and walker are built in either order by the coordinator.
func New(factory *types.Factory, reg *binding.Registry, loader ModuleLoader) *Walker {
	return &Walker{
		Factory:         factory,
		Reg:             reg,
		Loader:          loader,
		Uncalled:        make(map[*types.DataType]bool),
		ResolvedNames:   make(map[ast.Node]bool),
		UnresolvedNames: make(map[ast.Node]bool),
		callStack:       make(map[callKey]*types.DataType),
		funcBody:        make(map[*types.DataType][]ast.Node),
	}
}

// Visit dispatches on the concrete node type and applies the matching
// typing rule, mutating sc and the registry along the way.
func (w *Walker) Visit(node ast.Node, sc *scope.Scope) *types.DataType {
	switch n := node.(type) {
	case *ast.Module:
		return w.visitBody(n.Body, sc)
	case *ast.Literal:
		return w.visitLiteral(n)
	case *ast.Name:
		return w.visitName(n, sc)
	case *ast.Attribute:
		return w.visitAttribute(n, sc, false)
	case *ast.Call:
		return w.visitCall(n, sc)
	case *ast.Assign:
		return w.visitAssign(n, sc)
	case *ast.AugAssign:
		return w.visitAugAssign(n, sc)
	case *ast.Return:
		return w.visitReturn(n, sc)
	case *ast.If:
		return w.visitIf(n, sc)
	case *ast.For:
		return w.visitFor(n, sc)
	case *ast.While:
		return w.visitWhile(n, sc)
	case *ast.Import:
		return w.visitImport(n, sc)
	case *ast.ImportFrom:
		return w.visitImportFrom(n, sc)
	case *ast.FunctionDef:
		return w.defineFunc(n, sc)
	case *ast.ClassDef:
		return w.defineClass(n, sc)
	case *ast.ListExpr:
		return w.visitListExpr(n, sc)
	case *ast.SetExpr:
		return w.visitSetExpr(n, sc)
	case *ast.TupleExpr:
		return w.visitTupleExpr(n, sc)
	case *ast.DictExpr:
		return w.visitDictExpr(n, sc)
	case *ast.Comprehension:
		return w.visitComprehension(n, sc)
	case *ast.Lambda:
		return w.visitLambda(n, sc)
	case *ast.Raise:
		if n.Exc != nil {
			w.Visit(n.Exc, sc)
		}
		return w.Factory.None()
	case *ast.Pass, *ast.Break, *ast.Continue:
		return w.Factory.None()
	case *ast.ExprStmt:
		return w.Visit(n.Value, sc)
	default:
		return w.Factory.Unknown()
	}
}

func (w *Walker) visitBody(body []ast.Node, sc *scope.Scope) *types.DataType {
	last := w.Factory.None()
	for _, stmt := range body {
		last = w.Visit(stmt, sc)
	}
	return last
}

func (w *Walker) visitLiteral(n *ast.Literal) *types.DataType {
	switch n.Kind {
	case ast.LitInt:
		return w.Factory.Int()
	case ast.LitFloat:
		return w.Factory.Float()
	case ast.LitBool:
		return w.Factory.Bool()
	case ast.LitStr:
		return w.Factory.Str()
	case ast.LitBytes:
		return w.Factory.Bytes()
	case ast.LitComplex:
		return w.Factory.Complex()
	default:
		return w.Factory.None()
	}
}

func (w *Walker) visitName(n *ast.Name, sc *scope.Scope) *types.DataType {
	bs := sc.LookupLexical(n.Id)
	if bs == nil {
		w.UnresolvedNames[n] = true
		return w.Factory.Unknown()
	}
	w.Reg.AddReference(n, bs)
	w.ResolvedNames[n] = true
	return w.unionBindings(bs)
}

func (w *Walker) unionBindings(bs []*binding.Binding) *types.DataType {
	parts := make([]*types.DataType, 0, len(bs))
	for _, b := range bs {
		parts = append(parts, b.Type)
	}
	return w.Factory.Union(parts...)
}

// visitAttribute infers e.name. isCallee marks that this attribute is the
// callee position of a Call, so a Fun resolved off an Instance is bound to
// that instance (selfType) rather than left a free function.
func (w *Walker) visitAttribute(n *ast.Attribute, sc *scope.Scope, isCallee bool) *types.DataType {
	recv := w.Visit(n.Value, sc)
	var results []*types.DataType
	found := false
	for _, ct := range types.Unfold(recv) {
		ns := w.namespaceFor(ct)
		if ns == nil {
			continue
		}
		bs := ns.LookupAttribute(n.Attr)
		if bs == nil {
			continue
		}
		found = true
		w.Reg.AddReference(n, bs)
		t := w.unionBindings(bs)
		if isCallee && ct.Kind == types.KindInstance {
			for _, m := range types.Unfold(t) {
				if m.Kind == types.KindFun {
					m.SelfType = ct
				}
			}
		}
		results = append(results, t)
	}
	if !found {
		w.UnresolvedNames[n] = true
		return w.Factory.Unknown()
	}
	w.ResolvedNames[n] = true
	return w.Factory.Union(results...)
}

func (w *Walker) namespaceFor(t *types.DataType) *scope.Scope {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case types.KindInstance, types.KindClass, types.KindModule, types.KindFun:
		if ns, ok := t.Scope.(*scope.Scope); ok {
			return ns
		}
	}
	return nil
}

func (w *Walker) visitCall(n *ast.Call, sc *scope.Scope) *types.DataType {
	calleeType := w.visitCallee(n.Func, sc)

	args := make([]*types.DataType, len(n.Args))
	for i, a := range n.Args {
		args[i] = w.Visit(a, sc)
	}
	for _, v := range n.Kwargs {
		w.Visit(v, sc)
	}

	var results []*types.DataType
	for _, ct := range types.Unfold(calleeType) {
		switch ct.Kind {
		case types.KindFun:
			results = append(results, w.applyFunction(ct, args))
		case types.KindClass:
			results = append(results, w.construct(ct, args))
		case types.KindUnknown:
			results = append(results, w.Factory.Unknown())
		default:
			if loc := n.Func.Location(); loc.File != "" {
				w.SemanticDiags = append(w.SemanticDiags, &diagnostic.Diagnostic{
					File:     loc.File,
					Severity: diagnostic.Error,
					Start:    loc.Start,
					End:      loc.End,
					Message:  fmt.Sprintf("not callable: %s", ct),
				})
			}
			results = append(results, w.Factory.Unknown())
		}
	}
	if len(results) == 0 {
		return w.Factory.Unknown()
	}
	return w.Factory.Union(results...)
}

func (w *Walker) visitCallee(callee ast.Node, sc *scope.Scope) *types.DataType {
	if attr, ok := callee.(*ast.Attribute); ok {
		return w.visitAttribute(attr, sc, true)
	}
	return w.Visit(callee, sc)
}

// construct builds an Instance of cls and, if the class (or a base) defines
// __init__, analyzes it as a bound call with the fresh instance as self.
func (w *Walker) construct(cls *types.DataType, args []*types.DataType) *types.DataType {
	var instScope *scope.Scope
	if cs, ok := cls.Scope.(*scope.Scope); ok && cs != nil {
		instScope = scope.New(scope.InstanceScope, nil, cls.QName)
		instScope.Forwarding = cs
	}
	inst := w.Factory.Instance(cls, instScope)

	if instScope != nil {
		for _, b := range instScope.LookupAttribute("__init__") {
			if b.Type != nil && b.Type.Kind == types.KindFun {
				b.Type.SelfType = inst
				w.applyFunction(b.Type, args)
			}
		}
	}
	return inst
}

// applyFunction analyzes fn's body with actuals bound to its parameters,
// widening the parameter bindings (and so their union across every call
// site, per the whole-program inference model) rather than isolating each
// call's frame. (fn, actuals) membership in callStack breaks recursion.
func (w *Walker) applyFunction(fn *types.DataType, args []*types.DataType) *types.DataType {
	if fn == nil || fn.Kind != types.KindFun {
		return w.Factory.Unknown()
	}

	actuals := args
	if fn.SelfType != nil {
		actuals = append([]*types.DataType{fn.SelfType}, args...)
	}

	key := callKey{fn: fn, args: argsKey(actuals)}
	if assumed, ok := w.callStack[key]; ok {
		return assumed
	}
	w.callStack[key] = w.Factory.Unknown()
	defer delete(w.callStack, key)

	var frame *scope.Scope
	if ns, ok := fn.Scope.(*scope.Scope); ok && ns != nil {
		frame = ns.Copy()
	} else {
		frame = scope.New(scope.FunctionScope, nil, fn.QName)
	}

	for i, name := range fn.ParamNames {
		var t *types.DataType
		switch {
		case i < len(actuals) && actuals[i] != nil:
			t = actuals[i]
		case i < len(fn.Defaults) && fn.Defaults[i] != nil:
			t = fn.Defaults[i]
		default:
			t = w.Factory.Unknown()
		}
		frame.Bind(w.Reg, w.Factory, name, nil, t, binding.Parameter)
	}

	prevAcc := w.returnAcc
	var returns []*types.DataType
	w.returnAcc = &returns
	w.visitBody(w.funcBody[fn], frame)
	w.returnAcc = prevAcc

	delete(w.Uncalled, fn)
	w.CalledFunctions++

	rt := w.Factory.Union(returns...)
	fn.ReturnType = w.Factory.Union(fn.ReturnType, rt)
	return fn.ReturnType
}

func (w *Walker) visitReturn(n *ast.Return, sc *scope.Scope) *types.DataType {
	t := w.Factory.None()
	if n.Value != nil {
		t = w.Visit(n.Value, sc)
	}
	if w.returnAcc != nil {
		*w.returnAcc = append(*w.returnAcc, t)
	}
	return t
}

func (w *Walker) visitIf(n *ast.If, sc *scope.Scope) *types.DataType {
	w.Visit(n.Test, sc)
	w.visitBody(n.Body, sc)
	w.visitBody(n.Else, sc)
	return w.Factory.None()
}

func (w *Walker) visitFor(n *ast.For, sc *scope.Scope) *types.DataType {
	iterType := w.Visit(n.Iter, sc)
	w.bindTarget(n.Target, w.elementType(iterType), sc, n)
	w.visitBody(n.Body, sc)
	w.visitBody(n.Else, sc)
	return w.Factory.None()
}

func (w *Walker) visitWhile(n *ast.While, sc *scope.Scope) *types.DataType {
	w.Visit(n.Test, sc)
	w.visitBody(n.Body, sc)
	w.visitBody(n.Else, sc)
	return w.Factory.None()
}

func (w *Walker) elementType(t *types.DataType) *types.DataType {
	var out []*types.DataType
	for _, ct := range types.Unfold(t) {
		switch ct.Kind {
		case types.KindList, types.KindSet:
			out = append(out, ct.Elem)
		case types.KindDict:
			out = append(out, ct.Key)
		case types.KindTuple:
			out = append(out, ct.Elems...)
		case types.KindStr:
			out = append(out, ct)
		default:
			out = append(out, w.Factory.Unknown())
		}
	}
	return w.Factory.Union(out...)
}

func (w *Walker) bindTarget(target ast.Node, t *types.DataType, sc *scope.Scope, definingNode ast.Node) {
	switch tg := target.(type) {
	case *ast.Name:
		sc.Bind(w.Reg, w.Factory, tg.Id, definingNode, t, binding.Variable)
	case *ast.TupleExpr:
		elems := w.elementsOf(t, len(tg.Elts))
		for i, e := range tg.Elts {
			w.bindTarget(e, elems[i], sc, definingNode)
		}
	case *ast.ListExpr:
		elems := w.elementsOf(t, len(tg.Elts))
		for i, e := range tg.Elts {
			w.bindTarget(e, elems[i], sc, definingNode)
		}
	case *ast.Attribute:
		w.bindAttributeTarget(tg, t, sc, definingNode)
	default:
		w.Visit(target, sc)
	}
}

// elementsOf splits t into n constituents for destructuring assignment: an
// exactly-sized Tuple splits positionally, anything else (a list, an
// under/over-sized tuple, an unknown iterable) falls back to n copies of
// this value's element type.
func (w *Walker) elementsOf(t *types.DataType, n int) []*types.DataType {
	if t != nil && t.Kind == types.KindTuple && len(t.Elems) == n {
		return t.Elems
	}
	elem := w.elementType(t)
	out := make([]*types.DataType, n)
	for i := range out {
		out[i] = elem
	}
	return out
}

func (w *Walker) bindAttributeTarget(attr *ast.Attribute, t *types.DataType, sc *scope.Scope, definingNode ast.Node) {
	recv := w.Visit(attr.Value, sc)
	for _, ct := range types.Unfold(recv) {
		if ct.Kind != types.KindInstance {
			continue
		}
		ns, ok := ct.Scope.(*scope.Scope)
		if !ok || ns == nil {
			continue
		}
		ns.Bind(w.Reg, w.Factory, attr.Attr, definingNode, t, binding.Attribute)
	}
}

func (w *Walker) visitAssign(n *ast.Assign, sc *scope.Scope) *types.DataType {
	val := w.Visit(n.Value, sc)
	for _, target := range n.Targets {
		w.bindTarget(target, val, sc, n)
	}
	return val
}

func (w *Walker) visitAugAssign(n *ast.AugAssign, sc *scope.Scope) *types.DataType {
	cur := w.Visit(n.Target, sc)
	val := w.Visit(n.Value, sc)
	widened := w.Factory.Union(cur, val)
	w.bindTarget(n.Target, widened, sc, n)
	return widened
}

func (w *Walker) visitImport(n *ast.Import, sc *scope.Scope) *types.DataType {
	modType, ok := w.Loader.LoadModule(n.Module, sc)
	if !ok {
		w.UnresolvedNames[n] = true
		return w.Factory.Unknown()
	}
	if n.Alias != "" {
		sc.Bind(w.Reg, w.Factory, n.Alias, n, modType, binding.Alias)
	}
	return modType
}

func (w *Walker) visitImportFrom(n *ast.ImportFrom, sc *scope.Scope) *types.DataType {
	if n.Module == "" {
		w.UnresolvedNames[n] = true
		return w.Factory.Unknown()
	}

	scratch := scope.New(scope.PlainScope, nil, "")
	modType, ok := w.Loader.LoadModule(n.Module, scratch)
	if !ok {
		w.UnresolvedNames[n] = true
		return w.Factory.Unknown()
	}
	ns, _ := modType.Scope.(*scope.Scope)

	for i, name := range n.Names {
		if name == "*" {
			if ns != nil {
				sc.Merge(ns)
			}
			continue
		}
		bindAs := name
		if i < len(n.Aliases) && n.Aliases[i] != "" {
			bindAs = n.Aliases[i]
		}
		var bs []*binding.Binding
		if ns != nil {
			bs = ns.LookupAttribute(name)
		}
		if len(bs) == 0 {
			w.UnresolvedNames[n] = true
			continue
		}
		w.Reg.AddReference(n, bs)
		sc.Bind(w.Reg, w.Factory, bindAs, n, w.unionBindings(bs), binding.Alias)
	}
	return modType
}

func (w *Walker) defineFunc(n *ast.FunctionDef, sc *scope.Scope) *types.DataType {
	for _, d := range n.Decorators {
		w.Visit(d, sc)
	}

	qname := joinQName(sc.Path(), n.Name)
	fnScope := scope.New(scope.FunctionScope, sc, qname)

	names := make([]string, len(n.Params))
	params := make([]*types.DataType, len(n.Params))
	defaults := make([]*types.DataType, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
		pt := w.Factory.Unknown()
		if p.Annotation != nil {
			if at, ok := w.resolveAnnotation(p.Annotation, sc); ok {
				pt = w.Factory.Union(pt, at)
			}
		}
		if p.Default != nil {
			dt := w.Visit(p.Default, sc)
			defaults[i] = dt
			pt = w.Factory.Union(pt, dt)
		}
		params[i] = pt
		fnScope.Bind(w.Reg, w.Factory, p.Name, nil, pt, binding.Parameter)
	}

	kind := binding.Function
	switch {
	case n.Name == "__init__":
		kind = binding.Constructor
	case sc.Kind() == scope.ClassScope:
		kind = binding.Method
	}

	fn := w.Factory.Fun(n.Name, qname, names, params, defaults, w.Factory.Unknown(), fnScope)
	w.funcBody[fn] = n.Body
	sc.Bind(w.Reg, w.Factory, n.Name, n, fn, kind)
	w.Uncalled[fn] = true
	return fn
}

func (w *Walker) defineClass(n *ast.ClassDef, sc *scope.Scope) *types.DataType {
	qname := joinQName(sc.Path(), n.Name)
	classScope := scope.New(scope.ClassScope, sc, qname)

	var baseTypes []*types.DataType
	for _, b := range n.Bases {
		bt := w.Visit(b, sc)
		for _, ct := range types.Unfold(bt) {
			if ct.Kind != types.KindClass {
				continue
			}
			baseTypes = append(baseTypes, ct)
			if bs, ok := ct.Scope.(*scope.Scope); ok && bs != nil {
				classScope.Bases = append(classScope.Bases, bs)
			}
		}
	}

	cls := w.Factory.Class(n.Name, qname, classScope, baseTypes...)
	sc.Bind(w.Reg, w.Factory, n.Name, n, cls, binding.Class)

	w.visitBody(n.Body, classScope)
	return cls
}

func (w *Walker) visitListExpr(n *ast.ListExpr, sc *scope.Scope) *types.DataType {
	elems := make([]*types.DataType, len(n.Elts))
	for i, e := range n.Elts {
		elems[i] = w.Visit(e, sc)
	}
	return w.Factory.List(w.Factory.Union(elems...))
}

func (w *Walker) visitSetExpr(n *ast.SetExpr, sc *scope.Scope) *types.DataType {
	elems := make([]*types.DataType, len(n.Elts))
	for i, e := range n.Elts {
		elems[i] = w.Visit(e, sc)
	}
	return w.Factory.Set(w.Factory.Union(elems...))
}

func (w *Walker) visitTupleExpr(n *ast.TupleExpr, sc *scope.Scope) *types.DataType {
	elems := make([]*types.DataType, len(n.Elts))
	for i, e := range n.Elts {
		elems[i] = w.Visit(e, sc)
	}
	return w.Factory.Tuple(elems...)
}

func (w *Walker) visitDictExpr(n *ast.DictExpr, sc *scope.Scope) *types.DataType {
	keys := make([]*types.DataType, len(n.Keys))
	for i, k := range n.Keys {
		keys[i] = w.Visit(k, sc)
	}
	values := make([]*types.DataType, len(n.Values))
	for i, v := range n.Values {
		values[i] = w.Visit(v, sc)
	}
	return w.Factory.Dict(w.Factory.Union(keys...), w.Factory.Union(values...))
}

func (w *Walker) visitComprehension(n *ast.Comprehension, sc *scope.Scope) *types.DataType {
	compScope := sc.Copy()
	iterType := w.Visit(n.Iter, compScope)
	w.bindTarget(n.Target, w.elementType(iterType), compScope, n)

	eltType := w.Visit(n.Elt, compScope)
	if n.IsDict {
		keyType := w.Visit(n.Key, compScope)
		return w.Factory.Dict(keyType, eltType)
	}
	return w.Factory.List(eltType)
}

func (w *Walker) visitLambda(n *ast.Lambda, sc *scope.Scope) *types.DataType {
	qname := joinQName(sc.Path(), "<lambda>")
	lamScope := scope.New(scope.FunctionScope, sc, qname)

	names := make([]string, len(n.Params))
	params := make([]*types.DataType, len(n.Params))
	defaults := make([]*types.DataType, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
		pt := w.Factory.Unknown()
		if p.Default != nil {
			defaults[i] = w.Visit(p.Default, sc)
			pt = w.Factory.Union(pt, defaults[i])
		}
		params[i] = pt
		lamScope.Bind(w.Reg, w.Factory, p.Name, nil, pt, binding.Parameter)
	}

	fn := w.Factory.Fun("<lambda>", qname, names, params, defaults, w.Factory.Unknown(), lamScope)
	w.funcBody[fn] = []ast.Node{&ast.Return{Value: n.Body}}
	w.Uncalled[fn] = true
	return fn
}

// resolveAnnotation resolves a parameter or assignment annotation against
// the current scope. Annotations are one more inference signal, never
// ground truth: the result is widened into the binding alongside call-site
// evidence. Unresolvable annotations are ignored.
func (w *Walker) resolveAnnotation(ann ast.Node, sc *scope.Scope) (*types.DataType, bool) {
	switch a := ann.(type) {
	case *ast.Name:
		bs := sc.LookupLexical(a.Id)
		if bs == nil {
			return nil, false
		}
		return w.annotationType(w.unionBindings(bs)), true
	case *ast.Attribute:
		t := w.visitAttribute(a, sc, false)
		if t.IsUnknown() {
			return nil, false
		}
		return w.annotationType(t), true
	default:
		return nil, false
	}
}

// annotationType maps the builtin converter classes (int, str, ...) to the
// primitive types they denote; an `x: int` parameter carries int evidence,
// not "the class object int".
func (w *Walker) annotationType(t *types.DataType) *types.DataType {
	parts := make([]*types.DataType, 0, 1)
	for _, m := range types.Unfold(t) {
		if m.Kind == types.KindClass {
			if p := w.primitiveFor(m.QName); p != nil {
				parts = append(parts, p)
				continue
			}
		}
		parts = append(parts, m)
	}
	return w.Factory.Union(parts...)
}

func (w *Walker) primitiveFor(qname string) *types.DataType {
	switch qname {
	case "builtins.int":
		return w.Factory.Int()
	case "builtins.float":
		return w.Factory.Float()
	case "builtins.bool":
		return w.Factory.Bool()
	case "builtins.str":
		return w.Factory.Str()
	case "builtins.bytes":
		return w.Factory.Bytes()
	default:
		return nil
	}
}

// UncalledSnapshot returns every Fun currently in the uncalled worklist, for
// the Analyzer's fixed-point drain.
func (w *Walker) UncalledSnapshot() []*types.DataType {
	out := make([]*types.DataType, 0, len(w.Uncalled))
	for fn := range w.Uncalled {
		out = append(out, fn)
	}
	return out
}

// UncalledEmpty reports whether every defined function has been analyzed
// under at least one call (real or synthesized Unknown-argument).
func (w *Walker) UncalledEmpty() bool {
	return len(w.Uncalled) == 0
}

// ApplyUnknown analyzes fn's body with every parameter assumed Unknown,
// exactly as Analyzer.Finish does for functions never reached by a real
// call site.
func (w *Walker) ApplyUnknown(fn *types.DataType) {
	args := make([]*types.DataType, len(fn.ParamNames))
	for i := range args {
		args[i] = w.Factory.Unknown()
	}
	w.applyFunction(fn, args)
}

func argsKey(args []*types.DataType) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, "|")
}

func joinQName(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
