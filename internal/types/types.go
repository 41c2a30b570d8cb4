// Package types implements the value-type lattice the analyzer infers over:
// a tagged-variant DataType plus a per-analyzer interning Factory.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the variant held by a DataType.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindBool
	KindStr
	KindBytes
	KindNone
	KindComplex
	KindList
	KindDict
	KindTuple
	KindSet
	KindFun
	KindClass
	KindInstance
	KindModule
	KindUnion
)

// DataType is a single tagged-variant value: the Kind selects which of the
// payload fields below are meaningful. Two DataTypes are structurally equal
// when Equals reports true; the Factory interns structurally-equal compound
// types so pointer identity is also a valid equality test for interned
// values.
type DataType struct {
	Kind Kind

	// KindList / KindSet
	Elem *DataType
	// KindDict
	Key, Value *DataType
	// KindTuple
	Elems []*DataType
	// KindUnion
	Members []*DataType

	// KindFun
	ParamNames []string
	Params     []*DataType
	Defaults   []*DataType
	ReturnType *DataType
	SelfType   *DataType
	FunName    string

	// KindClass
	Bases []*DataType
	// KindInstance
	Class *DataType

	// KindClass / KindModule / KindFun — the namespace this type introduces.
	Scope Namespace

	// KindClass / KindModule
	Name     string
	QName    string
	FilePath string
}

// Namespace is satisfied by *scope.Scope. Declared here (rather than
// importing the scope package) to avoid a cyclic import between types and
// scope: a Class/Module/Fun type owns a scope, and a scope's bindings hold
// types.
type Namespace interface {
	Path() string
}

func (t *DataType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindBytes:
		return "bytes"
	case KindNone:
		return "None"
	case KindComplex:
		return "complex"
	case KindList:
		return fmt.Sprintf("list[%s]", t.Elem)
	case KindDict:
		return fmt.Sprintf("dict[%s, %s]", t.Key, t.Value)
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return fmt.Sprintf("tuple[%s]", strings.Join(parts, ", "))
	case KindSet:
		return fmt.Sprintf("set[%s]", t.Elem)
	case KindFun:
		return fmt.Sprintf("Callable<%s>", t.FunName)
	case KindClass:
		return fmt.Sprintf("class %s", t.QName)
	case KindInstance:
		return t.Class.QName
	case KindModule:
		return fmt.Sprintf("module %s", t.QName)
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.String()
		}
		return fmt.Sprintf("Union[%s]", strings.Join(parts, ", "))
	default:
		return "Unknown"
	}
}

// key returns a canonical structural key, used both for Equals and for the
// Factory's intern table. Compound types canonicalize their children first
// so that interning stays consistent under repeated union/widen calls.
func (t *DataType) key() string {
	if t == nil {
		return "nil"
	}
	switch t.Kind {
	case KindList:
		return "list[" + t.Elem.key() + "]"
	case KindDict:
		return "dict[" + t.Key.key() + "," + t.Value.key() + "]"
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.key()
		}
		return "tuple[" + strings.Join(parts, ",") + "]"
	case KindSet:
		return "set[" + t.Elem.key() + "]"
	case KindClass:
		return "class:" + t.QName
	case KindInstance:
		return "instance:" + t.Class.key()
	case KindModule:
		return "module:" + t.QName
	case KindFun:
		return "fun:" + t.FunName + ":" + t.QName
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.key()
		}
		sort.Strings(parts)
		return "union[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("prim:%d", t.Kind)
	}
}

// Equals reports structural equality.
func (t *DataType) Equals(o *DataType) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	return t.key() == o.key()
}

// IsUnknown, IsNone and friends are convenience predicates used throughout
// the driver and analyzer.
func (t *DataType) IsUnknown() bool { return t == nil || t.Kind == KindUnknown }
func (t *DataType) IsNone() bool    { return t != nil && t.Kind == KindNone }
func (t *DataType) IsCallable() bool {
	return t != nil && (t.Kind == KindFun || t.Kind == KindClass)
}

// Factory is the single construction site for every DataType value an
// Analyzer works with. It is not safe for concurrent use — the analyzer
// core is single-threaded by design (see the concurrency model), so no
// locking is needed here.
type Factory struct {
	interned map[string]*DataType
	unknown  *DataType
	none     *DataType
	prim     map[Kind]*DataType
}

// NewFactory constructs a Factory with its primitive singletons pre-seeded.
func NewFactory() *Factory {
	f := &Factory{
		interned: make(map[string]*DataType),
		prim:     make(map[Kind]*DataType),
	}
	for _, k := range []Kind{KindInt, KindFloat, KindBool, KindStr, KindBytes, KindNone, KindComplex, KindUnknown} {
		f.prim[k] = &DataType{Kind: k}
	}
	f.unknown = f.prim[KindUnknown]
	f.none = f.prim[KindNone]
	return f
}

func (f *Factory) Unknown() *DataType { return f.unknown }
func (f *Factory) None() *DataType    { return f.none }
func (f *Factory) Int() *DataType     { return f.prim[KindInt] }
func (f *Factory) Float() *DataType   { return f.prim[KindFloat] }
func (f *Factory) Bool() *DataType    { return f.prim[KindBool] }
func (f *Factory) Str() *DataType     { return f.prim[KindStr] }
func (f *Factory) Bytes() *DataType   { return f.prim[KindBytes] }
func (f *Factory) Complex() *DataType { return f.prim[KindComplex] }

func (f *Factory) intern(t *DataType) *DataType {
	k := t.key()
	if existing, ok := f.interned[k]; ok {
		return existing
	}
	f.interned[k] = t
	return t
}

func (f *Factory) List(elem *DataType) *DataType {
	if elem == nil {
		elem = f.unknown
	}
	return f.intern(&DataType{Kind: KindList, Elem: elem})
}

func (f *Factory) Dict(key, value *DataType) *DataType {
	if key == nil {
		key = f.unknown
	}
	if value == nil {
		value = f.unknown
	}
	return f.intern(&DataType{Kind: KindDict, Key: key, Value: value})
}

func (f *Factory) Tuple(elems ...*DataType) *DataType {
	return f.intern(&DataType{Kind: KindTuple, Elems: elems})
}

func (f *Factory) Set(elem *DataType) *DataType {
	if elem == nil {
		elem = f.unknown
	}
	return f.intern(&DataType{Kind: KindSet, Elem: elem})
}

func (f *Factory) Class(name, qname string, scope Namespace, bases ...*DataType) *DataType {
	return &DataType{Kind: KindClass, Name: name, QName: qname, Scope: scope, Bases: bases}
}

// Instance returns an instance of class. instanceScope, when non-nil, is the
// per-instance namespace that holds attributes assigned on self (e.g.
// `self.x = 1`); Scope.Forwarding on that namespace points back at the
// class's own scope so attribute lookup falls through to methods and
// class-level attributes after a local miss.
func (f *Factory) Instance(class *DataType, instanceScope Namespace) *DataType {
	return &DataType{Kind: KindInstance, Class: class, Scope: instanceScope}
}

func (f *Factory) Module(name, qname string, scope Namespace, filePath string) *DataType {
	return &DataType{Kind: KindModule, Name: name, QName: qname, Scope: scope, FilePath: filePath}
}

func (f *Factory) Fun(name, qname string, paramNames []string, params []*DataType, defaults []*DataType, returnType *DataType, scope Namespace) *DataType {
	return &DataType{Kind: KindFun, FunName: name, QName: qname, ParamNames: paramNames, Params: params, Defaults: defaults, ReturnType: returnType, Scope: scope}
}

// Union builds the join of the given types: Unknown is absorbed, nested
// unions are flattened, and members are deduplicated by structural key. A
// single surviving member is returned unwrapped rather than as a
// one-element Union.
func (f *Factory) Union(parts ...*DataType) *DataType {
	var flat []*DataType
	seen := make(map[string]bool)
	add := func(t *DataType) {
		if t == nil || t.Kind == KindUnknown {
			return
		}
		k := t.key()
		if seen[k] {
			return
		}
		seen[k] = true
		flat = append(flat, t)
	}
	for _, p := range parts {
		if p == nil {
			continue
		}
		if p.Kind == KindUnion {
			for _, m := range p.Members {
				add(m)
			}
		} else {
			add(p)
		}
	}
	switch len(flat) {
	case 0:
		return f.unknown
	case 1:
		return flat[0]
	default:
		sort.Slice(flat, func(i, j int) bool { return flat[i].key() < flat[j].key() })
		return f.intern(&DataType{Kind: KindUnion, Members: flat})
	}
}

// Widen unions b into the existing type a, returning the new combined type.
// It is Union under another name; Scope.Bind widens a binding's type by
// calling Union directly.
func (f *Factory) Widen(a, b *DataType) *DataType {
	return f.Union(a, b)
}

// Unfold returns the constituent members of t: a single-element slice for
// any non-union type, or the member list for a Union. Callers that need to
// "iterate over what a value could be" (attribute access, call application)
// use this instead of special-casing KindUnion themselves.
func Unfold(t *DataType) []*DataType {
	if t == nil {
		return nil
	}
	if t.Kind == KindUnion {
		return t.Members
	}
	return []*DataType{t}
}
