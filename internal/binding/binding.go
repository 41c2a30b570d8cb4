// Package binding implements the binding registry: the single construction
// site for every Binding value the analyzer creates, plus the node -> binding
// reference index used for "go to definition"-style lookups and for the
// unused-variable diagnostic in Analyzer.Finish.
package binding

import (
	"github.com/typewright/typewright/internal/ast"
	"github.com/typewright/typewright/internal/types"
)

// Kind classifies what a Binding's defining node introduced.
type Kind int

const (
	Module Kind = iota
	Class
	Method
	Constructor
	Function
	Attribute
	Variable
	Parameter
	ScopeKind
	Alias
)

func (k Kind) String() string {
	switch k {
	case Module:
		return "MODULE"
	case Class:
		return "CLASS"
	case Method:
		return "METHOD"
	case Constructor:
		return "CONSTRUCTOR"
	case Function:
		return "FUNCTION"
	case Attribute:
		return "ATTRIBUTE"
	case Variable:
		return "VARIABLE"
	case Parameter:
		return "PARAMETER"
	case ScopeKind:
		return "SCOPE"
	case Alias:
		return "ALIAS"
	default:
		return "UNKNOWN"
	}
}

// Binding records one definition site for a name: where it was defined, what
// type it currently holds, who references it, and whether it is exempt from
// user-facing reporting (builtins, synthetic nodes).
type Binding struct {
	Name        string
	Node        ast.Node
	Type        *types.DataType
	Kind        Kind
	IsBuiltin   bool
	IsSynthetic bool

	refs    []ast.Node
	refSeen map[ast.Node]bool
}

// AddRef records node as a reference to this binding, deduplicating by
// node identity. A nil node is ignored (synthetic URL-only nodes carry no
// ast.Node to record).
func (b *Binding) AddRef(node ast.Node) {
	if node == nil {
		return
	}
	if b.refSeen == nil {
		b.refSeen = make(map[ast.Node]bool)
	}
	if b.refSeen[node] {
		return
	}
	b.refSeen[node] = true
	b.refs = append(b.refs, node)
}

// Refs returns every node that references this binding, in the order they
// were recorded.
func (b *Binding) Refs() []ast.Node {
	return b.refs
}

// Unused reports whether this binding has never been referenced, excluding
// the kinds unused-variable reporting suppresses (functions, classes,
// modules, parameters), any binding whose type is a Fun, Class or Module,
// and any builtin or synthetic binding.
func (b *Binding) Unused() bool {
	if b.IsBuiltin || b.IsSynthetic {
		return false
	}
	if b.Type != nil && (b.Type.Kind == types.KindFun || b.Type.Kind == types.KindClass || b.Type.Kind == types.KindModule) {
		return false
	}
	if b.Kind == Function || b.Kind == Constructor || b.Kind == Method ||
		b.Kind == Class || b.Kind == Module || b.Kind == Parameter {
		return false
	}
	return len(b.refs) == 0
}

// Registry owns the single creation point for Bindings and the
// node -> bindings reference index. It is owned by the Analyzer and shared
// by every Scope in the program; Scope itself stays a pure data structure
// with no knowledge of how Bindings are allocated.
type Registry struct {
	All        []*Binding
	References map[ast.Node][]*Binding
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{References: make(map[ast.Node][]*Binding)}
}

// Create constructs a fresh Binding and appends it to All. Callers that want
// widen-on-reassignment semantics go through Scope.Bind instead, which calls
// Create only for genuinely new definition sites.
func (r *Registry) Create(name string, node ast.Node, typ *types.DataType, kind Kind) *Binding {
	b := &Binding{Name: name, Node: node, Type: typ, Kind: kind}
	r.All = append(r.All, b)
	return b
}

// AddReference records that node consults bindings bs: it is inserted into
// References[node] (deduplicated, insertion-ordered) and into each binding's
// own Refs set. Nil nodes and empty binding sets are ignored, matching the
// spec's "ignores synthesized URL-only nodes" rule.
func (r *Registry) AddReference(node ast.Node, bs []*Binding) {
	if node == nil || len(bs) == 0 {
		return
	}
	existing := r.References[node]
	for _, b := range bs {
		if containsBinding(existing, b) {
			continue
		}
		existing = append(existing, b)
		b.AddRef(node)
	}
	r.References[node] = existing
}

func containsBinding(bs []*Binding, target *Binding) bool {
	for _, b := range bs {
		if b == target {
			return true
		}
	}
	return false
}
