// Package scope implements the lexical symbol table the driver reads and
// writes while walking an AST: a hierarchy of namespaces mapping names to
// sets of bindings, with class/module/instance kinds and base-class
// forwarding for attribute resolution.
package scope

import (
	"github.com/typewright/typewright/internal/ast"
	"github.com/typewright/typewright/internal/binding"
	"github.com/typewright/typewright/internal/types"
)

// Kind classifies what a Scope represents.
type Kind int

const (
	Global Kind = iota
	ModuleScope
	ClassScope
	FunctionScope
	InstanceScope
	PlainScope
)

// Scope is a lexical namespace: a name may resolve to several Bindings —
// re-assignment widens the existing binding's type in place, but a binding at
// a distinct definition site is kept separate so a reference's origin is
// still recoverable after widening.
type Scope struct {
	table  map[string][]*binding.Binding
	parent *Scope
	kind   Kind
	path   string

	// Bases lists base-class scopes consulted, in left-to-right order,
	// after a local miss on a ClassScope or InstanceScope.
	Bases []*Scope

	// Forwarding is consulted after a local miss on an InstanceScope, for
	// attributes assigned on self but declared by the class.
	Forwarding *Scope
}

// New creates a scope of the given kind, parented to parent (nil for the
// root/global scope), addressed by the given dotted path.
func New(kind Kind, parent *Scope, path string) *Scope {
	return &Scope{
		table:  make(map[string][]*binding.Binding),
		parent: parent,
		kind:   kind,
		path:   path,
	}
}

// Path satisfies types.Namespace so a Class/Module/Fun type can reference
// the scope it introduces without the types package importing scope.
func (s *Scope) Path() string { return s.path }

// SetPath reassigns this scope's dotted qualified name.
func (s *Scope) SetPath(p string) { s.path = p }

func (s *Scope) Kind() Kind     { return s.kind }
func (s *Scope) Parent() *Scope { return s.parent }

// Bindings returns every binding directly resident in this scope (not
// inherited/forwarded), keyed by name. Iteration order within a name's slice
// is insertion order; callers wanting a single global ordering should use
// the Analyzer's binding registry instead.
func (s *Scope) Bindings() map[string][]*binding.Binding {
	return s.table
}

func (s *Scope) add(name string, b *binding.Binding) {
	s.table[name] = append(s.table[name], b)
}

// InsertBinding adds an already-constructed Binding directly into this
// scope's table, bypassing the widen-on-reassignment logic in Bind. Used by
// the builtins seeder, which creates each binding exactly once up front and
// never widens it.
func (s *Scope) InsertBinding(name string, b *binding.Binding) {
	s.add(name, b)
}

// Bind creates or widens a binding for name in this scope. An existing
// binding defined at the same node widens in place via factory.Union, as
// does a plain variable or attribute re-assigned at a new site — so `x = 1`
// followed by `x = "s"` yields one binding typed Union[int, str]. Function,
// class, and method re-definitions keep separate bindings per definition
// site so cross-references resolve to the correct origin.
func (s *Scope) Bind(reg *binding.Registry, factory *types.Factory, name string, node ast.Node, typ *types.DataType, kind binding.Kind) *binding.Binding {
	for _, b := range s.table[name] {
		if b.Node == node || (b.Kind == kind && rebindWidens(kind)) {
			b.Type = factory.Union(b.Type, typ)
			return b
		}
	}
	b := reg.Create(name, node, typ, kind)
	s.add(name, b)
	return b
}

// rebindWidens reports whether a re-assignment of this kind widens the
// existing binding rather than adding a new definition site.
func rebindWidens(k binding.Kind) bool {
	return k == binding.Variable || k == binding.Parameter || k == binding.Attribute
}

// LookupLocal looks up name only in this scope's own table.
func (s *Scope) LookupLocal(name string) []*binding.Binding {
	return s.table[name]
}

// LookupLexical resolves name by walking this scope, then outward through
// parents — except that a ClassScope encountered while walking *outward* is
// skipped, matching the source language's free-variable resolution rule: a
// nested function body cannot see its enclosing class's attributes as bare
// names. The scope in which the lookup *starts* is never skipped, so a
// reference written directly in a class body still resolves against that
// class's own table.
func (s *Scope) LookupLexical(name string) []*binding.Binding {
	if bs := s.table[name]; bs != nil {
		return bs
	}
	for cur := s.parent; cur != nil; cur = cur.parent {
		if cur.kind == ClassScope {
			continue
		}
		if bs := cur.table[name]; bs != nil {
			return bs
		}
	}
	return nil
}

// LookupAttribute resolves name as an attribute of this scope: local table
// first, then Forwarding (instance -> class), then each base in left-to-right
// order (class -> bases), recursively.
func (s *Scope) LookupAttribute(name string) []*binding.Binding {
	if bs := s.table[name]; bs != nil {
		return bs
	}
	if s.Forwarding != nil {
		if bs := s.Forwarding.LookupAttribute(name); bs != nil {
			return bs
		}
	}
	for _, base := range s.Bases {
		if bs := base.LookupAttribute(name); bs != nil {
			return bs
		}
	}
	return nil
}

// LookupType resolves a dotted qualified name against this scope. A flat
// entry under the whole name wins (the module registry keys loaded modules
// by their full qname); otherwise the head segment is resolved by lexical
// lookup and each remaining segment descends into the scope the previous
// segment's type introduces.
func (s *Scope) LookupType(qname string) []*binding.Binding {
	if bs := s.table[qname]; bs != nil {
		return bs
	}
	segs := splitQName(qname)
	if len(segs) == 0 {
		return nil
	}
	bs := s.LookupLexical(segs[0])
	if bs == nil {
		return nil
	}
	cur := bs
	for _, seg := range segs[1:] {
		ns := namespaceOf(cur)
		if ns == nil {
			return nil
		}
		cur = ns.LookupAttribute(seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// namespaceOf returns the scope introduced by the first binding in bs whose
// type carries one (a Class/Module/Fun), or nil if none does.
func namespaceOf(bs []*binding.Binding) *Scope {
	for _, b := range bs {
		if b.Type == nil {
			continue
		}
		if ns, ok := b.Type.Scope.(*Scope); ok && ns != nil {
			return ns
		}
	}
	return nil
}

func splitQName(qname string) []string {
	if qname == "" {
		return nil
	}
	var segs []string
	start := 0
	for i := 0; i < len(qname); i++ {
		if qname[i] == '.' {
			segs = append(segs, qname[start:i])
			start = i + 1
		}
	}
	segs = append(segs, qname[start:])
	return segs
}

// Merge unions other's entries into this scope, used for `from m import *`.
// Base classes are not merged; they are reached through Bases at lookup time.
func (s *Scope) Merge(other *Scope) {
	for name, bs := range other.table {
		s.table[name] = append(s.table[name], bs...)
	}
}

// Copy returns a shallow clone of this scope: a fresh table with the same
// bindings, new slice headers. Used to build per-call function frames from a
// Fun's captured envScope: names newly bound in the copy stay out of the
// original's table, but bindings already present are shared, so widening
// one through the copy is visible in the original too.
func (s *Scope) Copy() *Scope {
	c := New(s.kind, s.parent, s.path)
	for name, bs := range s.table {
		cp := make([]*binding.Binding, len(bs))
		copy(cp, bs)
		c.table[name] = cp
	}
	c.Bases = s.Bases
	c.Forwarding = s.Forwarding
	return c
}
