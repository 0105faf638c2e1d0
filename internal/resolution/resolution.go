// Package resolution implements the checker's type environment and its
// core queries: annotation parsing policy, structural literal
// inference, mutable-literal reconciliation, invariance diagnostics and
// the generic constraint solver.
//
// A Resolution is an immutable snapshot of local annotations plus the
// lookup capabilities the surrounding driver injects. Every update
// returns a new value sharing structure with the old one, so branches
// of a control-flow analysis can fork and compare environments freely.
package resolution

import (
	"github.com/benbjohnson/immutable"

	"github.com/siftcheck/sift/internal/access"
	"github.com/siftcheck/sift/internal/ast"
	"github.com/siftcheck/sift/internal/lattice"
	"github.com/siftcheck/sift/internal/symbols"
	"github.com/siftcheck/sift/internal/typesystem"
)

// Capabilities bundles the pure lookup and compute functions this core
// requires from its collaborators. Any field may be nil; the
// environment degrades to permissive answers instead of failing.
type Capabilities struct {
	// Resolve is the full expression evaluator.
	Resolve func(Resolution, ast.Expression) typesystem.Type
	// ParseAnnotationRaw converts annotation syntax to a raw type,
	// before the environment's policy is applied.
	ParseAnnotationRaw func(ast.Expression) typesystem.Type
	// Global looks up a global annotation.
	Global func(access.Access) *symbols.Annotation
	// ModuleDefinition looks up a module summary.
	ModuleDefinition func(access.Access) *symbols.Module
	// ClassDefinition looks up the definition node behind a type.
	ClassDefinition func(typesystem.Type) *symbols.ClassNode
	// ClassRepresentation looks up the representation cache entry
	// behind a type.
	ClassRepresentation func(typesystem.Type) *symbols.Class
	// Constructor computes the type a class's constructor returns when
	// instantiated.
	Constructor func(typesystem.Type, Resolution, *symbols.ClassNode) typesystem.Type
}

var emptyLocals = immutable.NewSortedMap(nil)

// Locals is the persistent mapping from qualified names to
// annotations. The zero value is empty.
type Locals struct {
	entries *immutable.SortedMap
}

type localEntry struct {
	name       access.Access
	annotation symbols.Annotation
}

// NewLocals returns an empty locals map.
func NewLocals() Locals { return Locals{entries: emptyLocals} }

func (l Locals) resolved() *immutable.SortedMap {
	if l.entries == nil {
		return emptyLocals
	}
	return l.entries
}

// Len returns the number of bindings.
func (l Locals) Len() int { return l.resolved().Len() }

// Get returns the annotation bound to the name, if present.
func (l Locals) Get(name access.Access) (symbols.Annotation, bool) {
	value, ok := l.resolved().Get(name.Key())
	if !ok {
		return symbols.Annotation{}, false
	}
	return value.(localEntry).annotation, true
}

// Set returns a new locals map with the binding added or replaced.
func (l Locals) Set(name access.Access, annotation symbols.Annotation) Locals {
	return Locals{entries: l.resolved().Set(name.Key(), localEntry{name: name, annotation: annotation})}
}

// Delete returns a new locals map without the binding.
func (l Locals) Delete(name access.Access) Locals {
	return Locals{entries: l.resolved().Delete(name.Key())}
}

// Range iterates over bindings in key order; iteration stops when f
// returns false.
func (l Locals) Range(f func(access.Access, symbols.Annotation) bool) {
	iterator := l.resolved().Iterator()
	for !iterator.Done() {
		_, value := iterator.Next()
		entry := value.(localEntry)
		if !f(entry.name, entry.annotation) {
			return
		}
	}
}

// Resolution is the immutable type environment threaded through one
// analysis unit. It is a value: mutators return updated copies.
type Resolution struct {
	locals       Locals
	order        lattice.Order
	capabilities Capabilities
	parent       access.Access
}

// New builds an environment over the given subtyping order and
// injected capabilities.
func New(order lattice.Order, capabilities Capabilities) Resolution {
	return Resolution{locals: NewLocals(), order: order, capabilities: capabilities}
}

// Order returns the environment's subtyping oracle.
func (r Resolution) Order() lattice.Order { return r.order }

// WithOrder returns a copy using the given subtyping order.
func (r Resolution) WithOrder(order lattice.Order) Resolution {
	r.order = order
	return r
}

// Parent returns the qualified name of the enclosing scope, which may
// be empty.
func (r Resolution) Parent() access.Access { return r.parent }

// WithParent returns a copy using the given enclosing-scope name.
func (r Resolution) WithParent(parent access.Access) Resolution {
	r.parent = parent
	return r
}

// Annotations returns the locals map.
func (r Resolution) Annotations() Locals { return r.locals }

// WithAnnotations returns a copy using the given locals map.
func (r Resolution) WithAnnotations(locals Locals) Resolution {
	r.locals = locals
	return r
}

// SetLocal returns a new environment with the binding added. Storing
// the deleted sentinel removes the binding instead, preserving the
// invariant that locals never observably contain it.
func (r Resolution) SetLocal(name access.Access, annotation symbols.Annotation) Resolution {
	if annotation.Type != nil && typesystem.Equal(annotation.Type, typesystem.Deleted{}) {
		return r.UnsetLocal(name)
	}
	r.locals = r.locals.Set(name, annotation)
	return r
}

// UnsetLocal returns a new environment without the binding.
func (r Resolution) UnsetLocal(name access.Access) Resolution {
	r.locals = r.locals.Delete(name)
	return r
}

// GetLocal returns the local binding for the name. When it is absent
// (or holds the deleted sentinel) and globalFallback is set, the name
// is delocalized and the global table consulted instead.
func (r Resolution) GetLocal(name access.Access, globalFallback bool) *symbols.Annotation {
	if annotation, ok := r.locals.Get(name); ok {
		if !typesystem.Equal(annotation.Type, typesystem.Deleted{}) {
			return &annotation
		}
	}
	if globalFallback && r.capabilities.Global != nil {
		return r.capabilities.Global(name.Delocalize())
	}
	return nil
}

// Resolve evaluates an expression under this environment by delegating
// to the injected general resolver.
func (r Resolution) Resolve(expression ast.Expression) typesystem.Type {
	if r.capabilities.Resolve == nil {
		return typesystem.Top{}
	}
	return r.capabilities.Resolve(r, expression)
}

// Constructor computes the type constructing the given class yields,
// delegating to the injected constructor capability.
func (r Resolution) Constructor(instantiated typesystem.Type, class *symbols.ClassNode) typesystem.Type {
	if r.capabilities.Constructor == nil {
		return instantiated
	}
	return r.capabilities.Constructor(instantiated, r, class)
}

// FunctionDefinitions finds the function definitions a qualified name
// refers to: the longest prefix naming a known module is located and
// the remaining suffix looked up within it. Returns nil when no prefix
// is a module or the module has no such definitions.
func (r Resolution) FunctionDefinitions(name access.Access) []*symbols.FunctionDefinition {
	if r.capabilities.ModuleDefinition == nil {
		return nil
	}
	delocalized := name.Delocalize()
	for length := delocalized.Len() - 1; length > 0; length-- {
		module := r.capabilities.ModuleDefinition(delocalized.Prefix(length))
		if module == nil {
			continue
		}
		return module.DefinitionsFor(delocalized.Suffix(length))
	}
	return nil
}

func (r Resolution) classRepresentation(t typesystem.Type) *symbols.Class {
	if r.capabilities.ClassRepresentation == nil {
		return nil
	}
	return r.capabilities.ClassRepresentation(t)
}

func (r Resolution) classDefinition(t typesystem.Type) *symbols.ClassNode {
	if r.capabilities.ClassDefinition == nil {
		return nil
	}
	return r.capabilities.ClassDefinition(t)
}
