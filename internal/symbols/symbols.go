// Package symbols defines the read-only symbol information the checker
// core consumes: annotations, module summaries, class definitions and
// the class representation cache entries produced by the surrounding
// class-model subsystem.
package symbols

import (
	"github.com/siftcheck/sift/internal/access"
	"github.com/siftcheck/sift/internal/typesystem"
)

// Mutability records whether a binding may be silently overwritten.
type Mutability int

const (
	// Mutable bindings may be reassigned without diagnostics.
	Mutable Mutability = iota
	// Immutable bindings are fixed once declared.
	Immutable
)

// Annotation pairs a type with its binding mutability. It is the value
// type of the environment's locals map and of global lookups.
type Annotation struct {
	Type       typesystem.Type
	Mutability Mutability
}

// NewAnnotation builds a mutable annotation.
func NewAnnotation(t typesystem.Type) Annotation {
	return Annotation{Type: t, Mutability: Mutable}
}

// NewImmutableAnnotation builds a fixed annotation.
func NewImmutableAnnotation(t typesystem.Type) Annotation {
	return Annotation{Type: t, Mutability: Immutable}
}

// FunctionDefinition is the summary of one function declared in a
// module.
type FunctionDefinition struct {
	Name      access.Access
	Signature typesystem.Signature
	Async     bool
}

// Module is the read-only summary of one source module.
type Module struct {
	Name access.Access
	// Stub marks modules declared without a real body.
	Stub bool
	// Definitions maps dotted in-module suffixes (e.g. "Class.method")
	// to the function definitions declared under them.
	Definitions map[string][]*FunctionDefinition
}

// IsEmptyStub reports whether the module is a permissive placeholder:
// declared as a stub and exposing no definitions at all.
func (m *Module) IsEmptyStub() bool {
	return m != nil && m.Stub && len(m.Definitions) == 0
}

// DefinitionsFor returns the function definitions nested under the
// given in-module suffix, or nil.
func (m *Module) DefinitionsFor(suffix access.Access) []*FunctionDefinition {
	if m == nil || len(m.Definitions) == 0 {
		return nil
	}
	return m.Definitions[suffix.Key()]
}

// ClassNode is the definition-site view of a class.
type ClassNode struct {
	Name  access.Access
	Bases []typesystem.Type
}

// Class is a representation cache entry: everything the class-model
// subsystem has derived about one class. This core only reads it.
type Class struct {
	Definition *ClassNode
	// Successors is the linearized ancestor list in resolution order.
	Successors []typesystem.Type
	// Attributes holds explicitly declared attributes.
	Attributes map[string]Annotation
	// ImplicitAttributes holds attributes inferred from constructor
	// assignments.
	ImplicitAttributes map[string]Annotation
	// IsTest marks unit-test classes.
	IsTest bool
	// Methods maps method names to their declared signatures.
	Methods map[string]typesystem.Signature
}

// Attribute looks up an attribute, preferring explicit declarations
// over implicit ones.
func (c *Class) Attribute(name string) (Annotation, bool) {
	if c == nil {
		return Annotation{}, false
	}
	if annotation, ok := c.Attributes[name]; ok {
		return annotation, true
	}
	annotation, ok := c.ImplicitAttributes[name]
	return annotation, ok
}
