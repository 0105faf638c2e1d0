package symbols

import (
	"github.com/siftcheck/sift/internal/access"
	"github.com/siftcheck/sift/internal/typesystem"
)

// Table is an in-memory symbol store implementing the lookup
// capabilities the environment needs. Drivers with persistent symbol
// databases supply their own lookups instead; the table exists for
// default wiring and tests.
type Table struct {
	globals map[string]Annotation
	modules map[string]*Module
	classes map[string]*Class
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{
		globals: make(map[string]Annotation),
		modules: make(map[string]*Module),
		classes: make(map[string]*Class),
	}
}

// AddGlobal registers a global annotation under its qualified name.
func (t *Table) AddGlobal(name access.Access, annotation Annotation) {
	t.globals[name.Key()] = annotation
}

// AddModule registers a module summary.
func (t *Table) AddModule(module *Module) {
	t.modules[module.Name.Key()] = module
}

// AddClass registers a class representation under the class name.
func (t *Table) AddClass(name string, class *Class) {
	t.classes[name] = class
}

// Global returns the annotation of a global name, or nil.
func (t *Table) Global(name access.Access) *Annotation {
	if annotation, ok := t.globals[name.Key()]; ok {
		return &annotation
	}
	return nil
}

// Module returns the module summary for a qualified name, or nil.
func (t *Table) Module(name access.Access) *Module {
	return t.modules[name.Key()]
}

// ClassDefinition returns the definition node of the class behind the
// type, or nil.
func (t *Table) ClassDefinition(typ typesystem.Type) *ClassNode {
	class := t.Class(typ)
	if class == nil {
		return nil
	}
	return class.Definition
}

// Class returns the representation cache entry for the class behind
// the type, unwrapping meta types, or nil.
func (t *Table) Class(typ typesystem.Type) *Class {
	switch nominalType := typ.(type) {
	case typesystem.Meta:
		return t.Class(nominalType.Inner)
	case typesystem.Primitive:
		return t.classes[nominalType.Name]
	case typesystem.Parametric:
		return t.classes[nominalType.Name]
	}
	return nil
}
