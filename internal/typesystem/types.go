// Package typesystem defines the closed sum of types the checker
// reasons about, together with structural equality, free-variable
// queries and the persistent substitution built during generic
// inference.
package typesystem

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Type is the interface for all types in our system. The sum is closed:
// Top, Bottom, Object, Deleted, Primitive, Parametric, Union, Optional,
// Tuple, Callable, Variable and Meta are the only implementations.
// Equality is structural; values are finite trees.
type Type interface {
	String() string
	// Apply substitutes bound variables throughout the type, returning
	// a new value. Types are never mutated in place.
	Apply(sub Substitution) Type
	// FreeVariables returns the variables occurring in the type, unique
	// by identity, in first-occurrence order.
	FreeVariables() []Variable
}

// Top is the unknown/dynamic type. Nothing is known about a value of
// this type; annotations that cannot be trusted collapse to it.
type Top struct{}

func (Top) String() string            { return "unknown" }
func (t Top) Apply(Substitution) Type { return t }
func (Top) FreeVariables() []Variable { return nil }

// Bottom is the type of names that are unassigned on every path. It is
// compatible with any target.
type Bottom struct{}

func (Bottom) String() string            { return "undefined" }
func (t Bottom) Apply(Substitution) Type { return t }
func (Bottom) FreeVariables() []Variable { return nil }

// Object is the universal supertype of all tracked types, distinct from
// Top: Object is fully known, it just carries no further structure.
type Object struct{}

func (Object) String() string            { return "object" }
func (t Object) Apply(Substitution) Type { return t }
func (Object) FreeVariables() []Variable { return nil }

// Deleted is the sentinel for removed locals: an entry equal to it is
// treated as absence, forcing fallback to the global table.
type Deleted struct{}

func (Deleted) String() string            { return "deleted" }
func (t Deleted) Apply(Substitution) Type { return t }
func (Deleted) FreeVariables() []Variable { return nil }

// Primitive is a nominal, non-parametric type known by name.
type Primitive struct {
	Name string
}

func (p Primitive) String() string          { return p.Name }
func (p Primitive) Apply(Substitution) Type { return p }
func (Primitive) FreeVariables() []Variable { return nil }

// Parametric is a generic type instantiated with arguments, e.g.
// list[int]. Parameter variance is declared on the lattice side, not
// carried here.
type Parametric struct {
	Name       string
	Parameters []Type
}

func (p Parametric) String() string {
	parameters := make([]string, len(p.Parameters))
	for i, parameter := range p.Parameters {
		parameters[i] = parameter.String()
	}
	return fmt.Sprintf("%s[%s]", p.Name, strings.Join(parameters, ", "))
}

func (p Parametric) Apply(sub Substitution) Type {
	parameters := make([]Type, len(p.Parameters))
	for i, parameter := range p.Parameters {
		parameters[i] = parameter.Apply(sub)
	}
	return Parametric{Name: p.Name, Parameters: parameters}
}

func (p Parametric) FreeVariables() []Variable {
	var variables []Variable
	for _, parameter := range p.Parameters {
		variables = append(variables, parameter.FreeVariables()...)
	}
	return uniqueVariables(variables)
}

// Union is a normalized sum of at least two alternatives. Construct
// unions through NewUnion only, which flattens, deduplicates and sorts
// members so that structural equality is order-insensitive.
type Union struct {
	Members []Type
}

func (u Union) String() string {
	members := make([]string, len(u.Members))
	for i, member := range u.Members {
		members[i] = member.String()
	}
	return fmt.Sprintf("Union[%s]", strings.Join(members, ", "))
}

func (u Union) Apply(sub Substitution) Type {
	members := make([]Type, len(u.Members))
	for i, member := range u.Members {
		members[i] = member.Apply(sub)
	}
	return NewUnion(members...)
}

func (u Union) FreeVariables() []Variable {
	var variables []Variable
	for _, member := range u.Members {
		variables = append(variables, member.FreeVariables()...)
	}
	return uniqueVariables(variables)
}

// NewUnion builds a normalized union: nested unions are flattened,
// duplicates removed, members sorted. A single surviving member is
// returned directly; an empty member list yields Bottom.
func NewUnion(members ...Type) Type {
	flat := make([]Type, 0, len(members))
	for _, member := range members {
		if u, ok := member.(Union); ok {
			flat = append(flat, u.Members...)
		} else {
			flat = append(flat, member)
		}
	}

	// Deduplicate by rendered form; members are finite trees so the
	// rendering is a faithful structural key.
	seen := make(map[string]bool, len(flat))
	unique := make([]Type, 0, len(flat))
	for _, member := range flat {
		key := member.String()
		if !seen[key] {
			seen[key] = true
			unique = append(unique, member)
		}
	}

	if len(unique) == 0 {
		return Bottom{}
	}
	if len(unique) == 1 {
		return unique[0]
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})
	return Union{Members: unique}
}

// Optional wraps a type that may also be None.
type Optional struct {
	Inner Type
}

func (o Optional) String() string { return fmt.Sprintf("Optional[%s]", o.Inner.String()) }

func (o Optional) Apply(sub Substitution) Type {
	return Optional{Inner: o.Inner.Apply(sub)}
}

func (o Optional) FreeVariables() []Variable { return o.Inner.FreeVariables() }

// Tuple is either bounded (fixed element list, positions independent)
// or unbounded (homogeneous, arbitrary length). An unbounded tuple
// holds exactly one element type.
type Tuple struct {
	Elements  []Type
	Unbounded bool
}

// BoundedTuple builds a fixed-length tuple type.
func BoundedTuple(elements ...Type) Tuple {
	return Tuple{Elements: elements}
}

// UnboundedTuple builds a variable-length tuple of a single element type.
func UnboundedTuple(element Type) Tuple {
	return Tuple{Elements: []Type{element}, Unbounded: true}
}

func (t Tuple) String() string {
	if t.Unbounded {
		return fmt.Sprintf("Tuple[%s, ...]", t.Elements[0].String())
	}
	elements := make([]string, len(t.Elements))
	for i, element := range t.Elements {
		elements[i] = element.String()
	}
	return fmt.Sprintf("Tuple[%s]", strings.Join(elements, ", "))
}

func (t Tuple) Apply(sub Substitution) Type {
	elements := make([]Type, len(t.Elements))
	for i, element := range t.Elements {
		elements[i] = element.Apply(sub)
	}
	return Tuple{Elements: elements, Unbounded: t.Unbounded}
}

func (t Tuple) FreeVariables() []Variable {
	var variables []Variable
	for _, element := range t.Elements {
		variables = append(variables, element.FreeVariables()...)
	}
	return uniqueVariables(variables)
}

// Meta is the type of a class object itself, as opposed to an instance
// of that class.
type Meta struct {
	Inner Type
}

func (m Meta) String() string { return fmt.Sprintf("Type[%s]", m.Inner.String()) }

func (m Meta) Apply(sub Substitution) Type {
	return Meta{Inner: m.Inner.Apply(sub)}
}

func (m Meta) FreeVariables() []Variable { return m.Inner.FreeVariables() }

// Equal reports structural equality of two types. Unions are normalized
// at construction, so deep equality is order-insensitive for them.
func Equal(left, right Type) bool {
	return reflect.DeepEqual(left, right)
}

// IsResolved reports whether the type contains no free variables.
func IsResolved(t Type) bool {
	return len(t.FreeVariables()) == 0
}

// IsConcrete reports whether the type is fully known: no Top, Bottom,
// Deleted or free variables anywhere in the tree. Object is concrete.
func IsConcrete(t Type) bool {
	return !Exists(t, func(element Type) bool {
		switch element.(type) {
		case Top, Bottom, Deleted, Variable:
			return true
		}
		return false
	})
}

// Exists reports whether predicate holds for the type or any of its
// nested elements.
func Exists(t Type, predicate func(Type) bool) bool {
	if predicate(t) {
		return true
	}
	switch typ := t.(type) {
	case Parametric:
		for _, parameter := range typ.Parameters {
			if Exists(parameter, predicate) {
				return true
			}
		}
	case Union:
		for _, member := range typ.Members {
			if Exists(member, predicate) {
				return true
			}
		}
	case Optional:
		return Exists(typ.Inner, predicate)
	case Tuple:
		for _, element := range typ.Elements {
			if Exists(element, predicate) {
				return true
			}
		}
	case Meta:
		return Exists(typ.Inner, predicate)
	case Callable:
		if existsInSignature(typ.Implementation, predicate) {
			return true
		}
		for _, overload := range typ.Overloads {
			if existsInSignature(overload, predicate) {
				return true
			}
		}
	case Variable:
		switch constraint := typ.Constraint.(type) {
		case Bound:
			return Exists(constraint.Type, predicate)
		case Explicit:
			for _, alternative := range constraint.Alternatives {
				if Exists(alternative, predicate) {
					return true
				}
			}
		}
	}
	return false
}

func existsInSignature(signature Signature, predicate func(Type) bool) bool {
	for _, parameter := range signature.Parameters {
		if parameter.Annotation != nil && Exists(parameter.Annotation, predicate) {
			return true
		}
	}
	if signature.Returns != nil && Exists(signature.Returns, predicate) {
		return true
	}
	return false
}

// Transform rebuilds the type bottom-up, replacing every element by
// replace(element). Children are transformed before their parent is
// passed to replace.
func Transform(t Type, replace func(Type) Type) Type {
	switch typ := t.(type) {
	case Parametric:
		parameters := make([]Type, len(typ.Parameters))
		for i, parameter := range typ.Parameters {
			parameters[i] = Transform(parameter, replace)
		}
		return replace(Parametric{Name: typ.Name, Parameters: parameters})
	case Union:
		members := make([]Type, len(typ.Members))
		for i, member := range typ.Members {
			members[i] = Transform(member, replace)
		}
		return replace(NewUnion(members...))
	case Optional:
		return replace(Optional{Inner: Transform(typ.Inner, replace)})
	case Tuple:
		elements := make([]Type, len(typ.Elements))
		for i, element := range typ.Elements {
			elements[i] = Transform(element, replace)
		}
		return replace(Tuple{Elements: elements, Unbounded: typ.Unbounded})
	case Meta:
		return replace(Meta{Inner: Transform(typ.Inner, replace)})
	case Callable:
		transformed := Callable{
			Name:           typ.Name,
			Implementation: transformSignature(typ.Implementation, replace),
		}
		if len(typ.Overloads) > 0 {
			transformed.Overloads = make([]Signature, len(typ.Overloads))
			for i, overload := range typ.Overloads {
				transformed.Overloads[i] = transformSignature(overload, replace)
			}
		}
		return replace(transformed)
	default:
		return replace(t)
	}
}

func transformSignature(signature Signature, replace func(Type) Type) Signature {
	transformed := Signature{Returns: signature.Returns}
	if signature.Returns != nil {
		transformed.Returns = Transform(signature.Returns, replace)
	}
	if len(signature.Parameters) > 0 {
		transformed.Parameters = make([]Parameter, len(signature.Parameters))
		for i, parameter := range signature.Parameters {
			transformed.Parameters[i] = parameter
			if parameter.Annotation != nil {
				transformed.Parameters[i].Annotation = Transform(parameter.Annotation, replace)
			}
		}
	}
	return transformed
}

func uniqueVariables(variables []Variable) []Variable {
	if len(variables) <= 1 {
		return variables
	}
	seen := make(map[string]bool, len(variables))
	unique := make([]Variable, 0, len(variables))
	for _, variable := range variables {
		if !seen[variable.Identity()] {
			seen[variable.Identity()] = true
			unique = append(unique, variable)
		}
	}
	return unique
}
