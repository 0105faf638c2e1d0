package typesystem

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Variance declares how a generic parameter position relates to
// subtyping of the enclosing parametric type.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	default:
		return "invariant"
	}
}

// VariableConstraint restricts the types a variable may be bound to.
// The kinds are Unconstrained, Bound and Explicit.
type VariableConstraint interface {
	variableConstraint()
}

// Unconstrained places no restriction on the binding.
type Unconstrained struct{}

func (Unconstrained) variableConstraint() {}

// Bound restricts bindings to subtypes of Type.
type Bound struct {
	Type Type
}

func (Bound) variableConstraint() {}

// Explicit restricts bindings to one of a fixed list of alternatives.
type Explicit struct {
	Alternatives []Type
}

func (Explicit) variableConstraint() {}

// Variable is a type parameter awaiting a binding during generic
// inference. Identity is the declared name plus an optional namespace;
// two variables with the same identity refer to the same parameter.
type Variable struct {
	Name       string
	Namespace  string
	Variance   Variance
	Constraint VariableConstraint
}

// NewVariable declares an unconstrained, invariant variable.
func NewVariable(name string) Variable {
	return Variable{Name: name, Constraint: Unconstrained{}}
}

// WithNamespace returns a copy of the variable carrying a fresh unique
// namespace, keeping separate instantiations of the same declared
// parameter distinct inside one substitution.
func (v Variable) WithNamespace() Variable {
	v.Namespace = uuid.NewString()
	return v
}

// Identity is the substitution key: name qualified by namespace.
func (v Variable) Identity() string {
	if v.Namespace == "" {
		return v.Name
	}
	return v.Name + "/" + v.Namespace
}

func (v Variable) String() string {
	var suffix string
	switch constraint := v.Constraint.(type) {
	case Bound:
		suffix = fmt.Sprintf(" <: %s", constraint.Type)
	case Explicit:
		alternatives := make([]string, len(constraint.Alternatives))
		for i, alternative := range constraint.Alternatives {
			alternatives[i] = alternative.String()
		}
		suffix = fmt.Sprintf(" in (%s)", strings.Join(alternatives, ", "))
	}
	return v.Name + suffix
}

func (v Variable) Apply(sub Substitution) Type {
	if bound, ok := sub.Get(v); ok {
		return bound
	}
	return v
}

func (v Variable) FreeVariables() []Variable { return []Variable{v} }
