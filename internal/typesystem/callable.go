package typesystem

import (
	"fmt"
	"strings"
)

// Parameter is a positional parameter of a callable signature. A nil
// annotation means the parameter is unannotated and matches anything.
type Parameter struct {
	Name       string
	Annotation Type
}

// Signature is a single callable shape: positional parameters and a
// return type.
type Signature struct {
	Parameters []Parameter
	Returns    Type
}

func (s Signature) String() string {
	parameters := make([]string, len(s.Parameters))
	for i, parameter := range s.Parameters {
		switch {
		case parameter.Annotation == nil:
			parameters[i] = parameter.Name
		case parameter.Name == "":
			parameters[i] = parameter.Annotation.String()
		default:
			parameters[i] = fmt.Sprintf("%s: %s", parameter.Name, parameter.Annotation)
		}
	}
	returns := "unknown"
	if s.Returns != nil {
		returns = s.Returns.String()
	}
	return fmt.Sprintf("[[%s], %s]", strings.Join(parameters, ", "), returns)
}

func (s Signature) apply(sub Substitution) Signature {
	applied := Signature{Returns: s.Returns}
	if s.Returns != nil {
		applied.Returns = s.Returns.Apply(sub)
	}
	if len(s.Parameters) > 0 {
		applied.Parameters = make([]Parameter, len(s.Parameters))
		for i, parameter := range s.Parameters {
			applied.Parameters[i] = parameter
			if parameter.Annotation != nil {
				applied.Parameters[i].Annotation = parameter.Annotation.Apply(sub)
			}
		}
	}
	return applied
}

func (s Signature) freeVariables() []Variable {
	var variables []Variable
	for _, parameter := range s.Parameters {
		if parameter.Annotation != nil {
			variables = append(variables, parameter.Annotation.FreeVariables()...)
		}
	}
	if s.Returns != nil {
		variables = append(variables, s.Returns.FreeVariables()...)
	}
	return variables
}

// Callable is a function type: one implementation signature plus any
// number of overloads. Solving only consults the implementation.
type Callable struct {
	Name           string
	Implementation Signature
	Overloads      []Signature
}

func (c Callable) String() string {
	return fmt.Sprintf("Callable%s", c.Implementation)
}

func (c Callable) Apply(sub Substitution) Type {
	applied := Callable{Name: c.Name, Implementation: c.Implementation.apply(sub)}
	if len(c.Overloads) > 0 {
		applied.Overloads = make([]Signature, len(c.Overloads))
		for i, overload := range c.Overloads {
			applied.Overloads[i] = overload.apply(sub)
		}
	}
	return applied
}

func (c Callable) FreeVariables() []Variable {
	variables := c.Implementation.freeVariables()
	for _, overload := range c.Overloads {
		variables = append(variables, overload.freeVariables()...)
	}
	return uniqueVariables(variables)
}
