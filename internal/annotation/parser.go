// Package annotation converts annotation expressions into raw types.
// It is syntax-level only: the environment's annotation policy
// (delocalization, stub handling, untracked collapse) is layered on
// top by the resolution package.
package annotation

import (
	"github.com/siftcheck/sift/internal/ast"
	"github.com/siftcheck/sift/internal/typesystem"
)

// Special annotation heads with structural meaning.
const (
	anyName      = "Any"
	optionalHead = "Optional"
	unionHead    = "Union"
	tupleHead    = "Tuple"
	metaHead     = "Type"
	callableHead = "Callable"
)

// Parser turns annotation expressions into types. The zero value
// resolves no type variables; parsers with declared variables resolve
// annotation names to them.
type Parser struct {
	variables map[string]typesystem.Variable
}

// NewParser builds a parser that resolves the given declared type
// variables by name.
func NewParser(variables ...typesystem.Variable) *Parser {
	p := &Parser{}
	if len(variables) > 0 {
		p.variables = make(map[string]typesystem.Variable, len(variables))
		for _, variable := range variables {
			p.variables[variable.Name] = variable
		}
	}
	return p
}

// Parse converts an annotation expression into a raw type. Forms the
// parser cannot read become the unknown type; rejecting them is the
// policy layer's decision, not ours.
func (p *Parser) Parse(expression ast.Expression) typesystem.Type {
	switch expr := expression.(type) {
	case *ast.Name:
		return p.parseName(expr.Access.Key())
	case *ast.Subscript:
		return p.parseSubscript(expr)
	case *ast.StringLiteral:
		// Forward references arrive as quoted names.
		return p.parseName(expr.Value)
	}
	return typesystem.Top{}
}

func (p *Parser) parseName(name string) typesystem.Type {
	if variable, ok := p.variables[name]; ok {
		return variable
	}
	switch name {
	case typesystem.NoneName:
		return typesystem.None
	case "object":
		return typesystem.Object{}
	case anyName:
		return typesystem.Top{}
	case "":
		return typesystem.Top{}
	}
	return typesystem.Primitive{Name: name}
}

func (p *Parser) parseSubscript(expr *ast.Subscript) typesystem.Type {
	base, ok := expr.Value.(*ast.Name)
	if !ok {
		return typesystem.Top{}
	}

	switch base.Access.Key() {
	case optionalHead:
		if len(expr.Indices) != 1 {
			return typesystem.Top{}
		}
		return typesystem.Optional{Inner: p.Parse(expr.Indices[0])}

	case unionHead:
		members := make([]typesystem.Type, len(expr.Indices))
		for i, index := range expr.Indices {
			members[i] = p.Parse(index)
		}
		return typesystem.NewUnion(members...)

	case tupleHead, typesystem.TupleName:
		if len(expr.Indices) == 2 {
			if _, ok := expr.Indices[1].(*ast.EllipsisLiteral); ok {
				return typesystem.UnboundedTuple(p.Parse(expr.Indices[0]))
			}
		}
		elements := make([]typesystem.Type, len(expr.Indices))
		for i, index := range expr.Indices {
			elements[i] = p.Parse(index)
		}
		return typesystem.BoundedTuple(elements...)

	case metaHead:
		if len(expr.Indices) != 1 {
			return typesystem.Top{}
		}
		return typesystem.Meta{Inner: p.Parse(expr.Indices[0])}

	case callableHead:
		return p.parseCallable(expr)
	}

	parameters := make([]typesystem.Type, len(expr.Indices))
	for i, index := range expr.Indices {
		parameters[i] = p.Parse(index)
	}
	return typesystem.Parametric{Name: base.Access.Key(), Parameters: parameters}
}

// parseCallable reads Callable[[P1, P2], R] and Callable[..., R].
func (p *Parser) parseCallable(expr *ast.Subscript) typesystem.Type {
	if len(expr.Indices) != 2 {
		return typesystem.Top{}
	}
	signature := typesystem.Signature{Returns: p.Parse(expr.Indices[1])}

	switch parameters := expr.Indices[0].(type) {
	case *ast.EllipsisLiteral:
		// Unspecified parameters: any arity, unannotated.
	case *ast.List:
		signature.Parameters = make([]typesystem.Parameter, len(parameters.Elements))
		for i, element := range parameters.Elements {
			signature.Parameters[i] = typesystem.Parameter{Annotation: p.Parse(element)}
		}
	default:
		return typesystem.Top{}
	}

	return typesystem.Callable{Implementation: signature}
}
