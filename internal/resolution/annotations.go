package resolution

import (
	"strings"

	"github.com/siftcheck/sift/internal/access"
	"github.com/siftcheck/sift/internal/ast"
	"github.com/siftcheck/sift/internal/typesystem"
)

// ParseAnnotation converts an annotation expression into a trusted
// type. Synthetic local-scope names are delocalized first; primitives
// originating from empty stub modules become the universal object
// type; and unless allowUntracked is set, an annotation mentioning any
// name the lattice does not track collapses to unknown as a whole.
// Partial knowledge must not masquerade as full knowledge.
func (r Resolution) ParseAnnotation(expression ast.Expression, allowUntracked bool) typesystem.Type {
	if r.capabilities.ParseAnnotationRaw == nil {
		return typesystem.Top{}
	}

	parsed := r.capabilities.ParseAnnotationRaw(delocalizeExpression(expression))

	parsed = typesystem.Transform(parsed, func(element typesystem.Type) typesystem.Type {
		if primitive, ok := element.(typesystem.Primitive); ok && r.originatesFromEmptyStub(primitive.Name) {
			return typesystem.Object{}
		}
		return element
	})

	if !allowUntracked && r.order != nil && !r.order.Contains(parsed) {
		return typesystem.Top{}
	}
	return parsed
}

// originatesFromEmptyStub reports whether the owning module of a
// qualified type name is a stub with no real declarations. An empty
// stub means "module exists but nothing is known", so references into
// it must be maximally permissive rather than unknown.
func (r Resolution) originatesFromEmptyStub(name string) bool {
	if r.capabilities.ModuleDefinition == nil || !strings.Contains(name, ".") {
		return false
	}
	qualified := access.Parse(name)
	for length := qualified.Len() - 1; length > 0; length-- {
		module := r.capabilities.ModuleDefinition(qualified.Prefix(length))
		if module == nil {
			continue
		}
		return module.IsEmptyStub()
	}
	return false
}

// delocalizeExpression rewrites synthetic local-scope names inside an
// annotation expression so that annotations written against local
// names parse against the declared ones.
func delocalizeExpression(expression ast.Expression) ast.Expression {
	switch expr := expression.(type) {
	case *ast.Name:
		if !expr.Access.IsLocal() {
			return expr
		}
		return &ast.Name{Access: expr.Access.Delocalize()}
	case *ast.StringLiteral:
		return &ast.StringLiteral{Value: access.DelocalizeQualified(expr.Value)}
	case *ast.Subscript:
		indices := make([]ast.Expression, len(expr.Indices))
		for i, index := range expr.Indices {
			indices[i] = delocalizeExpression(index)
		}
		return &ast.Subscript{Value: delocalizeExpression(expr.Value), Indices: indices}
	case *ast.List:
		elements := make([]ast.Expression, len(expr.Elements))
		for i, element := range expr.Elements {
			elements[i] = delocalizeExpression(element)
		}
		return &ast.List{Elements: elements}
	default:
		return expression
	}
}
