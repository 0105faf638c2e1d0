package resolution

import (
	"github.com/siftcheck/sift/internal/ast"
	"github.com/siftcheck/sift/internal/typesystem"
)

// ResolveMutableLiterals widens an inferred literal-container type
// toward an expected annotation at the syntactic point of use. A list
// of integers may satisfy an expected list of floats when written as a
// literal, without relaxing invariance for list types in general. Any
// other shape, or any parameter that is not a subtype of its expected
// counterpart, leaves the resolved type unchanged.
func (r Resolution) ResolveMutableLiterals(expression ast.Expression, resolved, expected typesystem.Type) typesystem.Type {
	if !isMutableContainerExpression(expression) {
		return resolved
	}

	resolvedContainer, ok := resolved.(typesystem.Parametric)
	if !ok {
		return resolved
	}
	expectedContainer, ok := expected.(typesystem.Parametric)
	if !ok {
		return resolved
	}
	if resolvedContainer.Name != expectedContainer.Name {
		return resolved
	}
	if len(resolvedContainer.Parameters) != len(expectedContainer.Parameters) {
		return resolved
	}

	switch resolvedContainer.Name {
	case typesystem.ListName, typesystem.SetName:
		if len(resolvedContainer.Parameters) != 1 {
			return resolved
		}
	case typesystem.DictionaryName:
		if len(resolvedContainer.Parameters) != 2 {
			return resolved
		}
	default:
		return resolved
	}

	for i, parameter := range resolvedContainer.Parameters {
		if !r.order.LessOrEqual(parameter, expectedContainer.Parameters[i]) {
			return resolved
		}
	}
	return expected
}

// isMutableContainerExpression reports whether the expression is a
// list, set or dict display, or a comprehension building one of those.
func isMutableContainerExpression(expression ast.Expression) bool {
	switch expr := expression.(type) {
	case *ast.List, *ast.Set, *ast.Dict:
		return true
	case *ast.Comprehension:
		switch expr.Kind {
		case ast.ListComprehension, ast.SetComprehension, ast.DictComprehension:
			return true
		}
	}
	return false
}
