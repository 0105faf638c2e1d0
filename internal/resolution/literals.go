package resolution

import (
	"github.com/siftcheck/sift/internal/ast"
	"github.com/siftcheck/sift/internal/typesystem"
)

// ResolveLiteral infers the type of a literal-shaped expression
// structurally, without evaluating anything. Every branch has a
// concrete fallback: unrecognized or imprecise forms yield object.
func (r Resolution) ResolveLiteral(expression ast.Expression) typesystem.Type {
	switch expr := expression.(type) {
	case *ast.BooleanLiteral:
		return typesystem.Boolean
	case *ast.IntegerLiteral:
		return typesystem.Integer
	case *ast.FloatLiteral:
		return typesystem.Float
	case *ast.ComplexLiteral:
		return typesystem.Complex
	case *ast.StringLiteral:
		return typesystem.String
	case *ast.BytesLiteral:
		return typesystem.Bytes

	case *ast.Await:
		return r.awaitedValue(r.ResolveLiteral(expr.Value))

	case *ast.BooleanOperator:
		return r.joinOrObject(r.ResolveLiteral(expr.Left), r.ResolveLiteral(expr.Right))

	case *ast.Conditional:
		return r.joinOrObject(r.ResolveLiteral(expr.Body), r.ResolveLiteral(expr.OrElse))

	case *ast.List:
		return r.containerLiteral(typesystem.ListName, expr.Elements)

	case *ast.Set:
		return r.containerLiteral(typesystem.SetName, expr.Elements)

	case *ast.Dict:
		return r.dictionaryLiteral(expr)

	case *ast.TupleExpr:
		elements := make([]typesystem.Type, len(expr.Elements))
		for i, element := range expr.Elements {
			// Positions are independent: no join across elements.
			elements[i] = r.ResolveLiteral(element)
		}
		return typesystem.BoundedTuple(elements...)

	case *ast.Name:
		return r.classLiteral(expr, false)

	case *ast.Call:
		if callee, ok := expr.Callee.(*ast.Name); ok {
			return r.classLiteral(callee, true)
		}
		return typesystem.Object{}
	}

	return typesystem.Object{}
}

// joinOrObject joins two branch types, keeping the join only when it
// is fully concrete.
func (r Resolution) joinOrObject(left, right typesystem.Type) typesystem.Type {
	joined := r.order.Join(left, right)
	if typesystem.IsConcrete(joined) {
		return joined
	}
	return typesystem.Object{}
}

func (r Resolution) containerLiteral(container string, elements []ast.Expression) typesystem.Type {
	joined := typesystem.Type(typesystem.Bottom{})
	for _, element := range elements {
		joined = r.order.Join(joined, r.ResolveLiteral(element))
	}
	if !typesystem.IsConcrete(joined) {
		return typesystem.Object{}
	}
	return typesystem.Parametric{Name: container, Parameters: []typesystem.Type{joined}}
}

func (r Resolution) dictionaryLiteral(expr *ast.Dict) typesystem.Type {
	if expr.HasSplat() {
		return typesystem.Object{}
	}
	keys := typesystem.Type(typesystem.Bottom{})
	values := typesystem.Type(typesystem.Bottom{})
	for _, entry := range expr.Entries {
		keys = r.order.Join(keys, r.ResolveLiteral(entry.Key))
		values = r.order.Join(values, r.ResolveLiteral(entry.Value))
	}
	if !typesystem.IsConcrete(keys) || !typesystem.IsConcrete(values) {
		return typesystem.Object{}
	}
	return typesystem.Dictionary(keys, values)
}

// awaitedValue extracts the value type of an awaitable.
func (r Resolution) awaitedValue(t typesystem.Type) typesystem.Type {
	if parametric, ok := t.(typesystem.Parametric); ok &&
		parametric.Name == typesystem.AwaitableName && len(parametric.Parameters) == 1 {
		return parametric.Parameters[0]
	}
	instantiation, err := r.order.InstantiateSuccessorsParameters(t, typesystem.AwaitableName)
	if err == nil && len(instantiation) == 1 {
		return instantiation[0]
	}
	return typesystem.Object{}
}

// classLiteral types a bare or called name: names denoting known
// classes yield the class object (bare) or an instance (called); the
// None literal is special-cased; everything else is object.
func (r Resolution) classLiteral(name *ast.Name, called bool) typesystem.Type {
	if name.Access.Key() == typesystem.NoneName && !called {
		return typesystem.None
	}
	parsed := r.ParseAnnotation(name, false)
	if r.classRepresentation(parsed) == nil {
		return typesystem.Object{}
	}
	if called {
		return parsed
	}
	return typesystem.Meta{Inner: parsed}
}
