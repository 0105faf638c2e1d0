package lattice

import (
	"github.com/siftcheck/sift/internal/typesystem"
)

// LessOrEqual implements the subtyping judgment over the full type
// sum. Top is comparable only with itself and the unknown target; the
// solver owns the Top-versus-Object exception.
func (t *Table) LessOrEqual(left, right typesystem.Type) bool {
	if typesystem.Equal(left, right) {
		return true
	}

	switch left.(type) {
	case typesystem.Bottom:
		return true
	case typesystem.Deleted:
		return false
	}
	if _, ok := right.(typesystem.Top); ok {
		return true
	}
	if _, ok := left.(typesystem.Top); ok {
		return false
	}
	if _, ok := right.(typesystem.Object); ok {
		return true
	}

	if variable, ok := left.(typesystem.Variable); ok {
		return t.LessOrEqual(upperBound(variable), right)
	}
	if _, ok := right.(typesystem.Variable); ok {
		// Binding free variables is the solver's job, not the order's.
		return false
	}

	if union, ok := left.(typesystem.Union); ok {
		for _, member := range union.Members {
			if !t.LessOrEqual(member, right) {
				return false
			}
		}
		return true
	}
	if union, ok := right.(typesystem.Union); ok {
		for _, member := range union.Members {
			if t.LessOrEqual(left, member) {
				return true
			}
		}
		return false
	}

	if optional, ok := right.(typesystem.Optional); ok {
		if typesystem.Equal(left, typesystem.None) {
			return true
		}
		if leftOptional, ok := left.(typesystem.Optional); ok {
			return t.LessOrEqual(leftOptional.Inner, optional.Inner)
		}
		return t.LessOrEqual(left, optional.Inner)
	}
	if _, ok := left.(typesystem.Optional); ok {
		// An optional source needs an optional (or universal) target;
		// those were handled above.
		return false
	}

	if leftTuple, ok := left.(typesystem.Tuple); ok {
		if rightTuple, ok := right.(typesystem.Tuple); ok {
			return t.tupleLessOrEqual(leftTuple, rightTuple)
		}
		return t.LessOrEqual(tupleAsParametric(leftTuple), right)
	}
	if _, ok := right.(typesystem.Tuple); ok {
		return false
	}

	if leftMeta, ok := left.(typesystem.Meta); ok {
		if rightMeta, ok := right.(typesystem.Meta); ok {
			return t.LessOrEqual(leftMeta.Inner, rightMeta.Inner)
		}
		return false
	}

	if leftCallable, ok := left.(typesystem.Callable); ok {
		if rightCallable, ok := right.(typesystem.Callable); ok {
			return t.callableLessOrEqual(leftCallable, rightCallable)
		}
		return false
	}

	leftName, leftParams, ok := nominal(left)
	if !ok {
		return false
	}
	rightName, rightParams, ok := nominal(right)
	if !ok {
		return false
	}

	instantiation, ok := t.supertypeInstantiation(leftName, leftParams, rightName)
	if !ok {
		return false
	}
	if len(rightParams) == 0 {
		return true
	}
	if len(instantiation) != len(rightParams) {
		return false
	}

	variances, _ := t.Variances(rightName)
	for i := range rightParams {
		variance := typesystem.Invariant
		if i < len(variances) {
			variance = variances[i]
		}
		switch variance {
		case typesystem.Covariant:
			if !t.LessOrEqual(instantiation[i], rightParams[i]) {
				return false
			}
		case typesystem.Contravariant:
			if !t.LessOrEqual(rightParams[i], instantiation[i]) {
				return false
			}
		default:
			if !t.LessOrEqual(instantiation[i], rightParams[i]) || !t.LessOrEqual(rightParams[i], instantiation[i]) {
				return false
			}
		}
	}
	return true
}

func (t *Table) tupleLessOrEqual(left, right typesystem.Tuple) bool {
	switch {
	case left.Unbounded && right.Unbounded:
		return t.LessOrEqual(left.Elements[0], right.Elements[0])
	case !left.Unbounded && right.Unbounded:
		for _, element := range left.Elements {
			if !t.LessOrEqual(element, right.Elements[0]) {
				return false
			}
		}
		return true
	case left.Unbounded && !right.Unbounded:
		return false
	default:
		if len(left.Elements) != len(right.Elements) {
			return false
		}
		for i, element := range left.Elements {
			if !t.LessOrEqual(element, right.Elements[i]) {
				return false
			}
		}
		return true
	}
}

// callableLessOrEqual compares callables strictly: same arity,
// contravariant parameters, covariant return. The solver's
// arity-tolerant comparison applies only during inference.
func (t *Table) callableLessOrEqual(left, right typesystem.Callable) bool {
	leftSignature, rightSignature := left.Implementation, right.Implementation
	if len(leftSignature.Parameters) != len(rightSignature.Parameters) {
		return false
	}
	for i, parameter := range leftSignature.Parameters {
		other := rightSignature.Parameters[i]
		if parameter.Annotation == nil || other.Annotation == nil {
			continue
		}
		if !t.LessOrEqual(other.Annotation, parameter.Annotation) {
			return false
		}
	}
	if leftSignature.Returns == nil || rightSignature.Returns == nil {
		return true
	}
	return t.LessOrEqual(leftSignature.Returns, rightSignature.Returns)
}

func upperBound(variable typesystem.Variable) typesystem.Type {
	switch constraint := variable.Constraint.(type) {
	case typesystem.Bound:
		return constraint.Type
	case typesystem.Explicit:
		return typesystem.NewUnion(constraint.Alternatives...)
	default:
		return typesystem.Object{}
	}
}

// Join returns the least common supertype the table can name. Joins of
// unrelated nominal types resolve to the nearest shared ancestor, and
// to Object when nothing closer exists.
func (t *Table) Join(left, right typesystem.Type) typesystem.Type {
	if typesystem.Equal(left, right) {
		return left
	}
	if _, ok := left.(typesystem.Bottom); ok {
		return right
	}
	if _, ok := right.(typesystem.Bottom); ok {
		return left
	}
	if _, ok := left.(typesystem.Top); ok {
		return typesystem.Top{}
	}
	if _, ok := right.(typesystem.Top); ok {
		return typesystem.Top{}
	}
	if t.LessOrEqual(left, right) {
		return right
	}
	if t.LessOrEqual(right, left) {
		return left
	}

	if typesystem.Equal(left, typesystem.None) {
		return typesystem.Optional{Inner: right}
	}
	if typesystem.Equal(right, typesystem.None) {
		return typesystem.Optional{Inner: left}
	}
	if optional, ok := left.(typesystem.Optional); ok {
		return typesystem.Optional{Inner: t.Join(optional.Inner, stripOptional(right))}
	}
	if optional, ok := right.(typesystem.Optional); ok {
		return typesystem.Optional{Inner: t.Join(stripOptional(left), optional.Inner)}
	}

	if _, ok := left.(typesystem.Union); ok {
		return typesystem.NewUnion(left, right)
	}
	if _, ok := right.(typesystem.Union); ok {
		return typesystem.NewUnion(left, right)
	}

	if leftTuple, ok := left.(typesystem.Tuple); ok {
		if rightTuple, ok := right.(typesystem.Tuple); ok {
			if joined, ok := t.joinTuples(leftTuple, rightTuple); ok {
				return joined
			}
		}
		left = tupleAsParametric(leftTuple)
	}
	if rightTuple, ok := right.(typesystem.Tuple); ok {
		right = tupleAsParametric(rightTuple)
	}

	if joined, ok := t.joinNominal(left, right); ok {
		return joined
	}
	return typesystem.Object{}
}

func stripOptional(t typesystem.Type) typesystem.Type {
	if optional, ok := t.(typesystem.Optional); ok {
		return optional.Inner
	}
	return t
}

func (t *Table) joinTuples(left, right typesystem.Tuple) (typesystem.Type, bool) {
	if left.Unbounded != right.Unbounded {
		return nil, false
	}
	if left.Unbounded {
		return typesystem.UnboundedTuple(t.Join(left.Elements[0], right.Elements[0])), true
	}
	if len(left.Elements) != len(right.Elements) {
		return nil, false
	}
	elements := make([]typesystem.Type, len(left.Elements))
	for i, element := range left.Elements {
		elements[i] = t.Join(element, right.Elements[i])
	}
	return typesystem.BoundedTuple(elements...), true
}

func (t *Table) joinNominal(left, right typesystem.Type) (typesystem.Type, bool) {
	leftName, leftParams, ok := nominal(left)
	if !ok {
		return nil, false
	}
	if _, _, ok := nominal(right); !ok {
		return nil, false
	}

	// Same generic: join parameters positionally, respecting variance.
	if rightParametric, ok := right.(typesystem.Parametric); ok {
		if leftParametric, ok := left.(typesystem.Parametric); ok &&
			leftParametric.Name == rightParametric.Name &&
			len(leftParametric.Parameters) == len(rightParametric.Parameters) {
			if joined, ok := t.joinParameters(leftParametric, rightParametric); ok {
				return joined, true
			}
		}
	}

	// Otherwise the nearest ancestor of left that also covers right.
	var joined typesystem.Type
	found := false
	t.ancestry(leftName, leftParams, func(current frame) bool {
		candidate := current.asType()
		if t.LessOrEqual(right, candidate) {
			joined = candidate
			found = true
			return false
		}
		return true
	})
	return joined, found
}

func (t *Table) joinParameters(left, right typesystem.Parametric) (typesystem.Type, bool) {
	variances, _ := t.Variances(left.Name)
	parameters := make([]typesystem.Type, len(left.Parameters))
	for i := range left.Parameters {
		variance := typesystem.Invariant
		if i < len(variances) {
			variance = variances[i]
		}
		switch variance {
		case typesystem.Covariant:
			parameters[i] = t.Join(left.Parameters[i], right.Parameters[i])
		case typesystem.Contravariant:
			parameters[i] = t.Meet(left.Parameters[i], right.Parameters[i])
		default:
			if !typesystem.Equal(left.Parameters[i], right.Parameters[i]) {
				// Invariant positions do not join; fall back to the
				// nominal ancestor walk.
				return nil, false
			}
			parameters[i] = left.Parameters[i]
		}
	}
	return typesystem.Parametric{Name: left.Name, Parameters: parameters}, true
}

// Meet returns the greatest common subtype: one side when the types
// are ordered, Bottom when they are unrelated.
func (t *Table) Meet(left, right typesystem.Type) typesystem.Type {
	if t.LessOrEqual(left, right) {
		return left
	}
	if t.LessOrEqual(right, left) {
		return right
	}
	return typesystem.Bottom{}
}

// Widen joins while the iteration count is low and gives up to the
// unknown type afterwards, guaranteeing fixpoint termination for the
// control-flow driver.
func (t *Table) Widen(previous, next typesystem.Type, iteration int) typesystem.Type {
	if iteration > wideningThreshold {
		return typesystem.Top{}
	}
	return t.Join(previous, next)
}

// Contains reports whether every nominal name in the type is tracked.
func (t *Table) Contains(typ typesystem.Type) bool {
	return !typesystem.Exists(typ, func(element typesystem.Type) bool {
		switch nominalType := element.(type) {
		case typesystem.Primitive:
			return !t.known(nominalType.Name)
		case typesystem.Parametric:
			return !t.known(nominalType.Name)
		}
		return false
	})
}

// Variables returns the free variables of the type.
func (t *Table) Variables(typ typesystem.Type) []typesystem.Variable {
	return typ.FreeVariables()
}

// IsInstantiated reports whether the type contains no free variables.
func (t *Table) IsInstantiated(typ typesystem.Type) bool {
	return typesystem.IsResolved(typ)
}

// Variances returns the declared parameter variances of a generic.
func (t *Table) Variances(name string) ([]typesystem.Variance, bool) {
	declared, ok := t.generics[name]
	if !ok {
		return nil, false
	}
	variances := make([]typesystem.Variance, len(declared.parameters))
	for i, parameter := range declared.parameters {
		variances[i] = parameter.variance
	}
	return variances, true
}

// InstantiateSuccessorsParameters reports how source's ancestry
// instantiates the named generic's parameters.
func (t *Table) InstantiateSuccessorsParameters(source typesystem.Type, target string) ([]typesystem.Type, error) {
	switch typ := source.(type) {
	case typesystem.Primitive:
		if !t.known(typ.Name) {
			return nil, untrackedError(typ.Name)
		}
		instantiation, ok := t.supertypeInstantiation(typ.Name, nil, target)
		if !ok {
			return nil, nil
		}
		return instantiation, nil
	case typesystem.Parametric:
		if !t.known(typ.Name) {
			return nil, untrackedError(typ.Name)
		}
		instantiation, ok := t.supertypeInstantiation(typ.Name, typ.Parameters, target)
		if !ok {
			return nil, nil
		}
		return instantiation, nil
	case typesystem.Tuple:
		return t.InstantiateSuccessorsParameters(tupleAsParametric(typ), target)
	default:
		return nil, nil
	}
}
