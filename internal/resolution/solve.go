package resolution

import (
	"errors"

	"github.com/siftcheck/sift/internal/typesystem"
)

// errUnsatisfiable marks an ordinary solving failure: the branch under
// consideration admits no solution. It is recoverable inside
// union-target alternatives, unlike lattice.ErrUntracked which aborts
// the whole query.
var errUnsatisfiable = errors.New("constraints are unsatisfiable")

// SolveConstraints checks whether a value of the source type can be
// used where the target type is expected and, when the target contains
// free variables, what they must be bound to. It returns the extended
// substitution, or false when no consistent binding exists. The
// incoming substitution is never mutated.
func (r Resolution) SolveConstraints(constraints typesystem.Substitution, source, target typesystem.Type) (typesystem.Substitution, bool) {
	solved, err := r.solve(constraints, source, target)
	if err != nil {
		// Untracked-name signals from ancestry queries fold into
		// failure here and are never observable past this boundary.
		return typesystem.Substitution{}, false
	}
	return solved, true
}

// ConstraintsSolutionExists reports whether any binding of free
// variables makes source usable as target.
func (r Resolution) ConstraintsSolutionExists(source, target typesystem.Type) bool {
	_, ok := r.SolveConstraints(typesystem.NewSubstitution(), source, target)
	return ok
}

func (r Resolution) solve(constraints typesystem.Substitution, source, target typesystem.Type) (typesystem.Substitution, error) {
	// A class object checked against a callable is rewritten to the
	// type its constructor returns: "is this class callable like
	// this" becomes "is a constructed instance compatible".
	if meta, ok := source.(typesystem.Meta); ok {
		if _, ok := target.(typesystem.Callable); ok {
			source = r.Constructor(meta.Inner, r.classDefinition(meta.Inner))
		}
	}

	// A local unassigned on some branch is compatible with anything.
	if _, ok := source.(typesystem.Bottom); ok {
		return constraints, nil
	}

	// A union source is a conjunction of obligations: every member
	// must solve against the target under the same evolving
	// substitution.
	if union, ok := source.(typesystem.Union); ok {
		var err error
		for _, member := range union.Members {
			constraints, err = r.solve(constraints, member, target)
			if err != nil {
				return typesystem.Substitution{}, err
			}
		}
		return constraints, nil
	}

	// A fully resolved target needs no inference; the lattice decides.
	if r.order.IsInstantiated(target) {
		if _, ok := source.(typesystem.Top); ok {
			if _, ok := target.(typesystem.Object); ok {
				return constraints, nil
			}
		}
		if r.order.LessOrEqual(source, target) {
			return constraints, nil
		}
		return typesystem.Substitution{}, errUnsatisfiable
	}

	switch target := target.(type) {
	case typesystem.Variable:
		return r.solveAgainstVariable(constraints, source, target)

	case typesystem.Parametric:
		return r.solveAgainstParametric(constraints, source, target)

	case typesystem.Optional:
		if optionalSource, ok := source.(typesystem.Optional); ok {
			return r.solve(constraints, optionalSource.Inner, target.Inner)
		}
		return r.solve(constraints, source, target.Inner)

	case typesystem.Tuple:
		if tupleSource, ok := source.(typesystem.Tuple); ok {
			return r.solveTuples(constraints, tupleSource, target)
		}
		return typesystem.Substitution{}, errUnsatisfiable

	case typesystem.Union:
		// First successful alternative wins; later members are never
		// explored once one fits. Untracked-name signals still abort.
		for _, member := range target.Members {
			solved, err := r.solve(constraints, source, member)
			if err == nil {
				return solved, nil
			}
			if !errors.Is(err, errUnsatisfiable) {
				return typesystem.Substitution{}, err
			}
		}
		return typesystem.Substitution{}, errUnsatisfiable

	case typesystem.Callable:
		if callableSource, ok := source.(typesystem.Callable); ok {
			return r.solveCallables(constraints, callableSource, target)
		}
		return typesystem.Substitution{}, errUnsatisfiable
	}

	return typesystem.Substitution{}, errUnsatisfiable
}

// solveAgainstVariable folds the source into the variable's binding
// and validates the result against the variable's own constraint kind.
func (r Resolution) solveAgainstVariable(constraints typesystem.Substitution, source typesystem.Type, variable typesystem.Variable) (typesystem.Substitution, error) {
	joined := source
	if existing, ok := constraints.Get(variable); ok {
		joined = r.trueJoin(existing, source)
	}

	switch constraint := variable.Constraint.(type) {
	case typesystem.Bound:
		if !r.order.LessOrEqual(joined, constraint.Type) {
			return typesystem.Substitution{}, errUnsatisfiable
		}
		return constraints.Set(variable, joined), nil

	case typesystem.Explicit:
		accepted, err := r.acceptExplicit(joined, constraint.Alternatives)
		if err != nil {
			return typesystem.Substitution{}, err
		}
		return constraints.Set(variable, accepted), nil

	default:
		return constraints.Set(variable, joined), nil
	}
}

// acceptExplicit validates a candidate binding against an explicit
// alternative list. Concrete candidates bind to the first alternative
// that is a supertype, not to the candidate itself.
func (r Resolution) acceptExplicit(joined typesystem.Type, alternatives []typesystem.Type) (typesystem.Type, error) {
	if variable, ok := joined.(typesystem.Variable); ok {
		switch constraint := variable.Constraint.(type) {
		case typesystem.Explicit:
			// Every alternative of the candidate variable must appear
			// in the target's list.
			for _, alternative := range constraint.Alternatives {
				if !containsType(alternatives, alternative) {
					return nil, errUnsatisfiable
				}
			}
			return joined, nil
		case typesystem.Bound:
			return r.firstSupertype(constraint.Type, alternatives)
		default:
			return nil, errUnsatisfiable
		}
	}
	return r.firstSupertype(joined, alternatives)
}

func (r Resolution) firstSupertype(candidate typesystem.Type, alternatives []typesystem.Type) (typesystem.Type, error) {
	for _, alternative := range alternatives {
		if r.order.LessOrEqual(candidate, alternative) {
			return alternative, nil
		}
	}
	return nil, errUnsatisfiable
}

func containsType(haystack []typesystem.Type, needle typesystem.Type) bool {
	for _, candidate := range haystack {
		if typesystem.Equal(candidate, needle) {
			return true
		}
	}
	return false
}

// trueJoin joins two inferred bindings, preferring the plain union
// whenever the lattice join is not itself below it. This guards
// against an over-eager join collapsing an incompatible pair into a
// too-permissive common ancestor.
func (r Resolution) trueJoin(left, right typesystem.Type) typesystem.Type {
	union := typesystem.NewUnion(left, right)
	joined := r.order.Join(left, right)
	if r.order.LessOrEqual(joined, union) {
		return joined
	}
	return union
}

// solveAgainstParametric asks the lattice how the source's ancestry
// instantiates the target generic, solves the parameter pairs, then
// re-validates the instantiated target as a whole: per-parameter
// solving alone is not variance-correct when parameters interact.
func (r Resolution) solveAgainstParametric(constraints typesystem.Substitution, source typesystem.Type, target typesystem.Parametric) (typesystem.Substitution, error) {
	instantiation, err := r.order.InstantiateSuccessorsParameters(source, target.Name)
	if err != nil {
		return typesystem.Substitution{}, err
	}
	if instantiation == nil {
		return typesystem.Substitution{}, errUnsatisfiable
	}
	if len(instantiation) != len(target.Parameters) {
		return typesystem.Substitution{}, errUnsatisfiable
	}

	for i, parameter := range instantiation {
		constraints, err = r.solve(constraints, parameter, target.Parameters[i])
		if err != nil {
			return typesystem.Substitution{}, err
		}
	}

	if !r.order.LessOrEqual(source, target.Apply(constraints)) {
		return typesystem.Substitution{}, errUnsatisfiable
	}
	return constraints, nil
}

func (r Resolution) solveTuples(constraints typesystem.Substitution, source, target typesystem.Tuple) (typesystem.Substitution, error) {
	switch {
	case source.Unbounded && target.Unbounded:
		return r.solve(constraints, source.Elements[0], target.Elements[0])

	case source.Unbounded && !target.Unbounded:
		// Replicate the element to the target's arity.
		var err error
		for _, targetElement := range target.Elements {
			constraints, err = r.solve(constraints, source.Elements[0], targetElement)
			if err != nil {
				return typesystem.Substitution{}, err
			}
		}
		return constraints, nil

	case !source.Unbounded && target.Unbounded:
		// Collapse the fixed elements and solve as a scalar pair.
		return r.solve(constraints, typesystem.NewUnion(source.Elements...), target.Elements[0])

	default:
		if len(source.Elements) != len(target.Elements) {
			return typesystem.Substitution{}, errUnsatisfiable
		}
		var err error
		for i, sourceElement := range source.Elements {
			constraints, err = r.solve(constraints, sourceElement, target.Elements[i])
			if err != nil {
				return typesystem.Substitution{}, err
			}
		}
		return constraints, nil
	}
}

// solveCallables solves the return pair first, then the positional
// parameter annotations. Arity differences alone never fail; only an
// annotation incompatibility at a shared position does.
func (r Resolution) solveCallables(constraints typesystem.Substitution, source, target typesystem.Callable) (typesystem.Substitution, error) {
	sourceSignature, targetSignature := source.Implementation, target.Implementation

	var err error
	if sourceSignature.Returns != nil && targetSignature.Returns != nil {
		constraints, err = r.solve(constraints, sourceSignature.Returns, targetSignature.Returns)
		if err != nil {
			return typesystem.Substitution{}, err
		}
	}

	shared := len(sourceSignature.Parameters)
	if len(targetSignature.Parameters) < shared {
		shared = len(targetSignature.Parameters)
	}
	for i := 0; i < shared; i++ {
		sourceAnnotation := sourceSignature.Parameters[i].Annotation
		targetAnnotation := targetSignature.Parameters[i].Annotation
		if sourceAnnotation == nil || targetAnnotation == nil {
			continue
		}
		constraints, err = r.solve(constraints, sourceAnnotation, targetAnnotation)
		if err != nil {
			return typesystem.Substitution{}, err
		}
	}
	return constraints, nil
}
