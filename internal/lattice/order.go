// Package lattice provides the subtyping oracle the checker core
// consults: the Order interface and a table-driven implementation
// loaded from a YAML prelude describing the primitive hierarchy and
// the declared generics with their parameter variances.
package lattice

import (
	"errors"
	"fmt"

	"github.com/siftcheck/sift/internal/typesystem"
)

// ErrUntracked signals that a nominal type queried during an ancestry
// walk is unknown to the lattice. The constraint solver folds it into
// overall failure at its public boundary; nothing else should observe
// it.
var ErrUntracked = errors.New("type not tracked by the lattice")

// Order is the subtyping oracle over nominal and structural types. All
// methods are pure; implementations must be safe for concurrent reads.
type Order interface {
	// LessOrEqual reports whether left is usable where right is
	// expected, without generic inference.
	LessOrEqual(left, right typesystem.Type) bool
	// Join returns the least common supertype of the two types.
	Join(left, right typesystem.Type) typesystem.Type
	// Meet returns the greatest common subtype of the two types.
	Meet(left, right typesystem.Type) typesystem.Type
	// Widen accelerates fixpoint iteration: past the widening
	// threshold it jumps to the unknown type instead of joining.
	Widen(previous, next typesystem.Type, iteration int) typesystem.Type
	// Contains reports whether every nominal name inside the type is
	// tracked.
	Contains(t typesystem.Type) bool
	// Variables returns the free variables of the type.
	Variables(t typesystem.Type) []typesystem.Variable
	// IsInstantiated reports whether the type contains no free
	// variables.
	IsInstantiated(t typesystem.Type) bool
	// Variances returns the declared parameter variances of a generic.
	Variances(name string) ([]typesystem.Variance, bool)
	// InstantiateSuccessorsParameters reports how source's ancestry
	// instantiates the parameters of the named generic. It returns
	// (nil, nil) when the generic is not an ancestor of source, and
	// ErrUntracked when source mentions a name the lattice does not
	// know.
	InstantiateSuccessorsParameters(source typesystem.Type, target string) ([]typesystem.Type, error)
}

// wideningThreshold is the iteration count past which Widen gives up
// on joining and returns the unknown type.
const wideningThreshold = 3

func untrackedError(name string) error {
	return fmt.Errorf("%w: %s", ErrUntracked, name)
}
