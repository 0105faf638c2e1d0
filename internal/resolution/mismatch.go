package resolution

import (
	"github.com/siftcheck/sift/internal/typesystem"
)

// IsInvarianceMismatch reports whether two parametric types fail
// subtyping solely because of a declared-invariant parameter position
// whose arguments would be ordered under covariance. Callers use it to
// produce a better diagnostic; it never affects solving outcomes.
func (r Resolution) IsInvarianceMismatch(left, right typesystem.Type) bool {
	leftParametric, ok := left.(typesystem.Parametric)
	if !ok {
		return false
	}
	rightParametric, ok := right.(typesystem.Parametric)
	if !ok {
		return false
	}
	if leftParametric.Name != rightParametric.Name {
		return false
	}
	if len(leftParametric.Parameters) != len(rightParametric.Parameters) {
		return false
	}

	variances, ok := r.order.Variances(leftParametric.Name)
	if !ok {
		return false
	}
	for i, variance := range variances {
		if i >= len(leftParametric.Parameters) {
			break
		}
		if variance != typesystem.Invariant {
			continue
		}
		if r.order.LessOrEqual(leftParametric.Parameters[i], rightParametric.Parameters[i]) {
			return true
		}
	}
	return false
}
