package typesystem

import (
	"sort"
	"strings"

	"github.com/benbjohnson/immutable"
)

var emptyBindings = immutable.NewSortedMap(nil)

// Substitution is the persistent mapping from variable identities to
// the single type currently inferred for each. Every mutator returns a
// new value sharing structure with the old one; partial solves along
// rejected branches therefore leave no trace. The zero value is the
// empty substitution.
type Substitution struct {
	bindings *immutable.SortedMap
}

type binding struct {
	variable Variable
	bound    Type
}

// NewSubstitution returns an empty substitution.
func NewSubstitution() Substitution {
	return Substitution{bindings: emptyBindings}
}

func (s Substitution) resolved() *immutable.SortedMap {
	if s.bindings == nil {
		return emptyBindings
	}
	return s.bindings
}

// Len returns the number of bound variables.
func (s Substitution) Len() int { return s.resolved().Len() }

// Get returns the type bound to the variable, if any.
func (s Substitution) Get(variable Variable) (Type, bool) {
	value, ok := s.resolved().Get(variable.Identity())
	if !ok {
		return nil, false
	}
	return value.(binding).bound, true
}

// Set returns a new substitution with the variable bound to the type.
// The receiver is unchanged.
func (s Substitution) Set(variable Variable, bound Type) Substitution {
	return Substitution{bindings: s.resolved().Set(variable.Identity(), binding{variable: variable, bound: bound})}
}

// ApplyTo substitutes every bound variable occurring in the type.
func (s Substitution) ApplyTo(t Type) Type {
	if t == nil || s.Len() == 0 {
		return t
	}
	return t.Apply(s)
}

// Range iterates over bindings in identity order. Iteration stops when
// f returns false.
func (s Substitution) Range(f func(Variable, Type) bool) {
	iterator := s.resolved().Iterator()
	for !iterator.Done() {
		_, value := iterator.Next()
		entry := value.(binding)
		if !f(entry.variable, entry.bound) {
			return
		}
	}
}

func (s Substitution) String() string {
	var parts []string
	s.Range(func(variable Variable, bound Type) bool {
		parts = append(parts, variable.Name+" -> "+bound.String())
		return true
	})
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}
