// Package access implements qualified names. An Access is an ordered
// sequence of identifiers (e.g. module.Class.method) used as the unique
// key for locals, globals, modules and classes throughout the checker.
package access

import "strings"

// localMarkerPrefix marks identifiers synthesized for local scopes.
// An identifier of the form "$local_a?b$x" denotes the name x declared
// inside the scope a.b; Delocalize recovers the global form a.b.x.
const localMarkerPrefix = "$local_"

const localQualifierSeparator = "?"

// Access is a qualified name. The zero value is the empty name.
type Access struct {
	identifiers []string
}

// New builds an Access from identifiers in order.
func New(identifiers ...string) Access {
	return Access{identifiers: identifiers}
}

// Parse splits a dotted name into an Access. Local-scope markers are
// kept verbatim; use Delocalize to strip them.
func Parse(dotted string) Access {
	if dotted == "" {
		return Access{}
	}
	return Access{identifiers: strings.Split(dotted, ".")}
}

// Local synthesizes the local-scope form of name inside qualifier,
// e.g. Local(Parse("a.b"), "x") yields the single-identifier access
// "$local_a?b$x".
func Local(qualifier Access, name string) Access {
	marker := localMarkerPrefix + strings.Join(qualifier.identifiers, localQualifierSeparator) + "$" + name
	return Access{identifiers: []string{marker}}
}

// Identifiers returns the identifier sequence. Callers must not mutate
// the returned slice.
func (a Access) Identifiers() []string { return a.identifiers }

// Len returns the number of identifiers.
func (a Access) Len() int { return len(a.identifiers) }

// IsEmpty reports whether the access has no identifiers.
func (a Access) IsEmpty() bool { return len(a.identifiers) == 0 }

// Key returns the canonical dotted form, usable as a map key.
// Two accesses are equal iff their keys are equal.
func (a Access) Key() string { return strings.Join(a.identifiers, ".") }

func (a Access) String() string { return a.Key() }

// Equal reports structural equality of the identifier sequences.
func (a Access) Equal(b Access) bool {
	if len(a.identifiers) != len(b.identifiers) {
		return false
	}
	for i, id := range a.identifiers {
		if b.identifiers[i] != id {
			return false
		}
	}
	return true
}

// Append returns a new access with extra identifiers appended.
func (a Access) Append(identifiers ...string) Access {
	combined := make([]string, 0, len(a.identifiers)+len(identifiers))
	combined = append(combined, a.identifiers...)
	combined = append(combined, identifiers...)
	return Access{identifiers: combined}
}

// Prefix returns the access made of the first n identifiers.
func (a Access) Prefix(n int) Access {
	if n > len(a.identifiers) {
		n = len(a.identifiers)
	}
	return Access{identifiers: a.identifiers[:n]}
}

// Suffix returns the access made of the identifiers after the first n.
func (a Access) Suffix(n int) Access {
	if n > len(a.identifiers) {
		return Access{}
	}
	return Access{identifiers: a.identifiers[n:]}
}

// IsLocal reports whether any identifier carries the synthetic
// local-scope marker.
func (a Access) IsLocal() bool {
	for _, id := range a.identifiers {
		if strings.HasPrefix(id, localMarkerPrefix) {
			return true
		}
	}
	return false
}

// Delocalize strips synthetic local-scope markers, recovering the name
// a global table would use: "$local_a?b$x".y becomes a.b.x.y. Accesses
// without markers are returned unchanged.
func (a Access) Delocalize() Access {
	if !a.IsLocal() {
		return a
	}
	delocalized := make([]string, 0, len(a.identifiers))
	for _, id := range a.identifiers {
		if !strings.HasPrefix(id, localMarkerPrefix) {
			delocalized = append(delocalized, id)
			continue
		}
		rest := id[len(localMarkerPrefix):]
		qualifier, name, found := strings.Cut(rest, "$")
		if !found {
			// Malformed marker, keep it verbatim rather than drop the name.
			delocalized = append(delocalized, id)
			continue
		}
		if qualifier != "" {
			delocalized = append(delocalized, strings.Split(qualifier, localQualifierSeparator)...)
		}
		delocalized = append(delocalized, name)
	}
	return Access{identifiers: delocalized}
}

// DelocalizeQualified rewrites every local marker in a dotted string,
// for annotation expressions that mention synthetic names textually.
func DelocalizeQualified(dotted string) string {
	if !strings.Contains(dotted, localMarkerPrefix) {
		return dotted
	}
	return Parse(dotted).Delocalize().Key()
}
