package lattice

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/siftcheck/sift/internal/typesystem"
)

// rootName is the implicit top of the nominal hierarchy. Every tracked
// name has it as an ancestor; as a type it is rendered as the Object
// variant, never as a primitive.
const rootName = "object"

// Table is an in-memory Order built from a prelude document. It is
// immutable after construction and safe for concurrent use.
type Table struct {
	primitives map[string][]baseTemplate
	generics   map[string]genericDecl
}

type genericDecl struct {
	parameters []parameterDecl
	bases      []baseTemplate
}

type parameterDecl struct {
	name     string
	variance typesystem.Variance
}

// baseTemplate is one declared supertype edge. Arguments are either
// indices into the subtype's own parameters or concrete types.
type baseTemplate struct {
	name string
	args []argTemplate
}

type argTemplate struct {
	param    int // index into the subtype's parameters, -1 for concrete
	concrete typesystem.Type
}

type preludeDocument struct {
	// Primitives lists non-parametric nominal types and their direct
	// supertypes.
	Primitives []primitiveSpec `yaml:"primitives"`
	// Generics lists parametric types with per-parameter variance.
	Generics []genericSpec `yaml:"generics"`
}

type primitiveSpec struct {
	Name  string   `yaml:"name"`
	Bases []string `yaml:"bases,omitempty"`
}

type genericSpec struct {
	Name       string          `yaml:"name"`
	Parameters []parameterSpec `yaml:"parameters"`
	Bases      []string        `yaml:"bases,omitempty"`
}

type parameterSpec struct {
	Name string `yaml:"name"`
	// Variance is "covariant", "contravariant" or "invariant" (the
	// default when omitted).
	Variance string `yaml:"variance,omitempty"`
}

//go:embed prelude.yaml
var defaultPrelude []byte

// NewTable loads a lattice table from a YAML prelude document.
func NewTable(prelude []byte) (*Table, error) {
	var document preludeDocument
	if err := yaml.Unmarshal(prelude, &document); err != nil {
		return nil, fmt.Errorf("parsing lattice prelude: %w", err)
	}

	table := &Table{
		primitives: make(map[string][]baseTemplate, len(document.Primitives)),
		generics:   make(map[string]genericDecl, len(document.Generics)),
	}

	for _, spec := range document.Primitives {
		if spec.Name == "" {
			return nil, fmt.Errorf("lattice prelude: primitive with empty name")
		}
		table.primitives[spec.Name] = nil
	}
	for _, spec := range document.Generics {
		if spec.Name == "" {
			return nil, fmt.Errorf("lattice prelude: generic with empty name")
		}
		if len(spec.Parameters) == 0 {
			return nil, fmt.Errorf("lattice prelude: generic %s has no parameters", spec.Name)
		}
		declared := genericDecl{parameters: make([]parameterDecl, len(spec.Parameters))}
		for i, parameter := range spec.Parameters {
			variance, err := parseVariance(parameter.Variance)
			if err != nil {
				return nil, fmt.Errorf("lattice prelude: generic %s: %w", spec.Name, err)
			}
			declared.parameters[i] = parameterDecl{name: parameter.Name, variance: variance}
		}
		table.generics[spec.Name] = declared
	}

	// Bases resolve in a second pass so declaration order in the
	// document does not matter.
	for _, spec := range document.Primitives {
		bases, err := table.parseBases(spec.Name, spec.Bases, nil)
		if err != nil {
			return nil, err
		}
		table.primitives[spec.Name] = bases
	}
	for _, spec := range document.Generics {
		declared := table.generics[spec.Name]
		bases, err := table.parseBases(spec.Name, spec.Bases, declared.parameters)
		if err != nil {
			return nil, err
		}
		declared.bases = bases
		table.generics[spec.Name] = declared
	}

	return table, nil
}

// DefaultTable returns the builtin-type lattice shipped with the
// checker.
func DefaultTable() *Table {
	table, err := NewTable(defaultPrelude)
	if err != nil {
		panic(fmt.Sprintf("embedded lattice prelude is invalid: %v", err))
	}
	return table
}

func parseVariance(name string) (typesystem.Variance, error) {
	switch name {
	case "", "invariant":
		return typesystem.Invariant, nil
	case "covariant":
		return typesystem.Covariant, nil
	case "contravariant":
		return typesystem.Contravariant, nil
	default:
		return typesystem.Invariant, fmt.Errorf("unknown variance %q", name)
	}
}

func (t *Table) parseBases(child string, bases []string, parameters []parameterDecl) ([]baseTemplate, error) {
	parsed := make([]baseTemplate, 0, len(bases))
	for _, base := range bases {
		name, args := splitBase(base)
		if !t.known(name) {
			return nil, fmt.Errorf("lattice prelude: %s declares unknown base %q", child, name)
		}
		if declared, ok := t.generics[name]; ok && len(args) != len(declared.parameters) {
			return nil, fmt.Errorf("lattice prelude: %s instantiates %s with %d arguments, want %d",
				child, name, len(args), len(declared.parameters))
		}
		template := baseTemplate{name: name}
		for _, arg := range args {
			index := parameterIndex(parameters, arg)
			if index >= 0 {
				template.args = append(template.args, argTemplate{param: index})
				continue
			}
			if !t.known(arg) {
				return nil, fmt.Errorf("lattice prelude: %s base %s references unknown argument %q", child, name, arg)
			}
			template.args = append(template.args, argTemplate{param: -1, concrete: typesystem.Primitive{Name: arg}})
		}
		parsed = append(parsed, template)
	}
	return parsed, nil
}

// splitBase parses "name" or "name[a, b]".
func splitBase(base string) (string, []string) {
	open := strings.IndexByte(base, '[')
	if open < 0 || !strings.HasSuffix(base, "]") {
		return strings.TrimSpace(base), nil
	}
	name := strings.TrimSpace(base[:open])
	inner := base[open+1 : len(base)-1]
	if strings.TrimSpace(inner) == "" {
		return name, nil
	}
	parts := strings.Split(inner, ",")
	args := make([]string, len(parts))
	for i, part := range parts {
		args[i] = strings.TrimSpace(part)
	}
	return name, args
}

func parameterIndex(parameters []parameterDecl, name string) int {
	for i, parameter := range parameters {
		if parameter.name == name {
			return i
		}
	}
	return -1
}

func (t *Table) known(name string) bool {
	if name == rootName {
		return true
	}
	if _, ok := t.primitives[name]; ok {
		return true
	}
	_, ok := t.generics[name]
	return ok
}

func (t *Table) basesOf(name string) []baseTemplate {
	if name == rootName {
		return nil
	}
	if bases, ok := t.primitives[name]; ok {
		if len(bases) == 0 {
			return []baseTemplate{{name: rootName}}
		}
		return bases
	}
	if declared, ok := t.generics[name]; ok {
		if len(declared.bases) == 0 {
			return []baseTemplate{{name: rootName}}
		}
		return declared.bases
	}
	return nil
}

type frame struct {
	name   string
	params []typesystem.Type
}

func (f frame) key() string {
	parts := make([]string, 0, len(f.params)+1)
	parts = append(parts, f.name)
	for _, param := range f.params {
		parts = append(parts, param.String())
	}
	return strings.Join(parts, "|")
}

func (f frame) instantiate(template baseTemplate) (frame, bool) {
	base := frame{name: template.name}
	for _, arg := range template.args {
		if arg.param < 0 {
			base.params = append(base.params, arg.concrete)
			continue
		}
		if arg.param >= len(f.params) {
			return frame{}, false
		}
		base.params = append(base.params, f.params[arg.param])
	}
	return base, true
}

// ancestry walks the supertype graph breadth-first from the given
// nominal type, yielding each reachable frame (the type itself first,
// the implicit root last). If visit returns false the walk stops.
func (t *Table) ancestry(name string, params []typesystem.Type, visit func(frame) bool) {
	start := frame{name: name, params: params}
	queue := []frame{start}
	visited := map[string]bool{start.key(): true}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if !visit(current) {
			return
		}
		for _, template := range t.basesOf(current.name) {
			base, ok := current.instantiate(template)
			if !ok {
				continue
			}
			if visited[base.key()] {
				continue
			}
			visited[base.key()] = true
			queue = append(queue, base)
		}
	}
}

// supertypeInstantiation reports the parameters with which target
// appears in the ancestry of the given nominal type.
func (t *Table) supertypeInstantiation(name string, params []typesystem.Type, target string) ([]typesystem.Type, bool) {
	var instantiation []typesystem.Type
	found := false
	t.ancestry(name, params, func(current frame) bool {
		if current.name == target {
			instantiation = current.params
			found = true
			return false
		}
		return true
	})
	return instantiation, found
}

func (f frame) asType() typesystem.Type {
	if f.name == rootName {
		return typesystem.Object{}
	}
	if len(f.params) == 0 {
		return typesystem.Primitive{Name: f.name}
	}
	return typesystem.Parametric{Name: f.name, Parameters: f.params}
}

// nominal extracts the (name, parameters) view of a type, when it has
// one.
func nominal(t typesystem.Type) (string, []typesystem.Type, bool) {
	switch typ := t.(type) {
	case typesystem.Primitive:
		return typ.Name, nil, true
	case typesystem.Parametric:
		return typ.Name, typ.Parameters, true
	case typesystem.Object:
		return rootName, nil, true
	}
	return "", nil, false
}

// tupleAsParametric views a tuple as the tuple generic: bounded tuples
// collapse their elements to a union.
func tupleAsParametric(t typesystem.Tuple) typesystem.Parametric {
	var element typesystem.Type
	if t.Unbounded {
		element = t.Elements[0]
	} else {
		element = typesystem.NewUnion(t.Elements...)
	}
	return typesystem.Parametric{Name: typesystem.TupleName, Parameters: []typesystem.Type{element}}
}
