package typesystem

// Canonical names of the source language's builtin types. The lattice
// prelude, the annotation parser and the literal inferencer all agree
// on these.
const (
	BooleanName    = "bool"
	IntegerName    = "int"
	FloatName      = "float"
	ComplexName    = "complex"
	StringName     = "str"
	BytesName      = "bytes"
	NoneName       = "None"
	ListName       = "list"
	SetName        = "set"
	DictionaryName = "dict"
	TupleName      = "tuple"
	AwaitableName  = "awaitable"
	IterableName   = "iterable"
)

// Builtin primitive values, for convenience at call sites.
var (
	Boolean = Primitive{Name: BooleanName}
	Integer = Primitive{Name: IntegerName}
	Float   = Primitive{Name: FloatName}
	Complex = Primitive{Name: ComplexName}
	String  = Primitive{Name: StringName}
	Bytes   = Primitive{Name: BytesName}
	None    = Primitive{Name: NoneName}
)

// List builds the one-parameter list container type.
func List(element Type) Parametric {
	return Parametric{Name: ListName, Parameters: []Type{element}}
}

// SetOf builds the one-parameter set container type.
func SetOf(element Type) Parametric {
	return Parametric{Name: SetName, Parameters: []Type{element}}
}

// Dictionary builds the two-parameter mapping type.
func Dictionary(key, value Type) Parametric {
	return Parametric{Name: DictionaryName, Parameters: []Type{key, value}}
}

// Awaitable builds the awaitable wrapper type.
func Awaitable(value Type) Parametric {
	return Parametric{Name: AwaitableName, Parameters: []Type{value}}
}
