// Package ast defines the expression shapes the checker core inspects:
// literal forms for structural inference and name/subscript forms for
// annotations. Statements, control flow and source positions belong to
// the surrounding driver, not to this core.
package ast

import "github.com/siftcheck/sift/internal/access"

// Expression is the base interface for all expression nodes.
type Expression interface {
	expressionNode()
}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
}

func (*BooleanLiteral) expressionNode() {}

// IntegerLiteral is a whole-number literal.
type IntegerLiteral struct {
	Value int64
}

func (*IntegerLiteral) expressionNode() {}

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	Value float64
}

func (*FloatLiteral) expressionNode() {}

// ComplexLiteral is a complex-number literal.
type ComplexLiteral struct {
	Value complex128
}

func (*ComplexLiteral) expressionNode() {}

// StringLiteral is a text literal.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) expressionNode() {}

// BytesLiteral is a byte-string literal.
type BytesLiteral struct {
	Value []byte
}

func (*BytesLiteral) expressionNode() {}

// Name references a possibly-qualified name.
type Name struct {
	Access access.Access
}

func (*Name) expressionNode() {}

// Call applies a callee to arguments. The core only inspects the
// callee shape; argument checking is the caller's concern.
type Call struct {
	Callee    Expression
	Arguments []Expression
}

func (*Call) expressionNode() {}

// Await waits on an awaitable value.
type Await struct {
	Value Expression
}

func (*Await) expressionNode() {}

// BooleanOperator is "left and right" or "left or right". The operator
// itself does not affect typing; both branches contribute.
type BooleanOperator struct {
	Left  Expression
	Right Expression
}

func (*BooleanOperator) expressionNode() {}

// Conditional is "body if test else orelse".
type Conditional struct {
	Body   Expression
	Test   Expression
	OrElse Expression
}

func (*Conditional) expressionNode() {}

// List is a list display.
type List struct {
	Elements []Expression
}

func (*List) expressionNode() {}

// Set is a set display.
type Set struct {
	Elements []Expression
}

func (*Set) expressionNode() {}

// DictEntry is one entry of a dictionary display. A nil Key marks a
// keyword-splat entry (**mapping).
type DictEntry struct {
	Key   Expression
	Value Expression
}

// Dict is a dictionary display.
type Dict struct {
	Entries []DictEntry
}

func (*Dict) expressionNode() {}

// HasSplat reports whether any entry is a keyword splat.
func (d *Dict) HasSplat() bool {
	for _, entry := range d.Entries {
		if entry.Key == nil {
			return true
		}
	}
	return false
}

// TupleExpr is a tuple display.
type TupleExpr struct {
	Elements []Expression
}

func (*TupleExpr) expressionNode() {}

// ComprehensionKind distinguishes the container a comprehension builds.
type ComprehensionKind int

const (
	ListComprehension ComprehensionKind = iota
	SetComprehension
	DictComprehension
	GeneratorComprehension
)

// Comprehension is a container comprehension. Only its container kind
// matters to this core; the element expression and generators are
// resolved by the injected general resolver.
type Comprehension struct {
	Kind    ComprehensionKind
	Element Expression
	Value   Expression // value expression for dict comprehensions
}

func (*Comprehension) expressionNode() {}

// Subscript is an indexing form, e.g. list[int] in annotations.
type Subscript struct {
	Value   Expression
	Indices []Expression
}

func (*Subscript) expressionNode() {}

// EllipsisLiteral is the "..." form used inside tuple and callable
// annotations.
type EllipsisLiteral struct{}

func (*EllipsisLiteral) expressionNode() {}
