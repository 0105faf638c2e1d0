package resolution

import (
	"testing"

	"github.com/siftcheck/sift/internal/access"
	"github.com/siftcheck/sift/internal/ast"
	"github.com/siftcheck/sift/internal/symbols"
	"github.com/siftcheck/sift/internal/typesystem"
)

func TestResolveLiteral(t *testing.T) {
	table := symbols.NewTable()
	table.AddClass(typesystem.IntegerName, &symbols.Class{})
	env := testEnvironment(table)

	tests := []struct {
		name       string
		expression ast.Expression
		want       typesystem.Type
	}{
		{
			name:       "boolean",
			expression: &ast.BooleanLiteral{Value: true},
			want:       typesystem.Boolean,
		},
		{
			name:       "integer",
			expression: &ast.IntegerLiteral{Value: 42},
			want:       typesystem.Integer,
		},
		{
			name:       "float",
			expression: &ast.FloatLiteral{Value: 1.5},
			want:       typesystem.Float,
		},
		{
			name:       "string",
			expression: &ast.StringLiteral{Value: "hi"},
			want:       typesystem.String,
		},
		{
			name:       "bytes",
			expression: &ast.BytesLiteral{Value: []byte("hi")},
			want:       typesystem.Bytes,
		},
		{
			name: "homogeneous list",
			expression: &ast.List{Elements: []ast.Expression{
				&ast.IntegerLiteral{Value: 1},
				&ast.IntegerLiteral{Value: 2},
				&ast.IntegerLiteral{Value: 3},
			}},
			want: typesystem.List(typesystem.Integer),
		},
		{
			name: "numeric list joins upward",
			expression: &ast.List{Elements: []ast.Expression{
				&ast.IntegerLiteral{Value: 1},
				&ast.FloatLiteral{Value: 1.5},
			}},
			want: typesystem.List(typesystem.Float),
		},
		{
			name: "unrelated list elements join to object",
			expression: &ast.List{Elements: []ast.Expression{
				&ast.IntegerLiteral{Value: 1},
				&ast.StringLiteral{Value: "a"},
			}},
			want: typesystem.List(typesystem.Object{}),
		},
		{
			name:       "empty list",
			expression: &ast.List{},
			want:       typesystem.Object{},
		},
		{
			name: "set",
			expression: &ast.Set{Elements: []ast.Expression{
				&ast.IntegerLiteral{Value: 1},
			}},
			want: typesystem.SetOf(typesystem.Integer),
		},
		{
			name: "dictionary",
			expression: &ast.Dict{Entries: []ast.DictEntry{
				{Key: &ast.StringLiteral{Value: "a"}, Value: &ast.IntegerLiteral{Value: 1}},
				{Key: &ast.StringLiteral{Value: "b"}, Value: &ast.IntegerLiteral{Value: 2}},
			}},
			want: typesystem.Dictionary(typesystem.String, typesystem.Integer),
		},
		{
			name: "dictionary with splat",
			expression: &ast.Dict{Entries: []ast.DictEntry{
				{Key: &ast.StringLiteral{Value: "a"}, Value: &ast.IntegerLiteral{Value: 1}},
				{Key: nil, Value: &ast.Name{Access: access.New("extra")}},
			}},
			want: typesystem.Object{},
		},
		{
			name:       "empty dictionary",
			expression: &ast.Dict{},
			want:       typesystem.Object{},
		},
		{
			name: "tuple keeps positions",
			expression: &ast.TupleExpr{Elements: []ast.Expression{
				&ast.IntegerLiteral{Value: 1},
				&ast.StringLiteral{Value: "a"},
			}},
			want: typesystem.BoundedTuple(typesystem.Integer, typesystem.String),
		},
		{
			name: "boolean operator joins branches",
			expression: &ast.BooleanOperator{
				Left:  &ast.IntegerLiteral{Value: 0},
				Right: &ast.IntegerLiteral{Value: 1},
			},
			want: typesystem.Integer,
		},
		{
			name: "conditional with unrelated branches",
			expression: &ast.Conditional{
				Body:   &ast.IntegerLiteral{Value: 1},
				Test:   &ast.BooleanLiteral{Value: true},
				OrElse: &ast.StringLiteral{Value: "a"},
			},
			want: typesystem.Object{},
		},
		{
			name:       "bare none",
			expression: &ast.Name{Access: access.New("None")},
			want:       typesystem.None,
		},
		{
			name:       "bare known class yields class object",
			expression: &ast.Name{Access: access.New("int")},
			want:       typesystem.Meta{Inner: typesystem.Integer},
		},
		{
			name: "called known class yields instance",
			expression: &ast.Call{
				Callee:    &ast.Name{Access: access.New("int")},
				Arguments: []ast.Expression{&ast.StringLiteral{Value: "3"}},
			},
			want: typesystem.Integer,
		},
		{
			name:       "unknown name",
			expression: &ast.Name{Access: access.New("something")},
			want:       typesystem.Object{},
		},
		{
			name:       "awaiting a non awaitable",
			expression: &ast.Await{Value: &ast.IntegerLiteral{Value: 1}},
			want:       typesystem.Object{},
		},
		{
			name:       "unrecognized form",
			expression: &ast.EllipsisLiteral{},
			want:       typesystem.Object{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := env.ResolveLiteral(test.expression)
			if !typesystem.Equal(got, test.want) {
				t.Fatalf("ResolveLiteral = %v, want %v", got, test.want)
			}
		})
	}
}

func TestResolveMutableLiterals(t *testing.T) {
	env := testEnvironment(nil)
	listLiteral := &ast.List{Elements: []ast.Expression{&ast.IntegerLiteral{Value: 1}}}

	tests := []struct {
		name       string
		expression ast.Expression
		resolved   typesystem.Type
		expected   typesystem.Type
		want       typesystem.Type
	}{
		{
			name:       "list literal widens to expected",
			expression: listLiteral,
			resolved:   typesystem.List(typesystem.Integer),
			expected:   typesystem.List(typesystem.Float),
			want:       typesystem.List(typesystem.Float),
		},
		{
			name:       "incompatible parameter keeps resolved",
			expression: listLiteral,
			resolved:   typesystem.List(typesystem.String),
			expected:   typesystem.List(typesystem.Float),
			want:       typesystem.List(typesystem.String),
		},
		{
			name:       "non literal expression keeps resolved",
			expression: &ast.Name{Access: access.New("xs")},
			resolved:   typesystem.List(typesystem.Integer),
			expected:   typesystem.List(typesystem.Float),
			want:       typesystem.List(typesystem.Integer),
		},
		{
			name:       "container kinds must match",
			expression: listLiteral,
			resolved:   typesystem.List(typesystem.Integer),
			expected:   typesystem.SetOf(typesystem.Integer),
			want:       typesystem.List(typesystem.Integer),
		},
		{
			name:       "comprehension widens too",
			expression: &ast.Comprehension{Kind: ast.SetComprehension, Element: &ast.IntegerLiteral{Value: 1}},
			resolved:   typesystem.SetOf(typesystem.Integer),
			expected:   typesystem.SetOf(typesystem.Complex),
			want:       typesystem.SetOf(typesystem.Complex),
		},
		{
			name:       "generator comprehension keeps resolved",
			expression: &ast.Comprehension{Kind: ast.GeneratorComprehension, Element: &ast.IntegerLiteral{Value: 1}},
			resolved:   typesystem.SetOf(typesystem.Integer),
			expected:   typesystem.SetOf(typesystem.Complex),
			want:       typesystem.SetOf(typesystem.Integer),
		},
		{
			name:       "dictionary widens both parameters",
			expression: &ast.Dict{Entries: []ast.DictEntry{{Key: &ast.IntegerLiteral{Value: 1}, Value: &ast.IntegerLiteral{Value: 2}}}},
			resolved:   typesystem.Dictionary(typesystem.Integer, typesystem.Integer),
			expected:   typesystem.Dictionary(typesystem.Float, typesystem.Complex),
			want:       typesystem.Dictionary(typesystem.Float, typesystem.Complex),
		},
		{
			name:       "non mutable container kind keeps resolved",
			expression: listLiteral,
			resolved:   typesystem.Parametric{Name: typesystem.IterableName, Parameters: []typesystem.Type{typesystem.Integer}},
			expected:   typesystem.Parametric{Name: typesystem.IterableName, Parameters: []typesystem.Type{typesystem.Float}},
			want:       typesystem.Parametric{Name: typesystem.IterableName, Parameters: []typesystem.Type{typesystem.Integer}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := env.ResolveMutableLiterals(test.expression, test.resolved, test.expected)
			if !typesystem.Equal(got, test.want) {
				t.Fatalf("ResolveMutableLiterals = %v, want %v", got, test.want)
			}
		})
	}
}

func TestIsInvarianceMismatch(t *testing.T) {
	env := testEnvironment(nil)

	tests := []struct {
		name        string
		left, right typesystem.Type
		want        bool
	}{
		{
			name:  "invariant parameter ordered under covariance",
			left:  typesystem.List(typesystem.Integer),
			right: typesystem.List(typesystem.Object{}),
			want:  true,
		},
		{
			name:  "invariant parameter not ordered",
			left:  typesystem.List(typesystem.Object{}),
			right: typesystem.List(typesystem.Integer),
			want:  false,
		},
		{
			name:  "covariant parameter is never a mismatch",
			left:  typesystem.Parametric{Name: typesystem.IterableName, Parameters: []typesystem.Type{typesystem.Integer}},
			right: typesystem.Parametric{Name: typesystem.IterableName, Parameters: []typesystem.Type{typesystem.Object{}}},
			want:  false,
		},
		{
			name:  "different containers",
			left:  typesystem.List(typesystem.Integer),
			right: typesystem.SetOf(typesystem.Object{}),
			want:  false,
		},
		{
			name:  "dictionary value position",
			left:  typesystem.Dictionary(typesystem.String, typesystem.Integer),
			right: typesystem.Dictionary(typesystem.String, typesystem.Float),
			want:  true,
		},
		{
			name:  "non parametric operands",
			left:  typesystem.Integer,
			right: typesystem.Float,
			want:  false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := env.IsInvarianceMismatch(test.left, test.right); got != test.want {
				t.Fatalf("IsInvarianceMismatch = %v, want %v", got, test.want)
			}
		})
	}
}
