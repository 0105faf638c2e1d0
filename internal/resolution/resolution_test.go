package resolution

import (
	"testing"

	"github.com/siftcheck/sift/internal/access"
	"github.com/siftcheck/sift/internal/annotation"
	"github.com/siftcheck/sift/internal/ast"
	"github.com/siftcheck/sift/internal/lattice"
	"github.com/siftcheck/sift/internal/symbols"
	"github.com/siftcheck/sift/internal/typesystem"
)

// testEnvironment builds an environment over the default lattice with
// capabilities backed by the given symbol table, which may be nil.
func testEnvironment(table *symbols.Table, variables ...typesystem.Variable) Resolution {
	parser := annotation.NewParser(variables...)
	capabilities := Capabilities{ParseAnnotationRaw: parser.Parse}
	if table != nil {
		capabilities.Global = table.Global
		capabilities.ModuleDefinition = table.Module
		capabilities.ClassDefinition = table.ClassDefinition
		capabilities.ClassRepresentation = table.Class
	}
	return New(lattice.DefaultTable(), capabilities)
}

func TestSetLocalDoesNotMutateOriginal(t *testing.T) {
	base := testEnvironment(nil)
	name := access.New("x")

	derived := base.SetLocal(name, symbols.NewAnnotation(typesystem.Integer))

	if got := base.GetLocal(name, false); got != nil {
		t.Fatalf("base environment gained binding %v", got)
	}
	got := derived.GetLocal(name, false)
	if got == nil {
		t.Fatal("derived environment lost binding")
	}
	if !typesystem.Equal(got.Type, typesystem.Integer) {
		t.Fatalf("GetLocal = %v, want int", got.Type)
	}
}

func TestForkedEnvironmentsAreIndependent(t *testing.T) {
	base := testEnvironment(nil).SetLocal(access.New("shared"), symbols.NewAnnotation(typesystem.Boolean))

	left := base.SetLocal(access.New("x"), symbols.NewAnnotation(typesystem.Integer))
	right := base.SetLocal(access.New("x"), symbols.NewAnnotation(typesystem.String))

	if got := left.GetLocal(access.New("x"), false); !typesystem.Equal(got.Type, typesystem.Integer) {
		t.Fatalf("left branch x = %v, want int", got.Type)
	}
	if got := right.GetLocal(access.New("x"), false); !typesystem.Equal(got.Type, typesystem.String) {
		t.Fatalf("right branch x = %v, want str", got.Type)
	}
	for _, env := range []Resolution{left, right} {
		if got := env.GetLocal(access.New("shared"), false); !typesystem.Equal(got.Type, typesystem.Boolean) {
			t.Fatalf("shared binding = %v, want bool", got.Type)
		}
	}
}

func TestUnsetLocal(t *testing.T) {
	name := access.New("x")
	env := testEnvironment(nil).SetLocal(name, symbols.NewAnnotation(typesystem.Integer))

	if got := env.UnsetLocal(name).GetLocal(name, false); got != nil {
		t.Fatalf("binding survived UnsetLocal: %v", got)
	}
	if got := env.GetLocal(name, false); got == nil {
		t.Fatal("UnsetLocal mutated the original environment")
	}
}

func TestSetLocalDeletedSentinelUnsets(t *testing.T) {
	name := access.New("x")
	env := testEnvironment(nil).SetLocal(name, symbols.NewAnnotation(typesystem.Integer))

	env = env.SetLocal(name, symbols.NewAnnotation(typesystem.Deleted{}))

	if got := env.GetLocal(name, false); got != nil {
		t.Fatalf("deleted sentinel is observable: %v", got)
	}
	if env.Annotations().Len() != 0 {
		t.Fatalf("locals still hold %d entries after deletion", env.Annotations().Len())
	}
}

func TestGetLocalGlobalFallback(t *testing.T) {
	table := symbols.NewTable()
	table.AddGlobal(access.New("mod", "flag"), symbols.NewImmutableAnnotation(typesystem.Boolean))
	env := testEnvironment(table)

	local := access.Local(access.New("mod"), "flag")

	if got := env.GetLocal(local, false); got != nil {
		t.Fatalf("fallback disabled yet binding found: %v", got)
	}
	got := env.GetLocal(local, true)
	if got == nil {
		t.Fatal("global fallback found nothing")
	}
	if !typesystem.Equal(got.Type, typesystem.Boolean) || got.Mutability != symbols.Immutable {
		t.Fatalf("fallback = %+v, want immutable bool", got)
	}
}

func TestGetLocalShadowsGlobal(t *testing.T) {
	table := symbols.NewTable()
	table.AddGlobal(access.New("mod", "x"), symbols.NewAnnotation(typesystem.Boolean))
	local := access.Local(access.New("mod"), "x")

	env := testEnvironment(table).SetLocal(local, symbols.NewAnnotation(typesystem.String))

	if got := env.GetLocal(local, true); !typesystem.Equal(got.Type, typesystem.String) {
		t.Fatalf("GetLocal = %v, want the shadowing local str", got.Type)
	}
}

func TestWithParent(t *testing.T) {
	env := testEnvironment(nil)
	if !env.Parent().IsEmpty() {
		t.Fatalf("fresh environment has parent %v", env.Parent())
	}
	scoped := env.WithParent(access.New("mod", "f"))
	if scoped.Parent().Key() != "mod.f" {
		t.Fatalf("Parent = %q, want mod.f", scoped.Parent().Key())
	}
	if !env.Parent().IsEmpty() {
		t.Fatal("WithParent mutated the original")
	}
}

func TestFunctionDefinitions(t *testing.T) {
	definition := &symbols.FunctionDefinition{Name: access.New("mod", "f")}
	table := symbols.NewTable()
	table.AddModule(&symbols.Module{
		Name:        access.New("mod"),
		Definitions: map[string][]*symbols.FunctionDefinition{"f": {definition}},
	})
	env := testEnvironment(table)

	got := env.FunctionDefinitions(access.New("mod", "f"))
	if len(got) != 1 || got[0] != definition {
		t.Fatalf("FunctionDefinitions = %v, want the declared definition", got)
	}

	// Local-scope spellings resolve through delocalization.
	got = env.FunctionDefinitions(access.Local(access.New("mod"), "f"))
	if len(got) != 1 || got[0] != definition {
		t.Fatalf("local-form lookup = %v, want the declared definition", got)
	}

	if got := env.FunctionDefinitions(access.New("other", "f")); got != nil {
		t.Fatalf("unknown module yielded %v", got)
	}
}

func TestParseAnnotation(t *testing.T) {
	stubbed := symbols.NewTable()
	stubbed.AddModule(&symbols.Module{Name: access.New("vendorlib"), Stub: true})
	filled := symbols.NewTable()
	filled.AddModule(&symbols.Module{
		Name: access.New("vendorlib"),
		Stub: true,
		Definitions: map[string][]*symbols.FunctionDefinition{
			"helper": {{Name: access.New("vendorlib", "helper")}},
		},
	})

	tests := []struct {
		name           string
		table          *symbols.Table
		expression     ast.Expression
		allowUntracked bool
		want           typesystem.Type
	}{
		{
			name:       "tracked primitive",
			expression: &ast.Name{Access: access.New("int")},
			want:       typesystem.Integer,
		},
		{
			name:       "tracked container",
			expression: &ast.Subscript{Value: &ast.Name{Access: access.New("list")}, Indices: []ast.Expression{&ast.Name{Access: access.New("str")}}},
			want:       typesystem.List(typesystem.String),
		},
		{
			name:       "untracked name collapses",
			expression: &ast.Name{Access: access.New("mystery")},
			want:       typesystem.Top{},
		},
		{
			name:           "untracked name kept when allowed",
			expression:     &ast.Name{Access: access.New("mystery")},
			allowUntracked: true,
			want:           typesystem.Primitive{Name: "mystery"},
		},
		{
			name:       "untracked parameter collapses whole annotation",
			expression: &ast.Subscript{Value: &ast.Name{Access: access.New("list")}, Indices: []ast.Expression{&ast.Name{Access: access.New("mystery")}}},
			want:       typesystem.Top{},
		},
		{
			name:       "empty stub reference becomes object",
			table:      stubbed,
			expression: &ast.Name{Access: access.New("vendorlib", "Thing")},
			want:       typesystem.Object{},
		},
		{
			name:           "stub with definitions keeps its names",
			table:          filled,
			expression:     &ast.Name{Access: access.New("vendorlib", "Thing")},
			allowUntracked: true,
			want:           typesystem.Primitive{Name: "vendorlib.Thing"},
		},
		{
			name:           "local spelling is delocalized before parsing",
			expression:     &ast.Name{Access: access.Local(access.New("mod"), "Thing")},
			allowUntracked: true,
			want:           typesystem.Primitive{Name: "mod.Thing"},
		},
		{
			name:       "forward reference string",
			expression: &ast.StringLiteral{Value: "int"},
			want:       typesystem.Integer,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := testEnvironment(test.table)
			got := env.ParseAnnotation(test.expression, test.allowUntracked)
			if !typesystem.Equal(got, test.want) {
				t.Fatalf("ParseAnnotation = %v, want %v", got, test.want)
			}
		})
	}
}
