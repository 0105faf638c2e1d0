package symbols

import (
	"testing"

	"github.com/siftcheck/sift/internal/access"
	"github.com/siftcheck/sift/internal/typesystem"
)

func TestIsEmptyStub(t *testing.T) {
	tests := []struct {
		name   string
		module *Module
		want   bool
	}{
		{name: "Nil", module: nil, want: false},
		{name: "PlainModule", module: &Module{Name: access.Parse("m")}, want: false},
		{name: "EmptyStub", module: &Module{Name: access.Parse("m"), Stub: true}, want: true},
		{
			name: "StubWithDefinitions",
			module: &Module{
				Name: access.Parse("m"),
				Stub: true,
				Definitions: map[string][]*FunctionDefinition{
					"f": {{Name: access.Parse("m.f")}},
				},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.module.IsEmptyStub(); got != tt.want {
				t.Errorf("IsEmptyStub() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTableLookups(t *testing.T) {
	table := NewTable()
	table.AddGlobal(access.Parse("m.x"), NewAnnotation(typesystem.Integer))
	table.AddModule(&Module{Name: access.Parse("m")})
	table.AddClass("m.C", &Class{Definition: &ClassNode{Name: access.Parse("m.C")}})

	if got := table.Global(access.Parse("m.x")); got == nil || !typesystem.Equal(got.Type, typesystem.Integer) {
		t.Errorf("Global(m.x) = %v", got)
	}
	if table.Global(access.Parse("m.y")) != nil {
		t.Errorf("missing global should be nil")
	}
	if table.Module(access.Parse("m")) == nil {
		t.Errorf("module m should resolve")
	}
	if table.Class(typesystem.Primitive{Name: "m.C"}) == nil {
		t.Errorf("class m.C should resolve from an instance type")
	}
	if table.Class(typesystem.Meta{Inner: typesystem.Primitive{Name: "m.C"}}) == nil {
		t.Errorf("class m.C should resolve through a meta type")
	}
	if table.ClassDefinition(typesystem.Primitive{Name: "m.C"}) == nil {
		t.Errorf("class definition should resolve")
	}
}

func TestClassAttribute(t *testing.T) {
	class := &Class{
		Attributes: map[string]Annotation{
			"declared": NewImmutableAnnotation(typesystem.Integer),
		},
		ImplicitAttributes: map[string]Annotation{
			"declared": NewAnnotation(typesystem.String),
			"inferred": NewAnnotation(typesystem.Float),
		},
	}

	if annotation, ok := class.Attribute("declared"); !ok || !typesystem.Equal(annotation.Type, typesystem.Integer) {
		t.Errorf("explicit attribute should win, got %v", annotation)
	}
	if annotation, ok := class.Attribute("inferred"); !ok || !typesystem.Equal(annotation.Type, typesystem.Float) {
		t.Errorf("implicit attribute should be found, got %v", annotation)
	}
	if _, ok := class.Attribute("missing"); ok {
		t.Errorf("missing attribute should not resolve")
	}
}
