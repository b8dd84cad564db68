package schema

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	language "github.com/hanpama/schoolgraph/internal/language"
)

func NewSchema(description string) *Schema {
	s := &Schema{Types: make(map[string]*Type), Description: description}
	return s.AddType(stringType).
		AddType(intType).
		AddType(floatType).
		AddType(booleanType).
		AddType(idType)
}

func (s *Schema) SetQueryType(name string) *Schema    { s.QueryType = name; return s }
func (s *Schema) SetMutationType(name string) *Schema { s.MutationType = name; return s }
func (s *Schema) AddType(t *Type) *Schema             { s.Types[t.Name] = t; return s }

func NewType(name string, kind TypeKind, description string) *Type {
	return &Type{Name: name, Kind: kind, Description: description}
}

func (t *Type) AddField(f *Field) *Type           { t.Fields = append(t.Fields, f); return t }
func (t *Type) AddInputField(v *InputValue) *Type { t.InputFields = append(t.InputFields, v); return t }
func (t *Type) AddEnumValue(v *EnumValue) *Type   { t.EnumValues = append(t.EnumValues, v); return t }

func NewField(name, description string, typ *TypeRef) *Field {
	return &Field{Name: name, Description: description, Type: typ}
}

func (f *Field) SetAsync(async bool) *Field       { f.Async = async; return f }
func (f *Field) AddArgument(a *InputValue) *Field { f.Arguments = append(f.Arguments, a); return f }

func NewInputValue(name, description string, typ *TypeRef) *InputValue {
	return &InputValue{Name: name, Description: description, Type: typ}
}

func (v *InputValue) SetDefault(val any) *InputValue { v.DefaultValue = val; return v }

func NewEnumValue(name, description string) *EnumValue {
	return &EnumValue{Name: name, Description: description}
}

// BuildFromSDL parses and validates sdl and returns the corresponding registry.
//
// Field classification: every root field and every field whose named type
// is an object is remote (Async). Scalar and enum fields of entity types are
// physical projections.
func BuildFromSDL(name, sdl string) (*Schema, error) {
	def, err := language.LoadSchema(name, sdl)
	if err != nil {
		return nil, err
	}
	return BuildFromDefinition(def)
}

// BuildFromDefinition converts an already validated schema definition.
func BuildFromDefinition(def *language.SchemaDefinition) (*Schema, error) {
	if def.Query == nil {
		return nil, fmt.Errorf("schema has no query type")
	}
	s := NewSchema(def.Description)
	s.Source = def
	s.SetQueryType(def.Query.Name)
	if def.Mutation != nil {
		s.SetMutationType(def.Mutation.Name)
	}
	if def.Subscription != nil {
		return nil, fmt.Errorf("subscriptions are not supported")
	}

	for _, d := range def.Types {
		if d.BuiltIn || strings.HasPrefix(d.Name, "__") {
			continue
		}
		var t *Type
		switch d.Kind {
		case ast.Scalar:
			t = NewType(d.Name, TypeKindScalar, d.Description)
		case ast.Enum:
			t = buildEnum(d)
		case ast.InputObject:
			t = buildInput(d)
		case ast.Object:
			root := d.Name == s.QueryType || d.Name == s.MutationType
			t = buildObject(def, d, root)
		default:
			return nil, fmt.Errorf("type %s: %s types are not supported", d.Name, d.Kind)
		}
		s.AddType(t)
	}
	return s, nil
}

func buildObject(def *language.SchemaDefinition, d *ast.Definition, root bool) *Type {
	t := NewType(d.Name, TypeKindObject, d.Description)
	for _, fd := range d.Fields {
		if strings.HasPrefix(fd.Name, "__") {
			continue
		}
		f := NewField(fd.Name, fd.Description, buildTypeRef(fd.Type))
		named := def.Types[fd.Type.Name()]
		f.SetAsync(root || (named != nil && named.Kind == ast.Object))
		for _, ad := range fd.Arguments {
			f.AddArgument(NewInputValue(ad.Name, ad.Description, buildTypeRef(ad.Type)).SetDefault(defaultValue(ad.DefaultValue)))
		}
		t.AddField(f)
	}
	return t
}

func buildEnum(d *ast.Definition) *Type {
	t := NewType(d.Name, TypeKindEnum, d.Description)
	for _, v := range d.EnumValues {
		t.AddEnumValue(NewEnumValue(v.Name, v.Description))
	}
	return t
}

func buildInput(d *ast.Definition) *Type {
	t := NewType(d.Name, TypeKindInputObject, d.Description)
	for _, fd := range d.Fields {
		t.AddInputField(NewInputValue(fd.Name, fd.Description, buildTypeRef(fd.Type)).SetDefault(defaultValue(fd.DefaultValue)))
	}
	return t
}

func buildTypeRef(t *ast.Type) *TypeRef {
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(buildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		return NonNullType(ref)
	}
	return ref
}

func defaultValue(v *ast.Value) any {
	if v == nil {
		return nil
	}
	out, err := v.Value(nil)
	if err != nil {
		return nil
	}
	return out
}
