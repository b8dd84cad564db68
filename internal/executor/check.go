package executor

import (
	"fmt"

	language "github.com/hanpama/schoolgraph/internal/language"
	schema "github.com/hanpama/schoolgraph/internal/schema"
)

// checkSelectionSet reports every selection the registry cannot serve.
func checkSelectionSet(
	sch *schema.Schema,
	document *language.QueryDocument,
	variableValues map[string]any,
	rootType *schema.Type,
	selectionSet language.SelectionSet,
) []GraphQLError {
	c := &checker{schema: sch, document: document, variables: variableValues, visiting: map[string]bool{}}
	c.selectionSet(rootType, selectionSet, Path{})
	return c.errors
}

type checker struct {
	schema    *schema.Schema
	document  *language.QueryDocument
	variables map[string]any
	visiting  map[string]bool
	errors    []GraphQLError
}

func (c *checker) errorf(path Path, format string, args ...any) {
	c.errors = append(c.errors, GraphQLError{Message: fmt.Sprintf(format, args...), Path: path})
}

func (c *checker) selectionSet(typ *schema.Type, selectionSet language.SelectionSet, path Path) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			c.field(typ, sel, path)
		case *language.InlineFragment:
			if sel.TypeCondition != "" && sel.TypeCondition != typ.Name {
				c.errorf(path, "Fragment cannot be spread here: type '%s' can never be of type '%s'", sel.TypeCondition, typ.Name)
				continue
			}
			c.selectionSet(typ, sel.SelectionSet, path)
		case *language.FragmentSpread:
			def := getFragmentDefinition(c.document, sel.Name)
			if def == nil {
				c.errorf(path, "Unknown fragment '%s'", sel.Name)
				continue
			}
			if def.TypeCondition != "" && def.TypeCondition != typ.Name {
				c.errorf(path, "Fragment '%s' cannot be spread here: type '%s' can never be of type '%s'", sel.Name, def.TypeCondition, typ.Name)
				continue
			}
			if c.visiting[sel.Name] {
				c.errorf(path, "Cannot spread fragment '%s' within itself", sel.Name)
				continue
			}
			c.visiting[sel.Name] = true
			c.selectionSet(typ, def.SelectionSet, path)
			delete(c.visiting, sel.Name)
		}
	}
}

func (c *checker) field(parent *schema.Type, f *language.Field, path Path) {
	responseName := f.Alias
	if responseName == "" {
		responseName = f.Name
	}
	fieldPath := appendPath(path, responseName)

	if f.Name == "__typename" {
		return
	}
	def := parent.Field(f.Name)
	if def == nil {
		c.errorf(fieldPath, "Cannot query field '%s' on type '%s'", f.Name, parent.Name)
		return
	}

	for _, arg := range f.Arguments {
		if def.Argument(arg.Name) == nil {
			c.errorf(fieldPath, "Unknown argument '%s' on field '%s.%s'", arg.Name, parent.Name, f.Name)
		}
	}
	for _, argDef := range def.Arguments {
		if !schema.IsNonNull(argDef.Type) || argDef.DefaultValue != nil {
			continue
		}
		if !c.argumentSupplied(f.Arguments.ForName(argDef.Name)) {
			c.errorf(fieldPath, "Field '%s.%s' argument '%s' of type '%s' is required", parent.Name, f.Name, argDef.Name, argDef.Type.String())
		}
	}

	named := c.schema.Types[schema.GetNamedType(def.Type)]
	if named == nil {
		c.errorf(fieldPath, "Unknown type '%s'", schema.GetNamedType(def.Type))
		return
	}
	if named.Kind == schema.TypeKindObject {
		if len(f.SelectionSet) == 0 {
			c.errorf(fieldPath, "Field '%s' of type '%s' must have a selection of subfields", f.Name, def.Type.String())
			return
		}
		c.selectionSet(named, f.SelectionSet, fieldPath)
		return
	}
	if len(f.SelectionSet) > 0 {
		c.errorf(fieldPath, "Field '%s' must not have a selection since type '%s' has no subfields", f.Name, def.Type.String())
	}
}

func (c *checker) argumentSupplied(arg *language.Argument) bool {
	if arg == nil || arg.Value == nil {
		return false
	}
	switch arg.Value.Kind {
	case language.NullValue:
		return false
	case language.Variable:
		v, ok := lookupVariable(c.variables, arg.Value.Raw)
		return ok && v != nil
	default:
		return true
	}
}
