package executor

import (
	language "github.com/hanpama/schoolgraph/internal/language"
	schema "github.com/hanpama/schoolgraph/internal/schema"
)

// collectedFieldMap groups selected fields by response name, keeping the
// order in which each name first appears in the document.
type collectedFieldMap struct {
	fields []collectedField
	index  map[string]int
}

type collectedField struct {
	ResponseName string
	Fields       []*language.Field
}

func (m *collectedFieldMap) add(f *language.Field) {
	name := f.Alias
	if name == "" {
		name = f.Name
	}
	if i, ok := m.index[name]; ok {
		m.fields[i].Fields = append(m.fields[i].Fields, f)
		return
	}
	m.index[name] = len(m.fields)
	m.fields = append(m.fields, collectedField{ResponseName: name, Fields: []*language.Field{f}})
}

func (m *collectedFieldMap) orderedFields() []collectedField { return m.fields }

func (m *collectedFieldMap) responseNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.ResponseName
	}
	return names
}

// collectFields flattens fragments and applies @skip/@include for one
// object type.
func collectFields(state *executionState, objectType *schema.Type, selectionSet language.SelectionSet) *collectedFieldMap {
	m := &collectedFieldMap{index: map[string]int{}}
	c := fieldCollector{state: state, objectType: objectType, out: m, seen: map[string]bool{}}
	c.walk(selectionSet)
	return m
}

type fieldCollector struct {
	state      *executionState
	objectType *schema.Type
	out        *collectedFieldMap
	seen       map[string]bool
}

func (c *fieldCollector) walk(selectionSet language.SelectionSet) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if c.included(sel.Directives) {
				c.out.add(sel)
			}
		case *language.InlineFragment:
			if c.included(sel.Directives) && c.applies(sel.TypeCondition) {
				c.walk(sel.SelectionSet)
			}
		case *language.FragmentSpread:
			if !c.included(sel.Directives) || c.seen[sel.Name] {
				continue
			}
			c.seen[sel.Name] = true
			def := getFragmentDefinition(c.state.document, sel.Name)
			if def != nil && c.applies(def.TypeCondition) && c.included(def.Directives) {
				c.walk(def.SelectionSet)
			}
		}
	}
}

func (c *fieldCollector) applies(typeCondition string) bool {
	return typeCondition == "" || typeCondition == c.objectType.Name
}

// included evaluates @skip(if:) and @include(if:). A missing or non-boolean
// condition keeps the node.
func (c *fieldCollector) included(directives language.DirectiveList) bool {
	if skip, ok := c.condition(directives.ForName("skip")); ok && skip {
		return false
	}
	if include, ok := c.condition(directives.ForName("include")); ok && !include {
		return false
	}
	return true
}

func (c *fieldCollector) condition(d *language.Directive) (value, ok bool) {
	if d == nil {
		return false, false
	}
	arg := d.Arguments.ForName("if")
	if arg == nil {
		return false, false
	}
	value, ok = valueFromASTWithVars(arg.Value, c.state.variableValues).(bool)
	return value, ok
}

func getFragmentDefinition(document *language.QueryDocument, name string) *language.FragmentDefinition {
	return document.Fragments.ForName(name)
}
