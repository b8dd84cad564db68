package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadSchema parses and validates SDL, merging in the built-in prelude.
func LoadSchema(name, source string) (*SchemaDefinition, error) {
	return gqlparser.LoadSchema(&ast.Source{Name: name, Input: source})
}

// LoadQuery parses source and validates it against sch. Unknown fields,
// unknown arguments and missing required arguments are reported here,
// before anything is executed.
func LoadQuery(sch *SchemaDefinition, source string) (*QueryDocument, ErrorList) {
	return gqlparser.LoadQuery(sch, source)
}
