package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const librarySDL = `
scalar DateTime
enum Kind { PAPER EBOOK }

type Shelf {
  id: Int!
  label: String
  books: [Book!]!
}

type Book {
  id: Int!
  title: String!
  kind: Kind
  shelf: Shelf
  addedAt: DateTime!
}

input BookInput { title: String! kind: Kind }

type Query {
  shelves: [Shelf!]!
  shelf(id: Int!): Shelf
}

type Mutation {
  addBook(shelfId: Int!, data: BookInput!): Book!
}
`

func TestBuildFromSDL_Classification(t *testing.T) {
	sch, err := BuildFromSDL("library.graphql", librarySDL)
	require.NoError(t, err)

	type flag struct {
		Field string
		Async bool
	}
	collect := func(typeName string) []flag {
		var out []flag
		for _, f := range sch.Types[typeName].Fields {
			out = append(out, flag{f.Name, f.Async})
		}
		return out
	}

	want := map[string][]flag{
		"Query":    {{"shelves", true}, {"shelf", true}},
		"Mutation": {{"addBook", true}},
		"Shelf":    {{"id", false}, {"label", false}, {"books", true}},
		"Book":     {{"id", false}, {"title", false}, {"kind", false}, {"shelf", true}, {"addedAt", false}},
	}
	for typeName, fields := range want {
		if diff := cmp.Diff(fields, collect(typeName)); diff != "" {
			t.Errorf("%s fields mismatch (-want +got):\n%s", typeName, diff)
		}
	}
}

func TestBuildFromSDL_Nullability(t *testing.T) {
	sch, err := BuildFromSDL("library.graphql", librarySDL)
	require.NoError(t, err)

	require.True(t, IsNonNull(sch.Lookup("Book", "title").Type))
	require.False(t, IsNonNull(sch.Lookup("Book", "shelf").Type))
	books := sch.Lookup("Shelf", "books").Type
	require.True(t, IsNonNull(books))
	require.True(t, IsList(books))
	require.True(t, IsNonNull(Unwrap(Unwrap(books))))
	require.Equal(t, "Book", GetNamedType(books))
	require.Nil(t, sch.Lookup("Book", "isbn"))
	require.Nil(t, sch.Lookup("Magazine", "id"))

	add := sch.Lookup("Mutation", "addBook")
	require.Equal(t, "Int!", add.Argument("shelfId").Type.String())
	require.Equal(t, "BookInput!", add.Argument("data").Type.String())
	require.NotNil(t, sch.Types["BookInput"].InputField("kind"))
	require.True(t, sch.Types["Kind"].HasEnumValue("EBOOK"))
}

func TestBuildFromSDL_RejectsInvalid(t *testing.T) {
	_, err := BuildFromSDL("broken.graphql", `type Query { a: Missing }`)
	require.Error(t, err)
}

func TestRender_RoundTrip(t *testing.T) {
	sch, err := BuildFromSDL("library.graphql", librarySDL)
	require.NoError(t, err)

	rendered := Render(sch)
	again, err := BuildFromSDL("rendered.graphql", rendered)
	require.NoError(t, err)

	if diff := cmp.Diff(rendered, Render(again)); diff != "" {
		t.Errorf("render not stable (-first +second):\n%s", diff)
	}
	require.Contains(t, rendered, "  addBook(shelfId: Int!, data: BookInput!): Book!\n")
	require.Contains(t, rendered, "schema {\n  query: Query\n  mutation: Mutation\n}\n")
}
