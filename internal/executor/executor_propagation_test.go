package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	schema "github.com/hanpama/schoolgraph/internal/schema"
)

const propagationSDL = `
type Query {
  items: [Item]
  item: Item
  required: Item!
  other: String
}
type Item {
  id: String
  detail: Detail!
  sub: Sub
}
type Detail {
  name: String!
}
type Sub {
  leaf: Sub
}
`

func mustBuildSDL(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	sch, err := schema.BuildFromSDL("test.graphql", sdl)
	require.NoError(t, err)
	return sch
}

func fieldFromSource(name string) MockResolver {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		return source.(map[string]any)[name], nil
	}
}

func callFields(calls []Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.ObjectType + "." + c.Field
	}
	return out
}

func TestNonNull_AsyncError_NullsNearestNullableListItem(t *testing.T) {
	sch := mustBuildSDL(t, propagationSDL)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.items": NewMockValueResolver([]any{map[string]any{"id": "1"}, map[string]any{"id": "2"}}),
		"Item.id":     fieldFromSource("id"),
		"Item.detail": func(ctx context.Context, source any, args map[string]any) (any, error) {
			if source.(map[string]any)["id"] == "1" {
				return nil, errors.New("no detail")
			}
			return map[string]any{"name": "n2"}, nil
		},
		"Detail.name": fieldFromSource("name"),
	})
	exec := NewExecutor(rt, sch)
	doc := mustParseQuery(t, "{ items { id detail { name } } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{"items": []any{
			nil,
			map[string]any{"id": "2", "detail": map[string]any{"name": "n2"}},
		}},
		Errors: []GraphQLError{{Message: "no detail", Path: Path{"items", 0, "detail"}}},
	}
	if diff := diffResult(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []int{1, 2}, rt.BatchSizes())
}

func TestNonNull_ChainToRoot_NullsRootFieldOnly(t *testing.T) {
	sch := mustBuildSDL(t, propagationSDL)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.required": NewMockValueResolver(map[string]any{"id": "1"}),
		"Query.other":    NewMockValueResolver("still here"),
		"Item.detail":    NewMockErrorResolver(errors.New("gone")),
	})
	exec := NewExecutor(rt, sch)
	doc := mustParseQuery(t, "{ required { detail { name } } other }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"required": nil, "other": "still here"},
		Errors: []GraphQLError{{Message: "gone", Path: Path{"required", "detail"}}},
	}
	if diff := diffResult(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestNonNull_Tombstone_DropsQueuedDescendants(t *testing.T) {
	sch := mustBuildSDL(t, propagationSDL)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.item":  NewMockValueResolver(map[string]any{"id": "1"}),
		"Item.detail": NewMockValueResolver(nil),
		"Item.sub":    NewMockValueResolver(map[string]any{}),
		"Sub.leaf":    NewMockValueResolver(map[string]any{}),
	})
	exec := NewExecutor(rt, sch)
	doc := mustParseQuery(t, "{ item { detail { name } sub { leaf { leaf { __typename } } } } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data:   map[string]any{"item": nil},
		Errors: []GraphQLError{{Message: "Cannot return null for non-nullable field item.detail", Path: Path{"item", "detail"}}},
	}
	if diff := diffResult(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	wantCalls := []string{"Query.item", "Item.detail", "Item.sub"}
	if diff := cmp.Diff(wantCalls, callFields(rt.GetCalls())); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}

type codedError struct{ code string }

func (e codedError) Error() string              { return "coded failure" }
func (e codedError) Extensions() map[string]any { return map[string]any{"code": e.code} }

func TestFieldError_KeepsExtensions(t *testing.T) {
	sch := mustBuildSDL(t, propagationSDL)
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.item": NewMockErrorResolver(codedError{code: "REFERENTIAL"}),
	})
	exec := NewExecutor(rt, sch)
	doc := mustParseQuery(t, "{ item { id } }")

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{"item": nil},
		Errors: []GraphQLError{{
			Message:    "coded failure",
			Path:       Path{"item"},
			Extensions: map[string]any{"code": "REFERENTIAL"},
		}},
	}
	if diff := diffResult(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}
