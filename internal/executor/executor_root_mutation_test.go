package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const registrySDL = `
type Query {
  count: Int
}
type Mutation {
  createDepartment(name: String!): Department!
  enroll(id: Int!): Student
  registerStudent(email: String!): Student!
}
type Department {
  name: String!
}
type Student {
  email: String!
}
`

// Pattern: Calls comparison (and result where trivial)
func TestRoot_QueryFieldsAreBatchedAtDepthZero(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{"Query.count": NewMockValueResolver(3)})
	exec := NewExecutor(rt, mustBuildSDL(t, registrySDL))

	gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "{ count total: count }"), "", nil, nil)

	wantRes := &ExecutionResult{Data: map[string]any{"count": 3, "total": 3}, Errors: []GraphQLError{}}
	if diff := diffResult(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
	wantCalls := []Call{
		{Kind: CallKindAsync, ObjectType: "Query", Field: "count", Args: map[string]any{}, BatchID: 1},
		{Kind: CallKindAsync, ObjectType: "Query", Field: "count", Args: map[string]any{}, BatchID: 1},
	}
	if diff := cmp.Diff(wantCalls, rt.GetCalls()); diff != "" {
		t.Fatalf("Runtime calls mismatch (-want +got):\n%s", diff)
	}
}

// Pattern: Result comparison
func TestMutation_FailureNullsOnlyItsOwnRootField(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Mutation.createDepartment": NewMockValueResolver(map[string]any{"name": "Math"}),
		"Mutation.registerStudent":  NewMockErrorResolver(errors.New("department 9 does not exist")),
		"Mutation.enroll":           NewMockValueResolver(nil),
		"Department.name":           fieldFromSource("name"),
	})
	exec := NewExecutor(rt, mustBuildSDL(t, registrySDL))
	doc := mustParseQuery(t, `mutation {
		createDepartment(name: "Math") { name }
		registerStudent(email: "a@x.com") { email }
		enroll(id: 7) { email }
	}`)

	gotRes := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	wantRes := &ExecutionResult{
		Data: map[string]any{
			"createDepartment": map[string]any{"name": "Math"},
			"registerStudent":  nil,
			"enroll":           nil,
		},
		Errors: []GraphQLError{{Message: "department 9 does not exist", Path: Path{"registerStudent"}}},
	}
	if diff := diffResult(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	var order []string
	for _, c := range rt.GetCalls() {
		if c.ObjectType == "Mutation" {
			order = append(order, c.Field)
		}
	}
	if diff := cmp.Diff([]string{"createDepartment", "registerStudent", "enroll"}, order); diff != "" {
		t.Fatalf("mutation order mismatch (-want +got):\n%s", diff)
	}
}
