package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const checkSDL = `
type Query {
  student(id: Int!): Student
  students(enrolled: Boolean): [Student!]!
}
type Student {
  id: Int!
  name: String!
  dept: Dept
}
type Dept {
  name: String!
}
`

func TestCheck_RejectsBeforeAnyRuntimeCall(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		variables map[string]any
		want      []GraphQLError
	}{
		{
			name:  "unknown field",
			query: "{ students { id nope } }",
			want:  []GraphQLError{{Message: "Cannot query field 'nope' on type 'Student'", Path: Path{"students", "nope"}}},
		},
		{
			name:  "unknown root operation",
			query: "{ teachers { id } }",
			want:  []GraphQLError{{Message: "Cannot query field 'teachers' on type 'Query'", Path: Path{"teachers"}}},
		},
		{
			name:  "missing required argument",
			query: "{ student { id } }",
			want:  []GraphQLError{{Message: "Field 'Query.student' argument 'id' of type 'Int!' is required", Path: Path{"student"}}},
		},
		{
			name:  "null literal for required argument",
			query: "{ student(id: null) { id } }",
			want:  []GraphQLError{{Message: "Field 'Query.student' argument 'id' of type 'Int!' is required", Path: Path{"student"}}},
		},
		{
			name:  "absent variable for required argument",
			query: "query ($id: Int) { student(id: $id) { id } }",
			want:  []GraphQLError{{Message: "Field 'Query.student' argument 'id' of type 'Int!' is required", Path: Path{"student"}}},
		},
		{
			name:  "object field without selection",
			query: "{ students { dept } }",
			want:  []GraphQLError{{Message: "Field 'dept' of type 'Dept' must have a selection of subfields", Path: Path{"students", "dept"}}},
		},
		{
			name:  "leaf field with selection",
			query: "{ students { name { x } } }",
			want:  []GraphQLError{{Message: "Field 'name' must not have a selection since type 'String!' has no subfields", Path: Path{"students", "name"}}},
		},
		{
			name:  "unknown field inside fragment",
			query: "{ students { ...F } } fragment F on Student { bogus }",
			want:  []GraphQLError{{Message: "Cannot query field 'bogus' on type 'Student'", Path: Path{"students", "bogus"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewMockRuntime(map[string]MockResolver{})
			exec := NewExecutor(rt, mustBuildSDL(t, checkSDL))

			gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, tt.query), "", tt.variables, nil)

			if diff := diffResult(&ExecutionResult{Errors: tt.want}, gotRes); diff != "" {
				t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
			}
			require.Empty(t, rt.GetCalls())
		})
	}
}

func TestCheck_VariableSuppliesRequiredArgument(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{
		"Query.student": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return map[string]any{"id": args["id"]}, nil
		},
		"Student.id": fieldFromSource("id"),
	})
	exec := NewExecutor(rt, mustBuildSDL(t, checkSDL))

	gotRes := exec.ExecuteRequest(context.Background(), mustParseQuery(t, "query ($id: Int!) { student(id: $id) { id } }"), "", map[string]any{"id": float64(7)}, nil)

	wantRes := &ExecutionResult{Data: map[string]any{"student": map[string]any{"id": 7}}, Errors: []GraphQLError{}}
	if diff := diffResult(wantRes, gotRes); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}
