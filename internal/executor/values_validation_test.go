package executor

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const teacherInputSDL = `
type Query {
  teacher(id: Int!): String
}
enum TeacherType {
  FULLTIME
  PARTTIME
}
input CourseInput {
  code: String!
  title: String!
}
input TeacherCreateInput {
  email: String!
  fullName: String!
  type: TeacherType
  courses: [CourseInput!]
}
`

func coerceOperationVariables(t *testing.T, operation string, vars map[string]any) (map[string]any, error) {
	t.Helper()
	sch := mustBuildSDL(t, teacherInputSDL)
	doc := mustParseQuery(t, operation)
	return coerceVariableValues(sch, doc.Operations[0], vars)
}

func TestCoerceVariableValues_TeacherInput(t *testing.T) {
	got, err := coerceOperationVariables(t, `query($data: TeacherCreateInput!) { teacher(id: 1) }`, map[string]any{
		"data": map[string]any{
			"email":    "ada@x.com",
			"fullName": "Ada",
			"type":     "FULLTIME",
			"courses":  []any{map[string]any{"code": "CS101", "title": "Intro"}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"data": map[string]any{
		"email":    "ada@x.com",
		"fullName": "Ada",
		"type":     "FULLTIME",
		"courses":  []any{map[string]any{"code": "CS101", "title": "Intro"}},
	}}, got)
}

func TestCoerceVariableValues_Rejects(t *testing.T) {
	const op = `query($data: TeacherCreateInput!, $id: Int) { teacher(id: 1) }`
	for name, tc := range map[string]struct {
		vars map[string]any
		want string
	}{
		"missing required input field": {
			vars: map[string]any{"data": map[string]any{"email": "ada@x.com"}},
			want: "required field 'fullName'",
		},
		"unknown input field": {
			vars: map[string]any{"data": map[string]any{"email": "a", "fullName": "A", "nickname": "x"}},
			want: "field 'nickname' is not defined",
		},
		"enum outside its values": {
			vars: map[string]any{"data": map[string]any{"email": "a", "fullName": "A", "type": "VISITING"}},
			want: "not a member of enum TeacherType",
		},
		"nested list item": {
			vars: map[string]any{"data": map[string]any{"email": "a", "fullName": "A", "courses": []any{map[string]any{"code": "X"}}}},
			want: "required field 'title'",
		},
		"scalar mismatch": {
			vars: map[string]any{"data": map[string]any{"email": "a", "fullName": "A"}, "id": "42"},
			want: "cannot coerce",
		},
		"int beyond 32 bits": {
			vars: map[string]any{"data": map[string]any{"email": "a", "fullName": "A"}, "id": 4294967297},
			want: "int 4294967297 is outside the 32-bit range",
		},
		"json number beyond 32 bits": {
			vars: map[string]any{"data": map[string]any{"email": "a", "fullName": "A"}, "id": 1e20},
			want: "cannot coerce 1e+20 (float64) to int",
		},
		"fractional json number": {
			vars: map[string]any{"data": map[string]any{"email": "a", "fullName": "A"}, "id": 1.5},
			want: "cannot coerce 1.5 (float64) to int",
		},
		"required variable absent": {
			vars: nil,
			want: "variable $data of required type TeacherCreateInput! was not provided",
		},
	} {
		_, err := coerceOperationVariables(t, op, tc.vars)
		require.ErrorContains(t, err, tc.want, name)
	}
}

func TestCoerceVariableValues_IntBounds(t *testing.T) {
	const op = `query($id: Int) { teacher(id: 1) }`
	for _, v := range []any{math.MaxInt32, math.MinInt32, float64(math.MaxInt32), int64(-7)} {
		got, err := coerceOperationVariables(t, op, map[string]any{"id": v})
		require.NoError(t, err, "%v", v)
		require.IsType(t, 0, got["id"])
	}
}

func TestArgumentLiteral_OutOfRangeSkipsResolver(t *testing.T) {
	rt := NewMockRuntime(map[string]MockResolver{"Query.teacher": NewMockValueResolver("Ada")})
	exec := NewExecutor(rt, mustBuildSDL(t, teacherInputSDL))

	for literal, want := range map[string]string{
		"4294967297":           "argument 'id' cannot be coerced: int 4294967297 is outside the 32-bit range",
		"-2147483649":          "argument 'id' cannot be coerced: int -2147483649 is outside the 32-bit range",
		"99999999999999999999": "argument 'id' cannot be coerced: cannot coerce 1e+20 (float64) to int",
	} {
		res := exec.ExecuteRequest(context.Background(), mustParseQuery(t, `{ teacher(id: `+literal+`) }`), "", nil, nil)
		require.Equal(t, map[string]any{"teacher": nil}, res.Data, literal)
		require.Len(t, res.Errors, 1, literal)
		require.Equal(t, want, res.Errors[0].Message)
		require.Equal(t, Path{"teacher"}, res.Errors[0].Path)
	}
	require.Empty(t, rt.GetCalls())
}
