package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	executor "github.com/hanpama/schoolgraph/internal/executor"
	model "github.com/hanpama/schoolgraph/internal/model"
	schema "github.com/hanpama/schoolgraph/internal/schema"
	store "github.com/hanpama/schoolgraph/internal/store"
)

func mustLoadSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch, err := LoadSchema()
	require.NoError(t, err)
	return sch
}

func defaultBindings(sch *schema.Schema) map[string]map[string]binding {
	b := entityBindings()
	b[sch.QueryType] = queryOperations.erase()
	b[sch.MutationType] = mutationOperations.erase()
	return b
}

func TestNew_TablesCoverSchema(t *testing.T) {
	sch := mustLoadSchema(t)
	_, err := New(sch, store.Gateway{})
	require.NoError(t, err)
	require.Empty(t, validate(sch, defaultBindings(sch)))
}

func TestValidate_ReportsMismatches(t *testing.T) {
	sch := mustLoadSchema(t)
	b := defaultBindings(sch)

	delete(b["Student"], "email")
	b["Course"]["syllabus"] = binding{}
	dept := b["Student"]["dept"]
	dept.remote = false
	b["Student"]["dept"] = dept
	title := b["Course"]["title"]
	title.remote = true
	b["Course"]["title"] = title
	b["Classroom"] = map[string]binding{}

	want := []string{
		"field Course.title is physical but its resolver is remote",
		"field Student.dept is remote but its resolver is physical",
		"field Student.email has no resolver",
		"resolver Course.syllabus has no field in the schema",
		"resolver table Classroom has no object type in the schema",
	}
	if diff := cmp.Diff(want, validate(sch, b)); diff != "" {
		t.Fatalf("problems mismatch (-want +got):\n%s", diff)
	}

	_, err := newRuntime(sch, store.Gateway{}, b)
	require.ErrorContains(t, err, "field Student.email has no resolver")
}

func TestValidate_MissingTypeTable(t *testing.T) {
	sch := mustLoadSchema(t)
	b := defaultBindings(sch)
	delete(b, "Teacher")
	require.Equal(t, []string{"type Teacher has no resolver table"}, validate(sch, b))
}

func TestValidate_MissingLeafSerializer(t *testing.T) {
	sch, err := schema.BuildFromSDL("t.graphql", `
		scalar Money
		type Query { price: Money }
	`)
	require.NoError(t, err)
	b := map[string]map[string]binding{
		"Query": rootTable{"price": func(context.Context, store.Gateway, map[string]any) (any, error) { return nil, nil }}.erase(),
	}
	require.Equal(t, []string{"leaf type Money has no serializer"}, validate(sch, b))
}

func TestNew_RejectsUnknownPolicy(t *testing.T) {
	_, err := New(mustLoadSchema(t), store.Gateway{}, WithPolicy("batched"))
	require.ErrorContains(t, err, `unknown relation policy "batched"`)
}

func TestResolveSync_ProjectsAttributes(t *testing.T) {
	rt, err := New(mustLoadSchema(t), store.Gateway{})
	require.NoError(t, err)
	ctx := context.Background()

	st := &model.Student{ID: 4, Email: "a@x.com"}
	v, err := rt.ResolveSync(ctx, "Student", "email", st, nil)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", v)

	v, err = rt.ResolveSync(ctx, "Student", "enrolled", st, nil)
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = rt.ResolveSync(ctx, "Student", "dept", st, nil)
	require.ErrorContains(t, err, "Student.dept is a remote field")

	_, err = rt.ResolveSync(ctx, "Student", "email", &model.Course{}, nil)
	require.ErrorContains(t, err, "Student.email: unexpected source *model.Course")

	_, err = rt.ResolveSync(ctx, "Student", "nickname", st, nil)
	require.ErrorContains(t, err, "no resolver registered for Student.nickname")
}

func TestBatchResolveAsync_RejectsPhysicalField(t *testing.T) {
	rt, err := New(mustLoadSchema(t), store.Gateway{})
	require.NoError(t, err)

	res := rt.BatchResolveAsync(context.Background(), []executor.AsyncResolveTask{
		{ObjectType: "Course", Field: "code", Source: &model.Course{Code: "C1"}},
	})
	require.Len(t, res, 1)
	require.ErrorContains(t, res[0].Error, "Course.code is a physical field")
}

func TestSerializeLeafValue(t *testing.T) {
	rt, err := New(mustLoadSchema(t), store.Gateway{})
	require.NoError(t, err)
	ctx := context.Background()
	seoul := time.FixedZone("KST", 9*60*60)

	cases := []struct {
		typeName string
		in       any
		want     any
		err      string
	}{
		{typeName: "Int", in: 3, want: 3},
		{typeName: "Int", in: int64(7), want: 7},
		{typeName: "Int", in: "7", err: "Int cannot represent string"},
		{typeName: "String", in: "x", want: "x"},
		{typeName: "Boolean", in: true, want: true},
		{typeName: "DateTime", in: time.Date(2024, 9, 1, 17, 0, 0, 0, seoul), want: "2024-09-01T08:00:00Z"},
		{typeName: "DateTime", in: "yesterday", err: "DateTime cannot represent string"},
		{typeName: "TeacherType", in: model.TeacherTypePartTime, want: "PARTTIME"},
		{typeName: "TeacherType", in: "FULLTIME", want: "FULLTIME"},
		{typeName: "TeacherType", in: "VISITING", err: `TeacherType cannot represent value "VISITING"`},
		{typeName: "Float", in: 1.5, err: "no serializer for leaf type Float"},
	}
	for _, tc := range cases {
		got, err := rt.SerializeLeafValue(ctx, tc.typeName, tc.in)
		if tc.err != "" {
			require.ErrorContains(t, err, tc.err, "%s(%v)", tc.typeName, tc.in)
			continue
		}
		require.NoError(t, err, "%s(%v)", tc.typeName, tc.in)
		require.Equal(t, tc.want, got, "%s(%v)", tc.typeName, tc.in)
	}
}

func TestDecodeTeacherCreate(t *testing.T) {
	got, err := decodeTeacherCreate(map[string]any{
		"email":    "t@x.com",
		"fullName": "T",
		"type":     "PARTTIME",
		"courses": []any{
			map[string]any{"code": "C1", "title": "One"},
			map[string]any{"code": "C2", "title": "Two", "description": "second"},
		},
	})
	require.NoError(t, err)
	partTime := model.TeacherTypePartTime
	want := model.TeacherCreate{
		Email:    "t@x.com",
		FullName: "T",
		Type:     &partTime,
		Courses: []model.CourseCreateWithoutTeacher{
			{Code: "C1", Title: "One"},
			{Code: "C2", Title: "Two", Description: model.String("second")},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded input mismatch (-want +got):\n%s", diff)
	}

	got, err = decodeTeacherCreate(map[string]any{"email": "u@x.com", "fullName": "U", "type": nil})
	require.NoError(t, err)
	require.Nil(t, got.Type)
	require.Nil(t, got.Courses)

	_, err = decodeTeacherCreate(map[string]any{"email": "u@x.com"})
	require.ErrorContains(t, err, "argument 'fullName': expected String")
}
