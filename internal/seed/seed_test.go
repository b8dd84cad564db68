package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
	memstore "github.com/hanpama/schoolgraph/internal/store/memstore"
)

const school = `
departments:
  - {id: 1, name: CS, description: Computer Science}
teachers:
  - {id: 1, email: ada@x.com, fullName: Ada, type: FULLTIME}
  - {id: 2, email: bob@x.com, fullName: Bob}
courses:
  - {id: 1, code: CS101, title: Intro, teacher: 1, dept: 1}
  - {id: 2, code: GEN1, title: Orientation}
students:
  - {id: 1, email: a@x.com, fullName: A, dept: 1, enrolled: true}
`

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(school))
	require.NoError(t, err)

	fullTime := model.TeacherTypeFullTime
	want := model.Dataset{
		Departments: []model.Department{{ID: 1, Name: "CS", Description: model.String("Computer Science")}},
		Teachers: []model.Teacher{
			{ID: 1, Email: "ada@x.com", FullName: "Ada", Type: &fullTime},
			{ID: 2, Email: "bob@x.com", FullName: "Bob"},
		},
		Courses: []model.Course{
			{ID: 1, Code: "CS101", Title: "Intro", TeacherID: model.Int(1), DeptID: model.Int(1)},
			{ID: 2, Code: "GEN1", Title: "Orientation"},
		},
		Students: []model.Student{{ID: 1, Email: "a@x.com", FullName: "A", DeptID: model.Int(1), Enrolled: model.Bool(true)}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dataset mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "classrooms: []",
		"bad teacher type":  "teachers: [{email: t@x.com, fullName: T, type: VISITING}]",
		"missing name":      "departments: [{id: 1}]",
		"missing email":     "students: [{fullName: S}]",
		"missing code":      "courses: [{title: T}]",
		"wrong field value": "departments: [{id: one, name: CS}]",
	}
	for name, doc := range cases {
		_, err := Parse(strings.NewReader(doc))
		require.Error(t, err, name)
	}
}

func TestParse_Empty(t *testing.T) {
	got, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, model.Dataset{}, got)
}

func TestLoadFile_SeedsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school.yaml")
	require.NoError(t, os.WriteFile(path, []byte(school), 0o600))

	mem := memstore.New()
	_, err := LoadFile(context.Background(), mem, path)
	require.NoError(t, err)

	courses, err := mem.Gateway().Departments.Courses(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "CS101", courses[0].Code)
}

func TestLoadFile_ReferentialFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("students: [{email: a@x.com, fullName: A, dept: 4}]"), 0o600))

	_, err := LoadFile(context.Background(), memstore.New(), path)
	require.True(t, store.IsReferential(err))
}
