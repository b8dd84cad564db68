package pgstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
)

// openTestStore connects to SCHOOLGRAPH_TEST_DSN, resets the schema and
// returns a fresh store. The test is skipped when the variable is unset.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("SCHOOLGRAPH_TEST_DSN")
	if dsn == "" {
		t.Skip("SCHOOLGRAPH_TEST_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn, WithMaxConns(4))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, Migrate(ctx, s.Pool(), "reset"))
	require.NoError(t, Migrate(ctx, s.Pool(), "up"))
	return s
}

func TestPostgres_RegisterEnrollAndRelations(t *testing.T) {
	s := openTestStore(t)
	g := s.Gateway()
	ctx := context.Background()

	_, err := g.Students.Create(ctx, model.StudentCreate{Email: "a@x.com", FullName: "A", DeptID: 42})
	require.True(t, store.IsReferential(err), "got %v", err)

	dept, err := g.Departments.Create(ctx, model.DepartmentCreate{Name: "CS"})
	require.NoError(t, err)
	require.Nil(t, dept.Description)

	st, err := g.Students.Create(ctx, model.StudentCreate{Email: "a@x.com", FullName: "A", DeptID: dept.ID})
	require.NoError(t, err)
	require.Nil(t, st.Enrolled)

	_, err = g.Students.Create(ctx, model.StudentCreate{Email: "a@x.com", FullName: "A2", DeptID: dept.ID})
	require.Equal(t, store.KindGateway, store.KindOf(err))

	enrolled, err := g.Students.Update(ctx, st.ID, model.StudentUpdate{Enrolled: model.Bool(true)})
	require.NoError(t, err)
	require.Equal(t, model.Bool(true), enrolled.Enrolled)

	missing, err := g.Students.Update(ctx, 9999, model.StudentUpdate{Enrolled: model.Bool(true)})
	require.NoError(t, err)
	require.Nil(t, missing)

	list, err := g.Students.FindMany(ctx, model.StudentFilter{Enrolled: model.Bool(true)})
	require.NoError(t, err)
	require.Len(t, list, 1)

	d, err := g.Students.Department(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, "CS", d.Name)

	members, err := g.Departments.Students(ctx, dept.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestPostgres_TeacherWithCoursesIsAtomic(t *testing.T) {
	s := openTestStore(t)
	g := s.Gateway()
	ctx := context.Background()
	pt := model.TeacherTypePartTime

	teacher, err := g.Teachers.Create(ctx, model.TeacherCreate{
		Email:    "t@x.com",
		FullName: "T",
		Type:     &pt,
		Courses:  []model.CourseCreateWithoutTeacher{{Code: "A", Title: "A"}, {Code: "B", Title: "B"}},
	})
	require.NoError(t, err)
	require.Equal(t, &pt, teacher.Type)

	cs, err := g.Teachers.Courses(ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, cs, 2)

	_, err = g.Teachers.Create(ctx, model.TeacherCreate{
		Email:    "t@x.com",
		FullName: "dup",
		Courses:  []model.CourseCreateWithoutTeacher{{Code: "C", Title: "C"}},
	})
	require.Error(t, err)
	all, err := g.Courses.FindMany(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	c, err := g.Courses.Create(ctx, model.CourseCreate{Code: "D", Title: "D", TeacherEmail: model.String("t@x.com")})
	require.NoError(t, err)
	back, err := g.Courses.Teacher(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "t@x.com", back.Email)

	_, err = g.Courses.Create(ctx, model.CourseCreate{Code: "E", Title: "E", TeacherEmail: model.String("nobody@x.com")})
	require.True(t, store.IsReferential(err))
}

func TestPostgres_Seed(t *testing.T) {
	s := openTestStore(t)
	g := s.Gateway()
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx, model.Dataset{
		Departments: []model.Department{{ID: 5, Name: "Math"}},
		Courses:     []model.Course{{ID: 3, Code: "M1", Title: "Algebra", DeptID: model.Int(5)}},
	}))

	cs, err := g.Departments.Courses(ctx, 5)
	require.NoError(t, err)
	require.Len(t, cs, 1)

	d, err := g.Courses.Department(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 5, d.ID)

	next, err := g.Departments.Create(ctx, model.DepartmentCreate{Name: "Next"})
	require.NoError(t, err)
	require.Equal(t, 6, next.ID)
}
