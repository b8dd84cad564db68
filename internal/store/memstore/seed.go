package memstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
)

// Seed inserts fixed rows, keeping their ids and foreign keys. Rows with a
// zero id get the next free id. Nothing is written if any row is invalid.
// Rows are copied in and kept in id order whatever order they arrive in.
func (s *Store) Seed(ctx context.Context, data model.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &Store{
		now:         s.now,
		students:    append([]*model.Student(nil), s.students...),
		departments: append([]*model.Department(nil), s.departments...),
		teachers:    append([]*model.Teacher(nil), s.teachers...),
		courses:     append([]*model.Course(nil), s.courses...),
	}
	now := s.timestamp()
	stamp := func(created, updated *time.Time) {
		if created.IsZero() {
			*created = now
		}
		if updated.IsZero() {
			*updated = *created
		}
	}

	for _, d := range data.Departments {
		if d.ID == 0 {
			d.ID = nextID(staged.departments, func(d *model.Department) int { return d.ID })
		} else if staged.department(d.ID) != nil {
			return store.Wrap(store.KindGateway, "seed.departments", errDuplicateID("departments", d.ID))
		}
		stamp(&d.CreatedAt, &d.UpdatedAt)
		staged.departments = append(staged.departments, cloneDepartment(&d))
	}
	for _, t := range data.Teachers {
		if t.ID == 0 {
			t.ID = nextID(staged.teachers, func(t *model.Teacher) int { return t.ID })
		} else if staged.teacher(t.ID) != nil {
			return store.Wrap(store.KindGateway, "seed.teachers", errDuplicateID("teachers", t.ID))
		}
		if staged.teacherByEmail(t.Email) != nil {
			return store.Wrap(store.KindGateway, "seed.teachers", errUnique("teachers", "email"))
		}
		stamp(&t.CreatedAt, &t.UpdatedAt)
		staged.teachers = append(staged.teachers, cloneTeacher(&t))
	}
	for _, c := range data.Courses {
		if c.ID == 0 {
			c.ID = nextID(staged.courses, func(c *model.Course) int { return c.ID })
		} else if staged.course(c.ID) != nil {
			return store.Wrap(store.KindGateway, "seed.courses", errDuplicateID("courses", c.ID))
		}
		if c.TeacherID != nil && staged.teacher(*c.TeacherID) == nil {
			return store.Referentialf("seed.courses", "teacher %d does not exist", *c.TeacherID)
		}
		if c.DeptID != nil && staged.department(*c.DeptID) == nil {
			return store.Referentialf("seed.courses", "department %d does not exist", *c.DeptID)
		}
		stamp(&c.CreatedAt, &c.UpdatedAt)
		staged.courses = append(staged.courses, cloneCourse(&c))
	}
	for _, st := range data.Students {
		if st.ID == 0 {
			st.ID = nextID(staged.students, func(st *model.Student) int { return st.ID })
		} else if staged.student(st.ID) != nil {
			return store.Wrap(store.KindGateway, "seed.students", errDuplicateID("students", st.ID))
		}
		for _, other := range staged.students {
			if other.Email == st.Email {
				return store.Wrap(store.KindGateway, "seed.students", errUnique("students", "email"))
			}
		}
		if st.DeptID != nil && staged.department(*st.DeptID) == nil {
			return store.Referentialf("seed.students", "department %d does not exist", *st.DeptID)
		}
		stamp(&st.CreatedAt, &st.UpdatedAt)
		staged.students = append(staged.students, cloneStudent(&st))
	}

	slices.SortFunc(staged.departments, func(a, b *model.Department) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(staged.teachers, func(a, b *model.Teacher) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(staged.courses, func(a, b *model.Course) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(staged.students, func(a, b *model.Student) int { return cmp.Compare(a.ID, b.ID) })

	s.students, s.departments, s.teachers, s.courses = staged.students, staged.departments, staged.teachers, staged.courses
	return nil
}
