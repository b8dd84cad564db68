// Package memstore is an in-memory persistence gateway. Ids are assigned
// from 1 per entity and collections are returned in id order.
package memstore

import (
	"context"
	"sync"
	"time"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
)

type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	students    []*model.Student
	departments []*model.Department
	teachers    []*model.Teacher
	courses     []*model.Course
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Gateway exposes the store's repositories.
func (s *Store) Gateway() store.Gateway {
	return store.Gateway{
		Students:    &studentRepo{s},
		Departments: &departmentRepo{s},
		Teachers:    &teacherRepo{s},
		Courses:     &courseRepo{s},
	}
}

func (s *Store) timestamp() time.Time { return s.now().UTC() }

func (s *Store) student(id int) *model.Student {
	for _, st := range s.students {
		if st.ID == id {
			return st
		}
	}
	return nil
}

func (s *Store) department(id int) *model.Department {
	for _, d := range s.departments {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Store) teacher(id int) *model.Teacher {
	for _, t := range s.teachers {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Store) teacherByEmail(email string) *model.Teacher {
	for _, t := range s.teachers {
		if t.Email == email {
			return t
		}
	}
	return nil
}

func (s *Store) course(id int) *model.Course {
	for _, c := range s.courses {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func nextID[T any](rows []T, id func(T) int) int {
	max := 0
	for _, r := range rows {
		if v := id(r); v > max {
			max = v
		}
	}
	return max + 1
}

// Returned values are copies; callers never share rows with the store.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStudent(st *model.Student) *model.Student {
	if st == nil {
		return nil
	}
	c := *st
	c.Enrolled = clonePtr(st.Enrolled)
	c.DeptID = clonePtr(st.DeptID)
	return &c
}

func cloneDepartment(d *model.Department) *model.Department {
	if d == nil {
		return nil
	}
	c := *d
	c.Description = clonePtr(d.Description)
	return &c
}

func cloneTeacher(t *model.Teacher) *model.Teacher {
	if t == nil {
		return nil
	}
	c := *t
	c.Type = clonePtr(t.Type)
	return &c
}

func cloneCourse(co *model.Course) *model.Course {
	if co == nil {
		return nil
	}
	c := *co
	c.Description = clonePtr(co.Description)
	c.TeacherID = clonePtr(co.TeacherID)
	c.DeptID = clonePtr(co.DeptID)
	return &c
}

func cloneAll[T any](rows []*T, keep func(*T) bool, clone func(*T) *T) []*T {
	out := []*T{}
	for _, r := range rows {
		if keep == nil || keep(r) {
			out = append(out, clone(r))
		}
	}
	return out
}

type studentRepo struct{ s *Store }

func (r *studentRepo) FindMany(ctx context.Context, filter model.StudentFilter) ([]*model.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	keep := func(st *model.Student) bool {
		if filter.Enrolled == nil {
			return true
		}
		enrolled := st.Enrolled != nil && *st.Enrolled
		return enrolled == *filter.Enrolled
	}
	return cloneAll(r.s.students, keep, cloneStudent), nil
}

func (r *studentRepo) FindFirst(ctx context.Context, id int) (*model.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneStudent(r.s.student(id)), nil
}

func (r *studentRepo) Create(ctx context.Context, in model.StudentCreate) (*model.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.department(in.DeptID) == nil {
		return nil, store.Referentialf("students.create", "department %d does not exist", in.DeptID)
	}
	for _, st := range r.s.students {
		if st.Email == in.Email {
			return nil, store.Wrap(store.KindGateway, "students.create", errUnique("students", "email"))
		}
	}
	now := r.s.timestamp()
	st := &model.Student{
		ID:        nextID(r.s.students, func(st *model.Student) int { return st.ID }),
		Email:     in.Email,
		FullName:  in.FullName,
		DeptID:    model.Int(in.DeptID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.students = append(r.s.students, st)
	return cloneStudent(st), nil
}

func (r *studentRepo) Update(ctx context.Context, id int, in model.StudentUpdate) (*model.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := r.s.student(id)
	if st == nil {
		return nil, nil
	}
	if in.Enrolled != nil {
		st.Enrolled = model.Bool(*in.Enrolled)
	}
	st.UpdatedAt = r.s.timestamp()
	return cloneStudent(st), nil
}

func (r *studentRepo) Department(ctx context.Context, studentID int) (*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st := r.s.student(studentID)
	if st == nil || st.DeptID == nil {
		return nil, nil
	}
	return cloneDepartment(r.s.department(*st.DeptID)), nil
}

type departmentRepo struct{ s *Store }

func (r *departmentRepo) FindMany(ctx context.Context) ([]*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(r.s.departments, nil, cloneDepartment), nil
}

func (r *departmentRepo) FindFirst(ctx context.Context, id int) (*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneDepartment(r.s.department(id)), nil
}

func (r *departmentRepo) Create(ctx context.Context, in model.DepartmentCreate) (*model.Department, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.timestamp()
	d := &model.Department{
		ID:          nextID(r.s.departments, func(d *model.Department) int { return d.ID }),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.departments = append(r.s.departments, d)
	return cloneDepartment(d), nil
}

func (r *departmentRepo) Students(ctx context.Context, deptID int) ([]*model.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(r.s.students, func(st *model.Student) bool {
		return st.DeptID != nil && *st.DeptID == deptID
	}, cloneStudent), nil
}

func (r *departmentRepo) Courses(ctx context.Context, deptID int) ([]*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(r.s.courses, func(c *model.Course) bool {
		return c.DeptID != nil && *c.DeptID == deptID
	}, cloneCourse), nil
}

type teacherRepo struct{ s *Store }

func (r *teacherRepo) FindMany(ctx context.Context) ([]*model.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(r.s.teachers, nil, cloneTeacher), nil
}

func (r *teacherRepo) FindFirst(ctx context.Context, id int) (*model.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneTeacher(r.s.teacher(id)), nil
}

// Create validates everything before writing so the teacher and its nested
// courses appear together or not at all.
func (r *teacherRepo) Create(ctx context.Context, in model.TeacherCreate) (*model.Teacher, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.teacherByEmail(in.Email) != nil {
		return nil, store.Wrap(store.KindGateway, "teachers.create", errUnique("teachers", "email"))
	}
	now := r.s.timestamp()
	t := &model.Teacher{
		ID:        nextID(r.s.teachers, func(t *model.Teacher) int { return t.ID }),
		Email:     in.Email,
		FullName:  in.FullName,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.teachers = append(r.s.teachers, t)
	for _, c := range in.Courses {
		r.s.courses = append(r.s.courses, &model.Course{
			ID:          nextID(r.s.courses, func(c *model.Course) int { return c.ID }),
			Code:        c.Code,
			Title:       c.Title,
			Description: c.Description,
			TeacherID:   model.Int(t.ID),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return cloneTeacher(t), nil
}

func (r *teacherRepo) Courses(ctx context.Context, teacherID int) ([]*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(r.s.courses, func(c *model.Course) bool {
		return c.TeacherID != nil && *c.TeacherID == teacherID
	}, cloneCourse), nil
}

type courseRepo struct{ s *Store }

func (r *courseRepo) FindMany(ctx context.Context) ([]*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneAll(r.s.courses, nil, cloneCourse), nil
}

func (r *courseRepo) FindFirst(ctx context.Context, id int) (*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneCourse(r.s.course(id)), nil
}

func (r *courseRepo) Create(ctx context.Context, in model.CourseCreate) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var teacherID *int
	if in.TeacherEmail != nil {
		t := r.s.teacherByEmail(*in.TeacherEmail)
		if t == nil {
			return nil, store.Referentialf("courses.create", "teacher with email %q does not exist", *in.TeacherEmail)
		}
		teacherID = model.Int(t.ID)
	}
	now := r.s.timestamp()
	c := &model.Course{
		ID:          nextID(r.s.courses, func(c *model.Course) int { return c.ID }),
		Code:        in.Code,
		Title:       in.Title,
		Description: in.Description,
		TeacherID:   teacherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.courses = append(r.s.courses, c)
	return cloneCourse(c), nil
}

func (r *courseRepo) Teacher(ctx context.Context, courseID int) (*model.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c := r.s.course(courseID)
	if c == nil || c.TeacherID == nil {
		return nil, nil
	}
	return cloneTeacher(r.s.teacher(*c.TeacherID)), nil
}

func (r *courseRepo) Department(ctx context.Context, courseID int) (*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c := r.s.course(courseID)
	if c == nil || c.DeptID == nil {
		return nil, nil
	}
	return cloneDepartment(r.s.department(*c.DeptID)), nil
}
