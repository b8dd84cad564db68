package store

import (
	"context"
	"sync/atomic"
	"time"

	eventbus "github.com/hanpama/schoolgraph/internal/eventbus"
	events "github.com/hanpama/schoolgraph/internal/events"
	model "github.com/hanpama/schoolgraph/internal/model"
)

// Instrument wraps every repository of g so that each call publishes
// events.GatewayCallStart and events.GatewayCallFinish on bus.
func Instrument(g Gateway, bus *eventbus.Bus) Gateway {
	in := &instrumenter{bus: bus}
	return Gateway{
		Students:    &students{in: in, next: g.Students},
		Departments: &departments{in: in, next: g.Departments},
		Teachers:    &teachers{in: in, next: g.Teachers},
		Courses:     &courses{in: in, next: g.Courses},
	}
}

type instrumenter struct {
	bus *eventbus.Bus
	seq atomic.Uint64
}

func observe[T any](ctx context.Context, in *instrumenter, entity, op string, call func() (T, error)) (T, error) {
	id := in.seq.Add(1)
	eventbus.Publish(ctx, in.bus, events.GatewayCallStart{CallID: id, Entity: entity, Op: op})
	start := time.Now()
	v, err := call()
	eventbus.Publish(ctx, in.bus, events.GatewayCallFinish{
		CallID:   id,
		Entity:   entity,
		Op:       op,
		Err:      err,
		Kind:     string(KindOf(err)),
		Duration: time.Since(start),
	})
	return v, err
}

type students struct {
	in   *instrumenter
	next StudentRepository
}

func (r *students) FindMany(ctx context.Context, filter model.StudentFilter) ([]*model.Student, error) {
	return observe(ctx, r.in, "student", "find_many", func() ([]*model.Student, error) { return r.next.FindMany(ctx, filter) })
}

func (r *students) FindFirst(ctx context.Context, id int) (*model.Student, error) {
	return observe(ctx, r.in, "student", "find_first", func() (*model.Student, error) { return r.next.FindFirst(ctx, id) })
}

func (r *students) Create(ctx context.Context, in model.StudentCreate) (*model.Student, error) {
	return observe(ctx, r.in, "student", "create", func() (*model.Student, error) { return r.next.Create(ctx, in) })
}

func (r *students) Update(ctx context.Context, id int, in model.StudentUpdate) (*model.Student, error) {
	return observe(ctx, r.in, "student", "update", func() (*model.Student, error) { return r.next.Update(ctx, id, in) })
}

func (r *students) Department(ctx context.Context, studentID int) (*model.Department, error) {
	return observe(ctx, r.in, "student", "department", func() (*model.Department, error) { return r.next.Department(ctx, studentID) })
}

type departments struct {
	in   *instrumenter
	next DepartmentRepository
}

func (r *departments) FindMany(ctx context.Context) ([]*model.Department, error) {
	return observe(ctx, r.in, "department", "find_many", func() ([]*model.Department, error) { return r.next.FindMany(ctx) })
}

func (r *departments) FindFirst(ctx context.Context, id int) (*model.Department, error) {
	return observe(ctx, r.in, "department", "find_first", func() (*model.Department, error) { return r.next.FindFirst(ctx, id) })
}

func (r *departments) Create(ctx context.Context, in model.DepartmentCreate) (*model.Department, error) {
	return observe(ctx, r.in, "department", "create", func() (*model.Department, error) { return r.next.Create(ctx, in) })
}

func (r *departments) Students(ctx context.Context, deptID int) ([]*model.Student, error) {
	return observe(ctx, r.in, "department", "students", func() ([]*model.Student, error) { return r.next.Students(ctx, deptID) })
}

func (r *departments) Courses(ctx context.Context, deptID int) ([]*model.Course, error) {
	return observe(ctx, r.in, "department", "courses", func() ([]*model.Course, error) { return r.next.Courses(ctx, deptID) })
}

type teachers struct {
	in   *instrumenter
	next TeacherRepository
}

func (r *teachers) FindMany(ctx context.Context) ([]*model.Teacher, error) {
	return observe(ctx, r.in, "teacher", "find_many", func() ([]*model.Teacher, error) { return r.next.FindMany(ctx) })
}

func (r *teachers) FindFirst(ctx context.Context, id int) (*model.Teacher, error) {
	return observe(ctx, r.in, "teacher", "find_first", func() (*model.Teacher, error) { return r.next.FindFirst(ctx, id) })
}

func (r *teachers) Create(ctx context.Context, in model.TeacherCreate) (*model.Teacher, error) {
	return observe(ctx, r.in, "teacher", "create", func() (*model.Teacher, error) { return r.next.Create(ctx, in) })
}

func (r *teachers) Courses(ctx context.Context, teacherID int) ([]*model.Course, error) {
	return observe(ctx, r.in, "teacher", "courses", func() ([]*model.Course, error) { return r.next.Courses(ctx, teacherID) })
}

type courses struct {
	in   *instrumenter
	next CourseRepository
}

func (r *courses) FindMany(ctx context.Context) ([]*model.Course, error) {
	return observe(ctx, r.in, "course", "find_many", func() ([]*model.Course, error) { return r.next.FindMany(ctx) })
}

func (r *courses) FindFirst(ctx context.Context, id int) (*model.Course, error) {
	return observe(ctx, r.in, "course", "find_first", func() (*model.Course, error) { return r.next.FindFirst(ctx, id) })
}

func (r *courses) Create(ctx context.Context, in model.CourseCreate) (*model.Course, error) {
	return observe(ctx, r.in, "course", "create", func() (*model.Course, error) { return r.next.Create(ctx, in) })
}

func (r *courses) Teacher(ctx context.Context, courseID int) (*model.Teacher, error) {
	return observe(ctx, r.in, "course", "teacher", func() (*model.Teacher, error) { return r.next.Teacher(ctx, courseID) })
}

func (r *courses) Department(ctx context.Context, courseID int) (*model.Department, error) {
	return observe(ctx, r.in, "course", "department", func() (*model.Department, error) { return r.next.Department(ctx, courseID) })
}
