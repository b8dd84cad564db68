// Package store declares the persistence gateway consumed by the resolvers:
// one repository per entity with lookup, create and relation accessors.
//
// Lookups by id return (nil, nil) when nothing matches. Failures are
// reported as *Error values classified by Kind.
package store

import (
	"context"

	model "github.com/hanpama/schoolgraph/internal/model"
)

type StudentRepository interface {
	FindMany(ctx context.Context, filter model.StudentFilter) ([]*model.Student, error)
	FindFirst(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, in model.StudentCreate) (*model.Student, error)
	// Update returns (nil, nil) when no student has the given id.
	Update(ctx context.Context, id int, in model.StudentUpdate) (*model.Student, error)
	// Department returns the department of the student with the given id.
	Department(ctx context.Context, studentID int) (*model.Department, error)
}

type DepartmentRepository interface {
	FindMany(ctx context.Context) ([]*model.Department, error)
	FindFirst(ctx context.Context, id int) (*model.Department, error)
	Create(ctx context.Context, in model.DepartmentCreate) (*model.Department, error)
	Students(ctx context.Context, deptID int) ([]*model.Student, error)
	Courses(ctx context.Context, deptID int) ([]*model.Course, error)
}

type TeacherRepository interface {
	FindMany(ctx context.Context) ([]*model.Teacher, error)
	FindFirst(ctx context.Context, id int) (*model.Teacher, error)
	// Create writes the teacher and its nested courses atomically.
	Create(ctx context.Context, in model.TeacherCreate) (*model.Teacher, error)
	Courses(ctx context.Context, teacherID int) ([]*model.Course, error)
}

type CourseRepository interface {
	FindMany(ctx context.Context) ([]*model.Course, error)
	FindFirst(ctx context.Context, id int) (*model.Course, error)
	Create(ctx context.Context, in model.CourseCreate) (*model.Course, error)
	Teacher(ctx context.Context, courseID int) (*model.Teacher, error)
	Department(ctx context.Context, courseID int) (*model.Department, error)
}

// Gateway bundles the per-entity repositories of one backing store.
type Gateway struct {
	Students    StudentRepository
	Departments DepartmentRepository
	Teachers    TeacherRepository
	Courses     CourseRepository
}
