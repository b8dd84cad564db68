// Package model defines the school domain entities and the inputs used to
// create or change them.
package model

import "time"

type TeacherType string

const (
	TeacherTypeFullTime TeacherType = "FULLTIME"
	TeacherTypePartTime TeacherType = "PARTTIME"
)

// Valid reports whether t is one of the declared teacher types.
func (t TeacherType) Valid() bool {
	return t == TeacherTypeFullTime || t == TeacherTypePartTime
}

// Student belongs to at most one Department. Enrolled is nil until the
// student is enrolled for the first time.
type Student struct {
	ID        int
	Email     string
	FullName  string
	Enrolled  *bool
	DeptID    *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Department struct {
	ID          int
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Teacher struct {
	ID        int
	Email     string
	FullName  string
	Type      *TeacherType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Course links to a Teacher and a Department independently; both are optional.
type Course struct {
	ID          int
	Code        string
	Title       string
	Description *string
	TeacherID   *int
	DeptID      *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StudentFilter is an equality predicate over students. Nil fields match
// every student.
type StudentFilter struct {
	Enrolled *bool
}

type StudentCreate struct {
	Email    string
	FullName string
	DeptID   int
}

// StudentUpdate lists the only mutable student attribute.
type StudentUpdate struct {
	Enrolled *bool
}

type DepartmentCreate struct {
	Name        string
	Description *string
}

// TeacherCreate creates a teacher and, in the same write, every course in
// Courses attached to that teacher.
type TeacherCreate struct {
	Email    string
	FullName string
	Type     *TeacherType
	Courses  []CourseCreateWithoutTeacher
}

type CourseCreateWithoutTeacher struct {
	Code        string
	Title       string
	Description *string
}

// CourseCreate optionally connects the new course to an existing teacher
// by email.
type CourseCreate struct {
	Code         string
	Title        string
	Description  *string
	TeacherEmail *string
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Dataset is a set of rows with their ids and foreign keys already decided,
// used to seed a store.
type Dataset struct {
	Departments []Department
	Teachers    []Teacher
	Courses     []Course
	Students    []Student
}
