package resolver

import (
	"context"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
)

// Relations are resolved lazily: a relation field issues its own gateway
// lookup, keyed on the parent's id, only when it is selected.

var studentFields = fieldTable[*model.Student]{
	"id":        project(func(s *model.Student) any { return s.ID }),
	"email":     project(func(s *model.Student) any { return s.Email }),
	"fullName":  project(func(s *model.Student) any { return s.FullName }),
	"enrolled":  project(func(s *model.Student) any { return opt(s.Enrolled) }),
	"createdAt": project(func(s *model.Student) any { return s.CreatedAt }),
	"updatedAt": project(func(s *model.Student) any { return s.UpdatedAt }),
	"dept": relation(func(ctx context.Context, gw store.Gateway, s *model.Student) (any, error) {
		return one(gw.Students.Department(ctx, s.ID))
	}),
}

var departmentFields = fieldTable[*model.Department]{
	"id":          project(func(d *model.Department) any { return d.ID }),
	"name":        project(func(d *model.Department) any { return d.Name }),
	"description": project(func(d *model.Department) any { return opt(d.Description) }),
	"createdAt":   project(func(d *model.Department) any { return d.CreatedAt }),
	"updatedAt":   project(func(d *model.Department) any { return d.UpdatedAt }),
	"students": relation(func(ctx context.Context, gw store.Gateway, d *model.Department) (any, error) {
		return many(gw.Departments.Students(ctx, d.ID))
	}),
	"courses": relation(func(ctx context.Context, gw store.Gateway, d *model.Department) (any, error) {
		return many(gw.Departments.Courses(ctx, d.ID))
	}),
}

var teacherFields = fieldTable[*model.Teacher]{
	"id":        project(func(t *model.Teacher) any { return t.ID }),
	"email":     project(func(t *model.Teacher) any { return t.Email }),
	"fullName":  project(func(t *model.Teacher) any { return t.FullName }),
	"type":      project(func(t *model.Teacher) any { return opt(t.Type) }),
	"createdAt": project(func(t *model.Teacher) any { return t.CreatedAt }),
	"updatedAt": project(func(t *model.Teacher) any { return t.UpdatedAt }),
	"courses": relation(func(ctx context.Context, gw store.Gateway, t *model.Teacher) (any, error) {
		return many(gw.Teachers.Courses(ctx, t.ID))
	}),
}

var courseFields = fieldTable[*model.Course]{
	"id":          project(func(c *model.Course) any { return c.ID }),
	"code":        project(func(c *model.Course) any { return c.Code }),
	"title":       project(func(c *model.Course) any { return c.Title }),
	"description": project(func(c *model.Course) any { return opt(c.Description) }),
	"createdAt":   project(func(c *model.Course) any { return c.CreatedAt }),
	"updatedAt":   project(func(c *model.Course) any { return c.UpdatedAt }),
	"teacher": relation(func(ctx context.Context, gw store.Gateway, c *model.Course) (any, error) {
		return one(gw.Courses.Teacher(ctx, c.ID))
	}),
	"dept": relation(func(ctx context.Context, gw store.Gateway, c *model.Course) (any, error) {
		return one(gw.Courses.Department(ctx, c.ID))
	}),
}

// entityBindings returns the erased tables of every entity type.
func entityBindings() map[string]map[string]binding {
	return map[string]map[string]binding{
		"Student":    studentFields.erase("Student", func(s *model.Student) int { return s.ID }),
		"Department": departmentFields.erase("Department", func(d *model.Department) int { return d.ID }),
		"Teacher":    teacherFields.erase("Teacher", func(t *model.Teacher) int { return t.ID }),
		"Course":     courseFields.erase("Course", func(c *model.Course) int { return c.ID }),
	}
}
