package resolver

import (
	"context"
	"fmt"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
)

var queryOperations = rootTable{
	"enrollment": func(ctx context.Context, gw store.Gateway, _ map[string]any) (any, error) {
		return many(gw.Students.FindMany(ctx, model.StudentFilter{Enrolled: model.Bool(true)}))
	},
	"students": func(ctx context.Context, gw store.Gateway, _ map[string]any) (any, error) {
		return many(gw.Students.FindMany(ctx, model.StudentFilter{}))
	},
	"student": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		id, err := intArg(args, "id")
		if err != nil {
			return nil, err
		}
		return one(gw.Students.FindFirst(ctx, id))
	},
	"departments": func(ctx context.Context, gw store.Gateway, _ map[string]any) (any, error) {
		return many(gw.Departments.FindMany(ctx))
	},
	"department": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		id, err := intArg(args, "id")
		if err != nil {
			return nil, err
		}
		return one(gw.Departments.FindFirst(ctx, id))
	},
	"courses": func(ctx context.Context, gw store.Gateway, _ map[string]any) (any, error) {
		return many(gw.Courses.FindMany(ctx))
	},
	"course": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		id, err := intArg(args, "id")
		if err != nil {
			return nil, err
		}
		return one(gw.Courses.FindFirst(ctx, id))
	},
	"teachers": func(ctx context.Context, gw store.Gateway, _ map[string]any) (any, error) {
		return many(gw.Teachers.FindMany(ctx))
	},
	"teacher": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		id, err := intArg(args, "id")
		if err != nil {
			return nil, err
		}
		return one(gw.Teachers.FindFirst(ctx, id))
	},
}

// Each mutation is a single gateway write. Gateway failures are returned
// unchanged so their classification reaches the response.
var mutationOperations = rootTable{
	"registerStudent": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		var in model.StudentCreate
		var err error
		if in.Email, err = stringArg(args, "email"); err != nil {
			return nil, err
		}
		if in.FullName, err = stringArg(args, "fullName"); err != nil {
			return nil, err
		}
		if in.DeptID, err = intArg(args, "deptId"); err != nil {
			return nil, err
		}
		return one(gw.Students.Create(ctx, in))
	},
	"enroll": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		id, err := intArg(args, "id")
		if err != nil {
			return nil, err
		}
		// A missing student resolves to null rather than an error.
		return one(gw.Students.Update(ctx, id, model.StudentUpdate{Enrolled: model.Bool(true)}))
	},
	"createTeacher": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		data, ok := args["data"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("argument 'data': expected TeacherCreateInput, got %T", args["data"])
		}
		in, err := decodeTeacherCreate(data)
		if err != nil {
			return nil, err
		}
		return one(gw.Teachers.Create(ctx, in))
	},
	"createCourse": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		var in model.CourseCreate
		var err error
		if in.Code, err = stringArg(args, "code"); err != nil {
			return nil, err
		}
		if in.Title, err = stringArg(args, "title"); err != nil {
			return nil, err
		}
		if in.TeacherEmail, err = optStringArg(args, "teacherEmail"); err != nil {
			return nil, err
		}
		return one(gw.Courses.Create(ctx, in))
	},
	"createDepartment": func(ctx context.Context, gw store.Gateway, args map[string]any) (any, error) {
		var in model.DepartmentCreate
		var err error
		if in.Name, err = stringArg(args, "name"); err != nil {
			return nil, err
		}
		if in.Description, err = optStringArg(args, "description"); err != nil {
			return nil, err
		}
		return one(gw.Departments.Create(ctx, in))
	},
}

func decodeTeacherCreate(data map[string]any) (model.TeacherCreate, error) {
	var in model.TeacherCreate
	var err error
	if in.Email, err = stringArg(data, "email"); err != nil {
		return in, err
	}
	if in.FullName, err = stringArg(data, "fullName"); err != nil {
		return in, err
	}
	typ, err := optStringArg(data, "type")
	if err != nil {
		return in, err
	}
	if typ != nil {
		t := model.TeacherType(*typ)
		if !t.Valid() {
			return in, fmt.Errorf("argument 'type': unknown teacher type %q", *typ)
		}
		in.Type = &t
	}
	raw, present := data["courses"]
	if !present || raw == nil {
		return in, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return in, fmt.Errorf("argument 'courses': expected a list, got %T", raw)
	}
	in.Courses = make([]model.CourseCreateWithoutTeacher, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return in, fmt.Errorf("argument 'courses[%d]': expected CourseCreateWithoutTeacherInput, got %T", i, item)
		}
		var c model.CourseCreateWithoutTeacher
		if c.Code, err = stringArg(m, "code"); err != nil {
			return in, err
		}
		if c.Title, err = stringArg(m, "title"); err != nil {
			return in, err
		}
		if c.Description, err = optStringArg(m, "description"); err != nil {
			return in, err
		}
		in.Courses = append(in.Courses, c)
	}
	return in, nil
}

func intArg(args map[string]any, name string) (int, error) {
	v, ok := args[name].(int)
	if !ok {
		return 0, fmt.Errorf("argument '%s': expected Int, got %T", name, args[name])
	}
	return v, nil
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("argument '%s': expected String, got %T", name, args[name])
	}
	return v, nil
}

// optStringArg returns nil for an absent or null argument.
func optStringArg(args map[string]any, name string) (*string, error) {
	raw, present := args[name]
	if !present || raw == nil {
		return nil, nil
	}
	v, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("argument '%s': expected String, got %T", name, raw)
	}
	return &v, nil
}
