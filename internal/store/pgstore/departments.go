package pgstore

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	model "github.com/hanpama/schoolgraph/internal/model"
)

var departmentColumns = []string{"id", "name", "description", "created_at", "updated_at"}

func joinColumns(columns []string) string { return strings.Join(columns, ", ") }

func scanDepartment(row pgx.Row) (*model.Department, error) {
	d := &model.Department{}
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.CreatedAt, d.UpdatedAt = d.CreatedAt.UTC(), d.UpdatedAt.UTC()
	return d, nil
}

type departmentRepo struct{ s *Store }

func (r *departmentRepo) FindMany(ctx context.Context) ([]*model.Department, error) {
	q := r.s.sb.Select(departmentColumns...).From("departments").OrderBy("id")
	return queryMany(ctx, r.s.pool, "departments.find_many", q, scanDepartment)
}

func (r *departmentRepo) FindFirst(ctx context.Context, id int) (*model.Department, error) {
	q := r.s.sb.Select(departmentColumns...).From("departments").Where(squirrel.Eq{"id": id}).Limit(1)
	return queryOne(ctx, r.s.pool, "departments.find_first", q, scanDepartment)
}

func (r *departmentRepo) Create(ctx context.Context, in model.DepartmentCreate) (*model.Department, error) {
	q := r.s.sb.Insert("departments").
		Columns("name", "description").
		Values(in.Name, in.Description).
		Suffix("RETURNING " + joinColumns(departmentColumns))
	return queryOne(ctx, r.s.pool, "departments.create", q, scanDepartment)
}

func (r *departmentRepo) Students(ctx context.Context, deptID int) ([]*model.Student, error) {
	q := r.s.sb.Select(studentColumns...).From("students").Where(squirrel.Eq{"dept_id": deptID}).OrderBy("id")
	return queryMany(ctx, r.s.pool, "departments.students", q, scanStudent)
}

func (r *departmentRepo) Courses(ctx context.Context, deptID int) ([]*model.Course, error) {
	q := r.s.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"dept_id": deptID}).OrderBy("id")
	return queryMany(ctx, r.s.pool, "departments.courses", q, scanCourse)
}
