package pgstore

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	model "github.com/hanpama/schoolgraph/internal/model"
)

var studentColumns = []string{"id", "email", "full_name", "enrolled", "dept_id", "created_at", "updated_at"}

func scanStudent(row pgx.Row) (*model.Student, error) {
	st := &model.Student{}
	if err := row.Scan(&st.ID, &st.Email, &st.FullName, &st.Enrolled, &st.DeptID, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	st.CreatedAt, st.UpdatedAt = st.CreatedAt.UTC(), st.UpdatedAt.UTC()
	return st, nil
}

type studentRepo struct{ s *Store }

func (r *studentRepo) FindMany(ctx context.Context, filter model.StudentFilter) ([]*model.Student, error) {
	q := r.s.sb.Select(studentColumns...).From("students").OrderBy("id")
	if filter.Enrolled != nil {
		if *filter.Enrolled {
			q = q.Where(squirrel.Eq{"enrolled": true})
		} else {
			q = q.Where(squirrel.Or{squirrel.Eq{"enrolled": nil}, squirrel.Eq{"enrolled": false}})
		}
	}
	return queryMany(ctx, r.s.pool, "students.find_many", q, scanStudent)
}

func (r *studentRepo) FindFirst(ctx context.Context, id int) (*model.Student, error) {
	q := r.s.sb.Select(studentColumns...).From("students").Where(squirrel.Eq{"id": id}).Limit(1)
	return queryOne(ctx, r.s.pool, "students.find_first", q, scanStudent)
}

func (r *studentRepo) Create(ctx context.Context, in model.StudentCreate) (*model.Student, error) {
	q := r.s.sb.Insert("students").
		Columns("email", "full_name", "dept_id").
		Values(in.Email, in.FullName, in.DeptID).
		Suffix("RETURNING " + joinColumns(studentColumns))
	return queryOne(ctx, r.s.pool, "students.create", q, scanStudent)
}

func (r *studentRepo) Update(ctx context.Context, id int, in model.StudentUpdate) (*model.Student, error) {
	set := map[string]any{"updated_at": squirrel.Expr("now()")}
	if in.Enrolled != nil {
		set["enrolled"] = *in.Enrolled
	}
	q := r.s.sb.Update("students").
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(studentColumns))
	return queryOne(ctx, r.s.pool, "students.update", q, scanStudent)
}

func (r *studentRepo) Department(ctx context.Context, studentID int) (*model.Department, error) {
	q := r.s.sb.Select(qualify("d", departmentColumns)...).
		From("students s").
		Join("departments d ON d.id = s.dept_id").
		Where(squirrel.Eq{"s.id": studentID})
	return queryOne(ctx, r.s.pool, "students.department", q, scanDepartment)
}
