package pgstore

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
)

var courseColumns = []string{"id", "code", "title", "description", "teacher_id", "dept_id", "created_at", "updated_at"}

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	if err := row.Scan(&c.ID, &c.Code, &c.Title, &c.Description, &c.TeacherID, &c.DeptID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = c.CreatedAt.UTC(), c.UpdatedAt.UTC()
	return c, nil
}

type courseRepo struct{ s *Store }

func (r *courseRepo) FindMany(ctx context.Context) ([]*model.Course, error) {
	q := r.s.sb.Select(courseColumns...).From("courses").OrderBy("id")
	return queryMany(ctx, r.s.pool, "courses.find_many", q, scanCourse)
}

func (r *courseRepo) FindFirst(ctx context.Context, id int) (*model.Course, error) {
	q := r.s.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id}).Limit(1)
	return queryOne(ctx, r.s.pool, "courses.find_first", q, scanCourse)
}

// Create resolves the teacher email and inserts the course in one
// transaction. An unknown email is a referential failure.
func (r *courseRepo) Create(ctx context.Context, in model.CourseCreate) (*model.Course, error) {
	var created *model.Course
	err := r.s.withTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var teacherID *int
		if in.TeacherEmail != nil {
			sql, args, err := r.s.sb.Select("id").From("teachers").Where(squirrel.Eq{"email": *in.TeacherEmail}).ToSql()
			if err != nil {
				return store.Wrap(store.KindGateway, "courses.create", err)
			}
			var id int
			if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return store.Referentialf("courses.create", "teacher with email %q does not exist", *in.TeacherEmail)
				}
				return classify("courses.create", err)
			}
			teacherID = &id
		}
		q := r.s.sb.Insert("courses").
			Columns("code", "title", "description", "teacher_id").
			Values(in.Code, in.Title, in.Description, teacherID).
			Suffix("RETURNING " + joinColumns(courseColumns))
		c, err := queryOne(ctx, tx, "courses.create", q, scanCourse)
		created = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *courseRepo) Teacher(ctx context.Context, courseID int) (*model.Teacher, error) {
	q := r.s.sb.Select(qualify("t", teacherColumns)...).
		From("courses c").
		Join("teachers t ON t.id = c.teacher_id").
		Where(squirrel.Eq{"c.id": courseID})
	return queryOne(ctx, r.s.pool, "courses.teacher", q, scanTeacher)
}

func (r *courseRepo) Department(ctx context.Context, courseID int) (*model.Department, error) {
	q := r.s.sb.Select(qualify("d", departmentColumns)...).
		From("courses c").
		Join("departments d ON d.id = c.dept_id").
		Where(squirrel.Eq{"c.id": courseID})
	return queryOne(ctx, r.s.pool, "courses.department", q, scanDepartment)
}
