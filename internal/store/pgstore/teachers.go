package pgstore

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
)

var teacherColumns = []string{"id", "email", "full_name", "type", "created_at", "updated_at"}

func scanTeacher(row pgx.Row) (*model.Teacher, error) {
	t := &model.Teacher{}
	var typ *string
	if err := row.Scan(&t.ID, &t.Email, &t.FullName, &typ, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if typ != nil {
		tt := model.TeacherType(*typ)
		t.Type = &tt
	}
	t.CreatedAt, t.UpdatedAt = t.CreatedAt.UTC(), t.UpdatedAt.UTC()
	return t, nil
}

func teacherTypeArg(t *model.TeacherType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

type teacherRepo struct{ s *Store }

func (r *teacherRepo) FindMany(ctx context.Context) ([]*model.Teacher, error) {
	q := r.s.sb.Select(teacherColumns...).From("teachers").OrderBy("id")
	return queryMany(ctx, r.s.pool, "teachers.find_many", q, scanTeacher)
}

func (r *teacherRepo) FindFirst(ctx context.Context, id int) (*model.Teacher, error) {
	q := r.s.sb.Select(teacherColumns...).From("teachers").Where(squirrel.Eq{"id": id}).Limit(1)
	return queryOne(ctx, r.s.pool, "teachers.find_first", q, scanTeacher)
}

// Create inserts the teacher and its nested courses in one transaction.
func (r *teacherRepo) Create(ctx context.Context, in model.TeacherCreate) (*model.Teacher, error) {
	var created *model.Teacher
	err := r.s.withTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		q := r.s.sb.Insert("teachers").
			Columns("email", "full_name", "type").
			Values(in.Email, in.FullName, teacherTypeArg(in.Type)).
			Suffix("RETURNING " + joinColumns(teacherColumns))
		t, err := queryOne(ctx, tx, "teachers.create", q, scanTeacher)
		if err != nil {
			return err
		}
		created = t
		if len(in.Courses) == 0 {
			return nil
		}

		ins := r.s.sb.Insert("courses").Columns("code", "title", "description", "teacher_id")
		for _, c := range in.Courses {
			ins = ins.Values(c.Code, c.Title, c.Description, t.ID)
		}
		sql, args, err := ins.ToSql()
		if err != nil {
			return store.Wrap(store.KindGateway, "teachers.create", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return classify("teachers.create", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *teacherRepo) Courses(ctx context.Context, teacherID int) ([]*model.Course, error) {
	q := r.s.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"teacher_id": teacherID}).OrderBy("id")
	return queryMany(ctx, r.s.pool, "teachers.courses", q, scanCourse)
}
