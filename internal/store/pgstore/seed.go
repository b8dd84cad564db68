package pgstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	model "github.com/hanpama/schoolgraph/internal/model"
	store "github.com/hanpama/schoolgraph/internal/store"
)

// Seed inserts fixed rows in one transaction, keeping their ids and foreign
// keys, then moves every id sequence past the highest id.
func (s *Store) Seed(ctx context.Context, data model.Dataset) error {
	return s.withTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, d := range data.Departments {
			if err := s.seedRow(ctx, tx, "departments", d.ID, map[string]any{
				"name":        d.Name,
				"description": d.Description,
			}, d.CreatedAt, d.UpdatedAt); err != nil {
				return err
			}
		}
		for _, t := range data.Teachers {
			if err := s.seedRow(ctx, tx, "teachers", t.ID, map[string]any{
				"email":     t.Email,
				"full_name": t.FullName,
				"type":      teacherTypeArg(t.Type),
			}, t.CreatedAt, t.UpdatedAt); err != nil {
				return err
			}
		}
		for _, c := range data.Courses {
			if err := s.seedRow(ctx, tx, "courses", c.ID, map[string]any{
				"code":        c.Code,
				"title":       c.Title,
				"description": c.Description,
				"teacher_id":  c.TeacherID,
				"dept_id":     c.DeptID,
			}, c.CreatedAt, c.UpdatedAt); err != nil {
				return err
			}
		}
		for _, st := range data.Students {
			if err := s.seedRow(ctx, tx, "students", st.ID, map[string]any{
				"email":     st.Email,
				"full_name": st.FullName,
				"enrolled":  st.Enrolled,
				"dept_id":   st.DeptID,
			}, st.CreatedAt, st.UpdatedAt); err != nil {
				return err
			}
		}
		for _, table := range []string{"departments", "teachers", "courses", "students"} {
			sql := "SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), COALESCE((SELECT MAX(id) FROM " + table + "), 0) + 1, false)"
			if _, err := tx.Exec(ctx, sql); err != nil {
				return classify("seed."+table, err)
			}
		}
		return nil
	})
}

func (s *Store) seedRow(ctx context.Context, tx pgx.Tx, table string, id int, values map[string]any, createdAt, updatedAt time.Time) error {
	if id != 0 {
		values["id"] = id
	}
	if !createdAt.IsZero() {
		values["created_at"] = createdAt
	}
	if !updatedAt.IsZero() {
		values["updated_at"] = updatedAt
	}
	sql, args, err := s.sb.Insert(table).SetMap(values).ToSql()
	if err != nil {
		return store.Wrap(store.KindGateway, "seed."+table, err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return classify("seed."+table, err)
	}
	return nil
}
