package pgstore

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	store "github.com/hanpama/schoolgraph/internal/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want store.Kind
	}{
		{"foreign key", &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}, store.KindReferential},
		{"wrapped foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), store.KindReferential},
		{"unique", &pgconn.PgError{Code: "23505"}, store.KindGateway},
		{"other", fmt.Errorf("connection reset"), store.KindGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("students.create", tt.err)
			require.Equal(t, tt.want, store.KindOf(got))
			require.Equal(t, tt.err.Error(), got.Error())
		})
	}
	require.Nil(t, classify("op", nil))
}

func TestMigrate_RejectsUnknownCommand(t *testing.T) {
	err := Migrate(t.Context(), nil, "sideways")
	require.ErrorContains(t, err, `unknown migration command "sideways"`)
}

func TestQueries_BuildExpectedSQL(t *testing.T) {
	s := New(nil)
	sql, args, err := s.sb.Select(qualify("d", departmentColumns)...).
		From("students s").
		Join("departments d ON d.id = s.dept_id").
		Where(map[string]any{"s.id": 4}).
		ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT d.id, d.name, d.description, d.created_at, d.updated_at FROM students s JOIN departments d ON d.id = s.dept_id WHERE s.id = $1", sql)
	require.Equal(t, []any{4}, args)
}
