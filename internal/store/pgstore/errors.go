package pgstore

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	logging "github.com/hanpama/schoolgraph/internal/logging"
	store "github.com/hanpama/schoolgraph/internal/store"
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// classify maps a PostgreSQL error onto the store error kinds.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolation:
			return store.Wrap(store.KindReferential, op, err)
		case uniqueViolation:
			return store.Wrap(store.KindGateway, op, err)
		}
	}
	logging.Error().Err(err).Str("op", op).Msg("gateway query failed")
	return store.Wrap(store.KindGateway, op, err)
}
