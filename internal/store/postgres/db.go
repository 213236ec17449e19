// Package postgres implements the store interfaces on PostgreSQL with pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/feedbackx/feedbackx-backend/internal/store"
	"github.com/feedbackx/feedbackx-backend/types"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the stores use. pgxmock pools satisfy
// it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Unique constraint names from the migrations, mapped to request fields.
const (
	constraintCollectionName   = "feedback_collections_name_unique"
	constraintCollectionKey    = "feedback_collections_key_unique"
	constraintCollectionAPIKey = "feedback_collections_api_key_unique"
)

var constraintFields = map[string]string{
	constraintCollectionName:   "name",
	constraintCollectionKey:    "key",
	constraintCollectionAPIKey: "apiKey",
}

// mapWriteError turns constraint violations into store errors and wraps
// everything else with op.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &store.UniqueViolation{
				Field:      constraintFields[pgErr.ConstraintName],
				Constraint: pgErr.ConstraintName,
				Err:        err,
			}
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, store.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// jsonArg passes nil metadata as SQL NULL instead of a JSON null.
func jsonArg(m types.Metadata) any {
	if m == nil {
		return nil
	}
	return m
}
