package store

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE foreign_key_violation
const foreignKeyViolation = "23503"

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// writeError maps the failure of a write that scans its RETURNING row.
// A missing row becomes notFound and a foreign key violation becomes
// fkViolation; either may be nil to leave that case wrapped.
func writeError(err error, action string, notFound, fkViolation error) error {
	switch {
	case notFound != nil && pgxscan.NotFound(err):
		return notFound
	case fkViolation != nil && isForeignKeyViolation(err):
		return fkViolation
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
