package pgconv

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNoRows reports whether err is pgx's or database/sql's no-rows
// sentinel, regardless of wrapping.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
