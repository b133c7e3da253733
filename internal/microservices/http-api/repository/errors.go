package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUserNotFound is returned when the acting user's row no longer exists, e.g. the account was
// deleted while its access token is still valid.
var ErrUserNotFound = errors.New("user not found")

// Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a unique index rejecting a row.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
