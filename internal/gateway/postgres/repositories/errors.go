// Package repositories holds the SQL repositories behind the self-hosted
// gateway, one subpackage per table.
package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
	invalidText     = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == uniqueViolation
}

// IsCheckViolation reports whether err is a PostgreSQL check_violation.
func IsCheckViolation(err error) bool {
	return pgCode(err) == checkViolation
}

// IsInvalidText reports whether a parameter could not be parsed into the
// column type, e.g. a malformed uuid.
func IsInvalidText(err error) bool {
	return pgCode(err) == invalidText
}
