package sqlutil

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mcdev12/korfscore/go/internal/apperr"
)

const uniqueViolation = "23505"

// NotFound turns sql.ErrNoRows into an apperr not-found error naming what.
func NotFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(what)
	}
	return err
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
