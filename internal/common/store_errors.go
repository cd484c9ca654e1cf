package common

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// TranslateStoreError maps a database error onto the API error taxonomy.
// notFound and conflict are the details attached to the respective errors.
// Errors that already are API errors pass through unchanged.
func TranslateStoreError(err error, notFound, conflict string) error {
	if err == nil {
		return nil
	}
	if _, ok := IsAPIError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound.WithDetails(notFound)
	case IsUniqueViolation(err):
		return ErrConflict.WithDetails(conflict)
	case IsStoreUnavailable(err):
		return fmt.Errorf("%w: %v", ErrServiceUnavailable.WithDetails("The data store is temporarily unavailable. Please retry."), err)
	}
	return err
}

// IsUniqueViolation reports whether err was caused by a unique constraint.
// Both drivers surface gorm.ErrDuplicatedKey when TranslateError is on.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsStoreUnavailable reports whether err means the store could not be reached in time.
func IsStoreUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
