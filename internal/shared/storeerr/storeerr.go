// Package storeerr separates "the store could not be reached" from ordinary
// query failures for both record store backends. Callers still answer 500;
// the distinction exists for logs and error codes.
package storeerr

import (
	"context"
	"database/sql/driver"
	"errors"

	"go-emp-mgmt/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return true
	}

	if errors.Is(err, mongo.ErrClientDisconnected) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	return false
}

// Classify wraps connectivity failures in apperror.ErrStoreUnavailable and
// returns every other error unchanged.
func Classify(err error) error {
	if IsUnavailable(err) {
		return apperror.ErrStoreUnavailable.WithCause(err)
	}
	return err
}
