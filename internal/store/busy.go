package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// SQLITE_BUSY primary result code.
const sqliteBusy = 5

// busyBackoff is the wait schedule between attempts when another process
// holds the write lock. len(busyBackoff)+1 attempts are made in total.
var busyBackoff = []time.Duration{
	10 * time.Millisecond,
	25 * time.Millisecond,
	60 * time.Millisecond,
	150 * time.Millisecond,
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code()&0xff == sqliteBusy {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func withBusyRetry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	for _, wait := range busyBackoff {
		result, err := op()
		if !isBusy(err) {
			return result, err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return op()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return withBusyRetry(ctx, func() (sql.Result, error) {
		return s.db.ExecContext(ctx, query, args...)
	})
}
