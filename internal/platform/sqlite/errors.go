package sqlite

import (
	"database/sql"
	"errors"
	"time"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isUniqueViolation checks if the given error is a sqlite unique or primary
// key constraint violation. This is used to detect when an insert collides
// with an existing row.
func isUniqueViolation(err error) bool {
	var sqlErr *sqlitedriver.Error
	if errors.As(err, &sqlErr) {
		code := sqlErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// isForeignKeyViolation checks if the given error is a sqlite foreign key
// constraint violation, which here means a referenced collection is missing.
func isForeignKeyViolation(err error) bool {
	var sqlErr *sqlitedriver.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}

// Timestamps are persisted as unix milliseconds so due-time comparisons can
// run in SQL. Zero times round-trip as NULL.

func timeToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullableMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: timeToMillis(t), Valid: true}
}

func timeFromNullable(ms sql.NullInt64) time.Time {
	if !ms.Valid {
		return time.Time{}
	}
	return millisToTime(ms.Int64)
}
