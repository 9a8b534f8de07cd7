package db

import (
	"errors"
	"strings"
)

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintName is provided, the helper looks for
// the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether the provided error references a
// foreign key constraint violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// IsSerializationFailure reports whether the error chain references a
// transaction that lost a serialization conflict and is safe to replay.
// Postgres reports SQLSTATE 40001; SQLite surfaces the same contention as a
// locked database. The chain is walked because services wrap repository
// errors before they reach the transaction runner.
func IsSerializationFailure(err error) bool {
	for err != nil {
		msg := err.Error()
		if strings.Contains(msg, "could not serialize access") ||
			strings.Contains(msg, "SQLSTATE 40001") ||
			strings.Contains(msg, "database is locked") ||
			strings.Contains(msg, "database table is locked") {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
