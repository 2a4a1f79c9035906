package db

import "strings"

// IsUniqueViolation reports whether the error is a Postgres unique violation.
// With a constraintName it matches that constraint specifically; without one
// it falls back to the generic duplicate-key text.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
