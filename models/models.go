package models

import "database/sql"

// NullString wraps a string as sql.NullString, treating "" as NULL.
func NullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
