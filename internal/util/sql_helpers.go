package util

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
)

// StringToNullString converts a string to sql.NullString.
// An empty string is treated as NULL.
func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NullStringToString returns "" for NULL.
func NullStringToString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

// BoolToInt maps a bool onto the 0/1 NUMBER columns used by every dialect.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// TextHash returns the hex SHA-256 of s. Long natural keys (question text) are
// indexed by this hash because Oracle cannot put a unique index on a CLOB.
func TextHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
