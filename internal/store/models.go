package store

import (
	"database/sql"
	"strings"
	"time"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func fromNullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func unix(t time.Time) int64 { return t.UTC().Unix() }

func fromUnix(v int64) time.Time { return time.Unix(v, 0).UTC() }

// Seats are stored as a single comma-joined column.
func joinSeats(seats []string) string { return strings.Join(seats, ",") }

func splitSeats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
