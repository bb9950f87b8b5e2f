package domain

import "time"

// User is a locally stored account. PasswordHash never crosses package
// boundaries above internal/auth.
type User struct {
	ID           string
	Email        string // unique key
	FullName     string
	PasswordHash string
	CreatedAt    time.Time // UTC
}

// Session is the active identity after a successful sign-in or sign-up.
type Session struct {
	UserID   string
	Email    string
	FullName string
}
