package domain

import (
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	fullNameRe = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
)

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return &ValidationError{Field: "email", Msg: "invalid email address"}
	}
	return nil
}

// ValidatePassword enforces the registration password policy: at least 8
// characters with one uppercase letter, one lowercase letter, one digit and
// one symbol.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return &ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return &ValidationError{
			Field: "password",
			Msg:   "must contain at least one uppercase letter, one lowercase letter, one number, and one special character",
		}
	}
	return nil
}

// ValidateFullName allows 2-100 characters of letters, spaces, hyphens and
// apostrophes.
func ValidateFullName(name string) error {
	if len(name) < 2 {
		return &ValidationError{Field: "fullName", Msg: "must be at least 2 characters"}
	}
	if len(name) > 100 {
		return &ValidationError{Field: "fullName", Msg: "must not exceed 100 characters"}
	}
	if !fullNameRe.MatchString(name) {
		return &ValidationError{Field: "fullName", Msg: "can only contain letters, spaces, hyphens, and apostrophes"}
	}
	return nil
}
