package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/PetWolowitz/HodeWay/internal/domain"
)

// bcrypt work factor, fixed for all stored hashes.
const hashCost = 12

// HashPassword returns a one-way bcrypt hash of plaintext.
func HashPassword(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", &domain.SecurityError{Msg: "error hashing password"}
	}
	return string(h), nil
}

// VerifyPassword reports whether plaintext matches hash. A mismatch yields
// (false, nil); only an internal failure (e.g. a malformed hash) yields an
// error.
func VerifyPassword(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, &domain.SecurityError{Msg: "error verifying password"}
}
