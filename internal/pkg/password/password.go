// Package password hashes and verifies account credentials with bcrypt. The
// stored hash is opaque to the rest of the service; only this package reads
// or produces it.
package password

import (
	"psyconnect/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword = errs.New("password must not be empty")
	ErrHashingFailed = errs.New("password hashing failed")
	ErrWrongPassword = errs.New("password does not match")
)

func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Mark(err, ErrHashingFailed)
	}
	return string(hash), nil
}

func ComparePassword(hash, plain string) error {
	if hash == "" || plain == "" {
		return ErrWrongPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return errs.Mark(err, ErrWrongPassword)
	}
	return nil
}
