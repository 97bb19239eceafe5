package server

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("wrong password")
	ErrUploadsDisabled    = errors.New("uploads are disabled")
	ErrInvalidToken       = errors.New("invalid token")
)

// HashPassword hashes a password for server.admin_hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword verifies password against a bcrypt hash.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return ErrUploadsDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// checkToken accepts anything when no view token is configured.
func checkToken(want, got string) error {
	if want == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrInvalidToken
	}
	return nil
}
