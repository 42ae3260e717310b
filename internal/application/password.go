package application

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPasswordHash signals a stored hash bcrypt cannot interpret.
var ErrInvalidPasswordHash = errors.New("invalid password hash format")

// DefaultBcryptCost is the work factor applied when hashing new passwords.
const DefaultBcryptCost = bcrypt.DefaultCost

// HashPassword derives a salted bcrypt hash for storage. The plaintext is
// never persisted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a stored hash with a candidate password. Stores
// that return the hash as text are handled by converting back to bytes here.
func VerifyPassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrIncorrectPassword
	}
	return ErrInvalidPasswordHash
}
