package security

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters")
	ErrPasswordNoLetter = errors.New("Password must contain at least one letter")
	ErrPasswordNoDigit  = errors.New("Password must contain at least one number")
)

func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword never errors; a malformed hash simply does not match.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckPasswordStrength requires at least 8 characters with one letter and one digit.
func CheckPasswordStrength(password string) error {
	if len([]rune(password)) < 8 {
		return ErrPasswordTooShort
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return ErrPasswordNoLetter
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	return nil
}
