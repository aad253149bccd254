package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordScheme selects how a claimed password is compared with the stored one.
type PasswordScheme string

const (
	// SchemePlain compares the claimed password with the stored value verbatim,
	// inside the credential lookup itself.
	SchemePlain PasswordScheme = "plain"
	// SchemeBcrypt treats the stored value as a bcrypt hash.
	SchemeBcrypt PasswordScheme = "bcrypt"
)

// ParsePasswordScheme validates a configured scheme name. Empty means plain.
func ParsePasswordScheme(s string) (PasswordScheme, error) {
	switch PasswordScheme(s) {
	case "", SchemePlain:
		return SchemePlain, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	default:
		return "", fmt.Errorf("unknown password scheme %q", s)
	}
}

func bcryptMatches(stored *string, claimed string) bool {
	if stored == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*stored), []byte(claimed)) == nil
}
