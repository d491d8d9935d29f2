package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"github.com/vantaworks/identity/pkg/apperr"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50

	// bcrypt ignores input beyond 72 bytes; longer passwords are rejected
	// rather than silently truncated.
	passwordMaxLength = 72
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// normalizeEmail validates syntax and returns the lowercased address.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperr.InvalidEmail("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.InvalidEmail("email address is not valid")
	}
	if !strings.Contains(strings.SplitN(email, "@", 2)[1], ".") {
		return "", apperr.InvalidEmail("email address is not valid")
	}
	return strings.ToLower(email), nil
}

func validateUsername(username string) error {
	if len(username) < usernameMinLength || len(username) > usernameMaxLength {
		return apperr.Validation(fmt.Sprintf(
			"username must be between %d and %d characters", usernameMinLength, usernameMaxLength))
	}
	if !usernamePattern.MatchString(username) {
		return apperr.Validation("username may only contain letters, digits, underscores and hyphens")
	}
	return nil
}

// validatePassword enforces the password policy: configurable minimum
// length plus at least one uppercase letter, one lowercase letter, one
// digit and one special character.
func validatePassword(password string, minLength int) error {
	if len(password) < minLength {
		return apperr.WeakPassword(fmt.Sprintf("password must be at least %d characters", minLength))
	}
	if len(password) > passwordMaxLength {
		return apperr.WeakPassword(fmt.Sprintf("password must be at most %d characters", passwordMaxLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}

	switch {
	case !upper:
		return apperr.WeakPassword("password must contain an uppercase letter")
	case !lower:
		return apperr.WeakPassword("password must contain a lowercase letter")
	case !digit:
		return apperr.WeakPassword("password must contain a digit")
	case !special:
		return apperr.WeakPassword("password must contain a special character")
	}
	return nil
}
