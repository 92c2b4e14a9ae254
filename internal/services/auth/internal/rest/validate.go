package rest

import (
	"errors"
	"fmt"
	"net/mail"
	"unicode"
	"unicode/utf8"

	"github.com/gamma-omg/lexi-cards/internal/pkg/serr"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLen = 72
)

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return invalid("username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}

	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return invalid("username can only contain letters, digits, '_', '-', '.'")
		}
	}

	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("invalid email address")
	}

	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}

	if len(password) > maxPasswordLen {
		return invalid("password must be at most %d bytes", maxPasswordLen)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	switch {
	case !hasLower:
		return invalid("password must contain at least one lowercase letter")
	case !hasUpper:
		return invalid("password must contain at least one uppercase letter")
	case !hasDigit:
		return invalid("password must contain at least one digit")
	case !hasSpecial:
		return invalid("password must contain at least one special character")
	}

	return nil
}

func invalid(msg string, args ...any) error {
	m := fmt.Sprintf(msg, args...)
	return serr.NewServiceError(errors.New(m), serr.Invalid, "%s", m)
}
