package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	domain "devconnector/backend/internal/domain/auth"
)

const minPasswordLength = 6

// validateRegistration checks input shape before any persistence or
// cryptographic work happens. Field order is fixed: name, email, password.
func validateRegistration(name, email, password string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if !isWellFormedEmail(email) {
		errs = append(errs, domain.FieldError{Field: "email", Message: "a valid email is required"})
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		errs = append(errs, domain.FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}
	return errs
}

func isWellFormedEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject display-name forms like `Ann <ann@example.com>`.
	return addr.Address == email
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
