package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// passwordSymbols are the special characters the strict password policy accepts
const passwordSymbols = "@!#%+"

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the list of problems found in one request
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// IsValidEmail reports whether email looks like local@domain.tld
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// CheckPasswordPolicy applies the strict password rules: at least 3
// characters, an uppercase first letter and one of @!#%+.
func CheckPasswordPolicy(password string) error {
	if utf8.RuneCountInString(password) < 3 {
		return errors.New("password must be at least 3 characters long")
	}
	first, _ := utf8.DecodeRuneInString(password)
	if !unicode.IsUpper(first) {
		return errors.New("password must start with an uppercase letter")
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		return fmt.Errorf("password must contain one of %s", passwordSymbols)
	}
	return nil
}

// requireName appends an error when name is blank
func requireName(errs ValidationErrors, field, name string) ValidationErrors {
	if strings.TrimSpace(name) == "" {
		return append(errs, FieldError{Field: field, Message: field + " is required"})
	}
	return errs
}
