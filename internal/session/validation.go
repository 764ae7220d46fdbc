package session

import (
	"net/mail"
	"strings"

	"alcyxob/fitclub/internal/identity"
)

// ValidationError lists every problem found in a form.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Issues, "; ")
}

type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ValidateRegistration checks the form locally, before the identity provider
// is contacted. It returns a *ValidationError or nil.
func ValidateRegistration(r Registration) error {
	var issues []string
	if strings.TrimSpace(r.Name) == "" {
		issues = append(issues, "Name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		issues = append(issues, "Email is required")
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		issues = append(issues, "Email address is invalid")
	}
	if len(r.Password) < identity.MinPasswordLength {
		issues = append(issues, "Password must be at least 6 characters")
	}
	if r.Password != r.ConfirmPassword {
		issues = append(issues, "Passwords do not match")
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
