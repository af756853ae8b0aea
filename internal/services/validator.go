package services

import (
	"context"
	"net/mail"
)

// ValidationError reports the first signup rule a request breaks.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SignupInput is the payload checked before signup runs.
type SignupInput struct {
	Username             string
	Email                string
	Role                 string
	Password             string
	PasswordConfirmation string
}

// SignupValidator enforces the signup pre-conditions: required fields, email
// shape, minimum password length, confirmation match, and username/email
// uniqueness. The schema's UNIQUE constraints stay the hard guarantee; the
// pre-check only buys a friendly error.
type SignupValidator struct {
	reader UserReader
}

// NewSignupValidator creates a validator backed by the given reader.
func NewSignupValidator(reader UserReader) *SignupValidator {
	return &SignupValidator{reader: reader}
}

// Validate returns a *ValidationError describing the first failing rule, or
// nil when the input is acceptable.
func (v *SignupValidator) Validate(ctx context.Context, in SignupInput) error {
	if in.Username == "" {
		return &ValidationError{Field: "username", Message: "Username is required"}
	}

	existing, err := v.reader.GetByUsernameOrEmail(ctx, &in.Username, nil)
	if err != nil {
		return err
	}
	if existing != nil {
		return &ValidationError{Field: "username", Message: "Username already in use"}
	}

	if in.Email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return &ValidationError{Field: "email", Message: "Email is invalid"}
	}

	existing, err = v.reader.GetByUsernameOrEmail(ctx, nil, &in.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return &ValidationError{Field: "email", Message: "Email already in use"}
	}

	if in.Role == "" {
		return &ValidationError{Field: "role", Message: "Role is missing"}
	}

	if in.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if len(in.Password) < 8 {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters long"}
	}

	if in.PasswordConfirmation == "" {
		return &ValidationError{Field: "passwordConfirmation", Message: "Password confirmation is required"}
	}
	if in.PasswordConfirmation != in.Password {
		return &ValidationError{Field: "passwordConfirmation", Message: "Password confirmation does not match password"}
	}

	return nil
}
