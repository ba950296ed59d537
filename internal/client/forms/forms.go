// Package forms validates the login and registration inputs before any
// network call is made.
package forms

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrLoginFieldsRequired = errors.New("Username and password are required")
	ErrAllFieldsRequired   = errors.New("All fields are required")
	ErrInvalidEmail        = errors.New("Please enter a valid email address")
	ErrPasswordMismatch    = errors.New("Passwords do not match")
	ErrTermsNotAccepted    = errors.New("You must agree to the terms and conditions")
)

var validate = validator.New()

type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Remember bool
	// Redirect is the page to return to after login, taken from the
	// guard's redirect parameter.
	Redirect string
}

// Validate reports the first problem with f as a user-facing error.
func (f LoginForm) Validate() error {
	if err := validate.Struct(f); err != nil {
		return ErrLoginFieldsRequired
	}
	return nil
}

type RegisterForm struct {
	Username        string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
	AcceptTerms     bool
}

// Validate checks, in order: required fields, email shape, password
// confirmation and terms acceptance.
func (f RegisterForm) Validate() error {
	if err := validate.Struct(f); err != nil {
		return ErrAllFieldsRequired
	}
	if err := validate.Var(f.Email, "email"); err != nil {
		return ErrInvalidEmail
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if !f.AcceptTerms {
		return ErrTermsNotAccepted
	}
	return nil
}
