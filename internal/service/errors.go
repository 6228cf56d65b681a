// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrGoalNotFound       = errors.New("goal not found")

	ErrInvalidEmail     = errors.New("must be a valid email address")
	ErrFullNameRequired = errors.New("full name is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrTitleRequired    = errors.New("title is required")
	ErrTooLong          = errors.New("must be at most 255 characters")
	ErrInvalidMinutes   = errors.New("minutes must be greater than zero")
	ErrMinutesTooLarge  = errors.New("minutes must be at most 2147483647")
)

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
