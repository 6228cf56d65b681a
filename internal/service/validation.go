package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// normalizeEmail trims and lowercases an address so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(input RegisterInput) error {
	if validate.Var(input.Email, "required,email,max=255") != nil {
		return invalid("email", ErrInvalidEmail)
	}
	if strings.TrimSpace(input.FullName) == "" {
		return invalid("full_name", ErrFullNameRequired)
	}
	if validate.Var(input.FullName, "max=255") != nil {
		return invalid("full_name", ErrTooLong)
	}
	if validate.Var(input.Password, "min=8") != nil {
		return invalid("password", ErrPasswordTooShort)
	}
	return nil
}

// validateTitle returns the trimmed title or a ValidationError.
func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", ErrTitleRequired)
	}
	if validate.Var(title, "max=255") != nil {
		return "", invalid("title", ErrTooLong)
	}
	return title, nil
}

// MaxEntryMinutes is the largest duration one time entry may record; it is
// the range of the INTEGER minutes column.
const MaxEntryMinutes = math.MaxInt32

func validateMinutes(minutes int) error {
	if validate.Var(minutes, "gt=0") != nil {
		return invalid("minutes", ErrInvalidMinutes)
	}
	if validate.Var(minutes, "lte="+strconv.Itoa(MaxEntryMinutes)) != nil {
		return invalid("minutes", ErrMinutesTooLarge)
	}
	return nil
}
