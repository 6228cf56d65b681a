package service

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"alice@example.com":       "alice@example.com",
		"  Alice@Example.COM\t":   "alice@example.com",
		"":                        "",
	}
	for in, want := range tests {
		if got := normalizeEmail(in); got != want {
			t.Errorf("normalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		wantErr error
	}{
		{-5, ErrInvalidMinutes},
		{0, ErrInvalidMinutes},
		{1, nil},
		{600, nil},
		{MaxEntryMinutes, nil},
		{MaxEntryMinutes + 1, ErrMinutesTooLarge},
		{3000000000, ErrMinutesTooLarge},
	}
	for _, tt := range tests {
		err := validateMinutes(tt.minutes)
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("validateMinutes(%d) = %v, want nil", tt.minutes, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("validateMinutes(%d) = %v, want %v", tt.minutes, err, tt.wantErr)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	err := invalid("title", ErrTitleRequired)
	if err.Error() != "title: title is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrTitleRequired) {
		t.Error("ValidationError should unwrap to its cause")
	}
}

func TestValidateRegistration_LongPassword(t *testing.T) {
	t.Parallel()

	err := validateRegistration(RegisterInput{
		Email:    "long@example.com",
		FullName: "Long",
		Password: strings.Repeat("correct horse battery staple ", 40),
	})
	if err != nil {
		t.Errorf("long passphrase rejected: %v", err)
	}
}
