package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash should have 6 parts, got: %d", len(parts))
	}

	if parts[1] != "argon2id" {
		t.Errorf("Expected argon2id algorithm, got: %s", parts[1])
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHashPassword_DoesNotContainPlaintext(t *testing.T) {
	t.Parallel()

	password := "password1"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if strings.Contains(hash, password) {
		t.Error("Hash must not contain the plaintext password")
	}
}

func TestHashPassword_Uniqueness(t *testing.T) {
	t.Parallel()

	password := "the_same_password_12345"

	hash1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// Same password should produce different hashes (different salts)
	if hash1 == hash2 {
		t.Error("Same password should produce different hashes due to random salt")
	}

	if !VerifyPassword(password, hash1) || !VerifyPassword(password, hash2) {
		t.Error("Both hashes should verify correctly")
	}
}

func TestVerifyPassword_Correct(t *testing.T) {
	t.Parallel()

	password := "password1"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !VerifyPassword(password, hash) {
		t.Error("Correct password should match")
	}
}

func TestVerifyPassword_Incorrect(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	ok, err := checkPassword("password2", hash)
	if err != nil {
		t.Fatalf("checkPassword should not return error for wrong password: %v", err)
	}
	if ok {
		t.Error("Wrong password should not match")
	}
	if VerifyPassword("password2", hash) {
		t.Error("Wrong password should not match")
	}
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"wrong format", "not-a-hash", ErrInvalidHash},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$salt$hash", ErrInvalidHash},
		{"missing parts", "$argon2id$v=19$m=65536", ErrInvalidHash},
		{"wrong part count", "$argon2id$v=19", ErrInvalidHash},
		{"bad params", "$argon2id$v=19$m=x,t=3,p=4$c29tZXNhbHQ$c29tZWhhc2g", ErrInvalidHash},
		{"zero params", "$argon2id$v=19$m=0,t=0,p=0$c29tZXNhbHQ$c29tZWhhc2g", ErrInvalidHash},
		{"bad salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!$c29tZWhhc2g", ErrInvalidHash},
		{"empty hash", "$argon2id$v=19$m=65536,t=3,p=4$c29tZXNhbHQ$", ErrInvalidHash},
		{"wrong version", "$argon2id$v=18$m=65536,t=3,p=4$c29tZXNhbHRoZXJl$c29tZWhhc2hoZXJl", ErrIncompatibleVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := checkPassword("password", tt.hash)
			if err != tt.wantErr {
				t.Errorf("checkPassword with %q error = %v, want %v", tt.name, err, tt.wantErr)
			}
			if ok {
				t.Error("Malformed hash should never match")
			}
			if VerifyPassword("password", tt.hash) {
				t.Error("VerifyPassword should return false for malformed hash")
			}
		})
	}
}

func TestQuickHash_Deterministic(t *testing.T) {
	t.Parallel()

	input := "eyJhbGciOiJIUzI1NiJ9.payload.signature"

	if QuickHash(input) != QuickHash(input) {
		t.Error("Same input should produce same hash")
	}
}

func TestQuickHash_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"token", "eyJhbGciOiJIUzI1NiJ9.payload.signature"},
		{"short string", "abc"},
		{"empty string", ""},
		{"long string", strings.Repeat("x", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := QuickHash(tt.input)
			if len(hash) != 32 {
				t.Errorf("Hash should be 32 chars, got: %d", len(hash))
			}
		})
	}
}

func TestQuickHash_Different(t *testing.T) {
	t.Parallel()

	if QuickHash("input-one") == QuickHash("input-two") {
		t.Error("Different input should produce different hash")
	}
}
