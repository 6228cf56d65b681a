package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fastParams keeps hashing cheap in tests.
var fastParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func newTestCredentials(t *testing.T) *Credentials {
	t.Helper()
	c, err := NewCredentials(CredentialsConfig{
		Secret:   testSecret,
		Issuer:   "goaltracker-test",
		TokenTTL: 30 * time.Minute,
		Params:   fastParams,
	})
	if err != nil {
		t.Fatalf("NewCredentials failed: %v", err)
	}
	return c
}

func TestNewCredentials_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewCredentials(CredentialsConfig{TokenTTL: time.Minute}); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewCredentials(CredentialsConfig{Secret: testSecret}); err == nil {
		t.Error("expected error for zero TTL")
	}

	c, err := NewCredentials(CredentialsConfig{Secret: testSecret, TokenTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewCredentials failed: %v", err)
	}
	if c.params != DefaultArgon2Params {
		t.Errorf("expected default argon2 params, got %+v", c.params)
	}
}

func TestCredentials_PasswordRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCredentials(t)

	hash, err := c.HashPassword("password1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.Contains(hash, "m=8192,t=1,p=1") {
		t.Errorf("hash should carry configured params, got %s", hash)
	}
	if !c.VerifyPassword("password1", hash) {
		t.Error("correct password should verify")
	}
	if c.VerifyPassword("password2", hash) {
		t.Error("wrong password should not verify")
	}
	if c.VerifyPassword("password1", "garbage") {
		t.Error("malformed hash should not verify")
	}
}

func TestCredentials_TokenRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCredentials(t)

	token, err := c.IssueToken("01HZXUSER")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	userID, err := c.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if userID != "01HZXUSER" {
		t.Errorf("userID = %q, want %q", userID, "01HZXUSER")
	}
}

func TestCredentials_CreateTokenRequiresUser(t *testing.T) {
	t.Parallel()

	c := newTestCredentials(t)
	if _, err := c.CreateToken("", time.Now().Add(time.Minute)); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestCredentials_TokensAreUnique(t *testing.T) {
	t.Parallel()

	c := newTestCredentials(t)
	expiry := time.Now().Add(time.Minute)

	t1, err := c.CreateToken("user-1", expiry)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	t2, err := c.CreateToken("user-1", expiry)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	if t1 == t2 {
		t.Error("tokens should carry distinct IDs")
	}
}

func TestCredentials_ValidateToken_Rejects(t *testing.T) {
	t.Parallel()

	c := newTestCredentials(t)

	valid, err := c.IssueToken("user-1")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	expired, err := c.CreateToken("user-1", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	other, err := NewCredentials(CredentialsConfig{
		Secret:   []byte("another-secret-another-secret-xx"),
		Issuer:   "goaltracker-test",
		TokenTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCredentials failed: %v", err)
	}
	foreign, err := other.IssueToken("user-1")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	wrongIssuer, err := NewCredentials(CredentialsConfig{
		Secret:   testSecret,
		Issuer:   "someone-else",
		TokenTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCredentials failed: %v", err)
	}
	misissued, err := wrongIssuer.IssueToken("user-1")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
		Issuer:  "goaltracker-test",
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "goaltracker-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "goaltracker-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered signature", tampered},
		{"expired", expired},
		{"signed with another secret", foreign},
		{"wrong issuer", misissued},
		{"missing expiry", noExpiry},
		{"missing subject", noSubject},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userID, err := c.ValidateToken(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken error = %v, want ErrInvalidToken", err)
			}
			if userID != "" {
				t.Errorf("userID = %q, want empty", userID)
			}
		})
	}
}

func TestCredentials_ValidateToken_UsesClock(t *testing.T) {
	t.Parallel()

	c := newTestCredentials(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	token, err := c.IssueToken("user-1")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	c.now = func() time.Time { return base.Add(29 * time.Minute) }
	if _, err := c.ValidateToken(token); err != nil {
		t.Errorf("token should be valid before expiry: %v", err)
	}

	c.now = func() time.Time { return base.Add(31 * time.Minute) }
	if _, err := c.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token should be invalid after expiry, got %v", err)
	}
}
