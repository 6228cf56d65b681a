package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that is malformed, tampered with or expired.
var ErrInvalidToken = errors.New("invalid token")

// TokenType is the OAuth2 token type reported to clients.
const TokenType = "bearer"

// CredentialsConfig configures a Credentials instance.
type CredentialsConfig struct {
	// Secret signs and verifies tokens. Changing it invalidates all outstanding tokens.
	Secret   []byte
	Issuer   string
	TokenTTL time.Duration
	// Params defaults to DefaultArgon2Params when zero.
	Params Argon2Params
}

// Credentials hashes passwords and issues/validates signed bearer tokens.
type Credentials struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
	params   Argon2Params
	now      func() time.Time
}

// tokenClaims is the JWT payload. The subject is the user ID.
type tokenClaims struct {
	jwt.RegisteredClaims
}

// NewCredentials creates a Credentials with the given signing secret.
func NewCredentials(cfg CredentialsConfig) (*Credentials, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	params := cfg.Params
	if params == (Argon2Params{}) {
		params = DefaultArgon2Params
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Credentials{
		secret:   secret,
		issuer:   cfg.Issuer,
		tokenTTL: cfg.TokenTTL,
		params:   params,
		now:      time.Now,
	}, nil
}

// TokenTTL returns the lifetime of tokens created by IssueToken.
func (c *Credentials) TokenTTL() time.Duration {
	return c.tokenTTL
}

// HashPassword hashes a password with the configured argon2 parameters.
func (c *Credentials) HashPassword(password string) (string, error) {
	return hashWithParams(password, c.params)
}

// VerifyPassword reports whether password matches the stored hash.
func (c *Credentials) VerifyPassword(password, encodedHash string) bool {
	return VerifyPassword(password, encodedHash)
}

// IssueToken creates a token for userID that expires after the configured TTL.
func (c *Credentials) IssueToken(userID string) (string, error) {
	return c.CreateToken(userID, c.now().Add(c.tokenTTL))
}

// CreateToken creates an HS256-signed token for userID that expires at expiry.
func (c *Credentials) CreateToken(userID string, expiry time.Time) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}

	now := c.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry of a token and returns its user ID.
// Every failure is reported as ErrInvalidToken.
func (c *Credentials) ValidateToken(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
