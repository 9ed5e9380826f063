package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const issuer = "backend-coach"

// ErrInvalidCredentials is returned when the email/password pair does not match.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Service issues and validates the admin bearer tokens.
type Service struct {
	Secret       []byte
	AdminEmail   string
	PasswordHash string
	TokenTTL     time.Duration
}

// Login verifies the admin credentials and returns a signed token.
func (s Service) Login(email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	known := strings.ToLower(strings.TrimSpace(s.AdminEmail))
	if known == "" || s.PasswordHash == "" {
		return "", time.Time{}, errors.New("auth: admin account not configured")
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(known)) == 1
	passOK, err := argon2id.ComparePasswordAndHash(password, s.PasswordHash)
	if err != nil {
		return "", time.Time{}, err
	}
	if !emailOK || !passOK {
		return "", time.Time{}, ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	now := time.Now()
	expires := now.Add(ttl)
	tok, err := jwt.NewBuilder().
		Issuer(issuer).
		Subject(email).
		IssuedAt(now).
		Expiration(expires).
		Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expires, nil
}

// ParseToken validates a bearer token and returns its subject.
func (s Service) ParseToken(raw string) (string, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, s.Secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return "", err
	}
	return tok.Subject(), nil
}
