// Package session issues and verifies the signed, time-bound credential
// carried by the access_token cookie.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidOrExpired is returned when a token fails verification for any
// reason: bad signature, malformed payload, or elapsed expiry.
var ErrInvalidOrExpired = errors.New("session: invalid or expired token")

// Claims is the identity snapshot embedded in the credential at login or
// registration. It never carries password material and does not refresh
// until the user authenticates again.
type Claims struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Points   int    `json:"points"`
	jwt.RegisteredClaims
}

// Email returns the subject the token was issued for.
func (c Claims) Email() string {
	return c.Subject
}

// Manager signs and verifies session tokens with an HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager constructs a token manager. A non-positive ttl falls back to
// one hour; a nil clock falls back to time.Now.
func NewManager(secret []byte, ttl time.Duration, now func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{secret: secret, ttl: ttl, now: now}
}

// TTL reports the validity window applied to issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given identity, expiring at issuance + TTL.
func (m *Manager) Issue(email, name, lastname, phone, role string, points int) (string, error) {
	issued := m.now()
	claims := Claims{
		Name:     name,
		Lastname: lastname,
		Phone:    phone,
		Role:     role,
		Points:   points,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a signed token, returning the embedded
// identity claims or ErrInvalidOrExpired.
func (m *Manager) Verify(tokenString string) (Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidOrExpired
	}

	return *claims, nil
}
