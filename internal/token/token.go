// Package token issues and validates the signed bearer tokens used by
// the API. Tokens are HS256 JWTs carrying the user identifier and a
// one hour expiry.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TTL is how long an issued token stays valid.
const TTL = time.Hour

var (
	// ErrInvalid covers missing, malformed, expired, and
	// signature-invalid tokens. Callers map it to 401.
	ErrInvalid = errors.New("invalid token")
)

type claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Service signs and verifies bearer tokens with a shared secret.
type Service struct {
	secret []byte
	parser *jwt.Parser
	// now is swappable for expiry tests
	now func() time.Time
}

// NewService creates a token service. The secret must not be empty.
func NewService(secret string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &Service{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
		now:    time.Now,
	}, nil
}

// SetNowFunc overrides the clock used when issuing tokens. Tests use
// it to mint already-expired tokens.
func (s *Service) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Issue creates a signed token embedding userID with a TTL expiry.
func (s *Service) Issue(userID int64) (string, error) {
	now := s.now()
	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the embedded user
// identifier. Any failure is reported as ErrInvalid.
func (s *Service) Verify(tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, ErrInvalid
	}

	var c claims
	parsed, err := s.parser.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalid
	}

	if c.ExpiresAt == nil || c.UserID == 0 {
		return 0, ErrInvalid
	}
	return c.UserID, nil
}
