package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL applies when a TokenManager is built with a non-positive TTL.
const DefaultTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims defines the structured data we store in the JWT
type Claims struct {
	// Scope lists the report kinds the bearer may read. Empty means all.
	Scope []string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Allows reports whether the token grants access to report kind.
func (c *Claims) Allows(kind string) bool {
	if len(c.Scope) == 0 {
		return true
	}
	for _, s := range c.Scope {
		if strings.EqualFold(s, kind) {
			return true
		}
	}
	return false
}

type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{secretKey: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken creates a signed access token for subject, typically a
// dashboard user or an automation that pulls exports.
func (tm *TokenManager) GenerateToken(subject string, scope ...string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("subject is required")
	}

	now := tm.now()
	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// ValidateToken parses and validates the token string
func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secretKey, nil
	}, jwt.WithTimeFunc(tm.now))

	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
