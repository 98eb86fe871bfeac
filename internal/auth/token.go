package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/project-hub/internal/domain"
)

var (
	// ErrInvalidSignature covers tampered, malformed or wrongly-signed tokens.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired marks a well-signed token past its expiry.
	ErrTokenExpired = errors.New("session token expired")
)

// Principal is the request-scoped identity derived from a verified token.
type Principal struct {
	SubjectID string
	Role      domain.Role
}

// TokenIssuer mints and verifies signed, stateless session tokens. Two issuers
// sharing a secret verify each other's tokens; there is no server-side record
// of issued tokens and therefore no early revocation.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds an issuer with an injected signing secret and fixed TTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Claims describes the signed JWT payload. The signature covers every claim;
// mutating any field invalidates the token.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a session token for the subject. Pure computation, no side effects.
func (ti *TokenIssuer) Issue(subjectID string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ti.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify recomputes the signature and validates expiry, returning the bound
// identity. Expiry of a well-signed token reports ErrTokenExpired; every other
// failure reports ErrInvalidSignature.
func (ti *TokenIssuer) Verify(tokenStr string) (*Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return ti.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidSignature
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	return &Principal{SubjectID: claims.Subject, Role: claims.Role}, nil
}
