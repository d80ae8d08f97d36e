package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when CreateToken is called with a
// non-positive lifetime.
const DefaultTokenTTL = 5 * time.Minute

// SessionTTL is the lifetime of signed webview session tokens.
const SessionTTL = 7 * 24 * time.Hour

// Sentinel errors for token validation.
var (
	// ErrInvalidToken is returned when a token fails signature or
	// structural validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token is past its expiry or
	// older than the caller's maximum age.
	ErrTokenExpired = errors.New("token expired")
)

// CreateToken signs an HS256 token carrying the given claims plus
// issued-at and expiry timestamps.
func CreateToken(claims map[string]any, secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	mapped := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	for k, v := range claims {
		mapped[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapped)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies an HS256 token and returns its claims.
func ValidateToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SignSession signs a long-lived session token carrying the user id,
// for use as a webview session cookie.
func SignSession(userID, secret string) (string, error) {
	return CreateToken(map[string]any{"user_id": userID}, secret, SessionTTL)
}

// VerifySession validates a session token and returns the user id. A
// positive maxAge additionally rejects tokens issued longer ago than
// that, regardless of their expiry.
func VerifySession(token, secret string, maxAge time.Duration) (string, error) {
	claims, err := ValidateToken(token, secret)
	if err != nil {
		return "", err
	}

	if maxAge > 0 {
		issuedAt, err := claims.GetIssuedAt()
		if err != nil || issuedAt == nil {
			return "", ErrInvalidToken
		}
		if time.Since(issuedAt.Time) > maxAge {
			return "", ErrTokenExpired
		}
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
