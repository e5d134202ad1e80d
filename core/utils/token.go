package utils

import (
	stderrors "errors"
	"time"

	"calendar-digest/core/constants"
	"calendar-digest/core/errors"

	"github.com/golang-jwt/jwt/v5"
)

type SessionClaims struct {
	UserID string `json:"uid"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(userID, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := SessionClaims{
		UserID: userID,
		Scope:  constants.ScopeTokenSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAndParseToken verifies a session token and returns its claims.
func ValidateAndParseToken(token, secret string) (*SessionClaims, *errors.AppError) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "session token expired", err)
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid session token", err)
	}

	if claims.Scope != constants.ScopeTokenSession || claims.UserID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid session token", nil)
	}
	return claims, nil
}
