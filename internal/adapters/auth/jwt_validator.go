package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dinewise/backend/internal/domain/providers"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// JWTValidator validates HS256 bearer tokens issued by the auth service
type JWTValidator struct {
	secret []byte
}

var _ providers.TokenValidator = (*JWTValidator)(nil)

// NewJWTValidator creates a validator for tokens signed with secret
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret)}
}

// Validate checks signature and expiry and returns the subject. The subject
// comes from "sub", falling back to the legacy "user_id" claim.
func (v *JWTValidator) Validate(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", apperrors.NewUnauthorizedError(fmt.Sprintf("invalid token: %v", err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", apperrors.NewUnauthorizedError("invalid token")
	}

	for _, name := range []string{"sub", "user_id"} {
		if subject, ok := claims[name].(string); ok && subject != "" {
			return subject, nil
		}
	}
	return "", apperrors.NewUnauthorizedError("token has no subject")
}

// Sign issues a token for subject. Used by tests and local tooling.
func (v *JWTValidator) Sign(subject string, claims jwt.MapClaims) (string, error) {
	all := jwt.MapClaims{"sub": subject}
	for k, val := range claims {
		all[k] = val
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, all).SignedString(v.secret)
}
