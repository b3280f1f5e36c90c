package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dinewise/backend/pkg/errors"
)

func TestJWTValidator_Validate(t *testing.T) {
	ctx := context.Background()
	validator := NewJWTValidator("s3cret")

	t.Run("accepts a valid token", func(t *testing.T) {
		token, err := validator.Sign("U1", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		require.NoError(t, err)

		subject, err := validator.Validate(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, "U1", subject)
	})

	t.Run("falls back to user_id claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": "U2",
		}).SignedString([]byte("s3cret"))
		require.NoError(t, err)

		subject, err := validator.Validate(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, "U2", subject)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token, err := validator.Sign("U1", jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
		require.NoError(t, err)

		_, err = validator.Validate(ctx, token)

		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token, err := NewJWTValidator("other").Sign("U1", nil)
		require.NoError(t, err)

		_, err = validator.Validate(ctx, token)

		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("rejects a token without subject", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"role": "user",
		}).SignedString([]byte("s3cret"))
		require.NoError(t, err)

		_, err = validator.Validate(ctx, token)

		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := validator.Validate(ctx, "not-a-jwt")

		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
	})
}
