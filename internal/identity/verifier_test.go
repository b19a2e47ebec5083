package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mint(t *testing.T, secret string, principal uuid.UUID, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		PrincipalID: principal,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerify(t *testing.T) {
	principal := uuid.New()
	v := NewVerifier("test-secret")

	got, err := v.Verify(mint(t, "test-secret", principal, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	principal := uuid.New()
	v := NewVerifier("test-secret")

	_, err := v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(mint(t, "wrong-secret", principal, time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(mint(t, "test-secret", principal, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(mint(t, "test-secret", uuid.Nil, time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
