// Package identity resolves the authenticated principal for a request.
// Accounts live in an external identity provider; this package only
// validates the tokens it mints (shared HMAC secret) and extracts the
// opaque principal identifier. Signup and login are not handled here.
package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the principal identifier set by the identity provider.
type Claims struct {
	PrincipalID uuid.UUID `json:"principal_id"`
	jwt.RegisteredClaims
}

// Verifier validates identity-provider tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a token, returning the principal identifier.
func (v *Verifier) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.PrincipalID == uuid.Nil {
		return uuid.Nil, ErrInvalidToken
	}
	return claims.PrincipalID, nil
}
