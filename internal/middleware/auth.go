package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sponsorlane/backend/internal/identity"
	"github.com/sponsorlane/backend/pkg/response"
)

// ContextPrincipal is the gin context key for the authenticated principal.
const ContextPrincipal = "principal"

// Auth returns a middleware that validates the bearer token issued by the
// identity provider and stores the principal in the request context.
// Anonymous requests are rejected here; the policy engine would deny them
// anyway, but without a principal there is nothing to evaluate.
func Auth(verifier *identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		principal, err := verifier.Verify(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// Principal returns the authenticated principal from the gin context, or
// nil for anonymous requests.
func Principal(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
