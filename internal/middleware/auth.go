package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/parceldrop/parceldrop-backend/internal/auth"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	ContextEmailKey = "verifiedEmail"
	ContextRoleKey  = "tokenRole"
)

// RoleReader looks up a user's stored role. Role checks always go back to
// the store so a stale or forged token claim can never grant access.
type RoleReader interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}

// RequireAuth verifies the bearer token and stores the verified email on the
// context. WebSocket clients can't set headers, so a token query parameter
// is accepted as a fallback.
func RequireAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawHeader := c.GetHeader("Authorization")
		if rawHeader == "" {
			if token := c.Query("token"); token != "" {
				rawHeader = "Bearer " + token
			}
		}

		identity, err := verifier.Verify(rawHeader)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid or missing token"})
			c.Abort()
			return
		}

		c.Set(ContextEmailKey, identity.Email)
		c.Set(ContextRoleKey, identity.Role)
		c.Next()
	}
}

// RequireRole grants access only if the caller's stored role matches. It must
// run after RequireAuth; a missing verified email here is a route wiring bug.
func RequireRole(roles RoleReader, required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmailKey)
		if email == "" {
			logrus.Error("RequireRole called without a verified identity")
			c.JSON(401, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		role, err := roles.RoleByEmail(c.Request.Context(), email)
		if err != nil || role != required {
			c.JSON(403, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}
