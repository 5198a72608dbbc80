package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lojaweb/storefront-api/internal/api/http/respond"
	"github.com/lojaweb/storefront-api/internal/auth"
	"github.com/lojaweb/storefront-api/internal/auth/token"
)

// TokenParser is satisfied by *token.Issuer.
type TokenParser interface {
	Parse(raw string) (auth.Principal, error)
}

// RequireAuth rejects requests without a valid session token.
// An expired token answers with code "token_expired" so the client drops it.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			respond.Error(c, http.StatusUnauthorized, "missing authorization token")
			return
		}

		p, err := parser.Parse(raw)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				respond.ErrorCode(c, http.StatusUnauthorized, "token_expired", "session expired")
				return
			}
			respond.ErrorCode(c, http.StatusUnauthorized, "token_invalid", "invalid token")
			return
		}

		auth.SetPrincipal(c, p)
		c.Next()
	}
}

// OptionalAuth sets the caller when a valid token is present.
// Missing, invalid or expired tokens leave the request anonymous.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := extractToken(c); raw != "" {
			if p, err := parser.Parse(raw); err == nil {
				auth.SetPrincipal(c, p)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.CurrentUser(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "user not authenticated")
			return
		}
		if !p.Admin {
			respond.Error(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
