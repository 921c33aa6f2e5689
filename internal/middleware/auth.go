package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/auth"
	"github.com/gbianchi/implant-passport-api/internal/models"
)

const identityKey = "identity"

// Auth resolves the bearer token into a full identity and stores it in the
// gin context. A missing or malformed header is an authentication failure
// (401), never an authorization one.
func Auth(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token required"})
			return
		}

		ident, err := a.ResolveToken(c.Request.Context(), strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			// Expired vs malformed may differ outwardly; nothing enumerable
			// leaks there. Everything else stays "Invalid token".
			msg := "Invalid token"
			if errors.Is(err, apperr.ErrTokenExpired) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// CurrentIdentity returns the identity the Auth middleware resolved for this
// request, or nil outside an authenticated route.
func CurrentIdentity(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*models.Identity)
	return ident
}
