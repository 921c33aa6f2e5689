package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/auth"
	"github.com/gbianchi/implant-passport-api/internal/passport"
	"github.com/gbianchi/implant-passport-api/internal/pdf"
)

// Handler bundles the collaborators the HTTP surface needs.
type Handler struct {
	Auth      *auth.Authenticator
	Passports *passport.Manager
	PDF       *pdf.Renderer
}

func NewHandler(a *auth.Authenticator, m *passport.Manager, r *pdf.Renderer) *Handler {
	return &Handler{Auth: a, Passports: m, PDF: r}
}

// respondError maps the apperr taxonomy onto the response shape
// {message, errors?}. Anything unrecognized is a 500 with detail suppressed.
func respondError(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed", "errors": verr.Fields})
	case errors.Is(err, apperr.ErrWeakCredential),
		errors.Is(err, apperr.ErrInvalidRole),
		errors.Is(err, apperr.ErrDuplicateIdentity):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, apperr.ErrInvalidCredential),
		errors.Is(err, apperr.ErrTokenExpired),
		errors.Is(err, apperr.ErrTokenMalformed),
		errors.Is(err, apperr.ErrIdentityNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
