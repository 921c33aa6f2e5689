package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/middleware"
	"github.com/gbianchi/implant-passport-api/internal/models"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// Signup registers a new identity and returns it together with a fresh token.
// Role defaults to Dentist when omitted and is immutable afterwards.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if req.Role == "" {
		req.Role = string(models.RoleDentist)
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		respondError(c, apperr.ErrInvalidRole)
		return
	}

	ident, err := h.Auth.Register(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.Auth.Tokens().Issue(ident.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    ident,
		"token":   token,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	ident, err := h.Auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.Auth.Tokens().Issue(ident.ID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    ident,
		"token":   token,
	})
}

// Profile returns the identity resolved from the bearer token.
func (h *Handler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentIdentity(c))
}
