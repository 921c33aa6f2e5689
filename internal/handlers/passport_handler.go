package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gbianchi/implant-passport-api/internal/middleware"
	"github.com/gbianchi/implant-passport-api/internal/passport"
)

func passportID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid passport ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreatePassport creates a new passport owned by the calling dentist.
func (h *Handler) CreatePassport(c *gin.Context) {
	var in passport.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	p, err := h.Passports.Create(c.Request.Context(), middleware.CurrentIdentity(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Passport created successfully", "passport": p})
}

// GetPassport returns one passport by id.
func (h *Handler) GetPassport(c *gin.Context) {
	id, ok := passportID(c)
	if !ok {
		return
	}
	p, err := h.Passports.GetByID(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPassports returns one page of passports under the caller's list scope
// (e.g. /api/passport?page=2&limit=10).
func (h *Handler) ListPassports(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	result, err := h.Passports.List(c.Request.Context(), middleware.CurrentIdentity(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdatePassport applies a sparse patch to a passport.
func (h *Handler) UpdatePassport(c *gin.Context) {
	id, ok := passportID(c)
	if !ok {
		return
	}
	var in passport.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	p, err := h.Passports.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Passport updated successfully", "passport": p})
}

// DeletePassport removes a passport. Admin only, enforced by the policy.
func (h *Handler) DeletePassport(c *gin.Context) {
	id, ok := passportID(c)
	if !ok {
		return
	}
	if err := h.Passports.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Passport deleted successfully"})
}

// DownloadPassportPDF renders a passport as a PDF attachment.
func (h *Handler) DownloadPassportPDF(c *gin.Context) {
	id, ok := passportID(c)
	if !ok {
		return
	}
	snapshot, err := h.Passports.Export(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.PDF.Render(snapshot)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "implant-passport-"+snapshot.ID+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
