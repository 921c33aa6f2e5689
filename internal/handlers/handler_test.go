package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/gbianchi/implant-passport-api/internal/auth"
	"github.com/gbianchi/implant-passport-api/internal/middleware"
	"github.com/gbianchi/implant-passport-api/internal/models"
	"github.com/gbianchi/implant-passport-api/internal/passport"
	"github.com/gbianchi/implant-passport-api/internal/pdf"
	"github.com/gbianchi/implant-passport-api/internal/store"
)

type testAPI struct {
	router *gin.Engine
	auth   *auth.Authenticator
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	identities := store.NewMemoryIdentityStore()
	passports := store.NewMemoryPassportStore()
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	authenticator := auth.NewAuthenticator(identities, tokens)
	h := NewHandler(authenticator, passport.NewManager(passports), pdf.NewRenderer())

	r := gin.New()
	authRoutes := r.Group("/api/auth")
	authRoutes.POST("/signup", h.Signup)
	authRoutes.POST("/login", h.Login)
	authRoutes.GET("/profile", middleware.Auth(authenticator), h.Profile)

	passportRoutes := r.Group("/api/passport")
	passportRoutes.Use(middleware.Auth(authenticator))
	passportRoutes.POST("", h.CreatePassport)
	passportRoutes.GET("", h.ListPassports)
	passportRoutes.GET("/:id", h.GetPassport)
	passportRoutes.PUT("/:id", h.UpdatePassport)
	passportRoutes.DELETE("/:id", h.DeletePassport)
	passportRoutes.GET("/:id/pdf", h.DownloadPassportPDF)

	return &testAPI{router: r, auth: authenticator}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

// tokenFor registers an identity directly and mints a token for it, skipping
// the signup endpoint (and its bcrypt cost) where the test doesn't need it.
func (api *testAPI) tokenFor(t *testing.T, email string, role models.Role) string {
	t.Helper()
	ident, err := api.auth.Register(context.Background(), email, "Passw0rd", role)
	require.NoError(t, err)
	token, err := api.auth.Tokens().Issue(ident.ID.Hex())
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func passportPayload() map[string]interface{} {
	return map[string]interface{}{
		"patientName": "Mario Rossi",
		"dateOfBirth": "1980-01-01",
		"implantType": "Zirconia",
		"implantDetails": map[string]interface{}{
			"brand":       "Straumann",
			"lotNumber":   "L1",
			"implantDate": "2023-05-01",
			"position":    "46",
			"diameter":    4.2,
			"length":      10,
		},
	}
}
