// Package auth implements credential verification, token issuance and the
// authorization policy over passport operations.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/models"
	"github.com/gbianchi/implant-passport-api/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Authenticator turns presented credentials or tokens into resolved
// identities.
type Authenticator struct {
	identities store.IdentityStore
	tokens     *TokenService
}

func NewAuthenticator(identities store.IdentityStore, tokens *TokenService) *Authenticator {
	return &Authenticator{identities: identities, tokens: tokens}
}

// Tokens exposes the token service so callers can mint tokens for identities
// they just registered or authenticated.
func (a *Authenticator) Tokens() *TokenService {
	return a.tokens
}

// NormalizeEmail canonicalizes an email for storage and lookup. Uniqueness is
// case-insensitive, so everything downstream sees the lowercased form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func strongEnough(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Register creates a new identity. Fails with ErrDuplicateIdentity when the
// email is already taken (case-insensitive), ErrWeakCredential when the
// password is under 8 characters or lacks a letter or a digit, ErrInvalidRole
// for roles outside the known set.
func (a *Authenticator) Register(ctx context.Context, email, password string, role models.Role) (*models.Identity, error) {
	email = NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, (&apperr.ValidationError{}).Add("email", "must be a valid email address")
	}
	if !strongEnough(password) {
		return nil, apperr.ErrWeakCredential
	}
	if !role.Valid() {
		return nil, apperr.ErrInvalidRole
	}

	_, err := a.identities.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.ErrDuplicateIdentity
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	ident := &models.Identity{
		Email:     email,
		Password:  hashed,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := a.identities.Save(ctx, ident); err != nil {
		return nil, err
	}
	return ident, nil
}

// Authenticate verifies an email/password pair. Both the unknown-email and
// wrong-password cases return the same ErrInvalidCredential.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	ident, err := a.identities.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredential
	}
	if err != nil {
		return nil, err
	}
	if !CheckPasswordHash(password, ident.Password) {
		return nil, apperr.ErrInvalidCredential
	}
	return ident, nil
}

// ResolveToken verifies a bearer token and loads the identity it names.
// ErrTokenExpired and ErrTokenMalformed propagate from verification;
// ErrIdentityNotFound signals a subject deleted after the token was issued.
func (a *Authenticator) ResolveToken(ctx context.Context, token string) (*models.Identity, error) {
	subject, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(subject)
	if err != nil {
		return nil, apperr.ErrTokenMalformed
	}
	ident, err := a.identities.FindByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return ident, nil
}
