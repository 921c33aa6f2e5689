// Package store abstracts persistence for identities and passports. The API
// layers depend only on these interfaces; Mongo provides the production
// implementation and the in-memory one backs the tests.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gbianchi/implant-passport-api/internal/models"
)

// IdentityStore persists principals. Emails are expected in canonical
// (lowercased) form; uniqueness is the store's responsibility.
type IdentityStore interface {
	// FindByEmail returns apperr.ErrNotFound when no identity matches.
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	// FindByID returns apperr.ErrNotFound when no identity matches.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Identity, error)
	// Save inserts the identity, assigning ID when zero. Returns
	// apperr.ErrDuplicateIdentity on an email collision.
	Save(ctx context.Context, ident *models.Identity) error
}

// PassportFilter narrows passport queries. The zero value matches everything;
// a non-zero DentistID restricts to that owner's records.
type PassportFilter struct {
	DentistID primitive.ObjectID
}

// PassportStore persists passport records.
type PassportStore interface {
	// FindByID returns apperr.ErrNotFound when no passport matches.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Passport, error)
	// Find returns matching passports ordered by creation time descending.
	Find(ctx context.Context, filter PassportFilter, skip, limit int64) ([]models.Passport, error)
	Count(ctx context.Context, filter PassportFilter) (int64, error)
	// Save inserts when ID is zero, replaces the stored record otherwise.
	Save(ctx context.Context, p *models.Passport) error
	// Delete returns apperr.ErrNotFound when no passport matches.
	Delete(ctx context.Context, id primitive.ObjectID) error
}
