package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/models"
)

// MemoryIdentityStore is an in-memory IdentityStore used by tests. It
// enforces the same email uniqueness rule as the Mongo index.
type MemoryIdentityStore struct {
	mu    sync.Mutex
	items []models.Identity
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{}
}

func (s *MemoryIdentityStore) FindByEmail(_ context.Context, email string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Email == email {
			ident := s.items[i]
			return &ident, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemoryIdentityStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			ident := s.items[i]
			return &ident, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *MemoryIdentityStore) Save(_ context.Context, ident *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Email == ident.Email && s.items[i].ID != ident.ID {
			return apperr.ErrDuplicateIdentity
		}
	}
	if ident.ID.IsZero() {
		ident.ID = primitive.NewObjectID()
	}
	for i := range s.items {
		if s.items[i].ID == ident.ID {
			s.items[i] = *ident
			return nil
		}
	}
	s.items = append(s.items, *ident)
	return nil
}

// Delete removes an identity; tests use it to simulate accounts deleted out
// of band while a token for them is still in circulation.
func (s *MemoryIdentityStore) Delete(_ context.Context, id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// MemoryPassportStore is an in-memory PassportStore used by tests. Items are
// kept in insertion order; Find walks them backwards, which matches the
// createdAt-descending contract for records created in sequence.
type MemoryPassportStore struct {
	mu    sync.Mutex
	items []models.Passport
}

func NewMemoryPassportStore() *MemoryPassportStore {
	return &MemoryPassportStore{}
}

func (s *MemoryPassportStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Passport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			p := s.items[i]
			return &p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f PassportFilter) matches(p *models.Passport) bool {
	return f.DentistID.IsZero() || p.DentistID == f.DentistID
}

func (s *MemoryPassportStore) Find(_ context.Context, filter PassportFilter, skip, limit int64) ([]models.Passport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Passport, 0)
	var seen int64
	for i := len(s.items) - 1; i >= 0; i-- {
		if !filter.matches(&s.items[i]) {
			continue
		}
		if seen < skip {
			seen++
			continue
		}
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *MemoryPassportStore) Count(_ context.Context, filter PassportFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.items {
		if filter.matches(&s.items[i]) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryPassportStore) Save(_ context.Context, p *models.Passport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i] = *p
			return nil
		}
	}
	s.items = append(s.items, *p)
	return nil
}

func (s *MemoryPassportStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}
