// Package passport owns the lifecycle of implant passport records: creation,
// lookup, scoped listing, updates, deletion and read-only export. Permission
// checks delegate to the auth policy, persistence to the passport store.
package passport

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/auth"
	"github.com/gbianchi/implant-passport-api/internal/models"
	"github.com/gbianchi/implant-passport-api/internal/store"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// Manager executes passport operations on behalf of a resolved identity.
type Manager struct {
	passports store.PassportStore
}

func NewManager(passports store.PassportStore) *Manager {
	return &Manager{passports: passports}
}

// CreateInput is the creation payload. Dates travel as strings so the
// validator can report bad formats as field errors. The owning dentist is
// always the caller, never part of the payload.
type CreateInput struct {
	PatientName    string       `json:"patientName"`
	DateOfBirth    string       `json:"dateOfBirth"`
	ImplantType    string       `json:"implantType"`
	ImplantDetails DetailsInput `json:"implantDetails"`
	Status         string       `json:"status"`
	PatientID      string       `json:"patientId"`
}

type DetailsInput struct {
	Brand       string  `json:"brand"`
	LotNumber   string  `json:"lotNumber"`
	ImplantDate string  `json:"implantDate"`
	Position    string  `json:"position"`
	Diameter    float64 `json:"diameter"`
	Length      float64 `json:"length"`
	Notes       string  `json:"notes"`
}

// UpdateInput is a sparse patch: nil fields are untouched. There is no
// dentistId field, which makes owner immutability structural.
type UpdateInput struct {
	PatientName    *string       `json:"patientName,omitempty"`
	DateOfBirth    *string       `json:"dateOfBirth,omitempty"`
	ImplantType    *string       `json:"implantType,omitempty"`
	ImplantDetails *DetailsInput `json:"implantDetails,omitempty"`
	Status         *string       `json:"status,omitempty"`
}

// Page is one page of a passport listing.
type Page struct {
	Items       []models.Passport `json:"items"`
	CurrentPage int64             `json:"currentPage"`
	TotalPages  int64             `json:"totalPages"`
	TotalCount  int64             `json:"totalCount"`
}

// Snapshot is the immutable projection handed to the PDF renderer. It carries
// the computed patient age so rendering needs no access to the record.
type Snapshot struct {
	ID             string
	PatientName    string
	DateOfBirth    time.Time
	PatientAge     int
	ImplantType    models.ImplantType
	ImplantDetails models.ImplantDetails
	Status         models.Status
	DentistID      string
	CreatedAt      time.Time
}

// Create validates the payload and persists a new passport owned by the
// calling dentist. Status defaults to Active.
func (m *Manager) Create(ctx context.Context, ident *models.Identity, in CreateInput) (*models.Passport, error) {
	if !auth.Permit(ident, auth.OpCreatePassport, primitive.NilObjectID) {
		return nil, apperr.ErrForbidden
	}
	p, err := validateCreate(in)
	if err != nil {
		return nil, err
	}
	if in.PatientID != "" {
		pid, err := primitive.ObjectIDFromHex(in.PatientID)
		if err != nil {
			return nil, (&apperr.ValidationError{}).Add("patientId", "must be a valid id")
		}
		p.PatientID = pid
	}

	now := time.Now()
	p.DentistID = ident.ID
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := m.passports.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID loads a passport. Existence is checked before permission, so an
// unauthorized caller gets 403 for a record that exists and 404 otherwise.
func (m *Manager) GetByID(ctx context.Context, ident *models.Identity, id primitive.ObjectID) (*models.Passport, error) {
	p, err := m.passports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Permit(ident, auth.OpReadPassport, p.DentistID) {
		return nil, apperr.ErrForbidden
	}
	return p, nil
}

// List returns one page of passports under the filter the policy decision
// mandates: everything for Admin, own records for a Dentist. Pages are
// 1-indexed, newest records first.
func (m *Manager) List(ctx context.Context, ident *models.Identity, page, pageSize int64) (*Page, error) {
	scope, ok := auth.ScopeList(ident)
	if !ok {
		return nil, apperr.ErrForbidden
	}
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := store.PassportFilter{DentistID: scope.DentistID}
	total, err := m.passports.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := m.passports.Find(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return &Page{
		Items:       items,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
	}, nil
}

// Update applies a sparse patch after re-validating every touched field.
// Validation failures leave the stored record untouched.
func (m *Manager) Update(ctx context.Context, ident *models.Identity, id primitive.ObjectID, in UpdateInput) (*models.Passport, error) {
	p, err := m.passports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Permit(ident, auth.OpUpdatePassport, p.DentistID) {
		return nil, apperr.ErrForbidden
	}
	if err := applyUpdate(p, in); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := m.passports.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a passport. Only Admin passes the permission check.
func (m *Manager) Delete(ctx context.Context, ident *models.Identity, id primitive.ObjectID) error {
	p, err := m.passports.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.Permit(ident, auth.OpDeletePassport, p.DentistID) {
		return apperr.ErrForbidden
	}
	return m.passports.Delete(ctx, id)
}

// Export builds the read-only projection handed to the PDF renderer. It never
// mutates the record.
func (m *Manager) Export(ctx context.Context, ident *models.Identity, id primitive.ObjectID) (*Snapshot, error) {
	p, err := m.passports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.Permit(ident, auth.OpExportPassport, p.DentistID) {
		return nil, apperr.ErrForbidden
	}
	return &Snapshot{
		ID:             p.ID.Hex(),
		PatientName:    p.PatientName,
		DateOfBirth:    p.DateOfBirth,
		PatientAge:     p.PatientAge(),
		ImplantType:    p.ImplantType,
		ImplantDetails: p.ImplantDetails,
		Status:         p.Status,
		DentistID:      p.DentistID.Hex(),
		CreatedAt:      p.CreatedAt,
	}, nil
}
