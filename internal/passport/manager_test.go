package passport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/models"
	"github.com/gbianchi/implant-passport-api/internal/store"
)

var (
	admin    = &models.Identity{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	dentist  = &models.Identity{ID: primitive.NewObjectID(), Role: models.RoleDentist}
	dentist2 = &models.Identity{ID: primitive.NewObjectID(), Role: models.RoleDentist}
	patient  = &models.Identity{ID: primitive.NewObjectID(), Role: models.RolePatient}
)

func newManager() *Manager {
	return NewManager(store.NewMemoryPassportStore())
}

func TestCreatePassport(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	p, err := m.Create(ctx, dentist, validInput())
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, p.Status)
	require.Equal(t, dentist.ID, p.DentistID, "owner is the creating dentist")
	require.False(t, p.ID.IsZero())
	require.False(t, p.CreatedAt.IsZero())

	// Age derives from 1980-01-01 at read time; a Jan 1 birthday has always
	// passed in the current year.
	require.Equal(t, time.Now().Year()-1980, p.PatientAge())
}

func TestCreatePassportDeniedRoles(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	_, err := m.Create(ctx, admin, validInput())
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = m.Create(ctx, patient, validInput())
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestGetByIDOwnership(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	p, err := m.Create(ctx, dentist, validInput())
	require.NoError(t, err)

	got, err := m.GetByID(ctx, dentist, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	_, err = m.GetByID(ctx, admin, p.ID)
	require.NoError(t, err)

	// A second dentist learns the record exists (403, not 404).
	_, err = m.GetByID(ctx, dentist2, p.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = m.GetByID(ctx, dentist, primitive.NewObjectID())
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		in := validInput()
		in.PatientName = fmt.Sprintf("Patient %02d", i)
		_, err := m.Create(ctx, dentist, in)
		require.NoError(t, err)
	}

	page, err := m.List(ctx, dentist, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	require.EqualValues(t, 1, page.CurrentPage)
	require.EqualValues(t, 2, page.TotalPages)
	require.EqualValues(t, 11, page.TotalCount)
	require.Equal(t, "Patient 10", page.Items[0].PatientName, "newest first")

	page, err = m.List(ctx, dentist, 2, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Patient 00", page.Items[0].PatientName)

	// Defaults kick in for out-of-range values.
	page, err = m.List(ctx, dentist, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	require.EqualValues(t, 1, page.CurrentPage)
}

func TestListScoping(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	_, err := m.Create(ctx, dentist, validInput())
	require.NoError(t, err)
	_, err = m.Create(ctx, dentist2, validInput())
	require.NoError(t, err)

	mine, err := m.List(ctx, dentist, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, mine.TotalCount)
	require.Equal(t, dentist.ID, mine.Items[0].DentistID)

	all, err := m.List(ctx, admin, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, all.TotalCount)

	_, err = m.List(ctx, patient, 1, 10)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUpdate(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	p, err := m.Create(ctx, dentist, validInput())
	require.NoError(t, err)

	name := "Luigi Verdi"
	updated, err := m.Update(ctx, dentist, p.ID, UpdateInput{PatientName: &name})
	require.NoError(t, err)
	require.Equal(t, "Luigi Verdi", updated.PatientName)
	require.Equal(t, dentist.ID, updated.DentistID)

	_, err = m.Update(ctx, dentist2, p.ID, UpdateInput{PatientName: &name})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = m.Update(ctx, admin, p.ID, UpdateInput{PatientName: &name})
	require.NoError(t, err)

	_, err = m.Update(ctx, admin, primitive.NewObjectID(), UpdateInput{PatientName: &name})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateIdempotent(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	p, err := m.Create(ctx, dentist, validInput())
	require.NoError(t, err)

	active := "Active"
	first, err := m.Update(ctx, dentist, p.ID, UpdateInput{Status: &active})
	require.NoError(t, err)
	second, err := m.Update(ctx, dentist, p.ID, UpdateInput{Status: &active})
	require.NoError(t, err)

	// Same stored record apart from updatedAt drift.
	second.UpdatedAt = first.UpdatedAt
	require.Equal(t, first, second)
}

func TestUpdateValidationLeavesRecordUntouched(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	p, err := m.Create(ctx, dentist, validInput())
	require.NoError(t, err)

	bad := "Paused"
	_, err = m.Update(ctx, dentist, p.ID, UpdateInput{Status: &bad})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := m.GetByID(ctx, dentist, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, stored.Status)
	require.Equal(t, p.UpdatedAt, stored.UpdatedAt)
}

func TestDelete(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	p, err := m.Create(ctx, dentist, validInput())
	require.NoError(t, err)

	// Not even the owning dentist may delete.
	err = m.Delete(ctx, dentist, p.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, m.Delete(ctx, admin, p.ID))

	_, err = m.GetByID(ctx, dentist, p.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = m.Delete(ctx, admin, p.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestExportSnapshot(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	p, err := m.Create(ctx, dentist, validInput())
	require.NoError(t, err)

	s, err := m.Export(ctx, dentist, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID.Hex(), s.ID)
	require.Equal(t, dentist.ID.Hex(), s.DentistID)
	require.Equal(t, p.PatientAge(), s.PatientAge)
	require.Equal(t, models.ImplantZirconia, s.ImplantType)

	// Export never mutates the record.
	stored, err := m.GetByID(ctx, dentist, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.UpdatedAt, stored.UpdatedAt)

	_, err = m.Export(ctx, dentist2, p.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = m.Export(ctx, patient, primitive.NewObjectID())
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
