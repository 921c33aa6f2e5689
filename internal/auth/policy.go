package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gbianchi/implant-passport-api/internal/models"
)

// Operation is a passport action subject to authorization.
type Operation string

const (
	OpCreatePassport Operation = "CreatePassport"
	OpReadPassport   Operation = "ReadPassport"
	OpListPassports  Operation = "ListPassports"
	OpUpdatePassport Operation = "UpdatePassport"
	OpDeletePassport Operation = "DeletePassport"
	OpExportPassport Operation = "ExportPassport"
)

// Permit decides whether an identity may perform an operation on a passport
// owned by ownerID (primitive.NilObjectID when no record is involved, as for
// creation). Deny by default.
//
// Admin may do everything except create; a Dentist may create, list, and
// touch only records it owns, never delete; Patient access is reserved for a
// future extension and fully denied.
func Permit(identity *models.Identity, op Operation, ownerID primitive.ObjectID) bool {
	if identity == nil {
		return false
	}
	switch identity.Role {
	case models.RoleAdmin:
		return op != OpCreatePassport
	case models.RoleDentist:
		switch op {
		case OpCreatePassport, OpListPassports:
			return true
		case OpReadPassport, OpUpdatePassport, OpExportPassport:
			return identity.ID == ownerID
		}
		return false
	}
	return false
}

// ListScope is the query filter a ListPassports decision requires the
// resource manager to apply. The zero value means unfiltered.
type ListScope struct {
	DentistID primitive.ObjectID
}

// ScopeList reports whether an identity may list passports and, when it may,
// the mandatory filter: everything for Admin, own records for a Dentist.
// This filter is part of the policy decision, not an optimization.
func ScopeList(identity *models.Identity) (ListScope, bool) {
	if identity == nil {
		return ListScope{}, false
	}
	switch identity.Role {
	case models.RoleAdmin:
		return ListScope{}, true
	case models.RoleDentist:
		return ListScope{DentistID: identity.ID}, true
	}
	return ListScope{}, false
}
