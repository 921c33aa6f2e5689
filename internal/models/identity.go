package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of principal roles. Authorization decisions key on
// this type, never on raw strings.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleDentist Role = "Dentist"
	RolePatient Role = "Patient"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDentist, RolePatient:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role, reporting whether it matched.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Identity is an authenticated principal. Email is stored lowercased and is
// unique; the role is fixed at signup.
type Identity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // bcrypt digest, never serialized
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
