package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImplantType is the catalogue of supported implant materials.
type ImplantType string

const (
	ImplantTitaniumStandard ImplantType = "TitaniumStandard"
	ImplantTitaniumPremium  ImplantType = "TitaniumPremium"
	ImplantCeramic          ImplantType = "Ceramic"
	ImplantZirconia         ImplantType = "Zirconia"
)

func (t ImplantType) Valid() bool {
	switch t {
	case ImplantTitaniumStandard, ImplantTitaniumPremium, ImplantCeramic, ImplantZirconia:
		return true
	}
	return false
}

// Status of a passport record. Updates may set either value; there is no
// transition guard between them.
type Status string

const (
	StatusActive   Status = "Active"
	StatusArchived Status = "Archived"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived
}

// ImplantDetails describes the fitted implant itself.
type ImplantDetails struct {
	Brand       string    `bson:"brand" json:"brand"`
	LotNumber   string    `bson:"lotNumber" json:"lotNumber"`
	ImplantDate time.Time `bson:"implantDate" json:"implantDate"`
	Position    string    `bson:"position" json:"position"`
	Diameter    float64   `bson:"diameter" json:"diameter"`
	Length      float64   `bson:"length" json:"length"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Passport is the implant medical record under access control. DentistID is
// the owning dentist and never changes after creation.
type Passport struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientName    string             `bson:"patientName" json:"patientName"`
	DateOfBirth    time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	ImplantType    ImplantType        `bson:"implantType" json:"implantType"`
	ImplantDetails ImplantDetails     `bson:"implantDetails" json:"implantDetails"`
	Status         Status             `bson:"status" json:"status"`
	DentistID      primitive.ObjectID `bson:"dentistId" json:"dentistId"`
	PatientID      primitive.ObjectID `bson:"patientId,omitempty" json:"patientId,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PatientAge computes the patient's age in whole years as of now. Derived at
// read time from DateOfBirth, never stored.
func (p *Passport) PatientAge() int {
	return p.PatientAgeAt(time.Now())
}

// PatientAgeAt computes the age at a given reference time, decrementing when
// the birthday has not yet occurred in the reference year.
func (p *Passport) PatientAgeAt(at time.Time) int {
	age := at.Year() - p.DateOfBirth.Year()
	if at.Month() < p.DateOfBirth.Month() ||
		(at.Month() == p.DateOfBirth.Month() && at.Day() < p.DateOfBirth.Day()) {
		age--
	}
	return age
}

// MarshalJSON adds the derived patientAge field to API responses. BSON
// marshalling does not go through here, so the age is never persisted.
func (p Passport) MarshalJSON() ([]byte, error) {
	type passport Passport
	return json.Marshal(struct {
		passport
		PatientAge int `json:"patientAge"`
	}{passport(p), p.PatientAge()})
}
