package passport

import (
	"strings"
	"time"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/models"
)

const dateLayout = "2006-01-02"

// parseDate accepts plain dates and full RFC3339 timestamps, since clients
// send both.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// validateCreate checks the full payload and reports every violated field.
func validateCreate(in CreateInput) (*models.Passport, error) {
	verr := &apperr.ValidationError{}
	p := &models.Passport{}

	if strings.TrimSpace(in.PatientName) == "" {
		verr.Add("patientName", "patient name is required")
	} else {
		p.PatientName = strings.TrimSpace(in.PatientName)
	}

	if in.DateOfBirth == "" {
		verr.Add("dateOfBirth", "date of birth is required")
	} else if dob, ok := parseDate(in.DateOfBirth); !ok {
		verr.Add("dateOfBirth", "must be a valid date (YYYY-MM-DD)")
	} else {
		p.DateOfBirth = dob
	}

	if in.ImplantType == "" {
		verr.Add("implantType", "implant type is required")
	} else if t := models.ImplantType(in.ImplantType); !t.Valid() {
		verr.Add("implantType", "unknown implant type")
	} else {
		p.ImplantType = t
	}

	validateDetails(in.ImplantDetails, &p.ImplantDetails, verr)

	p.Status = models.StatusActive
	if in.Status != "" {
		if st := models.Status(in.Status); !st.Valid() {
			verr.Add("status", "must be Active or Archived")
		} else {
			p.Status = st
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

func validateDetails(in DetailsInput, out *models.ImplantDetails, verr *apperr.ValidationError) {
	if strings.TrimSpace(in.Brand) == "" {
		verr.Add("implantDetails.brand", "implant brand is required")
	} else {
		out.Brand = strings.TrimSpace(in.Brand)
	}

	if strings.TrimSpace(in.LotNumber) == "" {
		verr.Add("implantDetails.lotNumber", "lot number is required")
	} else {
		out.LotNumber = strings.TrimSpace(in.LotNumber)
	}

	if in.ImplantDate == "" {
		verr.Add("implantDetails.implantDate", "implant date is required")
	} else if d, ok := parseDate(in.ImplantDate); !ok {
		verr.Add("implantDetails.implantDate", "must be a valid date (YYYY-MM-DD)")
	} else {
		out.ImplantDate = d
	}

	if strings.TrimSpace(in.Position) == "" {
		verr.Add("implantDetails.position", "implant position is required")
	} else {
		out.Position = strings.TrimSpace(in.Position)
	}

	if in.Diameter <= minDiameter {
		verr.Add("implantDetails.diameter", "diameter must be greater than 0.1 mm")
	} else {
		out.Diameter = in.Diameter
	}

	if in.Length <= minLength {
		verr.Add("implantDetails.length", "length must be greater than 0.5 mm")
	} else {
		out.Length = in.Length
	}

	out.Notes = strings.TrimSpace(in.Notes)
}

const (
	minDiameter = 0.1
	minLength   = 0.5
)

// applyUpdate re-validates only the fields the patch actually carries, with
// the same rules as creation, and applies them to the record. The owning
// dentist is not patchable at all.
func applyUpdate(p *models.Passport, in UpdateInput) error {
	verr := &apperr.ValidationError{}

	if in.PatientName != nil {
		if strings.TrimSpace(*in.PatientName) == "" {
			verr.Add("patientName", "patient name is required")
		} else {
			p.PatientName = strings.TrimSpace(*in.PatientName)
		}
	}

	if in.DateOfBirth != nil {
		if dob, ok := parseDate(*in.DateOfBirth); !ok {
			verr.Add("dateOfBirth", "must be a valid date (YYYY-MM-DD)")
		} else {
			p.DateOfBirth = dob
		}
	}

	if in.ImplantType != nil {
		if t := models.ImplantType(*in.ImplantType); !t.Valid() {
			verr.Add("implantType", "unknown implant type")
		} else {
			p.ImplantType = t
		}
	}

	if in.ImplantDetails != nil {
		details := models.ImplantDetails{}
		before := len(verr.Fields)
		validateDetails(*in.ImplantDetails, &details, verr)
		if len(verr.Fields) == before {
			p.ImplantDetails = details
		}
	}

	if in.Status != nil {
		// No transition guard: an update may set Archived back to Active.
		if st := models.Status(*in.Status); !st.Valid() {
			verr.Add("status", "must be Active or Archived")
		} else {
			p.Status = st
		}
	}

	return verr.OrNil()
}
