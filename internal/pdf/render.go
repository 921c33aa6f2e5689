// Package pdf renders a passport snapshot into a downloadable PDF document.
// Rendering is pure: it reads the snapshot and produces bytes, nothing else.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/gbianchi/implant-passport-api/internal/apperr"
	"github.com/gbianchi/implant-passport-api/internal/passport"
)

const dateFormat = "02/01/2006"

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces an A4 implant passport document from a snapshot. Failures
// are wrapped as apperr.ErrRender.
func (r *Renderer) Render(s *passport.Snapshot) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Implant Passport", false)
	doc.SetMargins(18, 18, 18)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 22)
	doc.CellFormat(0, 12, "IMPLANT PASSPORT", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, "Digital Document", "", 1, "C", false, 0, "")
	divider(doc)

	section(doc, "PATIENT INFORMATION")
	field(doc, "Name", s.PatientName)
	field(doc, "Date of Birth", s.DateOfBirth.Format(dateFormat))
	field(doc, "Age", fmt.Sprintf("%d years", s.PatientAge))

	section(doc, "IMPLANT DETAILS")
	field(doc, "Type", string(s.ImplantType))
	field(doc, "Brand", s.ImplantDetails.Brand)
	field(doc, "Lot Number", s.ImplantDetails.LotNumber)
	field(doc, "Implant Date", s.ImplantDetails.ImplantDate.Format(dateFormat))
	field(doc, "Position", s.ImplantDetails.Position)
	field(doc, "Diameter", fmt.Sprintf("%.1f mm", s.ImplantDetails.Diameter))
	field(doc, "Length", fmt.Sprintf("%.1f mm", s.ImplantDetails.Length))
	if s.ImplantDetails.Notes != "" {
		field(doc, "Notes", s.ImplantDetails.Notes)
	}
	divider(doc)

	section(doc, "RECORD")
	field(doc, "Status", string(s.Status))
	field(doc, "Dentist ID", s.DentistID)
	field(doc, "Created", s.CreatedAt.Format(dateFormat))
	field(doc, "Document ID", s.ID)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrRender, err)
	}
	return buf.Bytes(), nil
}

func section(doc *fpdf.Fpdf, title string) {
	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
}

func field(doc *fpdf.Fpdf, label, value string) {
	doc.CellFormat(40, 6, label+":", "", 0, "L", false, 0, "")
	doc.MultiCell(0, 6, value, "", "L", false)
}

func divider(doc *fpdf.Fpdf) {
	doc.Ln(3)
	x, y := doc.GetX(), doc.GetY()
	w, _ := doc.GetPageSize()
	doc.Line(x, y, w-18, y)
	doc.Ln(3)
}
