package utils

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"admission-portal-api/models"
)

// GenerateApplicationSlip renders the official admission application slip
// that is emailed to the applicant after submission.
func GenerateApplicationSlip(app *models.Applicant) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Admission Application Slip", false)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(13, 51, 128)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetXY(12, 8)
	pdf.CellFormat(0, 7, "SHAGID ROYAL COLLEGE OF NURSING & MIDWIFERY", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(12)
	pdf.CellFormat(0, 5, "OFFICIAL ADMISSION APPLICATION SLIP", "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(36)

	if app.ApplicationID != nil {
		slipField(pdf, "Application Number", *app.ApplicationID)
		pdf.Ln(3)
	}

	if p := app.PersonalInfo; p != nil {
		slipSection(pdf, "Personal Information")
		slipField(pdf, "Full Name", p.FullName)
		slipField(pdf, "Email", p.Email)
		slipField(pdf, "Phone", p.Phone)
		slipField(pdf, "Date of Birth", p.DateOfBirth)
		slipField(pdf, "Contact Address", p.ContactAddress)
	}

	if h := app.HealthInfo; h != nil {
		slipSection(pdf, "Health Information")
		slipField(pdf, "Blood Group", h.BloodGroup)
		slipField(pdf, "Genotype", h.Genotype)
		slipField(pdf, "Emergency Contact", h.EmergencyContact)
	}

	if d := app.ProgramDetails; d != nil {
		slipSection(pdf, "Academic Choice")
		slipField(pdf, "Program", d.Program)
		slipField(pdf, "Mode of Study", d.Mode)
		slipField(pdf, "Preferred Campus", d.Campus)
	}

	if u := app.UTMEInfo; u != nil {
		slipSection(pdf, "UTME Details")
		slipField(pdf, "JAMB Reg No", u.JambRegNo)
		slipField(pdf, "JAMB Score", strconv.Itoa(u.JambScore))
		slipField(pdf, "Subjects", strings.Join(u.JambSubjects, ", "))
	}

	if len(app.ExamResults) > 0 {
		slipSection(pdf, "Examination History")
		for i, sitting := range app.ExamResults {
			label := fmt.Sprintf("Sitting %d", i+1)
			slipField(pdf, label, fmt.Sprintf("%s (%s) - %s", sitting.ExamType, sitting.ExamYear, sitting.ExamNumber))
			for _, row := range sitting.Subjects {
				slipField(pdf, "", row.Subject+": "+row.Grade)
			}
		}
	}

	// Declaration footer
	pdf.Ln(6)
	pdf.SetFillColor(242, 242, 242)
	y := pdf.GetY()
	pdf.Rect(12, y, 186, 22, "F")
	pdf.SetXY(16, y+4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "Declaration:", "", 1, "L", false, 0, "")
	pdf.SetX(16)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 4, "I hereby certify that the information provided above is true and accurate.", "", 1, "L", false, 0, "")
	pdf.SetX(16)
	pdf.CellFormat(0, 4, "Generated on: "+time.Now().Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("slip render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func slipSection(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(13, 51, 128)
	pdf.SetX(12)
	pdf.CellFormat(0, 6, strings.ToUpper(title), "B", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func slipField(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetX(16)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(55, 5, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if value == "" {
		value = "N/A"
	}
	pdf.CellFormat(0, 5, value, "", 1, "L", false, 0, "")
}
