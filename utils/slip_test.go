package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admission-portal-api/models"
)

func TestGenerateApplicationSlip(t *testing.T) {
	id := "SON/2025/4821"
	app := &models.Applicant{
		UserID:        7,
		ApplicationID: &id,
		PersonalInfo: &models.PersonalInfo{
			FullName:       "Jane Doe",
			Email:          "jane@example.com",
			Phone:          "08031234567",
			DateOfBirth:    "2004-03-15",
			ContactAddress: "12 College Road, Lagos",
		},
		HealthInfo: &models.HealthInfo{
			BloodGroup:       "O+",
			Genotype:         "AS",
			EmergencyContact: "08030000000",
		},
		ProgramDetails: &models.ProgramDetails{
			Program: "Nursing",
			Mode:    "Full-time",
			Campus:  "Main Campus",
		},
		UTMEInfo: &models.UTMEInfo{
			JambRegNo:    "202511223344AB",
			JambScore:    265,
			JambSubjects: []string{"English Language", "Biology", "Chemistry", "Physics"},
		},
		ExamResults: []models.ExamSitting{{
			ExamType:   "WAEC",
			ExamYear:   "2023",
			ExamNumber: "4250101023",
			Subjects: []models.SubjectResult{
				{Subject: "English Language", Grade: "B2"},
				{Subject: "Mathematics", Grade: "B3"},
				{Subject: "Biology", Grade: "A1"},
				{Subject: "Chemistry", Grade: "C4"},
				{Subject: "Physics", Grade: "C5"},
			},
		}},
		Submitted: true,
	}

	pdf, err := GenerateApplicationSlip(app)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateApplicationSlipWithSparseDraft(t *testing.T) {
	// Payment can confirm before any section is saved; the slip still renders.
	pdf, err := GenerateApplicationSlip(&models.Applicant{UserID: 9})
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
