package models

import (
	"time"
)

// Application review statuses (mutated by the registrar back office, read-only here)
const (
	StatusPending  = "Pending"
	StatusReviewed = "Reviewed"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// Workflow states derived from the (submitted, payment_verified) pair
const (
	StateDraft           = "Draft"
	StateSubmittedUnpaid = "SubmittedUnpaid"
	StateSubmittedPaid   = "SubmittedPaid"
)

// PersonalInfo is the step-1 section.
type PersonalInfo struct {
	FullName              string `json:"fullName" validate:"required"`
	Gender                string `json:"gender" validate:"required"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone" validate:"required,min=8"`
	PassportURL           string `json:"passportUrl" validate:"omitempty"`
	ContactAddress        string `json:"contactAddress" validate:"required,min=5"`
	DateOfBirth           string `json:"dateOfBirth" validate:"required"`
	ParentsName           string `json:"parentsName" validate:"required"`
	ParentsContactAddress string `json:"parentsContactAddress" validate:"required"`
}

// HealthInfo is the step-2 section.
type HealthInfo struct {
	BloodGroup       string `json:"bloodGroup" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Genotype         string `json:"genotype" validate:"required,oneof=AA AS SS AC SC"`
	Disability       string `json:"disability" validate:"omitempty"`
	ChronicIllness   string `json:"chronicIllness" validate:"omitempty"`
	EmergencyContact string `json:"emergencyContact" validate:"required"`
}

// SchoolsAttended is the step-3 section.
type SchoolsAttended struct {
	PrimarySchool     string `json:"primarySchool" validate:"required"`
	SecondarySchool   string `json:"secondarySchool" validate:"required"`
	OtherInstitutions string `json:"otherInstitutions" validate:"omitempty"`
}

// SubjectResult is one O-level subject/grade row inside a sitting.
type SubjectResult struct {
	Subject string `json:"subject" validate:"required"`
	Grade   string `json:"grade" validate:"required,oneof=A1 B2 B3 C4 C5 C6 D7 E8 F9"`
}

// ExamSitting is one O-level sitting. Applicants register one or two.
type ExamSitting struct {
	ExamType   string          `json:"examType" validate:"required,oneof=WAEC NECO NABTEB"`
	ExamYear   string          `json:"examYear" validate:"required,len=4,numeric"`
	ExamNumber string          `json:"examNumber" validate:"required"`
	Subjects   []SubjectResult `json:"subjects" validate:"min=5,dive"`
}

// ProgramDetails is the step-5 section.
type ProgramDetails struct {
	Program string `json:"program" validate:"required"`
	Mode    string `json:"mode" validate:"required,oneof=Full-time Part-time"`
	Campus  string `json:"campus" validate:"required"`
}

// UTMEInfo is the step-6 section. JambScore arrives as a string from some
// clients and is coerced before validation.
type UTMEInfo struct {
	JambRegNo    string   `json:"jambRegNo" validate:"required,min=6"`
	JambScore    int      `json:"jambScore" validate:"gte=0,lte=400"`
	JambSubjects []string `json:"jambSubjects" validate:"len=4,unique,dive,required"`
}

// Applicant is the application draft: exactly one row per user, filled in one
// section at a time across the wizard. Sections are JSON columns so a step
// save replaces a single disjoint column.
type Applicant struct {
	ApplicantID     int              `gorm:"primaryKey;column:applicant_id" json:"applicant_id"`
	UserID          int              `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	ApplicationID   *string          `gorm:"column:application_id;uniqueIndex" json:"application_id"`
	PersonalInfo    *PersonalInfo    `gorm:"column:personal_info;serializer:json" json:"personal_info"`
	HealthInfo      *HealthInfo      `gorm:"column:health_info;serializer:json" json:"health_info"`
	SchoolsAttended *SchoolsAttended `gorm:"column:schools_attended;serializer:json" json:"schools_attended"`
	ExamResults     []ExamSitting    `gorm:"column:exam_results;serializer:json" json:"exam_results"`
	ProgramDetails  *ProgramDetails  `gorm:"column:program_details;serializer:json" json:"program_details"`
	UTMEInfo        *UTMEInfo        `gorm:"column:utme_info;serializer:json" json:"utme_info"`
	Submitted       bool             `gorm:"column:submitted;default:false" json:"submitted"`
	PaymentVerified bool             `gorm:"column:payment_verified;default:false" json:"payment_verified"`
	PaymentRef      *string          `gorm:"column:payment_reference" json:"payment_reference"`
	PaidAmount      *float64         `gorm:"column:paid_amount" json:"paid_amount"`
	Status          string           `gorm:"column:status;default:Pending" json:"status"`
	CreateAt        time.Time        `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt        time.Time        `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
}

// TableName overrides
func (Applicant) TableName() string {
	return "applicants"
}

// WorkflowState derives the wizard state from the submitted/paid pair.
func (a *Applicant) WorkflowState() string {
	switch {
	case a.Submitted && a.PaymentVerified:
		return StateSubmittedPaid
	case a.Submitted:
		return StateSubmittedUnpaid
	default:
		return StateDraft
	}
}

// ContactEmail returns the best known address for the applicant.
func (a *Applicant) ContactEmail() string {
	if a.PersonalInfo != nil && a.PersonalInfo.Email != "" {
		return a.PersonalInfo.Email
	}
	return ""
}
