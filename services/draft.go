package services

import (
	"errors"
	"fmt"

	"admission-portal-api/models"
)

var (
	// ErrDraftNotFound is returned when no draft exists for the owner yet.
	ErrDraftNotFound = errors.New("application draft not found")

	// ErrDuplicateApplicationID signals a collision on the application_id
	// unique index. Callers retry with a fresh identifier.
	ErrDuplicateApplicationID = errors.New("application id already taken")
)

// DraftStore is the persistence boundary for application drafts. Every write
// is an atomic upsert keyed on the owner's unique user id, which is the only
// concurrency-control primitive the workflow relies on: concurrent writes to
// different sections land in disjoint columns, and finalize/payment races
// resolve to the same terminal state whichever arrives first.
type DraftStore interface {
	// FindByOwner returns the owner's draft or ErrDraftNotFound.
	FindByOwner(userID int) (*models.Applicant, error)

	// UpsertSection creates the draft if absent, otherwise replaces the one
	// named section wholesale. It never touches submitted, application_id
	// or payment fields.
	UpsertSection(userID int, section SectionKey, value interface{}) error

	// MarkSubmitted sets submitted=true and assigns applicationID unless the
	// draft already carries one (the stored id always wins, so retried
	// finalizations never mint a second id). Returns
	// ErrDuplicateApplicationID when the id collides with another draft.
	MarkSubmitted(userID int, applicationID string) error

	// MarkPaid records a verified payment: submitted=true,
	// payment_verified=true, the provider reference and the charged amount.
	// Creates the draft row if the webhook outruns every step save.
	MarkPaid(userID int, reference string, amount float64) error
}

// sectionColumns maps section keys to their database columns.
var sectionColumns = map[SectionKey]string{
	SectionPersonalInfo:    "personal_info",
	SectionHealthInfo:      "health_info",
	SectionSchoolsAttended: "schools_attended",
	SectionExamResults:     "exam_results",
	SectionProgramDetails:  "program_details",
	SectionUTMEInfo:        "utme_info",
}

// applySection copies a validated section value onto the draft model.
func applySection(app *models.Applicant, section SectionKey, value interface{}) error {
	switch section {
	case SectionPersonalInfo:
		info, ok := value.(*models.PersonalInfo)
		if !ok {
			return fmt.Errorf("unexpected value for %s: %T", section, value)
		}
		app.PersonalInfo = info
	case SectionHealthInfo:
		info, ok := value.(*models.HealthInfo)
		if !ok {
			return fmt.Errorf("unexpected value for %s: %T", section, value)
		}
		app.HealthInfo = info
	case SectionSchoolsAttended:
		info, ok := value.(*models.SchoolsAttended)
		if !ok {
			return fmt.Errorf("unexpected value for %s: %T", section, value)
		}
		app.SchoolsAttended = info
	case SectionExamResults:
		sittings, ok := value.([]models.ExamSitting)
		if !ok {
			return fmt.Errorf("unexpected value for %s: %T", section, value)
		}
		app.ExamResults = sittings
	case SectionProgramDetails:
		info, ok := value.(*models.ProgramDetails)
		if !ok {
			return fmt.Errorf("unexpected value for %s: %T", section, value)
		}
		app.ProgramDetails = info
	case SectionUTMEInfo:
		info, ok := value.(*models.UTMEInfo)
		if !ok {
			return fmt.Errorf("unexpected value for %s: %T", section, value)
		}
		app.UTMEInfo = info
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	return nil
}

// MergeSection persists one validated step onto the owner's draft. The whole
// section is replaced, never patched field by field, so resubmitting a step is
// idempotent and cannot leave stale sibling fields behind.
func MergeSection(store DraftStore, userID int, section SectionKey, value interface{}) error {
	if _, ok := sectionColumns[section]; !ok {
		return fmt.Errorf("unknown section %q", section)
	}
	return store.UpsertSection(userID, section, value)
}
