package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"admission-portal-api/models"
)

// applicationIDPrefix is the school code carried by every admission number.
const applicationIDPrefix = "SON"

// maxIDAttempts bounds the retry loop on application_id collisions. The
// suffix space is 10^4 per year, so collisions stay rare until the pool is
// nearly exhausted.
const maxIDAttempts = 5

// NewApplicationID mints a human-readable admission number, e.g. SON/2025/4821.
func NewApplicationID() string {
	return fmt.Sprintf("%s/%d/%04d", applicationIDPrefix, time.Now().Year(), rand.Intn(10000))
}

// Finalizer runs the step-7 submission: it re-validates the whole assembled
// draft, assigns the admission number exactly once, marks the draft submitted
// and hands the result to the notifier.
type Finalizer struct {
	Store DraftStore

	// NewID generates candidate admission numbers. Defaults to NewApplicationID.
	NewID func() string

	// Notify, when set, runs after the submission is committed. It is
	// best-effort: the finalizer never reports its failures to the caller.
	Notify func(app *models.Applicant)
}

// Finalize validates and submits the owner's draft, returning the admission
// number. A FieldErrors result names every incomplete section and failing
// field; a repeated call after success returns the already-assigned number.
func (f *Finalizer) Finalize(userID int) (string, error) {
	app, err := f.Store.FindByOwner(userID)
	if errors.Is(err, ErrDraftNotFound) {
		app = &models.Applicant{UserID: userID}
	} else if err != nil {
		return "", err
	}

	// The full-assembly gate: a step can be individually valid while the
	// ensemble is still incomplete.
	if errs := ValidateFull(app); errs != nil {
		return "", errs
	}

	newID := f.NewID
	if newID == nil {
		newID = NewApplicationID
	}

	// Reuse the stored admission number if one exists; a retried finalize
	// must never mint a second id.
	if app.ApplicationID != nil && *app.ApplicationID != "" {
		if err := f.Store.MarkSubmitted(userID, *app.ApplicationID); err != nil {
			return "", err
		}
		f.afterSubmit(userID)
		return *app.ApplicationID, nil
	}

	var lastErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := newID()
		err := f.Store.MarkSubmitted(userID, id)
		if err == nil {
			f.afterSubmit(userID)
			return id, nil
		}
		if errors.Is(err, ErrDuplicateApplicationID) {
			lastErr = err
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("could not assign a unique application id: %w", lastErr)
}

func (f *Finalizer) afterSubmit(userID int) {
	if f.Notify == nil {
		return
	}
	app, err := f.Store.FindByOwner(userID)
	if err != nil {
		log.Printf("finalize: reload for notification failed for user %d: %v", userID, err)
		return
	}
	f.Notify(app)
}
