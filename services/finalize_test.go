package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admission-portal-api/models"
)

var applicationIDPattern = regexp.MustCompile(`^SON/\d{4}/\d{4}$`)

func testSchools() *models.SchoolsAttended {
	return &models.SchoolsAttended{
		PrimarySchool:   "St. Mary Primary School",
		SecondarySchool: "Government College Kaduna",
	}
}

func testSittings() []models.ExamSitting {
	return []models.ExamSitting{{
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
	}}
}

func testProgram() *models.ProgramDetails {
	return &models.ProgramDetails{
		Program: "Nursing",
		Mode:    "Full-time",
		Campus:  "Main Campus",
	}
}

func testUTME() *models.UTMEInfo {
	return &models.UTMEInfo{
		JambRegNo:    "202511223344AB",
		JambScore:    265,
		JambSubjects: []string{"English Language", "Biology", "Chemistry", "Physics"},
	}
}

func saveAllSections(t *testing.T, store DraftStore, userID int) {
	t.Helper()
	require.NoError(t, MergeSection(store, userID, SectionPersonalInfo, testPersonalInfo()))
	require.NoError(t, MergeSection(store, userID, SectionHealthInfo, testHealthInfo()))
	require.NoError(t, MergeSection(store, userID, SectionSchoolsAttended, testSchools()))
	require.NoError(t, MergeSection(store, userID, SectionExamResults, testSittings()))
	require.NoError(t, MergeSection(store, userID, SectionProgramDetails, testProgram()))
	require.NoError(t, MergeSection(store, userID, SectionUTMEInfo, testUTME()))
}

func TestFinalizeRejectsIncompleteDraft(t *testing.T) {
	store := newMemoryDraftStore()

	// Steps 1 and 6 saved, everything in between skipped.
	require.NoError(t, MergeSection(store, 7, SectionPersonalInfo, testPersonalInfo()))
	require.NoError(t, MergeSection(store, 7, SectionUTMEInfo, testUTME()))

	f := Finalizer{Store: store}
	_, err := f.Finalize(7)
	require.Error(t, err)

	var errs FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "healthInfo")
	assert.Contains(t, errs, "schoolsAttended")
	assert.Contains(t, errs, "examResults")
	assert.Contains(t, errs, "programDetails")
	assert.NotContains(t, errs, "personalInfo")
	assert.NotContains(t, errs, "utmeInfo")

	// A rejected finalize marks nothing submitted.
	app, findErr := store.FindByOwner(7)
	require.NoError(t, findErr)
	assert.False(t, app.Submitted)
	assert.Nil(t, app.ApplicationID)
}

func TestFinalizeWithNoDraftNamesEverySection(t *testing.T) {
	f := Finalizer{Store: newMemoryDraftStore()}
	_, err := f.Finalize(42)

	var errs FieldErrors
	require.ErrorAs(t, err, &errs)
	for _, section := range AllSections {
		assert.Contains(t, errs, string(section))
	}
}

func TestFinalizeAssignsIDOnce(t *testing.T) {
	store := newMemoryDraftStore()
	saveAllSections(t, store, 7)

	f := Finalizer{Store: store}
	first, err := f.Finalize(7)
	require.NoError(t, err)
	assert.Regexp(t, applicationIDPattern, first)

	// Retrying after a client timeout must return the same number.
	second, err := f.Finalize(7)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	app, err := store.FindByOwner(7)
	require.NoError(t, err)
	assert.True(t, app.Submitted)
	require.NotNil(t, app.ApplicationID)
	assert.Equal(t, first, *app.ApplicationID)
}

func TestFinalizeRetriesOnIDCollision(t *testing.T) {
	store := newMemoryDraftStore()

	// Another applicant already holds the first candidate number.
	saveAllSections(t, store, 1)
	require.NoError(t, store.MarkSubmitted(1, "SON/2025/0001"))

	saveAllSections(t, store, 7)

	candidates := []string{"SON/2025/0001", "SON/2025/0002"}
	f := Finalizer{
		Store: store,
		NewID: func() string {
			id := candidates[0]
			if len(candidates) > 1 {
				candidates = candidates[1:]
			}
			return id
		},
	}

	id, err := f.Finalize(7)
	require.NoError(t, err)
	assert.Equal(t, "SON/2025/0002", id)
}

func TestFinalizeGivesUpAfterExhaustedCollisions(t *testing.T) {
	store := newMemoryDraftStore()
	saveAllSections(t, store, 1)
	require.NoError(t, store.MarkSubmitted(1, "SON/2025/0001"))

	saveAllSections(t, store, 7)

	f := Finalizer{
		Store: store,
		NewID: func() string { return "SON/2025/0001" },
	}
	_, err := f.Finalize(7)
	require.Error(t, err)
}

func TestFinalizeNotifiesAfterCommit(t *testing.T) {
	store := newMemoryDraftStore()
	saveAllSections(t, store, 7)

	var notified *models.Applicant
	f := Finalizer{
		Store:  store,
		Notify: func(app *models.Applicant) { notified = app },
	}

	id, err := f.Finalize(7)
	require.NoError(t, err)
	require.NotNil(t, notified)
	require.NotNil(t, notified.ApplicationID)
	assert.Equal(t, id, *notified.ApplicationID)
	assert.True(t, notified.Submitted)
}

func TestFinalizeDoesNotNotifyOnValidationFailure(t *testing.T) {
	store := newMemoryDraftStore()

	called := false
	f := Finalizer{
		Store:  store,
		Notify: func(*models.Applicant) { called = true },
	}
	_, err := f.Finalize(7)
	require.Error(t, err)
	assert.False(t, called)
}

func TestNewApplicationIDFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, applicationIDPattern, NewApplicationID())
	}
}

func TestFinalizeAndPaymentOrderIndependence(t *testing.T) {
	confirm := func(store DraftStore, userID int) {
		require.NoError(t, store.MarkPaid(userID, "ref-42", 25000))
	}

	// finalize first, then payment
	storeA := newMemoryDraftStore()
	saveAllSections(t, storeA, 7)
	fA := Finalizer{Store: storeA}
	_, err := fA.Finalize(7)
	require.NoError(t, err)
	confirm(storeA, 7)

	// payment first, then finalize
	storeB := newMemoryDraftStore()
	saveAllSections(t, storeB, 7)
	confirm(storeB, 7)
	fB := Finalizer{Store: storeB}
	_, err = fB.Finalize(7)
	require.NoError(t, err)

	appA, err := storeA.FindByOwner(7)
	require.NoError(t, err)
	appB, err := storeB.FindByOwner(7)
	require.NoError(t, err)

	for _, app := range []*models.Applicant{appA, appB} {
		assert.True(t, app.Submitted)
		assert.True(t, app.PaymentVerified)
		assert.Equal(t, models.StateSubmittedPaid, app.WorkflowState())
	}
}
