package services

import (
	"encoding/json"
	"sync"
	"time"

	"admission-portal-api/models"
)

// memoryDraftStore mirrors the GORM store's upsert semantics for tests:
// one draft per owner, unique application ids, whole-section replacement.
type memoryDraftStore struct {
	mu     sync.Mutex
	drafts map[int]*models.Applicant
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{drafts: map[int]*models.Applicant{}}
}

func cloneApplicant(app *models.Applicant) *models.Applicant {
	raw, _ := json.Marshal(app)
	var out models.Applicant
	_ = json.Unmarshal(raw, &out)
	return &out
}

func (s *memoryDraftStore) getOrCreate(userID int) *models.Applicant {
	app, ok := s.drafts[userID]
	if !ok {
		app = &models.Applicant{
			UserID:   userID,
			Status:   models.StatusPending,
			CreateAt: time.Now(),
		}
		s.drafts[userID] = app
	}
	return app
}

func (s *memoryDraftStore) FindByOwner(userID int) (*models.Applicant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.drafts[userID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return cloneApplicant(app), nil
}

func (s *memoryDraftStore) UpsertSection(userID int, section SectionKey, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app := s.getOrCreate(userID)
	if err := applySection(app, section, value); err != nil {
		return err
	}
	app.UpdateAt = time.Now()
	return nil
}

func (s *memoryDraftStore) MarkSubmitted(userID int, applicationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app := s.getOrCreate(userID)
	if app.ApplicationID == nil || *app.ApplicationID == "" {
		for owner, other := range s.drafts {
			if owner != userID && other.ApplicationID != nil && *other.ApplicationID == applicationID {
				return ErrDuplicateApplicationID
			}
		}
		id := applicationID
		app.ApplicationID = &id
	}
	app.Submitted = true
	app.UpdateAt = time.Now()
	return nil
}

func (s *memoryDraftStore) MarkPaid(userID int, reference string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app := s.getOrCreate(userID)
	ref := reference
	amt := amount
	app.Submitted = true
	app.PaymentVerified = true
	app.PaymentRef = &ref
	app.PaidAmount = &amt
	app.UpdateAt = time.Now()
	return nil
}
