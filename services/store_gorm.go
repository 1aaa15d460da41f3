package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"admission-portal-api/models"
)

// GormDraftStore persists drafts in MySQL through GORM. The unique index on
// user_id makes every write an atomic create-or-update: a lost creation race
// surfaces as a duplicate-key error and falls back to the update path.
type GormDraftStore struct {
	db *gorm.DB
}

func NewGormDraftStore(db *gorm.DB) *GormDraftStore {
	return &GormDraftStore{db: db}
}

func (s *GormDraftStore) FindByOwner(userID int) (*models.Applicant, error) {
	var app models.Applicant
	err := s.db.Where("user_id = ?", userID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *GormDraftStore) UpsertSection(userID int, section SectionKey, value interface{}) error {
	column, ok := sectionColumns[section]
	if !ok {
		return errors.New("unknown section " + string(section))
	}

	insert := models.Applicant{UserID: userID}
	if err := applySection(&insert, section, value); err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.upsert(userID, &insert, map[string]interface{}{
		column:      string(payload),
		"update_at": time.Now(),
	})
}

func (s *GormDraftStore) MarkSubmitted(userID int, applicationID string) error {
	insert := models.Applicant{
		UserID:        userID,
		ApplicationID: &applicationID,
		Submitted:     true,
	}
	// COALESCE keeps a previously assigned admission number: the stored id
	// always wins over a freshly minted candidate.
	return s.upsert(userID, &insert, map[string]interface{}{
		"application_id": gorm.Expr("COALESCE(application_id, ?)", applicationID),
		"submitted":      true,
		"update_at":      time.Now(),
	})
}

func (s *GormDraftStore) MarkPaid(userID int, reference string, amount float64) error {
	insert := models.Applicant{
		UserID:          userID,
		Submitted:       true,
		PaymentVerified: true,
		PaymentRef:      &reference,
		PaidAmount:      &amount,
	}
	return s.upsert(userID, &insert, map[string]interface{}{
		"submitted":         true,
		"payment_verified":  true,
		"payment_reference": reference,
		"paid_amount":       amount,
		"update_at":         time.Now(),
	})
}

// upsert tries the insert first; an existing row for the owner turns into the
// update. Collisions on the application_id unique index are reported as
// ErrDuplicateApplicationID so the caller can retry with a fresh number.
func (s *GormDraftStore) upsert(userID int, insert *models.Applicant, assign map[string]interface{}) error {
	err := s.db.Create(insert).Error
	if err == nil {
		return nil
	}
	if duplicateOn(err, "application_id") {
		return ErrDuplicateApplicationID
	}
	if !isDuplicateKey(err) {
		return err
	}

	res := s.db.Model(&models.Applicant{}).Where("user_id = ?", userID).Updates(assign)
	if res.Error != nil {
		if duplicateOn(res.Error, "application_id") {
			return ErrDuplicateApplicationID
		}
		return res.Error
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

func duplicateOn(err error, column string) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062 &&
		strings.Contains(myErr.Message, column)
}
