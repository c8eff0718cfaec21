package repository

import (
	"errors"

	"watertax-svc/internal/models"

	"gorm.io/gorm"
)

// OtpRepository defines the interface for OTP challenge data operations
type OtpRepository interface {
	GetLatestByQuery(query string) (*models.OtpChallenge, error)
	Save(challenge *models.OtpChallenge) error
	DeleteByQuery(query string) error
}

// otpRepository implements OtpRepository
type otpRepository struct {
	db *gorm.DB
}

// NewOtpRepository creates a new instance of OtpRepository
func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{
		db: db,
	}
}

// GetLatestByQuery retrieves the most recent challenge for a lookup query.
// Returns nil without error when no challenge exists.
func (r *otpRepository) GetLatestByQuery(query string) (*models.OtpChallenge, error) {
	var challenge models.OtpChallenge

	err := r.db.
		Where("query = ?", query).
		Order("created_at DESC").
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &challenge, nil
}

// Save creates or updates a challenge
func (r *otpRepository) Save(challenge *models.OtpChallenge) error {
	return r.db.Save(challenge).Error
}

// DeleteByQuery removes all challenges for a lookup query (post-verification)
func (r *otpRepository) DeleteByQuery(query string) error {
	return r.db.Where("query = ?", query).Delete(&models.OtpChallenge{}).Error
}
