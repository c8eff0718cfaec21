package repository

import (
	"errors"

	"watertax-svc/internal/models"

	"gorm.io/gorm"
)

// ReadingRepository defines the interface for meter reading data operations
type ReadingRepository interface {
	Create(reading *models.MeterReading) error
	GetLatestByConsumer(consumerNo string) (*models.MeterReading, error)
	ListByConsumer(consumerNo string, page, limit int) ([]*models.MeterReading, int64, error)
}

// readingRepository implements ReadingRepository
type readingRepository struct {
	db *gorm.DB
}

// NewReadingRepository creates a new instance of ReadingRepository
func NewReadingRepository(db *gorm.DB) ReadingRepository {
	return &readingRepository{
		db: db,
	}
}

// Create persists a new meter reading
func (r *readingRepository) Create(reading *models.MeterReading) error {
	return r.db.Create(reading).Error
}

// GetLatestByConsumer retrieves the most recent reading of a connection.
// Returns nil without error when the connection has no readings yet.
func (r *readingRepository) GetLatestByConsumer(consumerNo string) (*models.MeterReading, error) {
	var reading models.MeterReading

	err := r.db.
		Where("consumer_no = ?", consumerNo).
		Order("read_at DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &reading, nil
}

// ListByConsumer retrieves the reading history of a connection with pagination
func (r *readingRepository) ListByConsumer(consumerNo string, page, limit int) ([]*models.MeterReading, int64, error) {
	var readings []*models.MeterReading
	var total int64

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	base := r.db.Model(&models.MeterReading{}).Where("consumer_no = ?", consumerNo)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("read_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&readings).Error
	if err != nil {
		return nil, 0, err
	}

	return readings, total, nil
}
