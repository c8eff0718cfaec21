package repository

import (
	"watertax-svc/internal/models"

	"gorm.io/gorm"
)

// GrievanceRepository defines the interface for grievance data operations
type GrievanceRepository interface {
	Create(grievance *models.Grievance) error
	GetByTrackingNo(trackingNo string) (*models.Grievance, error)
	ListByConsumer(consumerNo string, page, limit int) ([]*models.Grievance, int64, error)
}

// grievanceRepository implements GrievanceRepository
type grievanceRepository struct {
	db *gorm.DB
}

// NewGrievanceRepository creates a new instance of GrievanceRepository
func NewGrievanceRepository(db *gorm.DB) GrievanceRepository {
	return &grievanceRepository{
		db: db,
	}
}

// Create persists a new grievance
func (r *grievanceRepository) Create(grievance *models.Grievance) error {
	return r.db.Create(grievance).Error
}

// GetByTrackingNo retrieves a grievance by its public tracking number
func (r *grievanceRepository) GetByTrackingNo(trackingNo string) (*models.Grievance, error) {
	var grievance models.Grievance

	err := r.db.Where("tracking_no = ?", trackingNo).First(&grievance).Error
	if err != nil {
		return nil, err
	}

	return &grievance, nil
}

// ListByConsumer retrieves grievances filed against a connection with pagination
func (r *grievanceRepository) ListByConsumer(consumerNo string, page, limit int) ([]*models.Grievance, int64, error) {
	var grievances []*models.Grievance
	var total int64

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	base := r.db.Model(&models.Grievance{}).Where("consumer_no = ?", consumerNo)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&grievances).Error
	if err != nil {
		return nil, 0, err
	}

	return grievances, total, nil
}
