package repository

import (
	"watertax-svc/internal/models"

	"gorm.io/gorm"
)

// BillRunLogRepository defines the interface for bill-run audit log operations
type BillRunLogRepository interface {
	CreateBillRunLog(log *models.BillRunLog) error
}

// billRunLogRepository implements BillRunLogRepository
type billRunLogRepository struct {
	db *gorm.DB
}

// NewBillRunLogRepository creates a new instance of BillRunLogRepository
func NewBillRunLogRepository(db *gorm.DB) BillRunLogRepository {
	return &billRunLogRepository{
		db: db,
	}
}

// CreateBillRunLog persists one audit entry of a scheduled bill run
func (r *billRunLogRepository) CreateBillRunLog(log *models.BillRunLog) error {
	return r.db.Create(log).Error
}
