package repository

import (
	"watertax-svc/internal/models"

	"gorm.io/gorm"
)

// BillingRepository defines the interface for ledger and rate data operations
type BillingRepository interface {
	GetRates() ([]*models.RateConfig, error)
	GetRateByCategory(category string) (*models.RateConfig, error)
	GetBillsByConsumer(consumerNo string, page, limit int) ([]*models.Bill, int64, error)
	GetAllBillsByConsumer(consumerNo string) ([]*models.Bill, error)
	GetUnpaidBalance(consumerNo string) (float64, error)
	HasBillForPeriod(consumerNo string, month, year int) (bool, error)
	CreateBulkBills(bills []*models.Bill) error
	MarkBillsPaid(consumerNos []string, receiptNo string) error
}

// billingRepository implements BillingRepository
type billingRepository struct {
	db *gorm.DB
}

// NewBillingRepository creates a new instance of BillingRepository
func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{
		db: db,
	}
}

// GetRates retrieves all active rate rows, one per category
func (r *billingRepository) GetRates() ([]*models.RateConfig, error) {
	var rates []*models.RateConfig

	err := r.db.Where("is_active = ?", true).Order("category").Find(&rates).Error
	if err != nil {
		return nil, err
	}

	return rates, nil
}

// GetRateByCategory retrieves the rate row for a connection category
func (r *billingRepository) GetRateByCategory(category string) (*models.RateConfig, error) {
	var rate models.RateConfig

	err := r.db.Where("category = ? AND is_active = ?", category, true).First(&rate).Error
	if err != nil {
		return nil, err
	}

	return &rate, nil
}

// GetBillsByConsumer retrieves the passbook ledger of a connection with pagination,
// most recent period first
func (r *billingRepository) GetBillsByConsumer(consumerNo string, page, limit int) ([]*models.Bill, int64, error) {
	var bills []*models.Bill
	var total int64

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	base := r.db.Model(&models.Bill{}).Where("consumer_no = ?", consumerNo)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("year DESC, month DESC").
		Limit(limit).
		Offset(offset).
		Find(&bills).Error
	if err != nil {
		return nil, 0, err
	}

	return bills, total, nil
}

// GetAllBillsByConsumer retrieves the full ledger of a connection (export path)
func (r *billingRepository) GetAllBillsByConsumer(consumerNo string) ([]*models.Bill, error) {
	var bills []*models.Bill

	err := r.db.
		Where("consumer_no = ?", consumerNo).
		Order("year DESC, month DESC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}

	return bills, nil
}

// GetUnpaidBalance sums demand plus arrears over unpaid bills of a connection
func (r *billingRepository) GetUnpaidBalance(consumerNo string) (float64, error) {
	var balance float64

	err := r.db.Raw(`
		SELECT COALESCE(SUM(demand + arrears), 0)
		FROM bills
		WHERE consumer_no = ? AND status = ?
	`, consumerNo, models.BillUnpaid).Row().Scan(&balance)
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// HasBillForPeriod reports whether a bill already exists for the period
func (r *billingRepository) HasBillForPeriod(consumerNo string, month, year int) (bool, error) {
	var count int64

	err := r.db.Model(&models.Bill{}).
		Where("consumer_no = ? AND month = ? AND year = ?", consumerNo, month, year).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// CreateBulkBills creates multiple bill records in batches
func (r *billingRepository) CreateBulkBills(bills []*models.Bill) error {
	return r.db.CreateInBatches(bills, 100).Error
}

// MarkBillsPaid settles all unpaid bills of the given connections
func (r *billingRepository) MarkBillsPaid(consumerNos []string, receiptNo string) error {
	return r.db.Model(&models.Bill{}).
		Where("consumer_no IN ? AND status = ?", consumerNos, models.BillUnpaid).
		Updates(map[string]interface{}{
			"status":     models.BillPaid,
			"receipt_no": receiptNo,
			"paid_at":    gorm.Expr("NOW()"),
		}).Error
}
