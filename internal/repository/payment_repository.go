package repository

import (
	"time"

	"watertax-svc/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByInvoiceNo(invoiceNo string) (*models.Payment, error)
	MarkConfirmed(invoiceNo string) error
}

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// Create persists a new pending payment
func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByInvoiceNo retrieves a payment by invoice number
func (r *paymentRepository) GetByInvoiceNo(invoiceNo string) (*models.Payment, error) {
	var payment models.Payment

	err := r.db.Where("invoice_no = ?", invoiceNo).First(&payment).Error
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// MarkConfirmed flips a payment to confirmed with the current time
func (r *paymentRepository) MarkConfirmed(invoiceNo string) error {
	now := time.Now()
	return r.db.Model(&models.Payment{}).
		Where("invoice_no = ? AND status = ?", invoiceNo, models.PaymentPending).
		Updates(map[string]interface{}{
			"status":       models.PaymentConfirmed,
			"confirmed_at": &now,
		}).Error
}
