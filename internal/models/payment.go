package models

import (
	"time"
)

// Payment statuses
const (
	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
)

// Payment represents the payments table (one checkout link for a batch of
// connections selected on the dashboard)
type Payment struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	InvoiceNo   string     `json:"invoice_no" gorm:"column:invoice_no;uniqueIndex"`
	ConsumerNos string     `json:"consumer_nos" gorm:"column:consumer_nos"`
	Amount      float64    `json:"amount" gorm:"column:amount"`
	PaymentURL  string     `json:"payment_url" gorm:"column:payment_url"`
	Status      string     `json:"status" gorm:"column:status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" gorm:"column:confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName sets the insert table name for Payment
func (Payment) TableName() string {
	return "payments"
}
