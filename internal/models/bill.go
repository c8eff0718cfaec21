package models

import (
	"time"
)

// Bill statuses
const (
	BillUnpaid = "unpaid"
	BillPaid   = "paid"
)

// Bill represents the bills table (one passbook/ledger entry of a connection)
type Bill struct {
	ID            uint       `json:"id" gorm:"primarykey"`
	ConsumerNo    string     `json:"consumer_no" gorm:"column:consumer_no;index"`
	Month         int        `json:"month" gorm:"column:month"`
	Year          int        `json:"year" gorm:"column:year"`
	ConsumptionKL float64    `json:"consumption_kl" gorm:"column:consumption_kl"`
	Demand        float64    `json:"demand" gorm:"column:demand"`
	Arrears       float64    `json:"arrears" gorm:"column:arrears"`
	Status        string     `json:"status" gorm:"column:status"`
	ReceiptNo     *string    `json:"receipt_no" gorm:"column:receipt_no"`
	PaidAt        *time.Time `json:"paid_at" gorm:"column:paid_at"`
	DueDate       *time.Time `json:"due_date" gorm:"column:due_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the insert table name for Bill
func (Bill) TableName() string {
	return "bills"
}

// Total returns the collectible amount of the bill (demand plus arrears).
func (b *Bill) Total() float64 {
	return b.Demand + b.Arrears
}
