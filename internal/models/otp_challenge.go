package models

import (
	"time"
)

// OtpChallenge represents the otp_challenges table. The code itself is never
// stored, only its bcrypt hash.
type OtpChallenge struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	Query      string    `json:"query" gorm:"column:query;index"`
	CodeHash   string    `json:"-" gorm:"column:code_hash"`
	Attempts   int       `json:"attempts" gorm:"column:attempts"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"column:expires_at"`
	LastSentAt time.Time `json:"last_sent_at" gorm:"column:last_sent_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the insert table name for OtpChallenge
func (OtpChallenge) TableName() string {
	return "otp_challenges"
}
