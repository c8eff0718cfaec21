package models

import (
	"time"
)

// Meter reading sources and statuses
const (
	ReadingSourceManual = "manual"
	ReadingSourceOCR    = "ocr"

	ReadingAccepted      = "accepted"
	ReadingPendingReview = "pending_review"
)

// MeterReading represents the meter_readings table
type MeterReading struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	ReadingID       string    `json:"reading_id" gorm:"column:reading_id;uniqueIndex"`
	ConsumerNo      string    `json:"consumer_no" gorm:"column:consumer_no;index"`
	PreviousReading float64   `json:"previous_reading" gorm:"column:previous_reading"`
	CurrentReading  float64   `json:"current_reading" gorm:"column:current_reading"`
	ConsumptionKL   float64   `json:"consumption_kl" gorm:"column:consumption_kl"`
	Source          string    `json:"source" gorm:"column:source"`
	Status          string    `json:"status" gorm:"column:status"`
	PhotoPath       *string   `json:"photo_path,omitempty" gorm:"column:photo_path"`
	OCRConfidence   *float64  `json:"ocr_confidence,omitempty" gorm:"column:ocr_confidence"`
	ReadAt          time.Time `json:"read_at" gorm:"column:read_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the insert table name for MeterReading
func (MeterReading) TableName() string {
	return "meter_readings"
}
