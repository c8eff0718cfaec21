package models

import (
	"time"
)

// Grievance statuses
const (
	GrievanceOpen     = "open"
	GrievanceResolved = "resolved"
)

// Grievance represents the grievances table
type Grievance struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	TrackingNo  string     `json:"tracking_no" gorm:"column:tracking_no;uniqueIndex"`
	ConsumerNo  *string    `json:"consumer_no,omitempty" gorm:"column:consumer_no;index"`
	Category    string     `json:"category" gorm:"column:category"`
	Description string     `json:"description" gorm:"column:description"`
	Mobile      string     `json:"mobile" gorm:"column:mobile"`
	Status      string     `json:"status" gorm:"column:status"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName sets the insert table name for Grievance
func (Grievance) TableName() string {
	return "grievances"
}
