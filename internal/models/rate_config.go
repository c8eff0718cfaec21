package models

import (
	"time"
)

// RateConfig represents the rate_configs table. Exactly one row per
// connection category: metered connections are billed per KL, non-metered
// connections pay the flat rate.
type RateConfig struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Category  string    `json:"category" gorm:"column:category;uniqueIndex"`
	MeterRate float64   `json:"meter_rate" gorm:"column:meter_rate"`
	FixedRate float64   `json:"fixed_rate" gorm:"column:fixed_rate"`
	IsActive  *bool     `json:"is_active" gorm:"column:is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the insert table name for RateConfig
func (RateConfig) TableName() string {
	return "rate_configs"
}
