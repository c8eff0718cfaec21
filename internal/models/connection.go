package models

import (
	"time"
)

// Connection categories
const (
	CategoryResidential = "residential"
	CategoryCommercial  = "commercial"
	CategoryIndustrial  = "industrial"
)

// Connection statuses
const (
	ConnectionActive   = "active"
	ConnectionInactive = "inactive"
)

// Connection represents the connections table (one water connection of a property)
type Connection struct {
	ID            uint       `json:"id" gorm:"primarykey"`
	ConsumerNo    string     `json:"consumer_no" gorm:"column:consumer_no;uniqueIndex"`
	PropertyNo    string     `json:"property_no" gorm:"column:property_no;index"`
	CitizenName   string     `json:"citizen_name" gorm:"column:citizen_name"`
	Mobile        string     `json:"mobile" gorm:"column:mobile;index"`
	Address       string     `json:"address" gorm:"column:address"`
	Zone          string     `json:"zone" gorm:"column:zone"`
	Ward          string     `json:"ward" gorm:"column:ward"`
	Category      string     `json:"category" gorm:"column:category"`
	IsMetered     bool       `json:"is_metered" gorm:"column:is_metered"`
	Status        string     `json:"status" gorm:"column:status"`
	CurrentDemand float64    `json:"current_demand" gorm:"column:current_demand"`
	ConsumptionKL float64    `json:"consumption_kl" gorm:"column:consumption_kl"`
	DueDate       *time.Time `json:"due_date" gorm:"column:due_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the insert table name for Connection
func (Connection) TableName() string {
	return "connections"
}

// Payable reports whether the connection currently has dues to collect.
func (c *Connection) Payable() bool {
	return c.CurrentDemand > 0
}
