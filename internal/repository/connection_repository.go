package repository

import (
	"watertax-svc/internal/models"

	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection registry operations
type ConnectionRepository interface {
	Search(query string) ([]*models.Connection, error)
	GetByConsumerNo(consumerNo string) (*models.Connection, error)
	GetByConsumerNos(consumerNos []string) ([]*models.Connection, error)
	GetActiveConnections() ([]*models.Connection, error)
	UpdateDemand(consumerNo string, demand float64, consumptionKL float64) error
}

// connectionRepository implements ConnectionRepository
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new instance of ConnectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{
		db: db,
	}
}

// Search finds connections by mobile number, consumer number or property
// number. One query resolves all three lookup key kinds.
func (r *connectionRepository) Search(query string) ([]*models.Connection, error) {
	var connections []*models.Connection

	err := r.db.
		Where("mobile = ? OR consumer_no = ? OR property_no = ?", query, query, query).
		Order("property_no, consumer_no").
		Find(&connections).Error
	if err != nil {
		return nil, err
	}

	return connections, nil
}

// GetByConsumerNo retrieves a single connection by consumer number
func (r *connectionRepository) GetByConsumerNo(consumerNo string) (*models.Connection, error) {
	var connection models.Connection

	err := r.db.Where("consumer_no = ?", consumerNo).First(&connection).Error
	if err != nil {
		return nil, err
	}

	return &connection, nil
}

// GetByConsumerNos retrieves connections for a set of consumer numbers
func (r *connectionRepository) GetByConsumerNos(consumerNos []string) ([]*models.Connection, error) {
	var connections []*models.Connection

	err := r.db.Where("consumer_no IN ?", consumerNos).Find(&connections).Error
	if err != nil {
		return nil, err
	}

	return connections, nil
}

// GetActiveConnections retrieves all active connections (bill-run input)
func (r *connectionRepository) GetActiveConnections() ([]*models.Connection, error) {
	var connections []*models.Connection

	err := r.db.Where("status = ?", models.ConnectionActive).Find(&connections).Error
	if err != nil {
		return nil, err
	}

	return connections, nil
}

// UpdateDemand updates the running due amount and consumption of a connection
func (r *connectionRepository) UpdateDemand(consumerNo string, demand float64, consumptionKL float64) error {
	return r.db.Model(&models.Connection{}).
		Where("consumer_no = ?", consumerNo).
		Updates(map[string]interface{}{
			"current_demand": demand,
			"consumption_kl": consumptionKL,
		}).Error
}
