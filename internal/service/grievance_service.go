package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"watertax-svc/internal/models"
	"watertax-svc/internal/repository"
	"watertax-svc/pkg/logger"
)

// GrievanceService handles grievance filing and tracking.
type GrievanceService interface {
	FileGrievance(consumerNo *string, category, description, mobile string) (*models.Grievance, error)
	TrackGrievance(trackingNo string) (*models.Grievance, error)
	GetGrievances(consumerNo string, page, limit int) ([]*models.Grievance, int64, error)
}

// grievanceService implements GrievanceService
type grievanceService struct {
	grievanceRepo repository.GrievanceRepository
	logger        *logger.Logger
}

// NewGrievanceService creates a new grievance service
func NewGrievanceService(grievanceRepo repository.GrievanceRepository, logger *logger.Logger) GrievanceService {
	return &grievanceService{
		grievanceRepo: grievanceRepo,
		logger:        logger,
	}
}

// FileGrievance records a grievance and returns it with a tracking number.
func (s *grievanceService) FileGrievance(consumerNo *string, category, description, mobile string) (*models.Grievance, error) {
	category = strings.TrimSpace(category)
	description = strings.TrimSpace(description)
	mobile = strings.TrimSpace(mobile)

	if category == "" || description == "" || mobile == "" {
		return nil, fmt.Errorf("%w: category, description and mobile are required", ErrValidation)
	}

	grievance := &models.Grievance{
		TrackingNo:  fmt.Sprintf("GRV-%s", strings.ToUpper(uuid.New().String()[:8])),
		ConsumerNo:  consumerNo,
		Category:    category,
		Description: description,
		Mobile:      mobile,
		Status:      models.GrievanceOpen,
	}

	if err := s.grievanceRepo.Create(grievance); err != nil {
		s.logger.WithError(err).Error("Failed to file grievance")
		return nil, fmt.Errorf("failed to file grievance: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"tracking_no": grievance.TrackingNo,
		"category":    category,
	}).Info("Grievance filed")

	return grievance, nil
}

// TrackGrievance retrieves a grievance by its tracking number.
func (s *grievanceService) TrackGrievance(trackingNo string) (*models.Grievance, error) {
	trackingNo = strings.TrimSpace(trackingNo)
	if trackingNo == "" {
		return nil, fmt.Errorf("%w: tracking number is required", ErrValidation)
	}

	grievance, err := s.grievanceRepo.GetByTrackingNo(trackingNo)
	if err != nil {
		return nil, err
	}

	return grievance, nil
}

// GetGrievances returns the paginated grievances of a connection.
func (s *grievanceService) GetGrievances(consumerNo string, page, limit int) ([]*models.Grievance, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	grievances, total, err := s.grievanceRepo.ListByConsumer(consumerNo, page, limit)
	if err != nil {
		s.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to list grievances")
		return nil, 0, err
	}

	return grievances, total, nil
}
