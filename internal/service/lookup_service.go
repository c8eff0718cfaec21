package service

import (
	"fmt"
	"strings"

	"watertax-svc/internal/models/response"
	"watertax-svc/internal/repository"
	"watertax-svc/pkg/logger"
)

// LookupService resolves a free-form query (mobile number, consumer number or
// property number) to consumer/connection records. Every caller receives the
// canonical SearchResult envelope.
type LookupService interface {
	SearchConsumer(query string) (*response.SearchResult, error)
}

// lookupService implements LookupService
type lookupService struct {
	connectionRepo repository.ConnectionRepository
	logger         *logger.Logger
}

// NewLookupService creates a new lookup service
func NewLookupService(connectionRepo repository.ConnectionRepository, logger *logger.Logger) LookupService {
	return &lookupService{
		connectionRepo: connectionRepo,
		logger:         logger,
	}
}

// SearchConsumer finds all connections matching the query.
func (s *lookupService) SearchConsumer(query string) (*response.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrValidation)
	}

	connections, err := s.connectionRepo.Search(query)
	if err != nil {
		s.logger.WithError(err).WithField("query", query).Error("Consumer lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"query": query,
		"count": len(connections),
	}).Info("Consumer lookup completed")

	return &response.SearchResult{Items: connections}, nil
}
