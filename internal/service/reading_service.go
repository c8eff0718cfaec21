package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"watertax-svc/internal/models"
	"watertax-svc/internal/mq"
	"watertax-svc/internal/ocr"
	"watertax-svc/internal/repository"
	"watertax-svc/pkg/logger"
)

// Tolerance in KL between the manual value and an OCR extraction before the
// reading is routed to manual review.
const ocrTolerance = 0.5

// ReadingService handles citizen meter-reading submissions and history.
type ReadingService interface {
	SubmitReading(ctx context.Context, consumerNo string, currentReading float64, photo []byte, photoName string) (*models.MeterReading, error)
	GetReadings(consumerNo string, page, limit int) ([]*models.MeterReading, int64, error)
}

// readingService implements ReadingService
type readingService struct {
	readingRepo    repository.ReadingRepository
	connectionRepo repository.ConnectionRepository
	ocrReader      ocr.Reader
	publisher      *mq.Publisher
	uploadsDir     string
	logger         *logger.Logger
}

// NewReadingService creates a new reading service. publisher may be nil when
// no broker is configured; events are then skipped.
func NewReadingService(
	readingRepo repository.ReadingRepository,
	connectionRepo repository.ConnectionRepository,
	ocrReader ocr.Reader,
	publisher *mq.Publisher,
	uploadsDir string,
	logger *logger.Logger,
) ReadingService {
	return &readingService{
		readingRepo:    readingRepo,
		connectionRepo: connectionRepo,
		ocrReader:      ocrReader,
		publisher:      publisher,
		uploadsDir:     uploadsDir,
		logger:         logger,
	}
}

// SubmitReading validates and persists a meter reading. Monotonicity is
// checked before any side effect: a current value below the previous reading
// is rejected without storing the photo, the row, or publishing an event.
func (s *readingService) SubmitReading(ctx context.Context, consumerNo string, currentReading float64, photo []byte, photoName string) (*models.MeterReading, error) {
	connection, err := s.connectionRepo.GetByConsumerNo(consumerNo)
	if err != nil {
		return nil, fmt.Errorf("connection not found: %w", err)
	}
	if !connection.IsMetered {
		return nil, fmt.Errorf("%w: connection %s is not metered", ErrValidation, consumerNo)
	}

	previous := 0.0
	latest, err := s.readingRepo.GetLatestByConsumer(consumerNo)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest reading: %w", err)
	}
	if latest != nil {
		previous = latest.CurrentReading
	}

	if currentReading < previous {
		return nil, fmt.Errorf("%w: current reading %.2f is below previous reading %.2f", ErrValidation, currentReading, previous)
	}

	now := time.Now()
	reading := &models.MeterReading{
		ReadingID:       uuid.New().String(),
		ConsumerNo:      consumerNo,
		PreviousReading: previous,
		CurrentReading:  currentReading,
		ConsumptionKL:   currentReading - previous,
		Source:          models.ReadingSourceManual,
		Status:          models.ReadingAccepted,
		ReadAt:          now,
	}

	if len(photo) > 0 {
		path, err := s.storePhoto(consumerNo, photoName, photo)
		if err != nil {
			return nil, err
		}
		reading.PhotoPath = &path

		s.applyOCR(ctx, reading, photo)
	}

	if err := s.readingRepo.Create(reading); err != nil {
		return nil, fmt.Errorf("failed to save reading: %w", err)
	}

	s.publishSubmitted(ctx, reading)

	s.logger.WithFields(map[string]interface{}{
		"reading_id":  reading.ReadingID,
		"consumer_no": consumerNo,
		"consumption": reading.ConsumptionKL,
		"status":      reading.Status,
	}).Info("Meter reading submitted")

	return reading, nil
}

// GetReadings returns the paginated reading history of a connection.
func (s *readingService) GetReadings(consumerNo string, page, limit int) ([]*models.MeterReading, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	readings, total, err := s.readingRepo.ListByConsumer(consumerNo, page, limit)
	if err != nil {
		s.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to list readings")
		return nil, 0, err
	}

	return readings, total, nil
}

// applyOCR consults the OCR capability when a photo is attached. Without an
// engine the manual value stays authoritative and the reading is flagged for
// review; with an engine, an extraction that disagrees with the manual value
// is also flagged.
func (s *readingService) applyOCR(ctx context.Context, reading *models.MeterReading, photo []byte) {
	result, err := s.ocrReader.Extract(ctx, photo)
	if err != nil {
		if err != ocr.ErrUnavailable {
			s.logger.WithError(err).WithField("reading_id", reading.ReadingID).Error("OCR extraction failed")
		}
		reading.Status = models.ReadingPendingReview
		return
	}

	reading.OCRConfidence = &result.Confidence
	diff := result.Reading - reading.CurrentReading
	if diff < 0 {
		diff = -diff
	}
	if diff <= ocrTolerance {
		reading.Source = models.ReadingSourceOCR
		reading.Status = models.ReadingAccepted
	} else {
		reading.Status = models.ReadingPendingReview
	}
}

// storePhoto writes the uploaded photo to disk under the uploads directory.
func (s *readingService) storePhoto(consumerNo, photoName string, photo []byte) (string, error) {
	dir := filepath.Join(s.uploadsDir, consumerNo)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create uploads dir: %w", err)
	}

	if photoName == "" {
		photoName = "reading.jpg"
	}
	path := filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(photoName)))
	if err := os.WriteFile(path, photo, 0o644); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	return path, nil
}

// publishSubmitted emits the reading.submitted event, best effort.
func (s *readingService) publishSubmitted(ctx context.Context, reading *models.MeterReading) {
	if s.publisher == nil {
		return
	}

	event := mq.ReadingSubmittedEvent{
		ReadingID:     reading.ReadingID,
		ConsumerNo:    reading.ConsumerNo,
		CurrentValue:  reading.CurrentReading,
		ConsumptionKL: reading.ConsumptionKL,
		Source:        reading.Source,
		Status:        reading.Status,
		ReadAt:        reading.ReadAt.Format(time.RFC3339),
	}
	if err := s.publisher.PublishReadingSubmitted(ctx, event); err != nil {
		s.logger.WithError(err).WithField("reading_id", reading.ReadingID).Error("Failed to publish reading event")
	}
}
