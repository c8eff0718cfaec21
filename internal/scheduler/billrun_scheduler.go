package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"watertax-svc/internal/models"
	"watertax-svc/internal/repository"
	"watertax-svc/internal/service"
	"watertax-svc/pkg/logger"
)

// BillRunScheduler triggers the monthly bill generation run
type BillRunScheduler struct {
	billRunService service.BillRunService
	billRunLogRepo repository.BillRunLogRepository
	logger         *logger.Logger
	cron           *cron.Cron
	cronExpression string
}

// NewBillRunScheduler creates a new bill-run scheduler
func NewBillRunScheduler(billRunService service.BillRunService, billRunLogRepo repository.BillRunLogRepository, logger *logger.Logger, cronExpression string) *BillRunScheduler {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &BillRunScheduler{
		billRunService: billRunService,
		billRunLogRepo: billRunLogRepo,
		logger:         logger,
		cron:           c,
		cronExpression: cronExpression,
	}
}

// Start initializes and starts the scheduled job
func (s *BillRunScheduler) Start() error {
	s.logger.Info("Starting bill-run scheduler...")

	// Cron format: "seconds minutes hours day-of-month month day-of-week"
	s.logger.WithField("cron_expression", s.cronExpression).Info("Scheduling bill-run job")
	_, err := s.cron.AddFunc(s.cronExpression, s.runMonthlyBillGeneration)
	if err != nil {
		return fmt.Errorf("failed to schedule bill-run job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Bill-run scheduler started successfully")

	return nil
}

// Stop gracefully stops the scheduler
func (s *BillRunScheduler) Stop() {
	s.logger.Info("Stopping bill-run scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Bill-run scheduler stopped successfully")
}

// runMonthlyBillGeneration is the scheduled job that creates bills for all
// active connections for the current period
func (s *BillRunScheduler) runMonthlyBillGeneration() {
	jobCode := "MONTHLY_BILL_GENERATION"
	now := time.Now()
	runID := uuid.New().String()

	s.logRun(jobCode, runID, "Starting scheduled monthly bill generation", "START", &now)

	month := int(now.Month())
	year := now.Year()

	s.logger.WithField("month", month).WithField("year", year).Info("Generating monthly bills for all active connections")
	s.logRun(jobCode, runID, fmt.Sprintf("Generating bills for month %d year %d", month, year), "RUNNING", &now)

	response, err := s.billRunService.GenerateBillsForPeriod(month, year)
	if err != nil {
		s.logRun(jobCode, runID, fmt.Sprintf("Bill generation failed: %v", err), "FAILED", &now)
		s.logger.WithError(err).Error("Failed to generate monthly bills")
		return
	}

	responseJSON, _ := json.Marshal(response)
	s.logRun(jobCode, runID, fmt.Sprintf("Bills generated successfully: %s", string(responseJSON)), "SUCCESS", &now)

	s.logger.WithField("response", response).Info("Scheduled monthly bill generation completed")
}

// logRun creates a new audit entry in the database
func (s *BillRunScheduler) logRun(jobCode, runID, message, status string, createdAt *time.Time) {
	entry := &models.BillRunLog{
		RunID:     &runID,
		JobCode:   &jobCode,
		Message:   &message,
		Status:    &status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err := s.billRunLogRepo.CreateBillRunLog(entry); err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to create bill-run log entry")
	}
}
