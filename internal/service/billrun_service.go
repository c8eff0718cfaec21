package service

import (
	"fmt"
	"time"

	"watertax-svc/internal/models"
	"watertax-svc/internal/repository"
	"watertax-svc/pkg/logger"
)

// BillRunResponse represents the outcome of one bill generation run
type BillRunResponse struct {
	TotalConnections int      `json:"total_connections"`
	BillsCreated     int      `json:"bills_created"`
	Skipped          int      `json:"skipped"`
	FailedCount      int      `json:"failed_count"`
	Errors           []string `json:"errors,omitempty"`
}

// BillRunService generates the monthly ledger entries for all active
// connections from readings and the rate table.
type BillRunService interface {
	GenerateBillsForPeriod(month, year int) (*BillRunResponse, error)
}

// billRunService implements BillRunService
type billRunService struct {
	connectionRepo repository.ConnectionRepository
	billingRepo    repository.BillingRepository
	readingRepo    repository.ReadingRepository
	dueDays        int
	logger         *logger.Logger
}

// NewBillRunService creates a new bill-run service
func NewBillRunService(
	connectionRepo repository.ConnectionRepository,
	billingRepo repository.BillingRepository,
	readingRepo repository.ReadingRepository,
	dueDays int,
	logger *logger.Logger,
) BillRunService {
	return &billRunService{
		connectionRepo: connectionRepo,
		billingRepo:    billingRepo,
		readingRepo:    readingRepo,
		dueDays:        dueDays,
		logger:         logger,
	}
}

// GenerateBillsForPeriod creates one bill per active connection that has none
// for the period yet. Metered connections are billed from the latest reading's
// consumption times the category meter rate, non-metered connections at the
// flat rate. Unpaid prior balance is carried as arrears.
func (s *billRunService) GenerateBillsForPeriod(month, year int) (*BillRunResponse, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	}

	connections, err := s.connectionRepo.GetActiveConnections()
	if err != nil {
		return nil, fmt.Errorf("failed to get active connections: %w", err)
	}

	response := &BillRunResponse{TotalConnections: len(connections)}
	dueDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, s.dueDays)

	var bills []*models.Bill
	for _, conn := range connections {
		exists, err := s.billingRepo.HasBillForPeriod(conn.ConsumerNo, month, year)
		if err != nil {
			response.FailedCount++
			response.Errors = append(response.Errors, fmt.Sprintf("%s: %v", conn.ConsumerNo, err))
			continue
		}
		if exists {
			response.Skipped++
			continue
		}

		bill, err := s.buildBill(conn, month, year, dueDate)
		if err != nil {
			response.FailedCount++
			response.Errors = append(response.Errors, fmt.Sprintf("%s: %v", conn.ConsumerNo, err))
			continue
		}
		bills = append(bills, bill)
	}

	if len(bills) > 0 {
		if err := s.billingRepo.CreateBulkBills(bills); err != nil {
			return nil, fmt.Errorf("failed to create bills: %w", err)
		}
	}
	response.BillsCreated = len(bills)

	// Refresh each connection's running demand so the dashboard shows the
	// new dues without waiting for a payment round-trip.
	for _, bill := range bills {
		balance, err := s.billingRepo.GetUnpaidBalance(bill.ConsumerNo)
		if err != nil {
			s.logger.WithError(err).WithField("consumer_no", bill.ConsumerNo).Error("Failed to refresh balance")
			continue
		}
		if err := s.connectionRepo.UpdateDemand(bill.ConsumerNo, balance, bill.ConsumptionKL); err != nil {
			s.logger.WithError(err).WithField("consumer_no", bill.ConsumerNo).Error("Failed to update connection demand")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"month":         month,
		"year":          year,
		"bills_created": response.BillsCreated,
		"skipped":       response.Skipped,
		"failed":        response.FailedCount,
	}).Info("Bill run completed")

	return response, nil
}

func (s *billRunService) buildBill(conn *models.Connection, month, year int, dueDate time.Time) (*models.Bill, error) {
	rate, err := s.billingRepo.GetRateByCategory(conn.Category)
	if err != nil {
		return nil, fmt.Errorf("no rate for category %q: %w", conn.Category, err)
	}

	arrears, err := s.billingRepo.GetUnpaidBalance(conn.ConsumerNo)
	if err != nil {
		return nil, fmt.Errorf("failed to get unpaid balance: %w", err)
	}

	bill := &models.Bill{
		ConsumerNo: conn.ConsumerNo,
		Month:      month,
		Year:       year,
		Arrears:    arrears,
		Status:     models.BillUnpaid,
		DueDate:    &dueDate,
	}

	if conn.IsMetered {
		latest, err := s.readingRepo.GetLatestByConsumer(conn.ConsumerNo)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest reading: %w", err)
		}
		if latest != nil {
			bill.ConsumptionKL = latest.ConsumptionKL
		}
		bill.Demand = bill.ConsumptionKL * rate.MeterRate
	} else {
		bill.Demand = rate.FixedRate
	}

	return bill, nil
}
