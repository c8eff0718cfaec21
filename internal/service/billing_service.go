package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"watertax-svc/internal/models"
	"watertax-svc/internal/models/response"
	"watertax-svc/internal/repository"
	"watertax-svc/pkg/logger"
)

// BillingService serves the billing passbook, the rate table and the bill
// calculator.
type BillingService interface {
	GetRates() ([]*models.RateConfig, error)
	Estimate(category string, metered bool, previousReading, currentReading float64) (*response.EstimateResponse, error)
	GetPassbook(consumerNo string, page, limit int) ([]*response.PassbookEntry, int64, error)
	ExportPassbook(consumerNo string) ([]byte, string, error)
}

// billingService implements BillingService
type billingService struct {
	billingRepo repository.BillingRepository
	logger      *logger.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(billingRepo repository.BillingRepository, logger *logger.Logger) BillingService {
	return &billingService{
		billingRepo: billingRepo,
		logger:      logger,
	}
}

// GetRates returns the rate table, one row per category.
func (s *billingService) GetRates() ([]*models.RateConfig, error) {
	rates, err := s.billingRepo.GetRates()
	if err != nil {
		s.logger.WithError(err).Error("Failed to get rate table")
		return nil, err
	}
	return rates, nil
}

// Estimate computes a bill amount from the rate table. Metered connections
// pay consumption times the per-KL rate, non-metered connections pay the flat
// rate regardless of consumption. A current reading below the previous one is
// rejected before any lookup.
func (s *billingService) Estimate(category string, metered bool, previousReading, currentReading float64) (*response.EstimateResponse, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if metered && currentReading < previousReading {
		return nil, fmt.Errorf("%w: current reading must not be below previous reading", ErrValidation)
	}

	rate, err := s.billingRepo.GetRateByCategory(category)
	if err != nil {
		s.logger.WithError(err).WithField("category", category).Error("Unknown rate category")
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	estimate := &response.EstimateResponse{
		Category: category,
		Metered:  metered,
	}
	if metered {
		estimate.ConsumptionKL = currentReading - previousReading
		estimate.Rate = rate.MeterRate
		estimate.Amount = estimate.ConsumptionKL * rate.MeterRate
	} else {
		estimate.Rate = rate.FixedRate
		estimate.Amount = rate.FixedRate
	}

	return estimate, nil
}

// GetPassbook returns the paginated ledger of a connection.
func (s *billingService) GetPassbook(consumerNo string, page, limit int) ([]*response.PassbookEntry, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	bills, total, err := s.billingRepo.GetBillsByConsumer(consumerNo, page, limit)
	if err != nil {
		s.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to get passbook")
		return nil, 0, err
	}

	entries := make([]*response.PassbookEntry, 0, len(bills))
	for _, bill := range bills {
		entries = append(entries, passbookEntry(bill))
	}

	s.logger.WithFields(map[string]interface{}{
		"consumer_no": consumerNo,
		"page":        page,
		"limit":       limit,
		"total":       total,
	}).Info("Passbook retrieved")

	return entries, total, nil
}

// ExportPassbook renders the full ledger of a connection as an Excel workbook
// and returns the content with a suggested filename.
func (s *billingService) ExportPassbook(consumerNo string) ([]byte, string, error) {
	bills, err := s.billingRepo.GetAllBillsByConsumer(consumerNo)
	if err != nil {
		s.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to load ledger for export")
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Passbook"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Period", "Consumption (KL)", "Demand", "Arrears", "Total", "Status", "Receipt No", "Paid At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, bill := range bills {
		values := []interface{}{
			periodName(bill.Month, bill.Year),
			bill.ConsumptionKL,
			bill.Demand,
			bill.Arrears,
			bill.Total(),
			bill.Status,
		}
		if bill.ReceiptNo != nil {
			values = append(values, *bill.ReceiptNo)
		} else {
			values = append(values, "")
		}
		if bill.PaidAt != nil {
			values = append(values, bill.PaidAt.Format("2006-01-02"))
		} else {
			values = append(values, "")
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("passbook_%s_%s.xlsx", consumerNo, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func passbookEntry(bill *models.Bill) *response.PassbookEntry {
	entry := &response.PassbookEntry{
		BillID:        bill.ID,
		Period:        periodName(bill.Month, bill.Year),
		Month:         bill.Month,
		Year:          bill.Year,
		ConsumptionKL: bill.ConsumptionKL,
		Demand:        bill.Demand,
		Arrears:       bill.Arrears,
		Total:         bill.Total(),
		Status:        bill.Status,
	}
	if bill.ReceiptNo != nil {
		entry.ReceiptNo = *bill.ReceiptNo
	}
	return entry
}

func periodName(month, year int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}
