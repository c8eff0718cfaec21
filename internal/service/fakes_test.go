package service

import (
	"context"

	"watertax-svc/internal/models"
	"watertax-svc/internal/models/response"
	"watertax-svc/internal/ocr"
	"watertax-svc/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger("error", "text")
}

type fakeLookup struct {
	result *response.SearchResult
	err    error
}

func (f *fakeLookup) SearchConsumer(query string) (*response.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeOtpRepo struct {
	challenge *models.OtpChallenge
	getErr    error
	saveErr   error

	saved   []*models.OtpChallenge
	deleted []string
}

func (f *fakeOtpRepo) GetLatestByQuery(query string) (*models.OtpChallenge, error) {
	return f.challenge, f.getErr
}

func (f *fakeOtpRepo) Save(challenge *models.OtpChallenge) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, challenge)
	return nil
}

func (f *fakeOtpRepo) DeleteByQuery(query string) error {
	f.deleted = append(f.deleted, query)
	return nil
}

type fakeSender struct {
	sentTo    []string
	sentCodes []string
	err       error
}

func (f *fakeSender) SendOTP(_ context.Context, mobile, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = append(f.sentTo, mobile)
	f.sentCodes = append(f.sentCodes, code)
	return nil
}

type fakeConnectionRepo struct {
	connections []*models.Connection
	searchErr   error

	demandUpdates map[string]float64
}

func (f *fakeConnectionRepo) Search(query string) ([]*models.Connection, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.connections, nil
}

func (f *fakeConnectionRepo) GetByConsumerNo(consumerNo string) (*models.Connection, error) {
	for _, conn := range f.connections {
		if conn.ConsumerNo == consumerNo {
			return conn, nil
		}
	}
	return nil, ErrNoConsumerFound
}

func (f *fakeConnectionRepo) GetByConsumerNos(consumerNos []string) ([]*models.Connection, error) {
	return f.connections, nil
}

func (f *fakeConnectionRepo) GetActiveConnections() ([]*models.Connection, error) {
	return f.connections, nil
}

func (f *fakeConnectionRepo) UpdateDemand(consumerNo string, demand float64, consumptionKL float64) error {
	if f.demandUpdates == nil {
		f.demandUpdates = make(map[string]float64)
	}
	f.demandUpdates[consumerNo] = demand
	return nil
}

type fakeBillingRepo struct {
	rates  []*models.RateConfig
	bills  []*models.Bill
	unpaid float64

	createdBills []*models.Bill
	paidBatches  [][]string
	receiptNos   []string
}

func (f *fakeBillingRepo) GetRates() ([]*models.RateConfig, error) {
	return f.rates, nil
}

func (f *fakeBillingRepo) GetRateByCategory(category string) (*models.RateConfig, error) {
	for _, rate := range f.rates {
		if rate.Category == category {
			return rate, nil
		}
	}
	return nil, ErrValidation
}

func (f *fakeBillingRepo) GetBillsByConsumer(consumerNo string, page, limit int) ([]*models.Bill, int64, error) {
	return f.bills, int64(len(f.bills)), nil
}

func (f *fakeBillingRepo) GetAllBillsByConsumer(consumerNo string) ([]*models.Bill, error) {
	return f.bills, nil
}

func (f *fakeBillingRepo) GetUnpaidBalance(consumerNo string) (float64, error) {
	return f.unpaid, nil
}

func (f *fakeBillingRepo) HasBillForPeriod(consumerNo string, month, year int) (bool, error) {
	for _, bill := range f.bills {
		if bill.ConsumerNo == consumerNo && bill.Month == month && bill.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBillingRepo) CreateBulkBills(bills []*models.Bill) error {
	f.createdBills = append(f.createdBills, bills...)
	return nil
}

func (f *fakeBillingRepo) MarkBillsPaid(consumerNos []string, receiptNo string) error {
	f.paidBatches = append(f.paidBatches, consumerNos)
	f.receiptNos = append(f.receiptNos, receiptNo)
	return nil
}

type fakeReadingRepo struct {
	latest  *models.MeterReading
	list    []*models.MeterReading
	created []*models.MeterReading
}

func (f *fakeReadingRepo) Create(reading *models.MeterReading) error {
	f.created = append(f.created, reading)
	return nil
}

func (f *fakeReadingRepo) GetLatestByConsumer(consumerNo string) (*models.MeterReading, error) {
	return f.latest, nil
}

func (f *fakeReadingRepo) ListByConsumer(consumerNo string, page, limit int) ([]*models.MeterReading, int64, error) {
	return f.list, int64(len(f.list)), nil
}

type fakeOCRReader struct {
	result *ocr.Result
	err    error
}

func (f *fakeOCRReader) Extract(_ context.Context, _ []byte) (*ocr.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeCheckout struct {
	url string
	err error

	amounts  []int64
	invoices []string
}

func (f *fakeCheckout) CreateCheckout(amount int64, invoiceNo, description string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.amounts = append(f.amounts, amount)
	f.invoices = append(f.invoices, invoiceNo)
	return f.url, nil
}

type fakePaymentRepo struct {
	payments  map[string]*models.Payment
	confirmed []string
}

func (f *fakePaymentRepo) Create(payment *models.Payment) error {
	if f.payments == nil {
		f.payments = make(map[string]*models.Payment)
	}
	f.payments[payment.InvoiceNo] = payment
	return nil
}

func (f *fakePaymentRepo) GetByInvoiceNo(invoiceNo string) (*models.Payment, error) {
	payment, ok := f.payments[invoiceNo]
	if !ok {
		return nil, ErrValidation
	}
	return payment, nil
}

func (f *fakePaymentRepo) MarkConfirmed(invoiceNo string) error {
	f.confirmed = append(f.confirmed, invoiceNo)
	return nil
}
