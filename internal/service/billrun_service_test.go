package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watertax-svc/internal/models"
)

func TestGenerateBillsForPeriod_MeteredAndNonMetered(t *testing.T) {
	connectionRepo := &fakeConnectionRepo{connections: []*models.Connection{
		{ConsumerNo: "WTR-1001", Category: models.CategoryResidential, IsMetered: true, Status: models.ConnectionActive},
		{ConsumerNo: "WTR-2001", Category: models.CategoryCommercial, IsMetered: false, Status: models.ConnectionActive},
	}}
	billingRepo := &fakeBillingRepo{rates: rateTable()}
	readingRepo := &fakeReadingRepo{latest: &models.MeterReading{ConsumptionKL: 12}}

	svc := NewBillRunService(connectionRepo, billingRepo, readingRepo, 15, testLogger())

	result, err := svc.GenerateBillsForPeriod(8, 2026)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalConnections)
	assert.Equal(t, 2, result.BillsCreated)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.FailedCount)

	require.Len(t, billingRepo.createdBills, 2)
	metered := billingRepo.createdBills[0]
	assert.Equal(t, "WTR-1001", metered.ConsumerNo)
	assert.Equal(t, 12.0, metered.ConsumptionKL)
	assert.Equal(t, 96.0, metered.Demand)
	assert.Equal(t, models.BillUnpaid, metered.Status)
	require.NotNil(t, metered.DueDate)

	flat := billingRepo.createdBills[1]
	assert.Equal(t, "WTR-2001", flat.ConsumerNo)
	assert.Equal(t, 1200.0, flat.Demand)
	assert.Zero(t, flat.ConsumptionKL)
}

func TestGenerateBillsForPeriod_SkipsExistingBills(t *testing.T) {
	connectionRepo := &fakeConnectionRepo{connections: []*models.Connection{
		{ConsumerNo: "WTR-1001", Category: models.CategoryResidential, IsMetered: false, Status: models.ConnectionActive},
	}}
	billingRepo := &fakeBillingRepo{
		rates: rateTable(),
		bills: []*models.Bill{{ConsumerNo: "WTR-1001", Month: 8, Year: 2026}},
	}

	svc := NewBillRunService(connectionRepo, billingRepo, &fakeReadingRepo{}, 15, testLogger())

	result, err := svc.GenerateBillsForPeriod(8, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.BillsCreated)
	assert.Empty(t, billingRepo.createdBills)
}

func TestGenerateBillsForPeriod_CarriesArrears(t *testing.T) {
	connectionRepo := &fakeConnectionRepo{connections: []*models.Connection{
		{ConsumerNo: "WTR-1001", Category: models.CategoryResidential, IsMetered: false, Status: models.ConnectionActive},
	}}
	billingRepo := &fakeBillingRepo{rates: rateTable(), unpaid: 350}

	svc := NewBillRunService(connectionRepo, billingRepo, &fakeReadingRepo{}, 15, testLogger())

	result, err := svc.GenerateBillsForPeriod(9, 2026)
	require.NoError(t, err)
	require.Equal(t, 1, result.BillsCreated)

	bill := billingRepo.createdBills[0]
	assert.Equal(t, 350.0, bill.Arrears)
	assert.Equal(t, 850.0, bill.Total())
}

func TestGenerateBillsForPeriod_UnknownCategoryIsReported(t *testing.T) {
	connectionRepo := &fakeConnectionRepo{connections: []*models.Connection{
		{ConsumerNo: "WTR-3001", Category: "agricultural", IsMetered: false, Status: models.ConnectionActive},
	}}
	billingRepo := &fakeBillingRepo{rates: rateTable()}

	svc := NewBillRunService(connectionRepo, billingRepo, &fakeReadingRepo{}, 15, testLogger())

	result, err := svc.GenerateBillsForPeriod(8, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "WTR-3001")
}

func TestGenerateBillsForPeriod_RejectsInvalidMonth(t *testing.T) {
	svc := NewBillRunService(&fakeConnectionRepo{}, &fakeBillingRepo{}, &fakeReadingRepo{}, 15, testLogger())

	_, err := svc.GenerateBillsForPeriod(13, 2026)
	assert.ErrorIs(t, err, ErrValidation)
}
