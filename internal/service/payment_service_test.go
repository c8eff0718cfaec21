package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watertax-svc/internal/models"
)

func payableConnections() *fakeConnectionRepo {
	return &fakeConnectionRepo{connections: []*models.Connection{
		{ConsumerNo: "WTR-1001", CurrentDemand: 450},
		{ConsumerNo: "WTR-1002", CurrentDemand: 300},
		{ConsumerNo: "WTR-1003", CurrentDemand: 0},
	}}
}

func TestCreatePaymentLink_SumsSelectedDues(t *testing.T) {
	checkout := &fakeCheckout{url: "https://pay.example/abc"}
	paymentRepo := &fakePaymentRepo{}
	svc := NewPaymentService(payableConnections(), &fakeBillingRepo{}, paymentRepo, checkout, testLogger())

	link, err := svc.CreatePaymentLink("9876543210", []string{"WTR-1001", "WTR-1002"})
	require.NoError(t, err)

	assert.Equal(t, 750.0, link.Amount)
	assert.Equal(t, "https://pay.example/abc", link.PaymentURL)
	assert.True(t, strings.HasPrefix(link.InvoiceNo, "WT-"))

	require.Len(t, checkout.amounts, 1)
	assert.Equal(t, int64(750), checkout.amounts[0])

	stored, ok := paymentRepo.payments[link.InvoiceNo]
	require.True(t, ok)
	assert.Equal(t, models.PaymentPending, stored.Status)
	assert.Equal(t, "WTR-1001,WTR-1002", stored.ConsumerNos)
}

func TestCreatePaymentLink_RejectsEmptySelection(t *testing.T) {
	svc := NewPaymentService(payableConnections(), &fakeBillingRepo{}, &fakePaymentRepo{}, &fakeCheckout{}, testLogger())

	_, err := svc.CreatePaymentLink("9876543210", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePaymentLink_RejectsNonPayableConnection(t *testing.T) {
	checkout := &fakeCheckout{url: "https://pay.example/abc"}
	svc := NewPaymentService(payableConnections(), &fakeBillingRepo{}, &fakePaymentRepo{}, checkout, testLogger())

	// WTR-1003 has no dues, WTR-9999 is foreign; both must be refused.
	_, err := svc.CreatePaymentLink("9876543210", []string{"WTR-1001", "WTR-1003"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreatePaymentLink("9876543210", []string{"WTR-9999"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, checkout.invoices)
}

func TestConfirmPayment_SettlesBillsAndClearsDemand(t *testing.T) {
	connectionRepo := payableConnections()
	billingRepo := &fakeBillingRepo{}
	paymentRepo := &fakePaymentRepo{payments: map[string]*models.Payment{
		"WT-1-ABCD1234": {
			InvoiceNo:   "WT-1-ABCD1234",
			ConsumerNos: "WTR-1001,WTR-1002",
			Amount:      750,
			Status:      models.PaymentPending,
		},
	}}
	svc := NewPaymentService(connectionRepo, billingRepo, paymentRepo, &fakeCheckout{}, testLogger())

	err := svc.ConfirmPayment("WT-1-ABCD1234")
	require.NoError(t, err)

	require.Len(t, billingRepo.paidBatches, 1)
	assert.Equal(t, []string{"WTR-1001", "WTR-1002"}, billingRepo.paidBatches[0])
	assert.Equal(t, "RCPT-WT-1-ABCD1234", billingRepo.receiptNos[0])

	assert.Equal(t, 0.0, connectionRepo.demandUpdates["WTR-1001"])
	assert.Equal(t, 0.0, connectionRepo.demandUpdates["WTR-1002"])
	assert.Equal(t, []string{"WT-1-ABCD1234"}, paymentRepo.confirmed)
}

func TestConfirmPayment_UnknownInvoice(t *testing.T) {
	svc := NewPaymentService(payableConnections(), &fakeBillingRepo{}, &fakePaymentRepo{}, &fakeCheckout{}, testLogger())

	err := svc.ConfirmPayment("WT-0-UNKNOWN")
	assert.Error(t, err)
}
