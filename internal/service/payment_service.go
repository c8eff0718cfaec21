package service

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"watertax-svc/internal/config"
	"watertax-svc/internal/models"
	"watertax-svc/internal/repository"
	"watertax-svc/pkg/logger"
)

// CheckoutClient creates hosted checkout pages at the payment gateway.
type CheckoutClient interface {
	CreateCheckout(amount int64, invoiceNo, description string) (string, error)
}

// PaymentLinkResponse represents the response for payment link creation
type PaymentLinkResponse struct {
	InvoiceNo   string   `json:"invoice_no"`
	ConsumerNos []string `json:"consumer_nos"`
	Amount      float64  `json:"amount"`
	PaymentURL  string   `json:"payment_url"`
	Description string   `json:"description"`
}

// PaymentService creates checkout links for a selected set of connections and
// settles their bills when the gateway confirms payment.
type PaymentService interface {
	CreatePaymentLink(query string, consumerNos []string) (*PaymentLinkResponse, error)
	ConfirmPayment(invoiceNo string) error
}

// paymentService implements PaymentService
type paymentService struct {
	connectionRepo repository.ConnectionRepository
	billingRepo    repository.BillingRepository
	paymentRepo    repository.PaymentRepository
	checkout       CheckoutClient
	logger         *logger.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	connectionRepo repository.ConnectionRepository,
	billingRepo repository.BillingRepository,
	paymentRepo repository.PaymentRepository,
	checkout CheckoutClient,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		connectionRepo: connectionRepo,
		billingRepo:    billingRepo,
		paymentRepo:    paymentRepo,
		checkout:       checkout,
		logger:         logger,
	}
}

// CreatePaymentLink validates the selection against the session's payable
// connections, sums the dues and creates a gateway checkout link.
func (s *paymentService) CreatePaymentLink(query string, consumerNos []string) (*PaymentLinkResponse, error) {
	if len(consumerNos) == 0 {
		return nil, fmt.Errorf("%w: no connections selected", ErrValidation)
	}

	owned, err := s.connectionRepo.Search(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	payable := make(map[string]*models.Connection)
	for _, conn := range owned {
		if conn.Payable() {
			payable[conn.ConsumerNo] = conn
		}
	}

	var total float64
	for _, consumerNo := range consumerNos {
		conn, ok := payable[consumerNo]
		if !ok {
			return nil, fmt.Errorf("%w: connection %s is not payable in this session", ErrValidation, consumerNo)
		}
		total += conn.CurrentDemand
	}

	invoiceNo := fmt.Sprintf("WT-%d-%s", time.Now().Unix(), strings.ToUpper(uuid.New().String()[:8]))
	description := fmt.Sprintf("Water charges for %s", strings.Join(consumerNos, ","))

	paymentURL, err := s.checkout.CreateCheckout(int64(math.Round(total)), invoiceNo, description)
	if err != nil {
		s.logger.WithError(err).WithField("invoice_no", invoiceNo).Error("Failed to create checkout link")
		return nil, fmt.Errorf("failed to create payment link: %w", err)
	}

	payment := &models.Payment{
		InvoiceNo:   invoiceNo,
		ConsumerNos: strings.Join(consumerNos, ","),
		Amount:      total,
		PaymentURL:  paymentURL,
		Status:      models.PaymentPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"invoice_no":  invoiceNo,
		"amount":      total,
		"connections": len(consumerNos),
	}).Info("Payment link created")

	return &PaymentLinkResponse{
		InvoiceNo:   invoiceNo,
		ConsumerNos: consumerNos,
		Amount:      total,
		PaymentURL:  paymentURL,
		Description: description,
	}, nil
}

// ConfirmPayment settles the bills covered by a confirmed invoice and clears
// the running demand of the paid connections.
func (s *paymentService) ConfirmPayment(invoiceNo string) error {
	payment, err := s.paymentRepo.GetByInvoiceNo(invoiceNo)
	if err != nil {
		return fmt.Errorf("payment not found: %w", err)
	}

	consumerNos := strings.Split(payment.ConsumerNos, ",")
	receiptNo := fmt.Sprintf("RCPT-%s", invoiceNo)

	if err := s.billingRepo.MarkBillsPaid(consumerNos, receiptNo); err != nil {
		return fmt.Errorf("failed to settle bills: %w", err)
	}
	for _, consumerNo := range consumerNos {
		if err := s.connectionRepo.UpdateDemand(consumerNo, 0, 0); err != nil {
			s.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to clear connection demand")
		}
	}

	if err := s.paymentRepo.MarkConfirmed(invoiceNo); err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"invoice_no":  invoiceNo,
		"receipt_no":  receiptNo,
		"connections": len(consumerNos),
	}).Info("Payment confirmed")

	return nil
}

// gatewayClient is the hosted-checkout client for the municipal payment
// gateway. Requests are signed with HMAC-SHA256 over the canonical header
// components plus the body digest.
type gatewayClient struct {
	cfg    config.GatewayConfig
	client *http.Client
	logger *logger.Logger
}

// NewGatewayClient creates a checkout client from configuration.
func NewGatewayClient(cfg config.GatewayConfig, logger *logger.Logger) CheckoutClient {
	return &gatewayClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type checkoutRequest struct {
	Order struct {
		Amount        int64  `json:"amount"`
		InvoiceNumber string `json:"invoice_number"`
		Currency      string `json:"currency"`
		CallbackURL   string `json:"callback_url"`
	} `json:"order"`
	Payment struct {
		PaymentDueDate int `json:"payment_due_date"`
	} `json:"payment"`
}

type checkoutResponse struct {
	Message  []string `json:"message"`
	Response struct {
		Payment struct {
			URL     string `json:"url"`
			TokenID string `json:"token_id"`
		} `json:"payment"`
	} `json:"response"`
}

// CreateCheckout requests a hosted checkout page and returns its URL.
func (g *gatewayClient) CreateCheckout(amount int64, invoiceNo, description string) (string, error) {
	if g.cfg.ClientID == "" || g.cfg.SecretKey == "" {
		return "", fmt.Errorf("payment gateway credentials not configured")
	}

	requestTarget := "/checkout/v1/payment"
	requestID := uuid.New().String()
	requestTimestamp := time.Now().UTC().Format("2006-01-02T15:04:05Z")

	var payload checkoutRequest
	payload.Order.Amount = amount
	payload.Order.InvoiceNumber = invoiceNo
	payload.Order.Currency = "INR"
	payload.Order.CallbackURL = g.cfg.CallbackURL
	payload.Payment.PaymentDueDate = 60

	bodyJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	signature := g.sign(requestID, requestTimestamp, requestTarget, string(bodyJSON))

	req, err := http.NewRequest(http.MethodPost, g.cfg.BaseURL+requestTarget, bytes.NewBuffer(bodyJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", g.cfg.ClientID)
	req.Header.Set("Request-Id", requestID)
	req.Header.Set("Request-Timestamp", requestTimestamp)
	req.Header.Set("Signature", signature)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	g.logger.WithFields(map[string]interface{}{
		"status_code": resp.StatusCode,
		"invoice_no":  invoiceNo,
	}).Info("Gateway checkout response received")

	var checkout checkoutResponse
	if err := json.Unmarshal(body, &checkout); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if checkout.Response.Payment.URL == "" {
		return "", fmt.Errorf("payment URL not found in response")
	}

	return checkout.Response.Payment.URL, nil
}

// sign builds the HMAC-SHA256 signature header value.
func (g *gatewayClient) sign(requestID, requestTimestamp, requestTarget, body string) string {
	bodyHash := sha256.Sum256([]byte(body))
	digest := base64.StdEncoding.EncodeToString(bodyHash[:])

	components := fmt.Sprintf("Client-Id:%s\nRequest-Id:%s\nRequest-Timestamp:%s\nRequest-Target:%s\nDigest:%s",
		g.cfg.ClientID, requestID, requestTimestamp, requestTarget, digest)

	h := hmac.New(sha256.New, []byte(g.cfg.SecretKey))
	h.Write([]byte(components))

	return fmt.Sprintf("HMACSHA256=%s", base64.StdEncoding.EncodeToString(h.Sum(nil)))
}
