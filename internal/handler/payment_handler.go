package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"watertax-svc/internal/middleware"
	"watertax-svc/internal/service"
	"watertax-svc/pkg/logger"
	"watertax-svc/pkg/utils"
)

// CreatePaymentLinkRequest represents a batch payment link request
type CreatePaymentLinkRequest struct {
	ConsumerNos []string `json:"consumer_nos" binding:"required" example:"WTR-220041,WTR-220042"`
}

// ConfirmPaymentRequest represents a gateway payment notification
type ConfirmPaymentRequest struct {
	InvoiceNo         string `json:"invoice_no" binding:"required" example:"WT-1756712345-9F2C1AB0"`
	TransactionStatus string `json:"transaction_status" example:"SUCCESS"`
}

// PaymentHandler handles checkout link creation and gateway confirmations
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService service.PaymentService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreatePaymentLink handles POST /api/v1/payments/link
// @Summary Create a payment link
// @Description Sum the dues of the selected connections and return a hosted checkout URL. Every selected connection must be payable and belong to the session.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CreatePaymentLinkRequest true "Selected consumer numbers"
// @Success 201 {object} utils.APIResponse{data=service.PaymentLinkResponse} "Payment link created"
// @Failure 400 {object} utils.APIResponse "Invalid selection"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Failure 502 {object} utils.APIResponse "Lookup or gateway failure"
// @Router /api/v1/payments/link [post]
func (h *PaymentHandler) CreatePaymentLink(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.UnauthorizedResponse(c, "Login required")
		return
	}

	var req CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must contain consumer_nos", err)
		return
	}

	link, err := h.paymentService.CreatePaymentLink(sess.Query, req.ConsumerNos)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			utils.BadRequestResponse(c, "Invalid payment selection", err)
		case errors.Is(err, service.ErrLookupFailed):
			utils.BadGatewayResponse(c, "Consumer lookup failed, please try again", err)
		default:
			h.logger.WithError(err).Error("Failed to create payment link")
			utils.BadGatewayResponse(c, "Failed to create payment link", err)
		}
		return
	}

	utils.CreatedResponse(c, "Payment link created", link)
}

// ConfirmPayment handles POST /api/v1/payments/confirm
// @Summary Confirm a payment
// @Description Gateway notification endpoint. A SUCCESS status settles the invoice's bills, stamps a receipt number and clears the connections' demand.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body ConfirmPaymentRequest true "Gateway notification"
// @Success 200 {object} utils.APIResponse "Payment settled"
// @Failure 400 {object} utils.APIResponse "Invalid notification"
// @Failure 500 {object} utils.APIResponse "Settlement failed"
// @Router /api/v1/payments/confirm [post]
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must contain an invoice_no", err)
		return
	}

	if req.TransactionStatus != "" && req.TransactionStatus != "SUCCESS" {
		h.logger.WithFields(map[string]interface{}{
			"invoice_no": req.InvoiceNo,
			"status":     req.TransactionStatus,
		}).Warn("Ignoring non-success payment notification")
		utils.SuccessResponse(c, "Notification received", nil)
		return
	}

	if err := h.paymentService.ConfirmPayment(req.InvoiceNo); err != nil {
		h.logger.WithError(err).WithField("invoice_no", req.InvoiceNo).Error("Failed to settle payment")
		utils.InternalServerErrorResponse(c, "Failed to settle payment", err)
		return
	}

	utils.SuccessResponse(c, "Payment settled", nil)
}
