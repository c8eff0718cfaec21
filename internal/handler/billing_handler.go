package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"watertax-svc/internal/middleware"
	"watertax-svc/internal/service"
	"watertax-svc/pkg/logger"
	"watertax-svc/pkg/utils"
)

// EstimateRequest represents a bill calculator request
type EstimateRequest struct {
	Category        string  `json:"category" binding:"required" example:"residential"`
	Metered         bool    `json:"metered" example:"true"`
	PreviousReading float64 `json:"previous_reading" example:"120"`
	CurrentReading  float64 `json:"current_reading" example:"130"`
}

// BillingHandler handles passbook, rate table and calculator requests
type BillingHandler struct {
	billingService service.BillingService
	lookupService  service.LookupService
	logger         *logger.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService service.BillingService, lookupService service.LookupService, logger *logger.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		lookupService:  lookupService,
		logger:         logger,
	}
}

// GetRates handles GET /api/v1/rates
// @Summary Get the rate table
// @Description One rate row per connection category: per-KL meter rate and flat non-meter rate
// @Tags billing
// @Produce json
// @Success 200 {object} utils.APIResponse "Rate table"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/rates [get]
func (h *BillingHandler) GetRates(c *gin.Context) {
	rates, err := h.billingService.GetRates()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get rate table")
		utils.InternalServerErrorResponse(c, "Failed to retrieve rates", err)
		return
	}

	utils.SuccessResponse(c, "Rates retrieved successfully", rates)
}

// Estimate handles POST /api/v1/calculator/estimate
// @Summary Estimate a bill amount
// @Description Metered: consumption times the category meter rate. Non-metered: the flat rate regardless of consumption.
// @Tags billing
// @Accept json
// @Produce json
// @Param request body EstimateRequest true "Estimate input"
// @Success 200 {object} utils.APIResponse{data=response.EstimateResponse} "Estimate"
// @Failure 400 {object} utils.APIResponse "Invalid input"
// @Router /api/v1/calculator/estimate [post]
func (h *BillingHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON with a category", err)
		return
	}

	estimate, err := h.billingService.Estimate(req.Category, req.Metered, req.PreviousReading, req.CurrentReading)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			utils.BadRequestResponse(c, "Invalid estimate input", err)
			return
		}
		h.logger.WithError(err).Error("Failed to compute estimate")
		utils.InternalServerErrorResponse(c, "Failed to compute estimate", err)
		return
	}

	utils.SuccessResponse(c, "Estimate computed successfully", estimate)
}

// GetPassbook handles GET /api/v1/passbook/:consumer_no
// @Summary Get the billing passbook
// @Description Paginated ledger of one connection, most recent period first. The connection must belong to the session.
// @Tags billing
// @Produce json
// @Param consumer_no path string true "Consumer number"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} utils.PaginatedResponse "Passbook retrieved"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Failure 403 {object} utils.APIResponse "Connection not owned by session"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/passbook/{consumer_no} [get]
func (h *BillingHandler) GetPassbook(c *gin.Context) {
	consumerNo, ok := h.ownedConsumer(c)
	if !ok {
		return
	}

	page, limit := utils.GetPaginationParams(c)

	entries, total, err := h.billingService.GetPassbook(consumerNo, page, limit)
	if err != nil {
		h.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to get passbook")
		utils.InternalServerErrorResponse(c, "Failed to retrieve passbook", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Passbook retrieved successfully", entries, page, limit, total)
}

// ExportPassbook handles GET /api/v1/passbook/:consumer_no/export
// @Summary Export the passbook to Excel
// @Description Download the full ledger of one connection as an xlsx workbook
// @Tags billing
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param consumer_no path string true "Consumer number"
// @Success 200 {file} file "The workbook"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Failure 403 {object} utils.APIResponse "Connection not owned by session"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/passbook/{consumer_no}/export [get]
func (h *BillingHandler) ExportPassbook(c *gin.Context) {
	consumerNo, ok := h.ownedConsumer(c)
	if !ok {
		return
	}

	content, filename, err := h.billingService.ExportPassbook(consumerNo)
	if err != nil {
		h.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to export passbook")
		utils.InternalServerErrorResponse(c, "Failed to export passbook", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// ownedConsumer resolves the consumer_no path parameter and enforces that it
// belongs to the session's consumer list.
func (h *BillingHandler) ownedConsumer(c *gin.Context) (string, bool) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.UnauthorizedResponse(c, "Login required")
		return "", false
	}

	consumerNo := c.Param("consumer_no")
	result, err := h.lookupService.SearchConsumer(sess.Query)
	if err != nil {
		h.logger.WithError(err).Error("Failed to reload session consumers")
		utils.BadGatewayResponse(c, "Consumer lookup failed, please try again", err)
		return "", false
	}

	for _, conn := range result.Items {
		if conn.ConsumerNo == consumerNo {
			return consumerNo, true
		}
	}

	utils.ForbiddenResponse(c, "Connection does not belong to this session")
	return "", false
}
