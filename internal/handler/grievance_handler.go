package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"watertax-svc/internal/middleware"
	"watertax-svc/internal/service"
	"watertax-svc/pkg/logger"
	"watertax-svc/pkg/utils"
)

// FileGrievanceRequest represents a grievance filing
type FileGrievanceRequest struct {
	ConsumerNo  string `json:"consumer_no,omitempty" example:"WTR-220041"`
	Category    string `json:"category" binding:"required" example:"billing_dispute"`
	Description string `json:"description" binding:"required" example:"Bill amount does not match meter reading"`
	Mobile      string `json:"mobile" binding:"required" example:"9876543210"`
}

// GrievanceHandler handles grievance filing and tracking
type GrievanceHandler struct {
	grievanceService service.GrievanceService
	logger           *logger.Logger
}

// NewGrievanceHandler creates a new grievance handler
func NewGrievanceHandler(grievanceService service.GrievanceService, logger *logger.Logger) *GrievanceHandler {
	return &GrievanceHandler{
		grievanceService: grievanceService,
		logger:           logger,
	}
}

// FileGrievance handles POST /api/v1/grievances
// @Summary File a grievance
// @Description Record a grievance and return its tracking number
// @Tags grievances
// @Accept json
// @Produce json
// @Param request body FileGrievanceRequest true "Grievance"
// @Success 201 {object} utils.APIResponse "Grievance filed"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/grievances [post]
func (h *GrievanceHandler) FileGrievance(c *gin.Context) {
	var req FileGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must contain category, description and mobile", err)
		return
	}

	var consumerNo *string
	if req.ConsumerNo != "" {
		consumerNo = &req.ConsumerNo
	}

	grievance, err := h.grievanceService.FileGrievance(consumerNo, req.Category, req.Description, req.Mobile)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			utils.BadRequestResponse(c, "Invalid grievance", err)
			return
		}
		h.logger.WithError(err).Error("Failed to file grievance")
		utils.InternalServerErrorResponse(c, "Failed to file grievance", err)
		return
	}

	utils.CreatedResponse(c, "Grievance filed successfully", grievance)
}

// TrackGrievance handles GET /api/v1/grievances/:tracking_no
// @Summary Track a grievance
// @Description Retrieve a grievance by its public tracking number
// @Tags grievances
// @Produce json
// @Param tracking_no path string true "Tracking number"
// @Success 200 {object} utils.APIResponse "Grievance status"
// @Failure 404 {object} utils.APIResponse "Not found"
// @Router /api/v1/grievances/{tracking_no} [get]
func (h *GrievanceHandler) TrackGrievance(c *gin.Context) {
	grievance, err := h.grievanceService.TrackGrievance(c.Param("tracking_no"))
	if err != nil {
		utils.NotFoundResponse(c, "Grievance not found")
		return
	}

	utils.SuccessResponse(c, "Grievance retrieved successfully", grievance)
}

// GetGrievances handles GET /api/v1/grievances
// @Summary List grievances of the selected connection
// @Description Paginated grievances filed against the session's selected consumer
// @Tags grievances
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} utils.PaginatedResponse "Grievances retrieved"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/grievances [get]
func (h *GrievanceHandler) GetGrievances(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.UnauthorizedResponse(c, "Login required")
		return
	}

	page, limit := utils.GetPaginationParams(c)

	grievances, total, err := h.grievanceService.GetGrievances(sess.SelectedConsumerNo, page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list grievances")
		utils.InternalServerErrorResponse(c, "Failed to retrieve grievances", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Grievances retrieved successfully", grievances, page, limit, total)
}
