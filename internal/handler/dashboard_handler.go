package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"watertax-svc/internal/middleware"
	"watertax-svc/internal/service"
	"watertax-svc/pkg/logger"
	"watertax-svc/pkg/utils"
)

// DashboardHandler handles dashboard aggregation requests
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService service.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetDashboard handles GET /api/v1/dashboard
// @Summary Get the citizen dashboard
// @Description Aggregate the session's connections for one property: visible connections, dues totals and the batch-payment selection. With a single property it is auto-selected. The optional selected parameter carries the citizen's manual toggles (comma separated consumer numbers) and is reconciled against the payable set.
// @Tags dashboard
// @Produce json
// @Param property_no query string false "Property number (auto-selected when the citizen has exactly one)"
// @Param selected query string false "Comma separated consumer numbers chosen for payment"
// @Success 200 {object} utils.APIResponse{data=response.DashboardResponse} "Dashboard aggregated"
// @Failure 400 {object} utils.APIResponse "Property does not belong to session"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Failure 502 {object} utils.APIResponse "Lookup failed"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.UnauthorizedResponse(c, "Login required")
		return
	}

	propertyNo := c.Query("property_no")

	var selection []string
	if raw := c.Query("selected"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				selection = append(selection, part)
			}
		}
	}

	dashboard, err := h.dashboardService.GetDashboard(sess.Query, propertyNo, selection)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			utils.BadRequestResponse(c, "Invalid property selection", err)
		case errors.Is(err, service.ErrLookupFailed):
			utils.BadGatewayResponse(c, "Consumer lookup failed, please try again", err)
		default:
			h.logger.WithError(err).Error("Failed to aggregate dashboard")
			utils.InternalServerErrorResponse(c, "Failed to load dashboard", err)
		}
		return
	}

	utils.SuccessResponse(c, "Dashboard retrieved successfully", dashboard)
}
