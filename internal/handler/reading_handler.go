package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"watertax-svc/internal/middleware"
	"watertax-svc/internal/service"
	"watertax-svc/pkg/logger"
	"watertax-svc/pkg/utils"
)

// ReadingHandler handles meter reading submissions and history
type ReadingHandler struct {
	readingService service.ReadingService
	lookupService  service.LookupService
	logger         *logger.Logger
}

// NewReadingHandler creates a new reading handler
func NewReadingHandler(readingService service.ReadingService, lookupService service.LookupService, logger *logger.Logger) *ReadingHandler {
	return &ReadingHandler{
		readingService: readingService,
		lookupService:  lookupService,
		logger:         logger,
	}
}

// SubmitReading handles POST /api/v1/readings
// @Summary Submit a meter reading
// @Description Multipart form: consumer_no, current_reading and an optional meter photo (field `photo`). A current value below the previous reading is rejected before anything is stored.
// @Tags readings
// @Accept multipart/form-data
// @Produce json
// @Param consumer_no formData string true "Consumer number"
// @Param current_reading formData number true "Current meter value"
// @Param photo formData file false "Meter photo"
// @Success 201 {object} utils.APIResponse "Reading accepted"
// @Failure 400 {object} utils.APIResponse "Invalid reading"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Failure 403 {object} utils.APIResponse "Connection not owned by session"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/readings [post]
func (h *ReadingHandler) SubmitReading(c *gin.Context) {
	consumerNo := c.PostForm("consumer_no")
	if consumerNo == "" {
		utils.BadRequestResponse(c, "consumer_no is required", nil)
		return
	}
	if !h.sessionOwns(c, consumerNo) {
		return
	}

	currentReading, err := strconv.ParseFloat(c.PostForm("current_reading"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "current_reading must be a number", err)
		return
	}

	var photo []byte
	var photoName string
	if file, err := c.FormFile("photo"); err == nil {
		opened, err := file.Open()
		if err != nil {
			h.logger.WithError(err).Error("Failed to open uploaded photo")
			utils.InternalServerErrorResponse(c, "Failed to read photo", err)
			return
		}
		defer opened.Close()

		photo, err = io.ReadAll(opened)
		if err != nil {
			h.logger.WithError(err).Error("Failed to read uploaded photo")
			utils.InternalServerErrorResponse(c, "Failed to read photo", err)
			return
		}
		photoName = file.Filename
	}

	reading, err := h.readingService.SubmitReading(c.Request.Context(), consumerNo, currentReading, photo, photoName)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			utils.BadRequestResponse(c, "Reading rejected", err)
			return
		}
		h.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to submit reading")
		utils.InternalServerErrorResponse(c, "Failed to submit reading", err)
		return
	}

	utils.CreatedResponse(c, "Reading submitted successfully", reading)
}

// GetReadings handles GET /api/v1/readings/:consumer_no
// @Summary Get reading history
// @Description Paginated meter reading history of one connection
// @Tags readings
// @Produce json
// @Param consumer_no path string true "Consumer number"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} utils.PaginatedResponse "Readings retrieved"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Failure 403 {object} utils.APIResponse "Connection not owned by session"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/readings/{consumer_no} [get]
func (h *ReadingHandler) GetReadings(c *gin.Context) {
	consumerNo := c.Param("consumer_no")
	if !h.sessionOwns(c, consumerNo) {
		return
	}

	page, limit := utils.GetPaginationParams(c)

	readings, total, err := h.readingService.GetReadings(consumerNo, page, limit)
	if err != nil {
		h.logger.WithError(err).WithField("consumer_no", consumerNo).Error("Failed to list readings")
		utils.InternalServerErrorResponse(c, "Failed to retrieve readings", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Readings retrieved successfully", readings, page, limit, total)
}

// sessionOwns enforces that the consumer number belongs to the session.
func (h *ReadingHandler) sessionOwns(c *gin.Context, consumerNo string) bool {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.UnauthorizedResponse(c, "Login required")
		return false
	}

	result, err := h.lookupService.SearchConsumer(sess.Query)
	if err != nil {
		h.logger.WithError(err).Error("Failed to reload session consumers")
		utils.BadGatewayResponse(c, "Consumer lookup failed, please try again", err)
		return false
	}

	for _, conn := range result.Items {
		if conn.ConsumerNo == consumerNo {
			return true
		}
	}

	utils.ForbiddenResponse(c, "Connection does not belong to this session")
	return false
}
