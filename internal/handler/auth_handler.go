package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"watertax-svc/internal/middleware"
	"watertax-svc/internal/models/response"
	"watertax-svc/internal/service"
	"watertax-svc/internal/session"
	"watertax-svc/pkg/logger"
	"watertax-svc/pkg/utils"
)

// RequestOtpRequest represents the request to issue an OTP challenge
type RequestOtpRequest struct {
	Query string `json:"query" binding:"required" example:"9876543210"`
}

// VerifyOtpRequest represents the request to verify an OTP
type VerifyOtpRequest struct {
	Query string `json:"query" binding:"required" example:"9876543210"`
	Otp   string `json:"otp" binding:"required" example:"123456"`
}

// SelectConsumerRequest represents the request to switch the selected consumer
type SelectConsumerRequest struct {
	ConsumerNo string `json:"consumer_no" binding:"required" example:"WTR-220041"`
}

// AuthHandler handles OTP login, session inspection and logout
type AuthHandler struct {
	otpService    service.OTPService
	lookupService service.LookupService
	sessions      *session.Manager
	logger        *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(otpService service.OTPService, lookupService service.LookupService, sessions *session.Manager, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		otpService:    otpService,
		lookupService: lookupService,
		sessions:      sessions,
		logger:        logger,
	}
}

// RequestOtp handles POST /api/v1/auth/otp/request
// @Summary Request an OTP challenge
// @Description Issue a one-time code for a lookup query (mobile, consumer or property number). The same endpoint serves resends after the cooldown.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestOtpRequest true "Lookup query"
// @Success 200 {object} utils.APIResponse "Challenge issued"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 429 {object} utils.APIResponse "Resend cooldown active"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/auth/otp/request [post]
func (h *AuthHandler) RequestOtp(c *gin.Context) {
	var req RequestOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid OTP request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON with a query", err)
		return
	}

	if err := h.otpService.RequestOTP(c.Request.Context(), req.Query); err != nil {
		switch {
		case errors.Is(err, service.ErrResendCooldown):
			utils.TooManyRequestsResponse(c, "Please wait before requesting another code")
		case errors.Is(err, service.ErrValidation):
			utils.BadRequestResponse(c, "Invalid lookup query", err)
		default:
			h.logger.WithError(err).Error("Failed to issue OTP challenge")
			utils.InternalServerErrorResponse(c, "Failed to send OTP, please try again", err)
		}
		return
	}

	utils.SuccessResponse(c, "OTP sent", nil)
}

// VerifyOtp handles POST /api/v1/auth/otp/verify
// @Summary Verify an OTP and establish a session
// @Description Verify the code for a query. On success the session cookie is set and the consumer list is returned with the first record pre-selected.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOtpRequest true "Query and OTP"
// @Success 200 {object} utils.APIResponse{data=response.VerifyOtpResponse} "Session established"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 401 {object} utils.APIResponse "Invalid or expired OTP"
// @Failure 404 {object} utils.APIResponse "No consumer found"
// @Failure 502 {object} utils.APIResponse "Lookup failed"
// @Router /api/v1/auth/otp/verify [post]
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid OTP verify body")
		utils.BadRequestResponse(c, "Request body must be valid JSON with query and otp", err)
		return
	}

	result, err := h.otpService.VerifyOTP(c.Request.Context(), req.Query, req.Otp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOTP), errors.Is(err, service.ErrOTPExpired), errors.Is(err, service.ErrTooManyAttempts):
			utils.UnauthorizedResponse(c, "Invalid or expired OTP")
		case errors.Is(err, service.ErrNoConsumerFound):
			utils.NotFoundResponse(c, "No consumer found for this query")
		case errors.Is(err, service.ErrLookupFailed):
			utils.BadGatewayResponse(c, "Consumer lookup failed, please try again", err)
		case errors.Is(err, service.ErrValidation):
			utils.BadRequestResponse(c, "Query and OTP are required", err)
		default:
			h.logger.WithError(err).Error("OTP verification failed")
			utils.InternalServerErrorResponse(c, "Verification failed, please try again", err)
		}
		return
	}

	token, err := h.sessions.Issue(session.Session{
		Query:              result.Query,
		SelectedConsumerNo: result.SelectedConsumer.ConsumerNo,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue session token")
		utils.InternalServerErrorResponse(c, "Failed to establish session", err)
		return
	}
	h.sessions.Write(c, token)

	utils.SuccessResponse(c, "Login successful", result)
}

// GetSession handles GET /api/v1/auth/session
// @Summary Inspect the current session
// @Description Echo the authenticated session envelope
// @Tags auth
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response.SessionResponse} "Current session"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.UnauthorizedResponse(c, "Login required")
		return
	}

	utils.SuccessResponse(c, "Session active", response.SessionResponse{
		Query:              sess.Query,
		SelectedConsumerNo: sess.SelectedConsumerNo,
		IssuedAt:           sess.IssuedAt.Unix(),
	})
}

// SelectConsumer handles POST /api/v1/auth/session/select
// @Summary Switch the selected consumer
// @Description Re-issue the session envelope with a different consumer of the same query
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SelectConsumerRequest true "Consumer number"
// @Success 200 {object} utils.APIResponse{data=response.SessionResponse} "Selection updated"
// @Failure 400 {object} utils.APIResponse "Consumer does not belong to session"
// @Failure 401 {object} utils.APIResponse "No active session"
// @Router /api/v1/auth/session/select [post]
func (h *AuthHandler) SelectConsumer(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.UnauthorizedResponse(c, "Login required")
		return
	}

	var req SelectConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must contain a consumer_no", err)
		return
	}

	result, err := h.lookupService.SearchConsumer(sess.Query)
	if err != nil {
		h.logger.WithError(err).Error("Failed to reload session consumers")
		utils.BadGatewayResponse(c, "Consumer lookup failed, please try again", err)
		return
	}

	owned := false
	for _, conn := range result.Items {
		if conn.ConsumerNo == req.ConsumerNo {
			owned = true
			break
		}
	}
	if !owned {
		utils.BadRequestResponse(c, "Consumer does not belong to this session", nil)
		return
	}

	token, err := h.sessions.Issue(session.Session{
		Query:              sess.Query,
		SelectedConsumerNo: req.ConsumerNo,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to re-issue session token")
		utils.InternalServerErrorResponse(c, "Failed to update session", err)
		return
	}
	h.sessions.Write(c, token)

	utils.SuccessResponse(c, "Consumer selected", response.SessionResponse{
		Query:              sess.Query,
		SelectedConsumerNo: req.ConsumerNo,
	})
}

// Logout handles POST /api/v1/auth/logout
// @Summary End the session
// @Description Expire the session cookie. Safe to call repeatedly.
// @Tags auth
// @Produce json
// @Success 200 {object} utils.APIResponse "Logged out"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	utils.SuccessResponse(c, "Logged out", nil)
}
