package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"watertax-svc/internal/middleware"
	"watertax-svc/internal/service"
	"watertax-svc/internal/session"
	"watertax-svc/pkg/logger"
)

// Routes sets up all API routes
func SetupRoutes(
	router *gin.Engine,
	otpService service.OTPService,
	lookupService service.LookupService,
	dashboardService service.DashboardService,
	billingService service.BillingService,
	readingService service.ReadingService,
	grievanceService service.GrievanceService,
	paymentService service.PaymentService,
	sessions *session.Manager,
	logger *logger.Logger,
) {
	// Initialize handlers
	authHandler := NewAuthHandler(otpService, lookupService, sessions, logger)
	dashboardHandler := NewDashboardHandler(dashboardService, logger)
	billingHandler := NewBillingHandler(billingService, lookupService, logger)
	readingHandler := NewReadingHandler(readingService, lookupService, logger)
	grievanceHandler := NewGrievanceHandler(grievanceService, logger)
	paymentHandler := NewPaymentHandler(paymentService, logger)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", HealthCheck)

		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/otp/request", authHandler.RequestOtp)
			auth.POST("/otp/verify", authHandler.VerifyOtp)
			auth.POST("/logout", authHandler.Logout)

			authed := auth.Group("", middleware.SessionRequired(sessions))
			{
				authed.GET("/session", authHandler.GetSession)
				authed.POST("/session/select", authHandler.SelectConsumer)
			}
		}

		// Public rate table and bill calculator
		v1.GET("/rates", billingHandler.GetRates)
		v1.POST("/calculator/estimate", billingHandler.Estimate)

		// Grievance routes: filing and tracking are public, listing needs a session
		grievances := v1.Group("/grievances")
		{
			grievances.POST("", grievanceHandler.FileGrievance)
			grievances.GET("/:tracking_no", grievanceHandler.TrackGrievance)
			grievances.GET("", middleware.SessionRequired(sessions), grievanceHandler.GetGrievances)
		}

		// Payment confirmation webhook endpoint
		v1.POST("/payments/confirm", paymentHandler.ConfirmPayment)

		// Session-scoped citizen routes
		authed := v1.Group("", middleware.SessionRequired(sessions))
		{
			authed.GET("/dashboard", dashboardHandler.GetDashboard)

			authed.POST("/payments/link", paymentHandler.CreatePaymentLink)

			passbook := authed.Group("/passbook")
			{
				passbook.GET("/:consumer_no", billingHandler.GetPassbook)
				passbook.GET("/:consumer_no/export", billingHandler.ExportPassbook)
			}

			readings := authed.Group("/readings")
			{
				readings.POST("", readingHandler.SubmitReading)
				readings.GET("/:consumer_no", readingHandler.GetReadings)
			}
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"message": "Server is running",
		"service": "Water Tax Citizen Service",
	})
}
