package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"watertax-svc/internal/config"
	"watertax-svc/internal/database"
	"watertax-svc/internal/handler"
	"watertax-svc/internal/middleware"
	"watertax-svc/internal/mq"
	"watertax-svc/internal/notify"
	"watertax-svc/internal/ocr"
	"watertax-svc/internal/repository"
	"watertax-svc/internal/scheduler"
	"watertax-svc/internal/service"
	"watertax-svc/internal/session"
	"watertax-svc/pkg/logger"
)

// @title Water Tax Citizen Service API
// @version 1.0
// @description RESTful API for the municipal water tax citizen portal
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting Water Tax Citizen Service...")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		appLogger.WithField("error", err).Fatal("Failed to connect to database")
	}
	appLogger.Info("Database connected successfully")

	// Run auto migration
	if err := db.AutoMigrate(); err != nil {
		appLogger.WithField("error", err).Fatal("Failed to run database migrations")
	}
	appLogger.Info("Database migrations completed successfully")

	// Initialize repositories
	connectionRepo := repository.NewConnectionRepository(db.DB)
	billingRepo := repository.NewBillingRepository(db.DB)
	readingRepo := repository.NewReadingRepository(db.DB)
	grievanceRepo := repository.NewGrievanceRepository(db.DB)
	otpRepo := repository.NewOtpRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)
	billRunLogRepo := repository.NewBillRunLogRepository(db.DB)

	// Session envelope manager
	sessions := session.NewManager(
		cfg.Session.Secret,
		cfg.Session.Issuer,
		cfg.Session.CookieName,
		cfg.Session.TTL,
		cfg.Session.Secure,
	)

	// OTP delivery: log-only in demo mode, SMS gateway otherwise
	var smsSender notify.SMSSender
	if cfg.OTP.DemoMode {
		appLogger.Warn("OTP demo mode enabled, codes are logged instead of sent")
		smsSender = notify.NewLogSender(appLogger)
	} else {
		smsSender = notify.NewGatewaySender(cfg.SMS, appLogger)
	}

	// Reading event publisher, optional
	var publisher *mq.Publisher
	if cfg.Broker.URL != "" {
		publisher, err = mq.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange, appLogger)
		if err != nil {
			appLogger.WithField("error", err).Fatal("Failed to connect to message broker")
		}
		appLogger.Info("Message broker connected successfully")
	}

	// Initialize services
	lookupService := service.NewLookupService(connectionRepo, appLogger)
	otpService := service.NewOTPService(otpRepo, lookupService, smsSender, cfg.OTP, appLogger)
	dashboardService := service.NewDashboardService(lookupService, appLogger)
	billingService := service.NewBillingService(billingRepo, appLogger)
	readingService := service.NewReadingService(readingRepo, connectionRepo, ocr.NewStubReader(), publisher, cfg.Uploads.Dir, appLogger)
	grievanceService := service.NewGrievanceService(grievanceRepo, appLogger)
	checkoutClient := service.NewGatewayClient(cfg.Gateway, appLogger)
	paymentService := service.NewPaymentService(connectionRepo, billingRepo, paymentRepo, checkoutClient, appLogger)
	billRunService := service.NewBillRunService(connectionRepo, billingRepo, readingRepo, cfg.Scheduler.BillDueDays, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.LoggerMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))
	router.NoRoute(middleware.NoRouteHandler())
	router.NoMethod(middleware.NoMethodHandler())

	// Setup routes
	handler.SetupRoutes(router, otpService, lookupService, dashboardService, billingService, readingService, grievanceService, paymentService, sessions, appLogger)

	// Start the monthly bill-run scheduler
	var billRunScheduler *scheduler.BillRunScheduler
	if cfg.Scheduler.Enabled {
		billRunScheduler = scheduler.NewBillRunScheduler(billRunService, billRunLogRepo, appLogger, cfg.Scheduler.BillRunCron)
		if err := billRunScheduler.Start(); err != nil {
			appLogger.WithField("error", err).Fatal("Failed to start bill-run scheduler")
		}
		appLogger.WithField("cron", cfg.Scheduler.BillRunCron).Info("Bill-run scheduler started")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Server starting...")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithField("error", err).Fatal("Failed to start server")
		}
	}()

	appLogger.WithField("port", cfg.Server.Port).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	if billRunScheduler != nil {
		billRunScheduler.Stop()
	}

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithField("error", err).Fatal("Server forced to shutdown")
	}

	// Close message broker connection
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			appLogger.WithField("error", err).Error("Failed to close message broker connection")
		}
	}

	// Close database connection
	if err := db.Close(); err != nil {
		appLogger.WithField("error", err).Error("Failed to close database connection")
	}

	appLogger.Info("Server exited successfully")
}
