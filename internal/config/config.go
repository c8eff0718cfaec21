package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Session   SessionConfig
	OTP       OTPConfig
	SMS       SMSConfig
	Gateway   GatewayConfig
	Broker    BrokerConfig
	CORS      CORSConfig
	Scheduler SchedulerConfig
	Uploads   UploadsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level  string
	Format string
}

// SessionConfig holds session cookie/JWT configuration
type SessionConfig struct {
	Secret     string
	CookieName string
	Issuer     string
	TTL        time.Duration
	Secure     bool
}

// OTPConfig holds OTP challenge configuration
type OTPConfig struct {
	DemoMode       bool
	DemoCode       string
	TTL            time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
}

// SMSConfig holds SMS gateway configuration
type SMSConfig struct {
	BaseURL  string
	APIKey   string
	SenderID string
}

// GatewayConfig holds payment gateway configuration
type GatewayConfig struct {
	ClientID    string
	SecretKey   string
	BaseURL     string
	CallbackURL string
}

// BrokerConfig holds message broker configuration
type BrokerConfig struct {
	URL      string
	Exchange string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled     bool
	BillRunCron string
	BillDueDays int
}

// UploadsConfig holds file upload configuration
type UploadsConfig struct {
	Dir string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env file doesn't exist
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "watertax"),
			Password: getEnv("DB_PASSWORD", "secret"),
			DBName:   getEnv("DB_NAME", "watertax"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "change-me"),
			CookieName: getEnv("SESSION_COOKIE_NAME", "wt_citizen_session_id"),
			Issuer:     getEnv("SESSION_ISSUER", "watertax-svc"),
			TTL:        getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		OTP: OTPConfig{
			DemoMode:       getEnvAsBool("OTP_DEMO_MODE", true),
			DemoCode:       getEnv("OTP_DEMO_CODE", "123456"),
			TTL:            getEnvAsDuration("OTP_TTL", 5*time.Minute),
			ResendCooldown: getEnvAsDuration("OTP_RESEND_COOLDOWN", 30*time.Second),
			MaxAttempts:    getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
		},
		SMS: SMSConfig{
			BaseURL:  getEnv("SMS_BASE_URL", ""),
			APIKey:   getEnv("SMS_API_KEY", ""),
			SenderID: getEnv("SMS_SENDER_ID", "WATERTAX"),
		},
		Gateway: GatewayConfig{
			ClientID:    getEnv("GATEWAY_CLIENT_ID", ""),
			SecretKey:   getEnv("GATEWAY_SECRET_KEY", ""),
			BaseURL:     getEnv("GATEWAY_BASE_URL", "https://api-sandbox.gateway.example"),
			CallbackURL: getEnv("GATEWAY_CALLBACK_URL", "http://localhost:8080/api/v1/payments/confirm"),
		},
		Broker: BrokerConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "watertax.readings"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		},
		Scheduler: SchedulerConfig{
			Enabled:     getEnvAsBool("BILL_RUN_ENABLED", true),
			BillRunCron: getEnv("BILL_RUN_CRON", "0 0 0 1 * *"),
			BillDueDays: getEnvAsInt("BILL_DUE_DAYS", 15),
		},
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOADS_DIR", "tmp/uploads/readings"),
		},
	}

	return config, nil
}

// GetDSN returns PostgreSQL connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvAsDuration gets an environment variable as duration with a fallback value
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
