package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"watertax-svc/internal/config"
	"watertax-svc/internal/models"
	"watertax-svc/internal/models/response"
	"watertax-svc/internal/notify"
	"watertax-svc/internal/repository"
	"watertax-svc/pkg/logger"
)

// OTPService implements the OTP session gate: challenge issue, resend
// cooldown and verification against the stored hash.
type OTPService interface {
	RequestOTP(ctx context.Context, query string) error
	VerifyOTP(ctx context.Context, query, candidate string) (*response.VerifyOtpResponse, error)
}

// otpService implements OTPService
type otpService struct {
	otpRepo       repository.OtpRepository
	lookupService LookupService
	sender        notify.SMSSender
	cfg           config.OTPConfig
	logger        *logger.Logger
}

// NewOTPService creates a new OTP service
func NewOTPService(otpRepo repository.OtpRepository, lookupService LookupService, sender notify.SMSSender, cfg config.OTPConfig, logger *logger.Logger) OTPService {
	return &otpService{
		otpRepo:       otpRepo,
		lookupService: lookupService,
		sender:        sender,
		cfg:           cfg,
		logger:        logger,
	}
}

// RequestOTP issues a challenge for the query and dispatches the code. The
// same path serves first requests and resends; resends inside the cooldown
// window are rejected. Queries that resolve to no consumer still get a
// challenge so the endpoint does not leak registry membership.
func (s *otpService) RequestOTP(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("%w: query must not be empty", ErrValidation)
	}

	existing, err := s.otpRepo.GetLatestByQuery(query)
	if err != nil {
		return fmt.Errorf("failed to load otp challenge: %w", err)
	}
	if existing != nil && time.Since(existing.LastSentAt) < s.cfg.ResendCooldown {
		return ErrResendCooldown
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp code: %w", err)
	}

	now := time.Now()
	challenge := existing
	if challenge == nil {
		challenge = &models.OtpChallenge{Query: query}
	}
	challenge.CodeHash = string(hash)
	challenge.Attempts = 0
	challenge.ExpiresAt = now.Add(s.cfg.TTL)
	challenge.LastSentAt = now

	if err := s.otpRepo.Save(challenge); err != nil {
		return fmt.Errorf("failed to save otp challenge: %w", err)
	}

	mobile := s.resolveMobile(query)
	if err := s.sender.SendOTP(ctx, mobile, code); err != nil {
		// The challenge stays valid; the citizen can retry after the cooldown.
		s.logger.WithError(err).WithField("query", query).Error("Failed to dispatch OTP")
		return fmt.Errorf("failed to dispatch otp: %w", err)
	}

	s.logger.WithField("query", query).Info("OTP challenge issued")
	return nil
}

// VerifyOTP checks the candidate against the challenge and, on success, runs
// the consumer lookup and builds the session payload. A failed verification
// never produces partial session state.
func (s *otpService) VerifyOTP(ctx context.Context, query, candidate string) (*response.VerifyOtpResponse, error) {
	query = strings.TrimSpace(query)
	candidate = strings.TrimSpace(candidate)
	if query == "" || candidate == "" {
		return nil, fmt.Errorf("%w: query and otp are required", ErrValidation)
	}

	matched := false
	if s.cfg.DemoMode && candidate == s.cfg.DemoCode {
		matched = true
	}

	if !matched {
		challenge, err := s.otpRepo.GetLatestByQuery(query)
		if err != nil {
			return nil, fmt.Errorf("failed to load otp challenge: %w", err)
		}
		if challenge == nil || time.Now().After(challenge.ExpiresAt) {
			return nil, ErrOTPExpired
		}
		if challenge.Attempts >= s.cfg.MaxAttempts {
			return nil, ErrTooManyAttempts
		}

		if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(candidate)) != nil {
			challenge.Attempts++
			if err := s.otpRepo.Save(challenge); err != nil {
				s.logger.WithError(err).WithField("query", query).Error("Failed to record otp attempt")
			}
			return nil, ErrInvalidOTP
		}
		matched = true
	}

	result, err := s.lookupService.SearchConsumer(query)
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, ErrNoConsumerFound
	}

	// Challenge is spent; remove it so the code cannot be replayed.
	if err := s.otpRepo.DeleteByQuery(query); err != nil {
		s.logger.WithError(err).WithField("query", query).Error("Failed to clear otp challenge")
	}

	s.logger.WithFields(map[string]interface{}{
		"query":     query,
		"consumers": len(result.Items),
	}).Info("OTP verified, session established")

	return &response.VerifyOtpResponse{
		Query:            query,
		Consumers:        result.Items,
		SelectedConsumer: result.Items[0],
	}, nil
}

// resolveMobile picks the delivery target: the registered mobile of the first
// matching connection, falling back to the query itself when it looks like a
// phone number.
func (s *otpService) resolveMobile(query string) string {
	result, err := s.lookupService.SearchConsumer(query)
	if err == nil && len(result.Items) > 0 && result.Items[0].Mobile != "" {
		return result.Items[0].Mobile
	}
	return query
}

// generateCode produces a random six-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
