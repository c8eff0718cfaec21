package response

import "watertax-svc/internal/models"

// SearchResult is the canonical lookup result shape. Every caller receives
// this envelope, never a bare array or a single record.
type SearchResult struct {
	Items []*models.Connection `json:"items"`
}

// VerifyOtpResponse represents a successful OTP verification
type VerifyOtpResponse struct {
	Query            string               `json:"query" example:"9876543210"`
	Consumers        []*models.Connection `json:"consumers"`
	SelectedConsumer *models.Connection   `json:"selected_consumer"`
}

// SessionResponse echoes the authenticated session envelope
type SessionResponse struct {
	Query              string `json:"query" example:"9876543210"`
	SelectedConsumerNo string `json:"selected_consumer_no" example:"WTR-220041"`
	IssuedAt           int64  `json:"issued_at" example:"1735689600"`
}
