package service

import "errors"

// Error taxonomy surfaced to handlers. Handlers map these to HTTP statuses;
// anything else is treated as an internal failure.
var (
	// ErrInvalidOTP means the candidate code did not match the challenge.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrOTPExpired means no live challenge exists for the query.
	ErrOTPExpired = errors.New("otp expired or not requested")
	// ErrTooManyAttempts means the challenge is locked out.
	ErrTooManyAttempts = errors.New("too many otp attempts")
	// ErrResendCooldown means a resend was requested inside the cooldown window.
	ErrResendCooldown = errors.New("otp resend cooldown active")
	// ErrNoConsumerFound means the lookup returned zero records.
	ErrNoConsumerFound = errors.New("no consumer found for query")
	// ErrLookupFailed means the consumer registry could not be queried.
	ErrLookupFailed = errors.New("consumer lookup failed")
	// ErrValidation covers rejected user input (empty query, bad category,
	// negative consumption, selection outside the payable set).
	ErrValidation = errors.New("validation failed")
	// ErrNotOwned means the session does not own the requested connection.
	ErrNotOwned = errors.New("connection does not belong to session")
)
