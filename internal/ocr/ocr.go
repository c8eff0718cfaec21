// Package ocr defines the meter-photo reading capability. The portal treats
// digit extraction as an external capability behind one interface so a real
// engine can be swapped in without touching call sites.
package ocr

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by readers that have no engine configured.
// Callers fall back to the manually entered value.
var ErrUnavailable = errors.New("ocr engine not available")

// Result holds the extracted reading and the engine's confidence (0-100).
type Result struct {
	Reading    float64 `json:"reading"`
	Confidence float64 `json:"confidence"`
}

// Reader extracts a meter reading from a photo.
type Reader interface {
	Extract(ctx context.Context, image []byte) (*Result, error)
}

// StubReader is the explicit no-engine implementation. It always reports
// itself unavailable; it does not fabricate readings or quality scores.
type StubReader struct{}

// NewStubReader creates the stub implementation.
func NewStubReader() *StubReader {
	return &StubReader{}
}

// Extract always returns ErrUnavailable.
func (s *StubReader) Extract(_ context.Context, _ []byte) (*Result, error) {
	return nil, ErrUnavailable
}
