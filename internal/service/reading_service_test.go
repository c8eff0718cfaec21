package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watertax-svc/internal/models"
	"watertax-svc/internal/ocr"
)

func meteredConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{connections: []*models.Connection{
		{ConsumerNo: "WTR-1001", PropertyNo: "P-1", IsMetered: true, Status: models.ConnectionActive},
	}}
}

func TestSubmitReading_ManualWithoutPhoto(t *testing.T) {
	readingRepo := &fakeReadingRepo{latest: &models.MeterReading{CurrentReading: 120}}
	svc := NewReadingService(readingRepo, meteredConnectionRepo(), ocr.NewStubReader(), nil, t.TempDir(), testLogger())

	reading, err := svc.SubmitReading(context.Background(), "WTR-1001", 130, nil, "")
	require.NoError(t, err)

	assert.Equal(t, 120.0, reading.PreviousReading)
	assert.Equal(t, 10.0, reading.ConsumptionKL)
	assert.Equal(t, models.ReadingSourceManual, reading.Source)
	assert.Equal(t, models.ReadingAccepted, reading.Status)
	assert.Nil(t, reading.PhotoPath)
	require.Len(t, readingRepo.created, 1)
}

func TestSubmitReading_FirstReadingStartsAtZero(t *testing.T) {
	readingRepo := &fakeReadingRepo{}
	svc := NewReadingService(readingRepo, meteredConnectionRepo(), ocr.NewStubReader(), nil, t.TempDir(), testLogger())

	reading, err := svc.SubmitReading(context.Background(), "WTR-1001", 42, nil, "")
	require.NoError(t, err)
	assert.Zero(t, reading.PreviousReading)
	assert.Equal(t, 42.0, reading.ConsumptionKL)
}

func TestSubmitReading_RejectsDecreasingValueBeforeSideEffects(t *testing.T) {
	readingRepo := &fakeReadingRepo{latest: &models.MeterReading{CurrentReading: 120}}
	uploadsDir := t.TempDir()
	svc := NewReadingService(readingRepo, meteredConnectionRepo(), ocr.NewStubReader(), nil, uploadsDir, testLogger())

	_, err := svc.SubmitReading(context.Background(), "WTR-1001", 110, []byte("jpeg"), "meter.jpg")
	assert.ErrorIs(t, err, ErrValidation)

	// Nothing may be persisted for a rejected reading, photo included.
	assert.Empty(t, readingRepo.created)
	entries, readErr := os.ReadDir(uploadsDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSubmitReading_RejectsNonMeteredConnection(t *testing.T) {
	connectionRepo := &fakeConnectionRepo{connections: []*models.Connection{
		{ConsumerNo: "WTR-2001", IsMetered: false},
	}}
	svc := NewReadingService(&fakeReadingRepo{}, connectionRepo, ocr.NewStubReader(), nil, t.TempDir(), testLogger())

	_, err := svc.SubmitReading(context.Background(), "WTR-2001", 10, nil, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitReading_PhotoWithoutEngineGoesToReview(t *testing.T) {
	uploadsDir := t.TempDir()
	svc := NewReadingService(&fakeReadingRepo{}, meteredConnectionRepo(), ocr.NewStubReader(), nil, uploadsDir, testLogger())

	reading, err := svc.SubmitReading(context.Background(), "WTR-1001", 130, []byte("jpeg"), "meter.jpg")
	require.NoError(t, err)

	// The manual value stays authoritative; the stub reader has no engine.
	assert.Equal(t, models.ReadingSourceManual, reading.Source)
	assert.Equal(t, models.ReadingPendingReview, reading.Status)
	assert.Nil(t, reading.OCRConfidence)

	require.NotNil(t, reading.PhotoPath)
	assert.Equal(t, uploadsDir, filepath.Dir(filepath.Dir(*reading.PhotoPath)))
	_, statErr := os.Stat(*reading.PhotoPath)
	assert.NoError(t, statErr)
}

func TestSubmitReading_OCRAgreementAccepts(t *testing.T) {
	reader := &fakeOCRReader{result: &ocr.Result{Reading: 130.3, Confidence: 92}}
	svc := NewReadingService(&fakeReadingRepo{}, meteredConnectionRepo(), reader, nil, t.TempDir(), testLogger())

	reading, err := svc.SubmitReading(context.Background(), "WTR-1001", 130, []byte("jpeg"), "meter.jpg")
	require.NoError(t, err)

	assert.Equal(t, models.ReadingSourceOCR, reading.Source)
	assert.Equal(t, models.ReadingAccepted, reading.Status)
	require.NotNil(t, reading.OCRConfidence)
	assert.Equal(t, 92.0, *reading.OCRConfidence)
}

func TestSubmitReading_OCRDisagreementGoesToReview(t *testing.T) {
	reader := &fakeOCRReader{result: &ocr.Result{Reading: 137, Confidence: 88}}
	svc := NewReadingService(&fakeReadingRepo{}, meteredConnectionRepo(), reader, nil, t.TempDir(), testLogger())

	reading, err := svc.SubmitReading(context.Background(), "WTR-1001", 130, []byte("jpeg"), "meter.jpg")
	require.NoError(t, err)

	// The manual value is kept, the disagreement is flagged.
	assert.Equal(t, models.ReadingSourceManual, reading.Source)
	assert.Equal(t, models.ReadingPendingReview, reading.Status)
	assert.Equal(t, 130.0, reading.CurrentReading)
}
