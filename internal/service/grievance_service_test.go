package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watertax-svc/internal/models"
)

type fakeGrievanceRepo struct {
	created []*models.Grievance
	stored  *models.Grievance
	getErr  error
}

func (f *fakeGrievanceRepo) Create(grievance *models.Grievance) error {
	f.created = append(f.created, grievance)
	return nil
}

func (f *fakeGrievanceRepo) GetByTrackingNo(trackingNo string) (*models.Grievance, error) {
	return f.stored, f.getErr
}

func (f *fakeGrievanceRepo) ListByConsumer(consumerNo string, page, limit int) ([]*models.Grievance, int64, error) {
	return f.created, int64(len(f.created)), nil
}

func TestFileGrievance_AssignsTrackingNumber(t *testing.T) {
	repo := &fakeGrievanceRepo{}
	svc := NewGrievanceService(repo, testLogger())

	consumerNo := "WTR-1001"
	grievance, err := svc.FileGrievance(&consumerNo, "billing_dispute", "Bill does not match meter", "9876543210")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(grievance.TrackingNo, "GRV-"))
	assert.Len(t, grievance.TrackingNo, 12)
	assert.Equal(t, models.GrievanceOpen, grievance.Status)
	require.Len(t, repo.created, 1)
}

func TestFileGrievance_WorksWithoutConsumer(t *testing.T) {
	svc := NewGrievanceService(&fakeGrievanceRepo{}, testLogger())

	grievance, err := svc.FileGrievance(nil, "supply_issue", "No water since Monday", "9876543210")
	require.NoError(t, err)
	assert.Nil(t, grievance.ConsumerNo)
}

func TestFileGrievance_RejectsMissingFields(t *testing.T) {
	svc := NewGrievanceService(&fakeGrievanceRepo{}, testLogger())

	_, err := svc.FileGrievance(nil, "", "description", "9876543210")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.FileGrievance(nil, "supply_issue", "  ", "9876543210")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTrackGrievance_ReturnsStoredRecord(t *testing.T) {
	repo := &fakeGrievanceRepo{stored: &models.Grievance{
		TrackingNo: "GRV-ABCD1234",
		Status:     models.GrievanceResolved,
	}}
	svc := NewGrievanceService(repo, testLogger())

	grievance, err := svc.TrackGrievance("GRV-ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, models.GrievanceResolved, grievance.Status)
}
