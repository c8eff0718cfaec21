package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watertax-svc/internal/models"
	"watertax-svc/internal/models/response"
)

func twoPropertyLookup() *fakeLookup {
	return &fakeLookup{result: &response.SearchResult{
		Items: []*models.Connection{
			{ConsumerNo: "WTR-1001", PropertyNo: "P-1", CurrentDemand: 450, ConsumptionKL: 12},
			{ConsumerNo: "WTR-1002", PropertyNo: "P-1", CurrentDemand: 0, ConsumptionKL: 8},
			{ConsumerNo: "WTR-2001", PropertyNo: "P-2", CurrentDemand: 1200, ConsumptionKL: 40},
		},
	}}
}

func TestGetDashboard_AggregatesAcrossProperties(t *testing.T) {
	svc := NewDashboardService(twoPropertyLookup(), testLogger())

	dashboard, err := svc.GetDashboard("9876543210", "", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"P-1", "P-2"}, dashboard.Properties)
	assert.Empty(t, dashboard.SelectedProperty)
	assert.Len(t, dashboard.Connections, 3)

	assert.Equal(t, 1650.0, dashboard.Totals.TotalDue)
	assert.Equal(t, 2, dashboard.Totals.PendingCount)
	assert.Equal(t, 60.0, dashboard.Totals.TotalConsumptionKL)

	// Default selection covers every payable connection.
	assert.Equal(t, []string{"WTR-1001", "WTR-2001"}, dashboard.Selection)
	assert.Equal(t, 1650.0, dashboard.SelectedDue)
}

func TestGetDashboard_FiltersByProperty(t *testing.T) {
	svc := NewDashboardService(twoPropertyLookup(), testLogger())

	dashboard, err := svc.GetDashboard("9876543210", "P-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "P-1", dashboard.SelectedProperty)
	assert.Len(t, dashboard.Connections, 2)
	assert.Equal(t, 450.0, dashboard.Totals.TotalDue)
	assert.Equal(t, 1, dashboard.Totals.PendingCount)
	assert.Equal(t, []string{"WTR-1001"}, dashboard.Selection)
}

func TestGetDashboard_AutoSelectsSingleProperty(t *testing.T) {
	lookup := &fakeLookup{result: &response.SearchResult{
		Items: []*models.Connection{
			{ConsumerNo: "WTR-1001", PropertyNo: "P-1", CurrentDemand: 450},
		},
	}}
	svc := NewDashboardService(lookup, testLogger())

	dashboard, err := svc.GetDashboard("9876543210", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "P-1", dashboard.SelectedProperty)
}

func TestGetDashboard_RejectsForeignProperty(t *testing.T) {
	svc := NewDashboardService(twoPropertyLookup(), testLogger())

	_, err := svc.GetDashboard("9876543210", "P-99", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetDashboard_EmptyRegistryYieldsEmptyPayload(t *testing.T) {
	lookup := &fakeLookup{result: &response.SearchResult{}}
	svc := NewDashboardService(lookup, testLogger())

	dashboard, err := svc.GetDashboard("9876543210", "", nil)
	require.NoError(t, err)
	assert.Empty(t, dashboard.Connections)
	assert.Zero(t, dashboard.Totals.TotalDue)
	assert.Empty(t, dashboard.Selection)
}

func TestReconcileSelection_KeepsSurvivingToggles(t *testing.T) {
	visible := []*models.Connection{
		{ConsumerNo: "WTR-1001", CurrentDemand: 450},
		{ConsumerNo: "WTR-1002", CurrentDemand: 300},
		{ConsumerNo: "WTR-1003", CurrentDemand: 0},
	}

	// A requested toggle that is still payable survives; a toggle pointing at
	// a connection without dues is dropped.
	kept := ReconcileSelection([]string{"WTR-1002", "WTR-1003"}, visible)
	assert.Equal(t, []string{"WTR-1002"}, kept)
}

func TestReconcileSelection_FallsBackToDefault(t *testing.T) {
	visible := []*models.Connection{
		{ConsumerNo: "WTR-1001", CurrentDemand: 450},
		{ConsumerNo: "WTR-1002", CurrentDemand: 300},
	}

	// Nothing of the request survives, so every payable connection is selected.
	kept := ReconcileSelection([]string{"WTR-9999"}, visible)
	assert.Equal(t, []string{"WTR-1001", "WTR-1002"}, kept)

	// No request at all behaves the same.
	assert.Equal(t, []string{"WTR-1001", "WTR-1002"}, ReconcileSelection(nil, visible))
}

func TestSelectionTotal_SumsOnlySelected(t *testing.T) {
	visible := []*models.Connection{
		{ConsumerNo: "WTR-1001", CurrentDemand: 450},
		{ConsumerNo: "WTR-1002", CurrentDemand: 300},
	}

	assert.Equal(t, 300.0, SelectionTotal([]string{"WTR-1002"}, visible))
	assert.Zero(t, SelectionTotal(nil, visible))
}
