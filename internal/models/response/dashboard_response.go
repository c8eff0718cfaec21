package response

import "watertax-svc/internal/models"

// DashboardTotals represents the summary figures shown above the connection list
type DashboardTotals struct {
	TotalDue           float64 `json:"total_due" example:"1250.50"`
	PendingCount       int     `json:"pending_count" example:"2"`
	TotalConsumptionKL float64 `json:"total_consumption_kl" example:"34.5"`
}

// DashboardResponse represents the aggregated dashboard payload for one property
type DashboardResponse struct {
	Properties       []string             `json:"properties"`
	SelectedProperty string               `json:"selected_property" example:"P-1043"`
	Connections      []*models.Connection `json:"connections"`
	Totals           DashboardTotals      `json:"totals"`
	Selection        []string             `json:"selection"`
	SelectedDue      float64              `json:"selected_due" example:"1250.50"`
}
