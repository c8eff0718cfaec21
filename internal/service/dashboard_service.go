package service

import (
	"fmt"
	"sort"

	"watertax-svc/internal/models"
	"watertax-svc/internal/models/response"
	"watertax-svc/pkg/logger"
)

// DashboardService aggregates a session's connections per property: visible
// connections, dues totals and the batch-payment selection.
type DashboardService interface {
	GetDashboard(query, propertyNo string, requestedSelection []string) (*response.DashboardResponse, error)
}

// dashboardService implements DashboardService
type dashboardService struct {
	lookupService LookupService
	logger        *logger.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(lookupService LookupService, logger *logger.Logger) DashboardService {
	return &dashboardService{
		lookupService: lookupService,
		logger:        logger,
	}
}

// GetDashboard builds the aggregated dashboard view. When the citizen has
// exactly one property it is auto-selected; an explicit propertyNo must be
// one of the citizen's properties. An empty connection list yields an empty
// payload, not an error.
func (s *dashboardService) GetDashboard(query, propertyNo string, requestedSelection []string) (*response.DashboardResponse, error) {
	result, err := s.lookupService.SearchConsumer(query)
	if err != nil {
		return nil, err
	}

	properties := Properties(result.Items)

	if propertyNo == "" && len(properties) == 1 {
		propertyNo = properties[0]
	}
	if propertyNo != "" && !contains(properties, propertyNo) {
		return nil, fmt.Errorf("%w: property %s does not belong to this session", ErrValidation, propertyNo)
	}

	visible := VisibleConnections(result.Items, propertyNo)
	totals := Totals(visible)
	selection := ReconcileSelection(requestedSelection, visible)

	s.logger.WithFields(map[string]interface{}{
		"query":       query,
		"property_no": propertyNo,
		"connections": len(visible),
		"total_due":   totals.TotalDue,
	}).Info("Dashboard aggregated")

	return &response.DashboardResponse{
		Properties:       properties,
		SelectedProperty: propertyNo,
		Connections:      visible,
		Totals:           totals,
		Selection:        selection,
		SelectedDue:      SelectionTotal(selection, visible),
	}, nil
}

// Properties returns the distinct property numbers of a connection list, sorted.
func Properties(connections []*models.Connection) []string {
	seen := make(map[string]bool)
	var properties []string
	for _, conn := range connections {
		if !seen[conn.PropertyNo] {
			seen[conn.PropertyNo] = true
			properties = append(properties, conn.PropertyNo)
		}
	}
	sort.Strings(properties)
	return properties
}

// VisibleConnections filters a connection list to the selected property.
// An empty property number means no filter.
func VisibleConnections(connections []*models.Connection, propertyNo string) []*models.Connection {
	if propertyNo == "" {
		return connections
	}
	var visible []*models.Connection
	for _, conn := range connections {
		if conn.PropertyNo == propertyNo {
			visible = append(visible, conn)
		}
	}
	return visible
}

// Totals reduces the visible connections to the dashboard summary: sum of
// dues, count of connections with dues, sum of consumption.
func Totals(visible []*models.Connection) response.DashboardTotals {
	var totals response.DashboardTotals
	for _, conn := range visible {
		totals.TotalDue += conn.CurrentDemand
		totals.TotalConsumptionKL += conn.ConsumptionKL
		if conn.CurrentDemand > 0 {
			totals.PendingCount++
		}
	}
	return totals
}

// DefaultSelection selects every visible connection with dues.
func DefaultSelection(visible []*models.Connection) []string {
	var selection []string
	for _, conn := range visible {
		if conn.Payable() {
			selection = append(selection, conn.ConsumerNo)
		}
	}
	return selection
}

// ReconcileSelection keeps the requested selection as long as every member is
// still in the visible payable set, dropping members that are not. When no
// selection is requested, or nothing of it survives, it falls back to the
// default. Toggles therefore survive a refetch as long as the connection
// stays payable.
func ReconcileSelection(requested []string, visible []*models.Connection) []string {
	if len(requested) == 0 {
		return DefaultSelection(visible)
	}

	payable := make(map[string]bool)
	for _, conn := range visible {
		if conn.Payable() {
			payable[conn.ConsumerNo] = true
		}
	}

	var kept []string
	for _, consumerNo := range requested {
		if payable[consumerNo] {
			kept = append(kept, consumerNo)
		}
	}
	if len(kept) == 0 {
		return DefaultSelection(visible)
	}
	return kept
}

// SelectionTotal sums the dues of the selected connections.
func SelectionTotal(selection []string, visible []*models.Connection) float64 {
	selected := make(map[string]bool, len(selection))
	for _, consumerNo := range selection {
		selected[consumerNo] = true
	}

	var total float64
	for _, conn := range visible {
		if selected[conn.ConsumerNo] {
			total += conn.CurrentDemand
		}
	}
	return total
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
