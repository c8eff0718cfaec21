package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watertax-svc/internal/middleware"
	"watertax-svc/internal/models"
	"watertax-svc/internal/models/response"
	"watertax-svc/internal/service"
	"watertax-svc/internal/session"
	"watertax-svc/pkg/logger"
	"watertax-svc/pkg/utils"
)

type stubBillingService struct {
	estimate *response.EstimateResponse
	err      error
}

func (s *stubBillingService) GetRates() ([]*models.RateConfig, error) { return nil, nil }

func (s *stubBillingService) Estimate(category string, metered bool, previousReading, currentReading float64) (*response.EstimateResponse, error) {
	return s.estimate, s.err
}

func (s *stubBillingService) GetPassbook(consumerNo string, page, limit int) ([]*response.PassbookEntry, int64, error) {
	return nil, 0, nil
}

func (s *stubBillingService) ExportPassbook(consumerNo string) ([]byte, string, error) {
	return nil, "", nil
}

type stubDashboardService struct {
	dashboard *response.DashboardResponse
	err       error

	gotQuery     string
	gotProperty  string
	gotSelection []string
}

func (s *stubDashboardService) GetDashboard(query, propertyNo string, requestedSelection []string) (*response.DashboardResponse, error) {
	s.gotQuery = query
	s.gotProperty = propertyNo
	s.gotSelection = requestedSelection
	if s.err != nil {
		return nil, s.err
	}
	return s.dashboard, nil
}

func testSessions() *session.Manager {
	return session.NewManager("test-secret", "watertax-svc", "wt_citizen_session_id", time.Hour, false)
}

func sessionCookie(t *testing.T, m *session.Manager, sess session.Session) *http.Cookie {
	t.Helper()
	token, err := m.Issue(sess)
	require.NoError(t, err)
	return &http.Cookie{Name: m.CookieName(), Value: token}
}

func decodeEnvelope(t *testing.T, body string) utils.APIResponse {
	t.Helper()
	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	return envelope
}

func TestEstimateEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewLogger("error", "text")

	h := NewBillingHandler(&stubBillingService{estimate: &response.EstimateResponse{
		Category: "residential",
		Metered:  true,
		Rate:     8,
		Amount:   80,
	}}, nil, log)

	router := gin.New()
	router.POST("/api/v1/calculator/estimate", h.Estimate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculator/estimate",
		strings.NewReader(`{"category":"residential","metered":true,"previous_reading":120,"current_reading":130}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w.Body.String())
	assert.True(t, envelope.Success)
}

func TestEstimateEndpoint_RejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewLogger("error", "text")

	h := NewBillingHandler(&stubBillingService{err: service.ErrValidation}, nil, log)

	router := gin.New()
	router.POST("/api/v1/calculator/estimate", h.Estimate)

	// Missing category fails binding before the service is reached.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculator/estimate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A service-side validation failure maps to the same status.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/calculator/estimate",
		strings.NewReader(`{"category":"residential","metered":true,"previous_reading":130,"current_reading":120}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardEndpoint_RequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewLogger("error", "text")
	sessions := testSessions()

	h := NewDashboardHandler(&stubDashboardService{}, log)

	router := gin.New()
	router.GET("/api/v1/dashboard", middleware.SessionRequired(sessions), h.GetDashboard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	envelope := decodeEnvelope(t, w.Body.String())
	assert.False(t, envelope.Success)
}

func TestDashboardEndpoint_PassesSessionAndSelection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewLogger("error", "text")
	sessions := testSessions()

	stub := &stubDashboardService{dashboard: &response.DashboardResponse{}}
	h := NewDashboardHandler(stub, log)

	router := gin.New()
	router.GET("/api/v1/dashboard", middleware.SessionRequired(sessions), h.GetDashboard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?property_no=P-1&selected=WTR-1001,%20WTR-1002", nil)
	req.AddCookie(sessionCookie(t, sessions, session.Session{Query: "9876543210", SelectedConsumerNo: "WTR-1001"}))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9876543210", stub.gotQuery)
	assert.Equal(t, "P-1", stub.gotProperty)
	assert.Equal(t, []string{"WTR-1001", "WTR-1002"}, stub.gotSelection)
}
