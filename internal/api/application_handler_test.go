package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/launchforge/accel-api/internal/auth"
	apperrors "github.com/launchforge/accel-api/internal/errors"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/internal/services"
)

// Mock application service for testing
type mockApplicationService struct {
	application *models.Application
	result      *services.DecisionResult
	err         error

	lastFilters  repository.ApplicationFilters
	lastDecision *models.DecisionRequest
}

func (m *mockApplicationService) Create(founderUserID string, form *models.ApplicationForm) (*models.Application, error) {
	if m.err != nil {
		return nil, m.err
	}
	app := &models.Application{
		ID:          uuid.New(),
		Status:      models.StatusDraft,
		CompanyName: form.CompanyName,
		OneLiner:    form.OneLiner,
	}
	app.FounderUserID, _ = uuid.Parse(founderUserID)
	return app, nil
}

func (m *mockApplicationService) GetByID(id string) (*models.Application, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.application, nil
}

func (m *mockApplicationService) GetAll(filters repository.ApplicationFilters) ([]models.Application, error) {
	m.lastFilters = filters
	if m.err != nil {
		return nil, m.err
	}
	if m.application == nil {
		return nil, nil
	}
	return []models.Application{*m.application}, nil
}

func (m *mockApplicationService) Submit(id string) (*models.Application, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.application, nil
}

func (m *mockApplicationService) ScheduleInterview(id string) (*models.Application, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.application, nil
}

func (m *mockApplicationService) CompleteInterview(id string, notes string) (*models.Application, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.application, nil
}

func (m *mockApplicationService) GenerateAssessment(ctx context.Context, id string) (*models.Application, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.application, nil
}

func (m *mockApplicationService) StartReview(id string) (*models.Application, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.application, nil
}

func (m *mockApplicationService) Decide(id string, req *models.DecisionRequest) (*services.DecisionResult, error) {
	m.lastDecision = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// authAs injects authenticated-user context the way the JWT middleware does
func authAs(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.UserIDKey, userID)
		c.Set(auth.UserRoleKey, role)
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestApplicationHandler_CreateApplication(t *testing.T) {
	mockService := &mockApplicationService{}
	handler := NewApplicationHandler(mockService)
	founderID := uuid.New()

	router := newTestRouter()
	router.POST("/applications", authAs(founderID, models.RoleFounder), handler.CreateApplication)

	body, _ := json.Marshal(models.ApplicationForm{
		CompanyName: "Gridwise",
		OneLiner:    "Demand forecasting for microgrids",
	})
	req := httptest.NewRequest(http.MethodPost, "/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Application models.Application `json:"application"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Application.FounderUserID != founderID {
		t.Errorf("expected founder %s, got %s", founderID, resp.Application.FounderUserID)
	}
	if resp.Application.Status != models.StatusDraft {
		t.Errorf("expected draft status, got %s", resp.Application.Status)
	}
}

func TestApplicationHandler_CreateApplicationRejectsBadBody(t *testing.T) {
	handler := NewApplicationHandler(&mockApplicationService{})

	router := newTestRouter()
	router.POST("/applications", authAs(uuid.New(), models.RoleFounder), handler.CreateApplication)

	req := httptest.NewRequest(http.MethodPost, "/applications", bytes.NewReader([]byte(`{"one_liner":"no name"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing company_name, got %d", w.Code)
	}
}

func TestApplicationHandler_GetApplicationsScopesFounders(t *testing.T) {
	founderID := uuid.New()
	mockService := &mockApplicationService{
		application: &models.Application{ID: uuid.New(), FounderUserID: founderID},
	}
	handler := NewApplicationHandler(mockService)

	router := newTestRouter()
	router.GET("/applications", authAs(founderID, models.RoleFounder), handler.GetApplications)

	req := httptest.NewRequest(http.MethodGet, "/applications?status=submitted,under_review", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if mockService.lastFilters.FounderUserID == nil || *mockService.lastFilters.FounderUserID != founderID {
		t.Error("expected founder listing to be scoped to own applications")
	}
	if len(mockService.lastFilters.Statuses) != 2 {
		t.Errorf("expected 2 status filters, got %d", len(mockService.lastFilters.Statuses))
	}
}

func TestApplicationHandler_GetApplicationsUnscopedForPartners(t *testing.T) {
	mockService := &mockApplicationService{}
	handler := NewApplicationHandler(mockService)

	router := newTestRouter()
	router.GET("/applications", authAs(uuid.New(), models.RolePartner), handler.GetApplications)

	req := httptest.NewRequest(http.MethodGet, "/applications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mockService.lastFilters.FounderUserID != nil {
		t.Error("partner listing should not be founder-scoped")
	}
}

func TestApplicationHandler_GetApplicationBlocksOtherFounders(t *testing.T) {
	owner := uuid.New()
	mockService := &mockApplicationService{
		application: &models.Application{ID: uuid.New(), FounderUserID: owner},
	}
	handler := NewApplicationHandler(mockService)

	router := newTestRouter()
	router.GET("/applications/:id", authAs(uuid.New(), models.RoleFounder), handler.GetApplication)

	req := httptest.NewRequest(http.MethodGet, "/applications/"+mockService.application.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for another founder's application, got %d", w.Code)
	}
}

func TestApplicationHandler_DecideApplication(t *testing.T) {
	appID := uuid.New()
	startupID := uuid.New()
	mockService := &mockApplicationService{
		result: &services.DecisionResult{
			Application: &models.Application{ID: appID, Status: models.StatusApproved},
			Startup:     &models.Startup{ID: startupID, Name: "Gridwise"},
			Investment:  models.NewStandardInvestment(startupID),
			Message:     "Congratulations! Your startup has been accepted with $50k cash + $50k credits.",
		},
	}
	handler := NewApplicationHandler(mockService)

	router := newTestRouter()
	router.POST("/applications/:id/decision", authAs(uuid.New(), models.RolePartner), handler.DecideApplication)

	body, _ := json.Marshal(models.DecisionRequest{Decision: "approve", Notes: "strong team"})
	req := httptest.NewRequest(http.MethodPost, "/applications/"+appID.String()+"/decision", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Startup    *models.Startup    `json:"startup"`
		Investment *models.Investment `json:"investment"`
		Message    string             `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Startup == nil || resp.Startup.ID != startupID {
		t.Error("expected startup in decision response")
	}
	if resp.Investment == nil || resp.Investment.CashTotal != models.StandardCashPool {
		t.Error("expected standard investment in decision response")
	}
	if resp.Message == "" {
		t.Error("expected acceptance message in decision response")
	}
	if mockService.lastDecision == nil || mockService.lastDecision.Decision != "approve" {
		t.Error("expected decision to reach the service")
	}
}

func TestApplicationHandler_DecideApplicationConflict(t *testing.T) {
	mockService := &mockApplicationService{
		err: apperrors.Conflict("application has already been decided", nil),
	}
	handler := NewApplicationHandler(mockService)

	router := newTestRouter()
	router.POST("/applications/:id/decision", authAs(uuid.New(), models.RolePartner), handler.DecideApplication)

	body, _ := json.Marshal(models.DecisionRequest{Decision: "approve"})
	req := httptest.NewRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/decision", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for already-decided application, got %d", w.Code)
	}
}

func TestApplicationHandler_DecideApplicationNotFound(t *testing.T) {
	mockService := &mockApplicationService{
		err: apperrors.NotFound("application not found", nil),
	}
	handler := NewApplicationHandler(mockService)

	router := newTestRouter()
	router.POST("/applications/:id/decision", authAs(uuid.New(), models.RolePartner), handler.DecideApplication)

	body, _ := json.Marshal(models.DecisionRequest{Decision: "reject"})
	req := httptest.NewRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/decision", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown application, got %d", w.Code)
	}
}

func TestApplicationHandler_InternalErrorHidesDetails(t *testing.T) {
	mockService := &mockApplicationService{
		err: apperrors.DatabaseError("insert failed on applications table", nil),
	}
	handler := NewApplicationHandler(mockService)

	router := newTestRouter()
	router.POST("/applications/:id/submit", authAs(uuid.New(), models.RolePartner), handler.SubmitApplication)

	req := httptest.NewRequest(http.MethodPost, "/applications/"+uuid.NewString()+"/submit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("applications table")) {
		t.Error("database details should not leak to clients")
	}
}
