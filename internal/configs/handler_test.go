package configs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, err := NewService(context.Background(), NewMemoryRepo(), testFallback())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateConfigurationEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := postJSON(router, "/api/v1/configurations", gin.H{
		"name":              "strict",
		"positiveThreshold": 0.3,
		"negativeThreshold": -0.3,
		"maxTextLength":     5000,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var created Configuration
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || created.IsActive {
		t.Fatalf("expected inactive configuration with an ID, got %+v", created)
	}
}

func TestCreateConfigurationRejectsBadThresholds(t *testing.T) {
	router, _ := newTestRouter(t)

	// Inverted thresholds would misclassify every input.
	resp := postJSON(router, "/api/v1/configurations", gin.H{
		"name":              "inverted",
		"positiveThreshold": -0.5,
		"negativeThreshold": 0.5,
		"maxTextLength":     5000,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", resp.Code, resp.Body.String())
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte(results.ErrorCodeValidation)) {
		t.Fatalf("expected %s, got %s", results.ErrorCodeValidation, resp.Body.String())
	}
}

func TestGetConfigurationNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/configurations/missing-id", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte(results.ErrorCodeNotFound)) {
		t.Fatalf("expected %s, got %s", results.ErrorCodeNotFound, resp.Body.String())
	}
}

func TestActivateConfigurationEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)

	cfg := testFallback()
	cfg.Name = "candidate"
	created, err := svc.Create(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp := postJSON(router, "/api/v1/configurations/"+created.ID+"/activate", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/configurations/active", nil)
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, req)
	var active Configuration
	if err := json.Unmarshal(getResp.Body.Bytes(), &active); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if active.ID != created.ID {
		t.Fatalf("active = %s, want %s", active.ID, created.ID)
	}
}
