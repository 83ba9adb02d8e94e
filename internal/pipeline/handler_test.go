package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilhaam43/hr-copilot-sub001/internal/configs"
	"github.com/ilhaam43/hr-copilot-sub001/internal/docstore"
	"github.com/ilhaam43/hr-copilot-sub001/internal/persistence"
	"github.com/ilhaam43/hr-copilot-sub001/internal/queue"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfgSvc, err := configs.NewService(context.Background(), configs.NewMemoryRepo(), testConfig())
	if err != nil {
		t.Fatalf("config service: %v", err)
	}
	persist := persistence.NewService(results.NewMemoryRepo(), docstore.NewMemoryStore(), nil, time.Second, 10)
	orch := NewOrchestrator(cfgSvc, persist, nil, nil, 4)

	router := gin.New()
	api := router.Group("/api/v1")
	NewHandler(orch, 3).RegisterRoutes(api)
	return router, orch
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAnalyzeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := postJSON(router, "/api/v1/analyze", gin.H{
		"text":       "I am extremely happy with the new leave policy, thank you HR!",
		"sourceType": "feedback",
		"sourceId":   "fb-42",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var body analyzeResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.AnalysisID == "" {
		t.Fatalf("missing analysisId: %s", resp.Body.String())
	}
	if body.Sentiment != "positive" {
		t.Fatalf("sentiment = %q", body.Sentiment)
	}
	if body.Language != "en" {
		t.Fatalf("language = %q", body.Language)
	}
}

func TestAnalyzeEndpointEmptyText(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := postJSON(router, "/api/v1/analyze", gin.H{"text": "   "})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("VALIDATION_ERROR")) {
		t.Fatalf("expected validation error, got %s", resp.Body.String())
	}
}

type stubQueue struct {
	sent []queue.TextEvent
	err  error
}

func (s *stubQueue) Send(ctx context.Context, evt queue.TextEvent) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, evt)
	return nil
}

func TestAnalyzeAsyncEndpointEnqueues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, orch := newTestRouter(t)

	q := &stubQueue{}
	h := NewHandler(orch, 3)
	h.Queue = q
	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))

	resp := postJSON(router, "/api/v1/analyze-async", gin.H{
		"text":       "Please review my overtime request",
		"sourceType": "ticket",
		"sourceId":   "tk-7",
	})
	if resp.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	if len(q.sent) != 1 {
		t.Fatalf("expected 1 enqueued event, got %d", len(q.sent))
	}
	if q.sent[0].Text != "Please review my overtime request" || q.sent[0].SourceType != "ticket" {
		t.Fatalf("got %+v", q.sent[0])
	}
	if q.sent[0].Version != 1 {
		t.Fatalf("event version = %d", q.sent[0].Version)
	}
}

func TestAnalyzeAsyncEndpointWithoutQueue(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := postJSON(router, "/api/v1/analyze-async", gin.H{"text": "anything"})
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 without a queue backend", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("DEPENDENCY_UNAVAILABLE")) {
		t.Fatalf("expected dependency error, got %s", resp.Body.String())
	}
}

func TestBatchEndpointIndexAligned(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := postJSON(router, "/api/v1/batch-analyze", gin.H{
		"items": []gin.H{
			{"text": "Thanks for the help"},
			{"text": ""},
		},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Items []batchItemResponse `json:"items"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Total != 2 || len(body.Items) != 2 {
		t.Fatalf("got %+v", body)
	}
	if body.Items[0].Result == nil || body.Items[0].Error != nil {
		t.Fatalf("item 0 should succeed: %+v", body.Items[0])
	}
	if body.Items[1].Error == nil || body.Items[1].Error.Code != results.ErrorCodeValidation {
		t.Fatalf("item 1 should carry a validation error: %+v", body.Items[1])
	}
}

func TestBatchEndpointCapEnforced(t *testing.T) {
	router, _ := newTestRouter(t)

	items := make([]gin.H, 4)
	for i := range items {
		items[i] = gin.H{"text": fmt.Sprintf("item %d", i)}
	}
	resp := postJSON(router, "/api/v1/batch-analyze", gin.H{"items": items})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for oversized batch", resp.Code)
	}
}

func TestGetResultEndpoint(t *testing.T) {
	router, orch := newTestRouter(t)

	outcome, err := orch.Analyze(context.Background(), Input{Text: "Thanks for the onboarding help"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/results/"+outcome.Result.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var got results.AnalysisResult
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != outcome.Result.ID {
		t.Fatalf("got %+v", got)
	}
}

func TestGetResultNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/results/missing-id", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte(results.ErrorCodeNotFound)) {
		t.Fatalf("expected %s, got %s", results.ErrorCodeNotFound, resp.Body.String())
	}
}

func TestDeleteResultEndpoint(t *testing.T) {
	router, orch := newTestRouter(t)

	outcome, err := orch.Analyze(context.Background(), Input{Text: "Delete me please"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/results/"+outcome.Result.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/results/"+outcome.Result.ID, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("deleted result should 404, got %d", resp.Code)
	}
}
