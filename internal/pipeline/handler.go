package pipeline

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilhaam43/hr-copilot-sub001/internal/queue"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/server/respond"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// Handler wires the analysis and result-read endpoints. Queue may be nil
// when no queue backend is configured; the async route then reports the
// dependency unavailable.
type Handler struct {
	Orch          *Orchestrator
	Queue         queue.Client
	MaxBatchItems int
}

// NewHandler constructs a Handler.
func NewHandler(orch *Orchestrator, maxBatchItems int) *Handler {
	if maxBatchItems <= 0 {
		maxBatchItems = 50
	}
	return &Handler{Orch: orch, MaxBatchItems: maxBatchItems}
}

// RegisterRoutes attaches pipeline routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.POST("/analyze-async", h.analyzeAsync)
	rg.POST("/batch-analyze", h.batchAnalyze)
	rg.GET("/results", h.listResults)
	rg.GET("/results/:id", h.getResult)
	rg.DELETE("/results/:id", h.deleteResult)
}

type analyzeRequest struct {
	Text       string `json:"text"`
	SourceType string `json:"sourceType"`
	SourceID   string `json:"sourceId"`
	SubjectRef string `json:"subjectRef"`
}

type analyzeResponse struct {
	AnalysisID          string           `json:"analysisId"`
	Sentiment           string           `json:"sentiment"`
	SentimentScore      float64          `json:"sentimentScore"`
	SentimentConfidence float64          `json:"sentimentConfidence"`
	Language            string           `json:"language"`
	LanguageConfidence  float64          `json:"languageConfidence"`
	Entities            []results.Entity `json:"entities"`
	Intents             []results.Intent `json:"intents"`
	ProcessingTime      float64          `json:"processingTime"`
	Truncated           bool             `json:"truncated"`
	Capabilities        Capabilities     `json:"capabilities"`
}

func toAnalyzeResponse(outcome Outcome) analyzeResponse {
	r := outcome.Result
	resp := analyzeResponse{
		AnalysisID:          r.ID,
		Sentiment:           r.Sentiment,
		SentimentScore:      r.SentimentScore,
		SentimentConfidence: r.SentimentConfidence,
		Language:            r.Language,
		LanguageConfidence:  r.LanguageConfidence,
		Entities:            r.Entities,
		Intents:             r.Intents,
		ProcessingTime:      r.ProcessingTime,
		Truncated:           r.Truncated,
		Capabilities:        outcome.Capabilities,
	}
	if resp.Entities == nil {
		resp.Entities = []results.Entity{}
	}
	if resp.Intents == nil {
		resp.Intents = []results.Intent{}
	}
	return resp
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation, "invalid request body", nil)
		return
	}

	sourceID := req.SourceID
	if sourceID == "" {
		sourceID = req.SubjectRef
	}
	outcome, err := h.Orch.Analyze(c.Request.Context(), Input{
		Text:       req.Text,
		SourceType: req.SourceType,
		SourceID:   sourceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyText), errors.Is(err, results.ErrInvalid):
			respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, results.ErrorCodeInternal, "analysis failed", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toAnalyzeResponse(outcome))
}

// analyzeAsync enqueues the text for the worker instead of analyzing inline.
func (h *Handler) analyzeAsync(c *gin.Context) {
	if h.Queue == nil {
		respond.Error(c, http.StatusServiceUnavailable, results.ErrorCodeDependency,
			"no queue backend configured", nil)
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation, "invalid request body", nil)
		return
	}
	if req.Text == "" {
		respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation, "text must not be empty", nil)
		return
	}

	evt := queue.TextEvent{
		Text:       req.Text,
		SourceType: req.SourceType,
		SourceID:   req.SourceID,
		SubjectRef: req.SubjectRef,
		EmittedAt:  time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	}
	if err := h.Queue.Send(c.Request.Context(), evt); err != nil {
		telemetry.Error("pipeline.enqueue_failed", map[string]any{
			"sourceType": req.SourceType,
			"error":      err.Error(),
		})
		respond.Error(c, http.StatusBadGateway, results.ErrorCodeExternal, "failed to enqueue text event", nil)
		return
	}

	respond.JSON(c, http.StatusAccepted, gin.H{"accepted": true})
}

type batchRequest struct {
	Items []analyzeRequest `json:"items"`
}

type batchItemResponse struct {
	Index  int                `json:"index"`
	Result *analyzeResponse   `json:"result,omitempty"`
	Error  *respond.ErrorBody `json:"error,omitempty"`
}

func (h *Handler) batchAnalyze(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation, "invalid request body", nil)
		return
	}
	if len(req.Items) == 0 {
		respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation, "items must not be empty", nil)
		return
	}
	if len(req.Items) > h.MaxBatchItems {
		respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation,
			fmt.Sprintf("batch size %d exceeds maximum of %d", len(req.Items), h.MaxBatchItems), nil)
		return
	}

	inputs := make([]Input, len(req.Items))
	for i, item := range req.Items {
		inputs[i] = Input{Text: item.Text, SourceType: item.SourceType, SourceID: item.SourceID}
	}

	items := h.Orch.AnalyzeBatch(c.Request.Context(), inputs)
	resp := make([]batchItemResponse, len(items))
	for i, item := range items {
		resp[i].Index = i
		if item.Err != nil {
			code := results.ErrorCodeInternal
			if errors.Is(item.Err, ErrEmptyText) || errors.Is(item.Err, results.ErrInvalid) {
				code = results.ErrorCodeValidation
			}
			resp[i].Error = &respond.ErrorBody{Code: code, Message: item.Err.Error()}
			continue
		}
		r := toAnalyzeResponse(item.Outcome)
		resp[i].Result = &r
	}

	respond.JSON(c, http.StatusOK, gin.H{"items": resp, "total": len(resp)})
}

func (h *Handler) getResult(c *gin.Context) {
	result, err := h.Orch.Persist.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, results.ErrNotFound):
			respond.Error(c, http.StatusNotFound, results.ErrorCodeNotFound, "analysis result not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, results.ErrorCodeInternal, "failed to fetch analysis result", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) listResults(c *gin.Context) {
	filter := results.ListFilter{
		SourceType: c.Query("sourceType"),
		SourceID:   c.Query("sourceId"),
		Limit:      20,
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			filter.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}

	list, err := h.Orch.Persist.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, results.ErrorCodeInternal, "failed to list analysis results", nil)
		return
	}
	if list == nil {
		list = []results.AnalysisResult{}
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"results": list,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func (h *Handler) deleteResult(c *gin.Context) {
	err := h.Orch.Persist.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, results.ErrNotFound):
			respond.Error(c, http.StatusNotFound, results.ErrorCodeNotFound, "analysis result not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, results.ErrorCodeInternal, "failed to delete analysis result", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}
