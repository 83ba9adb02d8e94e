package configs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the configuration service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches configuration routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/configurations", h.createConfiguration)
	rg.GET("/configurations", h.listConfigurations)
	rg.GET("/configurations/:id", h.getConfiguration)
	rg.POST("/configurations/:id/activate", h.activateConfiguration)
	rg.GET("/configurations/active", h.getActiveConfiguration)
}

type configurationRequest struct {
	Name                       string  `json:"name"`
	PositiveThreshold          float64 `json:"positiveThreshold"`
	NegativeThreshold          float64 `json:"negativeThreshold"`
	MaxTextLength              int     `json:"maxTextLength"`
	EnablePreprocessing        bool    `json:"enablePreprocessing"`
	EnableEntityExtraction     bool    `json:"enableEntityExtraction"`
	EnableIntentClassification bool    `json:"enableIntentClassification"`
	EnableLLMEnhancement       bool    `json:"enableLlmEnhancement"`
}

func (h *Handler) createConfiguration(c *gin.Context) {
	var req configurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation, "invalid request body", nil)
		return
	}

	cfg, err := h.Svc.Create(c.Request.Context(), Configuration{
		Name:                       req.Name,
		PositiveThreshold:          req.PositiveThreshold,
		NegativeThreshold:          req.NegativeThreshold,
		MaxTextLength:              req.MaxTextLength,
		EnablePreprocessing:        req.EnablePreprocessing,
		EnableEntityExtraction:     req.EnableEntityExtraction,
		EnableIntentClassification: req.EnableIntentClassification,
		EnableLLMEnhancement:       req.EnableLLMEnhancement,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid):
			respond.Error(c, http.StatusBadRequest, results.ErrorCodeValidation, err.Error(), nil)
		case errors.Is(err, ErrDuplicateName):
			respond.Error(c, http.StatusConflict, results.ErrorCodeValidation, "configuration name already exists", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, results.ErrorCodeInternal, "failed to create configuration", nil)
		}
		return
	}

	respond.Created(c, cfg)
}

func (h *Handler) listConfigurations(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, results.ErrorCodeInternal, "failed to list configurations", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"configurations": list, "total": len(list)})
}

func (h *Handler) getConfiguration(c *gin.Context) {
	cfg, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, results.ErrorCodeNotFound, "configuration not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, results.ErrorCodeInternal, "failed to fetch configuration", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, cfg)
}

func (h *Handler) activateConfiguration(c *gin.Context) {
	cfg, err := h.Svc.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, results.ErrorCodeNotFound, "configuration not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, results.ErrorCodeInternal, "failed to activate configuration", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, cfg)
}

func (h *Handler) getActiveConfiguration(c *gin.Context) {
	respond.JSON(c, http.StatusOK, h.Svc.Active())
}
