package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilhaam43/hr-copilot-sub001/internal/docstore"
	"github.com/ilhaam43/hr-copilot-sub001/internal/pipeline"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/server/respond"
)

// Service exercises the full pipeline on a canned input and reports store
// connectivity and analyzer availability.
type Service struct {
	Orch *pipeline.Orchestrator
	DB   *sql.DB
	Docs docstore.Store
}

// NewService constructs a health service. db and docs may be nil when the
// corresponding store is not configured.
func NewService(orch *pipeline.Orchestrator, db *sql.DB, docs docstore.Store) *Service {
	return &Service{Orch: orch, DB: db, Docs: docs}
}

// Report is the health payload.
type Report struct {
	OK        bool                  `json:"ok"`
	Pipeline  bool                  `json:"pipeline"`
	Analyzers pipeline.Capabilities `json:"analyzers"`
	Stores    StoreReport           `json:"stores"`
}

// StoreReport carries per-store connectivity flags.
type StoreReport struct {
	Relational    string `json:"relational"`
	DocumentStore string `json:"documentStore"`
}

const (
	storeUp       = "up"
	storeDown     = "down"
	storeDisabled = "disabled"
)

// Check probes the pipeline and both stores.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{
		Stores: StoreReport{Relational: storeDisabled, DocumentStore: storeDisabled},
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	outcome, err := s.Orch.Probe(probeCtx)
	if err == nil {
		report.Pipeline = true
		report.Analyzers = outcome.Capabilities
	}

	if s.DB != nil {
		if err := s.DB.PingContext(probeCtx); err == nil {
			report.Stores.Relational = storeUp
		} else {
			report.Stores.Relational = storeDown
		}
	}
	if s.Docs != nil {
		if err := s.Docs.Ping(probeCtx); err == nil {
			report.Stores.DocumentStore = storeUp
		} else {
			report.Stores.DocumentStore = storeDown
		}
	}

	report.OK = report.Pipeline &&
		report.Stores.Relational != storeDown &&
		report.Stores.DocumentStore != storeDown
	return report
}

// RegisterRoutes attaches the health endpoint.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		report := s.Check(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
}
