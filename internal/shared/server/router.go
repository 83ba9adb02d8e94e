package server

import (
	"github.com/gin-gonic/gin"

	"github.com/ilhaam43/hr-copilot-sub001/internal/configs"
	"github.com/ilhaam43/hr-copilot-sub001/internal/health"
	"github.com/ilhaam43/hr-copilot-sub001/internal/pipeline"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/config"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/metrics"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/server/middleware"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	PipelineHandler *pipeline.Handler
	ConfigsHandler  *configs.Handler
	HealthService   *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	deps.HealthService.RegisterRoutes(api)
	deps.PipelineHandler.RegisterRoutes(api)
	deps.ConfigsHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
