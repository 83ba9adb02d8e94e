package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ilhaam43/hr-copilot-sub001/internal/configs"
	"github.com/ilhaam43/hr-copilot-sub001/internal/docstore"
	"github.com/ilhaam43/hr-copilot-sub001/internal/health"
	"github.com/ilhaam43/hr-copilot-sub001/internal/llm"
	"github.com/ilhaam43/hr-copilot-sub001/internal/persistence"
	"github.com/ilhaam43/hr-copilot-sub001/internal/pipeline"
	"github.com/ilhaam43/hr-copilot-sub001/internal/proclog"
	"github.com/ilhaam43/hr-copilot-sub001/internal/queue"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/schedule"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/config"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/server"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/storage/db"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// App holds the wired dependency graph for the API process.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	ResultsRepo  results.Repo
	DocStore     docstore.Store
	Queue        queue.Client
	Gateway      *llm.Gateway
	ProcLog      *proclog.Logger
	Persistence  *persistence.Service
	Configs      *configs.Service
	Orchestrator *pipeline.Orchestrator
	Health       *health.Service
	Scheduler    *schedule.Scheduler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	docs := buildDocStore(ctx, cfg)
	gateway := buildGateway(cfg)

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		DocStore: docs,
		Queue:    queueClient,
		Gateway:  gateway,
	}
	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	pipelineHandler := pipeline.NewHandler(app.Orchestrator, cfg.MaxBatchItems)
	pipelineHandler.Queue = app.Queue
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		PipelineHandler: pipelineHandler,
		ConfigsHandler:  configs.NewHandler(app.Configs),
		HealthService:   app.Health,
	})

	return app, nil
}

// Close releases background workers. Safe to call more than once.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.ProcLog != nil {
		a.ProcLog.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildDocStore(ctx context.Context, cfg config.Config) docstore.Store {
	if !cfg.DocStoreEnabled || strings.TrimSpace(cfg.FirestoreProjectID) == "" {
		telemetry.Info("document store disabled", map[string]any{
			"enabled": cfg.DocStoreEnabled,
		})
		return nil
	}
	store, err := docstore.NewFirestoreStore(ctx, cfg.FirestoreProjectID)
	if err != nil {
		telemetry.Warn("document store unavailable; relational only", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	return store
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("HR_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildGateway(cfg config.Config) *llm.Gateway {
	if !cfg.LLMEnabled || strings.TrimSpace(cfg.OpenAIToken) == "" {
		return llm.NewGateway(nil, cfg.LLMTimeout, cfg.LLMRetries, cfg.LLMBackoff)
	}
	completer := llm.NewOpenAICompleter(cfg.OpenAIToken, cfg.LLMBaseURL, cfg.LLMModel)
	return llm.NewGateway(completer, cfg.LLMTimeout, cfg.LLMRetries, cfg.LLMBackoff)
}

func buildServices(ctx context.Context, app *App) error {
	var (
		resultsRepo results.Repo
		configsRepo configs.Repo
		procRepo    proclog.Repo
	)
	if app.DB != nil {
		resultsRepo = &results.PGRepo{DB: app.DB}
		configsRepo = &configs.PGRepo{DB: app.DB}
		procRepo = proclog.NewPGRepo(app.DB)
	} else {
		resultsRepo = results.NewMemoryRepo()
		configsRepo = configs.NewMemoryRepo()
		procRepo = proclog.NewMemoryRepo()
	}

	app.ResultsRepo = resultsRepo
	app.ProcLog = proclog.NewLogger(procRepo)
	app.Persistence = persistence.NewService(
		resultsRepo,
		app.DocStore,
		app.ProcLog,
		app.Config.DocStoreTimeout,
		app.Config.BulkBatchSize,
	)

	cfgSvc, err := configs.NewService(ctx, configsRepo, defaultConfiguration(app.Config))
	if err != nil {
		return fmt.Errorf("configuration service: %w", err)
	}
	app.Configs = cfgSvc

	app.Orchestrator = pipeline.NewOrchestrator(
		app.Configs,
		app.Persistence,
		app.ProcLog,
		app.Gateway,
		app.Config.WorkerPoolSize,
	)
	app.Health = health.NewService(app.Orchestrator, app.DB, app.DocStore)

	sched, err := schedule.New(app.Persistence, app.Config.RetentionDays, app.Config.ReconcileInterval)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	app.Scheduler = sched
	app.Scheduler.Start()

	return nil
}

// defaultConfiguration seeds the tunables from the environment when the
// store holds no active configuration yet.
func defaultConfiguration(cfg config.Config) configs.Configuration {
	return configs.Configuration{
		Name:                       "default",
		IsActive:                   true,
		PositiveThreshold:          cfg.PositiveThreshold,
		NegativeThreshold:          cfg.NegativeThreshold,
		MaxTextLength:              cfg.MaxTextLength,
		EnablePreprocessing:        cfg.PreprocessingEnabled,
		EnableEntityExtraction:     cfg.EntityExtractionEnabled,
		EnableIntentClassification: cfg.IntentEnabled,
		EnableLLMEnhancement:       cfg.LLMEnabled,
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
