package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DatabaseURL string

	DocStoreEnabled    bool
	FirestoreProjectID string
	DocStoreTimeout    time.Duration

	LLMEnabled  bool
	LLMBaseURL  string
	LLMModel    string
	LLMTimeout  time.Duration
	LLMRetries  int
	LLMBackoff  time.Duration
	OpenAIToken string

	PositiveThreshold float64
	NegativeThreshold float64
	MaxTextLength     int
	MaxBatchItems     int
	BulkBatchSize     int
	WorkerPoolSize    int
	RetentionDays     int

	PreprocessingEnabled    bool
	EntityExtractionEnabled bool
	IntentEnabled           bool

	ReconcileInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		DocStoreEnabled:    getEnvBool("DOCSTORE_ENABLED", true),
		FirestoreProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
		DocStoreTimeout:    getEnvDuration("DOCSTORE_TIMEOUT", 5*time.Second),

		LLMEnabled:  getEnvBool("LLM_ENABLED", true),
		LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
		LLMModel:    getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:  getEnvDuration("LLM_TIMEOUT", 20*time.Second),
		LLMRetries:  getEnvInt("LLM_RETRIES", 2),
		LLMBackoff:  getEnvDuration("LLM_BACKOFF", 2*time.Second),
		OpenAIToken: os.Getenv("OPENAI_API_KEY"),

		PositiveThreshold: getEnvFloat("SENTIMENT_POSITIVE_THRESHOLD", 0.1),
		NegativeThreshold: getEnvFloat("SENTIMENT_NEGATIVE_THRESHOLD", -0.1),
		MaxTextLength:     getEnvInt("MAX_TEXT_LENGTH", 10000),
		MaxBatchItems:     getEnvInt("MAX_BATCH_ITEMS", 50),
		BulkBatchSize:     getEnvInt("BULK_BATCH_SIZE", 100),
		WorkerPoolSize:    getEnvInt("WORKER_POOL_SIZE", 4),
		RetentionDays:     getEnvInt("RETENTION_DAYS", 90),

		PreprocessingEnabled:    getEnvBool("PREPROCESSING_ENABLED", true),
		EntityExtractionEnabled: getEnvBool("ENTITY_EXTRACTION_ENABLED", true),
		IntentEnabled:           getEnvBool("INTENT_CLASSIFICATION_ENABLED", true),

		ReconcileInterval: getEnvDuration("RECONCILE_INTERVAL", 5*time.Minute),
	}
}

// Validate rejects configurations that must never reach serving traffic.
func (c Config) Validate() error {
	if c.PositiveThreshold < -1 || c.PositiveThreshold > 1 {
		return fmt.Errorf("SENTIMENT_POSITIVE_THRESHOLD out of range [-1,1]: %v", c.PositiveThreshold)
	}
	if c.NegativeThreshold < -1 || c.NegativeThreshold > 1 {
		return fmt.Errorf("SENTIMENT_NEGATIVE_THRESHOLD out of range [-1,1]: %v", c.NegativeThreshold)
	}
	if c.NegativeThreshold > c.PositiveThreshold {
		return fmt.Errorf("SENTIMENT_NEGATIVE_THRESHOLD %v exceeds SENTIMENT_POSITIVE_THRESHOLD %v", c.NegativeThreshold, c.PositiveThreshold)
	}
	if c.MaxTextLength <= 0 {
		return fmt.Errorf("MAX_TEXT_LENGTH must be positive: %d", c.MaxTextLength)
	}
	if c.MaxBatchItems <= 0 {
		return fmt.Errorf("MAX_BATCH_ITEMS must be positive: %d", c.MaxBatchItems)
	}
	if c.BulkBatchSize <= 0 {
		return fmt.Errorf("BULK_BATCH_SIZE must be positive: %d", c.BulkBatchSize)
	}
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("WORKER_POOL_SIZE must be positive: %d", c.WorkerPoolSize)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("RETENTION_DAYS must not be negative: %d", c.RetentionDays)
	}
	if c.LLMEnabled && c.LLMRetries < 0 {
		return fmt.Errorf("LLM_RETRIES must not be negative: %d", c.LLMRetries)
	}
	if c.Env == "production" && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
