package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Keys      APIKeys
	Ai        AIConfig
	Content   ContentConfig
	Otel      OtelConfig
}

type AppConfig struct {
	Port               string
	Version            string
	FrontendURL        string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

// AllowedOrigins is the frontend URL, plus the usual localhost ports outside
// production.
func (a AppConfig) AllowedOrigins() string {
	origins := []string{a.FrontendURL}
	if a.CorsAllowedOrigins != "" {
		origins = append(origins, strings.Split(a.CorsAllowedOrigins, ",")...)
	}
	if !a.IsProduction() {
		origins = append(origins,
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8000",
			"http://127.0.0.1:8000",
		)
	}

	seen := make(map[string]bool, len(origins))
	unique := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		unique = append(unique, o)
	}
	return strings.Join(unique, ",")
}

type DatabaseConfig struct {
	Connection string
	LogLevel   string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JWTSecret         string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	CookieSecure      bool
	BcryptCost        int
	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

type RateLimitConfig struct {
	MaxRequests     int
	Window          time.Duration
	Retention       time.Duration
	Store           string // "db", "redis" or "memory"
	CleanupInterval time.Duration
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
	HuggingFace  string
}

type AIConfig struct {
	EmbeddingProvider  string // "hashing", "ollama", "gemini" or "jina"
	EmbeddingDimension int
	EmbeddingTimeout   time.Duration
	OllamaBaseURL      string
	OllamaModel        string

	LLMProvider        string // "gemini", "ollama" or "huggingface"
	LLMModel           string
	LLMTimeout         time.Duration
	LLMMaxTokens       int
	HuggingFaceBaseURL string

	// Remote embedding throttle
	EmbedDelay          time.Duration
	EmbedInitialBackoff time.Duration
	EmbedBackoffFactor  float64
	EmbedMaxRetries     int

	ContextDocs   int
	ContextTokens int
}

type ContentConfig struct {
	Root            string
	Collection      string
	ChunkSize       int
	ChunkOverlap    int
	ModuleNamesFile string
	IngestTopic     string
}

type OtelConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	env := getEnv("ENVIRONMENT", getEnv("GO_ENV", "development"))

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Version:            getEnv("APP_VERSION", "1.0.0"),
			FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
			Environment:        env,
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			LogLevel:   getEnv("DB_LOG_LEVEL", "warn"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Physical AI Textbook"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			AccessTokenTTL:    time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute,
			RefreshTokenTTL:   time.Duration(getEnvAsInt("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,
			CookieSecure:      getEnvAsBool("COOKIE_SECURE", strings.EqualFold(env, "production")),
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
			MaxFailedAttempts: getEnvAsInt("MAX_FAILED_LOGIN_ATTEMPTS", 5),
			LockoutDuration:   time.Duration(getEnvAsInt("LOCKOUT_DURATION_MINUTES", 15)) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			MaxRequests:     getEnvAsInt("ANONYMOUS_RATE_LIMIT", 5),
			Window:          time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_HOURS", 24)) * time.Hour,
			Retention:       time.Duration(getEnvAsInt("RATE_LIMIT_RETENTION_HOURS", 48)) * time.Hour,
			Store:           getEnv("RATE_LIMIT_STORE", "db"),
			CleanupInterval: getEnvAsDuration("RATE_LIMIT_CLEANUP_INTERVAL", time.Hour),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GEMINI_API_KEY", getEnv("GOOGLE_GEMINI_API_KEY", "")),
			Jina:         getEnv("JINA_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "hashing"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 0),
			EmbeddingTimeout:   getEnvAsDuration("EMBEDDING_TIMEOUT", 30*time.Second),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),

			LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:           getEnv("LLM_MODEL", "gemini-2.0-flash"),
			LLMTimeout:         getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
			LLMMaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 1024),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", ""),

			EmbedDelay:          getEnvAsDuration("EMBED_DELAY", 2500*time.Millisecond),
			EmbedInitialBackoff: getEnvAsDuration("EMBED_INITIAL_BACKOFF", 5*time.Second),
			EmbedBackoffFactor:  getEnvAsFloat("EMBED_BACKOFF_FACTOR", 2),
			EmbedMaxRetries:     getEnvAsInt("EMBED_MAX_RETRIES", 5),

			ContextDocs:   getEnvAsInt("RAG_CONTEXT_DOCS", 4),
			ContextTokens: getEnvAsInt("RAG_CONTEXT_TOKENS", 3000),
		},
		Content: ContentConfig{
			Root:            getEnv("DOCS_DIR", "../docs"),
			Collection:      getEnv("VECTOR_COLLECTION_NAME", "physical_ai_textbook"),
			ChunkSize:       getEnvAsInt("CHUNK_SIZE", 1500),
			ChunkOverlap:    getEnvAsInt("CHUNK_OVERLAP", 200),
			ModuleNamesFile: getEnv("MODULE_NAMES_FILE", ""),
			IngestTopic:     getEnv("INGEST_TOPIC_NAME", "TEXTBOOK_INGEST"),
		},
		Otel: OtelConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "physical-ai-textbook-be"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if secs, err := strconv.ParseFloat(strValue, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}
