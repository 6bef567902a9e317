package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Ai      AIConfig
	Ingest  IngestConfig
	Cleanup CleanupConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
	BodyLimitMB        int
}

type AIConfig struct {
	Provider       string // "openai" or "ollama"
	APIKey         string
	BaseURL        string // provider default applies when empty
	ChatModel      string
	EmbeddingModel string
	RequestTimeout time.Duration // embedding calls
	StreamTimeout  time.Duration // whole chat stream, generation included
}

type IngestConfig struct {
	TopicName    string
	ChunkSize    int
	ChunkOverlap int
}

type CleanupConfig struct {
	IdleThreshold time.Duration
	SweepInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 10),
		},
		Ai: AIConfig{
			Provider:       getEnv("AI_PROVIDER", "openai"),
			APIKey:         getEnv("AI_API_KEY", ""),
			BaseURL:        getEnv("AI_BASE_URL", ""),
			ChatModel:      getEnv("AI_CHAT_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("AI_EMBEDDING_MODEL", "text-embedding-3-small"),
			RequestTimeout: time.Duration(getEnvAsInt("AI_REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
			StreamTimeout:  time.Duration(getEnvAsInt("AI_STREAM_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		Ingest: IngestConfig{
			TopicName:    getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1500),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),
		},
		Cleanup: CleanupConfig{
			IdleThreshold: time.Duration(getEnvAsInt("SESSION_IDLE_MINUTES", 10)) * time.Minute,
			SweepInterval: time.Duration(getEnvAsInt("CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute,
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
