package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	JwtSecret          string
}

type AIConfig struct {
	GenerativeBaseURL string
	VisionBaseURL     string
	GenerateTimeout   time.Duration
	VisionTimeout     time.Duration
	ProbeTimeout      time.Duration
	HealthInterval    time.Duration
}

type RetrievalConfig struct {
	BaseURL       string
	Timeout       time.Duration
	IngestTimeout time.Duration
	TopK          int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			GenerativeBaseURL: getEnv("GENAI_BASE_URL", "http://localhost:8000"),
			VisionBaseURL:     getEnv("VISION_BASE_URL", "http://localhost:8001"),
			GenerateTimeout:   getEnvAsDuration("GENAI_TIMEOUT", 60*time.Second),
			VisionTimeout:     getEnvAsDuration("VISION_TIMEOUT", 45*time.Second),
			ProbeTimeout:      getEnvAsDuration("GENAI_PROBE_TIMEOUT", 3*time.Second),
			HealthInterval:    getEnvAsDuration("GENAI_HEALTH_INTERVAL", 30*time.Second),
		},
		Retrieval: RetrievalConfig{
			BaseURL:       getEnv("RETRIEVAL_BASE_URL", "http://localhost:8002"),
			Timeout:       getEnvAsDuration("RETRIEVAL_TIMEOUT", 10*time.Second),
			IngestTimeout: getEnvAsDuration("RETRIEVAL_INGEST_TIMEOUT", 90*time.Second),
			TopK:          getEnvAsInt("RETRIEVAL_TOP_K", 4),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
