package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DatabaseURL      string
	ServerPort       string
	BaseURL          string
	FrontendURL      string
	OpenAIKey        string
	AIModel          string
	AIBaseURL        string
	JWTSecret        string
	EnableHSTS       bool
	RedisURL         string
	RateLimit        string
	RabbitMQURL      string
	RabbitMQPrefetch int
	GenerationJobTTL time.Duration
	WorkerDebugMode  bool
	ServerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string
}

// fileConfig is the optional YAML configuration file shape. File values act
// as defaults; environment variables always win.
type fileConfig struct {
	DatabaseURL      string `yaml:"database_url"`
	ServerPort       string `yaml:"server_port"`
	BaseURL          string `yaml:"base_url"`
	FrontendURL      string `yaml:"frontend_url"`
	OpenAIKey        string `yaml:"openai_api_key"`
	AIModel          string `yaml:"ai_model"`
	AIBaseURL        string `yaml:"ai_base_url"`
	JWTSecret        string `yaml:"jwt_secret"`
	RedisURL         string `yaml:"redis_url"`
	RateLimit        string `yaml:"rate_limit"`
	RabbitMQURL      string `yaml:"rabbitmq_url"`
	RabbitMQPrefetch int    `yaml:"rabbitmq_prefetch"`
	GenerationJobTTL string `yaml:"generation_job_ttl"`
	OTELEndpoint     string `yaml:"otel_endpoint"`
}

// Load loads configuration from the optional CONFIG_FILE YAML file and the
// environment. Environment variables override file values.
func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", file.DatabaseURL),
		ServerPort:       getEnv("SERVER_PORT", firstNonEmpty(file.ServerPort, "8080")),
		BaseURL:          getEnv("BASE_URL", firstNonEmpty(file.BaseURL, "http://localhost:8080")),
		FrontendURL:      getEnv("FRONTEND_URL", firstNonEmpty(file.FrontendURL, "http://localhost:3000")),
		OpenAIKey:        getEnv("OPENAI_API_KEY", file.OpenAIKey),
		AIModel:          getEnv("AI_MODEL", file.AIModel),
		AIBaseURL:        getEnv("AI_BASE_URL", file.AIBaseURL),
		JWTSecret:        getEnv("JWT_SECRET", file.JWTSecret),
		EnableHSTS:       getEnvBool("ENABLE_HSTS", false),
		RedisURL:         getEnv("REDIS_URL", firstNonEmpty(file.RedisURL, "redis://localhost:6379/0")),
		RateLimit:        getEnv("RATE_LIMIT", firstNonEmpty(file.RateLimit, "100-M")),
		RabbitMQURL:      getEnv("RABBITMQ_URL", file.RabbitMQURL),
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", firstPositive(file.RabbitMQPrefetch, 1)),
		GenerationJobTTL: getEnvDuration("GENERATION_JOB_TTL", firstDuration(file.GenerationJobTTL, time.Hour)),
		WorkerDebugMode:  getEnvBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:  getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", file.OTELEndpoint),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for job queueing (async generation requires RabbitMQ)")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// firstDuration parses the file value, falling back when absent or invalid
func firstDuration(fileValue string, defaultValue time.Duration) time.Duration {
	if fileValue != "" {
		if d, err := time.ParseDuration(fileValue); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
