package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Validation rules
	RulesPath string

	// Remote validator (optional second opinion)
	RemoteValidatorURL     string
	RemoteValidatorAPIKey  string
	RemoteValidatorTimeout time.Duration

	// History
	HistoryPageSize int

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:            getEnv("DATABASE_URL", "sqlite://feedcheck.db"),
		KafkaBrokers:           getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:                getEnv("API_PORT", "8080"),
		APIHost:                getEnv("API_HOST", "0.0.0.0"),
		RulesPath:              getEnv("RULES_PATH", ""),
		RemoteValidatorURL:     getEnv("REMOTE_VALIDATOR_URL", ""),
		RemoteValidatorAPIKey:  getEnv("REMOTE_VALIDATOR_API_KEY", ""),
		RemoteValidatorTimeout: time.Duration(getEnvAsInt("REMOTE_VALIDATOR_TIMEOUT_SECONDS", 10)) * time.Second,
		HistoryPageSize:        getEnvAsInt("HISTORY_PAGE_SIZE", 20),
		Env:                    getEnv("ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
