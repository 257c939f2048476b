package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	LogLevel string

	// External compliance (duty quoting) API
	ComplianceAPIBase   string
	ComplianceAPIToken  string
	ComplianceCompanyID int
	ComplianceTimeout   time.Duration

	// Free-text HS classification API
	ClassificationAPIBase  string
	ClassificationAPIToken string
	ClassificationTimeout  time.Duration

	// HTTP Basic credentials gating the calculation endpoints
	AuthUser string
	AuthPass string

	QuoteCacheTTL time.Duration

	// Global request rate limit: one token per interval, with burst
	RateLimitInterval time.Duration
	RateLimitBurst    int
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ComplianceAPIBase:   getEnv("COMPLIANCE_API_BASE", "https://ns1-quoting-sbx.xbo.avalara.com/api/v2"),
		ComplianceAPIToken:  getEnv("COMPLIANCE_API_TOKEN", ""),
		ComplianceCompanyID: getEnvAsInt("COMPLIANCE_COMPANY_ID", 0),
		ComplianceTimeout:   getEnvAsDuration("COMPLIANCE_TIMEOUT", 30*time.Second),

		ClassificationAPIBase:  getEnv("CLASSIFICATION_API_BASE", ""),
		ClassificationAPIToken: getEnv("CLASSIFICATION_API_TOKEN", ""),
		ClassificationTimeout:  getEnvAsDuration("CLASSIFICATION_TIMEOUT", 10*time.Second),

		AuthUser: getEnv("AUTH_USER", "admin"),
		AuthPass: getEnv("AUTH_PASS", "password"),

		QuoteCacheTTL: getEnvAsDuration("QUOTE_CACHE_TTL", 5*time.Minute),

		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 100*time.Millisecond),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 30),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, ComplianceAPIBase=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.ComplianceAPIBase)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
