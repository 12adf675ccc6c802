package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"autostat/internal/errors"
)

// Session store backends
const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Payment   PaymentConfig
	Session   SessionConfig
	Database  DatabaseConfig
	Analysis  AnalysisConfig
	Upload    UploadConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port                string
	GinMode             string
	FallbackFrontendURL string
	FrontendMarker      string
	CORSOriginPattern   string
	ShutdownTimeout     time.Duration
}

// PaymentConfig holds checkout provider settings
type PaymentConfig struct {
	StripeAPIKey       string
	Currency           string
	UnitAmount         int64
	ProductName        string
	PaymentMethodTypes []string
}

// Enabled reports whether a checkout provider key is configured
func (p PaymentConfig) Enabled() bool {
	return p.StripeAPIKey != ""
}

// SessionConfig controls where submissions wait between checkout and report generation
type SessionConfig struct {
	Store string
	TTL   time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// AnalysisConfig holds inferential engine settings
type AnalysisConfig struct {
	IncludeOrdinal bool
	Workers        int
}

// UploadConfig bounds accepted files
type UploadConfig struct {
	MaxBytes    int64
	PreviewRows int
}

// ProfilingConfig holds diagnostics server settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Payment:   loadPaymentConfig(),
		Session:   loadSessionConfig(),
		Database:  DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Analysis:  loadAnalysisConfig(),
		Upload:    loadUploadConfig(),
		Profiling: loadProfilingConfig(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:                getEnvOrDefault("PORT", "8080"),
		GinMode:             getEnvOrDefault("GIN_MODE", "release"),
		FallbackFrontendURL: getEnvOrDefault("FALLBACK_FRONTEND_URL", "https://analiza-danych-python.vercel.app"),
		FrontendMarker:      getEnvOrDefault("FRONTEND_ORIGIN_MARKER", "analiza-danych-python"),
		CORSOriginPattern:   getEnvOrDefault("CORS_ORIGIN_PATTERN", `^https?://(localhost:3000|analiza-danych-python.*\.vercel\.app)$`),
		ShutdownTimeout:     getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		StripeAPIKey:       os.Getenv("STRIPE_API_KEY"),
		Currency:           getEnvOrDefault("PAYMENT_CURRENCY", "pln"),
		UnitAmount:         int64(getEnvIntOrDefault("PAYMENT_AMOUNT", 800)),
		ProductName:        getEnvOrDefault("PAYMENT_PRODUCT_NAME", "Automated Statistical Data Analysis"),
		PaymentMethodTypes: getEnvListOrDefault("PAYMENT_METHOD_TYPES", []string{"blik", "p24"}),
	}
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		Store: strings.ToLower(getEnvOrDefault("SESSION_STORE", SessionStoreMemory)),
		TTL:   getEnvDurationOrDefault("SESSION_TTL", time.Hour),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		IncludeOrdinal: getEnvBoolOrDefault("ANALYSIS_INCLUDE_ORDINAL", true),
		Workers:        getEnvIntOrDefault("ANALYSIS_WORKERS", 1),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		MaxBytes:    int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 50)) * 1024 * 1024,
		PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 5),
	}
}

func loadProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	switch config.Session.Store {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required when SESSION_STORE=postgres")
		}
	default:
		return errors.ConfigInvalid("SESSION_STORE must be 'memory' or 'postgres', got " + config.Session.Store)
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Analysis.Workers < 1 {
		return errors.ConfigInvalid("ANALYSIS_WORKERS must be at least 1")
	}
	if config.Payment.UnitAmount <= 0 {
		return errors.ConfigInvalid("PAYMENT_AMOUNT must be positive")
	}
	if _, err := regexp.Compile(config.Server.CORSOriginPattern); err != nil {
		return errors.Wrap(errors.ConfigInvalid("CORS_ORIGIN_PATTERN is not a valid regular expression"), err.Error())
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
