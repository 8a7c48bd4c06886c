package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// PredictPath is the backend route that prices an agency MBS
const PredictPath = "/predict-agency-mbs-price/"

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Prediction PredictionConfig
	Session    SessionConfig
	Redis      RedisConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	BasePath       string // public path prefix the UI is served under
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// PredictionConfig holds the prediction backend configuration
type PredictionConfig struct {
	APIBase      string
	Timeout      int // seconds, 0 waits indefinitely
	ProxyEnabled bool
}

// SessionConfig holds form session configuration
type SessionConfig struct {
	Backend      string // memory or redis
	TTL          int    // minutes
	CookieName   string
	CookieSecure bool
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			BasePath:       getEnv("BASE_PATH", "/agency-mbs-pricing-and-valuation-predictor-ui-service/"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type"),
		},
		Prediction: PredictionConfig{
			APIBase:      getEnv("API_BASE_URL", getEnv("VITE_API_BASE_URL", "http://127.0.0.1:8000")),
			Timeout:      getEnvAsInt("PREDICTION_TIMEOUT", 0),
			ProxyEnabled: getEnvAsBool("API_PROXY_ENABLED", true),
		},
		Session: SessionConfig{
			Backend:      getEnv("SESSION_BACKEND", "memory"),
			TTL:          getEnvAsInt("SESSION_TTL", 60),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "mbs_session"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	cfg.Server.BasePath = NormalizeBasePath(cfg.Server.BasePath)
	cfg.Prediction.APIBase = strings.TrimRight(cfg.Prediction.APIBase, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if len(c.Server.CORSOrigins()) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must name at least one origin")
	}
	if c.Prediction.APIBase == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	if c.Prediction.Timeout < 0 {
		return fmt.Errorf("PREDICTION_TIMEOUT must not be negative, got %d", c.Prediction.Timeout)
	}
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q (expected memory or redis)", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %d", c.Session.TTL)
	}
	return nil
}

// CORSOrigins returns the allowed origins as a list
func (c *ServerConfig) CORSOrigins() []string {
	return splitList(c.AllowedOrigins)
}

// CORSMethods returns the allowed methods as a list
func (c *ServerConfig) CORSMethods() []string {
	return splitList(c.AllowedMethods)
}

// CORSHeaders returns the allowed request headers as a list
func (c *ServerConfig) CORSHeaders() []string {
	return splitList(c.AllowedHeaders)
}

// PredictURL returns the absolute URL of the prediction endpoint
func (c *PredictionConfig) PredictURL() string {
	return c.APIBase + PredictPath
}

// RequestTimeout returns the client timeout, zero meaning none
func (c *PredictionConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SessionTTL returns how long an idle form session is kept
func (c *SessionConfig) SessionTTL() time.Duration {
	return time.Duration(c.TTL) * time.Minute
}

// NormalizeBasePath returns p with a leading slash and without a trailing one ("/" stays "/")
func NormalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p
}

// Helper functions

// splitList splits a comma separated setting, dropping empty items
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Int("default", defaultValue).Msg("Invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Bool("default", defaultValue).Msg("Invalid boolean value, using default")
		return defaultValue
	}
	return value
}
