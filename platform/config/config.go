// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// APIKeyConfig provides the shared API key guarding mutating routes.
type APIKeyConfig interface {
	GetAPIKey() string
}

// SchedulerConfig provides settings for the asynq queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// WhatsAppConfig provides settings for the chat-session transport.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetDefaultSessionID() string
}

// MondayConfig provides settings for the external task board.
type MondayConfig interface {
	GetMondayAPIURL() string
	GetMondayAPIToken() string
	GetTaskTitlePrefix() string
}

// RelayConfig provides settings for the raw-event webhook relay.
type RelayConfig interface {
	GetRelayForwardURL() string
	GetRelayTimeout() time.Duration
}

// QRConfig provides settings for the QR lifecycle cache.
type QRConfig interface {
	GetQRValidity() time.Duration
	GetQRGrace() time.Duration
	GetQRImageSize() int
}

// FunnelConfig provides settings for the funnel state machine.
type FunnelConfig interface {
	GetFormMinLength() int
}

// CleanupConfig provides settings for the stale-contact housekeeping job.
type CleanupConfig interface {
	GetContactRetention() time.Duration
	GetCleanupInterval() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int
	APIKey           string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	WhatsAppURL      string
	WhatsAppKey      string
	DefaultSessionID string
	MondayAPIURL     string
	MondayAPIToken   string
	TaskTitlePrefix  string
	RelayForwardURL  string
	RelayTimeout     time.Duration
	QRValidity       time.Duration
	QRGrace          time.Duration
	QRImageSize      int
	FormMinLength    int
	ContactRetention time.Duration
	CleanupInterval  time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// APIKeyConfig implementation
func (c *Config) GetAPIKey() string { return c.APIKey }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetDefaultSessionID() string { return c.DefaultSessionID }

// MondayConfig implementation
func (c *Config) GetMondayAPIURL() string   { return c.MondayAPIURL }
func (c *Config) GetMondayAPIToken() string { return c.MondayAPIToken }
func (c *Config) GetTaskTitlePrefix() string {
	return c.TaskTitlePrefix
}

// RelayConfig implementation
func (c *Config) GetRelayForwardURL() string      { return c.RelayForwardURL }
func (c *Config) GetRelayTimeout() time.Duration  { return c.RelayTimeout }

// QRConfig implementation
func (c *Config) GetQRValidity() time.Duration { return c.QRValidity }
func (c *Config) GetQRGrace() time.Duration    { return c.QRGrace }
func (c *Config) GetQRImageSize() int          { return c.QRImageSize }

// FunnelConfig implementation
func (c *Config) GetFormMinLength() int { return c.FormMinLength }

// CleanupConfig implementation
func (c *Config) GetContactRetention() time.Duration { return c.ContactRetention }
func (c *Config) GetCleanupInterval() time.Duration  { return c.CleanupInterval }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "funnel"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		APIKey:           getEnv("API_KEY", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		WhatsAppURL:      getEnv("WHATSAPP_URL", ""),
		WhatsAppKey:      getEnv("WHATSAPP_API_KEY", ""),
		DefaultSessionID: getEnv("WHATSAPP_SESSION_ID", "default"),
		MondayAPIURL:     getEnv("MONDAY_API_URL", "https://api.monday.com/v2"),
		MondayAPIToken:   getEnv("MONDAY_API_TOKEN", ""),
		TaskTitlePrefix:  getEnv("TASK_TITLE_PREFIX", "GEOV0000"),
		RelayForwardURL:  getEnv("RELAY_FORWARD_URL", ""),
		RelayTimeout:     mustDuration(getEnv("RELAY_TIMEOUT", "5s")),
		QRValidity:       mustDuration(getEnv("QR_VALIDITY", "2m")),
		QRGrace:          mustDuration(getEnv("QR_GRACE", "3s")),
		QRImageSize:      mustInt(getEnv("QR_IMAGE_SIZE", "256")),
		FormMinLength:    mustInt(getEnv("FORM_MIN_LENGTH", "60")),
		ContactRetention: mustDuration(getEnv("CONTACT_RETENTION", "24h")),
		CleanupInterval:  mustDuration(getEnv("CLEANUP_INTERVAL", "1h")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
