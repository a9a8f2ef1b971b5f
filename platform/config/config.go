// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
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
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// RedisConfig provides the shared Redis connection settings.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// CacheConfig provides settings for the lead snapshot cache.
type CacheConfig interface {
	RedisConfig
	GetLeadsCacheTTL() time.Duration
	IsCacheEnabled() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetAgentStatsDigestSpec() string
}

// StatsConfig provides the agent statistics policy.
type StatsConfig interface {
	GetAgentStatsWindow() time.Duration
	GetAgentStatsClosedProbability() float64
}

// EmailConfig provides settings for the sender registry.
type EmailConfig interface {
	GetEmailDomain() string
	GetEmailFromName() string
	GetEmailSendersFile() string
}

// PhoneConfig provides the default region for phone formatting.
type PhoneConfig interface {
	GetDefaultPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                         string
	HTTPAddr                    string
	DatabaseURL                 string
	CORSAllowAll                bool
	CORSOrigins                 []string
	CORSAllowCreds              bool
	RateLimitRPS                float64
	RateLimitBurst              int
	RedisURL                    string
	RedisTLSInsecure            bool
	AsynqQueueName              string
	AsynqConcurrency            int
	LeadsCacheTTL               time.Duration
	AgentStatsWindow            time.Duration
	AgentStatsClosedProbability float64
	AgentStatsDigestSpec        string
	EmailDomain                 string
	EmailFromName               string
	EmailSendersFile            string
	DefaultPhoneRegion          string
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
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// CacheConfig implementation
func (c *Config) GetLeadsCacheTTL() time.Duration { return c.LeadsCacheTTL }
func (c *Config) IsCacheEnabled() bool            { return c.RedisURL != "" && c.LeadsCacheTTL > 0 }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string       { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int        { return c.AsynqConcurrency }
func (c *Config) GetAgentStatsDigestSpec() string { return c.AgentStatsDigestSpec }

// StatsConfig implementation
func (c *Config) GetAgentStatsWindow() time.Duration { return c.AgentStatsWindow }
func (c *Config) GetAgentStatsClosedProbability() float64 {
	return c.AgentStatsClosedProbability
}

// EmailConfig implementation
func (c *Config) GetEmailDomain() string      { return c.EmailDomain }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailSendersFile() string { return c.EmailSendersFile }

// PhoneConfig implementation
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }

// maxAgentStatsWindowDays keeps the window well inside time.Duration's range.
const maxAgentStatsWindowDays = 36500

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                         getEnv("APP_ENV", "development"),
		HTTPAddr:                    getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                 getEnv("DATABASE_URL", ""),
		CORSAllowAll:                corsAllowAll,
		CORSOrigins:                 corsOrigins,
		CORSAllowCreds:              strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:                mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst:              mustInt(getEnv("RATE_LIMIT_BURST", "20")),
		RedisURL:                    getEnv("REDIS_URL", ""),
		RedisTLSInsecure:            strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:              getEnv("ASYNQ_QUEUE_NAME", "default"),
		AsynqConcurrency:            mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		LeadsCacheTTL:               mustDuration(getEnv("LEADS_CACHE_TTL", "30s")),
		AgentStatsClosedProbability: mustFloat(getEnv("AGENT_STATS_CLOSED_PROBABILITY", "0.3")),
		AgentStatsDigestSpec:        getEnv("AGENT_STATS_DIGEST_SPEC", "@every 15m"),
		EmailDomain:                 getEnv("EMAIL_DOMAIN", "trecrm.com"),
		EmailFromName:               getEnv("EMAIL_FROM_NAME", "TRE CRM"),
		EmailSendersFile:            getEnv("EMAIL_SENDERS_FILE", ""),
		DefaultPhoneRegion:          strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "US")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	windowDays := mustInt(getEnv("AGENT_STATS_WINDOW_DAYS", "90"))
	if windowDays <= 0 || windowDays > maxAgentStatsWindowDays {
		return nil, fmt.Errorf("AGENT_STATS_WINDOW_DAYS must be an integer between 1 and %d", maxAgentStatsWindowDays)
	}
	cfg.AgentStatsWindow = time.Duration(windowDays) * 24 * time.Hour

	if cfg.LeadsCacheTTL < 0 {
		return nil, fmt.Errorf("LEADS_CACHE_TTL must be a non-negative duration such as 30s")
	}
	if p := cfg.AgentStatsClosedProbability; !(p >= 0 && p <= 1) {
		return nil, fmt.Errorf("AGENT_STATS_CLOSED_PROBABILITY must be between 0 and 1")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// mustDuration returns -1 for malformed input so Load can reject it.
func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return -1
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
