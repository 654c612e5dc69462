package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // rates are published in Europe/Warsaw whatever the host has installed

	"github.com/SscSPs/account_exchange/internal/adapters/nbp"
	"github.com/SscSPs/account_exchange/internal/core/domain"
	"github.com/SscSPs/account_exchange/internal/ratesource"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backends selectable with RATE_CACHE_BACKEND.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string

	// BaseCurrency is the currency the rate provider quotes its rates in.
	BaseCurrency domain.Currency

	// Upstream rate provider
	NBPBaseURL string
	NBPTimeout time.Duration

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration

	BreakerWindowSize       int
	BreakerMinCalls         int
	BreakerFailureThreshold float64
	BreakerCooldown         time.Duration

	// Rate cache
	RateCacheBackend     string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RateCacheKey         string
	RateEvictionSchedule string
	RateTimezone         string

	RateLimit          string
	CORSAllowedOrigins []string

	// HousekeepingAPIEnabled exposes the manual cache eviction route.
	HousekeepingAPIEnabled bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("BASE_CURRENCY", string(nbp.QuoteCurrency))
	v.SetDefault("NBP_API_URL", nbp.DefaultBaseURL)
	v.SetDefault("NBP_HTTP_TIMEOUT", "5s")
	v.SetDefault("RATE_RETRY_MAX_ATTEMPTS", 3)
	v.SetDefault("RATE_RETRY_INITIAL_BACKOFF", "200ms")
	v.SetDefault("RATE_RETRY_MAX_BACKOFF", "2s")
	v.SetDefault("BREAKER_WINDOW_SIZE", 10)
	v.SetDefault("BREAKER_MIN_CALLS", 5)
	v.SetDefault("BREAKER_FAILURE_THRESHOLD", 0.5)
	v.SetDefault("BREAKER_COOLDOWN", "30s")
	v.SetDefault("RATE_CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_CACHE_KEY", "exchange-rates")
	v.SetDefault("RATE_EVICTION_SCHEDULE", "@midnight")
	v.SetDefault("RATE_TIMEZONE", "Europe/Warsaw")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("HOUSEKEEPING_API_ENABLED", false)

	// Environment variables override the defaults
	v.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Serving in-memory demo accounts.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	base, err := domain.ParseCurrency(v.GetString("BASE_CURRENCY"))
	if err != nil {
		return nil, fmt.Errorf("invalid BASE_CURRENCY: %w", err)
	}
	if base != nbp.QuoteCurrency {
		return nil, fmt.Errorf("invalid BASE_CURRENCY '%s': rates are quoted in %s", base, nbp.QuoteCurrency)
	}
	cfg.BaseCurrency = base

	cfg.RateCacheBackend = strings.ToLower(strings.TrimSpace(v.GetString("RATE_CACHE_BACKEND")))
	if cfg.RateCacheBackend != CacheBackendMemory && cfg.RateCacheBackend != CacheBackendRedis {
		return nil, fmt.Errorf("invalid RATE_CACHE_BACKEND '%s': must be %s or %s", cfg.RateCacheBackend, CacheBackendMemory, CacheBackendRedis)
	}

	cfg.RateTimezone = v.GetString("RATE_TIMEZONE")
	if _, err := time.LoadLocation(cfg.RateTimezone); err != nil {
		return nil, fmt.Errorf("invalid RATE_TIMEZONE '%s': %w", cfg.RateTimezone, err)
	}

	cfg.BreakerFailureThreshold = v.GetFloat64("BREAKER_FAILURE_THRESHOLD")
	if cfg.BreakerFailureThreshold <= 0 || cfg.BreakerFailureThreshold > 1 {
		log.Printf("Warning: Invalid value for BREAKER_FAILURE_THRESHOLD (%v). Defaulting to 0.5.\n", cfg.BreakerFailureThreshold)
		cfg.BreakerFailureThreshold = 0.5
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = v.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")
	cfg.NBPBaseURL = v.GetString("NBP_API_URL")
	cfg.NBPTimeout = durationOrDefault(v, "NBP_HTTP_TIMEOUT", 5*time.Second)
	cfg.RetryMaxAttempts = v.GetInt("RATE_RETRY_MAX_ATTEMPTS")
	cfg.RetryInitialBackoff = durationOrDefault(v, "RATE_RETRY_INITIAL_BACKOFF", 200*time.Millisecond)
	cfg.RetryMaxBackoff = durationOrDefault(v, "RATE_RETRY_MAX_BACKOFF", 2*time.Second)
	cfg.BreakerWindowSize = v.GetInt("BREAKER_WINDOW_SIZE")
	cfg.BreakerMinCalls = v.GetInt("BREAKER_MIN_CALLS")
	cfg.BreakerCooldown = durationOrDefault(v, "BREAKER_COOLDOWN", 30*time.Second)
	cfg.RedisAddr = v.GetString("REDIS_ADDR")
	cfg.RedisPassword = v.GetString("REDIS_PASSWORD")
	cfg.RedisDB = v.GetInt("REDIS_DB")
	cfg.RateCacheKey = v.GetString("RATE_CACHE_KEY")
	cfg.RateEvictionSchedule = v.GetString("RATE_EVICTION_SCHEDULE")
	cfg.RateLimit = v.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.HousekeepingAPIEnabled = v.GetBool("HOUSEKEEPING_API_ENABLED")

	return cfg, nil
}

// RetryPolicy returns the retry settings of the rate pipeline.
func (c *Config) RetryPolicy() ratesource.RetryPolicy {
	return ratesource.RetryPolicy{
		MaxAttempts:    c.RetryMaxAttempts,
		InitialBackoff: c.RetryInitialBackoff,
		MaxBackoff:     c.RetryMaxBackoff,
	}
}

// BreakerSettings returns the circuit breaker settings of the rate pipeline.
func (c *Config) BreakerSettings() ratesource.BreakerSettings {
	return ratesource.BreakerSettings{
		WindowSize:           c.BreakerWindowSize,
		MinimumCalls:         c.BreakerMinCalls,
		FailureRateThreshold: c.BreakerFailureThreshold,
		Cooldown:             c.BreakerCooldown,
	}
}

// Location returns the time zone rates are published in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.RateTimezone)
	if err != nil {
		// validated by LoadConfig
		return time.UTC
	}
	return loc
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
