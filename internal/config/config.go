// README: Config loader: defaults, then an optional YAML file, then REMOVALS_* env overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"removals/internal/modules/lead"
	"removals/internal/modules/route"
)

type Config struct {
	HTTP struct {
		Addr            string        `yaml:"addr"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"http"`
	DB struct {
		DSN string `yaml:"dsn"`
	} `yaml:"db"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	Maps struct {
		APIKey         string        `yaml:"api_key"`
		Country        string        `yaml:"country"`
		MaxStops       int           `yaml:"max_stops"`
		Debounce       time.Duration `yaml:"debounce"`
		LookupTimeout  time.Duration `yaml:"lookup_timeout"`
		CacheTTL       time.Duration `yaml:"cache_ttl"`
		ReviewsPlaceID string        `yaml:"reviews_place_id"`
	} `yaml:"maps"`
	Email struct {
		ResendKey string `yaml:"resend_key"`
	} `yaml:"email"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
		Burst     int `yaml:"burst"`
	} `yaml:"rate_limit"`
	LogLevel string        `yaml:"log_level"`
	Business lead.Business `yaml:"business"`
}

func defaults() Config {
	var cfg Config
	cfg.HTTP.Addr = ":8080"
	cfg.HTTP.ShutdownTimeout = 10 * time.Second
	cfg.HTTP.CORSOrigins = []string{"*"}
	cfg.Maps.Country = "GB"
	cfg.Maps.MaxStops = route.DefaultMaxStops
	cfg.Maps.Debounce = route.DefaultDebounce
	cfg.Maps.LookupTimeout = 10 * time.Second
	cfg.Maps.CacheTTL = route.DefaultCacheTTL
	cfg.RateLimit.PerMinute = 30
	cfg.RateLimit.Burst = 10
	cfg.LogLevel = "info"
	cfg.Business = lead.DefaultBusiness()
	return cfg
}

// Load builds the configuration. Integrations whose keys are left empty are
// disabled by the caller, never treated as an error here.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("REMOVALS_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.HTTP.Addr = envOrDefault("REMOVALS_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.ShutdownTimeout = envOrDefaultDuration("REMOVALS_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout)
	cfg.HTTP.CORSOrigins = envOrDefaultList("REMOVALS_CORS_ORIGINS", cfg.HTTP.CORSOrigins)
	cfg.DB.DSN = envOrDefault("REMOVALS_DB_DSN", cfg.DB.DSN)
	cfg.Redis.Addr = envOrDefault("REMOVALS_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Maps.APIKey = envOrDefault("GOOGLE_MAPS_API_KEY", cfg.Maps.APIKey)
	cfg.Maps.Country = envOrDefault("REMOVALS_GEOCODE_COUNTRY", cfg.Maps.Country)
	cfg.Maps.MaxStops = envOrDefaultInt("REMOVALS_MAX_STOPS", cfg.Maps.MaxStops)
	cfg.Maps.Debounce = envOrDefaultDuration("REMOVALS_DEBOUNCE", cfg.Maps.Debounce)
	cfg.Maps.LookupTimeout = envOrDefaultDuration("REMOVALS_LOOKUP_TIMEOUT", cfg.Maps.LookupTimeout)
	cfg.Maps.CacheTTL = envOrDefaultDuration("REMOVALS_GEOCODE_CACHE_TTL", cfg.Maps.CacheTTL)
	cfg.Maps.ReviewsPlaceID = envOrDefault("GOOGLE_PLACE_ID", cfg.Maps.ReviewsPlaceID)
	cfg.Email.ResendKey = envOrDefault("RESEND_API_KEY", cfg.Email.ResendKey)
	cfg.RateLimit.PerMinute = envOrDefaultInt("REMOVALS_RATE_PER_MINUTE", cfg.RateLimit.PerMinute)
	cfg.RateLimit.Burst = envOrDefaultInt("REMOVALS_RATE_BURST", cfg.RateLimit.Burst)
	cfg.LogLevel = envOrDefault("REMOVALS_LOG_LEVEL", cfg.LogLevel)
	cfg.Business.FromAddress = envOrDefault("REMOVALS_FROM_ADDRESS", cfg.Business.FromAddress)
	cfg.Business.Inbox = envOrDefault("REMOVALS_INBOX", cfg.Business.Inbox)

	if cfg.Maps.MaxStops <= 0 {
		return Config{}, fmt.Errorf("max stops must be positive, got %d", cfg.Maps.MaxStops)
	}
	if cfg.RateLimit.PerMinute <= 0 || cfg.RateLimit.Burst <= 0 {
		return Config{}, fmt.Errorf("rate limit must be positive, got %d/min burst %d", cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
