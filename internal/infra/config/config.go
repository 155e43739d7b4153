package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Itinerary ItineraryConfig `yaml:"itinerary"`
	Planner   PlannerConfig   `yaml:"planner"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for read requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	Secret          string         `yaml:"secret"`
	TokenTTL        time.Duration  `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration  `yaml:"refreshTokenTtl"`
	Postgres        PostgresConfig `yaml:"postgres"`
}

// ItineraryConfig controls the persistence service.
type ItineraryConfig struct {
	DefaultDescription string         `yaml:"defaultDescription"`
	PopularLimit       int            `yaml:"popularLimit"`
	Timezone           string         `yaml:"timezone"`
	Postgres           PostgresConfig `yaml:"postgres"`
	Valkey             ValkeyConfig   `yaml:"valkey"`
	Share              ShareConfig    `yaml:"share"`
}

// PlannerConfig controls server-held planning sessions.
type PlannerConfig struct {
	BackendURL     string        `yaml:"backendUrl"`
	BackendTimeout time.Duration `yaml:"backendTimeout"`
	SessionTTL     time.Duration `yaml:"sessionTtl"`
	CandidateLimit int           `yaml:"candidateLimit"`
	Timezone       string        `yaml:"timezone"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig points at the view counter store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// ShareConfig configures the S3 compatible bucket for shared calendars.
type ShareConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	setBool("HTTP_RETRY_ENABLED", &cfg.HTTP.Retry.Enabled)
	setInt("HTTP_RETRY_MAX_ATTEMPTS", &cfg.HTTP.Retry.MaxAttempts)
	setDuration("HTTP_RETRY_BASE_BACKOFF", &cfg.HTTP.Retry.BaseBackoff)
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}

	setString("AUTH_SECRET", &cfg.Auth.Secret)
	setDuration("AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL)
	setDuration("AUTH_REFRESH_TOKEN_TTL", &cfg.Auth.RefreshTokenTTL)
	setString("AUTH_POSTGRES_DSN", &cfg.Auth.Postgres.DSN)

	setString("ITINERARY_DEFAULT_DESCRIPTION", &cfg.Itinerary.DefaultDescription)
	setInt("ITINERARY_POPULAR_LIMIT", &cfg.Itinerary.PopularLimit)
	setString("ITINERARY_TIMEZONE", &cfg.Itinerary.Timezone)
	setString("ITINERARY_POSTGRES_DSN", &cfg.Itinerary.Postgres.DSN)
	setInt32("ITINERARY_POSTGRES_MAX_CONNS", &cfg.Itinerary.Postgres.MaxConns)
	setInt32("ITINERARY_POSTGRES_MIN_CONNS", &cfg.Itinerary.Postgres.MinConns)
	setBool("ITINERARY_VALKEY_ENABLED", &cfg.Itinerary.Valkey.Enabled)
	setString("ITINERARY_VALKEY_ADDR", &cfg.Itinerary.Valkey.Addr)
	setBool("ITINERARY_SHARE_ENABLED", &cfg.Itinerary.Share.Enabled)
	setString("ITINERARY_SHARE_ENDPOINT", &cfg.Itinerary.Share.Endpoint)
	setString("ITINERARY_SHARE_ACCESS_KEY", &cfg.Itinerary.Share.AccessKey)
	setString("ITINERARY_SHARE_SECRET_KEY", &cfg.Itinerary.Share.SecretKey)
	setString("ITINERARY_SHARE_BUCKET", &cfg.Itinerary.Share.Bucket)
	setString("ITINERARY_SHARE_REGION", &cfg.Itinerary.Share.Region)

	setString("PLANNER_BACKEND_URL", &cfg.Planner.BackendURL)
	setDuration("PLANNER_BACKEND_TIMEOUT", &cfg.Planner.BackendTimeout)
	setDuration("PLANNER_SESSION_TTL", &cfg.Planner.SessionTTL)
	setInt("PLANNER_CANDIDATE_LIMIT", &cfg.Planner.CandidateLimit)
	setString("PLANNER_TIMEZONE", &cfg.Planner.Timezone)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt32(key string, dst *int32) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(parsed)
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/itineraries/:id/calendar.ics",
				},
			},
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
			},
		},
		Auth: AuthConfig{
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			Postgres:        PostgresConfig{MaxConns: 4},
		},
		Itinerary: ItineraryConfig{
			DefaultDescription: "No description",
			PopularLimit:       10,
			Timezone:           "UTC",
			Postgres:           PostgresConfig{MaxConns: 4},
			Valkey:             ValkeyConfig{Prefix: "itinerary"},
			Share: ShareConfig{
				Bucket: "itinerary-shares",
				Region: "auto",
				Prefix: "shares",
			},
		},
		Planner: PlannerConfig{
			BackendTimeout: 10 * time.Second,
			SessionTTL:     2 * time.Hour,
			CandidateLimit: 30,
			Timezone:       "UTC",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	if c.Auth.RefreshTokenTTL < c.Auth.TokenTTL {
		return errors.New("auth.refreshTokenTtl cannot be shorter than auth.tokenTtl")
	}
	if c.Itinerary.PopularLimit <= 0 {
		return errors.New("itinerary.popularLimit must be positive")
	}
	if _, err := time.LoadLocation(c.Itinerary.Timezone); err != nil {
		return fmt.Errorf("itinerary.timezone: %w", err)
	}
	if c.Itinerary.Valkey.Enabled && strings.TrimSpace(c.Itinerary.Valkey.Addr) == "" {
		return errors.New("itinerary.valkey.addr cannot be empty when valkey is enabled")
	}
	if share := c.Itinerary.Share; share.Enabled {
		if strings.TrimSpace(share.Endpoint) == "" || strings.TrimSpace(share.Bucket) == "" {
			return errors.New("itinerary.share endpoint and bucket are required when sharing is enabled")
		}
		if share.AccessKey == "" || share.SecretKey == "" {
			return errors.New("itinerary.share credentials are required when sharing is enabled")
		}
	}
	if c.Planner.SessionTTL < 0 {
		return errors.New("planner.sessionTtl cannot be negative")
	}
	if c.Planner.CandidateLimit <= 0 {
		return errors.New("planner.candidateLimit must be positive")
	}
	if _, err := time.LoadLocation(c.Planner.Timezone); err != nil {
		return fmt.Errorf("planner.timezone: %w", err)
	}
	return nil
}
