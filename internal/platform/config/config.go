// Package config assembles server configuration from defaults, an optional YAML
// file named by MOODLOG_CONFIG, and environment variables. Environment wins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	// Timezone decides which calendar day "today" is for entry dating and adherence.
	Timezone string `yaml:"timezone"`

	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Invitation InvitationConfig `yaml:"invitation"`
	Adherence  AdherenceConfig  `yaml:"adherence"`
}

type AuthConfig struct {
	JWTSigningKey string `yaml:"jwt_signing_key"`
	JWTIssuer     string `yaml:"jwt_issuer"`
	JWTAudience   string `yaml:"jwt_audience"`
}

// DatabaseConfig selects Postgres persistence when URL is set; otherwise stores are in-memory.
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// KafkaConfig enables the Kafka notification sink when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type InvitationConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type AdherenceConfig struct {
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	WindowDays int           `yaml:"window_days"`
}

// Default returns the development configuration.
func Default() Server {
	return Server{
		Addr:           ":8080",
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		Timezone:       "UTC",
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: "dev-secret-key-change-in-production",
			JWTIssuer:     "moodlog-identity",
			JWTAudience:   "moodlog",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: "moodlog.notifications",
		},
		Invitation: InvitationConfig{TTL: 7 * 24 * time.Hour},
		Adherence: AdherenceConfig{
			CacheTTL:   10 * time.Minute,
			WindowDays: 30,
		},
	}
}

// FromEnv builds a Server config so main stays lean.
func FromEnv() (Server, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Server, error) {
	cfg := Default()

	if path := getenv("MOODLOG_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Server{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Server{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	env := envReader{getenv: getenv}
	env.str("MOODLOG_ADDR", &cfg.Addr)
	env.duration("MOODLOG_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	env.str("MOODLOG_LOG_LEVEL", &cfg.LogLevel)
	env.str("MOODLOG_TIMEZONE", &cfg.Timezone)
	env.str("JWT_SIGNING_KEY", &cfg.Auth.JWTSigningKey)
	env.str("JWT_ISSUER", &cfg.Auth.JWTIssuer)
	env.str("JWT_AUDIENCE", &cfg.Auth.JWTAudience)
	env.str("MOODLOG_DATABASE_URL", &cfg.Database.URL)
	env.integer("MOODLOG_DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)
	env.str("REDIS_URL", &cfg.Redis.URL)
	env.integer("REDIS_POOL_SIZE", &cfg.Redis.PoolSize)
	env.list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	env.str("KAFKA_NOTIFICATIONS_TOPIC", &cfg.Kafka.Topic)
	env.duration("MOODLOG_INVITATION_TTL", &cfg.Invitation.TTL)
	env.duration("MOODLOG_ADHERENCE_CACHE_TTL", &cfg.Adherence.CacheTTL)
	env.integer("MOODLOG_CONSISTENCY_WINDOW_DAYS", &cfg.Adherence.WindowDays)
	if env.err != nil {
		return Server{}, env.err
	}

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Server) Validate() error {
	if c.Invitation.TTL <= 0 {
		return fmt.Errorf("invitation ttl must be positive, got %s", c.Invitation.TTL)
	}
	if c.Adherence.WindowDays < 1 {
		return fmt.Errorf("consistency window must be at least one day, got %d", c.Adherence.WindowDays)
	}
	if c.Auth.JWTSigningKey == "" {
		return fmt.Errorf("jwt signing key is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves Timezone; Validate guarantees it loads.
func (c Server) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) str(key string, dst *string) {
	if v := e.getenv(key); v != "" {
		*dst = v
	}
}

func (e *envReader) list(key string, dst *[]string) {
	v := e.getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (e *envReader) integer(key string, dst *int) {
	v := e.getenv(key)
	if v == "" || e.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = n
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v := e.getenv(key)
	if v == "" || e.err != nil {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = d
}
