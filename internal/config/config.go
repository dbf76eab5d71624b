// Package config loads server settings from flags, environment variables
// and an optional .env file. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Store backends for product lists.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds all server configuration.
type Config struct {
	ServiceName string
	Env         string
	LogLevel    string
	HTTPAddr    string

	Store         string
	PostgresDSN   string
	ClickhouseDSN string // optional; enables channel and dashboard reads
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	JWTSigningKey string

	DefaultChannel  string
	HistoryCapacity int
	EffectCapacity  int
	SaveTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads .env (if present) and parses args with environment defaults.
func Load(args []string) (*Config, error) {
	// .env is optional; existing variables are not overridden.
	_ = godotenv.Load()
	return Parse(args)
}

// Parse builds a Config from args with environment defaults, without
// reading .env.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("fnsretail", flag.ContinueOnError)

	cfg := &Config{ServiceName: "fnsretail"}
	fs.StringVar(&cfg.Env, "env", getEnv("APP_ENV", "development"), "Environment (development, production)")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", getEnv("HTTP_ADDR", ":8080"), "HTTP listen address")

	fs.StringVar(&cfg.Store, "store", getEnv("PRODUCT_STORE", StoreMemory), "Product list store (memory, postgres, redis)")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", getEnv("POSTGRES_DSN", ""), "PostgreSQL connection string")
	fs.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", getEnv("CLICKHOUSE_DSN", ""), "ClickHouse connection string")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis address")
	fs.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", getEnvAsInt("REDIS_DB", 0), "Redis database number")
	fs.DurationVar(&cfg.RedisTTL, "redis-ttl", getEnvAsDuration("REDIS_TTL", 0), "Expiry for stored lists (0 keeps them)")

	fs.StringVar(&cfg.JWTSigningKey, "jwt-signing-key", getEnv("JWT_SIGNING_KEY", ""), "HMAC key for bearer tokens")

	fs.StringVar(&cfg.DefaultChannel, "default-channel", getEnv("DEFAULT_CHANNEL", ""), "Channel selected for new sessions")
	fs.IntVar(&cfg.HistoryCapacity, "history-capacity", getEnvAsInt("HISTORY_CAPACITY", 50), "Snapshots kept per session")
	fs.IntVar(&cfg.EffectCapacity, "effect-capacity", getEnvAsInt("EFFECT_CAPACITY", 100), "Effects kept per session")
	fs.DurationVar(&cfg.SaveTimeout, "save-timeout", getEnvAsDuration("SAVE_TIMEOUT", 5*time.Second), "Timeout for one list save")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second), "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required combinations.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("--postgres-dsn is required for the postgres store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("--redis-addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.JWTSigningKey == "" {
		return errors.New("--jwt-signing-key is required")
	}
	if c.HistoryCapacity <= 0 || c.EffectCapacity <= 0 {
		return errors.New("history and effect capacities must be positive")
	}
	return nil
}

// LogFields returns the non-secret settings for startup logging.
func (c *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Env),
		zap.String("http_addr", c.HTTPAddr),
		zap.String("store", c.Store),
		zap.Bool("clickhouse", c.ClickhouseDSN != ""),
		zap.String("default_channel", c.DefaultChannel),
		zap.Int("history_capacity", c.HistoryCapacity),
		zap.Int("effect_capacity", c.EffectCapacity),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
