package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vladimiradmaev/glucose-diary/internal/logger"
)

// Storage and state backends
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

type Config struct {
	TelegramToken  string
	StorageBackend string
	StateBackend   string
	Timezone       string
	DB             DBConfig
	Redis          RedisConfig
	AMQP           AMQPConfig
	Logger         LoggerConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the postgres connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	StateTTL time.Duration
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// AMQPConfig configures event publishing. An empty URL disables it.
type AMQPConfig struct {
	URL   string
	Queue string
}

// Enabled reports whether events should be published
func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

var defaults = map[string]any{
	"TELEGRAM_BOT_TOKEN": "",
	"STORAGE_BACKEND":    BackendPostgres,
	"STATE_BACKEND":      BackendMemory,
	"TIMEZONE":           "Asia/Tehran",
	"DB_HOST":            "localhost",
	"DB_PORT":            "5432",
	"DB_USER":            "postgres",
	"DB_PASSWORD":        "postgres",
	"DB_NAME":            "glucose_diary",
	"DB_SSLMODE":         "disable",
	"REDIS_HOST":         "localhost",
	"REDIS_PORT":         "6379",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"STATE_TTL":          "24h",
	"AMQP_URL":           "",
	"AMQP_QUEUE":         "glucose_events",
	"LOG_LEVEL":          "info",
	"LOG_OUTPUT":         "logs/app.log",
	"LOG_FORMAT":         "json",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads configuration from the environment. Call Validate before use.
func Load() (*Config, error) {
	v := newViper()

	ttl, err := time.ParseDuration(v.GetString("STATE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATE_TTL %q: %w", v.GetString("STATE_TTL"), err)
	}

	return &Config{
		TelegramToken:  v.GetString("TELEGRAM_BOT_TOKEN"),
		StorageBackend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
		StateBackend:   strings.ToLower(v.GetString("STATE_BACKEND")),
		Timezone:       v.GetString("TIMEZONE"),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			StateTTL: ttl,
		},
		AMQP: AMQPConfig{
			URL:   v.GetString("AMQP_URL"),
			Queue: v.GetString("AMQP_QUEUE"),
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(v.GetString("LOG_LEVEL")),
			OutputPath: v.GetString("LOG_OUTPUT"),
			Format:     strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}, nil
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var errs []string

	if c.TelegramToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}

	switch c.StorageBackend {
	case BackendPostgres:
		if c.DB.Host == "" {
			errs = append(errs, "DB_HOST is required for postgres storage")
		}
		if c.DB.DBName == "" {
			errs = append(errs, "DB_NAME is required for postgres storage")
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Sprintf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	switch c.StateBackend {
	case BackendRedis:
		if c.Redis.Host == "" {
			errs = append(errs, "REDIS_HOST is required for redis state")
		}
		if c.Redis.StateTTL <= 0 {
			errs = append(errs, "STATE_TTL must be positive")
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Sprintf("unknown STATE_BACKEND %q", c.StateBackend))
	}

	if c.AMQP.Enabled() && c.AMQP.Queue == "" {
		errs = append(errs, "AMQP_QUEUE is required when AMQP_URL is set")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid TIMEZONE %q", c.Timezone))
	}

	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be json or text, got %q", c.Logger.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
