package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// ChatWebhookURL — external workflow-automation webhook the /chat
	// endpoint relays to. Required in api mode.
	ChatWebhookURL string

	// KafkaBrokers/KafkaTopicTracking — if set, successful lookups emit
	// best-effort ticket.tracked audit events.
	KafkaBrokers       []string
	KafkaTopicTracking string

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}

	RateLimit RateLimitConfig
}

// RateLimitConfig caps lookup requests per client IP per fixed window.
// This is a coarse defense against accidental hammering, not a security
// control: it is trivially bypassed by rotating IPs.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	// RedisAddr — if set, the limiter uses a shared Redis store instead of
	// the per-process in-memory map.
	RedisAddr string
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:            getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:           firstEnv("APP_PORT", "HTTP_PORT", "8080"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ChatWebhookURL:     getEnv("CHAT_WEBHOOK_URL", ""),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicTracking: getEnv("KAFKA_TOPIC_TRACKING", "warranty.ticket.tracked"),
	}
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "warranty_tracker")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.RateLimit = RateLimitConfig{
		MaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 10),
		Window:      envDur("RATE_LIMIT_WINDOW", time.Minute),
		RedisAddr:   getEnv("RATE_LIMIT_REDIS_ADDR", ""),
	}
	if cfg.RateLimit.MaxRequests < 1 {
		cfg.RateLimit.MaxRequests = 1
	}
	if cfg.RateLimit.Window <= 0 {
		cfg.RateLimit.Window = time.Minute
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("config: DB_HOST and DB_DATABASE are required")
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	return nil
}

// ValidateAPI checks everything the api mode needs on top of Validate.
// A missing webhook URL is a startup error, not a runtime one.
func (c *Config) ValidateAPI() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ChatWebhookURL == "" {
		return errors.New("config: CHAT_WEBHOOK_URL is required")
	}
	if _, err := url.ParseRequestURI(c.ChatWebhookURL); err != nil {
		return fmt.Errorf("config: CHAT_WEBHOOK_URL: %w", err)
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
