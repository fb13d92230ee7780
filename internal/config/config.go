// Package config loads service settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dharmasatrya/faredesk/internal/cache"
	"github.com/dharmasatrya/faredesk/internal/pricing"
	"github.com/dharmasatrya/faredesk/internal/ratelimit"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Backends  BackendsConfig  `yaml:"backends"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Search    SearchConfig    `yaml:"search"`
	// PriceConfigs is used when no database is configured.
	PriceConfigs map[pricing.Segment]pricing.PriceConfig `yaml:"price_configs"`
}

type HTTPConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Enabled           bool `yaml:"enabled"`
	cache.RedisConfig `yaml:",inline"`
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	BookingsTopic string   `yaml:"bookings_topic"`
	EmailTopic    string   `yaml:"email_topic"`
	GroupID       string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// BackendsConfig points at the gateway fronting both reservation systems.
type BackendsConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type RateLimitConfig struct {
	Default  ratelimit.Limit            `yaml:"default"`
	Backends map[string]ratelimit.Limit `yaml:"backends"`
}

type SearchConfig struct {
	// BudgetAirports are the airports at least one end of a budget carrier
	// route must touch.
	BudgetAirports []string `yaml:"budget_airports"`
}

func Default() Config {
	return Config{
		HTTP:  HTTPConfig{Port: "8080"},
		Redis: RedisConfig{Enabled: true, RedisConfig: cache.DefaultRedisConfig()},
		Kafka: KafkaConfig{
			BookingsTopic: "faredesk.bookings",
			EmailTopic:    "faredesk.ticket-emails",
			GroupID:       "faredesk-worker",
		},
		Backends: BackendsConfig{
			BaseURL: "https://thuhongtour.com",
			Timeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{Default: ratelimit.DefaultLimit()},
		Search:    SearchConfig{BudgetAirports: []string{"ICN", "PUS", "TAE"}},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Path is CONFIG_PATH or config.yaml.
func Path() string {
	return getEnv("CONFIG_PATH", "config.yaml")
}

func (c *Config) applyEnv() {
	c.HTTP.Port = getEnv("PORT", c.HTTP.Port)
	c.Redis.Enabled = getEnvBool("CACHE_ENABLED", c.Redis.Enabled)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.TTL = getEnvDuration("REDIS_TTL", c.Redis.TTL)
	c.Database.DSN = getEnv("DATABASE_DSN", c.Database.DSN)
	c.Backends.BaseURL = getEnv("BACKEND_BASE_URL", c.Backends.BaseURL)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
}

func (c Config) Validate() error {
	if c.HTTP.Port == "" {
		return errors.New("http.port is required")
	}
	if c.Backends.BaseURL == "" {
		return errors.New("backends.base_url is required")
	}
	for seg, pc := range c.PriceConfigs {
		if _, err := pricing.ParseSegment(string(seg)); err != nil {
			return fmt.Errorf("price_configs.%s: %w", seg, err)
		}
		if err := pc.Validate(); err != nil {
			return fmt.Errorf("price_configs.%s: %w", seg, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
