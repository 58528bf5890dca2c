package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// StoreConfig selects and parameterises the account document store.
type StoreConfig struct {
	// Backend is one of "memory", "redis", "postgres".
	Backend string `yaml:"backend"`

	RedisAddr string `yaml:"redis_addr"`

	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     int    `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"-"`
	PostgresName     string `yaml:"postgres_name"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"`
}

// KafkaConfig holds event publishing parameters. With no brokers configured
// events are logged instead of published.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// TierConfig is the YAML shape of one rate tier override.
type TierConfig struct {
	MaxMonths   int     `yaml:"max_months"`
	RatePercent float64 `yaml:"rate_percent"`
	Label       string  `yaml:"label"`
}

// Config is the full engine configuration.
type Config struct {
	HTTPPort    int          `yaml:"http_port"`
	LogLevel    string       `yaml:"log_level"`
	LogFormat   string       `yaml:"log_format"`
	Store       StoreConfig  `yaml:"store"`
	Kafka       KafkaConfig  `yaml:"kafka"`
	Tiers       []TierConfig `yaml:"rate_tiers"`
	FeeAmount   float64      `yaml:"installment_fee"`
	ServiceName string       `yaml:"-"`
}

// Load reads configuration from the environment, then applies the optional
// YAML overlay named by LENDING_CONFIG.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:  getEnvInt("HTTP_PORT", 8087),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Store: StoreConfig{
			Backend:          getEnv("STORE_BACKEND", "memory"),
			RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
			PostgresHost:     getEnv("DB_HOST", "localhost"),
			PostgresPort:     getEnvInt("DB_PORT", 5432),
			PostgresUser:     getEnv("DB_USER", "lending"),
			PostgresPassword: getEnv("DB_PASSWORD", ""),
			PostgresName:     getEnv("DB_NAME", "lending"),
			PostgresSSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "lending-events"),
		},
		FeeAmount:   getEnvFloat("INSTALLMENT_FEE", 25),
		ServiceName: "lending-engine",
	}

	if path := os.Getenv("LENDING_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := validateBackend(cfg.Store.Backend); err != nil {
		return cfg, err
	}
	if _, err := cfg.RateTiers(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// RateTiers returns the configured tier table, falling back to the default
// offer table when no override is present.
func (c Config) RateTiers() ([]valueobject.RateTier, error) {
	if len(c.Tiers) == 0 {
		return valueobject.DefaultRateTiers(), nil
	}
	tiers := make([]valueobject.RateTier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		tiers = append(tiers, valueobject.RateTier{
			MaxMonths:   t.MaxMonths,
			RatePercent: decimal.NewFromFloat(t.RatePercent),
			Label:       t.Label,
		})
	}
	if err := valueobject.ValidateTiers(tiers); err != nil {
		return nil, fmt.Errorf("rate tier override: %w", err)
	}
	return tiers, nil
}

// InstallmentFee returns the fixed per-month fee as a decimal.
func (c Config) InstallmentFee() decimal.Decimal {
	if c.FeeAmount <= 0 {
		return model.DefaultInstallmentFee
	}
	return decimal.NewFromFloat(c.FeeAmount)
}

// PostgresDSN builds the connection string for the postgres store.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Store.PostgresUser, c.Store.PostgresPassword,
		c.Store.PostgresHost, c.Store.PostgresPort,
		c.Store.PostgresName, c.Store.PostgresSSLMode,
	)
}

// HTTPAddr returns the listen address for the health/metrics server.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func validateBackend(backend string) error {
	switch backend {
	case "memory", "redis", "postgres":
		return nil
	default:
		return fmt.Errorf("unknown store backend: %q", backend)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
