package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bagel/internal/basket"
	"github.com/noah-isme/backend-bagel/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string

	BasketDefaultCapacity int
	ReceiptTitle          string
	Promotions            pricing.Rules

	IdempotencyTTL    time.Duration
	RateLimitWindow   time.Duration
	RateLimitMax      int
	RateLimitStrategy string
	BodyLimitBytes    int64
	ShutdownTimeout   time.Duration
}

// Load reads configuration from environment variables and optional .env files.
// When CONFIG_FILE names a YAML file its keys are loaded first and environment
// variables take precedence over them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:                valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                  valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:              strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins:    splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		BasketDefaultCapacity: parseInt(k.String("BASKET_DEFAULT_CAPACITY"), basket.DefaultCapacity),
		ReceiptTitle:          valueOrDefault(k.String("RECEIPT_TITLE"), "Bob's Bagels"),
		IdempotencyTTL:        parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		RateLimitWindow:       parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:          parseInt(k.String("RATE_LIMIT_MAX"), 120),
		RateLimitStrategy:     strings.ToLower(valueOrDefault(k.String("RATE_LIMIT_STRATEGY"), "sliding")),
		BodyLimitBytes:        int64(parseInt(k.String("BODY_LIMIT_BYTES"), 1<<20)),
		ShutdownTimeout:       parseDuration(k.String("SHUTDOWN_TIMEOUT"), "10s"),
	}

	if cfg.BasketDefaultCapacity < 0 {
		return nil, errors.New("BASKET_DEFAULT_CAPACITY must not be negative")
	}

	rules, err := loadPromotions(k)
	if err != nil {
		return nil, err
	}
	cfg.Promotions = rules
	return cfg, nil
}

func loadPromotions(k *koanf.Koanf) (pricing.Rules, error) {
	rules := pricing.DefaultRules()
	if raw := strings.TrimSpace(k.String("PROMO_BAGEL_BUNDLES")); raw != "" {
		bundles, err := pricing.ParseBundles(raw)
		if err != nil {
			return pricing.Rules{}, fmt.Errorf("PROMO_BAGEL_BUNDLES: %w", err)
		}
		rules.BagelBundles = bundles
	}
	if raw := strings.TrimSpace(k.String("PROMO_COFFEE_BAGEL_PRICE")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return pricing.Rules{}, fmt.Errorf("PROMO_COFFEE_BAGEL_PRICE: %w", err)
		}
		rules.CoffeeBagelPrice = price
	}
	if err := rules.Validate(); err != nil {
		return pricing.Rules{}, err
	}
	return rules, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// RedisEnabled reports whether a Redis connection was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
