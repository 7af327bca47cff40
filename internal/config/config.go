package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application settings, built once at startup and passed
// explicitly to the components that need it.
type Config struct {
	APIKey     string
	APISecret  string
	Scopes     []string
	AppURL     string
	APIVersion string

	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDatabase string

	Port string
}

// Load builds a Config from the environment. The Shopify credentials are
// required; everything else has a local-development default.
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:        os.Getenv("SHOPIFY_API_KEY"),
		APISecret:     os.Getenv("SHOPIFY_API_SECRET"),
		AppURL:        getEnv("APP_URL", "http://localhost:8080"),
		APIVersion:    getEnv("SHOPIFY_API_VERSION", "2025-01"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "shopdash"),
		Port:          getEnv("PORT", "8080"),
	}

	scopes := getEnv("SCOPES", "read_products,write_products,read_orders,write_orders")
	for _, s := range strings.Split(scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Scopes = append(cfg.Scopes, s)
		}
	}

	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required")
	}

	return cfg, nil
}

// ScopeString returns the scopes as Shopify expects them on the wire,
// comma-separated with no spaces.
func (c *Config) ScopeString() string {
	return strings.Join(c.Scopes, ",")
}

// Production reports whether the app runs behind HTTPS, which controls the
// Secure flag on cookies.
func (c *Config) Production() bool {
	return strings.HasPrefix(c.AppURL, "https://")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
