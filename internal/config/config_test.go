package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "")
	t.Setenv("SHOPIFY_API_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesScopes(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "key")
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("SCOPES", "read_products, write_products ,read_orders")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"read_products", "write_products", "read_orders"}, cfg.Scopes)
	assert.Equal(t, "read_products,write_products,read_orders", cfg.ScopeString())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "key")
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("APP_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.AppURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Production())
}

func TestProductionFollowsScheme(t *testing.T) {
	cfg := &Config{AppURL: "https://app.example.com"}
	assert.True(t, cfg.Production())
}
