package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"shopdash-gateway/internal/application"
	"shopdash-gateway/internal/config"
	"shopdash-gateway/internal/infrastructure/metrics"
	"shopdash-gateway/internal/ports"
)

// Shared test fakes for the handler tests.

type fakeStore struct {
	data    map[string]string
	failPut bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Put(_ context.Context, key, value string, _ time.Duration) error {
	if f.failPut {
		return errors.New("store unavailable")
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

type fakeShopifyClient struct {
	token       *ports.TokenResponse
	exchangeErr error
}

func (f *fakeShopifyClient) GenerateAuthURL(shop string, scopes []string, redirectURI string, state string) string {
	return "https://" + shop + "/admin/oauth/authorize?client_id=key&scope=" +
		url.QueryEscape(strings.Join(scopes, ",")) +
		"&redirect_uri=" + url.QueryEscape(redirectURI) +
		"&state=" + url.QueryEscape(state)
}

func (f *fakeShopifyClient) ExchangeToken(context.Context, string, string) (*ports.TokenResponse, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeShopifyClient) CreateWebhook(context.Context, string, string, string, string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		APIKey:     "key",
		APISecret:  "secret",
		Scopes:     []string{"read_products"},
		AppURL:     "http://localhost:8080",
		APIVersion: "2025-01",
	}
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func newSessionService(store *fakeStore) *application.SessionService {
	return application.NewSessionService(store, zerolog.Nop())
}
