package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopdash-gateway/internal/config"
	"shopdash-gateway/internal/domain"
	"shopdash-gateway/internal/ports"
)

type fakeShopifyClient struct {
	token          *ports.TokenResponse
	exchangeErr    error
	webhookErr     error
	exchangedShop  string
	exchangedCode  string
	webhookTopics  []string
	webhookAddress string
}

func (f *fakeShopifyClient) GenerateAuthURL(shop string, scopes []string, redirectURI string, state string) string {
	return "https://" + shop + "/admin/oauth/authorize?client_id=key&scope=" +
		url.QueryEscape(strings.Join(scopes, ",")) +
		"&redirect_uri=" + url.QueryEscape(redirectURI) +
		"&state=" + url.QueryEscape(state)
}

func (f *fakeShopifyClient) ExchangeToken(_ context.Context, shop, code string) (*ports.TokenResponse, error) {
	f.exchangedShop = shop
	f.exchangedCode = code
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeShopifyClient) CreateWebhook(_ context.Context, shop, accessToken, topic, address string) error {
	f.webhookTopics = append(f.webhookTopics, topic)
	f.webhookAddress = address
	return f.webhookErr
}

func testConfig() *config.Config {
	return &config.Config{
		APIKey:     "key",
		APISecret:  "secret",
		Scopes:     []string{"read_products", "write_products"},
		AppURL:     "http://localhost:8080",
		APIVersion: "2025-01",
	}
}

func newTestOAuthService(client *fakeShopifyClient, store *fakeStore, topics []string) *OAuthService {
	sessions := NewSessionService(store, zerolog.Nop())
	return NewOAuthService(client, sessions, testConfig(), topics, zerolog.Nop())
}

func TestBeginAuthProducesStateMatchingURL(t *testing.T) {
	svc := newTestOAuthService(&fakeShopifyClient{}, newFakeStore(), nil)

	authURL, state, err := svc.BeginAuth("foo.myshopify.com")
	require.NoError(t, err)
	require.NotEmpty(t, state)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "foo.myshopify.com", parsed.Host)
	assert.Equal(t, "/admin/oauth/authorize", parsed.Path)
	assert.Equal(t, state, parsed.Query().Get("state"))
	assert.Equal(t, "http://localhost:8080/auth/callback", parsed.Query().Get("redirect_uri"))
}

func TestBeginAuthStatesAreUnique(t *testing.T) {
	svc := newTestOAuthService(&fakeShopifyClient{}, newFakeStore(), nil)

	_, first, err := svc.BeginAuth("foo.myshopify.com")
	require.NoError(t, err)
	_, second, err := svc.BeginAuth("foo.myshopify.com")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestBeginAuthRejectsInvalidShop(t *testing.T) {
	svc := newTestOAuthService(&fakeShopifyClient{}, newFakeStore(), nil)

	_, _, err := svc.BeginAuth("evil.example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidShopDomain)
}

func TestCompleteAuthStoresSession(t *testing.T) {
	client := &fakeShopifyClient{
		token: &ports.TokenResponse{AccessToken: "tok123", Scope: "read_products"},
	}
	store := newFakeStore()
	svc := newTestOAuthService(client, store, []string{"orders/create", "products/update"})

	session, err := svc.CompleteAuth(context.Background(), "foo.myshopify.com", "code-1", "state-1", false)
	require.NoError(t, err)

	assert.Equal(t, "offline_foo.myshopify.com", session.ID)
	assert.Equal(t, "foo.myshopify.com", session.Shop)
	assert.Equal(t, "tok123", session.AccessToken)
	assert.Equal(t, "read_products", session.Scope)
	assert.False(t, session.IsOnline)
	assert.Equal(t, "code-1", client.exchangedCode)

	// Persisted under the derived id.
	assert.Contains(t, store.data, "offline_foo.myshopify.com")

	// Webhooks registered against the app's endpoint.
	assert.Equal(t, []string{"orders/create", "products/update"}, client.webhookTopics)
	assert.Equal(t, "http://localhost:8080/webhooks/shopify", client.webhookAddress)
}

func TestCompleteAuthEmptyTokenFails(t *testing.T) {
	client := &fakeShopifyClient{token: &ports.TokenResponse{}}
	store := newFakeStore()
	svc := newTestOAuthService(client, store, nil)

	_, err := svc.CompleteAuth(context.Background(), "foo.myshopify.com", "code-1", "state-1", false)
	assert.ErrorIs(t, err, domain.ErrExchangeFailed)
	assert.Empty(t, store.data)
}

func TestCompleteAuthExchangeErrorFails(t *testing.T) {
	client := &fakeShopifyClient{exchangeErr: errors.New("upstream timeout")}
	store := newFakeStore()
	svc := newTestOAuthService(client, store, nil)

	_, err := svc.CompleteAuth(context.Background(), "foo.myshopify.com", "code-1", "state-1", false)
	assert.ErrorIs(t, err, domain.ErrExchangeFailed)
	assert.Empty(t, store.data)
}

func TestCompleteAuthScopeFallback(t *testing.T) {
	client := &fakeShopifyClient{token: &ports.TokenResponse{AccessToken: "tok123"}}
	svc := newTestOAuthService(client, newFakeStore(), nil)

	session, err := svc.CompleteAuth(context.Background(), "foo.myshopify.com", "code-1", "state-1", false)
	require.NoError(t, err)
	assert.Equal(t, "read_products,write_products", session.Scope)
}

func TestCompleteAuthWebhookFailureDoesNotRollBack(t *testing.T) {
	client := &fakeShopifyClient{
		token:      &ports.TokenResponse{AccessToken: "tok123", Scope: "read_products"},
		webhookErr: errors.New("webhook registration rejected"),
	}
	store := newFakeStore()
	svc := newTestOAuthService(client, store, []string{"orders/create"})

	session, err := svc.CompleteAuth(context.Background(), "foo.myshopify.com", "code-1", "state-1", false)
	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated())
	assert.Contains(t, store.data, session.ID)
}

func TestCompleteAuthOnlineSession(t *testing.T) {
	client := &fakeShopifyClient{token: &ports.TokenResponse{AccessToken: "tok123", Scope: "read_products"}}
	store := newFakeStore()
	svc := newTestOAuthService(client, store, nil)

	session, err := svc.CompleteAuth(context.Background(), "foo.myshopify.com", "code-1", "state-9", true)
	require.NoError(t, err)
	assert.True(t, session.IsOnline)
	assert.Equal(t, domain.OnlineSessionID("foo.myshopify.com", "state-9"), session.ID)
	assert.Contains(t, store.data, session.ID)
}
