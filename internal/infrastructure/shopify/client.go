package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"

	"shopdash-gateway/internal/ports"
)

const exchangeTimeout = 10 * time.Second

type client struct {
	apiKey     string
	apiSecret  string
	app        goshopify.App
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Shopify client adapter.
func NewClient(apiKey, apiSecret string, logger zerolog.Logger) ports.ShopifyClient {
	app := goshopify.App{
		ApiKey:    apiKey,
		ApiSecret: apiSecret,
	}
	return &client{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		app:        app,
		httpClient: &http.Client{Timeout: exchangeTimeout},
		logger:     logger,
	}
}

func (c *client) GenerateAuthURL(shop string, scopes []string, redirectURI string, state string) string {
	// Shopify expects scopes comma-separated with no spaces. The go-shopify
	// AuthorizeUrl helper doesn't carry redirect_uri, so the URL is built
	// by hand.
	scopesStr := strings.Join(scopes, ",")
	return fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		c.apiKey,
		url.QueryEscape(scopesStr),
		url.QueryEscape(redirectURI),
		url.QueryEscape(state),
	)
}

func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (*ports.TokenResponse, error) {
	tokenURL := fmt.Sprintf("https://%s/admin/oauth/access_token", shop)

	values := url.Values{}
	values.Set("client_id", c.apiKey)
	values.Set("client_secret", c.apiSecret)
	values.Set("code", code)

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to exchange token: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &ports.TokenResponse{
		AccessToken: tokenResponse.AccessToken,
		Scope:       tokenResponse.Scope,
	}, nil
}

func (c *client) CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) error {
	gc, err := goshopify.NewClient(c.app, shop, accessToken)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	webhook := goshopify.Webhook{
		Topic:   topic,
		Address: address,
		Format:  "json",
	}
	if _, err := gc.Webhook.Create(ctx, webhook); err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	return nil
}
