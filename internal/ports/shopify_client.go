package ports

import "context"

// TokenResponse is the result of an authorization-code exchange.
type TokenResponse struct {
	AccessToken string
	Scope       string
}

// ShopifyClient defines the platform API operations the OAuth flow needs.
type ShopifyClient interface {
	// GenerateAuthURL builds the shop's authorization endpoint URL with the
	// app's client id, requested scopes, callback URL and state parameter.
	GenerateAuthURL(shop string, scopes []string, redirectURI string, state string) string

	// ExchangeToken POSTs the app credentials and authorization code to the
	// shop's token endpoint and returns the granted token and scope.
	ExchangeToken(ctx context.Context, shop string, code string) (*TokenResponse, error)

	// CreateWebhook subscribes the given callback address to a topic on the
	// shop, using the session's access token.
	CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) error
}
