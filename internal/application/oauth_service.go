package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/config"
	"shopdash-gateway/internal/domain"
	"shopdash-gateway/internal/ports"
)

// OAuthService orchestrates the begin -> callback -> token-exchange ->
// session-persist sequence. CSRF nonce generation lives here; the comparison
// against the cookie happens at the HTTP layer, before this service is asked
// to do anything that talks to the network.
type OAuthService struct {
	client        ports.ShopifyClient
	sessions      *SessionService
	cfg           *config.Config
	webhookTopics []string
	logger        zerolog.Logger
}

// NewOAuthService creates the OAuth flow controller. webhookTopics are the
// topics subscribed on the shop after a successful exchange.
func NewOAuthService(
	client ports.ShopifyClient,
	sessions *SessionService,
	cfg *config.Config,
	webhookTopics []string,
	logger zerolog.Logger,
) *OAuthService {
	return &OAuthService{
		client:        client,
		sessions:      sessions,
		cfg:           cfg,
		webhookTopics: webhookTopics,
		logger:        logger,
	}
}

// BeginAuth validates the shop domain, generates a CSRF nonce and returns the
// authorization URL to redirect the browser to, along with the nonce the
// caller must persist client-side. No server-side state is written here.
func (s *OAuthService) BeginAuth(shop string) (authURL string, state string, err error) {
	sanitized, err := domain.SanitizeShopDomain(shop)
	if err != nil {
		return "", "", err
	}

	state, err = generateNonce()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	redirectURI := s.cfg.AppURL + "/auth/callback"
	authURL = s.client.GenerateAuthURL(sanitized, s.cfg.Scopes, redirectURI, state)

	s.logger.Info().
		Str("shop", sanitized).
		Str("redirectUri", redirectURI).
		Msg("Beginning OAuth flow")

	return authURL, state, nil
}

// CompleteAuth exchanges the authorization code for an access token, builds
// the session and persists it. The caller has already performed the CSRF
// check. An empty token from the platform is a hard failure; webhook
// registration failure is logged and does not roll back the session.
func (s *OAuthService) CompleteAuth(ctx context.Context, shop, code, state string, isOnline bool) (*domain.Session, error) {
	sanitized, err := domain.SanitizeShopDomain(shop)
	if err != nil {
		return nil, err
	}

	token, err := s.client.ExchangeToken(ctx, sanitized, code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", sanitized).Msg("Token exchange failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrExchangeFailed, err)
	}
	if token.AccessToken == "" {
		s.logger.Error().Str("shop", sanitized).Msg("Token endpoint returned empty access token")
		return nil, domain.ErrExchangeFailed
	}

	scope := token.Scope
	if scope == "" {
		scope = s.cfg.ScopeString()
	}

	id := domain.OfflineSessionID(sanitized)
	if isOnline {
		id = domain.OnlineSessionID(sanitized, state)
	}

	session := &domain.Session{
		ID:          id,
		Shop:        sanitized,
		State:       state,
		IsOnline:    isOnline,
		AccessToken: token.AccessToken,
		Scope:       scope,
	}

	if err := s.sessions.StoreSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("shop", sanitized).
		Str("scope", scope).
		Bool("isOnline", isOnline).
		Msg("OAuth token exchange completed")

	s.registerWebhooks(ctx, session)

	return session, nil
}

// registerWebhooks subscribes the app's webhook endpoint to each configured
// topic. Best effort: a registered session is valid even when subscriptions
// fail, the platform retries nothing on our behalf here.
func (s *OAuthService) registerWebhooks(ctx context.Context, session *domain.Session) {
	address := s.cfg.AppURL + "/webhooks/shopify"
	for _, topic := range s.webhookTopics {
		if err := s.client.CreateWebhook(ctx, session.Shop, session.AccessToken, topic, address); err != nil {
			s.logger.Warn().
				Err(err).
				Str("shop", session.Shop).
				Str("topic", topic).
				Msg("Webhook registration failed")
			continue
		}
		s.logger.Info().
			Str("shop", session.Shop).
			Str("topic", topic).
			Msg("Webhook registered")
	}
}

func generateNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
