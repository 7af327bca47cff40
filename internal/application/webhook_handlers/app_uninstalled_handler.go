package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/application"
	"shopdash-gateway/internal/domain"
)

// AppUninstalledHandler revokes the shop's stored credentials when the app is
// uninstalled.
type AppUninstalledHandler struct {
	sessions *application.SessionService
	logger   zerolog.Logger
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler.
func NewAppUninstalledHandler(sessions *application.SessionService, logger zerolog.Logger) *AppUninstalledHandler {
	return &AppUninstalledHandler{sessions: sessions, logger: logger}
}

// Register binds the uninstall topic on the dispatcher.
func (h *AppUninstalledHandler) Register(d *application.WebhookDispatcher) {
	d.Register("app/uninstalled", h.handle)
}

func (h *AppUninstalledHandler) handle(ctx context.Context, topic, shop string, body []byte) error {
	if shop == "" {
		// Fall back to the shop domain carried in the payload.
		var shopData map[string]interface{}
		if err := json.Unmarshal(body, &shopData); err != nil {
			return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
		}
		if d, ok := shopData["myshopify_domain"].(string); ok {
			shop = d
		} else if d, ok := shopData["domain"].(string); ok {
			shop = d
		}
	}
	if shop == "" {
		return fmt.Errorf("app uninstalled webhook carries no shop domain")
	}

	id := domain.OfflineSessionID(shop)
	if err := h.sessions.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to revoke session for %s: %w", shop, err)
	}

	h.logger.Info().Str("shop", shop).Msg("App uninstalled, session revoked")
	return nil
}
