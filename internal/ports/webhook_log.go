package ports

import (
	"context"

	"shopdash-gateway/internal/domain"
)

// WebhookLog records verified webhook deliveries for auditing.
type WebhookLog interface {
	LogWebhook(ctx context.Context, envelope *domain.WebhookEnvelope) error
}
