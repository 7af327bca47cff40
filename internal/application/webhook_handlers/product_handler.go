package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/application"
)

// ProductHandler handles catalog webhook events.
type ProductHandler struct {
	logger zerolog.Logger
}

// NewProductHandler creates a new product webhook handler.
func NewProductHandler(logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{logger: logger}
}

// Register binds the product topics on the dispatcher.
func (h *ProductHandler) Register(d *application.WebhookDispatcher) {
	d.Register("products/create", h.handle)
	d.Register("products/update", h.handle)
}

func (h *ProductHandler) handle(ctx context.Context, topic, shop string, body []byte) error {
	var productData map[string]interface{}
	if err := json.Unmarshal(body, &productData); err != nil {
		return fmt.Errorf("failed to parse product webhook payload: %w", err)
	}

	productID, _ := productData["id"].(float64)
	title, _ := productData["title"].(string)
	handle, _ := productData["handle"].(string)

	h.logger.Info().
		Str("topic", topic).
		Str("shop", shop).
		Float64("productId", productID).
		Str("title", title).
		Str("handle", handle).
		Msg("Processing product webhook event")

	return nil
}
