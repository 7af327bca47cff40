package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/application"
)

// OrderHandler handles order-lifecycle webhook events.
type OrderHandler struct {
	logger zerolog.Logger
}

// NewOrderHandler creates a new order webhook handler.
func NewOrderHandler(logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{logger: logger}
}

// Register binds the order topics on the dispatcher.
func (h *OrderHandler) Register(d *application.WebhookDispatcher) {
	d.Register("orders/create", h.handle)
	d.Register("orders/updated", h.handle)
	d.Register("orders/cancelled", h.handle)
	d.Register("orders/fulfilled", h.handle)
}

func (h *OrderHandler) handle(ctx context.Context, topic, shop string, body []byte) error {
	var orderData map[string]interface{}
	if err := json.Unmarshal(body, &orderData); err != nil {
		return fmt.Errorf("failed to parse order webhook payload: %w", err)
	}

	orderID, _ := orderData["id"].(float64)
	orderNumber, _ := orderData["order_number"].(float64)
	financialStatus, _ := orderData["financial_status"].(string)

	h.logger.Info().
		Str("topic", topic).
		Str("shop", shop).
		Float64("orderId", orderID).
		Float64("orderNumber", orderNumber).
		Str("financialStatus", financialStatus).
		Msg("Processing order webhook event")

	switch topic {
	case "orders/create":
		h.logger.Info().Str("shop", shop).Float64("orderId", orderID).Msg("New order created")
	case "orders/updated":
		h.logger.Info().Str("shop", shop).Float64("orderId", orderID).Msg("Order updated")
	case "orders/cancelled":
		h.logger.Info().Str("shop", shop).Float64("orderId", orderID).Msg("Order cancelled")
	case "orders/fulfilled":
		h.logger.Info().Str("shop", shop).Float64("orderId", orderID).Msg("Order fulfilled")
	}

	return nil
}
