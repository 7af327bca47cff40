package api

import (
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/application"
	"shopdash-gateway/internal/domain"
	"shopdash-gateway/internal/infrastructure/metrics"
	"shopdash-gateway/internal/infrastructure/pubsub"
	"shopdash-gateway/internal/infrastructure/shopify"
)

// WebhookHandler is the ingestion endpoint for platform notifications. No
// body-parsing middleware may run ahead of it: the signature is computed over
// the raw bytes.
type WebhookHandler struct {
	verifier   *shopify.WebhookVerifier
	dispatcher *application.WebhookDispatcher
	events     *pubsub.WebhookPubSub
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewWebhookHandler creates the webhook HTTP handler.
func NewWebhookHandler(
	verifier *shopify.WebhookVerifier,
	dispatcher *application.WebhookDispatcher,
	events *pubsub.WebhookPubSub,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:   verifier,
		dispatcher: dispatcher,
		events:     events,
		metrics:    m,
		logger:     logger,
	}
}

// Handle serves POST /webhooks/shopify. 200 means dispatched (or unknown
// topic, a deliberate no-op), 422 means a handler failed, 500 means the
// request could not be verified or read. Redelivery on non-2xx is the
// platform's job; nothing is retried here.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read webhook payload")
		writeError(w, http.StatusInternalServerError, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	hmacHeader := r.Header.Get("X-Shopify-Hmac-Sha256")
	if err := h.verifier.Verify(payload, hmacHeader); err != nil {
		h.logger.Warn().Err(err).Msg("Webhook signature verification failed")
		h.metrics.WebhookDispatch.WithLabelValues("unknown", "verification_failed").Inc()
		writeError(w, http.StatusInternalServerError, "Webhook verification failed")
		return
	}

	topic := r.Header.Get("X-Shopify-Topic")
	if topic == "" {
		h.logger.Warn().Msg("Webhook missing topic header")
		writeError(w, http.StatusInternalServerError, "Missing webhook topic")
		return
	}
	shop := r.Header.Get("X-Shopify-Shop-Domain")

	envelope := &domain.WebhookEnvelope{
		Topic:   topic,
		Shop:    shop,
		RawBody: payload,
	}

	// Audit consumers read off the request path.
	h.events.Publish(envelope)

	handled, err := h.dispatcher.Dispatch(r.Context(), envelope)
	if err != nil {
		h.metrics.WebhookDispatch.WithLabelValues(topic, "handler_failed").Inc()
		writeError(w, http.StatusUnprocessableEntity, "Webhook handler failed")
		return
	}

	status := "ok"
	if !handled {
		status = "no_handler"
	}
	h.metrics.WebhookDispatch.WithLabelValues(topic, status).Inc()
	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
