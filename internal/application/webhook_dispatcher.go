package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/domain"
)

const handlerTimeout = 10 * time.Second

// WebhookHandler processes one verified webhook delivery.
type WebhookHandler func(ctx context.Context, topic, shop string, body []byte) error

// WebhookDispatcher maps topics to handlers. Registration happens once at
// startup, before the pipeline becomes reachable; after that the map is
// read-only, so no locking is needed on dispatch.
type WebhookDispatcher struct {
	handlers map[string]WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates an empty dispatcher.
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		handlers: make(map[string]WebhookHandler),
		logger:   logger,
	}
}

// Register binds a handler to a topic. Registering a topic twice replaces the
// earlier handler; acceptable only because this runs at startup.
func (d *WebhookDispatcher) Register(topic string, handler WebhookHandler) {
	d.handlers[topic] = handler
}

// Topics returns the registered topic names, sorted.
func (d *WebhookDispatcher) Topics() []string {
	topics := make([]string, 0, len(d.handlers))
	for topic := range d.handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Dispatch invokes the handler registered for the envelope's topic, at most
// once. An unknown topic is a successful no-op: the platform sends topics the
// app does not care about. A handler error or panic is isolated and reported;
// it never takes down the pipeline.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, envelope *domain.WebhookEnvelope) (handled bool, err error) {
	handler, ok := d.handlers[envelope.Topic]
	if !ok {
		d.logger.Debug().
			Str("topic", envelope.Topic).
			Str("shop", envelope.Shop).
			Msg("No handler registered for webhook topic")
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Interface("panic", r).
				Str("topic", envelope.Topic).
				Str("shop", envelope.Shop).
				Msg("Webhook handler panicked")
			err = fmt.Errorf("handler for %s panicked: %v", envelope.Topic, r)
		}
	}()

	if err := handler(ctx, envelope.Topic, envelope.Shop, envelope.RawBody); err != nil {
		d.logger.Error().
			Err(err).
			Str("topic", envelope.Topic).
			Str("shop", envelope.Shop).
			Msg("Webhook handler failed")
		return true, fmt.Errorf("handler for %s failed: %w", envelope.Topic, err)
	}

	return true, nil
}
