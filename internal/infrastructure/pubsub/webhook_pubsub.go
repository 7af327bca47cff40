package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"shopdash-gateway/internal/domain"
)

// WebhookChannel is one subscription to verified webhook deliveries.
type WebhookChannel struct {
	ID     string
	Filter *WebhookFilter
	Events chan *domain.WebhookEnvelope
	ctx    context.Context
	cancel context.CancelFunc
}

// WebhookFilter restricts a subscription to particular topics or one shop.
type WebhookFilter struct {
	Topics []string
	Shop   string
}

// WebhookPubSub fans verified webhook envelopes out to in-process consumers
// (the audit logger, for one) without blocking the request path.
type WebhookPubSub struct {
	mu       sync.RWMutex
	channels map[string]*WebhookChannel
	nextID   int64
	logger   zerolog.Logger
}

// NewWebhookPubSub creates a new webhook pub/sub system.
func NewWebhookPubSub(logger zerolog.Logger) *WebhookPubSub {
	return &WebhookPubSub{
		channels: make(map[string]*WebhookChannel),
		logger:   logger,
	}
}

// Subscribe creates a subscription channel. The channel is closed and removed
// when ctx is cancelled.
func (ps *WebhookPubSub) Subscribe(ctx context.Context, filter *WebhookFilter) *WebhookChannel {
	subCtx, cancel := context.WithCancel(ctx)

	ps.mu.Lock()
	ps.nextID++
	channel := &WebhookChannel{
		ID:     fmt.Sprintf("channel-%d", ps.nextID),
		Filter: filter,
		Events: make(chan *domain.WebhookEnvelope, 16),
		ctx:    subCtx,
		cancel: cancel,
	}
	ps.channels[channel.ID] = channel
	ps.mu.Unlock()

	ps.logger.Debug().Str("channelId", channel.ID).Msg("Webhook subscription created")

	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(channel.ID)
	}()

	return channel
}

// Unsubscribe removes a subscription channel.
func (ps *WebhookPubSub) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Debug().Str("channelId", channelID).Msg("Webhook subscription removed")
}

// Publish broadcasts an envelope to all matching subscribers. Publish never
// blocks: a subscriber with a full buffer drops the event.
func (ps *WebhookPubSub) Publish(envelope *domain.WebhookEnvelope) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, channel := range ps.channels {
		if !matchesFilter(envelope, channel.Filter) {
			continue
		}
		select {
		case channel.Events <- envelope:
		case <-channel.ctx.Done():
		default:
			ps.logger.Warn().
				Str("channelId", channel.ID).
				Str("topic", envelope.Topic).
				Msg("Channel buffer full, dropping event")
		}
	}
}

func matchesFilter(envelope *domain.WebhookEnvelope, filter *WebhookFilter) bool {
	if filter == nil {
		return true
	}
	if len(filter.Topics) > 0 {
		match := false
		for _, topic := range filter.Topics {
			if envelope.Topic == topic {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if filter.Shop != "" && envelope.Shop != filter.Shop {
		return false
	}
	return true
}
