package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shopdash-gateway/internal/domain"
	"shopdash-gateway/internal/ports"
)

// MongoWebhookLog persists verified webhook deliveries to the webhook_events
// collection for auditing.
type MongoWebhookLog struct {
	collection *mongo.Collection
}

// NewMongoWebhookLog creates a MongoDB-backed webhook audit log.
func NewMongoWebhookLog(db *mongo.Database) ports.WebhookLog {
	return &MongoWebhookLog{
		collection: db.Collection("webhook_events"),
	}
}

func (r *MongoWebhookLog) LogWebhook(ctx context.Context, envelope *domain.WebhookEnvelope) error {
	doc := bson.M{
		"topic":       envelope.Topic,
		"shop":        envelope.Shop,
		"payload":     string(envelope.RawBody),
		"received_at": time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to log webhook event: %w", err)
	}
	return nil
}
