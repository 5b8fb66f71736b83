package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/best-dressed/pkg/kafka"
)

// EventInvalidate is the event type of a cache invalidation broadcast.
const EventInvalidate = "catalog_invalidate"

// InvalidationEvent asks every replica to drop its cached catalog results,
// typically after the catalog was reseeded.
type InvalidationEvent struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInvalidationEvent builds a broadcast with a fresh ID.
func NewInvalidationEvent(reason string) InvalidationEvent {
	return InvalidationEvent{
		ID:        uuid.NewString(),
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}

// Broadcast publishes an invalidation event.
func Broadcast(ctx context.Context, pub kafka.Publisher, reason string) error {
	ev := NewInvalidationEvent(reason)
	return pub.Publish(ctx, kafka.Event{Key: ev.ID, Type: EventInvalidate, Value: ev})
}

// InvalidationHandler flushes the cache for every invalidation event
// received. Store errors are returned so the message is redelivered.
func (c *QueryCache) InvalidationHandler() kafka.MessageHandler {
	return kafka.JSONHandler(func(ctx context.Context, key string, ev InvalidationEvent) error {
		deleted, err := c.Invalidate(ctx)
		if err != nil {
			return err
		}
		c.logger.Info("cache invalidated by broadcast", "event_id", ev.ID, "reason", ev.Reason, "keys_deleted", deleted)
		return nil
	})
}
