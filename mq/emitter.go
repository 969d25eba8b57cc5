package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const eventsChannel = "voyagr-events"

// Index describes an entity change for downstream indexers/consumers.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id,omitempty"`
	ItemType   string `json:"item_type,omitempty"`
}

// Emitter publishes entity events to Redis pub/sub. A nil connection turns
// Emit into a no-op, which tests rely on.
type Emitter struct {
	conn *redis.Client
}

func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{conn: conn}
}

// Emit publishes an event. Best effort: failures are logged, never returned.
func (e *Emitter) Emit(ctx context.Context, eventName string, content Index) {
	if e == nil || e.conn == nil {
		return
	}

	payload := map[string]any{"event": eventName, "content": content}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Emit] marshal failed for %s: %v", eventName, err)
		return
	}

	if err := e.conn.Publish(ctx, eventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] publish failed for %s: %v", eventName, err)
	}
}
