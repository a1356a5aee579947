package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics for the product lifecycle.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicProductCreated).
const (
	TopicProductCreated = "inventory.product.created"
	TopicProductUpdated = "inventory.product.updated"
	TopicProductDeleted = "inventory.product.deleted"
)

// ProductSnapshot is the full product state carried by created/updated events.
type ProductSnapshot struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stock       string `json:"stock"`
	Cantidad    int64  `json:"cantidad"`
}

// ProductCreatedEvent is published after a new Product is persisted.
type ProductCreatedEvent struct {
	EventID    uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int             `json:"version"`  // Schema version; increment on breaking changes
	Product    ProductSnapshot `json:"product"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ProductUpdatedEvent is published after a patch is applied. ChangeType is
// the classification of the audit entry written before the patch.
type ProductUpdatedEvent struct {
	EventID         uuid.UUID       `json:"event_id"`
	Version         int             `json:"version"`
	Product         ProductSnapshot `json:"product"`
	QuantityInitial int64           `json:"quantity_initial"`
	ChangeType      string          `json:"change_type"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// ProductDeletedEvent is published after a product is removed.
type ProductDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ProductID  int64     `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
