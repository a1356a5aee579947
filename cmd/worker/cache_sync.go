package main

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/10037-kasarango1/Conjunta/pkg/events"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
	inventoryEvents "github.com/10037-kasarango1/Conjunta/services/inventory/domain/events"
)

// supportedVersion is the newest event schema this worker understands.
const supportedVersion = 1

// productEvictor is the subset of *cache.ProductCache the worker uses.
type productEvictor interface {
	Delete(ctx context.Context, id int64) error
}

// cacheSync evicts the Redis read model on product lifecycle events. It
// never writes snapshots: topics are consumed independently, so a late
// event could otherwise restore a deleted or superseded product. The
// read-through in InventoryService is the only writer.
// Handlers must be idempotent: EventBus retries a failing handler before
// moving the event to its poison topic.
type cacheSync struct {
	cache productEvictor
	log   logger.Logger
}

func newCacheSync(c productEvictor, log logger.Logger) *cacheSync {
	return &cacheSync{cache: c, log: log}
}

// handleUpdated evicts the pre-update entry. It repeats the API's inline
// eviction, which is best effort.
func (s *cacheSync) handleUpdated(ctx context.Context, msg *message.Message) error {
	if !s.accepts(ctx, msg) {
		return nil
	}
	evt, err := events.DecodeJSON[inventoryEvents.ProductUpdatedEvent](msg)
	if err != nil {
		// A payload that never decodes cannot succeed on retry.
		s.log.ErrorContext(ctx, "dropping malformed product.updated event", "error", err)
		return nil
	}
	return s.evict(ctx, evt.Product.ID)
}

// handleDeleted evicts the product.
func (s *cacheSync) handleDeleted(ctx context.Context, msg *message.Message) error {
	if !s.accepts(ctx, msg) {
		return nil
	}
	evt, err := events.DecodeJSON[inventoryEvents.ProductDeletedEvent](msg)
	if err != nil {
		s.log.ErrorContext(ctx, "dropping malformed product.deleted event", "error", err)
		return nil
	}
	return s.evict(ctx, evt.ProductID)
}

func (s *cacheSync) evict(ctx context.Context, id int64) error {
	if err := s.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("evict product %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "cache evicted", "product_id", id)
	return nil
}

// accepts reports whether the message carries a schema version this worker
// can decode. Messages without the metadata are treated as version 1.
func (s *cacheSync) accepts(ctx context.Context, msg *message.Message) bool {
	raw := msg.Metadata.Get(events.MetaEventVersion)
	if raw == "" {
		return true
	}
	if v := events.EventVersion(msg); v >= 1 && v <= supportedVersion {
		return true
	}
	s.log.WarnContext(ctx, "skipping event with unsupported version",
		"event_id", msg.Metadata.Get(events.MetaEventID), "event_version", raw)
	return false
}
