package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/events"
)

func TestProductUpdatedEvent_JSONFieldNames(t *testing.T) {
	evt := events.ProductUpdatedEvent{
		EventID:         uuid.New(),
		Version:         1,
		Product:         events.ProductSnapshot{ID: 1, Name: "Widget", Stock: "Disponible", Cantidad: 2},
		QuantityInitial: 5,
		ChangeType:      "outflow",
		OccurredAt:      time.Now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "product", "quantity_initial", "change_type", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}

	product, ok := raw["product"].(map[string]interface{})
	if !ok {
		t.Fatalf("product is not an object: %s", data)
	}
	for _, field := range []string{"id", "name", "description", "stock", "cantidad"} {
		if _, ok := product[field]; !ok {
			t.Errorf("expected product field %q not found in: %s", field, data)
		}
	}
}

func TestTopics_AreDistinct(t *testing.T) {
	topics := map[string]bool{}
	for _, topic := range []string{events.TopicProductCreated, events.TopicProductUpdated, events.TopicProductDeleted} {
		if topic == "" {
			t.Fatal("topic must not be empty")
		}
		if topics[topic] {
			t.Fatalf("duplicate topic %q", topic)
		}
		topics[topic] = true
	}
}
