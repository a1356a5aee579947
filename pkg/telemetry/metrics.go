package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const inventoryMeterName = "github.com/10037-kasarango1/Conjunta/services/inventory"

// InventoryMetrics records inventory business counters. All methods are
// no-ops on a nil receiver.
type InventoryMetrics struct {
	productsCreated metric.Int64Counter
	changesRecorded metric.Int64Counter
	queries         metric.Int64Counter
}

// NewInventoryMetrics registers the inventory counters on mp.
// Pass otel.GetMeterProvider() after Setup so they are exported on /metrics.
func NewInventoryMetrics(mp metric.MeterProvider) (*InventoryMetrics, error) {
	meter := mp.Meter(inventoryMeterName)

	created, err := meter.Int64Counter("inventory.products.created",
		metric.WithDescription("Products successfully created"),
	)
	if err != nil {
		return nil, fmt.Errorf("products created counter: %w", err)
	}

	changes, err := meter.Int64Counter("inventory.changes.recorded",
		metric.WithDescription("Quantity change records appended, by change type"),
	)
	if err != nil {
		return nil, fmt.Errorf("changes recorded counter: %w", err)
	}

	queries, err := meter.Int64Counter("inventory.queries",
		metric.WithDescription("Composed product queries issued to the store"),
	)
	if err != nil {
		return nil, fmt.Errorf("queries counter: %w", err)
	}

	return &InventoryMetrics{
		productsCreated: created,
		changesRecorded: changes,
		queries:         queries,
	}, nil
}

func (m *InventoryMetrics) ProductCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.productsCreated.Add(ctx, 1)
}

func (m *InventoryMetrics) ChangeRecorded(ctx context.Context, changeType string) {
	if m == nil {
		return
	}
	m.changesRecorded.Add(ctx, 1, metric.WithAttributes(attribute.String("change_type", changeType)))
}

func (m *InventoryMetrics) QueryIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.queries.Add(ctx, 1)
}
