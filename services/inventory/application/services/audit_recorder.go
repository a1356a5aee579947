package services

import (
	"context"
	"fmt"
	"time"

	"github.com/10037-kasarango1/Conjunta/pkg/telemetry"
	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/repositories"
	domainsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/domain/services"
)

// AuditRecorder appends classified quantity transitions to the change log.
// Entries are never retracted, even when the update they describe fails.
type AuditRecorder struct {
	changes repositories.ChangeLogRepository
	metrics *telemetry.InventoryMetrics
	now     func() time.Time
}

// NewAuditRecorder returns a recorder stamping entries with the local time.
func NewAuditRecorder(changes repositories.ChangeLogRepository, metrics *telemetry.InventoryMetrics) *AuditRecorder {
	return &AuditRecorder{changes: changes, metrics: metrics, now: time.Now}
}

// Record classifies initial to final, stamps the current date and time and
// persists the entry. Append failures are reported as ErrPersistence.
func (a *AuditRecorder) Record(ctx context.Context, productName string, initial, final models.Quantity) (models.ChangeRecord, error) {
	rec := models.NewChangeRecord(productName, initial, final, domainsvcs.Classify(initial, final), a.now())

	saved, err := a.changes.Append(ctx, rec)
	if err != nil {
		return models.ChangeRecord{}, fmt.Errorf("%w: append change record: %w", inventorydomain.ErrPersistence, err)
	}

	a.metrics.ChangeRecorded(ctx, string(saved.ChangeType))
	return saved, nil
}

// List returns every change record in insertion order.
func (a *AuditRecorder) List(ctx context.Context) ([]models.ChangeRecord, error) {
	records, err := a.changes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list change records: %w", inventorydomain.ErrPersistence, err)
	}
	return records, nil
}
