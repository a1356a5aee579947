package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/10037-kasarango1/Conjunta/pkg/database"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// ChangeLogRepository implements repositories.ChangeLogRepository against the
// product_changes table. Rows are never updated or deleted.
type ChangeLogRepository struct {
	q database.Querier
}

// NewChangeLogRepository returns a ChangeLogRepository running its statements on q.
func NewChangeLogRepository(q database.Querier) *ChangeLogRepository {
	return &ChangeLogRepository{q: q}
}

// Append inserts rec and returns it with the store-assigned ID and RecordedAt.
func (r *ChangeLogRepository) Append(ctx context.Context, rec models.ChangeRecord) (models.ChangeRecord, error) {
	query, args, err := database.Builder().
		Insert("product_changes").
		Columns("product_name", "quantity_initial", "quantity_final", "change_type", "change_date", "change_time").
		Values(
			rec.ProductName,
			int64(rec.QuantityInitial),
			int64(rec.QuantityFinal),
			string(rec.ChangeType),
			sq.Expr("?::text::date", rec.ChangeDate),
			sq.Expr("?::text::time", rec.ChangeTime),
		).
		Suffix("RETURNING id, recorded_at").
		ToSql()
	if err != nil {
		return models.ChangeRecord{}, fmt.Errorf("build insert: %w", err)
	}

	var (
		id         int64
		recordedAt time.Time
	)
	if err := r.q.QueryRow(ctx, query, args...).Scan(&id, &recordedAt); err != nil {
		return models.ChangeRecord{}, mapError(err, "product_change", rec.ProductName)
	}
	rec.ID = id
	rec.RecordedAt = recordedAt
	return rec, nil
}

// List returns every change record in insertion order.
func (r *ChangeLogRepository) List(ctx context.Context) ([]models.ChangeRecord, error) {
	query, args, err := database.Builder().
		Select(
			"id",
			"product_name",
			"quantity_initial",
			"quantity_final",
			"change_type",
			"to_char(change_date, 'YYYY-MM-DD')",
			"to_char(change_time, 'HH24:MI:SS')",
			"recorded_at",
		).
		From("product_changes").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "product_changes", "all")
	}
	defer rows.Close()

	var records []models.ChangeRecord
	for rows.Next() {
		var (
			rec        models.ChangeRecord
			initial    int64
			final      int64
			changeType string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.ProductName,
			&initial,
			&final,
			&changeType,
			&rec.ChangeDate,
			&rec.ChangeTime,
			&rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product change: %w", err)
		}
		rec.QuantityInitial = models.Quantity(initial)
		rec.QuantityFinal = models.Quantity(final)
		rec.ChangeType = models.ChangeType(changeType)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "product_changes", "all")
	}
	return records, nil
}
