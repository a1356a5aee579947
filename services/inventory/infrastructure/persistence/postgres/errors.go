package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
)

// mapError converts pgx/pgconn errors into inventory domain errors. The
// entity and key are only used to give the wrapped error some context.
func mapError(err error, entity string, key any) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %v: %w", entity, key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, key, inventorydomain.ErrProductNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %v: %w", entity, key, inventorydomain.ErrDuplicateName)
		case "23514", "22003": // check_violation, numeric_value_out_of_range
			return fmt.Errorf("%s %v: %w", entity, key, inventorydomain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %v: %w", entity, key, err)
}
