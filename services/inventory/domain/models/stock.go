package models

import (
	"fmt"
	"strings"
)

// StockStatus is the availability of a product. The values are the labels
// stored in the products collection.
type StockStatus string

const (
	StockAvailable   StockStatus = "Disponible"
	StockUnavailable StockStatus = "No disponible"
)

// ParseStockStatus accepts the English identifiers (Available, Unavailable)
// and the stored labels, case-insensitively.
func ParseStockStatus(s string) (StockStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available", "disponible":
		return StockAvailable, nil
	case "unavailable", "no disponible":
		return StockUnavailable, nil
	case "":
		return "", fmt.Errorf("stock is required")
	default:
		return "", fmt.Errorf("stock must be Available or Unavailable, got %q", s)
	}
}

// ParseStockFilter is ParseStockStatus for optional filters: an empty string
// yields the zero StockStatus, meaning "no filter".
func ParseStockFilter(s string) (StockStatus, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return ParseStockStatus(s)
}

// Valid reports whether s is one of the two known statuses.
func (s StockStatus) Valid() bool {
	return s == StockAvailable || s == StockUnavailable
}

func (s StockStatus) String() string {
	return string(s)
}
