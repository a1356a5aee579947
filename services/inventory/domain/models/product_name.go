package models

import (
	"fmt"
	"strings"
)

// ProductName is a value object representing a valid product name.
// Encapsulates structural rules: trimmed, non-blank, at most 255 bytes.
type ProductName string

const maxProductNameLength = 255

// NewProductName constructs a valid ProductName or returns an error if constraints are violated.
// Surrounding whitespace is dropped, so "Martillo " and "Martillo" are the
// same name.
func NewProductName(s string) (ProductName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("name is required")
	}
	if len(s) > maxProductNameLength {
		return "", fmt.Errorf("name must not exceed %d characters", maxProductNameLength)
	}
	return ProductName(s), nil
}

// String returns the underlying string value.
func (n ProductName) String() string {
	return string(n)
}
