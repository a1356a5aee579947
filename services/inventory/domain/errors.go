package domain

import "errors"

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrValidation indicates a missing or malformed field. It is raised
	// before any store call is made.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateName indicates a product with the same name already exists.
	ErrDuplicateName = errors.New("product already registered")

	// ErrProductNotFound indicates the target product does not exist (or vanished).
	ErrProductNotFound = errors.New("product not found")

	// ErrPersistence indicates the store call failed, including audit appends.
	ErrPersistence = errors.New("persistence failure")
)
