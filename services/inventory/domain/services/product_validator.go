package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// ValidateName enforces business rules for ProductName beyond the structural
// constraints enforced by the ProductName constructor.
//
// Business rules:
//   - No leading or trailing whitespace; NewProductName trims, so this only
//     rejects names converted from a raw string
//   - No control characters (Unicode category Cc)
func ValidateName(name models.ProductName) error {
	s := name.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name must not be blank")
	}

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("name must not contain control characters")
		}
	}

	return nil
}

// ValidateDraft performs cross-field validation on a draft before any store
// call. Drafts built with models.NewProductDraft already satisfy the
// structural rules; this also guards drafts assembled field by field.
func ValidateDraft(d models.ProductDraft) error {
	if err := ValidateName(d.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("description must not be blank")
	}

	if !d.Stock.Valid() {
		return fmt.Errorf("stock must be Available or Unavailable")
	}

	if d.Cantidad < 0 {
		return fmt.Errorf("cantidad must not be negative")
	}

	return nil
}
