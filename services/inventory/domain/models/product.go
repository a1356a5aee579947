package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ProductID is assigned by the store on creation and never changes.
type ProductID int64

// ParseProductID parses a path or CLI argument into a ProductID.
func ParseProductID(s string) (ProductID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return ProductID(n), nil
}

func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Product is the core aggregate for this bounded context.
type Product struct {
	ID          ProductID
	Name        ProductName
	Description string
	Stock       StockStatus
	Cantidad    Quantity
}

// ProductDraft carries the four operator-supplied fields used by both create
// and update. It has no identity.
type ProductDraft struct {
	Name        ProductName
	Description string
	Stock       StockStatus
	Cantidad    Quantity
}

// NewProductDraft parses raw operator input. All field errors are joined so
// the caller can report every problem at once.
func NewProductDraft(name, description, stock, cantidad string) (ProductDraft, error) {
	var (
		d    ProductDraft
		errs []error
		err  error
	)
	if d.Name, err = NewProductName(name); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(description) == "" {
		errs = append(errs, fmt.Errorf("description is required"))
	}
	d.Description = description
	if d.Stock, err = ParseStockStatus(stock); err != nil {
		errs = append(errs, err)
	}
	if d.Cantidad, err = ParseQuantity(cantidad); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return ProductDraft{}, errors.Join(errs...)
	}
	return d, nil
}

// Apply returns a copy of p with the draft's fields; the ID is kept.
func (d ProductDraft) Apply(p Product) Product {
	p.Name = d.Name
	p.Description = d.Description
	p.Stock = d.Stock
	p.Cantidad = d.Cantidad
	return p
}
