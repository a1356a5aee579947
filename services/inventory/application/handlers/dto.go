package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	pkgvalidator "github.com/10037-kasarango1/Conjunta/pkg/validator"
	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// ProductRequest is the request body for POST /products and PUT /products/{id}.
// Cantidad accepts a JSON number or a numeric string.
type ProductRequest struct {
	Name        string      `json:"name"        validate:"required,max=255"      example:"Martillo"`
	Description string      `json:"description" validate:"required"              example:"Mango de madera"`
	Stock       string      `json:"stock"       validate:"required,stock"        example:"Available"`
	Cantidad    json.Number `json:"cantidad"    validate:"required,cantidad"     example:"12" swaggertype:"integer"`
} // @name ProductRequest

// ProductResponse is a product as returned by the API.
type ProductResponse struct {
	ID          int64  `json:"id"          example:"1"`
	Name        string `json:"name"        example:"Martillo"`
	Description string `json:"description" example:"Mango de madera"`
	Stock       string `json:"stock"       example:"Disponible"`
	Cantidad    int64  `json:"cantidad"    example:"12"`
} // @name ProductResponse

// ChangeRecordResponse is one entry of the change history.
type ChangeRecordResponse struct {
	ID              int64  `json:"id"               example:"1"`
	ProductName     string `json:"product_name"     example:"Martillo"`
	QuantityInitial int64  `json:"quantity_initial" example:"5"`
	QuantityFinal   int64  `json:"quantity_final"   example:"2"`
	ChangeType      string `json:"change_type"      example:"outflow"`
	ChangeDate      string `json:"change_date"      example:"2024-03-09"`
	ChangeTime      string `json:"change_time"      example:"14:05:07"`
} // @name ChangeRecordResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error  string            `json:"error" example:"product not found"`
	Fields map[string]string `json:"fields,omitempty"`
} // @name ErrorResponse

// productQuery holds the query-string inputs shared by list and export.
type productQuery struct {
	Search string `json:"search"`
	Stock  string `json:"stock"  validate:"stock_filter"`
	Order  string `json:"order"  validate:"sort_order"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          int64(p.ID),
		Name:        p.Name.String(),
		Description: p.Description,
		Stock:       p.Stock.String(),
		Cantidad:    int64(p.Cantidad),
	}
}

func toProductResponses(ps []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(ps))
	for i, p := range ps {
		out[i] = toProductResponse(p)
	}
	return out
}

func toChangeResponses(rs []models.ChangeRecord) []ChangeRecordResponse {
	out := make([]ChangeRecordResponse, len(rs))
	for i, r := range rs {
		out[i] = ChangeRecordResponse{
			ID:              r.ID,
			ProductName:     r.ProductName,
			QuantityInitial: int64(r.QuantityInitial),
			QuantityFinal:   int64(r.QuantityFinal),
			ChangeType:      string(r.ChangeType),
			ChangeDate:      r.ChangeDate,
			ChangeTime:      r.ChangeTime,
		}
	}
	return out
}

// parseQueryParams reads search, stock and order from the query string.
// It writes a 422 response and returns false when they are malformed.
func parseQueryParams(w http.ResponseWriter, r *http.Request) (models.QueryParams, bool) {
	v := r.URL.Query()
	q := productQuery{Search: v.Get("search"), Stock: v.Get("stock"), Order: v.Get("order")}
	if err := pkgvalidator.Validate(&q); err != nil {
		httpx.ValidationError(w, pkgvalidator.FormatValidationErrors(err))
		return models.QueryParams{}, false
	}

	// Both parse cleanly once validated.
	stock, _ := models.ParseStockFilter(q.Stock)
	order, _ := models.ParseSortOrder(q.Order)
	return models.QueryParams{SearchTerm: q.Search, StockFilter: stock, Order: order}, true
}

// productID parses the {id} path parameter.
func productID(r *http.Request) (models.ProductID, error) {
	id, err := models.ParseProductID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
	}
	return id, nil
}
