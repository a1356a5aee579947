package handlers

import (
	"net/http"

	"github.com/10037-kasarango1/Conjunta/pkg/errhttp"
	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

// ListProductsHandler handles GET /products requests.
type ListProductsHandler struct {
	svc *appsvcs.Services
}

// NewListProductsHandler returns a ListProductsHandler backed by the given services.
func NewListProductsHandler(svc *appsvcs.Services) *ListProductsHandler {
	return &ListProductsHandler{svc: svc}
}

// Execute runs the composed product query.
//
//	@Summary		Search products
//	@Description	Free-text search over name, description, stock and cantidad, combined with an optional stock filter and name ordering. At most RESULT_LIMIT rows are returned.
//	@Tags			products
//	@Produce		json
//	@Param			search	query		string	false	"Substring to match"
//	@Param			stock	query		string	false	"Available or Unavailable"
//	@Param			order	query		string	false	"asc or desc"
//	@Success		200		{array}		ProductResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/products [get]
func (h *ListProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	params, ok := parseQueryParams(w, r)
	if !ok {
		return
	}

	products, err := h.svc.Inventory.Query(r.Context(), params)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toProductResponses(products))
}
