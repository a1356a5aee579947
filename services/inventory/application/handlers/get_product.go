package handlers

import (
	"net/http"

	"github.com/10037-kasarango1/Conjunta/pkg/errhttp"
	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

// GetProductHandler handles GET /products/{id} requests.
type GetProductHandler struct {
	svc *appsvcs.Services
}

// NewGetProductHandler returns a GetProductHandler backed by the given services.
func NewGetProductHandler(svc *appsvcs.Services) *GetProductHandler {
	return &GetProductHandler{svc: svc}
}

// Execute returns a single product.
//
//	@Summary	Get product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"Product ID"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (h *GetProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Inventory.GetByID(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toProductResponse(p))
}
