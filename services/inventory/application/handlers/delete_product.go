package handlers

import (
	"net/http"

	"github.com/10037-kasarango1/Conjunta/pkg/errhttp"
	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

// DeleteProductHandler handles DELETE /products/{id} requests.
type DeleteProductHandler struct {
	svc *appsvcs.Services
}

// NewDeleteProductHandler returns a DeleteProductHandler backed by the given services.
func NewDeleteProductHandler(svc *appsvcs.Services) *DeleteProductHandler {
	return &DeleteProductHandler{svc: svc}
}

// Execute removes a product. Its change history is kept.
//
//	@Summary	Delete product
//	@Tags		products
//	@Param		id	path	int	true	"Product ID"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (h *DeleteProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	if err := h.svc.Inventory.Delete(r.Context(), id); err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.NoContent(w)
}
