package handlers

import (
	"net/http"

	"github.com/10037-kasarango1/Conjunta/pkg/errhttp"
	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

// ListChangesHandler handles GET /product-changes requests.
type ListChangesHandler struct {
	svc *appsvcs.Services
}

// NewListChangesHandler returns a ListChangesHandler backed by the given services.
func NewListChangesHandler(svc *appsvcs.Services) *ListChangesHandler {
	return &ListChangesHandler{svc: svc}
}

// Execute returns the full change history, oldest first.
//
//	@Summary	List product changes
//	@Tags		product-changes
//	@Produce	json
//	@Success	200	{array}		ChangeRecordResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/product-changes [get]
func (h *ListChangesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Inventory.ListChanges(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toChangeResponses(records))
}
