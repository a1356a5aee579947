// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	"github.com/10037-kasarango1/Conjunta/pkg/telemetry"
	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
)

var hideInternal atomic.Bool

// HideInternalErrors makes WriteError answer 5xx with the bare status text.
func HideInternalErrors(on bool) {
	hideInternal.Store(on)
}

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors; every 5xx is
// reported to Sentry.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		telemetry.CaptureError(r.Context(), err)
	}
	httpx.JSONError(w, status, httpx.SafeError(err, status, hideInternal.Load()))
}

// StatusFor returns the HTTP status code err maps to.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, inventorydomain.ErrProductNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, inventorydomain.ErrDuplicateName):
		return http.StatusConflict // 409
	case errors.Is(err, inventorydomain.ErrValidation):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, inventorydomain.ErrPersistence):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
