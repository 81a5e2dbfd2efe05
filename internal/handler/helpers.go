package handler

import (
	"errors"
	"net/http"

	"aichat/internal/domain"
	"aichat/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Completion provider
// failures surface as 502 with the provider's message passed through; 401
// stays reserved for the caller's own credential. Unexpected errors leak no
// detail.
func handleError(w http.ResponseWriter, err error) {
	var completionErr *domain.CompletionError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrMissingCredential), errors.Is(err, domain.ErrProviderUnauthorized):
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &completionErr):
		httputil.RespondError(w, http.StatusBadGateway, completionErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PathParam extracts a named path parameter and writes a 400 when missing.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}

// HealthCheck reports liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
