package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorKind maps an error to its HTTP status and the kind reported to clients.
func errorKind(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrApplianceUnavailable):
		return http.StatusConflict, "ApplianceUnavailable"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "InvalidTransition"
	case errors.Is(err, domain.ErrAlreadyPaid):
		return http.StatusConflict, "AlreadyPaid"
	case errors.Is(err, domain.ErrDurationOutOfRange):
		return http.StatusUnprocessableEntity, "DurationOutOfRange"
	case errors.Is(err, domain.ErrMissingReason):
		return http.StatusUnprocessableEntity, "MissingReason"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "InvalidAmount"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "InvalidInput"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthorized"
	default:
		return http.StatusInternalServerError, "Internal"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := errorKind(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

func writeStatusError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
