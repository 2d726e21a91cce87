package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dkoval/fincast/internal/adapter/http/dto"
	"github.com/dkoval/fincast/internal/adapter/http/middleware"
	"github.com/dkoval/fincast/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to an HTTP status and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapDomainError(err), err.Error(), "")
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrRowNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrScenarioNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateReference),
		errors.Is(err, domain.ErrDuplicateAccountName):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnbalancedEntry),
		errors.Is(err, domain.ErrEmptyEntry),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrEmptyScope):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrScopeResolution):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// userID extracts the ledger owner from the request context. The identity
// middleware guarantees it is present on API routes.
func userID(r *http.Request) string {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

// decodeJSON decodes a request body, reporting malformed input to the client.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses a required date query parameter.
func parseDateQuery(w http.ResponseWriter, r *http.Request, key string) (time.Time, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		writeError(w, http.StatusBadRequest, "missing '"+key+"' parameter", "")
		return time.Time{}, false
	}

	d, err := dto.ParseDate(val)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid '"+key+"' parameter", err.Error())
		return time.Time{}, false
	}
	return d, true
}
