package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ddanilov/daybook/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors to HTTP statuses. Store rejections come
// back as 400 to match the delete and signing contracts.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrStore):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrRateLimited):
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeJSON reads the request body into v; a malformed body is a
// validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrValidation
	}
	return nil
}
