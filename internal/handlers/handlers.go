package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"memodeck-client/internal/api"
	"memodeck-client/internal/models"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// writeRemoteError translates API client failures into local responses:
// a missing credential is the caller's problem, an APIError passes
// through, anything else is an upstream fault.
func writeRemoteError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, api.ErrNoCredential) {
		writeJSON(w, http.StatusUnauthorized, errorResp("NO_CREDENTIAL", "No valid API credential configured", r))
		return
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		code := apiErr.Code
		if code == "" {
			code = "UPSTREAM_ERROR"
		}
		writeJSON(w, status, errorResp(code, apiErr.Message, r))
		return
	}

	writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", fallback, r))
}
