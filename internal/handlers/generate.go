package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"memodeck-client/internal/api"
	"memodeck-client/internal/models"
	"memodeck-client/internal/poller"
)

type GenerateHandler struct {
	poller *poller.Poller
	api    *api.Client
}

func NewGenerateHandler(p *poller.Poller, apiClient *api.Client) *GenerateHandler {
	return &GenerateHandler{poller: p, api: apiClient}
}

// Generate validates the topic and hands the request to the poller. The
// outcome arrives asynchronously over the event feed; the response only
// confirms the job was taken.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "topic is required", r))
		return
	}

	if req.NumCards <= 0 {
		req.NumCards = 10
	}

	if req.Strategy == "" {
		req.Strategy = "term_definition"
	}
	if req.Strategy == "definitions" {
		req.Strategy = "term_definition"
	}
	if req.Strategy == "qa" {
		req.Strategy = "question_answer"
	}
	if req.Strategy != "term_definition" && req.Strategy != "question_answer" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "strategy must be term_definition or question_answer", r))
		return
	}

	if err := h.poller.Submit(r.Context(), req); err != nil {
		if errors.Is(err, poller.ErrJobInFlight) {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "A generation job is already in flight", r))
			return
		}
		if errors.Is(err, poller.ErrSubmitFailed) {
			writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Failed to submit generation request", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to submit generation request", r))
		return
	}

	jobID, status := h.poller.Status()
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": jobID,
		"status": status,
	})
}

// Status reports the poller's last-known job state.
func (h *GenerateHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID, status := h.poller.Status()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": jobID,
		"status": status,
	})
}

// Cancel abandons the in-flight generation, if any.
func (h *GenerateHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.poller.Cancel()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Generation cancelled"})
}

// GetJob proxies one job status query to the remote API.
func (h *GenerateHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.api.GetJob(r.Context(), jobID)
	if err != nil {
		writeRemoteError(w, r, err, "Failed to fetch job")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}
