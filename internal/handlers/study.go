package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"memodeck-client/internal/models"
	"memodeck-client/internal/tracker"
)

type StudyHandler struct {
	tracker *tracker.Tracker
}

func NewStudyHandler(t *tracker.Tracker) *StudyHandler {
	return &StudyHandler{tracker: t}
}

// Start begins a new study session and overwrites the local slot.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeckID string `json:"deck_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.DeckID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "deck_id is required", r))
		return
	}

	session, err := h.tracker.StartSession(r.Context(), req.DeckID)
	if err != nil {
		writeRemoteError(w, r, err, "Failed to start study session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"session": session})
}

// Current returns the locally mirrored session, if any.
func (h *StudyHandler) Current(w http.ResponseWriter, r *http.Request) {
	session := h.tracker.CurrentSession(r.Context())
	if session == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active study session", r))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// ClearCurrent empties the local slot.
func (h *StudyHandler) ClearCurrent(w http.ResponseWriter, r *http.Request) {
	h.tracker.ClearCurrentSession(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Study session cleared"})
}

// Review records one flashcard review against the current session.
func (h *StudyHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID           string `json:"card_id"`
		Rating           string `json:"rating"`
		StudyTimeSeconds int    `json:"study_time_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.CardID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "card_id is required", r))
		return
	}
	if req.Rating != "again" && req.Rating != "hard" && req.Rating != "good" && req.Rating != "easy" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "rating must be again, hard, good, or easy", r))
		return
	}
	if req.StudyTimeSeconds < 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "study_time_seconds must not be negative", r))
		return
	}

	if !h.tracker.RecordFlashcardReview(r.Context(), req.CardID, req.Rating, req.StudyTimeSeconds) {
		writeJSON(w, http.StatusConflict, errorResp("REVIEW_NOT_RECORDED", "Review was not recorded", r))
		return
	}

	session := h.tracker.CurrentSession(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// OpenTiming opens an activity timing record.
func (h *StudyHandler) OpenTiming(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req struct {
		ActivityType string          `json:"activity_type"`
		Details      json.RawMessage `json:"activity_details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !validActivityType(req.ActivityType) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "activity_type must be flashcard, quiz, or exercise", r))
		return
	}

	timingID, ok := h.tracker.StartActivityTiming(r.Context(), sessionID, req.ActivityType, req.Details)
	if !ok {
		writeJSON(w, http.StatusBadGateway, errorResp("TIMING_NOT_RECORDED", "Failed to open timing record", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"timing_id": timingID})
}

// CloseTiming closes an open timing record with a caller-measured duration.
func (h *StudyHandler) CloseTiming(w http.ResponseWriter, r *http.Request) {
	timingID := chi.URLParam(r, "id")

	var req struct {
		DurationSeconds int `json:"duration_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.DurationSeconds < 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "duration_seconds must not be negative", r))
		return
	}

	if !h.tracker.EndActivityTiming(r.Context(), timingID, req.DurationSeconds) {
		writeJSON(w, http.StatusBadGateway, errorResp("TIMING_NOT_RECORDED", "Failed to close timing record", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Timing recorded"})
}

// RecordTiming writes a complete timing record in one call.
func (h *StudyHandler) RecordTiming(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req struct {
		ActivityType    string          `json:"activity_type"`
		DurationSeconds int             `json:"duration_seconds"`
		Details         json.RawMessage `json:"activity_details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if !validActivityType(req.ActivityType) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "activity_type must be flashcard, quiz, or exercise", r))
		return
	}
	if req.DurationSeconds < 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "duration_seconds must not be negative", r))
		return
	}

	if !h.tracker.RecordActivityTiming(r.Context(), sessionID, req.ActivityType, req.DurationSeconds, req.Details) {
		writeJSON(w, http.StatusBadGateway, errorResp("TIMING_NOT_RECORDED", "Failed to record timing", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Timing recorded"})
}

// UpdateTotals pushes aggregate session totals at a checkpoint.
func (h *StudyHandler) UpdateTotals(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var totals models.SessionTotals
	if err := json.NewDecoder(r.Body).Decode(&totals); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if !h.tracker.UpdateSessionTiming(r.Context(), sessionID, totals) {
		writeJSON(w, http.StatusBadGateway, errorResp("TIMING_NOT_RECORDED", "Failed to update session totals", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session totals updated"})
}

// Summary queries the server's authoritative per-session breakdown.
func (h *StudyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	summary, ok := h.tracker.GetSummary(r.Context(), sessionID)
	if !ok {
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Failed to load timing summary", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"summary": summary})
}

// TimerStart resumes the local study clock.
func (h *StudyHandler) TimerStart(w http.ResponseWriter, r *http.Request) {
	h.tracker.SetActive(true)
	writeJSON(w, http.StatusOK, map[string]interface{}{"elapsed_seconds": h.tracker.Elapsed()})
}

// TimerStop pauses the local study clock.
func (h *StudyHandler) TimerStop(w http.ResponseWriter, r *http.Request) {
	h.tracker.SetActive(false)
	writeJSON(w, http.StatusOK, map[string]interface{}{"elapsed_seconds": h.tracker.Elapsed()})
}

func validActivityType(activityType string) bool {
	return activityType == models.ActivityFlashcard ||
		activityType == models.ActivityQuiz ||
		activityType == models.ActivityExercise
}
