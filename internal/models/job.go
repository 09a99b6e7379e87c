package models

import (
	"encoding/json"
	"time"
)

// Job statuses reported by the Memodeck API, plus the local "idle" state
// used when no generation is in flight.
const (
	JobStatusIdle       = "idle"
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type GenerationJob struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"` // "queued" | "processing" | "completed" | "failed"
	DeckID    string     `json:"deck_id"`
	Message   string     `json:"message,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DoneAt    *time.Time `json:"completed_at,omitempty"`
}

// Terminal reports whether no further status transition is expected.
func (j *GenerationJob) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

type GenerateRequest struct {
	Topic      string          `json:"topic"`
	Title      string          `json:"title,omitempty"`
	NumCards   int             `json:"num_cards,omitempty"`
	Strategy   string          `json:"strategy,omitempty"` // "term_definition" | "question_answer"
	ConfigJSON json.RawMessage `json:"config,omitempty"`
}

type GenerateResponse struct {
	JobID  string `json:"job_id"`
	DeckID string `json:"deck_id"`
	Status string `json:"status"`
}

// WebSocket message types pushed to the UI

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type CompletedEvent struct {
	JobID  string `json:"job_id"`
	DeckID string `json:"deck_id"`
}

type ErrorEvent struct {
	JobID        string `json:"job_id,omitempty"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type TickEvent struct {
	SessionID      string `json:"session_id,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
}

// API Error response envelope (shared by the remote API and the local surface)

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
