package api

import (
	"context"
	"encoding/json"
	"net/http"

	"memodeck-client/internal/models"
)

// StartSession asks the API for a fresh study session on a deck.
func (c *Client) StartSession(ctx context.Context, deckID string) (*models.StudySession, error) {
	req := map[string]string{"deck_id": deckID}
	var resp struct {
		Session models.StudySession `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/study-sessions/start", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

// StartActivityTiming opens a timing record and returns its ID, which is
// later passed to EndActivityTiming.
func (c *Client) StartActivityTiming(ctx context.Context, sessionID, activityType string, details json.RawMessage) (string, error) {
	req := map[string]interface{}{
		"activity_type":    activityType,
		"activity_details": details,
	}
	var resp struct {
		Timing models.ActivityTimingRecord `json:"timing"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/study-sessions/"+sessionID+"/timings", req, &resp); err != nil {
		return "", err
	}
	return resp.Timing.ID, nil
}

// EndActivityTiming closes an open timing record. The duration is measured
// by the caller, not derived from wall clock here, so suspended clients
// do not inflate it.
func (c *Client) EndActivityTiming(ctx context.Context, timingID string, durationSeconds int) error {
	req := map[string]int{"duration_seconds": durationSeconds}
	return c.do(ctx, http.MethodPost, "/api/v1/study-timings/"+timingID+"/end", req, nil)
}

// RecordActivityTiming writes a complete record in one call, for activities
// too short to warrant the open/close pair.
func (c *Client) RecordActivityTiming(ctx context.Context, sessionID, activityType string, durationSeconds int, details json.RawMessage) error {
	req := map[string]interface{}{
		"activity_type":    activityType,
		"duration_seconds": durationSeconds,
		"activity_details": details,
	}
	return c.do(ctx, http.MethodPost, "/api/v1/study-sessions/"+sessionID+"/timings/record", req, nil)
}

// UpdateSessionTiming pushes authoritative aggregate totals at
// session-boundary checkpoints.
func (c *Client) UpdateSessionTiming(ctx context.Context, sessionID string, totals models.SessionTotals) error {
	return c.do(ctx, http.MethodPut, "/api/v1/study-sessions/"+sessionID+"/timing", totals, nil)
}

// GetTimingSummary queries the server's full per-session breakdown.
func (c *Client) GetTimingSummary(ctx context.Context, sessionID string) (*models.StudyTimingSummary, error) {
	var resp struct {
		Summary models.StudyTimingSummary `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/study-sessions/"+sessionID+"/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}
