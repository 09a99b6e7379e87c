package api

import (
	"context"
	"net/http"

	"memodeck-client/internal/models"
)

// SubmitGeneration asks the API to generate a new deck for a topic.
// The returned job is in "queued" or "processing" state.
func (c *Client) SubmitGeneration(ctx context.Context, req models.GenerateRequest) (*models.GenerateResponse, error) {
	var resp models.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/flashcards/generate", req, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "" {
		resp.Status = models.JobStatusQueued
	}
	return &resp, nil
}

// GetJob issues one status query for a generation job. Pure query.
func (c *Client) GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	var resp struct {
		Job models.GenerationJob `json:"job"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/jobs/"+jobID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Job, nil
}
