package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"memodeck-client/internal/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestHasCredential(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected bool
	}{
		{"empty token", "", false},
		{"opaque token", "mk_live_abc123", true},
		{"valid jwt", "", true},    // filled below
		{"expired jwt", "", false}, // filled below
	}
	tests[2].token = signedToken(t, time.Now().Add(time.Hour))
	tests[3].token = signedToken(t, time.Now().Add(-time.Hour))

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient("http://localhost", tc.token)
			if got := c.HasCredential(); got != tc.expected {
				t.Errorf("HasCredential() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDoWithoutCredential(t *testing.T) {
	c := NewClient("http://localhost", "")
	_, err := c.GetJob(context.Background(), "job-1")
	if !errors.Is(err, ErrNoCredential) {
		t.Errorf("Expected ErrNoCredential, got %v", err)
	}
}

func TestRequestCarriesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"job": models.GenerationJob{ID: "job-1", Status: models.JobStatusProcessing}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "opaque-token")
	job, err := c.GetJob(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if gotAuth != "Bearer opaque-token" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
	if job.Status != models.JobStatusProcessing {
		t.Errorf("Unexpected job: %+v", job)
	}
}

func TestErrorEnvelopeDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "RATE_LIMITED", "message": "Slow down"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "opaque-token")
	_, err := c.GetJob(context.Background(), "job-1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusTooManyRequests || apiErr.Code != "RATE_LIMITED" || apiErr.Message != "Slow down" {
		t.Errorf("Envelope not decoded: %+v", apiErr)
	}
}

func TestErrorWithoutEnvelopeFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "opaque-token")
	_, err := c.GetJob(context.Background(), "job-1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Errorf("Expected a non-empty fallback message")
	}
}

func TestSubmitGenerationDefaultsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/flashcards/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req models.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Topic != "goroutines" {
			t.Errorf("Topic not forwarded, got %q", req.Topic)
		}
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-9", "deck_id": "deck-9"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "opaque-token")
	resp, err := c.SubmitGeneration(context.Background(), models.GenerateRequest{Topic: "goroutines", NumCards: 10})
	if err != nil {
		t.Fatalf("SubmitGeneration returned error: %v", err)
	}
	if resp.JobID != "job-9" || resp.DeckID != "deck-9" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if resp.Status != models.JobStatusQueued {
		t.Errorf("Expected defaulted queued status, got %q", resp.Status)
	}
}

func TestRateCardPath(t *testing.T) {
	var gotPath string
	var gotReq models.CardRatingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "opaque-token")
	err := c.RateCard(context.Background(), "card-7", models.CardRatingRequest{Rating: "good", StudyTimeSeconds: 9})
	if err != nil {
		t.Fatalf("RateCard returned error: %v", err)
	}
	if gotPath != "/api/v1/flashcards/cards/card-7/rating" {
		t.Errorf("Unexpected path %s", gotPath)
	}
	if gotReq.Rating != "good" || gotReq.StudyTimeSeconds != 9 {
		t.Errorf("Rating not forwarded: %+v", gotReq)
	}
}

func TestSetTokenReplacesCredential(t *testing.T) {
	c := NewClient("http://localhost", "")
	if c.HasCredential() {
		t.Fatalf("Expected no credential initially")
	}
	c.SetToken("fresh-token")
	if !c.HasCredential() {
		t.Errorf("Expected credential after SetToken")
	}
}
