package tracker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"memodeck-client/internal/models"
	"memodeck-client/internal/store"
)

// TimingAPI is the slice of the Memodeck API the tracker writes through.
type TimingAPI interface {
	StartSession(ctx context.Context, deckID string) (*models.StudySession, error)
	RateCard(ctx context.Context, cardID string, req models.CardRatingRequest) error
	StartActivityTiming(ctx context.Context, sessionID, activityType string, details json.RawMessage) (string, error)
	EndActivityTiming(ctx context.Context, timingID string, durationSeconds int) error
	RecordActivityTiming(ctx context.Context, sessionID, activityType string, durationSeconds int, details json.RawMessage) error
	UpdateSessionTiming(ctx context.Context, sessionID string, totals models.SessionTotals) error
	GetTimingSummary(ctx context.Context, sessionID string) (*models.StudyTimingSummary, error)
}

// Tracker keeps the crash-tolerant record of time spent studying: a fast
// local tick counter plus durable timing records behind the API, with the
// current session mirrored in the local store. Remote failures are logged
// and reported as false/nil; a timing glitch never crashes the study UI.
type Tracker struct {
	api      TimingAPI
	sessions *store.SessionStore
	timer    *Timer
}

func New(apiClient TimingAPI, sessions *store.SessionStore, tickObserver Observer) *Tracker {
	return &Tracker{
		api:      apiClient,
		sessions: sessions,
		timer:    NewTimer(time.Second, tickObserver),
	}
}

// StartSession requests a new session and overwrites the local slot with
// it. A missing credential is a precondition failure, never retried here.
func (t *Tracker) StartSession(ctx context.Context, deckID string) (*models.StudySession, error) {
	session, err := t.api.StartSession(ctx, deckID)
	if err != nil {
		log.Printf("tracker: failed to start session for deck %s: %v", deckID, err)
		return nil, err
	}

	if session.Status == "" {
		session.Status = models.SessionStatusActive
	}
	if session.StartTime.IsZero() {
		session.StartTime = time.Now().UTC()
	}

	if err := t.sessions.SaveCurrent(ctx, session); err != nil {
		log.Printf("tracker: failed to persist session %s locally: %v", session.ID, err)
	}

	t.timer.Reset()
	return session, nil
}

// SetActive starts or pauses the local tick counter.
func (t *Tracker) SetActive(active bool) {
	t.timer.SetActive(active)
}

// Elapsed returns the local counter's whole seconds.
func (t *Tracker) Elapsed() int {
	return t.timer.Elapsed()
}

// Stop cancels the tick timer. Called on teardown.
func (t *Tracker) Stop() {
	t.timer.Stop()
}

// StartActivityTiming opens a timing record and returns its handle.
func (t *Tracker) StartActivityTiming(ctx context.Context, sessionID, activityType string, details json.RawMessage) (string, bool) {
	timingID, err := t.api.StartActivityTiming(ctx, sessionID, activityType, details)
	if err != nil {
		log.Printf("tracker: failed to open %s timing for session %s: %v", activityType, sessionID, err)
		return "", false
	}
	return timingID, true
}

// EndActivityTiming closes an open record with the caller-measured duration.
func (t *Tracker) EndActivityTiming(ctx context.Context, timingID string, durationSeconds int) bool {
	if err := t.api.EndActivityTiming(ctx, timingID, durationSeconds); err != nil {
		log.Printf("tracker: failed to close timing %s: %v", timingID, err)
		return false
	}
	return true
}

// RecordActivityTiming writes an instant record in one call.
func (t *Tracker) RecordActivityTiming(ctx context.Context, sessionID, activityType string, durationSeconds int, details json.RawMessage) bool {
	if err := t.api.RecordActivityTiming(ctx, sessionID, activityType, durationSeconds, details); err != nil {
		log.Printf("tracker: failed to record %s timing for session %s: %v", activityType, sessionID, err)
		return false
	}
	return true
}

// RecordFlashcardReview sends one card review, then optimistically bumps
// the local session counters. The local mirror only moves when the remote
// write succeeded; it is reconciled against the server on GetSummary, not
// re-fetched here.
func (t *Tracker) RecordFlashcardReview(ctx context.Context, cardID, rating string, studyTimeSeconds int) bool {
	session := t.sessions.Current(ctx)
	if session == nil {
		log.Printf("tracker: no active study session, dropping review for card %s", cardID)
		return false
	}

	err := t.api.RateCard(ctx, cardID, models.CardRatingRequest{
		Rating:           rating,
		StudyTimeSeconds: studyTimeSeconds,
	})
	if err != nil {
		log.Printf("tracker: failed to record review for card %s: %v", cardID, err)
		return false
	}

	session.CardsStudied++
	session.TotalStudyTime += studyTimeSeconds
	if err := t.sessions.SaveCurrent(ctx, session); err != nil {
		log.Printf("tracker: failed to persist updated session %s: %v", session.ID, err)
	}
	return true
}

// UpdateSessionTiming pushes aggregate totals at a session boundary.
func (t *Tracker) UpdateSessionTiming(ctx context.Context, sessionID string, totals models.SessionTotals) bool {
	if err := t.api.UpdateSessionTiming(ctx, sessionID, totals); err != nil {
		log.Printf("tracker: failed to update timing totals for session %s: %v", sessionID, err)
		return false
	}
	return true
}

// GetSummary queries the server's authoritative breakdown.
func (t *Tracker) GetSummary(ctx context.Context, sessionID string) (*models.StudyTimingSummary, bool) {
	summary, err := t.api.GetTimingSummary(ctx, sessionID)
	if err != nil {
		log.Printf("tracker: failed to load timing summary for session %s: %v", sessionID, err)
		return nil, false
	}
	return summary, true
}

// CurrentSession reads the local slot. No network effect.
func (t *Tracker) CurrentSession(ctx context.Context) *models.StudySession {
	return t.sessions.Current(ctx)
}

// ClearCurrentSession empties the local slot. No network effect.
func (t *Tracker) ClearCurrentSession(ctx context.Context) {
	if err := t.sessions.Clear(ctx); err != nil {
		log.Printf("tracker: failed to clear current session: %v", err)
	}
}
