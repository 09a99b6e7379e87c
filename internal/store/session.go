package store

import (
	"context"
	"encoding/json"
	"log"

	"memodeck-client/internal/models"
)

// currentSessionKey is the single slot holding the active study session.
// A new session start overwrites whatever was there (last writer wins).
const currentSessionKey = "current_study_session"

// SessionStore is the local mirror of the current study session.
type SessionStore struct {
	kv KV
}

func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// Current returns the persisted session, or nil when the slot is empty.
// An unparseable record is logged and treated as absence.
func (s *SessionStore) Current(ctx context.Context) *models.StudySession {
	raw, ok, err := s.kv.Get(ctx, currentSessionKey)
	if err != nil {
		log.Printf("session store: failed to read current session: %v", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var session models.StudySession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		log.Printf("session store: discarding corrupt session record: %v", err)
		return nil
	}
	return &session
}

// SaveCurrent overwrites the slot with the given session.
func (s *SessionStore) SaveCurrent(ctx context.Context, session *models.StudySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, currentSessionKey, string(data))
}

// Clear empties the slot. No network effect.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, currentSessionKey)
}
