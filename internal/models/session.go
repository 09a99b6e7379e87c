package models

import (
	"encoding/json"
	"time"
)

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// Activity types accepted by the timing endpoints.
const (
	ActivityFlashcard = "flashcard"
	ActivityQuiz      = "quiz"
	ActivityExercise  = "exercise"
)

// StudySession is the locally mirrored record of the current study activity.
// CardsStudied and TotalStudyTime are optimistic counters; the server's
// aggregate (via the timing summary) is authoritative.
type StudySession struct {
	ID             string    `json:"id"`
	DeckID         string    `json:"deck_id"`
	StartTime      time.Time `json:"start_time"`
	CardsStudied   int       `json:"cards_studied"`
	TotalStudyTime int       `json:"total_study_time"` // seconds
	Status         string    `json:"status"`           // "active" | "completed"
}

// ActivityTimingRecord is one measured interval or instant of engagement.
// A record with no EndTime is open and must be closed via its timing ID.
type ActivityTimingRecord struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"session_id"`
	ActivityType    string          `json:"activity_type"` // "flashcard" | "quiz" | "exercise"
	StartTime       time.Time       `json:"start_time"`
	EndTime         *time.Time      `json:"end_time,omitempty"`
	DurationSeconds int             `json:"duration_seconds"`
	Details         json.RawMessage `json:"activity_details,omitempty"`
}

// StudyTimingSummary is the server's authoritative per-session breakdown.
type StudyTimingSummary struct {
	SessionID        string `json:"session_id"`
	TotalSeconds     int    `json:"total_seconds"`
	FlashcardSeconds int    `json:"flashcard_seconds"`
	QuizSeconds      int    `json:"quiz_seconds"`
	ExerciseSeconds  int    `json:"exercise_seconds"`
	CardsStudied     int    `json:"cards_studied"`
}

// SessionTotals carries aggregate times pushed at session-boundary checkpoints.
type SessionTotals struct {
	TotalSeconds     int `json:"total_seconds"`
	FlashcardSeconds int `json:"flashcard_seconds"`
	QuizSeconds      int `json:"quiz_seconds"`
	ExerciseSeconds  int `json:"exercise_seconds"`
}
