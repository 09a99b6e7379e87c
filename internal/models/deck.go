package models

import "time"

type Deck struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Topic      string    `json:"topic"`
	CardCount  int       `json:"card_count"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	Cards      []Card    `json:"cards,omitempty"`
}

type Card struct {
	ID             string     `json:"id"`
	DeckID         string     `json:"deck_id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

type CardRatingRequest struct {
	Rating           string `json:"rating"` // "again" | "hard" | "good" | "easy"
	StudyTimeSeconds int    `json:"study_time_seconds"`
}

type DeckStats struct {
	TotalCards  int     `json:"total_cards"`
	Mastered    int     `json:"mastered"`
	Learning    int     `json:"learning"`
	New         int     `json:"new"`
	DueToday    int     `json:"due_today"`
	MasteryRate float64 `json:"mastery_rate"`
}
