package models

import "time"

// Track identifies which admission track a question belongs to
type Track string

const (
	// TrackNew holds questions that have never been rated (priority 0)
	TrackNew Track = "new"
	// TrackPending holds questions shown but left unrated in a prior session
	TrackPending Track = "pending"
	// TrackReview holds rated questions gated by their due session day
	TrackReview Track = "review"
)

// Priority levels. Priority mirrors the last quality rating; 0 means never rated.
const (
	PriorityNew      = 0
	PriorityUrgent   = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
	PriorityMastered = 5
)

// Question represents a flashcard question owned by a user.
// DueDate is a virtual session day number, not a calendar date: the question
// becomes due for review when DueDate <= the section's current session day.
type Question struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	SectionID string `json:"section_id" db:"section_id"`
	Question  string `json:"question" db:"question"`
	Answer    string `json:"answer" db:"answer"`
	// Priority is nullable to tolerate pre-migration rows; nil is treated as new
	Priority          *int       `json:"priority" db:"priority"`
	IsPending         bool       `json:"is_pending" db:"is_pending"`
	DueDate           int        `json:"due_date" db:"due_date"`
	LastRating        *int       `json:"last_rating" db:"last_rating"`
	TimesReviewed     int        `json:"times_reviewed" db:"times_reviewed"`
	WasRolledOver     bool       `json:"was_rolled_over" db:"was_rolled_over"`
	LastReviewedAt    *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	EaseFactor        float64    `json:"ease_factor" db:"ease_factor"` // advisory, reserved for an adaptive mode
	ConsecutiveMisses int        `json:"consecutive_misses" db:"consecutive_misses"`
	PriorityBoosts    int        `json:"priority_boosts" db:"priority_boosts"`
	PendingSessionID  *string    `json:"pending_session_id" db:"pending_session_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}
