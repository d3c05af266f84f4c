package models

import "time"

// SectionProgress is the virtual clock for one (user, section) pair.
// CurrentSessionDay only moves forward: the auto-advance resolver jumps it to
// the next day with due work, and the advancement policy increments it once a
// session crosses the completion threshold. Wall-clock time never moves it.
type SectionProgress struct {
	ID                         string     `json:"id" db:"id"`
	UserID                     string     `json:"user_id" db:"user_id"`
	SectionID                  string     `json:"section_id" db:"section_id"`
	CurrentSessionDay          int        `json:"current_session_day" db:"current_session_day"`
	TotalSessions              int        `json:"total_sessions" db:"total_sessions"`
	LastReviewed               *time.Time `json:"last_reviewed" db:"last_reviewed"`
	AlreadyAdvancedThisSession bool       `json:"already_advanced_this_session" db:"already_advanced_this_session"`
	LastSessionDate            *time.Time `json:"last_session_date" db:"last_session_date"`
	CreatedAt                  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at" db:"updated_at"`
}
