package smartreview

import (
	"time"

	"github.com/example/smartreview/pkg/models"
)

// SectionStats describes what one section contributed to a request
type SectionStats struct {
	CurrentSessionDay int `json:"current_session_day"`
	TotalSessions     int `json:"total_sessions"`
	NewCount          int `json:"new_count"`
	PendingCount      int `json:"pending_count"`
	ReviewCount       int `json:"review_count"`
	ReviewIncluded    int `json:"review_included"`
	ReviewRolledOver  int `json:"review_rolled_over"`
}

// OverallStats aggregates counts across all requested sections
type OverallStats struct {
	TotalSelected   int `json:"total_selected"`
	NewCount        int `json:"new_count"`
	PendingCount    int `json:"pending_count"`
	ReviewCount     int `json:"review_count"`
	RolledOverCount int `json:"rolled_over_count"`
}

// TodaysQuestions is the ordered result of a "today's questions" request.
// Questions are concatenated by track: new, then pending, then admitted review.
type TodaysQuestions struct {
	Questions     []models.Question       `json:"questions"`
	RolledOverIDs []string                `json:"rolled_over_ids"`
	SectionStats  map[string]SectionStats `json:"section_stats"`
	Stats         OverallStats            `json:"stats"`
}

// Advancement reports the section-advancement check performed after a rating
type Advancement struct {
	SectionID            string `json:"section_id"`
	Advanced             bool   `json:"advanced"`
	AlreadyAdvanced      bool   `json:"already_advanced"`
	NewSessionDay        int    `json:"new_session_day,omitempty"`
	CompletionPercentage int    `json:"completion_percentage"`
	TotalDue             int    `json:"total_due"`
}

// RatingResult is what a recorded rating did to the question's schedule.
// IsHard signals the caller to reinsert the question later in the current
// in-memory queue; how far later is a presentation concern.
type RatingResult struct {
	QuestionID         string      `json:"question_id"`
	Priority           int         `json:"priority"`
	DueDate            int         `json:"due_date"`
	IsHard             bool        `json:"is_hard"`
	NextReviewIn       int         `json:"next_review_in"`
	SectionAdvancement Advancement `json:"section_advancement"`
}

// ProgressInfo is the external view of one section's clock
type ProgressInfo struct {
	CurrentSessionDay          int        `json:"current_session_day"`
	TotalSessions              int        `json:"total_sessions"`
	LastReviewed               *time.Time `json:"last_reviewed"`
	AlreadyAdvancedThisSession bool       `json:"already_advanced_this_session"`
}

// QuestionPriority is the scheduling state of a single question
type QuestionPriority struct {
	QuestionID          string     `json:"question_id"`
	Priority            int        `json:"priority"`
	LastRating          *int       `json:"last_rating"`
	DueDate             int        `json:"due_date"`
	TimesReviewed       int        `json:"times_reviewed"`
	LastReviewedAt      *time.Time `json:"last_reviewed_at"`
	IsDue               bool       `json:"is_due"`
	SessionsUntilReview int        `json:"sessions_until_review"`
}

// ReviewStats is the cross-section summary of a user's question pool
type ReviewStats struct {
	TotalQuestions       int         `json:"total_questions"`
	NewQuestions         int         `json:"new_questions"`
	OverdueQuestions     int         `json:"overdue_questions"`
	ReviewedToday        int         `json:"reviewed_today"`
	EstimatedDailyLimit  int         `json:"estimated_daily_limit"`
	PriorityDistribution map[int]int `json:"priority_distribution"`
}
