package smartreview

import (
	"math"
	"time"
)

// GetReviewStats summarizes a user's question pool across all sections.
// "Overdue" is approximated cross-section as rated questions with due day <= 0,
// since a precise count would need every section's clock.
func (s *Service) GetReviewStats(userID string) (*ReviewStats, error) {
	total, err := s.questions.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	newQuestions, err := s.questions.CountNewByUser(userID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.questions.CountDueImmediately(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	reviewedToday, err := s.questions.CountReviewedSince(userID, dayStart)
	if err != nil {
		return nil, err
	}

	distribution, err := s.questions.PriorityDistribution(userID)
	if err != nil {
		return nil, err
	}

	estimated := int(math.Ceil(float64(total)*s.cfg.ReviewLimitPercentage)) +
		int(math.Ceil(float64(newQuestions)*s.cfg.ReviewLimitPercentage))

	return &ReviewStats{
		TotalQuestions:       total,
		NewQuestions:         newQuestions,
		OverdueQuestions:     overdue,
		ReviewedToday:        reviewedToday,
		EstimatedDailyLimit:  estimated,
		PriorityDistribution: distribution,
	}, nil
}
