package smartreview

import (
	"math"

	"github.com/pkg/errors"
)

// RecordRating applies a 1-5 quality rating to a question and reschedules it.
//
// Rating 1 ("hard") is special: the question's priority and due day stay
// exactly as they were, so it remains eligible within the current session; the
// caller reinserts it into the in-memory queue using the IsHard flag. Ratings
// 2-5 set priority to the rating and move the due day forward by the rating's
// base interval with ±20% jitter, so questions rated together don't all land
// on the same future session.
func (s *Service) RecordRating(userID, questionID string, rating int) (*RatingResult, error) {
	if rating < RatingHard || rating > RatingPerfect {
		return nil, errors.Wrapf(ErrValidation, "rating must be between 1 and 5, got %d", rating)
	}

	q, err := s.questions.GetByID(userID, questionID)
	if err != nil {
		return nil, notFoundIfMissing(err, "question %s", questionID)
	}

	// Rating requires an existing clock for the question's section
	progress, err := s.progress.Get(userID, q.SectionID)
	if err != nil {
		return nil, notFoundIfMissing(err, "progress for section %s", q.SectionID)
	}

	now := s.now()
	lastRating := rating
	q.LastRating = &lastRating
	q.TimesReviewed++
	q.LastReviewedAt = &now
	q.WasRolledOver = false
	q.IsPending = false
	q.PendingSessionID = nil
	q.EaseFactor = s.adjustEase(q.EaseFactor, rating)

	result := &RatingResult{QuestionID: q.ID}

	if rating == RatingHard {
		// No reschedule: priority and due day untouched
		if err := s.questions.SaveRating(q); err != nil {
			return nil, notFoundIfMissing(err, "question %s", questionID)
		}
		result.IsHard = true
		result.Priority = NormalizePriority(q.Priority)
		result.DueDate = q.DueDate
		result.NextReviewIn = 0
	} else {
		priority := rating
		q.Priority = &priority
		q.DueDate = progress.CurrentSessionDay + s.nextInterval(rating)
		if err := s.questions.SaveRating(q); err != nil {
			return nil, notFoundIfMissing(err, "question %s", questionID)
		}
		result.Priority = rating
		result.DueDate = q.DueDate
		result.NextReviewIn = q.DueDate - progress.CurrentSessionDay
	}

	advancement, err := s.checkAdvancement(userID, q.SectionID)
	if err != nil {
		return nil, err
	}
	result.SectionAdvancement = advancement
	return result, nil
}

// nextInterval returns the jittered number of sessions until the next review
// for ratings 2-5, floored at 0
func (s *Service) nextInterval(rating int) int {
	base := s.cfg.RatingIntervals[rating]
	sessions := int(math.Round(float64(base) * (1 + s.randomOffset())))
	if sessions < 0 {
		sessions = 0
	}
	return sessions
}

// randomOffset draws a uniform multiplicative jitter in
// [-RandomOffsetPercentage, +RandomOffsetPercentage]
func (s *Service) randomOffset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.rnd.Float64()*2 - 1) * s.cfg.RandomOffsetPercentage
}

// adjustEase nudges the ease factor by the configured step within its bounds.
// Stored on every rating but not consulted by the fixed-interval scheduler;
// reserved for a future adaptive mode.
func (s *Service) adjustEase(current float64, rating int) float64 {
	if current == 0 {
		current = s.cfg.DefaultEaseFactor
	}
	switch {
	case rating <= RatingMedium:
		current -= s.cfg.EaseAdjustment
		if current < s.cfg.MinEaseFactor {
			current = s.cfg.MinEaseFactor
		}
	case rating >= RatingEasy:
		current += s.cfg.EaseAdjustment
		if current > s.cfg.MaxEaseFactor {
			current = s.cfg.MaxEaseFactor
		}
	}
	return current
}
