package smartreview

import (
	"database/sql"
	"math"
	"time"

	"github.com/pkg/errors"
)

// checkAdvancement runs after every rating: once a session has rated at least
// the threshold share of the section's due review track, the section's clock
// moves forward one day. New and pending questions are excluded from the
// denominator — those tracks are unlimited, so gating progress on them would
// make advancement unpredictable.
//
// "Rated in this session" is a time-window heuristic anchored on the section's
// last advancement (or last session date, or the past 24 hours): ratings are
// not stamped with a session id, so a rating exactly at the boundary can be
// attributed to either session.
func (s *Service) checkAdvancement(userID, sectionID string) (Advancement, error) {
	advancement := Advancement{SectionID: sectionID}

	progress, err := s.progress.Get(userID, sectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return advancement, nil
		}
		return advancement, err
	}

	// At most one threshold advancement per session
	if progress.AlreadyAdvancedThisSession {
		advancement.AlreadyAdvanced = true
		return advancement, nil
	}

	day := progress.CurrentSessionDay

	totalDue, err := s.questions.CountAdmissible(userID, sectionID, day)
	if err != nil {
		return advancement, err
	}
	reviewDue, err := s.questions.CountReviewDue(userID, sectionID, day)
	if err != nil {
		return advancement, err
	}

	sessionStart := s.now().Add(-24 * time.Hour)
	if progress.LastReviewed != nil {
		sessionStart = *progress.LastReviewed
	} else if progress.LastSessionDate != nil {
		sessionStart = *progress.LastSessionDate
	}

	ratedInSession, err := s.questions.CountRatedSince(userID, sectionID, day, sessionStart)
	if err != nil {
		return advancement, err
	}

	completion := 0
	if reviewDue > 0 {
		completion = int(math.Round(float64(ratedInSession) / float64(reviewDue) * 100))
	}

	advancement.TotalDue = totalDue
	advancement.CompletionPercentage = completion

	if float64(completion) >= s.cfg.AdvancementThreshold*100 {
		advanced, err := s.progress.AdvanceOneDay(userID, sectionID, s.now())
		if err != nil {
			return advancement, err
		}
		if advanced {
			advancement.Advanced = true
			advancement.NewSessionDay = day + 1
		} else {
			// Lost the race to another rating in the same session
			advancement.AlreadyAdvanced = true
		}
	}
	return advancement, nil
}
