package smartreview

import (
	"log"

	"github.com/example/smartreview/pkg/models"
)

// resolveDay finds the session day the request should operate on and returns
// that day's candidate set. Calendar-blind scheduling means a section can have
// zero due questions on its current day while review work waits on a later
// one; in that case the clock jumps straight to the next day with due work,
// in one step, and total_sessions is credited with the distance.
//
// New and pending questions are admissible regardless of due day, so an empty
// candidate set already proves none exist — the clock never skips past
// untouched or pending content.
func (s *Service) resolveDay(userID, sectionID string, progress *models.SectionProgress) ([]models.Question, error) {
	for i := 0; i < MaxAutoAdvanceIterations; i++ {
		candidates, err := s.questions.FindCandidates(userID, sectionID, progress.CurrentSessionDay)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			return candidates, nil
		}

		total, err := s.questions.CountBySection(userID, sectionID)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, nil
		}

		nextDay, ok, err := s.questions.NextDueDay(userID, sectionID, progress.CurrentSessionDay)
		if err != nil {
			return nil, err
		}
		if !ok {
			// No future review work either: the section is exhausted for now
			return nil, nil
		}

		if err := s.progress.JumpToDay(userID, sectionID, nextDay); err != nil {
			return nil, err
		}
		progress.TotalSessions += nextDay - progress.CurrentSessionDay
		progress.CurrentSessionDay = nextDay
	}

	// Ceiling hit: absence of due work is a normal outcome, not a fault
	log.Printf("auto-advance gave up after %d iterations for section %s", MaxAutoAdvanceIterations, sectionID)
	return nil, nil
}
