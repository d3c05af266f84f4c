package smartreview

import (
	"database/sql"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/example/smartreview/internal/database"
	"github.com/example/smartreview/pkg/models"
)

// Service is the smart review scheduling engine. All state transitions happen
// synchronously inside the operation that triggered them; there are no
// background timers moving the virtual clocks.
type Service struct {
	cfg       Config
	questions *database.QuestionRepository
	sections  *database.SectionRepository
	progress  *database.ProgressRepository

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
	now func() time.Time
}

// New creates a service with the given scheduling constants
func New(cfg Config) *Service {
	return &Service{
		cfg:       cfg,
		questions: database.NewQuestionRepository(),
		sections:  database.NewSectionRepository(),
		progress:  database.NewProgressRepository(),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// GetTodaysQuestions assembles the ordered question list for the chosen
// sections: each section's clock is fetched or lazily created, auto-advanced
// past empty days, its candidates classified into tracks, and the review track
// capped. Output order is new, then pending, then admitted review.
func (s *Service) GetTodaysQuestions(userID string, sectionIDs []string) (*TodaysQuestions, error) {
	sectionIDs = dedupe(sectionIDs)
	if len(sectionIDs) == 0 {
		return nil, errors.Wrap(ErrValidation, "at least one section is required")
	}

	owned, err := s.sections.CountOwned(userID, sectionIDs)
	if err != nil {
		return nil, err
	}
	if owned != len(sectionIDs) {
		return nil, errors.Wrap(ErrNotFound, "one or more sections")
	}

	// Opportunistic day boundary: a new calendar day re-arms the
	// once-per-session advancement guard for these sections.
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if _, err := s.progress.ResetDayFlags(userID, sectionIDs, dayStart, now); err != nil {
		return nil, err
	}

	result := &TodaysQuestions{
		SectionStats: make(map[string]SectionStats, len(sectionIDs)),
	}
	var allNew, allPending, allReview []models.Question
	var rolledOverIDs []string

	for _, sectionID := range sectionIDs {
		progress, err := s.progress.GetOrCreate(userID, sectionID)
		if err != nil {
			return nil, err
		}

		candidates, err := s.resolveDay(userID, sectionID, progress)
		if err != nil {
			return nil, err
		}

		newQuestions, pending, review := splitTracks(candidates)
		admitted := capReview(review, s.cfg.ReviewLimitPercentage)
		for _, q := range admitted.RolledOver {
			rolledOverIDs = append(rolledOverIDs, q.ID)
		}

		result.SectionStats[sectionID] = SectionStats{
			CurrentSessionDay: progress.CurrentSessionDay,
			TotalSessions:     progress.TotalSessions,
			NewCount:          len(newQuestions),
			PendingCount:      len(pending),
			ReviewCount:       len(review),
			ReviewIncluded:    len(admitted.Included),
			ReviewRolledOver:  len(admitted.RolledOver),
		}

		allNew = append(allNew, newQuestions...)
		allPending = append(allPending, pending...)
		allReview = append(allReview, admitted.Included...)
	}

	// One batched write for every rolled-over question across all sections
	if _, err := s.questions.MarkRolledOver(rolledOverIDs); err != nil {
		return nil, err
	}

	result.Questions = make([]models.Question, 0, len(allNew)+len(allPending)+len(allReview))
	result.Questions = append(result.Questions, allNew...)
	result.Questions = append(result.Questions, allPending...)
	result.Questions = append(result.Questions, allReview...)
	result.RolledOverIDs = rolledOverIDs
	result.Stats = OverallStats{
		TotalSelected:   len(result.Questions),
		NewCount:        len(allNew),
		PendingCount:    len(allPending),
		ReviewCount:     len(allReview),
		RolledOverCount: len(rolledOverIDs),
	}
	return result, nil
}

// AddMoreQuestions clears the rollover flag on the given questions so they are
// admitted again today. Scheduling fields are left untouched: this is an
// admission override, not a reschedule.
func (s *Service) AddMoreQuestions(userID string, questionIDs []string) (int64, error) {
	if len(questionIDs) == 0 {
		return 0, errors.Wrap(ErrValidation, "at least one question is required")
	}
	return s.questions.ClearRolledOver(userID, questionIDs)
}

// GetSectionProgress returns the clock state of the given sections, keyed by
// section ID. Sections never opened have no entry.
func (s *Service) GetSectionProgress(userID string, sectionIDs []string) (map[string]ProgressInfo, error) {
	sectionIDs = dedupe(sectionIDs)
	if len(sectionIDs) == 0 {
		return nil, errors.Wrap(ErrValidation, "at least one section is required")
	}

	progresses, err := s.progress.GetBySections(userID, sectionIDs)
	if err != nil {
		return nil, err
	}

	infos := make(map[string]ProgressInfo, len(progresses))
	for _, p := range progresses {
		infos[p.SectionID] = ProgressInfo{
			CurrentSessionDay:          p.CurrentSessionDay,
			TotalSessions:              p.TotalSessions,
			LastReviewed:               p.LastReviewed,
			AlreadyAdvancedThisSession: p.AlreadyAdvancedThisSession,
		}
	}
	return infos, nil
}

// MarkUnratedAsPending hands an interrupted session's leftovers to the pending
// track: every question in the given sections that was not rated and is not
// already pending gets flagged, in one batched write.
func (s *Service) MarkUnratedAsPending(userID string, sectionIDs, ratedQuestionIDs []string) (int64, error) {
	sectionIDs = dedupe(sectionIDs)
	if len(sectionIDs) == 0 {
		return 0, errors.Wrap(ErrValidation, "at least one section is required")
	}
	return s.questions.MarkPendingExcept(userID, sectionIDs, ratedQuestionIDs)
}

// GetRolledOverQuestions returns the rollover backlog for the given sections,
// backing the "show me more today" picker
func (s *Service) GetRolledOverQuestions(userID string, sectionIDs []string) ([]models.Question, error) {
	sectionIDs = dedupe(sectionIDs)
	if len(sectionIDs) == 0 {
		return nil, errors.Wrap(ErrValidation, "at least one section is required")
	}
	return s.questions.FindRolledOver(userID, sectionIDs)
}

// GetQuestionPriority returns the scheduling state of one question judged
// against its section's clock. A section without a progress row is on day 1.
func (s *Service) GetQuestionPriority(userID, questionID string) (*QuestionPriority, error) {
	q, err := s.questions.GetByID(userID, questionID)
	if err != nil {
		return nil, notFoundIfMissing(err, "question %s", questionID)
	}

	day := 1
	if progress, err := s.progress.Get(userID, q.SectionID); err == nil {
		day = progress.CurrentSessionDay
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return &QuestionPriority{
		QuestionID:          q.ID,
		Priority:            NormalizePriority(q.Priority),
		LastRating:          q.LastRating,
		DueDate:             q.DueDate,
		TimesReviewed:       q.TimesReviewed,
		LastReviewedAt:      q.LastReviewedAt,
		IsDue:               IsDue(*q, day),
		SessionsUntilReview: sessionsUntil(q.DueDate, day),
	}, nil
}

// ResetQuestionPriority resets a question's scheduling state to the given
// priority, clearing rating history. An undo/testing helper.
func (s *Service) ResetQuestionPriority(userID, questionID string, priority int) (*models.Question, error) {
	if priority < models.PriorityNew || priority > models.PriorityMastered {
		return nil, errors.Wrapf(ErrValidation, "priority must be between 0 and 5, got %d", priority)
	}
	q, err := s.questions.ResetPriority(userID, questionID, priority)
	if err != nil {
		return nil, notFoundIfMissing(err, "question %s", questionID)
	}
	return q, nil
}

// sessionsUntil returns how many virtual sessions remain before a due day,
// never negative
func sessionsUntil(dueDay, currentDay int) int {
	if dueDay <= currentDay {
		return 0
	}
	return dueDay - currentDay
}

// notFoundIfMissing converts a missing-row error into the NotFound sentinel,
// leaving infrastructure errors untouched
func notFoundIfMissing(err error, format string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
