package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/smartreview/pkg/models"
)

// ProgressRepository handles database operations for section progress rows
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// GetOrCreate returns the progress row for a (user, section) pair, creating it
// with the defaults of session day 1 when it does not exist yet. The insert
// races safely: ON CONFLICT DO NOTHING against the unique (user_id, section_id)
// index means concurrent first requests cannot produce duplicate rows.
func (r *ProgressRepository) GetOrCreate(userID, sectionID string) (*models.SectionProgress, error) {
	query := DB.Rebind(`
		INSERT INTO section_progress (
			id, user_id, section_id, current_session_day, total_sessions,
			last_session_date, created_at, updated_at
		) VALUES (?, ?, ?, 1, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, section_id) DO NOTHING
	`)
	if _, err := DB.Exec(query, uuid.NewString(), userID, sectionID); err != nil {
		return nil, errors.Wrap(err, "failed to upsert section progress")
	}
	return r.Get(userID, sectionID)
}

// Get returns the progress row for a (user, section) pair
func (r *ProgressRepository) Get(userID, sectionID string) (*models.SectionProgress, error) {
	var progress models.SectionProgress
	query := DB.Rebind("SELECT * FROM section_progress WHERE user_id = ? AND section_id = ?")
	if err := DB.Get(&progress, query, userID, sectionID); err != nil {
		return nil, errors.Wrapf(err, "failed to get progress for section %s", sectionID)
	}
	return &progress, nil
}

// GetBySections returns progress rows for the given sections
func (r *ProgressRepository) GetBySections(userID string, sectionIDs []string) ([]models.SectionProgress, error) {
	if len(sectionIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT * FROM section_progress
		WHERE user_id = ? AND section_id IN (?)
	`, userID, sectionIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build progress query")
	}
	var progresses []models.SectionProgress
	if err := DB.Select(&progresses, DB.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to select section progress")
	}
	return progresses, nil
}

// JumpToDay moves the section clock forward to newDay in a single step and
// credits total_sessions with the jumped distance. The current_session_day
// guard keeps the clock monotonic even when two requests race.
func (r *ProgressRepository) JumpToDay(userID, sectionID string, newDay int) error {
	query := DB.Rebind(`
		UPDATE section_progress SET
			total_sessions = total_sessions + (? - current_session_day),
			current_session_day = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND section_id = ? AND current_session_day < ?
	`)
	if _, err := DB.Exec(query, newDay, newDay, userID, sectionID, newDay); err != nil {
		return errors.Wrap(err, "failed to advance section day")
	}
	return nil
}

// AdvanceOneDay performs the threshold-triggered advancement: +1 session day,
// once per session. The already_advanced guard in the WHERE clause makes a
// racing second advancement a no-op rather than a double increment.
// Returns true when the row was actually advanced.
func (r *ProgressRepository) AdvanceOneDay(userID, sectionID string, now time.Time) (bool, error) {
	query := DB.Rebind(`
		UPDATE section_progress SET
			current_session_day = current_session_day + 1,
			total_sessions = total_sessions + 1,
			already_advanced_this_session = true,
			last_reviewed = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND section_id = ? AND already_advanced_this_session = false
	`)
	result, err := DB.Exec(query, now, userID, sectionID)
	if err != nil {
		return false, errors.Wrap(err, "failed to advance session")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to get rows affected")
	}
	return rows > 0, nil
}

// ResetDayFlags clears the once-per-session advancement guard for sections
// whose last session predates the given day start. This is the one place
// calendar time touches the virtual-day model.
func (r *ProgressRepository) ResetDayFlags(userID string, sectionIDs []string, dayStart, now time.Time) (int64, error) {
	if len(sectionIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		UPDATE section_progress SET
			already_advanced_this_session = false,
			last_session_date = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND section_id IN (?)
		AND (last_session_date < ? OR last_session_date IS NULL)
	`, now, userID, sectionIDs, dayStart)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build day flag reset")
	}
	result, err := DB.Exec(DB.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to reset day flags")
	}
	return result.RowsAffected()
}

// ResetDayFlagsAll is the background-sweep variant of ResetDayFlags covering
// every progress row regardless of user
func (r *ProgressRepository) ResetDayFlagsAll(dayStart, now time.Time) (int64, error) {
	query := DB.Rebind(`
		UPDATE section_progress SET
			already_advanced_this_session = false,
			last_session_date = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE last_session_date < ? OR last_session_date IS NULL
	`)
	result, err := DB.Exec(query, now, dayStart)
	if err != nil {
		return 0, errors.Wrap(err, "failed to reset day flags")
	}
	return result.RowsAffected()
}
