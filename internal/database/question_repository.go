package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/smartreview/pkg/models"
)

// QuestionRepository handles database operations for questions
type QuestionRepository struct{}

// NewQuestionRepository creates a new repository instance
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{}
}

// trackPredicate returns the SQL filter for one admission track.
// COALESCE treats pre-migration NULL priorities as new, so legacy rows are
// never orphaned by the track queries.
func trackPredicate(track models.Track, day int) (string, []interface{}) {
	switch track {
	case models.TrackNew:
		return "COALESCE(priority, 0) = 0", nil
	case models.TrackPending:
		return "is_pending = true AND COALESCE(priority, 0) BETWEEN 1 AND 5", nil
	case models.TrackReview:
		return "is_pending = false AND COALESCE(priority, 0) BETWEEN 1 AND 5 AND due_date <= ?", []interface{}{day}
	}
	return "1 = 0", nil
}

// candidatePredicate composes the three track filters with OR
func candidatePredicate(day int) (string, []interface{}) {
	var parts []string
	var args []interface{}
	for _, track := range []models.Track{models.TrackNew, models.TrackPending, models.TrackReview} {
		pred, predArgs := trackPredicate(track, day)
		parts = append(parts, "("+pred+")")
		args = append(args, predArgs...)
	}
	return strings.Join(parts, " OR "), args
}

// Create inserts a new question. Generates an ID when none is set.
func (r *QuestionRepository) Create(q *models.Question) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.EaseFactor == 0 {
		q.EaseFactor = 2.5
	}

	query := DB.Rebind(`
		INSERT INTO questions (
			id, user_id, section_id, question, answer,
			priority, is_pending, due_date, last_rating, times_reviewed,
			was_rolled_over, last_reviewed_at, ease_factor,
			consecutive_misses, priority_boosts, pending_session_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	_, err := DB.Exec(query,
		q.ID, q.UserID, q.SectionID, q.Question, q.Answer,
		q.Priority, q.IsPending, q.DueDate, q.LastRating, q.TimesReviewed,
		q.WasRolledOver, q.LastReviewedAt, q.EaseFactor,
		q.ConsecutiveMisses, q.PriorityBoosts, q.PendingSessionID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create question")
	}
	return nil
}

// GetByID returns a question owned by the given user
func (r *QuestionRepository) GetByID(userID, questionID string) (*models.Question, error) {
	var q models.Question
	query := DB.Rebind("SELECT * FROM questions WHERE id = ? AND user_id = ?")
	if err := DB.Get(&q, query, questionID, userID); err != nil {
		return nil, errors.Wrapf(err, "failed to get question %s", questionID)
	}
	return &q, nil
}

// FindCandidates returns every question admissible on the given session day:
// new and pending questions regardless of due day, plus review questions with
// due_date <= day. Sorted by (priority, due day) so lower-priority and older
// items surface first; id breaks ties for stable ordering.
func (r *QuestionRepository) FindCandidates(userID, sectionID string, day int) ([]models.Question, error) {
	pred, predArgs := candidatePredicate(day)
	query := fmt.Sprintf(`
		SELECT * FROM questions
		WHERE user_id = ? AND section_id = ? AND (%s)
		ORDER BY COALESCE(priority, 0) ASC, due_date ASC, id ASC
	`, pred)

	args := append([]interface{}{userID, sectionID}, predArgs...)
	var questions []models.Question
	if err := DB.Select(&questions, DB.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to select candidate questions")
	}
	return questions, nil
}

// CountBySection returns the number of questions in a section
func (r *QuestionRepository) CountBySection(userID, sectionID string) (int, error) {
	var count int
	query := DB.Rebind("SELECT COUNT(*) FROM questions WHERE user_id = ? AND section_id = ?")
	if err := DB.Get(&count, query, userID, sectionID); err != nil {
		return 0, errors.Wrap(err, "failed to count section questions")
	}
	return count, nil
}

// HasNewOrPending reports whether the section still has untouched or pending
// questions. The auto-advance resolver never skips a day while these exist.
func (r *QuestionRepository) HasNewOrPending(userID, sectionID string) (bool, error) {
	newPred, _ := trackPredicate(models.TrackNew, 0)
	pendingPred, _ := trackPredicate(models.TrackPending, 0)
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM questions
		WHERE user_id = ? AND section_id = ? AND ((%s) OR (%s))
	`, newPred, pendingPred)

	var count int
	if err := DB.Get(&count, DB.Rebind(query), userID, sectionID); err != nil {
		return false, errors.Wrap(err, "failed to count new/pending questions")
	}
	return count > 0, nil
}

// NextDueDay returns the earliest review due day strictly after the given day.
// The second return value is false when no future review work exists.
func (r *QuestionRepository) NextDueDay(userID, sectionID string, after int) (int, bool, error) {
	query := DB.Rebind(`
		SELECT MIN(due_date) FROM questions
		WHERE user_id = ? AND section_id = ?
		AND is_pending = false AND COALESCE(priority, 0) BETWEEN 1 AND 5
		AND due_date > ?
	`)
	var next sql.NullInt64
	if err := DB.Get(&next, query, userID, sectionID, after); err != nil {
		return 0, false, errors.Wrap(err, "failed to find next due day")
	}
	if !next.Valid {
		return 0, false, nil
	}
	return int(next.Int64), true, nil
}

// MarkRolledOver flags the given questions as excluded by the admission cap.
// One batched update regardless of set size.
func (r *QuestionRepository) MarkRolledOver(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		UPDATE questions SET was_rolled_over = true, updated_at = CURRENT_TIMESTAMP
		WHERE id IN (?)
	`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build rollover update")
	}
	result, err := DB.Exec(DB.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark rolled over questions")
	}
	return result.RowsAffected()
}

// ClearRolledOver removes the rollover flag from the given questions without
// touching any scheduling fields. Ownership is enforced in the WHERE clause.
func (r *QuestionRepository) ClearRolledOver(userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		UPDATE questions SET was_rolled_over = false, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND id IN (?)
	`, userID, ids)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build rollover clear")
	}
	result, err := DB.Exec(DB.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to clear rolled over questions")
	}
	return result.RowsAffected()
}

// MarkPendingExcept marks every not-yet-pending question in the given sections
// as pending, except the ones whose IDs are listed as rated. This hands an
// interrupted session's leftovers to the pending track in one batched write.
func (r *QuestionRepository) MarkPendingExcept(userID string, sectionIDs, ratedIDs []string) (int64, error) {
	if len(sectionIDs) == 0 {
		return 0, nil
	}

	var query string
	var args []interface{}
	var err error
	if len(ratedIDs) > 0 {
		query, args, err = sqlx.In(`
			UPDATE questions
			SET is_pending = true, was_rolled_over = false, updated_at = CURRENT_TIMESTAMP
			WHERE user_id = ? AND section_id IN (?) AND is_pending = false AND id NOT IN (?)
		`, userID, sectionIDs, ratedIDs)
	} else {
		query, args, err = sqlx.In(`
			UPDATE questions
			SET is_pending = true, was_rolled_over = false, updated_at = CURRENT_TIMESTAMP
			WHERE user_id = ? AND section_id IN (?) AND is_pending = false
		`, userID, sectionIDs)
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to build pending update")
	}

	result, err := DB.Exec(DB.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to mark questions pending")
	}
	return result.RowsAffected()
}

// SaveRating persists the scheduling fields touched by a rating
func (r *QuestionRepository) SaveRating(q *models.Question) error {
	query := DB.Rebind(`
		UPDATE questions SET
			priority = ?,
			due_date = ?,
			last_rating = ?,
			times_reviewed = ?,
			was_rolled_over = ?,
			is_pending = ?,
			pending_session_id = ?,
			last_reviewed_at = ?,
			ease_factor = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`)
	result, err := DB.Exec(query,
		q.Priority, q.DueDate, q.LastRating, q.TimesReviewed,
		q.WasRolledOver, q.IsPending, q.PendingSessionID,
		q.LastReviewedAt, q.EaseFactor,
		q.ID, q.UserID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save rating")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(sql.ErrNoRows, "question %s", q.ID)
	}
	return nil
}

// CountAdmissible counts everything currently admissible for a section:
// new, pending, and review questions due on or before the given day
func (r *QuestionRepository) CountAdmissible(userID, sectionID string, day int) (int, error) {
	pred, predArgs := candidatePredicate(day)
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM questions
		WHERE user_id = ? AND section_id = ? AND (%s)
	`, pred)

	args := append([]interface{}{userID, sectionID}, predArgs...)
	var count int
	if err := DB.Get(&count, DB.Rebind(query), args...); err != nil {
		return 0, errors.Wrap(err, "failed to count admissible questions")
	}
	return count, nil
}

// CountReviewDue counts only the review track: due, rated 1-5, not pending
func (r *QuestionRepository) CountReviewDue(userID, sectionID string, day int) (int, error) {
	pred, predArgs := trackPredicate(models.TrackReview, day)
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM questions
		WHERE user_id = ? AND section_id = ? AND %s
	`, pred)

	args := append([]interface{}{userID, sectionID}, predArgs...)
	var count int
	if err := DB.Get(&count, DB.Rebind(query), args...); err != nil {
		return 0, errors.Wrap(err, "failed to count due review questions")
	}
	return count, nil
}

// CountRatedSince counts review questions rated at or after the session start
// reference. Still a time-window heuristic rather than an explicit session id;
// a rating exactly at the boundary can be attributed to either session.
func (r *QuestionRepository) CountRatedSince(userID, sectionID string, day int, since time.Time) (int, error) {
	query := DB.Rebind(`
		SELECT COUNT(*) FROM questions
		WHERE user_id = ? AND section_id = ?
		AND COALESCE(priority, 0) BETWEEN 1 AND 5
		AND is_pending = false
		AND due_date <= ?
		AND last_reviewed_at >= ?
	`)
	var count int
	if err := DB.Get(&count, query, userID, sectionID, day, since); err != nil {
		return 0, errors.Wrap(err, "failed to count rated questions")
	}
	return count, nil
}

// FindRolledOver returns the rollover backlog for the given sections
func (r *QuestionRepository) FindRolledOver(userID string, sectionIDs []string) ([]models.Question, error) {
	if len(sectionIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT * FROM questions
		WHERE user_id = ? AND section_id IN (?) AND was_rolled_over = true
		ORDER BY COALESCE(priority, 0) ASC, due_date ASC, id ASC
	`, userID, sectionIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build rolled over query")
	}
	var questions []models.Question
	if err := DB.Select(&questions, DB.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to select rolled over questions")
	}
	return questions, nil
}

// ResetPriority resets a question's scheduling state to the given priority
func (r *QuestionRepository) ResetPriority(userID, questionID string, priority int) (*models.Question, error) {
	query := DB.Rebind(`
		UPDATE questions SET
			priority = ?,
			last_rating = NULL,
			was_rolled_over = false,
			consecutive_misses = 0,
			last_reviewed_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`)
	result, err := DB.Exec(query, priority, questionID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reset question priority")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return nil, errors.Wrapf(sql.ErrNoRows, "question %s", questionID)
	}
	return r.GetByID(userID, questionID)
}

// CountByUser returns the total number of questions a user owns
func (r *QuestionRepository) CountByUser(userID string) (int, error) {
	var count int
	query := DB.Rebind("SELECT COUNT(*) FROM questions WHERE user_id = ?")
	if err := DB.Get(&count, query, userID); err != nil {
		return 0, errors.Wrap(err, "failed to count questions")
	}
	return count, nil
}

// CountNewByUser returns how many of a user's questions were never rated
func (r *QuestionRepository) CountNewByUser(userID string) (int, error) {
	pred, _ := trackPredicate(models.TrackNew, 0)
	query := fmt.Sprintf("SELECT COUNT(*) FROM questions WHERE user_id = ? AND %s", pred)
	var count int
	if err := DB.Get(&count, DB.Rebind(query), userID); err != nil {
		return 0, errors.Wrap(err, "failed to count new questions")
	}
	return count, nil
}

// CountDueImmediately counts rated questions with due_date <= 0, i.e. due in
// every section regardless of its clock. A cross-section approximation used
// only for the aggregate stats view.
func (r *QuestionRepository) CountDueImmediately(userID string) (int, error) {
	query := DB.Rebind(`
		SELECT COUNT(*) FROM questions
		WHERE user_id = ? AND due_date <= 0 AND COALESCE(priority, 0) > 0
	`)
	var count int
	if err := DB.Get(&count, query, userID); err != nil {
		return 0, errors.Wrap(err, "failed to count overdue questions")
	}
	return count, nil
}

// CountReviewedSince counts questions rated at or after the given time
func (r *QuestionRepository) CountReviewedSince(userID string, since time.Time) (int, error) {
	query := DB.Rebind(`
		SELECT COUNT(*) FROM questions
		WHERE user_id = ? AND last_reviewed_at >= ?
	`)
	var count int
	if err := DB.Get(&count, query, userID, since); err != nil {
		return 0, errors.Wrap(err, "failed to count reviewed questions")
	}
	return count, nil
}

// PriorityDistribution returns question counts grouped by normalized priority
func (r *QuestionRepository) PriorityDistribution(userID string) (map[int]int, error) {
	query := DB.Rebind(`
		SELECT COALESCE(priority, 0) AS priority, COUNT(*) AS count
		FROM questions
		WHERE user_id = ?
		GROUP BY COALESCE(priority, 0)
		ORDER BY priority ASC
	`)
	rows, err := DB.Queryx(query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to group priorities")
	}
	defer rows.Close()

	distribution := make(map[int]int)
	for rows.Next() {
		var priority, count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan priority row")
		}
		distribution[priority] = count
	}
	return distribution, rows.Err()
}

// CountDueForUser counts admissible questions across all of a user's sections,
// each judged against its own section clock. Sections never opened have no
// progress row and default to day 1.
func (r *QuestionRepository) CountDueForUser(userID string) (int, error) {
	query := DB.Rebind(`
		SELECT COUNT(*) FROM questions q
		LEFT JOIN section_progress sp
			ON sp.user_id = q.user_id AND sp.section_id = q.section_id
		WHERE q.user_id = ? AND (
			COALESCE(q.priority, 0) = 0
			OR q.is_pending = true
			OR (
				q.is_pending = false
				AND COALESCE(q.priority, 0) BETWEEN 1 AND 5
				AND q.due_date <= COALESCE(sp.current_session_day, 1)
			)
		)
	`)
	var count int
	if err := DB.Get(&count, query, userID); err != nil {
		return 0, errors.Wrap(err, "failed to count due questions")
	}
	return count, nil
}
