package smartreview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smartreview/internal/database"
)

func setupRating(t *testing.T) (*Service, string, string) {
	s := setupService(t)
	userID := seedUser(t, "rating@example.com")
	sectionID := seedSection(t, userID, "Rating")
	_, err := database.NewProgressRepository().GetOrCreate(userID, sectionID)
	require.NoError(t, err)
	return s, userID, sectionID
}

func TestRecordRatingValidation(t *testing.T) {
	s, userID, sectionID := setupRating(t)
	seedQuestion(t, "q1", userID, sectionID, intPtr(3), 1, false)

	for _, rating := range []int{0, 6, -1} {
		_, err := s.RecordRating(userID, "q1", rating)
		require.ErrorIs(t, err, ErrValidation, "rating %d", rating)
	}

	_, err := s.RecordRating(userID, "missing", 3)
	require.ErrorIs(t, err, ErrNotFound)

	// someone else's question is indistinguishable from a missing one
	otherID := seedUser(t, "intruder@example.com")
	_, err = s.RecordRating(otherID, "q1", 3)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordRatingRequiresProgress(t *testing.T) {
	s := setupService(t)
	userID := seedUser(t, "noprogress@example.com")
	sectionID := seedSection(t, userID, "Cold")
	seedQuestion(t, "q1", userID, sectionID, intPtr(3), 1, false)

	// the section was never opened, so there is no clock to rate against
	_, err := s.RecordRating(userID, "q1", 3)
	require.ErrorIs(t, err, ErrNotFound)
}

// Rating 1 leaves the schedule untouched: the question stays eligible in the
// current session and only the bookkeeping fields move.
func TestRecordRatingHard(t *testing.T) {
	s, userID, sectionID := setupRating(t)
	seedQuestion(t, "q1", userID, sectionID, intPtr(3), 1, true)
	_, err := database.NewQuestionRepository().MarkRolledOver([]string{"q1"})
	require.NoError(t, err)

	result, err := s.RecordRating(userID, "q1", RatingHard)
	require.NoError(t, err)
	assert.True(t, result.IsHard)
	assert.Equal(t, 3, result.Priority)
	assert.Equal(t, 1, result.DueDate)
	assert.Equal(t, 0, result.NextReviewIn)

	q := getQuestion(t, userID, "q1")
	assert.Equal(t, 3, NormalizePriority(q.Priority))
	assert.Equal(t, 1, q.DueDate)
	require.NotNil(t, q.LastRating)
	assert.Equal(t, 1, *q.LastRating)
	assert.Equal(t, 1, q.TimesReviewed)
	assert.NotNil(t, q.LastReviewedAt)
	// the rating consumed the pending and rollover states
	assert.False(t, q.IsPending)
	assert.False(t, q.WasRolledOver)
}

// Rating 2 has base interval 1, which jitter cannot move: round(1 * 0.8) and
// round(1 * 1.2) are both 1.
func TestRecordRatingMediumIsDeterministic(t *testing.T) {
	s, userID, sectionID := setupRating(t)
	seedQuestion(t, "q1", userID, sectionID, intPtr(0), 0, false)

	result, err := s.RecordRating(userID, "q1", RatingMedium)
	require.NoError(t, err)
	assert.False(t, result.IsHard)
	assert.Equal(t, 2, result.Priority)
	assert.Equal(t, 2, result.DueDate) // day 1 + 1
	assert.Equal(t, 1, result.NextReviewIn)

	q := getQuestion(t, userID, "q1")
	assert.Equal(t, 2, NormalizePriority(q.Priority))
	assert.Equal(t, 2, q.DueDate)
}

func TestRecordRatingEasyJitterBounds(t *testing.T) {
	s, userID, sectionID := setupRating(t)
	seedQuestion(t, "q1", userID, sectionID, intPtr(3), 1, false)

	result, err := s.RecordRating(userID, "q1", RatingEasy)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Priority)
	// base 7 with ±20% jitter: round(5.6) .. round(8.4)
	assert.GreaterOrEqual(t, result.NextReviewIn, 6)
	assert.LessOrEqual(t, result.NextReviewIn, 8)
	assert.Equal(t, 1+result.NextReviewIn, result.DueDate)
}

func TestNextIntervalJitterDistribution(t *testing.T) {
	s := New(DefaultConfig())

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		n := s.nextInterval(RatingPerfect)
		// base 14 with ±20% jitter: round(11.2) .. round(16.8)
		require.GreaterOrEqual(t, n, 11)
		require.LessOrEqual(t, n, 17)
		seen[n] = true
	}
	// jitter actually spreads the values
	assert.GreaterOrEqual(t, len(seen), 2)
}

func TestAdjustEase(t *testing.T) {
	s := New(DefaultConfig())

	assert.InDelta(t, 2.4, s.adjustEase(2.5, RatingHard), 1e-9)
	assert.InDelta(t, 1.3, s.adjustEase(1.35, RatingMedium), 1e-9) // floored
	assert.InDelta(t, 2.6, s.adjustEase(2.5, RatingEasy), 1e-9)
	assert.InDelta(t, 3.5, s.adjustEase(3.45, RatingPerfect), 1e-9) // capped
	// rating 3 is neutral; zero means an unset legacy row
	assert.InDelta(t, 2.5, s.adjustEase(2.5, RatingGood), 1e-9)
	assert.InDelta(t, 2.5, s.adjustEase(0, RatingGood), 1e-9)
}
