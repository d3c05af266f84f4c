package smartreview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smartreview/pkg/models"
)

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		name string
		in   *int
		want int
	}{
		{"nil is new", nil, 0},
		{"zero stays zero", intPtr(0), 0},
		{"in range", intPtr(3), 3},
		{"negative clamps to new", intPtr(-2), 0},
		{"above range clamps to mastered", intPtr(9), 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, NormalizePriority(c.in))
		})
	}
}

// Every combination of fields classifies into exactly one track, and new wins
// over a stray pending flag on an unrated question.
func TestTrackOfPartition(t *testing.T) {
	cases := []struct {
		name     string
		priority *int
		pending  bool
		want     models.Track
	}{
		{"unrated", intPtr(0), false, models.TrackNew},
		{"unrated legacy nil", nil, false, models.TrackNew},
		{"unrated with pending flag", intPtr(0), true, models.TrackNew},
		{"rated pending", intPtr(2), true, models.TrackPending},
		{"rated", intPtr(2), false, models.TrackReview},
		{"mastered", intPtr(5), false, models.TrackReview},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := models.Question{Priority: c.priority, IsPending: c.pending}
			got := TrackOf(q)
			assert.Equal(t, c.want, got)

			// exactly one track
			matches := 0
			for _, track := range []models.Track{models.TrackNew, models.TrackPending, models.TrackReview} {
				if got == track {
					matches++
				}
			}
			assert.Equal(t, 1, matches)
		})
	}
}

func TestIsDue(t *testing.T) {
	review := models.Question{Priority: intPtr(3), DueDate: 5}
	assert.False(t, IsDue(review, 4))
	assert.True(t, IsDue(review, 5))
	assert.True(t, IsDue(review, 9))

	// new and pending questions are always due
	assert.True(t, IsDue(models.Question{Priority: intPtr(0), DueDate: 99}, 1))
	assert.True(t, IsDue(models.Question{Priority: intPtr(2), IsPending: true, DueDate: 99}, 1))
}

func TestSortCandidates(t *testing.T) {
	questions := []models.Question{
		{ID: "d", Priority: intPtr(3), DueDate: 2},
		{ID: "b", Priority: intPtr(3), DueDate: 1},
		{ID: "a", Priority: nil, DueDate: 7},
		{ID: "c", Priority: intPtr(3), DueDate: 1},
		{ID: "e", Priority: intPtr(5), DueDate: 0},
	}
	sortCandidates(questions)

	var order []string
	for _, q := range questions {
		order = append(order, q.ID)
	}
	// nil priority sorts as new, equal keys fall back to id
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, order)
}
