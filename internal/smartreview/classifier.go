package smartreview

import (
	"sort"

	"github.com/example/smartreview/pkg/models"
)

// NormalizePriority maps a stored priority to the 0-5 range. Rows created
// before the priority migration carry nil and count as new.
func NormalizePriority(p *int) int {
	if p == nil {
		return models.PriorityNew
	}
	if *p < models.PriorityNew {
		return models.PriorityNew
	}
	if *p > models.PriorityMastered {
		return models.PriorityMastered
	}
	return *p
}

// TrackOf classifies a question into exactly one track. New wins over pending
// so an unrated question can never hide in the pending track.
func TrackOf(q models.Question) models.Track {
	if NormalizePriority(q.Priority) == models.PriorityNew {
		return models.TrackNew
	}
	if q.IsPending {
		return models.TrackPending
	}
	return models.TrackReview
}

// IsDue reports whether a question's due day has arrived on the given session
// day. New and pending questions are always due.
func IsDue(q models.Question, day int) bool {
	switch TrackOf(q) {
	case models.TrackReview:
		return q.DueDate <= day
	default:
		return true
	}
}

// splitTracks partitions an already-sorted candidate slice into the three
// tracks, preserving the (priority, due day) order within each
func splitTracks(candidates []models.Question) (newQ, pending, review []models.Question) {
	for _, q := range candidates {
		switch TrackOf(q) {
		case models.TrackNew:
			newQ = append(newQ, q)
		case models.TrackPending:
			pending = append(pending, q)
		case models.TrackReview:
			review = append(review, q)
		}
	}
	return newQ, pending, review
}

// sortCandidates orders questions by (priority, due day) with the ID as a
// stable tiebreak. The repository queries already sort this way; this keeps
// in-memory callers consistent with them.
func sortCandidates(questions []models.Question) {
	sort.Slice(questions, func(i, j int) bool {
		pi, pj := NormalizePriority(questions[i].Priority), NormalizePriority(questions[j].Priority)
		if pi != pj {
			return pi < pj
		}
		if questions[i].DueDate != questions[j].DueDate {
			return questions[i].DueDate < questions[j].DueDate
		}
		return questions[i].ID < questions[j].ID
	})
}
