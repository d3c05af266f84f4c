package smartreview

import (
	"math"

	"github.com/example/smartreview/pkg/models"
)

// admission is the outcome of applying the review cap to one section's due
// review questions. New and pending questions never pass through here.
type admission struct {
	Included   []models.Question
	RolledOver []models.Question
}

// capReview applies the review limit to an already-sorted due review slice:
// the first ceil(N * limit) questions are admitted, the rest roll over.
// ceil(0 * limit) is 0, so an empty slice is a clean no-op.
func capReview(review []models.Question, limit float64) admission {
	n := int(math.Ceil(float64(len(review)) * limit))
	if n >= len(review) {
		return admission{Included: review}
	}
	return admission{
		Included:   review[:n],
		RolledOver: review[n:],
	}
}
