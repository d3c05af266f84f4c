package smartreview

// Rating values a user can give a question
const (
	// RatingHard keeps the question in the current session
	RatingHard = 1
	// RatingMedium schedules the next review one session later
	RatingMedium = 2
	// RatingGood schedules the next review three sessions later
	RatingGood = 3
	// RatingEasy schedules the next review seven sessions later
	RatingEasy = 4
	// RatingPerfect schedules the next review fourteen sessions later
	RatingPerfect = 5
)

// MaxAutoAdvanceIterations bounds the auto-advance loop per request. A hard
// ceiling against pathological data, deliberately not a tunable.
const MaxAutoAdvanceIterations = 30

// Config holds the scheduling constants. Immutable once injected into a
// Service, so tests can substitute thresholds without touching globals.
type Config struct {
	// Fraction of due review questions admitted per section per request.
	// Applies to the review track only; new and pending are unlimited.
	ReviewLimitPercentage float64
	// Completion fraction of the review track that advances the section clock
	AdvancementThreshold float64
	// Base intervals in virtual sessions per rating. Rating 1 has no entry:
	// hard questions are never rescheduled.
	RatingIntervals map[int]int
	// Multiplicative due-day jitter so same-day ratings don't clump
	RandomOffsetPercentage float64
	// Ease factor bounds and step. Advisory only: stored and adjusted on every
	// rating but not consulted by the fixed-interval scheduler.
	DefaultEaseFactor float64
	MinEaseFactor     float64
	MaxEaseFactor     float64
	EaseAdjustment    float64
}

// DefaultConfig returns the production scheduling constants
func DefaultConfig() Config {
	return Config{
		ReviewLimitPercentage:  0.5,
		AdvancementThreshold:   0.8,
		RatingIntervals:        map[int]int{RatingMedium: 1, RatingGood: 3, RatingEasy: 7, RatingPerfect: 14},
		RandomOffsetPercentage: 0.2,
		DefaultEaseFactor:      2.5,
		MinEaseFactor:          1.3,
		MaxEaseFactor:          3.5,
		EaseAdjustment:         0.1,
	}
}
