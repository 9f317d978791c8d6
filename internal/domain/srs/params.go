package srs

// Params defines all configurable parameters for the spaced repetition
// algorithm.
type Params struct {
	// MinEaseFactor is the floor applied after every ease adjustment.
	MinEaseFactor float64

	// InitialEaseFactor is assigned to newly created progress records.
	InitialEaseFactor float64

	// CorrectEaseBonus is added to the ease factor on a correct answer.
	CorrectEaseBonus float64

	// IncorrectEasePenalty is subtracted from the ease factor on an
	// incorrect answer.
	IncorrectEasePenalty float64

	// FirstIntervalDays is the review interval assigned to new records and
	// to records reset by an incorrect answer.
	FirstIntervalDays int

	// SecondIntervalDays is the interval after a correct answer on a record
	// whose current interval is still FirstIntervalDays.
	SecondIntervalDays int

	// PromotionStreak is the consecutive-correct count required before a
	// correct answer steps the difficulty bucket toward easy.
	PromotionStreak int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:        1.3,
		InitialEaseFactor:    2.5,
		CorrectEaseBonus:     0.1,
		IncorrectEasePenalty: 0.2,
		FirstIntervalDays:    1,
		SecondIntervalDays:   6,
		PromotionStreak:      3,
	}
}
