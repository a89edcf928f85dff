// Package srs implements the spaced repetition scheduling algorithm that
// decides, for each memorized item, when it becomes due again.
package srs

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// MinEase is the hard floor for the ease factor.
	MinEase float64

	// LapseEasePenalty is subtracted from the ease factor on a failed review.
	LapseEasePenalty float64

	// LapseIntervalDays is the interval recorded after a failed review.
	LapseIntervalDays int

	// LapseRetryMinutes is how soon a failed card comes back for another
	// attempt. Lapsed cards are retried within the session, not the next day.
	LapseRetryMinutes int

	// FirstIntervalDays is the interval after the first successful review.
	FirstIntervalDays int

	// SecondIntervalDays is the fixed graduation interval after the second
	// consecutive success. Later successes grow exponentially by ease.
	SecondIntervalDays int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values fall back to the defaults.
type ParamsConfig struct {
	LapseRetryMinutes  int
	FirstIntervalDays  int
	SecondIntervalDays int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEase:            1.3,
		LapseEasePenalty:   0.2,
		LapseIntervalDays:  1,
		LapseRetryMinutes:  10,
		FirstIntervalDays:  1,
		SecondIntervalDays: 6,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.LapseRetryMinutes > 0 {
		params.LapseRetryMinutes = config.LapseRetryMinutes
	}
	if config.FirstIntervalDays > 0 {
		params.FirstIntervalDays = config.FirstIntervalDays
	}
	if config.SecondIntervalDays > 0 {
		params.SecondIntervalDays = config.SecondIntervalDays
	}

	return params
}
