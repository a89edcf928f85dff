package srs

import "github.com/lexsnap/lexsnap/internal/domain"

// MasteryRule decides when an item counts as mastered and no longer needs
// fresh exposure. All three conditions are conjunctive, so relaxing any one
// of them relaxes mastery.
type MasteryRule struct {
	MinIntervalDays int
	MinEase         float64
	MinReps         int
}

// DefaultMasteryRule returns the standard mastery thresholds.
func DefaultMasteryRule() MasteryRule {
	return MasteryRule{
		MinIntervalDays: 21,
		MinEase:         2.3,
		MinReps:         6,
	}
}

// IsMastered reports whether the card state satisfies the rule. The
// classifier is a pure predicate; consumers use it to suppress mastered
// items from freshly extracted candidate lists.
func IsMastered(state *domain.CardState, rule MasteryRule) bool {
	return state.IntervalDays >= rule.MinIntervalDays &&
		state.Ease >= rule.MinEase &&
		state.Reps >= rule.MinReps
}
