package srs

import (
	"math"
	"time"

	"github.com/lexsnap/lexsnap/internal/domain"
)

// successEase applies the SM-2 ease adjustment for a successful review.
//
// The delta is 0.1 - (5-q)*(0.08 + (5-q)*0.02) on the 0-5 quality scale, so
// "easy" (q=5) gains +0.10, "good" (q=4) is neutral, and "hard" (q=3) loses
// 0.14. The result never drops below params.MinEase.
func successEase(ease float64, quality int, params *Params) float64 {
	q := float64(quality)
	delta := 0.1 - (5-q)*(0.08+(5-q)*0.02)
	return math.Max(params.MinEase, ease+delta)
}

// lapseEase applies the flat ease penalty for a failed review, floored at
// params.MinEase.
func lapseEase(ease float64, params *Params) float64 {
	return math.Max(params.MinEase, ease-params.LapseEasePenalty)
}

// successInterval computes the next interval in days for a successful review.
//
// reps is the consecutive-success count before this review: the first
// success yields a fixed one-day interval, the second the fixed graduation
// interval, and every later success grows the previous interval by the
// (already updated) ease factor, never below one day.
func successInterval(intervalDays, reps int, ease float64, params *Params) int {
	switch {
	case reps == 0:
		return params.FirstIntervalDays
	case reps == 1:
		return params.SecondIntervalDays
	default:
		grown := int(math.Round(float64(intervalDays) * ease))
		if grown < 1 {
			return 1
		}
		return grown
	}
}

// nextState computes the card state after a graded review. The input state
// is never modified; a new state is returned.
//
// A lapse (quality < 3, i.e. grade "again") resets the streak, records a
// one-day interval and schedules a short retry. A success updates ease
// first, then grows the interval from the pre-increment reps count, and
// schedules the card interval days out.
func nextState(
	state *domain.CardState,
	grade domain.Grade,
	now time.Time,
	params *Params,
) *domain.CardState {
	next := state.Clone()
	quality := grade.Quality()

	if quality < 3 {
		next.Lapses++
		next.Reps = 0
		next.IntervalDays = params.LapseIntervalDays
		next.Ease = lapseEase(state.Ease, params)
		next.DueAt = now.Add(time.Duration(params.LapseRetryMinutes) * time.Minute)
	} else {
		next.Ease = successEase(state.Ease, quality, params)
		next.IntervalDays = successInterval(state.IntervalDays, state.Reps, next.Ease, params)
		next.Reps = state.Reps + 1
		next.DueAt = now.Add(time.Duration(next.IntervalDays) * 24 * time.Hour)
	}

	next.LastReviewedAt = now
	next.UpdatedAt = now

	return next
}
