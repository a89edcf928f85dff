package srs

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/domain"
)

const easeTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < easeTolerance
}

func testState(interval int, ease float64, reps, lapses int) *domain.CardState {
	return &domain.CardState{
		CollectionID: uuid.New(),
		ItemID:       "word",
		IntervalDays: interval,
		Ease:         ease,
		Reps:         reps,
		Lapses:       lapses,
		DueAt:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSuccessEase(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		ease     float64
		quality  int
		expected float64
	}{
		{
			name:     "good is neutral",
			ease:     2.5,
			quality:  4,
			expected: 2.5, // 0.1 - 1*(0.08 + 1*0.02) = 0
		},
		{
			name:     "easy gains a tenth",
			ease:     2.5,
			quality:  5,
			expected: 2.6, // 0.1 - 0 = +0.1
		},
		{
			name:     "hard loses fourteen hundredths",
			ease:     2.5,
			quality:  3,
			expected: 2.36, // 0.1 - 2*(0.08 + 2*0.02) = -0.14
		},
		{
			name:     "hard near the floor clamps",
			ease:     1.35,
			quality:  3,
			expected: 1.3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := successEase(tc.ease, tc.quality, params)
			if !floatEquals(got, tc.expected) {
				t.Errorf("Expected ease %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSuccessInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		interval int
		reps     int
		ease     float64
		expected int
	}{
		{
			name:     "first success is one day",
			interval: 0,
			reps:     0,
			ease:     2.5,
			expected: 1,
		},
		{
			name:     "second success graduates to six days",
			interval: 1,
			reps:     1,
			ease:     2.5,
			expected: 6,
		},
		{
			name:     "third success grows by ease",
			interval: 6,
			reps:     2,
			ease:     2.5,
			expected: 15, // round(6 * 2.5)
		},
		{
			name:     "growth rounds to nearest day",
			interval: 10,
			reps:     4,
			ease:     1.35,
			expected: 14, // round(13.5)
		},
		{
			name:     "growth never drops below one day",
			interval: 0,
			reps:     5,
			ease:     1.3,
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := successInterval(tc.interval, tc.reps, tc.ease, params)
			if got != tc.expected {
				t.Errorf("Expected interval %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestNextStateLapse(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	state := testState(15, 2.5, 3, 1)
	next := nextState(state, domain.GradeAgain, now, params)

	if next.Lapses != 2 {
		t.Errorf("Expected lapses 2, got %d", next.Lapses)
	}
	if next.Reps != 0 {
		t.Errorf("Expected reps reset to 0, got %d", next.Reps)
	}
	if next.IntervalDays != 1 {
		t.Errorf("Expected interval 1, got %d", next.IntervalDays)
	}
	if !floatEquals(next.Ease, 2.3) {
		t.Errorf("Expected ease 2.3, got %v", next.Ease)
	}
	wantDue := now.Add(10 * time.Minute)
	if !next.DueAt.Equal(wantDue) {
		t.Errorf("Expected retry at %v, got %v", wantDue, next.DueAt)
	}
	if !next.LastReviewedAt.Equal(now) {
		t.Errorf("Expected last reviewed %v, got %v", now, next.LastReviewedAt)
	}

	// The input state must not be touched.
	if state.Lapses != 1 || state.Reps != 3 {
		t.Error("nextState mutated its input")
	}
}

func TestNextStateFirstSuccess(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	t0 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// Fresh card reviewed "good": the ease delta is exactly zero, the card
	// graduates to a one-day interval.
	state := testState(0, 2.5, 0, 0)
	next := nextState(state, domain.GradeGood, t0, params)

	if next.IntervalDays != 1 {
		t.Errorf("Expected interval 1, got %d", next.IntervalDays)
	}
	if !floatEquals(next.Ease, 2.5) {
		t.Errorf("Expected ease 2.5, got %v", next.Ease)
	}
	if next.Reps != 1 {
		t.Errorf("Expected reps 1, got %d", next.Reps)
	}
	wantDue := t0.Add(24 * time.Hour)
	if !next.DueAt.Equal(wantDue) {
		t.Errorf("Expected due at %v, got %v", wantDue, next.DueAt)
	}
}

func TestNextStateGrowthUsesUpdatedEase(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// Hard drops the ease to the floor before the interval grows, so growth
	// uses 1.3, not the pre-review 1.4.
	state := testState(10, 1.4, 5, 0)
	next := nextState(state, domain.GradeHard, now, params)

	if !floatEquals(next.Ease, 1.3) {
		t.Errorf("Expected ease floored at 1.3, got %v", next.Ease)
	}
	if next.IntervalDays != 13 { // round(10 * 1.3)
		t.Errorf("Expected interval 13, got %d", next.IntervalDays)
	}
	if next.Reps != 6 {
		t.Errorf("Expected reps 6, got %d", next.Reps)
	}
}

func TestEaseNeverDropsBelowFloor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// Property: a hundred consecutive failures from any starting ease end
	// exactly at the floor.
	for _, startEase := range []float64{1.3, 1.45, 2.5, 2.8} {
		state := testState(30, startEase, 8, 0)
		for i := 0; i < 100; i++ {
			state = nextState(state, domain.GradeAgain, now, params)
		}
		if state.Ease != params.MinEase {
			t.Errorf("Starting ease %v: expected final ease %v, got %v",
				startEase, params.MinEase, state.Ease)
		}
	}
}

func TestSecondSuccessForAllSuccessGrades(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for _, grade := range []domain.Grade{domain.GradeHard, domain.GradeGood, domain.GradeEasy} {
		state := testState(1, 2.5, 1, 0)
		next := nextState(state, grade, now, params)
		if next.IntervalDays != params.SecondIntervalDays {
			t.Errorf("Grade %q with reps=1: expected interval %d, got %d",
				grade, params.SecondIntervalDays, next.IntervalDays)
		}
	}
}
