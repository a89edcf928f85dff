package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardState(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	collectionID := uuid.New()

	state, err := NewCardState(collectionID, "ephemeral", now)
	require.NoError(t, err)

	assert.Equal(t, collectionID, state.CollectionID)
	assert.Equal(t, "ephemeral", state.ItemID)
	assert.Equal(t, 0, state.IntervalDays)
	assert.Equal(t, DefaultEase, state.Ease)
	assert.Equal(t, 0, state.Reps)
	assert.Equal(t, 0, state.Lapses)
	assert.True(t, state.DueAt.Equal(now), "new cards should be due immediately")
	assert.True(t, state.LastReviewedAt.IsZero())
}

func TestNewCardStateValidation(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	_, err := NewCardState(uuid.Nil, "word", now)
	assert.ErrorIs(t, err, ErrCardCollectionIDEmpty)

	_, err = NewCardState(uuid.New(), "", now)
	assert.ErrorIs(t, err, ErrCardItemIDEmpty)
}

func TestCardStateValidate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	testCases := []struct {
		name    string
		mutate  func(*CardState)
		wantErr error
	}{
		{
			name:    "negative interval",
			mutate:  func(s *CardState) { s.IntervalDays = -1 },
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "ease below floor",
			mutate:  func(s *CardState) { s.Ease = 1.29 },
			wantErr: ErrInvalidEase,
		},
		{
			name:    "negative reps",
			mutate:  func(s *CardState) { s.Reps = -1 },
			wantErr: ErrInvalidReps,
		},
		{
			name:    "negative lapses",
			mutate:  func(s *CardState) { s.Lapses = -2 },
			wantErr: ErrInvalidLapses,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := NewCardState(uuid.New(), "word", now)
			require.NoError(t, err)

			tc.mutate(state)
			assert.ErrorIs(t, state.Validate(), tc.wantErr)
		})
	}
}

func TestCardStateIsDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	state, err := NewCardState(uuid.New(), "word", now)
	require.NoError(t, err)

	// Boundary is inclusive.
	assert.True(t, state.IsDue(now))
	assert.True(t, state.IsDue(now.Add(time.Minute)))
	assert.False(t, state.IsDue(now.Add(-time.Second)))

	// Cards overdue by a long stretch stay eligible.
	state.DueAt = now.AddDate(-2, 0, 0)
	assert.True(t, state.IsDue(now))
}

func TestCardStateKey(t *testing.T) {
	t.Parallel()

	collectionID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	state := &CardState{CollectionID: collectionID, ItemID: "serendipity"}

	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8:serendipity", state.Key())
}

func TestGradeQuality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, GradeAgain.Quality())
	assert.Equal(t, 3, GradeHard.Quality())
	assert.Equal(t, 4, GradeGood.Quality())
	assert.Equal(t, 5, GradeEasy.Quality())
	assert.Equal(t, -1, Grade("perfect").Quality())
}

func TestGradeIsValid(t *testing.T) {
	t.Parallel()

	for _, g := range []Grade{GradeAgain, GradeHard, GradeGood, GradeEasy} {
		assert.True(t, g.IsValid(), "grade %q should be valid", g)
	}

	assert.False(t, Grade("").IsValid())
	assert.False(t, Grade("ok").IsValid())
}
