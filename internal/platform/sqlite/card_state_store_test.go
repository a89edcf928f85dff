package sqlite

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, MigrateUp(db))
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestCollection(t *testing.T, db *sql.DB, label string) *domain.Collection {
	t.Helper()

	collection, err := domain.NewCollection(label, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	collections := NewSQLiteCollectionStore(db, testLogger())
	require.NoError(t, collections.Create(context.Background(), collection))

	return collection
}

func TestCardStateCreateIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	cards := NewSQLiteCardStateStore(db, testLogger())
	collection := createTestCollection(t, db, "Street Signs")

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	state, err := domain.NewCardState(collection.ID, "detour", now)
	require.NoError(t, err)

	created, err := cards.Create(ctx, state)
	require.NoError(t, err)
	assert.True(t, created)

	// Advance the card so a re-add would be observable as a reset.
	state.Reps = 3
	state.IntervalDays = 6
	require.NoError(t, cards.Update(ctx, state))

	again, err := domain.NewCardState(collection.ID, "detour", now.Add(time.Hour))
	require.NoError(t, err)
	created, err = cards.Create(ctx, again)
	require.NoError(t, err)
	assert.False(t, created, "re-adding an existing item must be a no-op")

	got, err := cards.Get(ctx, collection.ID, "detour")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Reps, "existing state must not be reset")
	assert.Equal(t, 6, got.IntervalDays)
}

func TestCardStateCreateUnknownCollection(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	cards := NewSQLiteCardStateStore(db, testLogger())

	state, err := domain.NewCardState(uuid.New(), "orphan", time.Now().UTC())
	require.NoError(t, err)

	_, err = cards.Create(context.Background(), state)
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)
}

func TestCardStateGetNotFound(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	cards := NewSQLiteCardStateStore(db, testLogger())
	collection := createTestCollection(t, db, "Menus")

	_, err := cards.Get(context.Background(), collection.ID, "nope")
	assert.ErrorIs(t, err, store.ErrCardStateNotFound)
}

func TestCardStateUpdateRoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	cards := NewSQLiteCardStateStore(db, testLogger())
	collection := createTestCollection(t, db, "Menus")

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	state, err := domain.NewCardState(collection.ID, "entrée", now)
	require.NoError(t, err)
	_, err = cards.Create(ctx, state)
	require.NoError(t, err)

	state.IntervalDays = 15
	state.Ease = 2.36
	state.Reps = 3
	state.Lapses = 1
	state.DueAt = now.Add(15 * 24 * time.Hour)
	state.LastReviewedAt = now
	state.UpdatedAt = now

	require.NoError(t, cards.Update(ctx, state))

	got, err := cards.Get(ctx, collection.ID, "entrée")
	require.NoError(t, err)
	assert.Equal(t, 15, got.IntervalDays)
	assert.InDelta(t, 2.36, got.Ease, 1e-9)
	assert.Equal(t, 3, got.Reps)
	assert.Equal(t, 1, got.Lapses)
	assert.True(t, got.DueAt.Equal(state.DueAt))
	assert.True(t, got.LastReviewedAt.Equal(now))
}

func TestCardStateUpdateNotFound(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	cards := NewSQLiteCardStateStore(db, testLogger())
	collection := createTestCollection(t, db, "Menus")

	state, err := domain.NewCardState(collection.ID, "ghost", time.Now().UTC())
	require.NoError(t, err)

	assert.ErrorIs(t, cards.Update(context.Background(), state), store.ErrCardStateNotFound)
}

func TestNextDueOrderingAndBoundary(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	cards := NewSQLiteCardStateStore(db, testLogger())
	collection := createTestCollection(t, db, "Posters")

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	addCard := func(itemID string, dueAt time.Time) {
		state, err := domain.NewCardState(collection.ID, itemID, now.Add(-48*time.Hour))
		require.NoError(t, err)
		state.DueAt = dueAt
		_, err = cards.Create(ctx, state)
		require.NoError(t, err)
	}

	addCard("later", now.Add(time.Hour))
	addCard("oldest", now.Add(-72*time.Hour))
	addCard("boundary", now)
	addCard("recent", now.Add(-time.Hour))

	// Oldest due first.
	next, err := cards.NextDue(ctx, collection.ID, now)
	require.NoError(t, err)
	assert.Equal(t, "oldest", next.ItemID)

	count, err := cards.CountDue(ctx, collection.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "boundary card counts as due the instant now == dueAt")

	// With nothing due, NextDue reports the not-found sentinel.
	early := now.Add(-100 * 24 * time.Hour)
	_, err = cards.NextDue(ctx, collection.ID, early)
	assert.ErrorIs(t, err, store.ErrCardStateNotFound)

	count, err = cards.CountDue(ctx, collection.ID, early)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNextDueTieBreaksByItemID(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	cards := NewSQLiteCardStateStore(db, testLogger())
	collection := createTestCollection(t, db, "Posters")

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	for _, itemID := range []string{"zebra", "apple", "mango"} {
		state, err := domain.NewCardState(collection.ID, itemID, due)
		require.NoError(t, err)
		_, err = cards.Create(ctx, state)
		require.NoError(t, err)
	}

	next, err := cards.NextDue(ctx, collection.ID, now)
	require.NoError(t, err)
	assert.Equal(t, "apple", next.ItemID, "equal due times order by item ID")
}

func TestSummariesOrdering(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	cards := NewSQLiteCardStateStore(db, testLogger())

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	overdue := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	seed := func(label string, dueCounts, futureCounts int) {
		collection := createTestCollection(t, db, label)
		for i := 0; i < dueCounts; i++ {
			state, err := domain.NewCardState(collection.ID, label+"-due-"+string(rune('a'+i)), overdue)
			require.NoError(t, err)
			_, err = cards.Create(ctx, state)
			require.NoError(t, err)
		}
		for i := 0; i < futureCounts; i++ {
			state, err := domain.NewCardState(collection.ID, label+"-later-"+string(rune('a'+i)), overdue)
			require.NoError(t, err)
			state.DueAt = future
			_, err = cards.Create(ctx, state)
			require.NoError(t, err)
		}
	}

	seed("signs", 1, 2)
	seed("Menus", 3, 0)
	seed("labels", 3, 1)
	seed("empty", 0, 0)

	summaries, err := cards.Summaries(ctx, now)
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	// Due count descending; the 3-3 tie orders "labels" before "Menus"
	// case-insensitively under the collator.
	assert.Equal(t, "labels", summaries[0].Label)
	assert.Equal(t, "Menus", summaries[1].Label)
	assert.Equal(t, "signs", summaries[2].Label)
	assert.Equal(t, "empty", summaries[3].Label)

	assert.Equal(t, 3, summaries[0].DueCount)
	assert.Equal(t, 4, summaries[0].TotalCount)
	assert.Equal(t, 0, summaries[3].DueCount)
	assert.Equal(t, 0, summaries[3].TotalCount)
}

func TestScanClampsCorruptedRows(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	cards := NewSQLiteCardStateStore(db, testLogger())
	collection := createTestCollection(t, db, "Corrupt")

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	state, err := domain.NewCardState(collection.ID, "broken", now)
	require.NoError(t, err)
	_, err = cards.Create(ctx, state)
	require.NoError(t, err)

	// Simulate a corrupted upstream write below the ease floor.
	_, err = db.ExecContext(ctx, `
		UPDATE card_states SET ease = 0.9, interval_days = -3
		WHERE collection_id = ? AND item_id = ?
	`, collection.ID.String(), "broken")
	require.NoError(t, err)

	got, err := cards.Get(ctx, collection.ID, "broken")
	require.NoError(t, err)
	assert.Equal(t, domain.MinEase, got.Ease)
	assert.Equal(t, 0, got.IntervalDays)
}
