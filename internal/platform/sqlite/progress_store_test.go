package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressLazyInitialRead(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	progressStore := NewSQLiteProgressStore(db, testLogger())

	progress, err := progressStore.GetProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), progress.TotalExperience)
	assert.Equal(t, 1, progress.Level)
}

func TestProgressUpsertRoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	progressStore := NewSQLiteProgressStore(db, testLogger())

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	progress := &domain.Progress{TotalExperience: 185, Level: 4, UpdatedAt: now}
	require.NoError(t, progressStore.UpdateProgress(ctx, progress))

	got, err := progressStore.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(185), got.TotalExperience)
	assert.Equal(t, 4, got.Level)
	assert.True(t, got.UpdatedAt.Equal(now))

	// Second write lands on the same single row.
	progress.TotalExperience = 188
	progress.Level = 5
	require.NoError(t, progressStore.UpdateProgress(ctx, progress))

	got, err = progressStore.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(188), got.TotalExperience)
	assert.Equal(t, 5, got.Level)
}

func TestProgressRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	progressStore := NewSQLiteProgressStore(db, testLogger())

	bad := &domain.Progress{TotalExperience: -1, Level: 1}
	err := progressStore.UpdateProgress(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrNegativeExperience)
}

func TestDailyLazyReadAndUpsert(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	progressStore := NewSQLiteProgressStore(db, testLogger())

	daily, err := progressStore.GetDaily(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", daily.Date)
	assert.Equal(t, int64(0), daily.Earned)

	daily.Earned = 42
	require.NoError(t, progressStore.UpdateDaily(ctx, daily))

	daily.Earned = 45
	require.NoError(t, progressStore.UpdateDaily(ctx, daily))

	got, err := progressStore.GetDaily(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, int64(45), got.Earned)

	// Another date stays independent.
	other, err := progressStore.GetDaily(ctx, "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, int64(0), other.Earned)
}
