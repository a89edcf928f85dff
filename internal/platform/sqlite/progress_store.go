package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/store"
)

// SQLiteProgressStore implements the store.ProgressStore interface using a
// sqlite database as the storage backend. The experience state lives in a
// single-row table; daily counters are keyed by local calendar date.
type SQLiteProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteProgressStore creates a new sqlite implementation of the
// ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewSQLiteProgressStore(db store.DBTX, logger *slog.Logger) *SQLiteProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure SQLiteProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*SQLiteProgressStore)(nil)

// GetProgress implements store.ProgressStore.GetProgress. A missing row
// yields the lazy initial record; nothing is written until the first grant.
func (s *SQLiteProgressStore) GetProgress(ctx context.Context) (*domain.Progress, error) {
	var (
		progress  domain.Progress
		updatedAt int64
	)

	row := s.db.QueryRowContext(ctx, `
		SELECT total_experience, level, updated_at
		FROM progress WHERE id = 1
	`)

	err := row.Scan(&progress.TotalExperience, &progress.Level, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewProgress(time.Time{}), nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	progress.UpdatedAt = millisToTime(updatedAt)
	return &progress, nil
}

// UpdateProgress implements store.ProgressStore.UpdateProgress
func (s *SQLiteProgressStore) UpdateProgress(ctx context.Context, progress *domain.Progress) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (id, total_experience, level, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			total_experience = excluded.total_experience,
			level = excluded.level,
			updated_at = excluded.updated_at
	`,
		progress.TotalExperience,
		progress.Level,
		timeToMillis(progress.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	return nil
}

// GetDaily implements store.ProgressStore.GetDaily. A missing day yields a
// zero counter for that date.
func (s *SQLiteProgressStore) GetDaily(ctx context.Context, date string) (*domain.DailyExperience, error) {
	daily := &domain.DailyExperience{Date: date}

	row := s.db.QueryRowContext(ctx, `
		SELECT earned FROM daily_experience WHERE date = ?
	`, date)

	err := row.Scan(&daily.Earned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return daily, nil
		}
		return nil, fmt.Errorf("failed to get daily experience for %s: %w", date, err)
	}

	return daily, nil
}

// UpdateDaily implements store.ProgressStore.UpdateDaily
func (s *SQLiteProgressStore) UpdateDaily(ctx context.Context, daily *domain.DailyExperience) error {
	if err := daily.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_experience (date, earned)
		VALUES (?, ?)
		ON CONFLICT (date) DO UPDATE SET earned = excluded.earned
	`,
		daily.Date,
		daily.Earned,
	)
	if err != nil {
		return fmt.Errorf("failed to update daily experience for %s: %w", daily.Date, err)
	}

	return nil
}

// WithTx implements store.ProgressStore.WithTx
func (s *SQLiteProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &SQLiteProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
