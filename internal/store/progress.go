package store

import (
	"context"
	"database/sql"

	"github.com/lexsnap/lexsnap/internal/domain"
)

// ProgressStore defines the interface for the experience ledger records: the
// process-wide experience state and the per-day earned counters.
//
// Both records are created lazily: reading an absent record yields a
// zero-initialized value rather than an error, and the Update methods
// upsert. The ledger mutates progress and the daily counter together, so
// callers that award experience MUST do so through a transaction-scoped
// store obtained via WithTx.
type ProgressStore interface {
	// GetProgress retrieves the experience state, or a fresh
	// {TotalExperience: 0, Level: 1} record if none has been persisted yet.
	GetProgress(ctx context.Context) (*domain.Progress, error)

	// UpdateProgress upserts the experience state.
	// Returns validation errors from the domain Progress if data is invalid.
	UpdateProgress(ctx context.Context, progress *domain.Progress) error

	// GetDaily retrieves the earned counter for the given day key, or a
	// zero-initialized counter if the day has not been written yet.
	GetDaily(ctx context.Context, date string) (*domain.DailyExperience, error)

	// UpdateDaily upserts the earned counter for its day key. Counters for
	// past days are history and must not be rewritten once the day has
	// rolled over; the ledger only ever writes the current day.
	UpdateDaily(ctx context.Context, daily *domain.DailyExperience) error

	// WithTx returns a new ProgressStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
