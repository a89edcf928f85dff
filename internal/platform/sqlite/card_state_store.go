package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/store"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SQLiteCardStateStore implements the store.CardStateStore interface
// using a sqlite database as the storage backend.
type SQLiteCardStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteCardStateStore creates a new sqlite implementation of the
// CardStateStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSQLiteCardStateStore(db store.DBTX, logger *slog.Logger) *SQLiteCardStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteCardStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_state_store")),
	}
}

// Ensure SQLiteCardStateStore implements store.CardStateStore interface
var _ store.CardStateStore = (*SQLiteCardStateStore)(nil)

const cardStateColumns = `collection_id, item_id, interval_days, ease, reps, lapses,
	due_at, last_reviewed_at, created_at, updated_at`

// Create implements store.CardStateStore.Create. Adding an item that
// already has state is a no-op so that re-adding never resets progress.
func (s *SQLiteCardStateStore) Create(ctx context.Context, state *domain.CardState) (bool, error) {
	if err := state.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO card_states (`+cardStateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection_id, item_id) DO NOTHING
	`,
		state.CollectionID.String(),
		state.ItemID,
		state.IntervalDays,
		state.Ease,
		state.Reps,
		state.Lapses,
		timeToMillis(state.DueAt),
		nullableMillis(state.LastReviewedAt),
		timeToMillis(state.CreatedAt),
		timeToMillis(state.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, store.ErrCollectionNotFound
		}
		return false, fmt.Errorf("failed to insert card state %s: %w", state.Key(), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result for %s: %w", state.Key(), err)
	}

	return affected > 0, nil
}

// Get implements store.CardStateStore.Get
func (s *SQLiteCardStateStore) Get(
	ctx context.Context,
	collectionID uuid.UUID,
	itemID string,
) (*domain.CardState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+cardStateColumns+`
		FROM card_states WHERE collection_id = ? AND item_id = ?
	`, collectionID.String(), itemID)

	return s.scanCardState(ctx, row)
}

// GetForUpdate implements store.CardStateStore.GetForUpdate.
//
// sqlite has no SELECT FOR UPDATE; the surrounding transaction combined
// with the single-connection pool serializes writers, so a plain read
// inside the transaction already gives the per-card write serialization the
// contract asks for.
func (s *SQLiteCardStateStore) GetForUpdate(
	ctx context.Context,
	collectionID uuid.UUID,
	itemID string,
) (*domain.CardState, error) {
	return s.Get(ctx, collectionID, itemID)
}

// Update implements store.CardStateStore.Update
func (s *SQLiteCardStateStore) Update(ctx context.Context, state *domain.CardState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE card_states
		SET interval_days = ?, ease = ?, reps = ?, lapses = ?,
			due_at = ?, last_reviewed_at = ?, updated_at = ?
		WHERE collection_id = ? AND item_id = ?
	`,
		state.IntervalDays,
		state.Ease,
		state.Reps,
		state.Lapses,
		timeToMillis(state.DueAt),
		nullableMillis(state.LastReviewedAt),
		timeToMillis(state.UpdatedAt),
		state.CollectionID.String(),
		state.ItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card state %s: %w", state.Key(), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result for %s: %w", state.Key(), err)
	}
	if affected == 0 {
		return store.ErrCardStateNotFound
	}

	return nil
}

// NextDue implements store.CardStateStore.NextDue. The due boundary is
// inclusive and the ordering is due_at ascending with item_id breaking
// ties, so results are deterministic for a given (collection, now).
func (s *SQLiteCardStateStore) NextDue(
	ctx context.Context,
	collectionID uuid.UUID,
	now time.Time,
) (*domain.CardState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+cardStateColumns+`
		FROM card_states
		WHERE collection_id = ? AND due_at <= ?
		ORDER BY due_at ASC, item_id ASC
		LIMIT 1
	`, collectionID.String(), timeToMillis(now))

	return s.scanCardState(ctx, row)
}

// CountDue implements store.CardStateStore.CountDue
func (s *SQLiteCardStateStore) CountDue(
	ctx context.Context,
	collectionID uuid.UUID,
	now time.Time,
) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM card_states
		WHERE collection_id = ? AND due_at <= ?
	`, collectionID.String(), timeToMillis(now)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards for collection %s: %w", collectionID, err)
	}

	return count, nil
}

// Summaries implements store.CardStateStore.Summaries. Sorting happens in
// Go rather than SQL because the label tie-break uses a locale-aware
// collation that sqlite's byte ordering cannot provide.
func (s *SQLiteCardStateStore) Summaries(
	ctx context.Context,
	now time.Time,
) ([]store.CollectionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.label,
			COALESCE(SUM(CASE WHEN cs.due_at <= ? THEN 1 ELSE 0 END), 0) AS due_count,
			COUNT(cs.item_id) AS total_count
		FROM collections c
		LEFT JOIN card_states cs ON cs.collection_id = c.id
		GROUP BY c.id, c.label
	`, timeToMillis(now))
	if err != nil {
		return nil, fmt.Errorf("failed to query collection summaries: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close summary rows", slog.String("error", closeErr.Error()))
		}
	}()

	var summaries []store.CollectionSummary
	for rows.Next() {
		var (
			summary store.CollectionSummary
			rawID   string
		)
		if err := rows.Scan(&rawID, &summary.Label, &summary.DueCount, &summary.TotalCount); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}

		summary.CollectionID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse collection ID %q: %w", rawID, err)
		}

		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary rows: %w", err)
	}

	collator := collate.New(language.English)
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].DueCount != summaries[j].DueCount {
			return summaries[i].DueCount > summaries[j].DueCount
		}
		return collator.CompareString(summaries[i].Label, summaries[j].Label) < 0
	})

	return summaries, nil
}

// WithTx implements store.CardStateStore.WithTx
func (s *SQLiteCardStateStore) WithTx(tx *sql.Tx) store.CardStateStore {
	return &SQLiteCardStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanCardState reads one card state row. A row holding an ease below the
// floor or a negative interval means something upstream wrote a corrupted
// state; the value is clamped so scheduling stays sane, and a warning is
// logged because it signals a bug elsewhere.
func (s *SQLiteCardStateStore) scanCardState(ctx context.Context, row *sql.Row) (*domain.CardState, error) {
	var (
		state          domain.CardState
		rawID          string
		dueAt          int64
		lastReviewedAt sql.NullInt64
		createdAt      int64
		updatedAt      int64
	)

	err := row.Scan(
		&rawID,
		&state.ItemID,
		&state.IntervalDays,
		&state.Ease,
		&state.Reps,
		&state.Lapses,
		&dueAt,
		&lastReviewedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardStateNotFound
		}
		return nil, fmt.Errorf("failed to scan card state: %w", err)
	}

	state.CollectionID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection ID %q: %w", rawID, err)
	}

	state.DueAt = millisToTime(dueAt)
	state.LastReviewedAt = timeFromNullable(lastReviewedAt)
	state.CreatedAt = millisToTime(createdAt)
	state.UpdatedAt = millisToTime(updatedAt)

	log := s.logger
	if state.Ease < domain.MinEase {
		log.WarnContext(ctx, "clamping corrupted ease on read",
			slog.String("card", state.Key()),
			slog.Float64("stored_ease", state.Ease))
		state.Ease = domain.MinEase
	}
	if state.IntervalDays < 0 {
		log.WarnContext(ctx, "clamping corrupted interval on read",
			slog.String("card", state.Key()),
			slog.Int("stored_interval", state.IntervalDays))
		state.IntervalDays = 0
	}

	return &state, nil
}
