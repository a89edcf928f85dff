package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/store"
)

// SQLiteCollectionStore implements the store.CollectionStore interface
// using a sqlite database as the storage backend.
type SQLiteCollectionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteCollectionStore creates a new sqlite implementation of the
// CollectionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewSQLiteCollectionStore(db store.DBTX, logger *slog.Logger) *SQLiteCollectionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteCollectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

// Ensure SQLiteCollectionStore implements store.CollectionStore interface
var _ store.CollectionStore = (*SQLiteCollectionStore)(nil)

// Create implements store.CollectionStore.Create
func (s *SQLiteCollectionStore) Create(ctx context.Context, collection *domain.Collection) error {
	if err := collection.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, label, created_at)
		VALUES (?, ?, ?)
	`,
		collection.ID.String(),
		collection.Label,
		timeToMillis(collection.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to insert collection %s: %w", collection.ID, err)
	}

	return nil
}

// GetByID implements store.CollectionStore.GetByID
func (s *SQLiteCollectionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	var (
		collection domain.Collection
		rawID      string
		createdAt  int64
	)

	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, created_at
		FROM collections WHERE id = ?
	`, id.String())

	err := row.Scan(&rawID, &collection.Label, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to get collection %s: %w", id, err)
	}

	collection.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection ID %q: %w", rawID, err)
	}
	collection.CreatedAt = millisToTime(createdAt)

	return &collection, nil
}

// WithTx implements store.CollectionStore.WithTx
func (s *SQLiteCollectionStore) WithTx(tx *sql.Tx) store.CollectionStore {
	return &SQLiteCollectionStore{
		db:     tx,
		logger: s.logger,
	}
}
