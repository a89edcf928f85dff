package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/domain"
)

// CollectionSummary aggregates review counts for one collection.
type CollectionSummary struct {
	CollectionID uuid.UUID `json:"collection_id"`
	Label        string    `json:"label"`
	DueCount     int       `json:"due_count"`
	TotalCount   int       `json:"total_count"`
}

// CardStateStore defines the interface for card scheduling state persistence.
// It doubles as the due-queue contract: a card is due iff dueAt <= now, with
// no lower bound on how far in the past dueAt may lie.
//
// Due ordering is deterministic for a given (collection, now): due_at
// ascending, ties broken by item_id ascending. The underlying schema leaves
// iteration order unspecified, so implementations must order explicitly.
type CardStateStore interface {
	// Create saves scheduling state for a newly added item. Adding an item
	// is idempotent: if state already exists for the (collection, item) key
	// the call is a no-op and the existing state is NOT reset. The returned
	// bool reports whether a new row was created.
	// Returns validation errors from the domain CardState if data is invalid.
	Create(ctx context.Context, state *domain.CardState) (bool, error)

	// Get retrieves scheduling state by the (collection, item) key.
	// Returns ErrCardStateNotFound if the state does not exist.
	// NOTE: This method does NOT lock the row; use GetForUpdate inside a
	// transaction when the state is about to be updated.
	Get(ctx context.Context, collectionID uuid.UUID, itemID string) (*domain.CardState, error)

	// GetForUpdate retrieves scheduling state and reserves the row for the
	// surrounding transaction, serializing concurrent reviews of the same
	// card. Returns ErrCardStateNotFound if the state does not exist.
	GetForUpdate(ctx context.Context, collectionID uuid.UUID, itemID string) (*domain.CardState, error)

	// Update modifies an existing scheduling state. The CollectionID and
	// ItemID fields identify the record to update.
	// Returns ErrCardStateNotFound if the state does not exist.
	// Returns validation errors from the domain CardState if data is invalid.
	Update(ctx context.Context, state *domain.CardState) error

	// NextDue returns the first due card in the collection at the given
	// time, under the documented ordering. The due boundary is inclusive:
	// a card whose DueAt equals now is returned.
	// Returns ErrCardStateNotFound if no card is due.
	NextDue(ctx context.Context, collectionID uuid.UUID, now time.Time) (*domain.CardState, error)

	// CountDue returns the number of due cards in the collection at the
	// given time.
	CountDue(ctx context.Context, collectionID uuid.UUID, now time.Time) (int, error)

	// Summaries returns per-collection due/total counts for every
	// collection, sorted by due count descending with ties broken by label
	// ascending under a locale-aware collation.
	Summaries(ctx context.Context, now time.Time) ([]CollectionSummary, error)

	// WithTx returns a new CardStateStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) CardStateStore
}
