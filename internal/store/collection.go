package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/domain"
)

// CollectionStore defines the interface for collection persistence.
type CollectionStore interface {
	// Create saves a new collection.
	// Returns validation errors from the domain Collection if data is invalid.
	// Returns ErrDuplicate if a collection with the same ID already exists.
	Create(ctx context.Context, collection *domain.Collection) error

	// GetByID retrieves a collection by its unique ID.
	// Returns ErrCollectionNotFound if the collection does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error)

	// WithTx returns a new CollectionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CollectionStore
}
