package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Collection-specific validation errors
var (
	// ErrCollectionIDEmpty is returned when a collection ID is empty or nil.
	ErrCollectionIDEmpty = errors.New("collection ID cannot be empty")

	// ErrCollectionLabelEmpty is returned when a collection's label is blank.
	ErrCollectionLabelEmpty = errors.New("collection label cannot be empty")
)

// Collection is a deck of reviewable vocabulary items. Cards are keyed by
// the combination of collection ID and item ID, so the collection forms one
// half of every card's identity.
type Collection struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCollection creates a new Collection with the given human-readable label.
// It generates a new UUID for the collection ID.
// Returns an error if validation fails.
func NewCollection(label string, now time.Time) (*Collection, error) {
	collection := &Collection{
		ID:        uuid.New(),
		Label:     strings.TrimSpace(label),
		CreatedAt: now,
	}

	if err := collection.Validate(); err != nil {
		return nil, err
	}

	return collection, nil
}

// Validate checks if the Collection has valid data.
// Returns an error if any field fails validation.
func (c *Collection) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCollectionIDEmpty
	}

	if c.Label == "" {
		return ErrCollectionLabelEmpty
	}

	return nil
}
