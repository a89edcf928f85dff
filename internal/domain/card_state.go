package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults for newly added cards.
const (
	// DefaultEase is the ease factor assigned to a card on creation.
	DefaultEase = 2.5

	// MinEase is the hard floor for the ease factor. No transition may
	// produce an ease below this value.
	MinEase = 1.3
)

// CardState validation errors
var (
	ErrCardCollectionIDEmpty = errors.New("card state collection ID cannot be empty")
	ErrCardItemIDEmpty       = errors.New("card state item ID cannot be empty")
	ErrInvalidInterval       = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEase           = errors.New("ease must be at least 1.3")
	ErrInvalidReps           = errors.New("reps must be greater than or equal to 0")
	ErrInvalidLapses         = errors.New("lapses must be greater than or equal to 0")
)

// CardState tracks the spaced repetition schedule for a single vocabulary
// item within a collection. It is mutated exclusively by the srs package in
// response to graded reviews.
type CardState struct {
	CollectionID   uuid.UUID `json:"collection_id"`
	ItemID         string    `json:"item_id"`          // Normalized term, stable per item
	IntervalDays   int       `json:"interval_days"`    // Last computed review interval
	Ease           float64   `json:"ease"`             // Difficulty factor (1.3-2.8 typically)
	Reps           int       `json:"reps"`             // Consecutive successes since last lapse
	Lapses         int       `json:"lapses"`           // Count of failed reviews
	DueAt          time.Time `json:"due_at"`           // Eligible for review when now >= DueAt
	LastReviewedAt time.Time `json:"last_reviewed_at"` // Zero time means never reviewed
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewCardState creates scheduling state for a freshly added item. New cards
// are due immediately.
// Returns an error if validation fails.
func NewCardState(collectionID uuid.UUID, itemID string, now time.Time) (*CardState, error) {
	state := &CardState{
		CollectionID:   collectionID,
		ItemID:         itemID,
		IntervalDays:   0,
		Ease:           DefaultEase,
		Reps:           0,
		Lapses:         0,
		DueAt:          now,
		LastReviewedAt: time.Time{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the CardState has valid data.
// Returns an error if any field fails validation.
func (s *CardState) Validate() error {
	if s.CollectionID == uuid.Nil {
		return ErrCardCollectionIDEmpty
	}

	if s.ItemID == "" {
		return ErrCardItemIDEmpty
	}

	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if s.Ease < MinEase {
		return ErrInvalidEase
	}

	if s.Reps < 0 {
		return ErrInvalidReps
	}

	if s.Lapses < 0 {
		return ErrInvalidLapses
	}

	return nil
}

// Key returns the uniqueness key for the card, formed from the collection
// and item identifiers.
func (s *CardState) Key() string {
	return fmt.Sprintf("%s:%s", s.CollectionID, s.ItemID)
}

// IsDue reports whether the card is eligible for review at the given time.
// The boundary is inclusive: a card is due the instant now equals DueAt, and
// cards scheduled arbitrarily far in the past remain eligible.
func (s *CardState) IsDue(now time.Time) bool {
	return !now.Before(s.DueAt)
}

// Clone returns a copy of the state. The srs package updates cards by
// cloning and mutating the copy rather than modifying the original.
func (s *CardState) Clone() *CardState {
	clone := *s
	return &clone
}
