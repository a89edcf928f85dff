// Package review orchestrates graded reviews. It binds the scheduling state
// machine, the due queue, and the experience ledger into transactional
// operations that the HTTP layer exposes.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/domain/leveling"
	"github.com/lexsnap/lexsnap/internal/store"
)

// ReviewResult is the outcome of one graded review: the rescheduled card,
// whether the review counted (the card was due), how much experience it
// granted, and the progression snapshot after the grant.
type ReviewResult struct {
	State    *domain.CardState `json:"state"`
	WasDue   bool              `json:"was_due"`
	Granted  int64             `json:"granted"`
	Mastered bool              `json:"mastered"`
	Progress leveling.Snapshot `json:"progress"`
}

// Overview summarizes experience progression for display: the cumulative
// record, the position within the current level, and today's earned
// experience against the daily cap.
type Overview struct {
	TotalExperience int64             `json:"total_experience"`
	Snapshot        leveling.Snapshot `json:"snapshot"`
	EarnedToday     int64             `json:"earned_today"`
	DailyCap        int64             `json:"daily_cap"`
}

// ReviewService provides the review workflow over collections of cards.
type ReviewService interface {
	// CreateCollection creates a new collection with the given label.
	CreateCollection(ctx context.Context, label string) (*domain.Collection, error)

	// AddCard creates initial scheduling state for an item. Adding is
	// idempotent: re-adding an existing item returns its current state
	// untouched, with created=false. New cards are due immediately.
	// Returns ErrCollectionNotFound if the collection does not exist.
	AddCard(ctx context.Context, collectionID uuid.UUID, itemID string) (
		state *domain.CardState, created bool, err error)

	// SubmitReview applies a graded review to a card in one transaction:
	// it reads the state with a write reservation, computes the transition,
	// persists it, and awards experience. Whether the review counts for
	// experience is decided by the card's due time BEFORE the transition;
	// the transition itself always happens, due or not.
	//
	// Reviews are not de-duplicated: submitting twice reschedules twice.
	// Returns ErrCardNotFound or ErrInvalidGrade for bad input.
	SubmitReview(ctx context.Context, collectionID uuid.UUID, itemID string,
		grade domain.Grade) (*ReviewResult, error)

	// NextCard returns the next due card in the collection, ordered by due
	// time with item ID breaking ties. An unknown collection is
	// indistinguishable from an empty one here: both yield ErrNoCardsDue.
	NextCard(ctx context.Context, collectionID uuid.UUID) (*domain.CardState, error)

	// DueCount returns the number of cards in the collection whose due time
	// has arrived. Unknown collections count zero.
	DueCount(ctx context.Context, collectionID uuid.UUID) (int, error)

	// Summaries returns due/total counts for every collection, busiest
	// first.
	Summaries(ctx context.Context) ([]store.CollectionSummary, error)

	// Postpone pushes a card's due time forward by whole days, days >= 1.
	// Returns ErrCardNotFound or ErrInvalidPostponeDays.
	Postpone(ctx context.Context, collectionID uuid.UUID, itemID string,
		days int) (*domain.CardState, error)

	// IsMastered reports whether the card satisfies the mastery rule.
	// Returns ErrCardNotFound if the card does not exist.
	IsMastered(ctx context.Context, collectionID uuid.UUID, itemID string) (bool, error)

	// ProgressOverview returns the experience progression summary.
	ProgressOverview(ctx context.Context) (*Overview, error)
}

// Common error types for ReviewService
var (
	// ErrCollectionNotFound indicates the collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCardNotFound indicates the card has no scheduling state.
	ErrCardNotFound = errors.New("card not found")

	// ErrNoCardsDue indicates the collection has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrInvalidGrade indicates the review grade is not a recognized value.
	ErrInvalidGrade = errors.New("invalid review grade")

	// ErrInvalidPostponeDays indicates a postpone of less than one day.
	ErrInvalidPostponeDays = errors.New("postpone days must be at least 1")
)

// ServiceError wraps errors from the review service with operation context,
// so consumers can differentiate failure sites with errors.As instead of
// string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "submit_review").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a new ServiceError for the submit_review
// operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_review",
		Message:   message,
		Err:       err,
	}
}

// NewPostponeError returns a new ServiceError for the postpone operation.
func NewPostponeError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "postpone",
		Message:   message,
		Err:       err,
	}
}
