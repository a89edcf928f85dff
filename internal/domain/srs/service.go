package srs

import (
	"errors"
	"time"

	"github.com/lexsnap/lexsnap/internal/domain"
)

// Common errors
var (
	ErrNilState     = errors.New("card state cannot be nil")
	ErrInvalidGrade = errors.New("invalid review grade")
	ErrInvalidDays  = errors.New("postpone days must be at least 1")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// Review computes the card state resulting from a graded review.
	// It is pure and deterministic given now: the input state is not
	// modified, and a malformed grade is an error, never silently
	// defaulted.
	Review(
		state *domain.CardState,
		grade domain.Grade,
		now time.Time,
	) (*domain.CardState, error)

	// Postpone pushes the next due time forward by a specified number of days.
	Postpone(
		state *domain.CardState,
		days int,
		now time.Time,
	) (*domain.CardState, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Review implements the Service interface.
func (s *defaultService) Review(
	state *domain.CardState,
	grade domain.Grade,
	now time.Time,
) (*domain.CardState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !grade.IsValid() {
		return nil, ErrInvalidGrade
	}

	return nextState(state, grade, now, s.params), nil
}

// Postpone implements the Service interface.
func (s *defaultService) Postpone(
	state *domain.CardState,
	days int,
	now time.Time,
) (*domain.CardState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := state.Clone()
	next.DueAt = state.DueAt.AddDate(0, 0, days)
	next.UpdatedAt = now

	return next, nil
}
