package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/service/review"
	"github.com/lexsnap/lexsnap/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, review.ErrCollectionNotFound),
		errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, store.ErrCollectionNotFound),
		errors.Is(err, store.ErrCardStateNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, review.ErrInvalidGrade),
		errors.Is(err, review.ErrInvalidPostponeDays):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, review.ErrNoCardsDue):
		return http.StatusNoContent

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, review.ErrCollectionNotFound),
		errors.Is(err, store.ErrCollectionNotFound):
		return "Collection not found"

	case errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, store.ErrCardStateNotFound):
		return "Card not found"

	case errors.Is(err, review.ErrInvalidGrade):
		return "Invalid grade"

	case errors.Is(err, review.ErrInvalidPostponeDays):
		return "Postpone days must be at least 1"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// No cards due is handled separately with StatusNoContent

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'ReviewRequest.Grade' Error:Field validation
	// for 'Grade' failed on the 'oneof' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "too small"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
