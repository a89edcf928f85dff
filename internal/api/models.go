package api

import (
	"time"

	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/domain/srs"
	"github.com/lexsnap/lexsnap/internal/service/review"
)

// CreateCollectionRequest represents the request body for creating a collection
type CreateCollectionRequest struct {
	Label string `json:"label" validate:"required,min=1,max=200"`
}

// CollectionResponse represents the response data for a collection
type CollectionResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// AddCardRequest represents the request body for adding a card to a collection
type AddCardRequest struct {
	ItemID string `json:"item_id" validate:"required,min=1,max=200"`
}

// ReviewRequest represents the request body for submitting a graded review
type ReviewRequest struct {
	Grade string `json:"grade" validate:"required,oneof=again hard good easy"`
}

// PostponeRequest represents the request body for postponing a card
type PostponeRequest struct {
	Days int `json:"days" validate:"required,gte=1"`
}

// CardStateResponse represents the scheduling state of a single card
type CardStateResponse struct {
	CollectionID   string     `json:"collection_id"`
	ItemID         string     `json:"item_id"`
	IntervalDays   int        `json:"interval_days"`
	Ease           float64    `json:"ease"`
	Reps           int        `json:"reps"`
	Lapses         int        `json:"lapses"`
	DueAt          time.Time  `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	Mastered       bool       `json:"mastered"`
}

// ReviewResponse represents the outcome of a submitted review
type ReviewResponse struct {
	State         CardStateResponse `json:"state"`
	WasDue        bool              `json:"was_due"`
	Granted       int64             `json:"granted"`
	Level         int               `json:"level"`
	LevelProgress float64           `json:"level_progress"`
}

// DueCountResponse represents the due-card count of a collection
type DueCountResponse struct {
	DueCount int `json:"due_count"`
}

// ProgressResponse represents the experience progression summary
type ProgressResponse struct {
	TotalExperience int64   `json:"total_experience"`
	Level           int     `json:"level"`
	Current         int64   `json:"current"`
	Required        int64   `json:"required"`
	Progress        float64 `json:"progress"`
	EarnedToday     int64   `json:"earned_today"`
	DailyCap        int64   `json:"daily_cap"`
}

// collectionToResponse converts a domain.Collection to a CollectionResponse
func collectionToResponse(collection *domain.Collection) CollectionResponse {
	return CollectionResponse{
		ID:        collection.ID.String(),
		Label:     collection.Label,
		CreatedAt: collection.CreatedAt,
	}
}

// cardStateToResponse converts a domain.CardState to a CardStateResponse.
// The mastery flag is derived on the way out so callers that consume card
// states (the candidate pipeline in particular) never re-implement the rule.
func cardStateToResponse(state *domain.CardState) CardStateResponse {
	response := CardStateResponse{
		CollectionID: state.CollectionID.String(),
		ItemID:       state.ItemID,
		IntervalDays: state.IntervalDays,
		Ease:         state.Ease,
		Reps:         state.Reps,
		Lapses:       state.Lapses,
		DueAt:        state.DueAt,
		Mastered:     srs.IsMastered(state, srs.DefaultMasteryRule()),
	}

	if !state.LastReviewedAt.IsZero() {
		lastReviewed := state.LastReviewedAt
		response.LastReviewedAt = &lastReviewed
	}

	return response
}

// reviewResultToResponse converts a review.ReviewResult to a ReviewResponse
func reviewResultToResponse(result *review.ReviewResult) ReviewResponse {
	response := ReviewResponse{
		State:         cardStateToResponse(result.State),
		WasDue:        result.WasDue,
		Granted:       result.Granted,
		Level:         result.Progress.Level,
		LevelProgress: result.Progress.Progress,
	}
	response.State.Mastered = result.Mastered
	return response
}

// overviewToResponse converts a review.Overview to a ProgressResponse
func overviewToResponse(overview *review.Overview) ProgressResponse {
	return ProgressResponse{
		TotalExperience: overview.TotalExperience,
		Level:           overview.Snapshot.Level,
		Current:         overview.Snapshot.Current,
		Required:        overview.Snapshot.Required,
		Progress:        overview.Snapshot.Progress,
		EarnedToday:     overview.EarnedToday,
		DailyCap:        overview.DailyCap,
	}
}
