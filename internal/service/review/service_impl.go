package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/domain/leveling"
	"github.com/lexsnap/lexsnap/internal/domain/srs"
	"github.com/lexsnap/lexsnap/internal/platform/logger"
	"github.com/lexsnap/lexsnap/internal/service/ledger"
	"github.com/lexsnap/lexsnap/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db              *sql.DB
	collectionStore store.CollectionStore
	cardStore       store.CardStateStore
	progressStore   store.ProgressStore
	srsService      srs.Service
	ledgerService   *ledger.Service
	masteryRule     srs.MasteryRule
	now             func() time.Time
	logger          *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
// nowFn injects the clock; pass nil to use UTC wall time. If logger is nil,
// a default logger will be used.
func NewReviewService(
	db *sql.DB,
	collectionStore store.CollectionStore,
	cardStore store.CardStateStore,
	progressStore store.ProgressStore,
	srsService srs.Service,
	ledgerService *ledger.Service,
	nowFn func() time.Time,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if collectionStore == nil {
		panic("collectionStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if ledgerService == nil {
		panic("ledgerService cannot be nil")
	}

	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:              db,
		collectionStore: collectionStore,
		cardStore:       cardStore,
		progressStore:   progressStore,
		srsService:      srsService,
		ledgerService:   ledgerService,
		masteryRule:     srs.DefaultMasteryRule(),
		now:             nowFn,
		logger:          logger.With(slog.String("component", "review_service")),
	}
}

// CreateCollection implements ReviewService.CreateCollection.
func (s *reviewServiceImpl) CreateCollection(
	ctx context.Context,
	label string,
) (*domain.Collection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	collection, err := domain.NewCollection(label, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.collectionStore.Create(ctx, collection); err != nil {
		log.Error("failed to create collection",
			slog.String("error", err.Error()),
			slog.String("label", collection.Label))
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	log.Debug("created collection",
		slog.String("collection_id", collection.ID.String()),
		slog.String("label", collection.Label))
	return collection, nil
}

// AddCard implements ReviewService.AddCard.
func (s *reviewServiceImpl) AddCard(
	ctx context.Context,
	collectionID uuid.UUID,
	itemID string,
) (*domain.CardState, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := domain.NewCardState(collectionID, itemID, s.now())
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	created, err := s.cardStore.Create(ctx, state)
	if err != nil {
		if errors.Is(err, store.ErrCollectionNotFound) {
			return nil, false, ErrCollectionNotFound
		}
		log.Error("failed to add card",
			slog.String("error", err.Error()),
			slog.String("card", state.Key()))
		return nil, false, fmt.Errorf("failed to add card: %w", err)
	}

	if !created {
		// Re-adding must surface the existing schedule, not the fresh one.
		existing, err := s.cardStore.Get(ctx, collectionID, itemID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load existing card: %w", err)
		}
		log.Debug("card already exists", slog.String("card", existing.Key()))
		return existing, false, nil
	}

	log.Debug("added card", slog.String("card", state.Key()))
	return state, true, nil
}

// SubmitReview implements ReviewService.SubmitReview.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	collectionID uuid.UUID,
	itemID string,
	grade domain.Grade,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.IsValid() {
		log.Warn("invalid review grade",
			slog.String("collection_id", collectionID.String()),
			slog.String("item_id", itemID),
			slog.String("grade", string(grade)))
		return nil, ErrInvalidGrade
	}

	now := s.now()

	var result *ReviewResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		progress := s.progressStore.WithTx(tx)

		state, err := cards.GetForUpdate(ctx, collectionID, itemID)
		if err != nil {
			if errors.Is(err, store.ErrCardStateNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card state: %w", err)
		}

		// Whether the review earns experience is fixed by the schedule the
		// user saw, before the transition rewrites DueAt.
		wasDue := state.IsDue(now)

		next, err := s.srsService.Review(state, grade, now)
		if err != nil {
			return fmt.Errorf("failed to compute review transition: %w", err)
		}

		if err := cards.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update card state: %w", err)
		}

		granted, progressRecord, err := s.ledgerService.Award(ctx, progress, grade, wasDue, now)
		if err != nil {
			return fmt.Errorf("failed to award experience: %w", err)
		}

		result = &ReviewResult{
			State:    next,
			WasDue:   wasDue,
			Granted:  granted,
			Mastered: srs.IsMastered(next, s.masteryRule),
			Progress: leveling.ProgressToNext(progressRecord.TotalExperience),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrInvalidGrade) {
			return nil, err
		}

		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()),
			slog.String("item_id", itemID))
		return nil, NewSubmitReviewError("transaction failed", err)
	}

	log.Debug("processed review",
		slog.String("collection_id", collectionID.String()),
		slog.String("item_id", itemID),
		slog.String("grade", string(grade)),
		slog.Bool("was_due", result.WasDue),
		slog.Int64("granted", result.Granted),
		slog.Int("interval_days", result.State.IntervalDays),
		slog.Float64("ease", result.State.Ease),
		slog.Time("due_at", result.State.DueAt))

	return result, nil
}

// NextCard implements ReviewService.NextCard.
func (s *reviewServiceImpl) NextCard(
	ctx context.Context,
	collectionID uuid.UUID,
) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	state, err := s.cardStore.NextDue(ctx, collectionID, s.now())
	if err != nil {
		if errors.Is(err, store.ErrCardStateNotFound) {
			log.Debug("no cards due",
				slog.String("collection_id", collectionID.String()))
			return nil, ErrNoCardsDue
		}

		log.Error("failed to get next due card",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()))
		return nil, fmt.Errorf("failed to get next due card: %w", err)
	}

	return state, nil
}

// DueCount implements ReviewService.DueCount.
func (s *reviewServiceImpl) DueCount(
	ctx context.Context,
	collectionID uuid.UUID,
) (int, error) {
	count, err := s.cardStore.CountDue(ctx, collectionID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards: %w", err)
	}
	return count, nil
}

// Summaries implements ReviewService.Summaries.
func (s *reviewServiceImpl) Summaries(ctx context.Context) ([]store.CollectionSummary, error) {
	summaries, err := s.cardStore.Summaries(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get collection summaries: %w", err)
	}
	return summaries, nil
}

// Postpone implements ReviewService.Postpone.
func (s *reviewServiceImpl) Postpone(
	ctx context.Context,
	collectionID uuid.UUID,
	itemID string,
	days int,
) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()

	var updated *domain.CardState
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)

		state, err := cards.GetForUpdate(ctx, collectionID, itemID)
		if err != nil {
			if errors.Is(err, store.ErrCardStateNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card state: %w", err)
		}

		next, err := s.srsService.Postpone(state, days, now)
		if err != nil {
			if errors.Is(err, srs.ErrInvalidDays) {
				return ErrInvalidPostponeDays
			}
			return fmt.Errorf("failed to compute postponed schedule: %w", err)
		}

		if err := cards.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update card state: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrInvalidPostponeDays) {
			return nil, err
		}

		log.Error("failed to postpone card",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()),
			slog.String("item_id", itemID))
		return nil, NewPostponeError("transaction failed", err)
	}

	log.Debug("postponed card",
		slog.String("card", updated.Key()),
		slog.Int("days", days),
		slog.Time("due_at", updated.DueAt))

	return updated, nil
}

// IsMastered implements ReviewService.IsMastered.
func (s *reviewServiceImpl) IsMastered(
	ctx context.Context,
	collectionID uuid.UUID,
	itemID string,
) (bool, error) {
	state, err := s.cardStore.Get(ctx, collectionID, itemID)
	if err != nil {
		if errors.Is(err, store.ErrCardStateNotFound) {
			return false, ErrCardNotFound
		}
		return false, fmt.Errorf("failed to get card state: %w", err)
	}

	return srs.IsMastered(state, s.masteryRule), nil
}

// ProgressOverview implements ReviewService.ProgressOverview.
func (s *reviewServiceImpl) ProgressOverview(ctx context.Context) (*Overview, error) {
	now := s.now()

	progress, err := s.progressStore.GetProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	daily, err := s.progressStore.GetDaily(ctx, domain.DayKey(now))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily experience: %w", err)
	}

	return &Overview{
		TotalExperience: progress.TotalExperience,
		Snapshot:        leveling.ProgressToNext(progress.TotalExperience),
		EarnedToday:     daily.Earned,
		DailyCap:        ledger.DailyCap,
	}, nil
}
