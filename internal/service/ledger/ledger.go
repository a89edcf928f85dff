// Package ledger awards experience for graded reviews against the daily cap
// and keeps the derived level consistent with the cumulative total.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/domain/leveling"
	"github.com/lexsnap/lexsnap/internal/platform/logger"
	"github.com/lexsnap/lexsnap/internal/store"
)

// DailyCap is the maximum experience grantable per local calendar day.
// Reviews past the cap still reschedule cards; they just grant nothing.
const DailyCap int64 = 300

// ErrInvalidGrade indicates the grade is not one of the recognized values.
var ErrInvalidGrade = errors.New("invalid review grade")

// BaseReward returns the ungated experience value of a grade. A lapse earns
// nothing; harder recalls earn less than easy ones.
func BaseReward(grade domain.Grade) int64 {
	switch grade {
	case domain.GradeAgain:
		return 0
	case domain.GradeHard:
		return 1
	case domain.GradeGood:
		return 2
	case domain.GradeEasy:
		return 3
	default:
		return 0
	}
}

// Service grants experience for reviews. It owns the reward table, the daily
// cap, and the rule that Level is always derived from TotalExperience.
type Service struct {
	logger *slog.Logger
}

// NewService creates a new ledger service.
// If logger is nil, a default logger will be used.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		logger: logger.With(slog.String("component", "ledger_service")),
	}
}

// Award grants experience for a single graded review and returns the amount
// granted along with the post-award progress record.
//
// A review of a card that was not yet due grants nothing and mutates
// nothing, as does a lapse or an exhausted daily cap. When a grant happens,
// the total, the derived level, and the daily counter are all written through
// the given progressStore; callers award inside a transaction and pass the
// tx-scoped store so the three writes land atomically with the card update.
func (s *Service) Award(
	ctx context.Context,
	progressStore store.ProgressStore,
	grade domain.Grade,
	wasDue bool,
	now time.Time,
) (int64, *domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.IsValid() {
		return 0, nil, ErrInvalidGrade
	}

	progress, err := progressStore.GetProgress(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if !wasDue {
		log.Debug("no award for early review", slog.String("grade", string(grade)))
		return 0, progress, nil
	}

	base := BaseReward(grade)
	if base == 0 {
		return 0, progress, nil
	}

	dayKey := domain.DayKey(now)
	daily, err := progressStore.GetDaily(ctx, dayKey)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get daily experience for %s: %w", dayKey, err)
	}

	remaining := DailyCap - daily.Earned
	if remaining < 0 {
		remaining = 0
	}

	granted := base
	if granted > remaining {
		granted = remaining
	}

	if granted == 0 {
		log.Debug("daily cap exhausted",
			slog.String("date", dayKey),
			slog.Int64("earned", daily.Earned))
		return 0, progress, nil
	}

	progress.TotalExperience += granted
	progress.Level = leveling.LevelForExperience(progress.TotalExperience)
	progress.UpdatedAt = now
	if err := progressStore.UpdateProgress(ctx, progress); err != nil {
		return 0, nil, fmt.Errorf("failed to update progress: %w", err)
	}

	daily.Earned += granted
	if err := progressStore.UpdateDaily(ctx, daily); err != nil {
		return 0, nil, fmt.Errorf("failed to update daily experience for %s: %w", dayKey, err)
	}

	log.Debug("granted experience",
		slog.Int64("granted", granted),
		slog.Int64("total", progress.TotalExperience),
		slog.Int("level", progress.Level),
		slog.Int64("earned_today", daily.Earned))

	return granted, progress, nil
}
