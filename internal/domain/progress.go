package domain

import (
	"errors"
	"time"
)

// DayKeyLayout is the time layout for daily experience counter keys.
// The key is the local calendar date of the review, not UTC.
const DayKeyLayout = "2006-01-02"

// Progress validation errors
var (
	ErrNegativeExperience = errors.New("total experience cannot be negative")
	ErrInvalidLevel       = errors.New("level must be at least 1")
	ErrDailyDateEmpty     = errors.New("daily experience date cannot be empty")
	ErrNegativeEarned     = errors.New("daily earned experience cannot be negative")
)

// Progress is the process-wide experience record. It is created lazily with
// zero experience at level 1 and mutated only by the experience ledger.
// Level is derived from TotalExperience via the leveling curve and must be
// recomputed on every mutation.
type Progress struct {
	TotalExperience int64     `json:"total_experience"`
	Level           int       `json:"level"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewProgress returns the initial experience record.
func NewProgress(now time.Time) *Progress {
	return &Progress{
		TotalExperience: 0,
		Level:           1,
		UpdatedAt:       now,
	}
}

// Validate checks if the Progress record has valid data.
func (p *Progress) Validate() error {
	if p.TotalExperience < 0 {
		return ErrNegativeExperience
	}

	if p.Level < 1 {
		return ErrInvalidLevel
	}

	return nil
}

// DailyExperience counts experience earned on a single local calendar day.
// Earned only grows within a day and is bounded by the ledger's daily cap.
// Records for past days are retained as history and never mutated after the
// day rolls over.
type DailyExperience struct {
	Date   string `json:"date"` // DayKeyLayout-formatted local date
	Earned int64  `json:"earned"`
}

// NewDailyExperience returns a zero-initialized counter for the local
// calendar day containing now.
func NewDailyExperience(now time.Time) *DailyExperience {
	return &DailyExperience{
		Date:   DayKey(now),
		Earned: 0,
	}
}

// Validate checks if the DailyExperience record has valid data.
func (d *DailyExperience) Validate() error {
	if d.Date == "" {
		return ErrDailyDateEmpty
	}

	if d.Earned < 0 {
		return ErrNegativeEarned
	}

	return nil
}

// DayKey formats the local calendar date of t as a daily counter key.
func DayKey(t time.Time) string {
	return t.Local().Format(DayKeyLayout)
}
