// Package leveling maps cumulative experience to levels along a geometric
// progression. The curve is the inverse pair RequiredForLevel and
// LevelForExperience plus a progress helper for display.
package leveling

import "math"

// Curve constants. Level thresholds follow a geometric series with this
// base and scale: each level costs 1.3x the previous one, starting at 30 XP.
const (
	Base  = 30.0
	Scale = 1.3
)

// RequiredForLevel returns the cumulative experience needed to reach the
// given level. Level 1 (and below) costs nothing. The series is strictly
// increasing, so it inverts exactly through LevelForExperience.
func RequiredForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(math.Floor(Base * (math.Pow(Scale, float64(level-1)) - 1) / (Scale - 1)))
}

// LevelForExperience returns the level reached with the given cumulative
// experience, never below 1.
//
// The closed form 1 + floor(log(1 + total*(S-1)/B) / log(S)) is used as an
// estimate and then corrected against the integer thresholds, so the
// round-trip LevelForExperience(RequiredForLevel(L)) == L holds exactly at
// every boundary despite float64 log error.
func LevelForExperience(total int64) int {
	if total <= 0 {
		return 1
	}

	level := 1 + int(math.Floor(math.Log(1+float64(total)*(Scale-1)/Base)/math.Log(Scale)))
	if level < 1 {
		level = 1
	}

	for level > 1 && RequiredForLevel(level) > total {
		level--
	}
	for RequiredForLevel(level+1) <= total {
		level++
	}

	return level
}

// Snapshot describes progress within the current level for display.
type Snapshot struct {
	Level    int     `json:"level"`
	Current  int64   `json:"current"`  // XP earned within the current level
	Required int64   `json:"required"` // XP span of the current level
	Progress float64 `json:"progress"` // Current/Required clamped to [0,1]
}

// ProgressToNext reports how far the given cumulative experience has
// progressed through its level. Progress is clamped to [0,1] and reported
// as complete if the level span is somehow non-positive.
func ProgressToNext(total int64) Snapshot {
	level := LevelForExperience(total)
	floor := RequiredForLevel(level)
	ceil := RequiredForLevel(level + 1)

	current := total - floor
	if current < 0 {
		current = 0
	}
	required := ceil - floor

	var progress float64
	if required <= 0 {
		progress = 1
	} else {
		progress = float64(current) / float64(required)
		if progress < 0 {
			progress = 0
		}
		if progress > 1 {
			progress = 1
		}
	}

	return Snapshot{
		Level:    level,
		Current:  current,
		Required: required,
		Progress: progress,
	}
}
