package domain

// Grade represents the user-reported recall quality for a single review.
type Grade string

// Possible review grades.
const (
	GradeAgain Grade = "again"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// Quality maps a grade onto the 0-5 quality scale used by the scheduling
// formulas: again=0, hard=3, good=4, easy=5. Grades below 3 count as lapses.
func (g Grade) Quality() int {
	switch g {
	case GradeAgain:
		return 0
	case GradeHard:
		return 3
	case GradeGood:
		return 4
	case GradeEasy:
		return 5
	default:
		// Callers must validate with IsValid first; an unknown grade has
		// no meaningful quality.
		return -1
	}
}

// IsValid reports whether the grade is one of the four recognized values.
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	default:
		return false
	}
}
