package scheduler

import (
	"fmt"
	"strings"
)

// Rating is one of the three discrete review ratings.
type Rating int

const (
	Forgot Rating = iota + 1
	Hard
	Easy
)

// String returns the rating name.
func (r Rating) String() string {
	switch r {
	case Forgot:
		return "Forgot"
	case Hard:
		return "Hard"
	case Easy:
		return "Easy"
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// Valid reports whether r is one of the three known ratings.
func (r Rating) Valid() bool {
	return r == Forgot || r == Hard || r == Easy
}

// ParseRating maps a raw user entry ("1"/"2"/"3" or a rating name, case
// insensitive) to a Rating. Unrecognized tokens yield ErrInvalidRating.
func ParseRating(token string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "1", "forgot":
		return Forgot, nil
	case "2", "hard":
		return Hard, nil
	case "3", "easy":
		return Easy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRating, token)
}

// Quality maps a rating to the SM-2 quality value consumed in the
// reviewing phase: Forgot=0, Hard=3, Easy=5. These are the only quality
// values ever produced. While a card is in the learning phase, ratings
// are interpreted structurally (regress/repeat/advance) and never pass
// through this mapping.
func (r Rating) Quality() (int, error) {
	switch r {
	case Forgot:
		return QualityForgot, nil
	case Hard:
		return QualityHard, nil
	case Easy:
		return QualityEasy, nil
	}
	return 0, fmt.Errorf("%w: rating %d", ErrInvalidRating, int(r))
}
