package scheduler

import (
	"fmt"
	"math"
	"time"
)

// SM-2 quality values produced by the three ratings in the reviewing
// phase.
const (
	QualityForgot = 0
	QualityHard   = 3
	QualityEasy   = 5
)

// The first two successful reviews use fixed interval anchors,
// independent of the easiness factor.
const (
	firstIntervalDays  = 1
	secondIntervalDays = 6
)

// nextEasiness applies the SM-2 easiness update
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// clamped to the MinEasiness floor. There is no ceiling.
func nextEasiness(ef float64, quality int) float64 {
	q := float64(quality)
	ef += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	return math.Max(ef, MinEasiness)
}

// nextInterval returns the interval in days for the reps-th successful
// review. From the third review on, the interval grows by the easiness
// factor in effect before the current review's update (classical SM-2
// ordering), rounded up.
func nextInterval(reps, intervalDays int, ef float64) int {
	switch reps {
	case 1:
		return firstIntervalDays
	case 2:
		return secondIntervalDays
	default:
		return int(math.Ceil(float64(intervalDays) * ef))
	}
}

// applyReviewing advances a graduated card by one SM-2 quality value.
// Forgot does not compute a new interval: the card regresses to learning
// step 1 with its easiness untouched. Hard and Easy run the recurrence.
func applyReviewing(s CardState, quality int, clk Clock) (Result, error) {
	switch quality {
	case QualityForgot:
		// Repetitions and interval restart when the card re-graduates.
		s.Phase = PhaseLearning
		s.Step = 1
		s.Repetitions = 0
		s.IntervalDays = 1
		s.Due = clk.Deadline(StepDuration(1))
		return Result{State: s, Event: "back to learning"}, nil
	case QualityHard, QualityEasy:
		interval := nextInterval(s.Repetitions+1, s.IntervalDays, s.Easiness)
		s.Repetitions++
		s.IntervalDays = interval
		s.Easiness = nextEasiness(s.Easiness, quality)
		s.Due = clk.Deadline(time.Duration(interval) * 24 * time.Hour)
		return Result{State: s, Event: fmt.Sprintf("reviewing, interval now %d day(s)", interval)}, nil
	}
	return Result{}, fmt.Errorf("%w: quality %d", ErrInvalidRating, quality)
}
