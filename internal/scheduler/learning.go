package scheduler

import (
	"fmt"
	"time"
)

// LearningSteps are the fixed rehearsal durations a new card walks
// through before graduating: 1 minute, 10 minutes, 1 day. Configuration
// constants, not derived.
var LearningSteps = [3]time.Duration{
	time.Minute,
	10 * time.Minute,
	24 * time.Hour,
}

// StepDuration returns the nominal duration of a learning step (1-based).
// The step must already be validated.
func StepDuration(step int) time.Duration {
	return LearningSteps[step-1]
}

// applyLearning advances a learning-phase card by one rating. Forgot
// resets to step 1, Hard repeats the current step, Easy advances; Easy at
// the final step graduates the card into the SM-2 schedule with
// repetitions=1 and a 1-day interval, easiness carried over unchanged.
func applyLearning(s CardState, rating Rating, clk Clock) (Result, error) {
	switch rating {
	case Forgot:
		s.Step = 1
		s.Due = clk.Deadline(StepDuration(1))
		return Result{State: s, Event: "reset to step 1"}, nil
	case Hard:
		s.Due = clk.Deadline(StepDuration(s.Step))
		return Result{State: s, Event: fmt.Sprintf("repeat step %d", s.Step)}, nil
	case Easy:
		if s.Step < len(LearningSteps) {
			s.Step++
			s.Due = clk.Deadline(StepDuration(s.Step))
			return Result{State: s, Event: fmt.Sprintf("advance to step %d", s.Step)}, nil
		}
		graduated := CardState{
			Phase:        PhaseReviewing,
			Repetitions:  1,
			IntervalDays: 1,
			Easiness:     s.Easiness,
			Due:          clk.Deadline(24 * time.Hour),
		}
		return Result{State: graduated, Event: "graduated", Graduated: true}, nil
	}
	return Result{}, fmt.Errorf("%w: rating %d", ErrInvalidRating, int(rating))
}
