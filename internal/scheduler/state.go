package scheduler

import (
	"fmt"
	"time"
)

// Phase says whether a card is walking the learning steps or has
// graduated to the SM-2 schedule.
type Phase int

const (
	PhaseLearning Phase = iota + 1
	PhaseReviewing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLearning:
		return "learning"
	case PhaseReviewing:
		return "reviewing"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

const (
	// DefaultEasiness is the SM-2 easiness factor of a new card.
	DefaultEasiness = 2.5
	// MinEasiness is the SM-2 easiness floor.
	MinEasiness = 1.3
)

// CardState is the complete schedule state of one card. Step is
// meaningful only while Phase is PhaseLearning; Repetitions and
// IntervalDays only while PhaseReviewing. Easiness and Due are always
// meaningful.
type CardState struct {
	Phase        Phase     `json:"phase"`
	Step         int       `json:"step"`
	Repetitions  int       `json:"repetitions"`
	IntervalDays int       `json:"interval_days"`
	Easiness     float64   `json:"easiness_factor"`
	Due          time.Time `json:"next_due"`
}

// NewCardState is the schedule of a freshly added card: learning step 1,
// first review due after the step-1 duration.
func NewCardState(clk Clock) CardState {
	return CardState{
		Phase:        PhaseLearning,
		Step:         1,
		IntervalDays: 1,
		Easiness:     DefaultEasiness,
		Due:          clk.Deadline(StepDuration(1)),
	}
}

// Validate returns ErrInconsistentState when the phase-conditional
// invariants do not hold. A failing state signals data corruption in the
// persistence layer and fails the review; the record is not repaired.
func (s CardState) Validate() error {
	if s.Easiness < MinEasiness {
		return fmt.Errorf("%w: easiness factor %.2f below floor %.1f",
			ErrInconsistentState, s.Easiness, MinEasiness)
	}
	switch s.Phase {
	case PhaseLearning:
		if s.Step < 1 || s.Step > len(LearningSteps) {
			return fmt.Errorf("%w: learning step %d outside [1,%d]",
				ErrInconsistentState, s.Step, len(LearningSteps))
		}
	case PhaseReviewing:
		if s.IntervalDays < 1 {
			return fmt.Errorf("%w: interval %d day(s) below 1",
				ErrInconsistentState, s.IntervalDays)
		}
		if s.Repetitions < 0 {
			return fmt.Errorf("%w: negative repetition count %d",
				ErrInconsistentState, s.Repetitions)
		}
	default:
		return fmt.Errorf("%w: unknown phase %d", ErrInconsistentState, int(s.Phase))
	}
	return nil
}
