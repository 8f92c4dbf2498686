package scheduler

import "fmt"

// Result is the outcome of one review: the card's next schedule state
// plus a human-readable description of the transition.
type Result struct {
	State     CardState
	Event     string
	Graduated bool
}

// Review applies one rating to a card's schedule state. It is a pure
// function of (state, rating, clock's now): it dispatches to the
// learning-step engine while the card is learning, and maps the rating to
// an SM-2 quality for graduated cards. Given identical inputs the output
// is bit-for-bit identical.
//
// Due-time eligibility is the caller's concern; reviewing a not-yet-due
// card simply recomputes its schedule.
func Review(state CardState, rating Rating, clk Clock) (Result, error) {
	if err := state.Validate(); err != nil {
		return Result{}, err
	}
	switch state.Phase {
	case PhaseLearning:
		return applyLearning(state, rating, clk)
	case PhaseReviewing:
		quality, err := rating.Quality()
		if err != nil {
			return Result{}, err
		}
		return applyReviewing(state, quality, clk)
	}
	// Unreachable: Validate rejects unknown phases.
	return Result{}, fmt.Errorf("%w: phase %d", ErrInconsistentState, int(state.Phase))
}
