package trainer

import (
	"fmt"
	"time"

	"github.com/yuchialin/vocab-trainer/internal/scheduler"
	"github.com/yuchialin/vocab-trainer/internal/storage"
)

// ReviewOutcome is the result of one submitted review.
type ReviewOutcome struct {
	Word      storage.Word `json:"word"`
	Event     string       `json:"event"`
	Graduated bool         `json:"graduated"`
}

// LookupResult bundles a dictionary entry with its best-effort
// Traditional Chinese translation.
type LookupResult struct {
	POS        string `json:"pos"`
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
	Chinese    string `json:"chinese,omitempty"`
}

// PhaseLabel renders a card's position for display, e.g.
// "[Learning 2/3]" or "[Review #4]".
func PhaseLabel(s scheduler.CardState) string {
	if s.Phase == scheduler.PhaseLearning {
		return fmt.Sprintf("[Learning %d/%d]", s.Step, len(scheduler.LearningSteps))
	}
	return fmt.Sprintf("[Review #%d]", s.Repetitions+1)
}

// FormatUntil renders the time remaining until due. Accelerated runs show
// raw seconds (deadlines resolve in well under a minute); normal runs
// round to minutes, hours or days.
func FormatUntil(now, due time.Time, accelerated bool) string {
	remaining := due.Sub(now)
	if remaining <= 0 {
		return "now"
	}
	if accelerated {
		if remaining < time.Minute {
			return fmt.Sprintf("%.1fs", remaining.Seconds())
		}
		return fmt.Sprintf("%.1fmin", remaining.Minutes())
	}
	switch {
	case remaining < time.Hour:
		m := int(remaining / time.Minute)
		return fmt.Sprintf("%dmin", m)
	case remaining < 24*time.Hour:
		return fmt.Sprintf("%dh", int(remaining/time.Hour))
	default:
		return fmt.Sprintf("%dd", int(remaining/(24*time.Hour)))
	}
}
