package scheduler

import "errors"

// ErrInvalidRating is returned for a rating token outside
// {Forgot, Hard, Easy}. It is recoverable: the caller re-prompts and the
// card stays due.
var ErrInvalidRating = errors.New("invalid rating")

// ErrInconsistentState is returned when a card's persisted schedule
// fields violate the phase invariants. It signals corruption in the
// persistence layer; the record is surfaced as-is, never repaired in
// place.
var ErrInconsistentState = errors.New("inconsistent card state")
