// Package scheduler implements the hybrid review scheduler: a new word
// walks through fixed Anki-style learning steps, then graduates to the
// SM-2 spaced-repetition recurrence for long-horizon scheduling.
package scheduler

import "time"

// Clock supplies the current instant and converts a nominal duration into
// a deadline. Every scheduling duration must pass through Deadline rather
// than calling time.Now().Add directly, so that all components observe
// one consistent time scale for the lifetime of a run.
type Clock interface {
	Now() time.Time
	// Deadline returns Now() plus d divided by the clock's acceleration
	// factor.
	Deadline(d time.Duration) time.Time
}

// TestAcceleration is the time-scale factor used in accelerated mode:
// a nominal day resolves in 86.4 seconds, a minute in 0.06 seconds.
const TestAcceleration = 1000

// SystemClock implements Clock over the wall clock with an acceleration
// factor fixed at construction. The factor is never mutated afterwards,
// so concurrent or repeated runs stay deterministic.
type SystemClock struct {
	accel    float64
	timeFunc func() time.Time // injectable for testing
}

// NewSystemClock returns a real-time clock (acceleration factor 1).
func NewSystemClock() *SystemClock {
	return NewClock(1)
}

// NewClock returns a clock that compresses nominal durations by the given
// factor. Factors below 1 are treated as 1.
func NewClock(accel float64) *SystemClock {
	return NewClockWithTimeFunc(accel, time.Now)
}

// NewClockWithTimeFunc returns a clock with a custom time source.
func NewClockWithTimeFunc(accel float64, timeFunc func() time.Time) *SystemClock {
	if accel < 1 {
		accel = 1
	}
	return &SystemClock{accel: accel, timeFunc: timeFunc}
}

// Now returns the current instant.
func (c *SystemClock) Now() time.Time {
	return c.timeFunc()
}

// Deadline returns the instant at which a nominal duration elapses under
// the clock's time scale. The result is strictly later than Now for any
// positive duration.
func (c *SystemClock) Deadline(d time.Duration) time.Time {
	scaled := time.Duration(float64(d) / c.accel)
	if scaled < time.Nanosecond {
		scaled = time.Nanosecond
	}
	return c.timeFunc().Add(scaled)
}
