// Package clock supplies current-time readings to the engine so tests
// can pin the hour of day and timestamps.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

// Now implements Clock.
func (Real) Now() time.Time { return time.Now() }

// Fixed is a Clock frozen at a single instant, for tests.
type Fixed struct {
	T time.Time
}

// Now implements Clock.
func (f Fixed) Now() time.Time { return f.T }

// IsLateNight reports whether t falls in the judgment-impaired window,
// 22:00 through 06:59.
func IsLateNight(t time.Time) bool {
	h := t.Hour()
	return h >= 22 || h <= 6
}
