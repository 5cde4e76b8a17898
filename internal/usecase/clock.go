package usecase

import "time"

// Clock returns the current time; replaced in tests.
type Clock func() time.Time

// NewClock returns the wall clock in UTC.
func NewClock() Clock {
	return func() time.Time { return time.Now().UTC() }
}
