// Package vclock holds the process clock so tests can freeze time.
package vclock

import "github.com/benbjohnson/clock"

var currentClock = clock.New()

// Clock returns the current clock.
func Clock() clock.Clock {
	return currentClock
}

// Mock replaces the clock with a mock and returns it.
func Mock() *clock.Mock {
	m := clock.NewMock()
	currentClock = m
	return m
}
