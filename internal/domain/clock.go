package domain

import "time"

// Clock abstracts the time source so lifecycle and sweep logic are
// deterministically testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
