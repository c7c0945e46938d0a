package timer

import "time"

// NewWithClock exposes a timer driven by a fake clock to tests.
func NewWithClock(now func() time.Time) Timer {
	return newWithClock(now)
}
