package clock

import "time"

// Clock supplies the current time. Schedule validation and decision
// timestamps go through this interface so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// New returns a Clock backed by the system time.
func New() Clock {
	return systemClock{}
}
