// Package clock provides an injectable time source so services never read
// the wall clock directly. Business time is always UTC.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a test clock pinned to a point in time.
type Fixed struct {
	t time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t.UTC()}
}

func (f *Fixed) Now() time.Time {
	return f.t
}

// Set moves the fixed clock to t.
func (f *Fixed) Set(t time.Time) {
	f.t = t.UTC()
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.t = f.t.Add(d)
}
