package daterange

import (
	"time"

	"k8s.io/utils/clock"
)

// Factory builds ranges in a fixed location and resolves "now" through a
// clock, so callers can substitute a fake clock in tests.
type Factory struct {
	clock clock.PassiveClock
	loc   *time.Location
}

// NewFactory returns a Factory. A nil clock means the real clock, a nil
// location means UTC.
func NewFactory(c clock.PassiveClock, loc *time.Location) *Factory {
	if c == nil {
		c = clock.RealClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Factory{clock: c, loc: loc}
}

func (r *Factory) Location() *time.Location { return r.loc }

// Range returns [start, end) with both endpoints converted to the factory
// location.
func (r *Factory) Range(start, end time.Time) Range {
	return New(start.In(r.loc), end.In(r.loc))
}

// Now returns the clock's current instant in the factory location.
func (r *Factory) Now() time.Time {
	return r.clock.Now().In(r.loc)
}

// NowRange returns the zero-length range at the current instant.
func (r *Factory) NowRange() Range {
	return Point(r.Now())
}

// Since returns the range from t up to now.
func (r *Factory) Since(t time.Time) Range {
	return r.Range(t, r.Now())
}
