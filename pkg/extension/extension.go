// Package extension exposes RangeSet construction and membership checks
// on top of a configured range factory. An Extension is built once and
// passed to the code that needs it.
package extension

import (
	"errors"
	"time"

	"github.com/henderiw/timeranges/pkg/daterange"
	"github.com/henderiw/timeranges/pkg/rangeset"
)

var ErrRangeSupportMissing = errors.New("range support is not configured: a range factory is required")

type Extension struct {
	ranges *daterange.Factory
}

// New returns an Extension on top of f. It fails when f is nil, i.e. when
// single-range support has not been set up first.
func New(f *daterange.Factory) (*Extension, error) {
	if f == nil {
		return nil, ErrRangeSupportMissing
	}
	return &Extension{ranges: f}, nil
}

// Must is like New but panics on error.
func Must(f *daterange.Factory) *Extension {
	e, err := New(f)
	if err != nil {
		panic(err)
	}
	return e
}

func (r *Extension) Factory() *daterange.Factory { return r.ranges }

func (r *Extension) Range(start, end time.Time) daterange.Range {
	return r.ranges.Range(start, end)
}

// Ranges builds a RangeSet from ranges, slices of ranges or sets, nested
// arbitrarily. Anything else is ignored.
func (r *Extension) Ranges(vals ...any) *rangeset.RangeSet {
	return rangeset.FromValues(vals...)
}

func (r *Extension) IsRanges(v any) bool {
	return rangeset.IsRangeSet(v)
}

// Within reports whether t lies within s.
func (r *Extension) Within(t time.Time, s *rangeset.RangeSet) bool {
	return s.Contains(t, daterange.ContainsOptions{})
}

// RangeWithin reports whether rng lies within s.
func (r *Extension) RangeWithin(rng daterange.Range, s *rangeset.RangeSet) bool {
	return s.ContainsRange(rng, daterange.ContainsOptions{})
}

// NowWithin reports whether the factory's current instant lies within s.
func (r *Extension) NowWithin(s *rangeset.RangeSet) bool {
	return r.Within(r.ranges.Now(), s)
}
