package daterange

import (
	"fmt"
	"time"
)

// Range is the half-open interval [start, end) between two instants.
//
// A Range with start == end is a zero-length range: it occupies a single
// instant and is treated specially by Intersect and Overlaps.
type Range struct {
	start time.Time
	end   time.Time
}

// ContainsOptions controls which boundaries take part in a containment
// check. The zero value includes both boundaries.
type ContainsOptions struct {
	ExcludeStart bool
	ExcludeEnd   bool
}

// OverlapOptions controls whether touching ranges count as overlapping.
type OverlapOptions struct {
	Adjacent bool
}

func New(start, end time.Time) Range {
	return Range{start: start, end: end}
}

// Point returns the zero-length range at t.
func Point(t time.Time) Range {
	return Range{start: t, end: t}
}

// Start returns the lower bound of r.
func (r Range) Start() time.Time { return r.start }

// End returns the upper bound of r.
func (r Range) End() time.Time { return r.end }

func (r Range) IsValid() bool {
	return !r.end.Before(r.start)
}

func (r Range) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

func (r Range) IsZeroLength() bool {
	return r.start.Equal(r.end)
}

// Equal reports whether both endpoints of r and other denote the same
// instants, regardless of location.
func (r Range) Equal(other Range) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

func (r Range) Clone() Range {
	return Range{start: r.start, end: r.end}
}

// In returns r with both endpoints expressed in loc.
func (r Range) In(loc *time.Location) Range {
	return Range{start: r.start.In(loc), end: r.end.In(loc)}
}

func (r Range) Duration() time.Duration {
	return r.end.Sub(r.start)
}

func (r Range) ToDate() [2]time.Time {
	return [2]time.Time{r.start, r.end}
}

func (r Range) String() string {
	return fmt.Sprintf("%s/%s", r.start.Format(time.RFC3339), r.end.Format(time.RFC3339))
}

func (r Range) Contains(t time.Time, opts ContainsOptions) bool {
	return r.contains(t, t, opts)
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range, opts ContainsOptions) bool {
	return r.contains(other.start, other.end, opts)
}

func (r Range) contains(from, to time.Time, opts ContainsOptions) bool {
	startIn := r.start.Before(from) || (!from.Before(r.start) && !opts.ExcludeStart)
	endIn := r.end.After(to) || (!to.After(r.end) && !opts.ExcludeEnd)
	return startIn && endIn
}

// Intersect returns the range shared by r and other. ok is false when the
// ranges are disjoint or only touch.
func (r Range) Intersect(other Range) (Range, bool) {
	start, end := r.start, r.end
	oStart, oEnd := other.start, other.end

	switch {
	case r.IsZeroLength():
		// a point on either boundary of other is not inside it
		if start.Equal(oStart) || start.Equal(oEnd) {
			return Range{}, false
		}
		if start.After(oStart) && start.Before(oEnd) {
			return r.Clone(), true
		}
	case other.IsZeroLength():
		if oStart.Equal(start) || oStart.Equal(end) {
			return Range{}, false
		}
		if oStart.After(start) && oStart.Before(end) {
			return Point(oStart), true
		}
	}

	switch {
	case !oStart.Before(start) && oStart.Before(end) && end.Before(oEnd):
		//   r
		// s------e
		//     s------e
		//       other
		return New(oStart, end), true
	case oStart.Before(start) && start.Before(oEnd) && !end.Before(oEnd):
		//       r
		//     s------e
		// s------e
		//   other
		return New(start, oEnd), true
	case oStart.Before(start) && !end.Before(start) && end.Before(oEnd):
		// r entirely inside other
		return r.Clone(), true
	case !oStart.Before(start) && !oEnd.Before(oStart) && !end.Before(oEnd):
		// other entirely inside r
		return New(oStart, oEnd), true
	}
	return Range{}, false
}

// Adjacent reports whether r and other touch without sharing any instant.
func (r Range) Adjacent(other Range) bool {
	sameStartEnd := r.start.Equal(other.end)
	sameEndStart := r.end.Equal(other.start)
	return (sameStartEnd && !other.start.After(r.start)) ||
		(sameEndStart && !other.end.Before(r.end))
}

func (r Range) Overlaps(other Range, opts OverlapOptions) bool {
	_, ok := r.Intersect(other)
	if !ok && opts.Adjacent {
		return r.Adjacent(other)
	}
	return ok
}

// Subtract returns the parts of r not covered by other. The result holds
// zero, one or two ranges and is never nil.
func (r Range) Subtract(other Range) []Range {
	start, end := r.start, r.end
	oStart, oEnd := other.start, other.end

	if _, ok := r.Intersect(other); !ok {
		return []Range{r.Clone()}
	}

	switch {
	case !start.Before(oStart) && start.Before(end) && !oEnd.Before(end):
		// other covers r
		return []Range{}
	case !start.Before(oStart) && start.Before(oEnd) && oEnd.Before(end):
		// other overlaps the start of r
		return []Range{New(oEnd, end)}
	case start.Before(oStart) && oStart.Before(end) && !oEnd.Before(end):
		// other overlaps the end of r
		return []Range{New(start, oStart)}
	case start.Before(oStart) && oStart.Before(oEnd) && oEnd.Before(end):
		// other in the middle of r
		return []Range{New(start, oStart), New(oEnd, end)}
	case start.Before(oStart) && oStart.Before(end) && oEnd.Before(end):
		// zero-length other strictly inside r splits it at that instant
		return []Range{New(start, oStart), New(oStart, end)}
	}
	return []Range{}
}
