package rangeset

import (
	"sort"

	"github.com/henderiw/timeranges/pkg/daterange"
)

func less(a, b daterange.Range) bool {
	if !a.Start().Equal(b.Start()) {
		return a.Start().Before(b.Start())
	}
	return a.End().Before(b.End())
}

// mergeRanges returns the minimum and sorted set of ranges that cover rr.
// Touching ranges are merged. rr must only hold valid ranges; it is sorted
// in place.
func mergeRanges(rr []daterange.Range) []daterange.Range {
	// Always return a copy of rr, to avoid aliasing slice memory in the
	// caller.
	switch len(rr) {
	case 0:
		return []daterange.Range{}
	case 1:
		return []daterange.Range{rr[0]}
	}

	sort.SliceStable(rr, func(i, j int) bool { return less(rr[i], rr[j]) })
	out := make([]daterange.Range, 1, len(rr))
	out[0] = rr[0]
	for _, r := range rr[1:] {
		prev := &out[len(out)-1]
		switch {
		case prev.End().Before(r.Start()):
			// No overlap and not touching.
			//
			//   prev       r
			// s------e  s-----e
			out = append(out, r)
		case prev.End().Before(r.End()):
			// Partial overlap or touching, extend prev.
			//
			//   prev
			// s------e
			//     s-----e
			//        r
			*prev = daterange.New(prev.Start(), r.End())
		default:
			// r entirely contained in prev, nothing to do.
			//
			//    prev
			// s--------e
			//  s-----e
			//     r
		}
	}
	return out
}

// isCanonical reports whether rr is sorted and neither overlapping nor
// touching.
func isCanonical(rr []daterange.Range) bool {
	for i := 1; i < len(rr); i++ {
		if !rr[i-1].End().Before(rr[i].Start()) {
			return false
		}
	}
	return true
}

func validRanges(rr []daterange.Range) []daterange.Range {
	out := make([]daterange.Range, 0, len(rr))
	for _, r := range rr {
		if r.IsValid() {
			out = append(out, r)
		}
	}
	return out
}
