package rangeset

import (
	"sort"
	"time"

	"github.com/henderiw/timeranges/pkg/daterange"
)

// Contains reports whether some member of s contains t.
func (s *RangeSet) Contains(t time.Time, opts daterange.ContainsOptions) bool {
	_, ok := s.Find(t, opts)
	return ok
}

// Find returns the member of s containing t.
func (s *RangeSet) Find(t time.Time, opts daterange.ContainsOptions) (daterange.Range, bool) {
	rr := s.ranges()
	// members are sorted and disjoint: only the last member starting at or
	// before t can contain it
	i := sort.Search(len(rr), func(i int) bool { return rr[i].Start().After(t) }) - 1
	if i < 0 {
		return daterange.Range{}, false
	}
	if rr[i].Contains(t, opts) {
		return rr[i], true
	}
	return daterange.Range{}, false
}

// ContainsRange reports whether a single member of s contains r.
func (s *RangeSet) ContainsRange(r daterange.Range, opts daterange.ContainsOptions) bool {
	for _, m := range s.ranges() {
		if m.ContainsRange(r, opts) {
			return true
		}
	}
	return false
}

// ContainsSet reports whether every member of other is contained by some
// member of s. An empty other is contained by any set.
func (s *RangeSet) ContainsSet(other *RangeSet, opts daterange.ContainsOptions) bool {
	for _, r := range other.ranges() {
		if !s.ContainsRange(r, opts) {
			return false
		}
	}
	return true
}

// Overlapping returns the members of s that overlap r.
func (s *RangeSet) Overlapping(r daterange.Range, opts daterange.OverlapOptions) *RangeSet {
	rr := s.ranges()
	out := make([]daterange.Range, 0, len(rr))
	for _, m := range rr {
		if m.Overlaps(r, opts) {
			out = append(out, m)
		}
	}
	return &RangeSet{rr: out}
}

// OverlappingSet returns the members of s that overlap any member of other.
func (s *RangeSet) OverlappingSet(other *RangeSet, opts daterange.OverlapOptions) *RangeSet {
	rr := s.ranges()
	out := make([]daterange.Range, 0, len(rr))
	for _, m := range rr {
		for _, o := range other.ranges() {
			if m.Overlaps(o, opts) {
				out = append(out, m)
				break
			}
		}
	}
	return &RangeSet{rr: out}
}

func (s *RangeSet) Overlaps(r daterange.Range, opts daterange.OverlapOptions) bool {
	return !s.Overlapping(r, opts).IsEmpty()
}

func (s *RangeSet) OverlapsSet(other *RangeSet, opts daterange.OverlapOptions) bool {
	return !s.OverlappingSet(other, opts).IsEmpty()
}

// Intersect returns the parts of s covered by r. The result is empty, never
// nil, when nothing is shared.
func (s *RangeSet) Intersect(r daterange.Range) *RangeSet {
	return s.IntersectSet(New(r))
}

func (s *RangeSet) IntersectSet(other *RangeSet) *RangeSet {
	var out []daterange.Range
	for _, m := range s.ranges() {
		for _, o := range other.ranges() {
			if i, ok := m.Intersect(o); ok {
				out = append(out, i)
			}
		}
	}
	return &RangeSet{rr: mergeRanges(out)}
}

// Subtract returns the parts of s not covered by r.
func (s *RangeSet) Subtract(r daterange.Range) *RangeSet {
	if !r.IsValid() {
		return s.Clone()
	}
	rr := s.ranges()
	out := make([]daterange.Range, 0, len(rr)+1)
	for _, m := range rr {
		out = append(out, m.Subtract(r)...)
	}
	return &RangeSet{rr: mergeRanges(out)}
}

func (s *RangeSet) SubtractSet(other *RangeSet) *RangeSet {
	out := s.Clone()
	for _, r := range other.ranges() {
		if out.IsEmpty() {
			break
		}
		out = out.Subtract(r)
	}
	return out
}

// Add returns the union of s and r. s is left unchanged.
func (s *RangeSet) Add(r daterange.Range) *RangeSet {
	rr := append(s.Ranges(), r)
	return &RangeSet{rr: mergeRanges(validRanges(rr))}
}

// Union returns the union of s and other.
func (s *RangeSet) Union(other *RangeSet) *RangeSet {
	rr := append(s.Ranges(), other.ranges()...)
	return &RangeSet{rr: mergeRanges(rr)}
}
