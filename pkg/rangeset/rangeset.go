package rangeset

import (
	"reflect"
	"strings"
	"time"

	"github.com/henderiw/timeranges/pkg/daterange"
)

// RangeSet is the union of a collection of time ranges.
//
// The zero value is an empty set. Operations never mutate the receiver;
// the ones producing a collection return a new RangeSet.
type RangeSet struct {
	// rr is normalized according to mergeRanges: sorted by start, no
	// overlapping and no touching ranges. The implementation of every
	// method relies on this property.
	rr []daterange.Range
}

// New returns the RangeSet covering rr. Invalid ranges (end before start)
// are dropped.
func New(rr ...daterange.Range) *RangeSet {
	return &RangeSet{rr: mergeRanges(validRanges(rr))}
}

// FromValues flattens vals, keeps the ranges it finds and drops everything
// else. Slices may be nested arbitrarily; a single slice argument is the
// same as passing its elements.
func FromValues(vals ...any) *RangeSet {
	return &RangeSet{rr: mergeRanges(flatten(nil, vals))}
}

func flatten(dst []daterange.Range, vals []any) []daterange.Range {
	for _, v := range vals {
		switch v := v.(type) {
		case daterange.Range:
			dst = appendValid(dst, v)
		case *daterange.Range:
			if v != nil {
				dst = appendValid(dst, *v)
			}
		case []daterange.Range:
			for _, r := range v {
				dst = appendValid(dst, r)
			}
		case []*daterange.Range:
			for _, r := range v {
				if r != nil {
					dst = appendValid(dst, *r)
				}
			}
		case RangeSet:
			dst = append(dst, v.rr...)
		case *RangeSet:
			if v != nil {
				dst = append(dst, v.rr...)
			}
		case []*RangeSet:
			for _, s := range v {
				if s != nil {
					dst = append(dst, s.rr...)
				}
			}
		case []any:
			dst = flatten(dst, v)
		case [][]daterange.Range:
			for _, rr := range v {
				for _, r := range rr {
					dst = appendValid(dst, r)
				}
			}
		default:
			// any other slice or array, e.g. [][]any or [2]daterange.Range
			rv := reflect.ValueOf(v)
			if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
				continue
			}
			for i := 0; i < rv.Len(); i++ {
				dst = flatten(dst, []any{rv.Index(i).Interface()})
			}
		}
	}
	return dst
}

func appendValid(dst []daterange.Range, r daterange.Range) []daterange.Range {
	if !r.IsValid() {
		return dst
	}
	return append(dst, r)
}

// IsRangeSet reports whether v is a RangeSet.
func IsRangeSet(v any) bool {
	switch v := v.(type) {
	case RangeSet:
		return true
	case *RangeSet:
		return v != nil
	}
	return false
}

func (s *RangeSet) ranges() []daterange.Range {
	if s == nil {
		return nil
	}
	return s.rr
}

// Ranges returns the minimum and sorted set of ranges that covers s.
func (s *RangeSet) Ranges() []daterange.Range {
	return append([]daterange.Range{}, s.ranges()...)
}

func (s *RangeSet) Len() int { return len(s.ranges()) }

func (s *RangeSet) IsEmpty() bool { return s.Len() == 0 }

// At returns the i-th member in canonical order.
func (s *RangeSet) At(i int) daterange.Range { return s.ranges()[i] }

// Clone returns an independent copy of s.
func (s *RangeSet) Clone() *RangeSet {
	rr := s.ranges()
	out := make([]daterange.Range, len(rr))
	for i, r := range rr {
		out[i] = r.Clone()
	}
	return &RangeSet{rr: out}
}

// Extent returns the smallest range covering every member of s. ok is false
// for an empty set.
func (s *RangeSet) Extent() (daterange.Range, bool) {
	rr := s.ranges()
	if len(rr) == 0 {
		return daterange.Range{}, false
	}
	return daterange.New(rr[0].Start(), rr[len(rr)-1].End()), true
}

// Gaps returns the holes between the members of s.
func (s *RangeSet) Gaps() *RangeSet {
	rr := s.ranges()
	out := make([]daterange.Range, 0, len(rr))
	for i := 1; i < len(rr); i++ {
		out = append(out, daterange.New(rr[i-1].End(), rr[i].Start()))
	}
	return &RangeSet{rr: out}
}

// Equal reports whether s and other cover exactly the same ranges.
func (s *RangeSet) Equal(other *RangeSet) bool {
	a, b := s.ranges(), other.ranges()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (s *RangeSet) IsSame(other *RangeSet) bool {
	return s.Equal(other)
}

// Diff returns the total length of s in unit. Member lengths are summed in
// fractional form; when precise is false the sum is truncated toward zero
// once at the end.
func (s *RangeSet) Diff(unit daterange.Unit, precise bool) float64 {
	var sum float64
	for _, r := range s.ranges() {
		sum += r.Diff(unit, true)
	}
	if precise {
		return sum
	}
	return daterange.Trunc(sum)
}

func (s *RangeSet) DurationIn(unit daterange.Unit, precise bool) float64 {
	return s.Diff(unit, precise)
}

// Value returns the total time covered by s.
func (s *RangeSet) Value() time.Duration {
	var sum time.Duration
	for _, r := range s.ranges() {
		sum += r.Duration()
	}
	return sum
}

// Compare orders s and other by the total time they cover.
func (s *RangeSet) Compare(other *RangeSet) int {
	a, b := s.Value(), other.Value()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *RangeSet) ToDate() [][2]time.Time {
	rr := s.ranges()
	out := make([][2]time.Time, 0, len(rr))
	for _, r := range rr {
		out = append(out, r.ToDate())
	}
	return out
}

func (s *RangeSet) String() string {
	rr := s.ranges()
	parts := make([]string, 0, len(rr))
	for _, r := range rr {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ",")
}
