package rangeset

import (
	"errors"
	"fmt"

	"github.com/henderiw/timeranges/pkg/daterange"
)

// Builder accumulates additions and removals and produces a RangeSet.
//
// Unlike New, Builder does not drop invalid ranges silently: they are
// reported by RangeSet. The zero value is ready to use.
type Builder struct {
	in   []daterange.Range
	out  []daterange.Range
	errs error
}

func (s *Builder) AddRange(r daterange.Range) {
	if !r.IsValid() {
		s.errs = errors.Join(s.errs, fmt.Errorf("addRange(%s): end before start", r))
		return
	}
	// removals recorded so far apply to the ranges added before them only
	if len(s.out) > 0 {
		s.normalize()
	}
	s.in = append(s.in, r)
}

// AddSet adds all ranges in b to s.
func (s *Builder) AddSet(b *RangeSet) {
	if b == nil {
		return
	}
	for _, r := range b.rr {
		s.AddRange(r)
	}
}

// RemoveRange removes all instants in r from s.
func (s *Builder) RemoveRange(r daterange.Range) {
	if !r.IsValid() {
		s.errs = errors.Join(s.errs, fmt.Errorf("removeRange(%s): end before start", r))
		return
	}
	// removing a single instant leaves a continuous set unchanged
	if r.IsZeroLength() {
		return
	}
	s.out = append(s.out, r)
}

// RemoveSet removes all ranges in b from s.
func (s *Builder) RemoveSet(b *RangeSet) {
	if b == nil {
		return
	}
	for _, r := range b.rr {
		s.RemoveRange(r)
	}
}

// normalize normalizes s: s.in becomes the minimal sorted list of ranges
// required to describe s, and s.out becomes empty.
func (s *Builder) normalize() {
	in := mergeRanges(s.in)
	out := mergeRanges(s.out)

	// in and out are sorted in ascending range order, and have no overlaps
	// within each other. We can run a merge of the two lists in one pass.
	min := make([]daterange.Range, 0, len(in))
	for len(in) > 0 && len(out) > 0 {
		rin, rout := in[0], out[0]

		switch {
		case !rout.End().After(rin.Start()):
			// "out" is entirely before "in".
			//
			//    out         in
			// s-------e   s-------e
			out = out[1:]
		case !rin.End().After(rout.Start()):
			// "in" is entirely before "out".
			//
			//    in         out
			// s------e   s-------e
			min = append(min, rin)
			in = in[1:]
		case !rin.Start().Before(rout.Start()) && !rin.End().After(rout.End()):
			// "out" entirely covers "in".
			//
			//       out
			// s-------------e
			//    s------e
			//       in
			in = in[1:]
		case rin.Start().Before(rout.Start()) && rout.End().Before(rin.End()):
			// "in" entirely covers "out".
			//
			//       in
			// s-------------e
			//    s------e
			//       out
			min = append(min, daterange.New(rin.Start(), rout.Start()))
			// Adjust in[0], not rin, because we want to consider the
			// mutated range on the next iteration.
			in[0] = daterange.New(rout.End(), rin.End())
			out = out[1:]
		case !rout.Start().After(rin.Start()) && rout.End().Before(rin.End()):
			// "out" overlaps start of "in".
			//
			//   out
			// s------e
			//    s------e
			//       in
			in[0] = daterange.New(rout.End(), rin.End())
			// Can't move rin onto min yet, another later out might trim
			// it further. Just discard rout and continue.
			out = out[1:]
		case rin.Start().Before(rout.Start()) && !rin.End().After(rout.End()):
			// "out" overlaps end of "in".
			//
			//           out
			//        s------e
			//    s------e
			//       in
			min = append(min, daterange.New(rin.Start(), rout.Start()))
			in = in[1:]
		default:
			// The above should account for all combinations of in and
			// out overlapping, but insert a panic to be sure.
			panic("unexpected additional overlap scenario")
		}
	}
	if len(in) > 0 {
		// Ran out of removals before the end of in.
		min = append(min, in...)
	}

	s.in = min
	s.out = nil
}

// RangeSet returns the set built so far. The returned set is valid even
// when an error is reported; the error lists the rejected ranges and is
// reset afterwards.
func (s *Builder) RangeSet() (*RangeSet, error) {
	s.normalize()
	rs := &RangeSet{
		rr: append([]daterange.Range{}, s.in...),
	}
	if s.errs == nil {
		return rs, nil
	}
	errs := s.errs
	s.errs = nil
	return rs, errs
}
