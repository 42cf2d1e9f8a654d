package rangeset

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/henderiw/timeranges/pkg/daterange"
	"github.com/stretchr/testify/assert"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	dr1 = daterange.New(utc(2011, time.March, 5), utc(2011, time.May, 5))
	dr2 = daterange.New(utc(2011, time.April, 5), utc(2011, time.June, 5))
	dr3 = daterange.New(utc(2011, time.July, 5), utc(2011, time.August, 5))
	dr4 = daterange.New(utc(2011, time.August, 5), utc(2011, time.September, 5))
)

var rangeCmp = cmp.Comparer(func(a, b daterange.Range) bool { return a.Equal(b) })

func assertCanonical(t *testing.T, s *RangeSet) {
	t.Helper()
	if !isCanonical(s.Ranges()) {
		t.Errorf("not canonical: %s", s)
	}
}

func TestNew(t *testing.T) {
	cases := map[string]struct {
		input    []daterange.Range
		expected []daterange.Range
	}{
		"Empty": {
			input:    nil,
			expected: []daterange.Range{},
		},
		"Single": {
			input:    []daterange.Range{dr1},
			expected: []daterange.Range{dr1},
		},
		"Disjoint": {
			input: []daterange.Range{
				daterange.New(utc(2011, time.March, 5), utc(2011, time.June, 5)),
				dr3,
			},
			expected: []daterange.Range{
				daterange.New(utc(2011, time.March, 5), utc(2011, time.June, 5)),
				dr3,
			},
		},
		"Overlapping": {
			input:    []daterange.Range{dr1, dr2},
			expected: []daterange.Range{daterange.New(utc(2011, time.March, 5), utc(2011, time.June, 5))},
		},
		"Touching": {
			input:    []daterange.Range{dr3, dr4},
			expected: []daterange.Range{daterange.New(utc(2011, time.July, 5), utc(2011, time.September, 5))},
		},
		"Unsorted": {
			input: []daterange.Range{dr3, dr2, dr1},
			expected: []daterange.Range{
				daterange.New(utc(2011, time.March, 5), utc(2011, time.June, 5)),
				dr3,
			},
		},
		"Contained": {
			input:    []daterange.Range{dr1, daterange.New(utc(2011, time.March, 10), utc(2011, time.March, 20))},
			expected: []daterange.Range{dr1},
		},
		"ZeroLengthInside": {
			input:    []daterange.Range{dr1, daterange.Point(utc(2011, time.May, 5))},
			expected: []daterange.Range{dr1},
		},
		"ZeroLengthAlone": {
			input:    []daterange.Range{daterange.Point(utc(2011, time.May, 5))},
			expected: []daterange.Range{daterange.Point(utc(2011, time.May, 5))},
		},
		"InvalidDropped": {
			input:    []daterange.Range{daterange.New(utc(2011, time.May, 5), utc(2011, time.March, 5)), dr3},
			expected: []daterange.Range{dr3},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := New(tc.input...)
			assertCanonical(t, s)
			if diff := cmp.Diff(tc.expected, s.Ranges(), rangeCmp); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestNewDoesNotAliasInput(t *testing.T) {
	input := []daterange.Range{dr3, dr1}
	s := New(input...)
	s.rr[0] = dr4
	assert.True(t, input[0].Equal(dr3) || input[0].Equal(dr1))
	assert.False(t, input[0].Equal(dr4))
	assert.False(t, input[1].Equal(dr4))
}

func TestFromValues(t *testing.T) {
	cases := map[string]struct {
		input    []any
		expected int
	}{
		"Rest":           {input: []any{dr1, dr2, dr3}, expected: 2},
		"Array":          {input: []any{[]daterange.Range{dr1, dr2}, dr3}, expected: 2},
		"SingleArray":    {input: []any{[]daterange.Range{dr1, dr2, dr3}}, expected: 2},
		"Nested":         {input: []any{[]any{dr1, []any{dr2, []any{dr3}}}}, expected: 2},
		"Pointers":       {input: []any{&dr1, []*daterange.Range{&dr3, nil}}, expected: 2},
		"Sets":           {input: []any{New(dr1), []*RangeSet{New(dr3), nil}}, expected: 2},
		"DiscardJunk":    {input: []any{"2011-03-05", 42, nil, dr1, struct{}{}}, expected: 1},
		"NothingValid":   {input: []any{"x", 1.5}, expected: 0},
		"NestedArrays":   {input: []any{[][]daterange.Range{{dr1}, {dr3, dr4}}}, expected: 2},
		"InvalidRanges":  {input: []any{daterange.New(utc(2012, 1, 1), utc(2011, 1, 1))}, expected: 0},
		"NestedAny":      {input: []any{[][]any{{dr1}, {dr3}}}, expected: 2},
		"SetValues":      {input: []any{[]RangeSet{*New(dr1)}}, expected: 1},
		"FixedArray":     {input: []any{[2]daterange.Range{dr1, dr3}}, expected: 2},
		"DeeplyNested":   {input: []any{[][][]daterange.Range{{{dr1}}}}, expected: 1},
		"NestedPointers": {input: []any{[][]*daterange.Range{{&dr1}, {&dr3, nil}}}, expected: 2},
		"NestedJunk":     {input: []any{[][]string{{"x"}}, []int{1, 2}}, expected: 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := FromValues(tc.input...)
			assertCanonical(t, s)
			assert.Equal(t, tc.expected, s.Len())
		})
	}

	// a single slice argument is the same as passing its elements
	assert.True(t, FromValues([]daterange.Range{dr1, dr3}).Equal(FromValues(dr1, dr3)))
}

func TestIsRangeSet(t *testing.T) {
	var nilSet *RangeSet
	assert.True(t, IsRangeSet(New(dr1)))
	assert.True(t, IsRangeSet(RangeSet{}))
	assert.False(t, IsRangeSet(nilSet))
	assert.False(t, IsRangeSet(dr1))
	assert.False(t, IsRangeSet([]daterange.Range{dr1}))
}

func TestMergeIdempotent(t *testing.T) {
	s := New(dr1, dr2, dr3, dr4, daterange.Point(utc(2012, 1, 1)))
	again := New(s.Ranges()...)
	assert.True(t, s.Equal(again))
	if diff := cmp.Diff(s.Ranges(), mergeRanges(s.Ranges()), rangeCmp); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
}

func TestUnionCommutative(t *testing.T) {
	pairs := [][2]daterange.Range{{dr1, dr2}, {dr2, dr3}, {dr3, dr4}, {dr1, dr4}}
	for _, p := range pairs {
		assert.True(t, New(p[0], p[1]).Equal(New(p[1], p[0])), "%s %s", p[0], p[1])
	}
}

func TestClone(t *testing.T) {
	s1 := New(dr1, dr3)
	s2 := s1.Clone()
	assert.True(t, s1.Equal(s2))

	s2.rr[0] = daterange.New(dr1.Start().AddDate(0, 0, 2), dr1.End())
	assert.False(t, s1.At(0).Start().Equal(s2.At(0).Start()))
	assert.True(t, s1.At(0).Equal(dr1))

	var empty RangeSet
	assert.True(t, empty.Clone().IsEmpty())
}

func TestEqual(t *testing.T) {
	cases := map[string]struct {
		a, b     *RangeSet
		expected bool
	}{
		"Same":          {a: New(dr1, dr3), b: New(dr3, dr1), expected: true},
		"MergedEqual":   {a: New(dr1, dr2), b: New(daterange.New(dr1.Start(), dr2.End())), expected: true},
		"Different":     {a: New(dr1), b: New(dr2), expected: false},
		"Subset":        {a: New(dr1), b: New(dr1, dr3), expected: false},
		"Superset":      {a: New(dr1, dr3), b: New(dr1), expected: false},
		"BothEmpty":     {a: New(), b: &RangeSet{}, expected: true},
		"EmptyVsFilled": {a: New(), b: New(dr1), expected: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Equal(tc.b))
			assert.Equal(t, tc.expected, tc.b.IsSame(tc.a))
		})
	}
}

func TestDiff(t *testing.T) {
	a := daterange.New(utc(2011, time.March, 5), utc(2011, time.June, 5))
	assert.Equal(t, float64(3), New(a).Diff(daterange.Months, false))
	assert.Equal(t, float64(92), New(a).DurationIn(daterange.Days, false))

	// flooring happens once after summing: 1.5 + 1.5 days = 3
	half := func(d int) daterange.Range {
		return daterange.New(utc(2012, time.January, d), utc(2012, time.January, d).Add(36*time.Hour))
	}
	s := New(half(1), half(10))
	assert.Equal(t, float64(3), s.Diff(daterange.Days, false))
	assert.Equal(t, 3.0, s.Diff(daterange.Days, true))

	// 3 x 0.5 days: precise 1.5, truncated 1 (not 0 per member)
	twelve := func(d int) daterange.Range {
		return daterange.New(utc(2012, time.January, d), utc(2012, time.January, d).Add(12*time.Hour))
	}
	s = New(twelve(1), twelve(3), twelve(5))
	assert.Equal(t, 1.5, s.Diff(daterange.Days, true))
	assert.Equal(t, float64(1), s.Diff(daterange.Days, false))

	assert.Equal(t, float64(0), New().Diff(daterange.Days, false))
}

func TestValue(t *testing.T) {
	s := New(dr1, dr3)
	expected := dr1.Duration() + dr3.Duration()
	assert.Equal(t, expected, s.Value())

	long := New(daterange.New(utc(1988, 1, 1), utc(2011, time.June, 5)))
	short := New(daterange.New(utc(2011, time.May, 9), utc(2011, time.June, 5)))
	assert.Equal(t, 1, long.Compare(short))
	assert.Equal(t, -1, short.Compare(long))
	assert.Equal(t, 0, long.Compare(long.Clone()))
}

func TestToDate(t *testing.T) {
	got := New(dr1).ToDate()
	assert.Len(t, got, 1)
	assert.True(t, got[0][0].Equal(dr1.Start()))
	assert.True(t, got[0][1].Equal(dr1.End()))

	got = New(dr3, dr1).ToDate()
	assert.Len(t, got, 2)
	assert.True(t, got[0][0].Equal(dr1.Start()))
	assert.True(t, got[1][1].Equal(dr3.End()))

	assert.NotNil(t, New().ToDate())
	assert.Len(t, New().ToDate(), 0)
}

func TestString(t *testing.T) {
	s := New(dr3, dr1)
	assert.Equal(t, "2011-03-05T00:00:00Z/2011-05-05T00:00:00Z,2011-07-05T00:00:00Z/2011-08-05T00:00:00Z", s.String())
	assert.Equal(t, "", New().String())
}

func TestExtentAndGaps(t *testing.T) {
	s := New(dr1, dr3, daterange.New(utc(2011, time.October, 1), utc(2011, time.October, 2)))
	extent, ok := s.Extent()
	assert.True(t, ok)
	assert.True(t, extent.Equal(daterange.New(dr1.Start(), utc(2011, time.October, 2))))

	gaps := s.Gaps()
	expected := []daterange.Range{
		daterange.New(dr1.End(), dr3.Start()),
		daterange.New(dr3.End(), utc(2011, time.October, 1)),
	}
	if diff := cmp.Diff(expected, gaps.Ranges(), rangeCmp); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}

	_, ok = New().Extent()
	assert.False(t, ok)
	assert.True(t, New(dr1).Gaps().IsEmpty())
}

func TestNilReceiver(t *testing.T) {
	var s *RangeSet
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.IsEmpty())
	assert.Equal(t, "", s.String())
	assert.True(t, s.Clone().IsEmpty())
	assert.True(t, s.Add(dr1).Equal(New(dr1)))
}
