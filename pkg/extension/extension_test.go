package extension

import (
	"testing"
	"time"

	"github.com/henderiw/timeranges/pkg/daterange"
	"github.com/henderiw/timeranges/pkg/rangeset"
	"github.com/stretchr/testify/assert"
	clocktesting "k8s.io/utils/clock/testing"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrRangeSupportMissing)
	assert.Panics(t, func() { Must(nil) })

	f := daterange.NewFactory(nil, nil)
	e, err := New(f)
	assert.NoError(t, err)
	assert.Equal(t, f, e.Factory())
}

func TestRanges(t *testing.T) {
	e := Must(daterange.NewFactory(nil, nil))
	dr1 := e.Range(utc(2011, time.March, 5), utc(2011, time.June, 5))
	dr2 := e.Range(utc(2011, time.July, 5), utc(2011, time.August, 5))

	drs := e.Ranges(dr1, dr2)
	assert.Equal(t, 2, drs.Len())
	assert.True(t, e.IsRanges(drs))
	assert.False(t, e.IsRanges(dr1))

	assert.True(t, e.Ranges([]daterange.Range{dr1, dr2}).Equal(drs))
}

func TestWithin(t *testing.T) {
	now := utc(2011, time.April, 15)
	e := Must(daterange.NewFactory(clocktesting.NewFakePassiveClock(now), time.UTC))

	drs := rangeset.New(
		e.Range(utc(2011, time.March, 5), utc(2011, time.June, 5)),
		e.Range(utc(2011, time.July, 5), utc(2011, time.August, 5)),
	)

	cases := map[string]struct {
		point    time.Time
		expected bool
	}{
		"Inside":  {point: utc(2011, time.April, 15), expected: true},
		"Between": {point: utc(2012, time.December, 25), expected: false},
		"Start":   {point: utc(2011, time.March, 5), expected: true},
		"End":     {point: utc(2011, time.August, 5), expected: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, e.Within(tc.point, drs))
		})
	}

	assert.True(t, e.RangeWithin(e.Range(utc(2011, time.April, 1), utc(2011, time.May, 1)), drs))
	assert.False(t, e.RangeWithin(e.Range(utc(2011, time.May, 1), utc(2011, time.July, 10)), drs))
	assert.True(t, e.NowWithin(drs))
	assert.False(t, e.NowWithin(rangeset.New()))
}
