package daterange

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Unit string

const (
	Milliseconds Unit = "milliseconds"
	Seconds      Unit = "seconds"
	Minutes      Unit = "minutes"
	Hours        Unit = "hours"
	Days         Unit = "days"
	Weeks        Unit = "weeks"
	Months       Unit = "months"
	Quarters     Unit = "quarters"
	Years        Unit = "years"
)

// unit aliases, matched case-sensitively first so "M" (months) and "m"
// (minutes) stay distinct
var unitAliases = map[string]Unit{
	"":             Milliseconds,
	"ms":           Milliseconds,
	"millisecond":  Milliseconds,
	"milliseconds": Milliseconds,
	"s":            Seconds,
	"second":       Seconds,
	"seconds":      Seconds,
	"m":            Minutes,
	"minute":       Minutes,
	"minutes":      Minutes,
	"h":            Hours,
	"hour":         Hours,
	"hours":        Hours,
	"d":            Days,
	"day":          Days,
	"days":         Days,
	"w":            Weeks,
	"week":         Weeks,
	"weeks":        Weeks,
	"M":            Months,
	"month":        Months,
	"months":       Months,
	"Q":            Quarters,
	"quarter":      Quarters,
	"quarters":     Quarters,
	"y":            Years,
	"year":         Years,
	"years":        Years,
}

func ParseUnit(s string) (Unit, error) {
	if u, ok := unitAliases[s]; ok {
		return u, nil
	}
	if u, ok := unitAliases[strings.ToLower(s)]; ok {
		return u, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

func (u Unit) String() string { return string(u) }

// Diff returns the length of r expressed in unit. Calendar units (months,
// quarters, years) follow the month difference between the endpoints, with
// the remainder expressed as a fraction of the surrounding month. When
// precise is false the result is truncated toward zero.
func (r Range) Diff(unit Unit, precise bool) float64 {
	out := diff(r.end, r.start, unit)
	if precise {
		return out
	}
	return Trunc(out)
}

// Trunc truncates f toward zero and normalizes negative zero.
func Trunc(f float64) float64 {
	t := math.Trunc(f)
	if t == 0 {
		return 0
	}
	return t
}

// diff returns a - b in unit.
func diff(a, b time.Time, unit Unit) float64 {
	delta := float64(a.Sub(b)) / float64(time.Millisecond)
	// offset change between the two instants, e.g. across DST
	_, aOff := a.Zone()
	_, bOff := b.Zone()
	zoneDelta := float64(aOff-bOff) * 1e3

	switch unit {
	case Years:
		return monthDiff(a, b) / 12
	case Quarters:
		return monthDiff(a, b) / 3
	case Months:
		return monthDiff(a, b)
	case Seconds:
		return delta / 1e3
	case Minutes:
		return delta / 6e4
	case Hours:
		return delta / 36e5
	case Days:
		return (delta + zoneDelta) / 864e5
	case Weeks:
		return (delta + zoneDelta) / 6048e5
	default:
		return delta
	}
}

// monthDiff returns a - b in months. The whole month count is anchored on
// a; the remainder is the fraction of the month between the two anchors
// surrounding b.
func monthDiff(a, b time.Time) float64 {
	if a.Day() < b.Day() {
		return -monthDiff(b, a)
	}
	whole := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	anchor := addMonths(a, whole)

	var adjust float64
	if b.Before(anchor) {
		anchor2 := addMonths(a, whole-1)
		adjust = float64(b.Sub(anchor)) / float64(anchor.Sub(anchor2))
	} else {
		anchor2 := addMonths(a, whole+1)
		adjust = float64(b.Sub(anchor)) / float64(anchor2.Sub(anchor))
	}
	out := -(float64(whole) + adjust)
	if out == 0 {
		return 0
	}
	return out
}

// addMonths adds n calendar months to t, clamping the day to the last day
// of the target month instead of overflowing into the next one.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(n), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
