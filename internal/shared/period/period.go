// Package period describes an inclusive pay period of calendar dates.
package period

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type Period struct {
	Start time.Time
	End   time.Time
}

// New truncates both bounds to dates in UTC and rejects an inverted range.
func New(start, end time.Time) (Period, error) {
	p := Period{Start: dateOf(start), End: dateOf(end)}
	if p.End.Before(p.Start) {
		return Period{}, fmt.Errorf("period end %s is before start %s", p.End.Format(DateLayout), p.Start.Format(DateLayout))
	}
	return p, nil
}

// Parse builds a period from two YYYY-MM-DD strings.
func Parse(start, end string) (Period, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Period{}, err
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Period{}, err
	}
	return New(s, e)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p Period) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Overlaps reports whether the two inclusive ranges share at least one day.
func (p Period) Overlaps(o Period) bool {
	return !p.Start.After(o.End) && !o.Start.After(p.End)
}

// WorkingDays counts Monday to Friday dates in the period.
func (p Period) WorkingDays() int {
	n := 0
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// ContainsMonthEnd reports whether the last day of some month falls in the period.
func (p Period) ContainsMonthEnd() bool {
	return p.containsMatching(func(d time.Time) bool {
		return d.AddDate(0, 0, 1).Day() == 1
	})
}

func (p Period) ContainsQuarterEnd() bool {
	return p.containsMatching(func(d time.Time) bool {
		next := d.AddDate(0, 0, 1)
		return next.Day() == 1 && (next.Month()-1)%3 == 0
	})
}

func (p Period) ContainsYearEnd() bool {
	return p.containsMatching(func(d time.Time) bool {
		return d.Month() == time.December && d.Day() == 31
	})
}

func (p Period) containsMatching(match func(time.Time) bool) bool {
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		if match(d) {
			return true
		}
	}
	return false
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}
