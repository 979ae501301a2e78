package core

import (
	"fmt"
	"strings"
	"time"
)

// DateRange is the dashboard date filter. ALL_TIME is handled as its own
// query path by callers, never as a sentinel [0, MaxInt64] window.
type DateRange string

const (
	RangeToday     DateRange = "TODAY"
	RangeThisWeek  DateRange = "THIS_WEEK"
	RangeThisMonth DateRange = "THIS_MONTH"
	RangeAllTime   DateRange = "ALL_TIME"
)

func ParseDateRange(s string) (DateRange, error) {
	switch DateRange(strings.ToUpper(strings.TrimSpace(s))) {
	case RangeToday:
		return RangeToday, nil
	case RangeThisWeek:
		return RangeThisWeek, nil
	case RangeThisMonth:
		return RangeThisMonth, nil
	case RangeAllTime, "":
		return RangeAllTime, nil
	}
	return "", fmt.Errorf("unknown date range %q", s)
}

// Bounded reports whether the range carries start/end timestamps.
func (r DateRange) Bounded() bool {
	return r != RangeAllTime
}

// Window returns the inclusive [start, end] bounds in epoch milliseconds for
// the range around now, in now's location. Boundaries are recomputed on every
// call: a range evaluated again after midnight shifts with the clock.
// Weeks start on Saturday, the first day of the week in Afghanistan.
func (r DateRange) Window(now time.Time) (start, end int64) {
	switch r {
	case RangeToday:
		s := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return s.UnixMilli(), s.AddDate(0, 0, 1).UnixMilli() - 1
	case RangeThisWeek:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		offset := (int(day.Weekday()) - int(time.Saturday) + 7) % 7
		s := day.AddDate(0, 0, -offset)
		return s.UnixMilli(), s.AddDate(0, 0, 7).UnixMilli() - 1
	case RangeThisMonth:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return s.UnixMilli(), s.AddDate(0, 1, 0).UnixMilli() - 1
	}
	return 0, 0
}
