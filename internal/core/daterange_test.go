package core

import (
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	cases := []struct {
		in   string
		want DateRange
		ok   bool
	}{
		{"TODAY", RangeToday, true},
		{"this_week", RangeThisWeek, true},
		{" THIS_MONTH ", RangeThisMonth, true},
		{"ALL_TIME", RangeAllTime, true},
		{"", RangeAllTime, true},
		{"LAST_YEAR", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDateRange(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseDateRange(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseDateRange(%q): expected error", tc.in)
		}
	}
}

func TestWindowToday(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 12, 0, time.Local)
	start, end := RangeToday.Window(now)

	wantStart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local).UnixMilli()
	if start != wantStart {
		t.Errorf("start = %d, want %d", start, wantStart)
	}
	if end != wantStart+24*60*60*1000-1 {
		t.Errorf("end = %d, want %d", end, wantStart+24*60*60*1000-1)
	}
}

func TestWindowThisWeekStartsSaturday(t *testing.T) {
	// 2025-03-19 is a Wednesday; the week began Saturday 2025-03-15.
	now := time.Date(2025, 3, 19, 10, 0, 0, 0, time.Local)
	start, end := RangeThisWeek.Window(now)

	wantStart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local).UnixMilli()
	if start != wantStart {
		t.Errorf("start = %d, want %d", start, wantStart)
	}
	wantEnd := time.Date(2025, 3, 22, 0, 0, 0, 0, time.Local).UnixMilli() - 1
	if end != wantEnd {
		t.Errorf("end = %d, want %d", end, wantEnd)
	}

	// A Saturday is its own week start.
	sat := time.Date(2025, 3, 15, 8, 0, 0, 0, time.Local)
	satStart, _ := RangeThisWeek.Window(sat)
	if satStart != wantStart {
		t.Errorf("saturday start = %d, want %d", satStart, wantStart)
	}
}

func TestWindowThisMonth(t *testing.T) {
	now := time.Date(2025, 1, 31, 23, 0, 0, 0, time.Local)
	start, end := RangeThisMonth.Window(now)

	wantStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local).UnixMilli()
	wantEnd := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local).UnixMilli() - 1
	if start != wantStart || end != wantEnd {
		t.Errorf("window = [%d, %d], want [%d, %d]", start, end, wantStart, wantEnd)
	}
}

func TestWindowRecomputedPerCall(t *testing.T) {
	d1 := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	d2 := d1.AddDate(0, 0, 1)
	s1, _ := RangeToday.Window(d1)
	s2, _ := RangeToday.Window(d2)
	if s1 == s2 {
		t.Fatal("expected window to shift across a day boundary")
	}
}

func TestBounded(t *testing.T) {
	if RangeAllTime.Bounded() {
		t.Error("ALL_TIME must not be bounded")
	}
	for _, r := range []DateRange{RangeToday, RangeThisWeek, RangeThisMonth} {
		if !r.Bounded() {
			t.Errorf("%s should be bounded", r)
		}
	}
}
