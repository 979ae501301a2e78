package dateutil

import (
	"testing"
	"time"
)

func TestGregorianToJalali(t *testing.T) {
	cases := []struct {
		gy, gm, gd int
		jy, jm, jd int
	}{
		{2025, 3, 21, 1404, 1, 1}, // Nowruz
		{2025, 3, 20, 1403, 12, 30},
		{2024, 3, 20, 1403, 1, 1},
		{2025, 8, 31, 1404, 6, 9},
		{2000, 1, 1, 1378, 10, 11},
	}
	for _, tc := range cases {
		jy, jm, jd := GregorianToJalali(tc.gy, tc.gm, tc.gd)
		if jy != tc.jy || jm != tc.jm || jd != tc.jd {
			t.Errorf("%04d-%02d-%02d: got %d/%d/%d, want %d/%d/%d",
				tc.gy, tc.gm, tc.gd, jy, jm, jd, tc.jy, tc.jm, tc.jd)
		}
	}
}

func TestFormatMillis(t *testing.T) {
	millis := time.Date(2025, 3, 21, 12, 0, 0, 0, time.Local).UnixMilli()

	if got := FormatMillis(millis, FormatGregorian); got != "2025/03/21" {
		t.Errorf("gregorian: got %q", got)
	}
	if got := FormatMillis(millis, FormatShamsi); got != "1 حمل 1404" {
		t.Errorf("shamsi: got %q", got)
	}
	// Unknown preference falls back to Gregorian.
	if got := FormatMillis(millis, "LUNAR"); got != "2025/03/21" {
		t.Errorf("fallback: got %q", got)
	}
}
