// Package dateutil formats epoch-millisecond timestamps either as Gregorian
// yyyy/MM/dd or as Afghan Shamsi (Jalali) dates with the month names used in
// Afghanistan.
package dateutil

import (
	"strconv"
	"time"
)

const (
	FormatGregorian = "GREGORIAN"
	FormatShamsi    = "SHAMSI"
)

var afghanShamsiMonths = [12]string{
	"حمل", "ثور", "جوزا", "سرطان", "اسد", "سنبله",
	"میزان", "عقرب", "قوس", "جدی", "دلو", "حوت",
}

// FormatMillis renders a timestamp in the preferred calendar. Unknown
// preferences and conversion failures fall back to Gregorian.
func FormatMillis(millis int64, preferred string) string {
	if preferred == FormatShamsi {
		if s, ok := formatShamsi(millis); ok {
			return s
		}
	}
	return formatGregorian(millis)
}

func formatGregorian(millis int64) string {
	return time.UnixMilli(millis).Format("2006/01/02")
}

func formatShamsi(millis int64) (string, bool) {
	t := time.UnixMilli(millis)
	jy, jm, jd := GregorianToJalali(t.Year(), int(t.Month()), t.Day())
	if jm < 1 || jm > 12 {
		return "", false
	}
	return strconv.Itoa(jd) + " " + afghanShamsiMonths[jm-1] + " " + strconv.Itoa(jy), true
}

// GregorianToJalali converts a Gregorian calendar date to the Jalali
// (Hijri Shamsi) calendar.
func GregorianToJalali(gy, gm, gd int) (jy, jm, jd int) {
	gDaysInMonth := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	jDaysInMonth := [12]int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 29}

	gy2 := gy - 1600
	gm2 := gm - 1
	gd2 := gd - 1

	gDayNo := 365*gy2 + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400
	for i := 0; i < gm2; i++ {
		gDayNo += gDaysInMonth[i]
	}
	if gm2 > 1 && ((gy2%4 == 0 && gy2%100 != 0) || gy2%400 == 0) {
		gDayNo++
	}
	gDayNo += gd2

	jDayNo := gDayNo - 79

	jNp := jDayNo / 12053
	jDayNo %= 12053

	jy = 979 + 33*jNp + 4*(jDayNo/1461)
	jDayNo %= 1461

	if jDayNo >= 366 {
		jy += (jDayNo - 1) / 365
		jDayNo = (jDayNo - 1) % 365
	}

	i := 0
	for i < 11 && jDayNo >= jDaysInMonth[i] {
		jDayNo -= jDaysInMonth[i]
		i++
	}
	jm = i + 1
	jd = jDayNo + 1
	return jy, jm, jd
}
