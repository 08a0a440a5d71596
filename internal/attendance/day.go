package attendance

import (
	"fmt"
	"time"
)

// LogicalDayOf maps an instant to its logical calendar day under the
// given reset hour: instants whose wall-clock hour is strictly before
// resetHour belong to the previous calendar date. resetHour 0 degenerates
// to plain calendar-day semantics. The result carries no time of day.
func LogicalDayOf(t time.Time, resetHour int) time.Time {
	if t.Hour() < resetHour {
		t = t.AddDate(0, 0, -1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameLogicalDay reports whether two instants fall on the same logical day.
func SameLogicalDay(a, b time.Time, resetHour int) bool {
	return LogicalDayOf(a, resetHour).Equal(LogicalDayOf(b, resetHour))
}

// DayStart returns the instant at which the given logical day begins,
// i.e. resetHour:00:00 on its calendar date.
func DayStart(day time.Time, resetHour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), resetHour, 0, 0, 0, day.Location())
}

// WeekOf returns the Monday on or before the given day.
func WeekOf(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// DayKey formats a logical day as YYYY-MM-DD.
func DayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

// WeekKey formats the week bucket for a logical day as the date of its Monday.
func WeekKey(day time.Time) string {
	return WeekOf(day).Format("2006-01-02")
}

// MonthKey formats the month bucket for a logical day as YYYY-MM.
func MonthKey(day time.Time) string {
	return fmt.Sprintf("%04d-%02d", day.Year(), int(day.Month()))
}
