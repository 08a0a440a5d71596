package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestLogicalDayOf_BeforeResetHourBelongsToPreviousDay(t *testing.T) {
	got := LogicalDayOf(date(2024, time.March, 12, 3, 30), 5)
	require.Equal(t, date(2024, time.March, 11, 0, 0), got)
}

func TestLogicalDayOf_AtResetHourBelongsToSameDay(t *testing.T) {
	got := LogicalDayOf(date(2024, time.March, 12, 5, 0), 5)
	require.Equal(t, date(2024, time.March, 12, 0, 0), got)
}

func TestLogicalDayOf_AfterResetHourBelongsToSameDay(t *testing.T) {
	got := LogicalDayOf(date(2024, time.March, 12, 23, 59), 5)
	require.Equal(t, date(2024, time.March, 12, 0, 0), got)
}

func TestLogicalDayOf_ZeroResetHourIsCalendarDay(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		got := LogicalDayOf(date(2024, time.March, 12, hour, 0), 0)
		require.Equal(t, date(2024, time.March, 12, 0, 0), got, "hour %d", hour)
	}
}

func TestLogicalDayOf_CrossesMonthBoundary(t *testing.T) {
	got := LogicalDayOf(date(2024, time.March, 1, 2, 0), 5)
	require.Equal(t, date(2024, time.February, 29, 0, 0), got)
}

func TestSameLogicalDay(t *testing.T) {
	late := date(2024, time.March, 11, 23, 0)
	early := date(2024, time.March, 12, 4, 59)
	morning := date(2024, time.March, 12, 5, 0)

	require.True(t, SameLogicalDay(late, early, 5))
	require.False(t, SameLogicalDay(early, morning, 5))
}

func TestDayStart(t *testing.T) {
	day := date(2024, time.March, 12, 0, 0)
	require.Equal(t, date(2024, time.March, 12, 5, 0), DayStart(day, 5))
}

func TestWeekOf_MondayAnchored(t *testing.T) {
	monday := date(2024, time.March, 11, 0, 0)

	require.Equal(t, monday, WeekOf(monday))
	require.Equal(t, monday, WeekOf(date(2024, time.March, 13, 0, 0)))
	require.Equal(t, monday, WeekOf(date(2024, time.March, 17, 0, 0))) // sunday
}

func TestBucketKeys(t *testing.T) {
	day := date(2024, time.March, 12, 0, 0)

	require.Equal(t, "2024-03-12", DayKey(day))
	require.Equal(t, "2024-03-11", WeekKey(day))
	require.Equal(t, "2024-03", MonthKey(day))
}
