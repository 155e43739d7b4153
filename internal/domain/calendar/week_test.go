package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewWeekWindowAnchorsOnMonday(t *testing.T) {
	// Thursday afternoon.
	now := time.Date(2025, time.March, 6, 15, 30, 0, 0, time.UTC)
	w := NewWeekWindow(now)
	require.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), w.Anchor())

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, time.March, 9, 8, 0, 0, 0, time.UTC)
	require.Equal(t, w.Anchor(), NewWeekWindow(sunday).Anchor())
}

func TestDays(t *testing.T) {
	today := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	days := NewWeekWindow(today).Days(today)

	require.Len(t, days, VisibleDays)
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.DayName)
	}
	require.Equal(t, []string{"MON", "TUE", "WED", "THU", "FRI"}, names)
	require.Equal(t, 3, days[0].DayNumber)
	require.True(t, days[2].IsToday)
	require.False(t, days[1].IsToday)
}

func TestShiftRoundTrip(t *testing.T) {
	w := NewWeekWindow(time.Date(2025, time.December, 30, 0, 0, 0, 0, time.UTC))
	original := w.Anchor()

	w.Shift(Forward)
	require.Equal(t, original.AddDate(0, 0, 7), w.Anchor())
	w.Shift(Backward)
	require.Equal(t, original, w.Anchor())

	w.Shift(Backward)
	w.Shift(Backward)
	w.Shift(Forward)
	w.Shift(Forward)
	require.Equal(t, original, w.Anchor())
}

func TestDayIndexOf(t *testing.T) {
	w := NewWeekWindow(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))

	idx, ok := w.DayIndexOf(time.Date(2025, time.March, 7, 23, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.Equal(t, 4, idx)

	_, ok = w.DayIndexOf(time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC))
	require.False(t, ok)

	w.Shift(Forward)
	_, ok = w.DayIndexOf(time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC))
	require.False(t, ok)
}

func TestHourSlots(t *testing.T) {
	slots := HourSlots()
	require.Len(t, slots, HoursPerDay)
	require.Equal(t, "12 AM", slots[0].Label)
	require.Equal(t, "1 AM", slots[1].Label)
	require.Equal(t, "12 PM", slots[12].Label)
	require.Equal(t, "1 PM", slots[13].Label)
	require.Equal(t, "11 PM", slots[23].Label)
}

func TestRange(t *testing.T) {
	w := NewWeekWindow(time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "Mar 3 - Mar 7, 2025", w.Range())
}

func TestWeekdayIndex(t *testing.T) {
	require.Equal(t, 0, WeekdayIndex(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 6, WeekdayIndex(time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)))
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("Next")
	require.True(t, ok)
	require.Equal(t, Forward, d)

	d, ok = ParseDirection("previous")
	require.True(t, ok)
	require.Equal(t, Backward, d)

	_, ok = ParseDirection("sideways")
	require.False(t, ok)
}
