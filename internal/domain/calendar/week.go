package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	// VisibleDays is the number of weekday columns, Monday through Friday.
	VisibleDays = 5
	// HoursPerDay is the number of one-hour rows.
	HoursPerDay = 24
	// DaysPerWeek is the shift applied by week navigation.
	DaysPerWeek = 7
)

// Direction selects the week navigation direction.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// ParseDirection accepts "forward"/"next" and "backward"/"previous"/"prev".
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "forward", "next":
		return Forward, true
	case "backward", "previous", "prev":
		return Backward, true
	default:
		return 0, false
	}
}

// Day describes one visible column.
type Day struct {
	Date      time.Time `json:"date"`
	DayName   string    `json:"dayName"`
	DayNumber int       `json:"dayNumber"`
	IsToday   bool      `json:"isToday"`
}

// HourSlot describes one visible row.
type HourSlot struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
}

// WeekWindow is the visible five day scheduling horizon. The anchor is
// always the Monday midnight of some week.
type WeekWindow struct {
	anchor time.Time
}

// NewWeekWindow anchors the window on the week containing now.
func NewWeekWindow(now time.Time) *WeekWindow {
	return &WeekWindow{anchor: StartOfWeek(now)}
}

// Anchor returns the Monday the window starts on.
func (w *WeekWindow) Anchor() time.Time {
	return w.anchor
}

// Shift moves the anchor by exactly one week. Events are never touched.
func (w *WeekWindow) Shift(direction Direction) {
	switch direction {
	case Forward:
		w.anchor = w.anchor.AddDate(0, 0, DaysPerWeek)
	case Backward:
		w.anchor = w.anchor.AddDate(0, 0, -DaysPerWeek)
	}
}

// DateFor returns the calendar date of a column.
func (w *WeekWindow) DateFor(dayIndex int) time.Time {
	return w.anchor.AddDate(0, 0, dayIndex)
}

// DayIndexOf returns the column showing date, if it is visible.
func (w *WeekWindow) DayIndexOf(date time.Time) (int, bool) {
	offset := daysBetween(w.anchor, date)
	if offset < 0 || offset >= VisibleDays {
		return offset, false
	}
	return offset, true
}

// Days returns the visible column descriptors.
func (w *WeekWindow) Days(today time.Time) []Day {
	days := make([]Day, 0, VisibleDays)
	for i := 0; i < VisibleDays; i++ {
		date := w.DateFor(i)
		days = append(days, Day{
			Date:      date,
			DayName:   strings.ToUpper(date.Format("Mon")),
			DayNumber: date.Day(),
			IsToday:   daysBetween(date, today) == 0,
		})
	}
	return days
}

// Range renders the visible span, e.g. "Mar 3 - Mar 7, 2025".
func (w *WeekWindow) Range() string {
	first := w.DateFor(0)
	last := w.DateFor(VisibleDays - 1)
	return first.Format("Jan 2") + " - " + last.Format("Jan 2, 2006")
}

// HourSlots returns the 24 row descriptors.
func HourSlots() []HourSlot {
	slots := make([]HourSlot, HoursPerDay)
	for hour := 0; hour < HoursPerDay; hour++ {
		slots[hour] = HourSlot{Hour: hour, Label: HourLabel(hour)}
	}
	return slots
}

// HourLabel renders an hour index on a 12-hour clock.
func HourLabel(hour int) string {
	display := hour % 12
	if display == 0 {
		display = 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d %s", display, suffix)
}

// StartOfWeek returns the Monday midnight of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	day := Midnight(t)
	return day.AddDate(0, 0, -WeekdayIndex(day))
}

// WeekdayIndex maps Monday to 0 through Sunday to 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Midnight truncates t to the start of its calendar day in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring clock changes.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
