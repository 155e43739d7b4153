package calendar

import "time"

// Row geometry in pixels.
const (
	RowHeight = 50
	RowGap    = 4
)

// LastHourIndex is the bottom row of the grid.
const LastHourIndex = HoursPerDay - 1

// IsRenderStart reports whether hour is the row the event block is drawn from.
func IsRenderStart(e ScheduledEvent, hour int) bool {
	return hour == e.TimeIndex
}

// VisualSpan is the block height in pixels.
func VisualSpan(e ScheduledEvent) int {
	return e.Duration()*RowHeight - RowGap
}

// EndLabelIndex is the row whose label closes the time range, clamped to the
// last row when the event runs past the grid.
func EndLabelIndex(e ScheduledEvent) int {
	return min(e.TimeIndex+e.Duration(), LastHourIndex)
}

// TimeRangeLabel renders e.g. "9 AM - 10 AM".
func TimeRangeLabel(e ScheduledEvent) string {
	return HourLabel(e.TimeIndex) + " - " + HourLabel(EndLabelIndex(e))
}

// Block is one rendered event, drawn once from its start cell.
type Block struct {
	Event     ScheduledEvent `json:"event"`
	Column    int            `json:"column"`
	Row       int            `json:"row"`
	Height    int            `json:"height"`
	Color     string         `json:"color"`
	TimeRange string         `json:"timeRange"`
	Price     string         `json:"price,omitempty"`
}

// Cell lists the events covering one slot. Every occupied cell is a drop and
// remove target, not just the start cell.
type Cell struct {
	DayIndex int      `json:"dayIndex"`
	Hour     int      `json:"hour"`
	EventIDs []string `json:"eventIds"`
}

// Grid is the render model of one week window.
type Grid struct {
	Range  string           `json:"range"`
	Days   []Day            `json:"days"`
	Hours  []HourSlot       `json:"hours"`
	Blocks []Block          `json:"blocks"`
	Cells  []Cell           `json:"cells"`
	Hidden []ScheduledEvent `json:"hidden"`
}

// Layout resolves the store against the window. Events are placed by their
// calendar date so they stay on the correct day after navigation. Events
// dated on a weekend of the visible week, or carrying a stored day index
// outside the visible columns, are reported as hidden instead of being
// clamped. Events of other weeks are left out.
func Layout(window *WeekWindow, events []ScheduledEvent, today time.Time) Grid {
	grid := Grid{
		Range:  window.Range(),
		Days:   window.Days(today),
		Hours:  HourSlots(),
		Blocks: []Block{},
		Cells:  []Cell{},
		Hidden: []ScheduledEvent{},
	}

	var cells [VisibleDays][HoursPerDay][]string
	for _, event := range events {
		column, visible, inWeek := placement(window, event)
		if !inWeek {
			continue
		}
		if !visible {
			grid.Hidden = append(grid.Hidden, event.clone())
			continue
		}
		for hour := 0; hour < HoursPerDay; hour++ {
			if !coversHour(event, hour) {
				continue
			}
			cells[column][hour] = append(cells[column][hour], event.ID)
			if IsRenderStart(event, hour) {
				grid.Blocks = append(grid.Blocks, Block{
					Event:     event.clone(),
					Column:    column,
					Row:       hour,
					Height:    VisualSpan(event),
					Color:     event.Place.Category.Color(),
					TimeRange: TimeRangeLabel(event),
					Price:     event.Place.PriceLabel(),
				})
			}
		}
	}

	for day := 0; day < VisibleDays; day++ {
		for hour := 0; hour < HoursPerDay; hour++ {
			if ids := cells[day][hour]; len(ids) > 0 {
				grid.Cells = append(grid.Cells, Cell{DayIndex: day, Hour: hour, EventIDs: ids})
			}
		}
	}
	return grid
}

func placement(window *WeekWindow, e ScheduledEvent) (column int, visible, inWeek bool) {
	if e.Date.IsZero() {
		return e.DayIndex, e.DayIndex >= 0 && e.DayIndex < VisibleDays, true
	}
	offset, ok := window.DayIndexOf(e.Date)
	if offset < 0 || offset >= DaysPerWeek {
		return 0, false, false
	}
	if !ok || e.DayIndex < 0 || e.DayIndex >= VisibleDays {
		return 0, false, true
	}
	return offset, true, true
}
