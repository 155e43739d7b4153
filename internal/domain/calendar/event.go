package calendar

import (
	"fmt"
	"time"

	"github.com/yanqian/itinerary-planner/internal/domain/place"
)

// ScheduledEvent binds a place snapshot to an hour span on a calendar day.
type ScheduledEvent struct {
	ID        string      `json:"id"`
	PlaceID   string      `json:"placeId"`
	Place     place.Place `json:"place"`
	Date      time.Time   `json:"date"`
	StartHour int         `json:"startHour"`
	EndHour   int         `json:"endHour"`
	DayIndex  int         `json:"dayIndex"`
	TimeIndex int         `json:"timeIndex"`
}

// Duration is the span in whole hours.
func (e ScheduledEvent) Duration() int {
	return e.EndHour - e.StartHour
}

// Occupies reports whether the event covers the slot (dayIndex, hour).
func (e ScheduledEvent) Occupies(dayIndex, hour int) bool {
	return e.DayIndex == dayIndex && coversHour(e, hour)
}

func coversHour(e ScheduledEvent, hour int) bool {
	return e.TimeIndex <= hour && hour < e.TimeIndex+e.Duration()
}

func (e ScheduledEvent) clone() ScheduledEvent {
	e.Place = e.Place.Snapshot()
	return e
}

// EventID composes the identifier of an event from its place and a stamp.
func EventID(placeID string, stampMillis int64) string {
	return fmt.Sprintf("event-%s-%d", placeID, stampMillis)
}
