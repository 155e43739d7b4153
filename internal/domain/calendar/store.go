package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/yanqian/itinerary-planner/internal/domain/place"
	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

// CodeInvalidSlot is the AppError code for drops outside the grid.
const CodeInvalidSlot = "invalid_input"

var (
	// ErrInvalidDayIndex reports a drop outside the visible columns.
	ErrInvalidDayIndex = errors.New("day index outside visible window")
	// ErrInvalidHour reports a drop outside the hour rows.
	ErrInvalidHour = errors.New("hour outside grid")
)

// DefaultDuration is the span given to every dropped place.
const DefaultDuration = 1

// Store is the ordered collection of scheduled events of one planning
// session. It is not safe for concurrent use; the session owner serializes
// access.
type Store struct {
	events    []ScheduledEvent
	now       func() time.Time
	lastStamp int64
}

// NewStore creates an empty store. now defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now}
}

// Insert appends a one hour event for place starting at startHour.
func (s *Store) Insert(p place.Place, date time.Time, dayIndex, startHour int) (ScheduledEvent, error) {
	if dayIndex < 0 || dayIndex >= VisibleDays {
		return ScheduledEvent{}, apperrors.Wrap(CodeInvalidSlot, fmt.Sprintf("day index %d outside 0..%d", dayIndex, VisibleDays-1), ErrInvalidDayIndex)
	}
	if startHour < 0 || startHour >= HoursPerDay {
		return ScheduledEvent{}, apperrors.Wrap(CodeInvalidSlot, fmt.Sprintf("hour %d outside 0..%d", startHour, HoursPerDay-1), ErrInvalidHour)
	}

	snapshot := p.Snapshot()
	event := ScheduledEvent{
		ID:        EventID(snapshot.ID, s.nextStamp()),
		PlaceID:   snapshot.ID,
		Place:     snapshot,
		Date:      Midnight(date),
		StartHour: startHour,
		EndHour:   startHour + DefaultDuration,
		DayIndex:  dayIndex,
		TimeIndex: startHour,
	}
	s.events = append(s.events, event)
	return event.clone(), nil
}

// Remove deletes the event with id. Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	for i, event := range s.events {
		if event.ID == id {
			s.events = append(s.events[:i:i], s.events[i+1:]...)
			return true
		}
	}
	return false
}

// EventsOccupying returns, in insertion order, the events covering a slot.
func (s *Store) EventsOccupying(dayIndex, hour int) []ScheduledEvent {
	var out []ScheduledEvent
	for _, event := range s.events {
		if event.Occupies(dayIndex, hour) {
			out = append(out, event.clone())
		}
	}
	return out
}

// Get returns the event with id.
func (s *Store) Get(id string) (ScheduledEvent, bool) {
	for _, event := range s.events {
		if event.ID == id {
			return event.clone(), true
		}
	}
	return ScheduledEvent{}, false
}

// Events returns a copy of the collection in insertion order.
func (s *Store) Events() []ScheduledEvent {
	out := make([]ScheduledEvent, len(s.events))
	for i, event := range s.events {
		out[i] = event.clone()
	}
	return out
}

// Len returns the number of events.
func (s *Store) Len() int {
	return len(s.events)
}

// Replace swaps the whole collection. Events without an id get one.
func (s *Store) Replace(events []ScheduledEvent) {
	next := make([]ScheduledEvent, len(events))
	for i, event := range events {
		event = event.clone()
		if event.ID == "" {
			event.ID = EventID(event.PlaceID, s.nextStamp())
		}
		next[i] = event
	}
	s.events = next
}

// nextStamp is strictly increasing so ids never collide, even for drops
// within the same millisecond.
func (s *Store) nextStamp() int64 {
	stamp := s.now().UnixMilli()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	s.lastStamp = stamp
	return stamp
}
