package planner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanqian/itinerary-planner/internal/domain/calendar"
	"github.com/yanqian/itinerary-planner/internal/domain/place"
)

// State is the sync state of a session.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateSaving
	StateLoading
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSaving:
		return "saving"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Identity is the authenticated user a session acts for.
type Identity struct {
	UserID int64
	Email  string
}

// Session is one user's planning workspace: a week window, an event store
// and the candidate places currently on display. Mutations are serialized by
// the session mutex; the sync state is guarded separately so a save in
// flight does not block grid reads.
type Session struct {
	ID        string
	Identity  Identity
	CreatedAt time.Time

	mu         sync.Mutex
	window     *calendar.WeekWindow
	store      *calendar.Store
	candidates []place.Place
	lastSeen   time.Time

	state atomic.Int32
}

// NewSession opens a session whose window shows the week containing now.
// clock stamps event ids and defaults to time.Now.
func NewSession(id string, identity Identity, now time.Time, clock func() time.Time) *Session {
	return &Session{
		ID:        id,
		Identity:  identity,
		CreatedAt: now,
		window:    calendar.NewWeekWindow(now),
		store:     calendar.NewStore(clock),
		lastSeen:  now,
	}
}

// UserID returns the owning user, zero when anonymous.
func (s *Session) UserID() int64 {
	if s == nil {
		return 0
	}
	return s.Identity.UserID
}

// State reports the current sync state.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) begin(next State) bool {
	return s.state.CompareAndSwap(int32(StateIdle), int32(next))
}

func (s *Session) setState(next State) {
	s.state.Store(int32(next))
}

// SetCandidates ranks and stores the places the drop lookup resolves ids
// against.
func (s *Session) SetCandidates(candidates []place.Place, category place.Category, limit int) []place.Place {
	ranked := place.Rank(candidates, category, limit)
	s.mu.Lock()
	s.candidates = ranked
	s.mu.Unlock()
	return clonePlaces(ranked)
}

// Candidates returns the current candidate list.
func (s *Session) Candidates() []place.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePlaces(s.candidates)
}

// Drop normalizes a payload and inserts it at a visible slot. Nothing is
// inserted when the payload cannot be decoded.
func (s *Session) Drop(payload place.DropPayload, dayIndex, hour int) (calendar.ScheduledEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := place.Normalize(payload, s.candidates)
	if err != nil {
		return calendar.ScheduledEvent{}, err
	}
	return s.store.Insert(p, s.window.DateFor(dayIndex), dayIndex, hour)
}

// Remove deletes an event; unknown ids are a no-op.
func (s *Session) Remove(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Remove(eventID)
}

// Shift moves the window and returns the new anchor.
func (s *Session) Shift(direction calendar.Direction) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window.Shift(direction)
	return s.window.Anchor()
}

// Anchor returns the Monday of the visible week.
func (s *Session) Anchor() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.Anchor()
}

// Range returns the visible range label.
func (s *Session) Range() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.Range()
}

// Events returns a copy of the scheduled events.
func (s *Session) Events() []calendar.ScheduledEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Events()
}

// EventsOccupying returns the events covering a slot.
func (s *Session) EventsOccupying(dayIndex, hour int) []calendar.ScheduledEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.EventsOccupying(dayIndex, hour)
}

// Grid lays the events out against the visible week.
func (s *Session) Grid(today time.Time) calendar.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calendar.Layout(s.window, s.store.Events(), today)
}

func (s *Session) replaceEvents(events []calendar.ScheduledEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Replace(events)
}

func (s *Session) location() *time.Location {
	return s.Anchor().Location()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}

func clonePlaces(in []place.Place) []place.Place {
	out := make([]place.Place, len(in))
	for i, p := range in {
		out[i] = p.Snapshot()
	}
	return out
}
