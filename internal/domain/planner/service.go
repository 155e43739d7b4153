package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/itinerary-planner/internal/domain/calendar"
	"github.com/yanqian/itinerary-planner/internal/domain/place"
	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

// Config drives planner session behavior.
type Config struct {
	SessionTTL     time.Duration
	CandidateLimit int
	Location       *time.Location
}

// SessionView summarizes a session for clients.
type SessionView struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"userId"`
	Anchor     time.Time `json:"anchor"`
	Range      string    `json:"range"`
	EventCount int       `json:"eventCount"`
	State      string    `json:"state"`
}

// CandidatesRequest replaces the candidate list of a session.
type CandidatesRequest struct {
	Category place.Category `json:"category"`
	Places   []place.Place  `json:"places"`
	Limit    int            `json:"limit"`
}

// CandidateSet is the ranked explore list of a session. ProviderTypes lists
// the provider tags a nearby search should ask for to refill it.
type CandidateSet struct {
	Category      place.Category `json:"category,omitempty"`
	ProviderTypes []string       `json:"providerTypes"`
	Places        []place.Place  `json:"places"`
}

// DropRequest carries one drop onto a slot.
type DropRequest struct {
	Transfer map[string]string `json:"transfer"`
	DayIndex int               `json:"dayIndex"`
	Hour     int               `json:"hour"`
}

// LoadResult reports a completed load.
type LoadResult struct {
	ItineraryID string      `json:"itineraryId"`
	EventCount  int         `json:"eventCount"`
	Session     SessionView `json:"session"`
}

// Service manages planning sessions for authenticated users.
type Service interface {
	CreateSession(ctx context.Context, identity Identity) (SessionView, error)
	GetSession(ctx context.Context, identity Identity, sessionID string) (SessionView, error)
	CloseSession(ctx context.Context, identity Identity, sessionID string) error
	SetCandidates(ctx context.Context, identity Identity, sessionID string, req CandidatesRequest) (CandidateSet, error)
	Drop(ctx context.Context, identity Identity, sessionID string, req DropRequest) (calendar.ScheduledEvent, error)
	Remove(ctx context.Context, identity Identity, sessionID, eventID string) (bool, error)
	Shift(ctx context.Context, identity Identity, sessionID string, direction calendar.Direction) (SessionView, error)
	Grid(ctx context.Context, identity Identity, sessionID string) (calendar.Grid, error)
	Events(ctx context.Context, identity Identity, sessionID string) ([]calendar.ScheduledEvent, error)
	Slot(ctx context.Context, identity Identity, sessionID string, dayIndex, hour int) ([]calendar.ScheduledEvent, error)
	Save(ctx context.Context, identity Identity, sessionID string, form SaveForm) (SaveResult, error)
	Load(ctx context.Context, identity Identity, sessionID, itineraryID string) (LoadResult, error)
}

type service struct {
	cfg        Config
	controller *Controller
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService wires the planner domain.
func NewService(cfg Config, controller *Controller, logger *slog.Logger) Service {
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = place.DefaultRankLimit
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &service{
		cfg:        cfg,
		controller: controller,
		logger:     logger.With("component", "planner.service"),
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

func (s *service) CreateSession(_ context.Context, identity Identity) (SessionView, error) {
	if identity.UserID <= 0 {
		return SessionView{}, apperrors.Wrap(CodeUnauthenticated, "sign in to plan an itinerary", ErrUnauthenticated)
	}
	now := s.now().In(s.cfg.Location)
	session := NewSession(uuid.NewString(), identity, now, s.now)

	s.mu.Lock()
	s.sweepLocked(now)
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info("planner session opened", "sessionId", session.ID, "userId", identity.UserID)
	return viewOf(session), nil
}

func (s *service) GetSession(_ context.Context, identity Identity, sessionID string) (SessionView, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(session), nil
}

func (s *service) CloseSession(_ context.Context, identity Identity, sessionID string) error {
	if _, err := s.lookup(identity, sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *service) SetCandidates(_ context.Context, identity Identity, sessionID string, req CandidatesRequest) (CandidateSet, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return CandidateSet{}, err
	}
	if req.Category != "" && !req.Category.Valid() {
		return CandidateSet{}, apperrors.Wrap("invalid_input", "unknown category "+string(req.Category), nil)
	}
	limit := req.Limit
	if limit <= 0 || limit > s.cfg.CandidateLimit {
		limit = s.cfg.CandidateLimit
	}
	types := place.ProviderTypes(req.Category)
	if types == nil {
		types = []string{}
	}
	return CandidateSet{
		Category:      req.Category,
		ProviderTypes: types,
		Places:        session.SetCandidates(req.Places, req.Category, limit),
	}, nil
}

func (s *service) Drop(_ context.Context, identity Identity, sessionID string, req DropRequest) (calendar.ScheduledEvent, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return calendar.ScheduledEvent{}, err
	}
	event, err := session.Drop(place.PayloadFromTransfer(req.Transfer), req.DayIndex, req.Hour)
	if err != nil {
		if errors.Is(err, place.ErrMalformedDropPayload) {
			s.logger.Warn("drop ignored", "sessionId", sessionID, "dayIndex", req.DayIndex, "hour", req.Hour)
		}
		return calendar.ScheduledEvent{}, err
	}
	return event, nil
}

func (s *service) Remove(_ context.Context, identity Identity, sessionID, eventID string) (bool, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return false, err
	}
	return session.Remove(eventID), nil
}

func (s *service) Shift(_ context.Context, identity Identity, sessionID string, direction calendar.Direction) (SessionView, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	session.Shift(direction)
	return viewOf(session), nil
}

func (s *service) Grid(_ context.Context, identity Identity, sessionID string) (calendar.Grid, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return calendar.Grid{}, err
	}
	return session.Grid(s.now().In(s.cfg.Location)), nil
}

func (s *service) Events(_ context.Context, identity Identity, sessionID string) ([]calendar.ScheduledEvent, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Events(), nil
}

// Slot returns the events covering one visible cell, in insertion order.
func (s *service) Slot(_ context.Context, identity Identity, sessionID string, dayIndex, hour int) ([]calendar.ScheduledEvent, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return nil, err
	}
	if dayIndex < 0 || dayIndex >= calendar.VisibleDays {
		return nil, apperrors.Wrap(calendar.CodeInvalidSlot, fmt.Sprintf("day index %d outside 0..%d", dayIndex, calendar.VisibleDays-1), calendar.ErrInvalidDayIndex)
	}
	if hour < 0 || hour >= calendar.HoursPerDay {
		return nil, apperrors.Wrap(calendar.CodeInvalidSlot, fmt.Sprintf("hour %d outside 0..%d", hour, calendar.HoursPerDay-1), calendar.ErrInvalidHour)
	}
	events := session.EventsOccupying(dayIndex, hour)
	if events == nil {
		events = []calendar.ScheduledEvent{}
	}
	return events, nil
}

func (s *service) Save(ctx context.Context, identity Identity, sessionID string, form SaveForm) (SaveResult, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return SaveResult{}, err
	}
	return s.controller.Save(ctx, session, form, nil)
}

func (s *service) Load(ctx context.Context, identity Identity, sessionID, itineraryID string) (LoadResult, error) {
	session, err := s.lookup(identity, sessionID)
	if err != nil {
		return LoadResult{}, err
	}
	count, err := s.controller.Load(ctx, session, itineraryID)
	if err != nil {
		return LoadResult{}, err
	}
	return LoadResult{ItineraryID: itineraryID, EventCount: count, Session: viewOf(session)}, nil
}

// lookup resolves a live session owned by identity. Sessions of other users
// are reported as missing.
func (s *service) lookup(identity Identity, sessionID string) (*Session, error) {
	if identity.UserID <= 0 {
		return nil, apperrors.Wrap(CodeUnauthenticated, "sign in to plan an itinerary", ErrUnauthenticated)
	}
	now := s.now()
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok && session.expired(now, s.cfg.SessionTTL) && session.State() == StateIdle {
		delete(s.sessions, sessionID)
		ok = false
	}
	s.mu.Unlock()
	if !ok || session.UserID() != identity.UserID {
		return nil, apperrors.Wrap(CodeSessionNotFound, "planner session not found", ErrSessionNotFound)
	}
	session.touch(now)
	return session, nil
}

func (s *service) sweepLocked(now time.Time) {
	for id, session := range s.sessions {
		if session.expired(now, s.cfg.SessionTTL) && session.State() == StateIdle {
			delete(s.sessions, id)
			s.logger.Debug("planner session expired", "sessionId", id)
		}
	}
}

func viewOf(session *Session) SessionView {
	return SessionView{
		ID:         session.ID,
		UserID:     session.UserID(),
		Anchor:     session.Anchor(),
		Range:      session.Range(),
		EventCount: len(session.Events()),
		State:      session.State().String(),
	}
}
