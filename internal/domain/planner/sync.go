package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/itinerary-planner/internal/domain/calendar"
	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
	"github.com/yanqian/itinerary-planner/internal/domain/place"
	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

// Backend is the persistence service the controller saves to and loads from.
type Backend interface {
	CreateItinerary(ctx context.Context, req itinerary.CreateRequest) (itinerary.Itinerary, error)
	AddPlaces(ctx context.Context, itineraryID string, events []itinerary.EventInput) ([]itinerary.PlaceVisit, error)
	GetItinerary(ctx context.Context, itineraryID string) (itinerary.Detail, error)
}

// SaveForm is the user supplied part of a save.
type SaveForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	OriginLat   *float64 `json:"originLat,omitempty"`
	OriginLng   *float64 `json:"originLng,omitempty"`
}

// SaveResult confirms a save.
type SaveResult struct {
	ItineraryID string `json:"itineraryId"`
	PlaceCount  int    `json:"placeCount"`
}

// Controller runs the save and load protocols against a Backend.
type Controller struct {
	backend Backend
	logger  *slog.Logger
}

// NewController constructs a Controller.
func NewController(backend Backend, logger *slog.Logger) *Controller {
	return &Controller{
		backend: backend,
		logger:  logger.With("component", "planner.controller"),
	}
}

// Save validates the session and persists its events as a new itinerary:
// the itinerary record first, then its places. Neither call is retried and a
// failed places call leaves the created record in place.
func (c *Controller) Save(ctx context.Context, session *Session, form SaveForm, onSuccess func(SaveResult)) (SaveResult, error) {
	if session == nil {
		return SaveResult{}, apperrors.Wrap(CodeUnauthenticated, "sign in to save an itinerary", ErrUnauthenticated)
	}
	if !session.begin(StateValidating) {
		return SaveResult{}, apperrors.Wrap(CodeSaveInProgress, "a save is already in progress", ErrSaveInProgress)
	}
	defer session.setState(StateIdle)

	if session.UserID() <= 0 {
		return SaveResult{}, apperrors.Wrap(CodeUnauthenticated, "sign in to save an itinerary", ErrUnauthenticated)
	}
	events := session.Events()
	if len(events) == 0 {
		return SaveResult{}, apperrors.Wrap(CodeNothingToSave, "add at least one place before saving", ErrNothingToSave)
	}
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return SaveResult{}, apperrors.Wrap(CodeMissingTitle, "title is required", ErrMissingTitle)
	}

	session.setState(StateSaving)
	created, err := c.backend.CreateItinerary(ctx, itinerary.CreateRequest{
		UserID:      session.UserID(),
		Title:       title,
		Description: strings.TrimSpace(form.Description),
		OriginLat:   form.OriginLat,
		OriginLng:   form.OriginLng,
	})
	if err != nil {
		session.setState(StateFailed)
		c.logger.Error("create itinerary failed", "sessionId", session.ID, "error", err)
		return SaveResult{}, apperrors.Wrap(CodeRemoteCreateFailed, remoteMessage(err, genericCreateMessage), err)
	}

	rows, err := c.backend.AddPlaces(ctx, created.ID, toEventInputs(events))
	if err != nil {
		session.setState(StateFailed)
		c.logger.Error("persist itinerary places failed", "sessionId", session.ID, "itineraryId", created.ID, "error", err)
		return SaveResult{ItineraryID: created.ID}, apperrors.Wrap(
			CodeRemotePersistFailed,
			remoteMessage(err, genericPersistMessage),
			&PersistError{ItineraryID: created.ID, Err: err},
		)
	}

	session.setState(StateSuccess)
	result := SaveResult{ItineraryID: created.ID, PlaceCount: len(rows)}
	c.logger.Info("itinerary saved", "sessionId", session.ID, "itineraryId", created.ID, "places", result.PlaceCount)
	if onSuccess != nil {
		onSuccess(result)
	}
	return result, nil
}

// Load replaces the session's events with the rows of a saved itinerary. The
// events are left untouched when the fetch fails or any row is malformed.
func (c *Controller) Load(ctx context.Context, session *Session, itineraryID string) (int, error) {
	if session == nil {
		return 0, apperrors.Wrap(CodeUnauthenticated, "no planner session", ErrUnauthenticated)
	}
	if !session.begin(StateLoading) {
		return 0, apperrors.Wrap(CodeSaveInProgress, "a save is already in progress", ErrSaveInProgress)
	}
	defer session.setState(StateIdle)

	detail, err := c.backend.GetItinerary(ctx, itineraryID)
	if err != nil {
		c.logger.Warn("fetch itinerary failed", "sessionId", session.ID, "itineraryId", itineraryID, "error", err)
		return 0, apperrors.Wrap(CodeLoadFailed, remoteMessage(err, genericLoadMessage), err)
	}
	events, err := EventsFromRows(detail.Places, session.location())
	if err != nil {
		c.logger.Warn("itinerary rows malformed", "sessionId", session.ID, "itineraryId", itineraryID, "error", err)
		return 0, apperrors.Wrap(CodeLoadFailed, "saved itinerary has malformed places", err)
	}
	session.replaceEvents(events)
	c.logger.Info("itinerary loaded", "sessionId", session.ID, "itineraryId", itineraryID, "events", len(events))
	return len(events), nil
}

// EventsFromRows rebuilds scheduled events from persisted rows. The day
// index follows the visit date's weekday, Monday=0 through Sunday=6, so
// weekend rows keep an index with no visible column.
func EventsFromRows(rows []itinerary.PlaceVisit, loc *time.Location) ([]calendar.ScheduledEvent, error) {
	events := make([]calendar.ScheduledEvent, 0, len(rows))
	for i, row := range rows {
		date, err := itinerary.ParseVisitDate(row.VisitDate, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		start, err := itinerary.ParseHour(row.StartTime)
		if err != nil {
			return nil, fmt.Errorf("row %d start: %w", i, err)
		}
		end, err := itinerary.ParseHour(row.EndTime)
		if err != nil {
			return nil, fmt.Errorf("row %d end: %w", i, err)
		}
		if end <= start {
			return nil, fmt.Errorf("row %d: %w: end %q not after start %q", i, itinerary.ErrInvalidTime, row.EndTime, row.StartTime)
		}
		if strings.TrimSpace(row.PlaceID) == "" {
			return nil, fmt.Errorf("row %d: missing place id", i)
		}
		p := place.Place{
			ID:       row.PlaceID,
			Name:     row.Name,
			Lat:      row.Lat,
			Lng:      row.Lng,
			Address:  row.Address,
			Category: place.Category(row.Category),
		}
		events = append(events, calendar.ScheduledEvent{
			PlaceID:   row.PlaceID,
			Place:     p.WithCategory(),
			Date:      date,
			StartHour: start,
			EndHour:   end,
			DayIndex:  calendar.WeekdayIndex(date),
			TimeIndex: start,
		})
	}
	return events, nil
}

func toEventInputs(events []calendar.ScheduledEvent) []itinerary.EventInput {
	out := make([]itinerary.EventInput, len(events))
	for i, e := range events {
		out[i] = itinerary.EventInput{
			PlaceID: e.PlaceID,
			Place: itinerary.EventPlace{
				Name:     e.Place.Name,
				Address:  e.Place.Address,
				Lat:      e.Place.Lat,
				Lng:      e.Place.Lng,
				Category: string(e.Place.Category),
			},
			Date:      e.Date,
			StartHour: e.StartHour,
			EndHour:   e.EndHour,
			DayIndex:  e.DayIndex,
			TimeIndex: e.TimeIndex,
		}
	}
	return out
}
