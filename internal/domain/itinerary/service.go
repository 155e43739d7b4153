package itinerary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
	"github.com/yanqian/itinerary-planner/pkg/util"
)

// ICSMimeType is the content type of exported calendars.
const ICSMimeType = "text/calendar; charset=utf-8"

const defaultPopularLimit = 10

// Service exposes itinerary persistence.
type Service interface {
	CreateItinerary(ctx context.Context, req CreateRequest) (Itinerary, error)
	AddPlaces(ctx context.Context, itineraryID string, events []EventInput) ([]PlaceVisit, error)
	GetItinerary(ctx context.Context, itineraryID string) (Detail, error)
	Popular(ctx context.Context, limit int) ([]Itinerary, error)
	ExportICS(ctx context.Context, itineraryID string) (string, error)
	Share(ctx context.Context, itineraryID string) (SharedCalendar, error)
	OpenShared(ctx context.Context, itineraryID string) (io.ReadCloser, error)
}

type service struct {
	cfg        Config
	repo       Repository
	popularity PopularityStore
	storage    ObjectStorage
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the itinerary domain.
func NewService(cfg Config, repo Repository, popularity PopularityStore, storage ObjectStorage, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.DefaultDescription) == "" {
		cfg.DefaultDescription = DefaultDescription
	}
	if cfg.PopularLimit <= 0 {
		cfg.PopularLimit = defaultPopularLimit
	}
	if cfg.SharePrefix == "" {
		cfg.SharePrefix = "shared"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &service{
		cfg:        cfg,
		repo:       repo,
		popularity: popularity,
		storage:    storage,
		logger:     logger.With("component", "itinerary.service"),
		now:        util.NowUTC,
	}
}

func (s *service) CreateItinerary(ctx context.Context, req CreateRequest) (Itinerary, error) {
	if req.UserID <= 0 {
		return Itinerary{}, apperrors.Wrap("invalid_input", "user_id is required", nil)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Itinerary{}, apperrors.Wrap("invalid_input", "title is required", nil)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = s.cfg.DefaultDescription
	}
	if (req.OriginLat == nil) != (req.OriginLng == nil) {
		return Itinerary{}, apperrors.Wrap("invalid_input", "origin requires both lat and lng", nil)
	}

	created, err := s.repo.Create(ctx, Itinerary{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Title:       title,
		Description: description,
		OriginLat:   req.OriginLat,
		OriginLng:   req.OriginLng,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return Itinerary{}, apperrors.Wrap("itinerary_error", "failed to create itinerary", err)
	}
	s.logger.Info("itinerary created", "itineraryId", created.ID, "userId", created.UserID)
	return created, nil
}

func (s *service) AddPlaces(ctx context.Context, itineraryID string, events []EventInput) ([]PlaceVisit, error) {
	if _, err := s.mustGet(ctx, itineraryID); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, apperrors.Wrap("invalid_input", "events cannot be empty", nil)
	}
	rows := make([]PlaceVisit, 0, len(events))
	for i, event := range events {
		row, err := ToVisit(itineraryID, event)
		if err != nil {
			return nil, apperrors.Wrap("invalid_input", fmt.Sprintf("event %d: %v", i, err), err)
		}
		row.ID = uuid.NewString()
		rows = append(rows, row)
	}
	stored, err := s.repo.AddPlaces(ctx, itineraryID, rows)
	if err != nil {
		return nil, apperrors.Wrap("itinerary_error", "failed to store places", err)
	}
	s.logger.Info("itinerary places stored", "itineraryId", itineraryID, "count", len(stored))
	return stored, nil
}

func (s *service) GetItinerary(ctx context.Context, itineraryID string) (Detail, error) {
	detail, err := s.detail(ctx, itineraryID)
	if err != nil {
		return Detail{}, err
	}
	if s.popularity != nil {
		views, err := s.popularity.Increment(ctx, itineraryID)
		if err != nil {
			s.logger.Warn("view counter update failed", "itineraryId", itineraryID, "error", err)
		} else {
			detail.Views = views
		}
	}
	return detail, nil
}

func (s *service) Popular(ctx context.Context, limit int) ([]Itinerary, error) {
	if limit <= 0 {
		limit = s.cfg.PopularLimit
	}
	if s.popularity == nil {
		return []Itinerary{}, nil
	}
	ranked, err := s.popularity.Top(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("itinerary_error", "failed to rank itineraries", err)
	}
	out := make([]Itinerary, 0, len(ranked))
	for _, entry := range ranked {
		it, found, err := s.repo.Get(ctx, entry.ItineraryID)
		if err != nil {
			return nil, apperrors.Wrap("itinerary_error", "failed to load itinerary", err)
		}
		if !found {
			continue
		}
		it.Views = entry.Views
		out = append(out, it)
	}
	return out, nil
}

func (s *service) ExportICS(ctx context.Context, itineraryID string) (string, error) {
	detail, err := s.detail(ctx, itineraryID)
	if err != nil {
		return "", err
	}
	doc, err := ExportICS(detail, s.cfg.Location, s.cfg.ProductID, s.now())
	if err != nil {
		return "", apperrors.Wrap("itinerary_error", "failed to export calendar", err)
	}
	return doc, nil
}

func (s *service) Share(ctx context.Context, itineraryID string) (SharedCalendar, error) {
	if s.storage == nil {
		return SharedCalendar{}, apperrors.Wrap("share_unavailable", "sharing is not configured", nil)
	}
	doc, err := s.ExportICS(ctx, itineraryID)
	if err != nil {
		return SharedCalendar{}, err
	}
	obj, err := s.storage.Put(ctx, s.shareKey(itineraryID), []byte(doc), ICSMimeType)
	if err != nil {
		return SharedCalendar{}, apperrors.Wrap("itinerary_error", "failed to store shared calendar", err)
	}
	s.logger.Info("itinerary shared", "itineraryId", itineraryID, "key", obj.Key, "size", obj.Size)
	return SharedCalendar{ItineraryID: itineraryID, Key: obj.Key, Size: obj.Size, ETag: obj.ETag}, nil
}

func (s *service) OpenShared(ctx context.Context, itineraryID string) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, apperrors.Wrap("share_unavailable", "sharing is not configured", nil)
	}
	if _, err := s.mustGet(ctx, itineraryID); err != nil {
		return nil, err
	}
	reader, err := s.storage.Get(ctx, s.shareKey(itineraryID))
	if err != nil {
		return nil, apperrors.Wrap("not_found", "itinerary has not been shared", err)
	}
	return reader, nil
}

func (s *service) detail(ctx context.Context, itineraryID string) (Detail, error) {
	it, err := s.mustGet(ctx, itineraryID)
	if err != nil {
		return Detail{}, err
	}
	rows, err := s.repo.ListPlaces(ctx, itineraryID)
	if err != nil {
		return Detail{}, apperrors.Wrap("itinerary_error", "failed to load places", err)
	}
	if rows == nil {
		rows = []PlaceVisit{}
	}
	SortVisits(rows)
	return Detail{Itinerary: it, Places: rows}, nil
}

func (s *service) mustGet(ctx context.Context, itineraryID string) (Itinerary, error) {
	if strings.TrimSpace(itineraryID) == "" {
		return Itinerary{}, apperrors.Wrap("invalid_input", "itinerary id is required", nil)
	}
	it, found, err := s.repo.Get(ctx, itineraryID)
	if err != nil {
		return Itinerary{}, apperrors.Wrap("itinerary_error", "failed to load itinerary", err)
	}
	if !found {
		return Itinerary{}, apperrors.Wrap("not_found", "itinerary not found", ErrNotFound)
	}
	return it, nil
}

func (s *service) shareKey(itineraryID string) string {
	return fmt.Sprintf("%s/%s.ics", s.cfg.SharePrefix, itineraryID)
}

// ErrNotFound reports an unknown itinerary id.
var ErrNotFound = errors.New("itinerary not found")
