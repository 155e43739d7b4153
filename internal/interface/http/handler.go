package http

import (
	"log/slog"

	"github.com/yanqian/itinerary-planner/internal/domain/auth"
	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
	"github.com/yanqian/itinerary-planner/internal/domain/planner"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	itinerarySvc itinerary.Service
	plannerSvc   planner.Service
	authSvc      auth.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(itinerarySvc itinerary.Service, plannerSvc planner.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		itinerarySvc: itinerarySvc,
		plannerSvc:   plannerSvc,
		authSvc:      authSvc,
		logger:       logger.With("component", "http.handler"),
	}
}
