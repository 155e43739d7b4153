package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/itinerary-planner/internal/domain/calendar"
	"github.com/yanqian/itinerary-planner/internal/domain/place"
	"github.com/yanqian/itinerary-planner/internal/domain/planner"
	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

type shiftRequest struct {
	Direction string `json:"direction"`
}

type loadRequest struct {
	ItineraryID string `json:"itineraryId"`
}

// CreateSession opens a planning session on the current week.
func (h *Handler) CreateSession(c *gin.Context) {
	view, err := h.plannerSvc.CreateSession(c.Request.Context(), identityOf(c))
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) GetSession(c *gin.Context) {
	view, err := h.plannerSvc.GetSession(c.Request.Context(), identityOf(c), c.Param("sessionId"))
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) CloseSession(c *gin.Context) {
	if err := h.plannerSvc.CloseSession(c.Request.Context(), identityOf(c), c.Param("sessionId")); err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// SetCandidates replaces the explore list used to resolve dropped ids.
func (h *Handler) SetCandidates(c *gin.Context) {
	var req planner.CandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	set, err := h.plannerSvc.SetCandidates(c.Request.Context(), identityOf(c), c.Param("sessionId"), req)
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusOK, set)
}

// DropPlace schedules a dragged place on a visible slot.
func (h *Handler) DropPlace(c *gin.Context) {
	var req planner.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	event, err := h.plannerSvc.Drop(c.Request.Context(), identityOf(c), c.Param("sessionId"), req)
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.plannerSvc.Events(c.Request.Context(), identityOf(c), c.Param("sessionId"))
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// SlotEvents lists the events covering one cell, the targets of a remove.
func (h *Handler) SlotEvents(c *gin.Context) {
	day, errDay := strconv.Atoi(c.Query("day"))
	hour, errHour := strconv.Atoi(c.Query("hour"))
	if errDay != nil || errHour != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "day and hour must be integers", errors.Join(errDay, errHour)))
		return
	}
	events, err := h.plannerSvc.Slot(c.Request.Context(), identityOf(c), c.Param("sessionId"), day, hour)
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"dayIndex": day, "hour": hour, "events": events})
}

// RemoveEvent deletes a scheduled event. Unknown ids are not an error.
func (h *Handler) RemoveEvent(c *gin.Context) {
	removed, err := h.plannerSvc.Remove(c.Request.Context(), identityOf(c), c.Param("sessionId"), c.Param("eventId"))
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ShiftWeek moves the visible window one week.
func (h *Handler) ShiftWeek(c *gin.Context) {
	var req shiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	direction, ok := calendar.ParseDirection(req.Direction)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "direction must be forward or backward", nil))
		return
	}
	view, err := h.plannerSvc.Shift(c.Request.Context(), identityOf(c), c.Param("sessionId"), direction)
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

// Grid returns the rendered week.
func (h *Handler) Grid(c *gin.Context) {
	grid, err := h.plannerSvc.Grid(c.Request.Context(), identityOf(c), c.Param("sessionId"))
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusOK, grid)
}

// SaveSession persists the session as a new itinerary.
func (h *Handler) SaveSession(c *gin.Context) {
	var form planner.SaveForm
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	result, err := h.plannerSvc.Save(c.Request.Context(), identityOf(c), c.Param("sessionId"), form)
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	h.logger.Info("itinerary saved", "itineraryId", result.ItineraryID, "places", result.PlaceCount)
	c.JSON(http.StatusCreated, result)
}

// LoadItinerary replaces the session events with a saved itinerary.
func (h *Handler) LoadItinerary(c *gin.Context) {
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ItineraryID == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "itineraryId is required", err))
		return
	}
	result, err := h.plannerSvc.Load(c.Request.Context(), identityOf(c), c.Param("sessionId"), req.ItineraryID)
	if err != nil {
		abortWithError(c, plannerError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

func plannerError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case planner.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case planner.CodeSessionNotFound:
		status = http.StatusNotFound
	case planner.CodeMissingTitle, place.CodeMalformedDropPayload, calendar.CodeInvalidSlot:
		status = http.StatusBadRequest
	case planner.CodeNothingToSave:
		status = http.StatusUnprocessableEntity
	case planner.CodeSaveInProgress:
		status = http.StatusConflict
	case planner.CodeRemoteCreateFailed, planner.CodeRemotePersistFailed, planner.CodeLoadFailed:
		status = http.StatusBadGateway
	default:
		code = "planner_failed"
	}
	httpErr := NewHTTPError(status, code, messageOf(err), err).
		withDetail("severity", string(planner.SeverityOf(err)))
	if field := planner.FieldOf(err); field != "" {
		httpErr.withDetail("field", field)
	}
	var persistErr *planner.PersistError
	if errors.As(err, &persistErr) {
		httpErr.withDetail("itineraryId", persistErr.ItineraryID)
	}
	return httpErr
}
