package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

// CreateItinerary stores an itinerary header.
func (h *Handler) CreateItinerary(c *gin.Context) {
	var req itinerary.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, newFlatError(http.StatusBadRequest, "invalid request body", err))
		return
	}
	created, err := h.itinerarySvc.CreateItinerary(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, itineraryError(err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// AddPlaces stores the scheduled events of an itinerary as rows.
func (h *Handler) AddPlaces(c *gin.Context) {
	var req itinerary.AddPlacesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, newFlatError(http.StatusBadRequest, "invalid request body", err))
		return
	}
	rows, err := h.itinerarySvc.AddPlaces(c.Request.Context(), c.Param("id"), req.Events)
	if err != nil {
		abortWithError(c, itineraryError(err))
		return
	}
	c.JSON(http.StatusCreated, rows)
}

// GetItinerary returns an itinerary with its rows and counts the view.
func (h *Handler) GetItinerary(c *gin.Context) {
	detail, err := h.itinerarySvc.GetItinerary(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, itineraryError(err))
		return
	}
	c.JSON(http.StatusOK, detail)
}

// PopularItineraries ranks itineraries by views.
func (h *Handler) PopularItineraries(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, newFlatError(http.StatusBadRequest, "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}
	items, err := h.itinerarySvc.Popular(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, itineraryError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": items})
}

// ExportCalendar renders the itinerary as an iCalendar download.
func (h *Handler) ExportCalendar(c *gin.Context) {
	id := c.Param("id")
	ics, err := h.itinerarySvc.ExportICS(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, itineraryError(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+id+`.ics"`)
	c.Data(http.StatusOK, itinerary.ICSMimeType, []byte(ics))
}

// ShareItinerary publishes the calendar to object storage.
func (h *Handler) ShareItinerary(c *gin.Context) {
	shared, err := h.itinerarySvc.Share(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, itineraryError(err))
		return
	}
	c.JSON(http.StatusCreated, shared)
}

// OpenSharedCalendar streams a previously shared calendar.
func (h *Handler) OpenSharedCalendar(c *gin.Context) {
	body, err := h.itinerarySvc.OpenShared(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, itineraryError(err))
		return
	}
	defer body.Close()
	c.Header("Content-Type", itinerary.ICSMimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.logger.Warn("stream shared calendar failed", "itineraryId", c.Param("id"), "error", err)
	}
}

func itineraryError(err error) *HTTPError {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
	case apperrors.IsCode(err, "not_found"):
		status = http.StatusNotFound
	case apperrors.IsCode(err, "share_unavailable"):
		status = http.StatusServiceUnavailable
	}
	return newFlatError(status, messageOf(err), err)
}
