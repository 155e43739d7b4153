package itinerary

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of visit dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidEvent reports a submitted event that cannot become a row.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrInvalidTime reports a malformed stored time.
	ErrInvalidTime = errors.New("invalid time")
	// ErrInvalidDate reports a malformed stored date.
	ErrInvalidDate = errors.New("invalid date")
)

// FormatHour renders an hour as "HH:00:00".
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00:00", hour)
}

// ParseHour reads the hour component of "HH:MM[:SS]".
func ParseHour(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	head, _, found := strings.Cut(raw, ":")
	if !found || head == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	hour, err := strconv.Atoi(head)
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return hour, nil
}

// ParseVisitDate reads a "YYYY-MM-DD" date, or the date part of an RFC 3339
// timestamp, as midnight in loc.
func ParseVisitDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	if len(raw) > len(DateLayout) && raw[len(DateLayout)] == 'T' {
		if _, err := time.Parse(time.RFC3339, raw); err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		raw = raw[:len(DateLayout)]
	}
	date, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return date, nil
}

// ToVisit translates a submitted event into a row of itineraryID.
func ToVisit(itineraryID string, e EventInput) (PlaceVisit, error) {
	if strings.TrimSpace(e.PlaceID) == "" {
		return PlaceVisit{}, fmt.Errorf("%w: placeId is required", ErrInvalidEvent)
	}
	if e.Date.IsZero() {
		return PlaceVisit{}, fmt.Errorf("%w: date is required", ErrInvalidEvent)
	}
	if e.StartHour < 0 || e.EndHour > 24 || e.EndHour <= e.StartHour {
		return PlaceVisit{}, fmt.Errorf("%w: hours %d-%d", ErrInvalidEvent, e.StartHour, e.EndHour)
	}
	return PlaceVisit{
		ItineraryID: itineraryID,
		PlaceID:     e.PlaceID,
		Name:        e.Place.Name,
		Address:     e.Place.Address,
		Lat:         e.Place.Lat,
		Lng:         e.Place.Lng,
		Category:    e.Place.Category,
		OrderIndex:  e.TimeIndex,
		VisitDate:   e.Date.Format(DateLayout),
		StartTime:   FormatHour(e.StartHour),
		EndTime:     FormatHour(e.EndHour),
	}, nil
}

// SortVisits orders rows by visit date then order index.
func SortVisits(rows []PlaceVisit) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].VisitDate != rows[j].VisitDate {
			return rows[i].VisitDate < rows[j].VisitDate
		}
		return rows[i].OrderIndex < rows[j].OrderIndex
	})
}
