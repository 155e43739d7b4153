package itinerary

import "time"

// Config drives itinerary persistence behavior.
type Config struct {
	DefaultDescription string
	PopularLimit       int
	SharePrefix        string
	ProductID          string
	Location           *time.Location
}

// DefaultDescription is stored when the caller leaves the description blank.
const DefaultDescription = "No description"

// Itinerary is the persisted header of a saved schedule.
type Itinerary struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OriginLat   *float64  `json:"origin_lat,omitempty"`
	OriginLng   *float64  `json:"origin_lng,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Views       int64     `json:"views"`
}

// PlaceVisit is one persisted row of an itinerary. Times are "HH:00:00",
// dates "YYYY-MM-DD".
type PlaceVisit struct {
	ID          string  `json:"id"`
	ItineraryID string  `json:"itinerary_id"`
	PlaceID     string  `json:"place_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Category    string  `json:"category"`
	OrderIndex  int     `json:"order_index"`
	VisitDate   string  `json:"visit_date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
}

// Detail is an itinerary with its rows.
type Detail struct {
	Itinerary
	Places []PlaceVisit `json:"places"`
}

// CreateRequest is the body of an itinerary create call.
type CreateRequest struct {
	UserID      int64    `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	OriginLat   *float64 `json:"origin_lat,omitempty"`
	OriginLng   *float64 `json:"origin_lng,omitempty"`
}

// EventPlace is the denormalized place carried by a submitted event.
type EventPlace struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Category string  `json:"category"`
}

// EventInput is one scheduled event as submitted for persistence.
type EventInput struct {
	PlaceID   string     `json:"placeId"`
	Place     EventPlace `json:"place"`
	Date      time.Time  `json:"date"`
	StartHour int        `json:"startHour"`
	EndHour   int        `json:"endHour"`
	DayIndex  int        `json:"dayIndex"`
	TimeIndex int        `json:"timeIndex"`
}

// AddPlacesRequest wraps submitted events.
type AddPlacesRequest struct {
	Events []EventInput `json:"events"`
}

// Popularity is the view count of one itinerary.
type Popularity struct {
	ItineraryID string
	Views       int64
}

// SharedCalendar describes an exported calendar stored for sharing.
type SharedCalendar struct {
	ItineraryID string `json:"itinerary_id"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ETag        string `json:"etag,omitempty"`
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}
