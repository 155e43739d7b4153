package itinerary

import (
	"context"
	"io"
)

// Repository persists itineraries and their rows.
type Repository interface {
	Create(ctx context.Context, it Itinerary) (Itinerary, error)
	Get(ctx context.Context, id string) (Itinerary, bool, error)
	// AddPlaces stores rows as one unit; either all rows persist or none.
	AddPlaces(ctx context.Context, itineraryID string, rows []PlaceVisit) ([]PlaceVisit, error)
	// ListPlaces returns rows ordered by visit date then order index.
	ListPlaces(ctx context.Context, itineraryID string) ([]PlaceVisit, error)
}

// PopularityStore counts itinerary views.
type PopularityStore interface {
	Increment(ctx context.Context, itineraryID string) (int64, error)
	Top(ctx context.Context, limit int) ([]Popularity, error)
}

// ObjectStorage abstracts blob storage for shared calendars.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
