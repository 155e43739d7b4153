package itineraryrepo

import (
	"context"
	"fmt"
	"sync"

	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
)

// MemoryRepository is an in-memory itinerary.Repository used for tests/dev.
type MemoryRepository struct {
	mu          sync.RWMutex
	itineraries map[string]itinerary.Itinerary
	places      map[string][]itinerary.PlaceVisit
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		itineraries: make(map[string]itinerary.Itinerary),
		places:      make(map[string][]itinerary.PlaceVisit),
	}
}

// Create implements itinerary.Repository.
func (r *MemoryRepository) Create(_ context.Context, it itinerary.Itinerary) (itinerary.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.itineraries[it.ID]; exists {
		return itinerary.Itinerary{}, fmt.Errorf("itinerary %s already exists", it.ID)
	}
	r.itineraries[it.ID] = it
	return it, nil
}

// Get implements itinerary.Repository.
func (r *MemoryRepository) Get(_ context.Context, id string) (itinerary.Itinerary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.itineraries[id]
	return it, ok, nil
}

// AddPlaces implements itinerary.Repository.
func (r *MemoryRepository) AddPlaces(_ context.Context, itineraryID string, rows []itinerary.PlaceVisit) ([]itinerary.PlaceVisit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.itineraries[itineraryID]; !ok {
		return nil, itinerary.ErrNotFound
	}
	stored := make([]itinerary.PlaceVisit, len(rows))
	for i, row := range rows {
		row.ItineraryID = itineraryID
		stored[i] = row
	}
	r.places[itineraryID] = append(r.places[itineraryID], stored...)
	return append([]itinerary.PlaceVisit(nil), stored...), nil
}

// ListPlaces implements itinerary.Repository.
func (r *MemoryRepository) ListPlaces(_ context.Context, itineraryID string) ([]itinerary.PlaceVisit, error) {
	r.mu.RLock()
	rows := append([]itinerary.PlaceVisit(nil), r.places[itineraryID]...)
	r.mu.RUnlock()
	itinerary.SortVisits(rows)
	return rows, nil
}

var _ itinerary.Repository = (*MemoryRepository)(nil)
