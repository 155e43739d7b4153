package popularity

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
)

// MemoryStore counts views in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	views map[string]int64
}

// NewMemoryStore constructs an empty counter set.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{views: make(map[string]int64)}
}

// Increment bumps the view counter of an itinerary.
func (s *MemoryStore) Increment(_ context.Context, itineraryID string) (int64, error) {
	if itineraryID == "" {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[itineraryID]++
	return s.views[itineraryID], nil
}

// Top returns the most viewed itineraries, ties broken by id.
func (s *MemoryStore) Top(_ context.Context, limit int) ([]itinerary.Popularity, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	out := make([]itinerary.Popularity, 0, len(s.views))
	for id, views := range s.views {
		out = append(out, itinerary.Popularity{ItineraryID: id, Views: views})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Views == out[j].Views {
			return out[i].ItineraryID > out[j].ItineraryID
		}
		return out[i].Views > out[j].Views
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ itinerary.PopularityStore = (*MemoryStore)(nil)
