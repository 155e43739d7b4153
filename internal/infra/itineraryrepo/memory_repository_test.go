package itineraryrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
)

func TestMemoryRepositoryListsPlacesInVisitOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.Create(ctx, itinerary.Itinerary{ID: "it-1", UserID: 7, Title: "Trip"})
	require.NoError(t, err)

	_, err = repo.AddPlaces(ctx, "it-1", []itinerary.PlaceVisit{
		{ID: "r1", PlaceID: "a", VisitDate: "2025-03-05", OrderIndex: 9},
		{ID: "r2", PlaceID: "b", VisitDate: "2025-03-04", OrderIndex: 15},
		{ID: "r3", PlaceID: "c", VisitDate: "2025-03-05", OrderIndex: 8},
	})
	require.NoError(t, err)

	rows, err := repo.ListPlaces(ctx, "it-1")
	require.NoError(t, err)
	require.Equal(t, []string{"r2", "r3", "r1"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
	require.Equal(t, "it-1", rows[0].ItineraryID)
}

func TestMemoryRepositoryRejectsUnknownItinerary(t *testing.T) {
	repo := NewMemoryRepository()
	_, err := repo.AddPlaces(context.Background(), "missing", []itinerary.PlaceVisit{{ID: "r1"}})
	require.ErrorIs(t, err, itinerary.ErrNotFound)

	_, found, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, found)
}
