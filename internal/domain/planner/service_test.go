package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/itinerary-planner/internal/domain/calendar"
	"github.com/yanqian/itinerary-planner/internal/domain/place"
	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

func newTestService(ttl time.Duration, clock *time.Time) Service {
	svc := NewService(Config{SessionTTL: ttl, Location: time.UTC}, NewController(&stubBackend{}, discardLogger()), discardLogger())
	svc.(*service).now = func() time.Time { return *clock }
	return svc
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	clock := testNow
	svc := newTestService(time.Hour, &clock)
	alice := Identity{UserID: 1}

	view, err := svc.CreateSession(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), view.Anchor)
	require.Equal(t, "idle", view.State)

	event, err := svc.Drop(ctx, alice, view.ID, DropRequest{
		Transfer: map[string]string{place.MIMEStructured: `{"id":"p1","name":"Cafe X","category":"restaurants"}`},
		DayIndex: 2,
		Hour:     9,
	})
	require.NoError(t, err)
	require.Equal(t, 2, event.DayIndex)
	require.Equal(t, 10, event.EndHour)

	shifted, err := svc.Shift(ctx, alice, view.ID, calendar.Forward)
	require.NoError(t, err)
	require.Equal(t, view.Anchor.AddDate(0, 0, 7), shifted.Anchor)
	require.Equal(t, 1, shifted.EventCount)

	grid, err := svc.Grid(ctx, alice, view.ID)
	require.NoError(t, err)
	require.Empty(t, grid.Blocks)

	removed, err := svc.Remove(ctx, alice, view.ID, event.ID)
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = svc.Remove(ctx, alice, view.ID, event.ID)
	require.NoError(t, err)
	require.False(t, removed)

	require.NoError(t, svc.CloseSession(ctx, alice, view.ID))
	_, err = svc.GetSession(ctx, alice, view.ID)
	require.True(t, apperrors.IsCode(err, CodeSessionNotFound))
}

func TestSessionsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	clock := testNow
	svc := newTestService(time.Hour, &clock)

	view, err := svc.CreateSession(ctx, Identity{UserID: 1})
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, Identity{UserID: 2}, view.ID)
	require.True(t, apperrors.IsCode(err, CodeSessionNotFound))

	_, err = svc.CreateSession(ctx, Identity{})
	require.True(t, apperrors.IsCode(err, CodeUnauthenticated))
}

func TestSessionsExpire(t *testing.T) {
	ctx := context.Background()
	clock := testNow
	svc := newTestService(time.Minute, &clock)
	alice := Identity{UserID: 1}

	view, err := svc.CreateSession(ctx, alice)
	require.NoError(t, err)

	clock = clock.Add(30 * time.Second)
	_, err = svc.GetSession(ctx, alice, view.ID)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, err = svc.GetSession(ctx, alice, view.ID)
	require.True(t, apperrors.IsCode(err, CodeSessionNotFound))
}

func TestDropMalformedLeavesStoreEmpty(t *testing.T) {
	ctx := context.Background()
	clock := testNow
	svc := newTestService(0, &clock)
	alice := Identity{UserID: 1}
	view, _ := svc.CreateSession(ctx, alice)

	_, err := svc.Drop(ctx, alice, view.ID, DropRequest{Transfer: map[string]string{place.MIMEText: "unknown-id"}, DayIndex: 0, Hour: 9})
	require.ErrorIs(t, err, place.ErrMalformedDropPayload)

	events, err := svc.Events(ctx, alice, view.ID)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestDropResolvesIdentifierAgainstCandidates(t *testing.T) {
	ctx := context.Background()
	clock := testNow
	svc := newTestService(0, &clock)
	alice := Identity{UserID: 1}
	view, _ := svc.CreateSession(ctx, alice)

	rating := 4.8
	ranked, err := svc.SetCandidates(ctx, alice, view.ID, CandidatesRequest{
		Category: place.CategoryParks,
		Places: []place.Place{
			{ID: "park-1", Name: "Central", Types: []string{"park"}, Rating: &rating},
			{ID: "cafe-1", Name: "Cafe", Types: []string{"cafe"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, ranked.Places, 1)
	require.Equal(t, []string{"park", "campground", "natural_feature", "points_of_interest"}, ranked.ProviderTypes)

	event, err := svc.Drop(ctx, alice, view.ID, DropRequest{Transfer: map[string]string{place.MIMEText: "park-1"}, DayIndex: 4, Hour: 23})
	require.NoError(t, err)
	require.Equal(t, "Central", event.Place.Name)
	require.Equal(t, place.CategoryParks, event.Place.Category)

	_, err = svc.SetCandidates(ctx, alice, view.ID, CandidatesRequest{Category: "beaches"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestSlotListsEventsCoveringCell(t *testing.T) {
	ctx := context.Background()
	clock := testNow
	svc := newTestService(0, &clock)
	alice := Identity{UserID: 1}
	view, _ := svc.CreateSession(ctx, alice)

	first, err := svc.Drop(ctx, alice, view.ID, DropRequest{Transfer: map[string]string{place.MIMEStructured: `{"id":"p1","name":"Cafe X","category":"restaurants"}`}, DayIndex: 2, Hour: 9})
	require.NoError(t, err)
	second, err := svc.Drop(ctx, alice, view.ID, DropRequest{Transfer: map[string]string{place.MIMEStructured: `{"id":"p2","name":"Museum"}`}, DayIndex: 2, Hour: 9})
	require.NoError(t, err)

	events, err := svc.Slot(ctx, alice, view.ID, 2, 9)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, first.ID, events[0].ID)
	require.Equal(t, second.ID, events[1].ID)

	events, err = svc.Slot(ctx, alice, view.ID, 2, 10)
	require.NoError(t, err)
	require.NotNil(t, events)
	require.Empty(t, events)

	_, err = svc.Slot(ctx, alice, view.ID, 5, 9)
	require.True(t, apperrors.IsCode(err, calendar.CodeInvalidSlot))
	_, err = svc.Slot(ctx, alice, view.ID, 0, 24)
	require.ErrorIs(t, err, calendar.ErrInvalidHour)

	_, err = svc.Slot(ctx, Identity{UserID: 2}, view.ID, 2, 9)
	require.True(t, apperrors.IsCode(err, CodeSessionNotFound))
}
