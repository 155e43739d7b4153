package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/itinerary-planner/internal/domain/auth"
	"github.com/yanqian/itinerary-planner/internal/domain/calendar"
	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
	"github.com/yanqian/itinerary-planner/internal/domain/place"
	"github.com/yanqian/itinerary-planner/internal/domain/planner"
	"github.com/yanqian/itinerary-planner/internal/infra/config"
	"github.com/yanqian/itinerary-planner/internal/infra/itineraryapi"
	"github.com/yanqian/itinerary-planner/internal/infra/itineraryrepo"
	"github.com/yanqian/itinerary-planner/internal/infra/popularity"
	"github.com/yanqian/itinerary-planner/internal/infra/sharestore"
	"github.com/yanqian/itinerary-planner/internal/infra/userrepo"
)

func TestRouter_CreateItineraryFlatError(t *testing.T) {
	server := newRouterUnderTest(t, nil)

	rec := performRequest(server, http.MethodPost, "/api/itineraries", `{"user_id":1,"title":"  "}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "title is required", body["error"])

	rec = performRequest(server, http.MethodGet, "/api/itineraries/missing", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ItineraryEndpoints(t *testing.T) {
	server := newRouterUnderTest(t, nil)

	rec := performRequest(server, http.MethodPost, "/api/itineraries", `{"user_id":1,"title":"Weekend"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created itinerary.Itinerary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, itinerary.DefaultDescription, created.Description)

	events := `{"events":[{"placeId":"p1","place":{"name":"Cafe X","category":"restaurants"},"date":"2025-03-05T00:00:00Z","startHour":14,"endHour":15,"dayIndex":2,"timeIndex":14}]}`
	rec = performRequest(server, http.MethodPost, "/api/itineraries/"+created.ID+"/places", events, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var rows []itinerary.PlaceVisit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "2025-03-05", rows[0].VisitDate)
	require.Equal(t, "14:00:00", rows[0].StartTime)
	require.Equal(t, "15:00:00", rows[0].EndTime)
	require.Equal(t, 14, rows[0].OrderIndex)

	rec = performRequest(server, http.MethodGet, "/api/itineraries/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail itinerary.Detail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Len(t, detail.Places, 1)

	rec = performRequest(server, http.MethodGet, "/api/itineraries/popular", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var popular struct {
		Itineraries []itinerary.Itinerary `json:"itineraries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &popular))
	require.Len(t, popular.Itineraries, 1)
	require.Equal(t, int64(1), popular.Itineraries[0].Views)

	rec = performRequest(server, http.MethodGet, "/api/itineraries/"+created.ID+"/calendar.ics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, itinerary.ICSMimeType, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "SUMMARY:Cafe X")

	rec = performRequest(server, http.MethodPost, "/api/itineraries/"+created.ID+"/share", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = performRequest(server, http.MethodGet, "/api/itineraries/"+created.ID+"/share", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}

func TestRouter_PlannerRequiresToken(t *testing.T) {
	server := newRouterUnderTest(t, nil)

	rec := performRequest(server, http.MethodPost, "/api/v1/planner/sessions", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "unauthenticated", errBody["error"]["code"])

	rec = performRequest(server, http.MethodPost, "/api/v1/planner/sessions", "", "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PlannerSaveValidation(t *testing.T) {
	server := newRouterUnderTest(t, nil)
	token := signIn(t, server)
	session := createSession(t, server, token)

	rec := performRequest(server, http.MethodPost, "/api/v1/planner/sessions/"+session.ID+"/save", `{"title":"Trip"}`, token)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, planner.CodeNothingToSave, errBody["error"]["code"])
	require.Equal(t, "warn", errBody["error"]["severity"])

	drop := `{"transfer":{"application/json":"{\"id\":\"p1\",\"name\":\"Cafe X\"}"},"dayIndex":0,"hour":9}`
	rec = performRequest(server, http.MethodPost, "/api/v1/planner/sessions/"+session.ID+"/events", drop, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/planner/sessions/"+session.ID+"/save", `{"title":"   "}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody = decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, planner.CodeMissingTitle, errBody["error"]["code"])
	require.Equal(t, "title", errBody["error"]["field"])

	malformed := `{"transfer":{"text/plain":"unknown"},"dayIndex":0,"hour":9}`
	rec = performRequest(server, http.MethodPost, "/api/v1/planner/sessions/"+session.ID+"/events", malformed, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody = decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, place.CodeMalformedDropPayload, errBody["error"]["code"])
}

func TestRouter_SlotEventsAndCandidates(t *testing.T) {
	server := newRouterUnderTest(t, nil)
	token := signIn(t, server)
	session := createSession(t, server, token)
	base := "/api/v1/planner/sessions/" + session.ID

	rec := performRequest(server, http.MethodPut, base+"/candidates", `{"category":"shopping","places":[{"id":"s1","name":"Mall","types":["shopping_mall"]}]}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var set planner.CandidateSet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	require.Equal(t, []string{"shopping_mall", "store", "clothing_store", "electronics_store"}, set.ProviderTypes)
	require.Len(t, set.Places, 1)

	drop := `{"transfer":{"text/plain":"s1"},"dayIndex":3,"hour":15}`
	rec = performRequest(server, http.MethodPost, base+"/events", drop, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = performRequest(server, http.MethodGet, base+"/slots?day=3&hour=15", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var slot struct {
		Events []calendar.ScheduledEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slot))
	require.Len(t, slot.Events, 1)
	require.Equal(t, "s1", slot.Events[0].PlaceID)

	rec = performRequest(server, http.MethodGet, base+"/slots?day=3&hour=16", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"dayIndex":3,"hour":16,"events":[]}`, rec.Body.String())

	rec = performRequest(server, http.MethodGet, base+"/slots?day=6&hour=15", "", token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, calendar.CodeInvalidSlot, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(server, http.MethodGet, base+"/slots?day=x", "", token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

// Saving through the REST client and loading into a fresh session yields
// the same events.
func TestRouter_SaveLoadRoundTripOverHTTP(t *testing.T) {
	backend := httptest.NewServer(newRouterUnderTest(t, nil).Handler)
	defer backend.Close()

	server := newRouterUnderTest(t, itineraryapi.NewClient(backend.URL, time.Second))
	token := signIn(t, server)
	first := createSession(t, server, token)

	drops := []string{
		`{"transfer":{"application/json":"{\"id\":\"p1\",\"name\":\"Cafe X\",\"category\":\"restaurants\"}"},"dayIndex":2,"hour":9}`,
		`{"transfer":{"text/plain":"{\"id\":\"p2\",\"name\":\"Museum\",\"types\":[\"museum\"]}"},"dayIndex":4,"hour":23}`,
	}
	for _, drop := range drops {
		rec := performRequest(server, http.MethodPost, "/api/v1/planner/sessions/"+first.ID+"/events", drop, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	before := listEvents(t, server, token, first.ID)

	rec := performRequest(server, http.MethodPost, "/api/v1/planner/sessions/"+first.ID+"/save", `{"title":"Trip"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved planner.SaveResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.Equal(t, 2, saved.PlaceCount)

	second := createSession(t, server, token)
	rec = performRequest(server, http.MethodPost, "/api/v1/planner/sessions/"+second.ID+"/load", `{"itineraryId":"`+saved.ItineraryID+`"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	after := listEvents(t, server, token, second.ID)

	require.Len(t, after, len(before))
	for i := range before {
		require.Equal(t, before[i].PlaceID, after[i].PlaceID)
		require.True(t, before[i].Date.Equal(after[i].Date))
		require.Equal(t, before[i].StartHour, after[i].StartHour)
		require.Equal(t, before[i].EndHour, after[i].EndHour)
		require.Equal(t, before[i].DayIndex, after[i].DayIndex)
		require.Equal(t, before[i].TimeIndex, after[i].TimeIndex)
		require.Equal(t, before[i].Place.Name, after[i].Place.Name)
	}
}

func TestRetryExclusionPatterns(t *testing.T) {
	patterns := [][]string{splitPath("/api/itineraries/:id/calendar.ics")}
	require.True(t, excluded(patterns, "/api/itineraries/abc/calendar.ics"))
	require.False(t, excluded(patterns, "/api/itineraries/abc"))
	require.False(t, excluded(patterns, "/api/itineraries/abc/share"))
}

func performRequest(server *http.Server, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

// newRouterUnderTest builds the full stack on memory adapters. A nil backend
// saves through the in-process itinerary service.
func newRouterUnderTest(t *testing.T, backend planner.Backend) *http.Server {
	t.Helper()
	logger := newTestLogger()
	itinerarySvc := itinerary.NewService(
		itinerary.Config{Location: time.UTC},
		itineraryrepo.NewMemoryRepository(),
		popularity.NewMemoryStore(),
		sharestore.NewMemoryStorage(),
		logger,
	)
	if backend == nil {
		backend = itinerarySvc
	}
	plannerSvc := planner.NewService(planner.Config{SessionTTL: time.Hour, Location: time.UTC}, planner.NewController(backend, logger), logger)
	authSvc := auth.NewService(auth.Config{Secret: "test-secret", TokenTTL: time.Hour, RefreshTokenTTL: 2 * time.Hour}, userrepo.NewMemoryRepository(), logger)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, NewHandler(itinerarySvc, plannerSvc, authSvc, logger))
}

func signIn(t *testing.T, server *http.Server) string {
	t.Helper()
	rec := performRequest(server, http.MethodPost, "/api/v1/auth/register", `{"email":"traveller@example.com","password":"pass1234","nickname":"Traveller"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = performRequest(server, http.MethodPost, "/api/v1/auth/login", `{"email":"traveller@example.com","password":"pass1234"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func createSession(t *testing.T, server *http.Server, token string) planner.SessionView {
	t.Helper()
	rec := performRequest(server, http.MethodPost, "/api/v1/planner/sessions", "", token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view planner.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func listEvents(t *testing.T, server *http.Server, token, sessionID string) []calendar.ScheduledEvent {
	t.Helper()
	rec := performRequest(server, http.MethodGet, "/api/v1/planner/sessions/"+sessionID+"/events", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Events []calendar.ScheduledEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Events
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]any {
	t.Helper()
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
