package place

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

func TestNormalizePrefersStructuredPayload(t *testing.T) {
	payload := DropPayload{
		Structured: `{"id":"p1","name":"Cafe X","category":"restaurants"}`,
		Text:       `{"id":"p2","name":"Other"}`,
	}

	got, err := Normalize(payload, nil)
	require.NoError(t, err)
	require.Equal(t, "p1", got.ID)
	require.Equal(t, "Cafe X", got.Name)
	require.Equal(t, CategoryRestaurants, got.Category)
}

func TestNormalizeFallsBackToTextJSON(t *testing.T) {
	payload := DropPayload{
		Structured: `{not json`,
		Text:       `{"id":"p2","name":"Museum","types":["point_of_interest","museum"]}`,
	}

	got, err := Normalize(payload, nil)
	require.NoError(t, err)
	require.Equal(t, "p2", got.ID)
	require.Equal(t, CategoryAttractions, got.Category)
}

func TestNormalizeFallsBackToIdentifierLookup(t *testing.T) {
	candidates := []Place{
		{ID: "a", Name: "Park A", Types: []string{"park"}},
		{ID: "b", Name: "Mall B", Category: CategoryShopping},
	}

	got, err := Normalize(DropPayload{Text: "b"}, candidates)
	require.NoError(t, err)
	require.Equal(t, "Mall B", got.Name)
	require.Equal(t, CategoryShopping, got.Category)

	got, err = Normalize(DropPayload{Text: " a "}, candidates)
	require.NoError(t, err)
	require.Equal(t, CategoryParks, got.Category)
}

func TestNormalizeSkipsJSONWithoutID(t *testing.T) {
	candidates := []Place{{ID: "b", Name: "Mall B", Category: CategoryShopping}}
	payload := DropPayload{Structured: `{"name":"nameless","category":"parks"}`, Text: "b"}

	got, err := Normalize(payload, candidates)
	require.NoError(t, err)
	require.Equal(t, "b", got.ID)
	require.Equal(t, "Mall B", got.Name)
}

func TestNormalizeReadsEitherAddressKey(t *testing.T) {
	got, err := Normalize(DropPayload{Structured: `{"id":"p1","name":"Cafe X","address":"1 Main St"}`}, nil)
	require.NoError(t, err)
	require.Equal(t, "1 Main St", got.Address)

	got, err = Normalize(DropPayload{Structured: `{"id":"p2","vicinity":"2 High St","address":"ignored"}`}, nil)
	require.NoError(t, err)
	require.Equal(t, "2 High St", got.Address)

	_, err = Normalize(DropPayload{Structured: `{"id":"p3","address":7}`}, nil)
	require.ErrorIs(t, err, ErrMalformedDropPayload)
}

func TestNormalizeLookupReturnsSnapshot(t *testing.T) {
	candidates := []Place{{ID: "a", Name: "Park A", Types: []string{"park"}}}

	got, err := Normalize(DropPayload{Text: "a"}, candidates)
	require.NoError(t, err)

	candidates[0].Types[0] = "store"
	candidates[0].Name = "Renamed"
	require.Equal(t, "Park A", got.Name)
	require.Equal(t, []string{"park"}, got.Types)
}

func TestNormalizeMalformed(t *testing.T) {
	cases := []struct {
		name    string
		payload DropPayload
	}{
		{name: "empty", payload: DropPayload{}},
		{name: "unknown id", payload: DropPayload{Text: "missing"}},
		{name: "json without id", payload: DropPayload{Structured: `{"name":"nameless"}`}},
		{name: "corrupt json everywhere", payload: DropPayload{Structured: "{", Text: "{"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.payload, []Place{{ID: "known"}})
			require.ErrorIs(t, err, ErrMalformedDropPayload)
			require.True(t, apperrors.IsCode(err, CodeMalformedDropPayload))
		})
	}
}

func TestPayloadFromTransfer(t *testing.T) {
	payload := PayloadFromTransfer(map[string]string{
		MIMEStructured: `{"id":"x"}`,
		MIMEText:       "x",
		"text/uri-list": "https://example.com",
	})
	require.Equal(t, `{"id":"x"}`, payload.Structured)
	require.Equal(t, "x", payload.Text)
}
