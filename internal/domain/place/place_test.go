package place

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryFromTypes(t *testing.T) {
	tests := []struct {
		types []string
		want  Category
	}{
		{[]string{"cafe"}, CategoryRestaurants},
		{[]string{"electronics_store", "point_of_interest"}, CategoryShopping},
		{[]string{"art_gallery"}, CategoryAttractions},
		{[]string{"natural_feature"}, CategoryParks},
		{[]string{"lodging"}, CategoryOther},
		{nil, CategoryOther},
		// taxonomy order wins over tag order
		{[]string{"park", "bar"}, CategoryRestaurants},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, CategoryFromTypes(tc.types), "types %v", tc.types)
	}
}

func TestWithCategoryKeepsExisting(t *testing.T) {
	p := Place{ID: "x", Category: CategoryParks, Types: []string{"restaurant"}}
	require.Equal(t, CategoryParks, p.WithCategory().Category)
}

func TestProviderTypes(t *testing.T) {
	require.Equal(t, []string{"park", "campground", "natural_feature", "points_of_interest"}, ProviderTypes(CategoryParks))
	require.Nil(t, ProviderTypes(CategoryOther))
}

func TestPriceLabel(t *testing.T) {
	level := 3
	require.Equal(t, "$$$", Place{PriceLevel: &level}.PriceLabel())
	require.Equal(t, "", Place{}.PriceLabel())
}

func TestRank(t *testing.T) {
	r := func(v float64) *float64 { return &v }
	candidates := []Place{
		{ID: "a", Rating: r(4.0), Types: []string{"restaurant"}},
		{ID: "b", Rating: r(4.5), Types: []string{"cafe"}},
		{ID: "a", Rating: r(5.0), Types: []string{"restaurant"}},
		{ID: "c", Types: []string{"bar"}},
		{ID: "d", Rating: r(5.0), Types: []string{"park"}},
	}

	got := Rank(candidates, CategoryRestaurants, 0)
	require.Len(t, got, 3)
	require.Equal(t, "b", got[0].ID)
	require.Equal(t, "a", got[1].ID)
	require.Equal(t, 4.0, *got[1].Rating)
	require.Equal(t, "c", got[2].ID)

	require.Len(t, Rank(candidates, CategoryRestaurants, 2), 2)
}

func TestCategoryValidAndColor(t *testing.T) {
	require.True(t, CategoryOther.Valid())
	require.False(t, Category("beaches").Valid())
	require.Equal(t, "#4CAF50", CategoryParks.Color())
	require.Equal(t, "#757575", Category("").Color())
}
