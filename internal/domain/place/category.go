package place

// Category is one entry of the closed place taxonomy.
type Category string

const (
	CategoryRestaurants Category = "restaurants"
	CategoryShopping    Category = "shopping"
	CategoryAttractions Category = "attractions"
	CategoryParks       Category = "parks"
	CategoryOther       Category = "other"
)

type taxonomyEntry struct {
	category Category
	types    []string
}

// taxonomy order decides ties when a tag belongs to several categories.
var taxonomy = []taxonomyEntry{
	{CategoryRestaurants, []string{"restaurant", "cafe", "bar", "food"}},
	{CategoryShopping, []string{"shopping_mall", "store", "clothing_store", "electronics_store"}},
	{CategoryAttractions, []string{"tourist_attraction", "museum", "amusement_park", "art_gallery"}},
	{CategoryParks, []string{"park", "campground", "natural_feature", "points_of_interest"}},
}

// CategoryFromTypes maps provider type tags onto the taxonomy.
func CategoryFromTypes(types []string) Category {
	for _, entry := range taxonomy {
		for _, tag := range types {
			for _, candidate := range entry.types {
				if tag == candidate {
					return entry.category
				}
			}
		}
	}
	return CategoryOther
}

// ProviderTypes returns the provider tags searched for a category.
func ProviderTypes(c Category) []string {
	for _, entry := range taxonomy {
		if entry.category == c {
			return append([]string(nil), entry.types...)
		}
	}
	return nil
}

// Valid reports whether c belongs to the taxonomy.
func (c Category) Valid() bool {
	switch c {
	case CategoryRestaurants, CategoryShopping, CategoryAttractions, CategoryParks, CategoryOther:
		return true
	default:
		return false
	}
}

// Color is the block color used by the grid renderer.
func (c Category) Color() string {
	switch c {
	case CategoryRestaurants:
		return "#F44336"
	case CategoryShopping:
		return "#2196F3"
	case CategoryAttractions:
		return "#FF9800"
	case CategoryParks:
		return "#4CAF50"
	default:
		return "#757575"
	}
}
