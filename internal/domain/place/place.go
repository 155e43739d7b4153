package place

import (
	"encoding/json"
	"sort"
	"strings"
)

// Place is a point of interest as supplied by the places provider.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"user_ratings_total,omitempty"`
	PriceLevel  *int     `json:"price_level,omitempty"`
	Address     string   `json:"vicinity,omitempty"`
	Photo       string   `json:"photo,omitempty"`
	Category    Category `json:"category,omitempty"`
	Types       []string `json:"types,omitempty"`
}

// UnmarshalJSON reads Address from "vicinity" or, when that is empty, from
// "address".
func (p *Place) UnmarshalJSON(data []byte) error {
	type plain Place
	var aux struct {
		plain
		Fallback string `json:"address"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Place(aux.plain)
	if p.Address == "" {
		p.Address = aux.Fallback
	}
	return nil
}

// Snapshot returns a deep copy so later changes to the source never leak into
// a scheduled event.
func (p Place) Snapshot() Place {
	out := p
	if p.Rating != nil {
		v := *p.Rating
		out.Rating = &v
	}
	if p.ReviewCount != nil {
		v := *p.ReviewCount
		out.ReviewCount = &v
	}
	if p.PriceLevel != nil {
		v := *p.PriceLevel
		out.PriceLevel = &v
	}
	if p.Types != nil {
		out.Types = append([]string(nil), p.Types...)
	}
	return out
}

// PriceLabel renders the price level as repeated currency symbols.
func (p Place) PriceLabel() string {
	if p.PriceLevel == nil || *p.PriceLevel <= 0 {
		return ""
	}
	return strings.Repeat("$", *p.PriceLevel)
}

// WithCategory fills in the category from the provider type tags when missing.
func (p Place) WithCategory() Place {
	if p.Category != "" {
		return p
	}
	p.Category = CategoryFromTypes(p.Types)
	return p
}

// DefaultRankLimit caps the candidate list shown next to the calendar.
const DefaultRankLimit = 30

// Rank keeps the candidates of the requested category, drops duplicate ids and
// orders by rating, best first. Unrated places sort as zero.
func Rank(candidates []Place, category Category, limit int) []Place {
	if limit <= 0 {
		limit = DefaultRankLimit
	}
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Place, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = candidate.WithCategory()
		if category != "" && candidate.Category != category {
			continue
		}
		if _, dup := seen[candidate.ID]; dup {
			continue
		}
		seen[candidate.ID] = struct{}{}
		out = append(out, candidate)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ratingOf(out[i]) > ratingOf(out[j])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func ratingOf(p Place) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}
