package popularity

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
)

// ValkeyStore keeps view counters in a Valkey sorted set.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "itinerary"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Increment bumps the view counter of an itinerary.
func (s *ValkeyStore) Increment(ctx context.Context, itineraryID string) (int64, error) {
	if itineraryID == "" {
		return 0, nil
	}
	cmd := s.client.B().Zincrby().Key(s.viewsKey()).Increment(1).Member(itineraryID).Build()
	score, err := s.client.Do(ctx, cmd).AsFloat64()
	if err != nil {
		return 0, err
	}
	return int64(score), nil
}

// Top returns the most viewed itineraries.
func (s *ValkeyStore) Top(ctx context.Context, limit int) ([]itinerary.Popularity, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.viewsKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]itinerary.Popularity, 0, len(arr))
	for i := 0; i < len(arr); {
		var (
			member string
			score  float64
		)
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element
			if member, err = tuple[0].ToString(); err != nil {
				return nil, err
			}
			if score, err = tuple[1].AsFloat64(); err != nil {
				return nil, err
			}
			i++
		} else {
			// RESP2 returns a flat alternating array.
			if i+1 >= len(arr) {
				break
			}
			if member, err = arr[i].ToString(); err != nil {
				return nil, err
			}
			if score, err = arr[i+1].AsFloat64(); err != nil {
				return nil, err
			}
			i += 2
		}
		out = append(out, itinerary.Popularity{ItineraryID: member, Views: int64(score)})
	}
	return out, nil
}

func (s *ValkeyStore) viewsKey() string {
	return fmt.Sprintf("%s:views", s.prefix)
}

var _ itinerary.PopularityStore = (*ValkeyStore)(nil)
