package itineraryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/itinerary-planner/internal/domain/itinerary"
	"github.com/yanqian/itinerary-planner/internal/domain/planner"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// Client talks to a remote itinerary persistence API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client rooted at baseURL, e.g. "http://host:8080".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateItinerary posts the itinerary header and returns the stored record.
func (c *Client) CreateItinerary(ctx context.Context, req itinerary.CreateRequest) (itinerary.Itinerary, error) {
	var out itinerary.Itinerary
	if err := c.do(ctx, http.MethodPost, "/api/itineraries", req, &out); err != nil {
		return itinerary.Itinerary{}, err
	}
	return out, nil
}

// AddPlaces posts the scheduled events of an itinerary in one call.
func (c *Client) AddPlaces(ctx context.Context, itineraryID string, events []itinerary.EventInput) ([]itinerary.PlaceVisit, error) {
	var out []itinerary.PlaceVisit
	path := "/api/itineraries/" + url.PathEscape(itineraryID) + "/places"
	if err := c.do(ctx, http.MethodPost, path, itinerary.AddPlacesRequest{Events: events}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetItinerary fetches an itinerary with its place rows.
func (c *Client) GetItinerary(ctx context.Context, itineraryID string) (itinerary.Detail, error) {
	var out itinerary.Detail
	if err := c.do(ctx, http.MethodGet, "/api/itineraries/"+url.PathEscape(itineraryID), nil, &out); err != nil {
		return itinerary.Detail{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError turns a non-2xx response into a RemoteError. The message is
// empty when the body does not carry {"error": string}.
func decodeError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	remote := &planner.RemoteError{Status: resp.StatusCode}
	if json.Unmarshal(payload, &envelope) == nil && len(envelope.Error) > 0 {
		var msg string
		if json.Unmarshal(envelope.Error, &msg) == nil {
			remote.Message = strings.TrimSpace(msg)
		} else {
			var structured struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(envelope.Error, &structured) == nil {
				remote.Message = strings.TrimSpace(structured.Message)
			}
		}
	}
	return remote
}

var _ planner.Backend = (*Client)(nil)
