package place

import (
	"encoding/json"
	"errors"
	"strings"

	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

// CodeMalformedDropPayload is the AppError code returned when no decoder matched.
const CodeMalformedDropPayload = "malformed_drop_payload"

// ErrMalformedDropPayload reports a drop that carried no usable place.
var ErrMalformedDropPayload = errors.New("drop payload carried no decodable place")

// Transfer keys a drop may carry data under, in order of preference.
const (
	MIMEStructured = "application/json"
	MIMEText       = "text/plain"
)

// DropPayload holds the raw values of the transfer keys of one drop.
type DropPayload struct {
	Structured string `json:"structured,omitempty"`
	Text       string `json:"text,omitempty"`
}

// PayloadFromTransfer builds a payload from a MIME keyed transfer map.
func PayloadFromTransfer(data map[string]string) DropPayload {
	return DropPayload{
		Structured: data[MIMEStructured],
		Text:       data[MIMEText],
	}
}

// Decoder is one pure decode attempt.
type Decoder func(payload DropPayload, candidates []Place) (Place, bool)

// decoders run in order; the first hit wins.
var decoders = []Decoder{
	decodeStructured,
	decodeTextJSON,
	decodeTextID,
}

// Normalize decodes a drop payload into a place with a category.
func Normalize(payload DropPayload, candidates []Place) (Place, error) {
	for _, decode := range decoders {
		if p, ok := decode(payload, candidates); ok {
			return p.WithCategory(), nil
		}
	}
	return Place{}, apperrors.Wrap(CodeMalformedDropPayload, "drop carried no place data", ErrMalformedDropPayload)
}

func decodeStructured(payload DropPayload, _ []Place) (Place, bool) {
	return decodeJSON(payload.Structured)
}

func decodeTextJSON(payload DropPayload, _ []Place) (Place, bool) {
	return decodeJSON(payload.Text)
}

func decodeTextID(payload DropPayload, candidates []Place) (Place, bool) {
	id := strings.TrimSpace(payload.Text)
	if id == "" {
		return Place{}, false
	}
	for _, candidate := range candidates {
		if candidate.ID == id {
			return candidate.Snapshot(), true
		}
	}
	return Place{}, false
}

func decodeJSON(raw string) (Place, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "{") {
		return Place{}, false
	}
	var p Place
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Place{}, false
	}
	if strings.TrimSpace(p.ID) == "" {
		return Place{}, false
	}
	return p, true
}
