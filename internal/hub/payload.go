package hub

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"dashlink/internal/tilestore"
)

// Envelope is the single JSON frame exchanged per message.
type Envelope struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var validate = validator.New()

// tilePayload covers tile_data and request_tile. Pointer fields distinguish a
// missing coordinate from a legitimate zero; any extra fields (image bytes,
// format) ride along in the raw data and are relayed verbatim.
type tilePayload struct {
	X    *int `json:"x" validate:"required"`
	Y    *int `json:"y" validate:"required"`
	Zoom *int `json:"zoom" validate:"required"`
}

type locationPayload struct {
	Lat     *float64 `json:"lat" validate:"required"`
	Long    *float64 `json:"long" validate:"required"`
	Bearing *float64 `json:"bearing"`
}

func decodeTileKey(data json.RawMessage) (tilestore.Key, error) {
	var p tilePayload
	if len(data) == 0 {
		return tilestore.Key{}, fmt.Errorf("empty tile payload")
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return tilestore.Key{}, fmt.Errorf("decode tile payload: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		return tilestore.Key{}, fmt.Errorf("validate tile payload: %w", err)
	}
	return tilestore.Key{X: *p.X, Y: *p.Y, Zoom: *p.Zoom}, nil
}

func validateLocation(data json.RawMessage) error {
	var p locationPayload
	if len(data) == 0 {
		return fmt.Errorf("empty location payload")
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode location payload: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		return fmt.Errorf("validate location payload: %w", err)
	}
	return nil
}

func marshalEnvelope(event Event, data any) ([]byte, error) {
	env := Envelope{Event: event}
	switch d := data.(type) {
	case nil:
	case json.RawMessage:
		env.Data = d
	default:
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshal %s data: %w", event, err)
		}
		env.Data = raw
	}
	return json.Marshal(env)
}
