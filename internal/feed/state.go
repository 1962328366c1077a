package feed

import (
	"encoding/json"
	"fmt"
)

// Wire field names.
const (
	FieldLeft  = "left"
	FieldRight = "right"
)

// State is the logical state of the two buttons (or LEDs).
// true means pressed (or lit).
type State struct {
	Left  bool
	Right bool
}

// FromLevels builds a State from raw active-low pin levels.
// A level of 0 is pressed; anything else is released.
func FromLevels(left, right int) State {
	return State{
		Left:  left == 0,
		Right: right == 0,
	}
}

// Levels returns the active-low pin levels that display s.
func (s State) Levels() (left, right int) {
	return invert(s.Left), invert(s.Right)
}

// Code packs the state as right*2 + left, a compact form for log lines.
func (s State) Code() int {
	return bit(s.Right)*2 + bit(s.Left)
}

// String implements fmt.Stringer.
func (s State) String() string {
	return fmt.Sprintf("left=%d right=%d", bit(s.Left), bit(s.Right))
}

// wireState is the JSON shape. Pointers distinguish a missing key from 0.
type wireState struct {
	Left  *json.RawMessage `json:"left"`
	Right *json.RawMessage `json:"right"`
}

// MarshalJSON encodes s as {"left":0|1,"right":0|1}.
func (s State) MarshalJSON() ([]byte, error) {
	return Encode(s), nil
}

// UnmarshalJSON decodes the wire form, see Decode.
func (s *State) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// Encode returns the wire payload for s.
func Encode(s State) []byte {
	return []byte(fmt.Sprintf(`{"%s":%d,"%s":%d}`, FieldLeft, bit(s.Left), FieldRight, bit(s.Right)))
}

// Decode parses a wire payload. The payload must be exactly one JSON object
// whose two fields hold the integer 0 or 1. Unknown fields are ignored.
func Decode(payload []byte) (State, error) {
	var w wireState

	// Unmarshal rejects anything after the object, unlike a stream decoder.
	if err := json.Unmarshal(payload, &w); err != nil {
		return State{}, fmt.Errorf("%w: %w: %w", ErrDecode, ErrMalformedPayload, err)
	}

	left, err := fieldValue(FieldLeft, w.Left)
	if err != nil {
		return State{}, err
	}
	right, err := fieldValue(FieldRight, w.Right)
	if err != nil {
		return State{}, err
	}

	return State{Left: left, Right: right}, nil
}

// fieldValue accepts only the literal tokens 0 and 1. A JSON null counts
// as missing.
func fieldValue(name string, raw *json.RawMessage) (bool, error) {
	if raw == nil {
		return false, fmt.Errorf("%w: %w %q", ErrDecode, ErrMissingField, name)
	}
	switch string(*raw) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %w: %s=%s", ErrDecode, ErrInvalidValue, name, *raw)
	}
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func invert(b bool) int {
	return 1 - bit(b)
}
