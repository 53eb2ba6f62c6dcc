package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Unknown is rendered for attributes that have no value
const Unknown = "—"

type valueKind uint8

const (
	kindUnknown valueKind = iota
	kindNumber
	kindText
)

// Value is an optional device attribute. Upstream records are loosely typed,
// so a numeric column may carry text ("N/A", "5x"); only real numbers take
// part in winner resolution.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Number returns a numeric value
func Number(n float64) Value {
	return Value{kind: kindNumber, num: n}
}

// Text returns a text value; empty text is unknown
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: kindText, text: s}
}

// Known reports whether the attribute is present
func (v Value) Known() bool {
	return v.kind != kindUnknown
}

// IsZero reports whether the value is unknown (used by omitzero/omitempty)
func (v Value) IsZero() bool {
	return !v.Known()
}

// Number returns the numeric value and whether it is numeric
func (v Value) Number() (float64, bool) {
	if v.kind != kindNumber {
		return 0, false
	}
	return v.num, true
}

// String returns the raw value as text, or Unknown
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindText:
		return v.text
	default:
		return Unknown
	}
}

// Display renders the value with its unit. Unknown values render as an
// em-dash, never as 0; text is shown as-is without the unit.
func (v Value) Display(unit string) string {
	if v.kind == kindNumber {
		return v.String() + unit
	}
	return v.String()
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return json.Marshal(v.num)
	case kindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}

	switch t := raw.(type) {
	case float64:
		*v = Number(t)
	case string:
		*v = Text(t)
	case bool:
		*v = Text(yesNo(t))
	default:
		return fmt.Errorf("decode value: unsupported type %T", raw)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case kindNumber:
		return v.num, nil
	case kindText:
		return v.text, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("decode value: line %d: expected scalar", node.Line)
	}

	switch node.Tag {
	case "!!null":
		*v = Value{}
	case "!!int", "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("decode value: line %d: %w", node.Line, err)
		}
		*v = Number(n)
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("decode value: line %d: %w", node.Line, err)
		}
		*v = Text(yesNo(b))
	default:
		*v = Text(node.Value)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
