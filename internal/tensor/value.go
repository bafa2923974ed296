// Package tensor formats constant tensor values attached to graph nodes:
// compact or detailed renderings and a JSON export artifact.
package tensor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrShapeMismatch    = errors.New("content length does not match shape")
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrUnknownDataType  = errors.New("unknown data type")
	ErrUnknownValue     = errors.New("value depends on input")
)

// DataType is the element type tag of a known tensor.
type DataType string

const (
	U8  DataType = "U8"
	I8  DataType = "I8"
	I32 DataType = "I32"
	F32 DataType = "F32"
	F64 DataType = "F64"
)

// Valid reports whether dt is one of the supported numeric types.
func (dt DataType) Valid() bool {
	switch dt {
	case U8, I8, I32, F32, F64:
		return true
	}
	return false
}

// Value is either unknown (computed at run time) or a known constant with a
// shape and flat row-major content.
type Value struct {
	Known    bool
	DataType DataType
	Shape    []int
	Content  []float64
}

// Unknown returns the value of a tensor that depends on the graph input.
func Unknown() Value {
	return Value{}
}

// NewKnown validates and returns a known value.
func NewKnown(dt DataType, shape []int, content []float64) (Value, error) {
	v := Value{Known: true, DataType: dt, Shape: shape, Content: content}
	if err := v.Validate(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Validate checks the data type, dimensions and content length.
func (v Value) Validate() error {
	if !v.Known {
		return nil
	}
	if !v.DataType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDataType, v.DataType)
	}
	n, err := elementCount(v.Shape)
	if err != nil {
		return err
	}
	if n != len(v.Content) {
		return fmt.Errorf("%w: shape %v holds %d elements, got %d", ErrShapeMismatch, v.Shape, n, len(v.Content))
	}
	return nil
}

// Rank returns the number of dimensions.
func (v Value) Rank() int {
	return len(v.Shape)
}

func elementCount(shape []int) (int, error) {
	n := 1
	for i, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: dimension %d is %d", ErrInvalidDimension, i, d)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("%w: shape %v overflows the element count", ErrInvalidDimension, shape)
		}
		n *= d
	}
	return n, nil
}

const unknownTag = "Unknown"

type knownWire struct {
	Only []json.RawMessage `json:"Only"`
}

// MarshalJSON encodes the value as "Unknown" or {"Only":[dt, shape, content]}.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Known {
		return json.Marshal(unknownTag)
	}
	shape := v.Shape
	if shape == nil {
		shape = []int{}
	}
	content := v.Content
	if content == nil {
		content = []float64{}
	}
	return json.Marshal(map[string][]any{"Only": {v.DataType, shape, content}})
}

// UnmarshalJSON decodes either wire form and validates the result.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return err
		}
		if tag != unknownTag {
			return fmt.Errorf("unexpected tensor tag %q", tag)
		}
		*v = Unknown()
		return nil
	}

	var wire knownWire
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return fmt.Errorf("failed to decode tensor: %w", err)
	}
	if len(wire.Only) != 3 {
		return fmt.Errorf("tensor payload has %d fields, want 3", len(wire.Only))
	}

	var dt DataType
	if err := json.Unmarshal(wire.Only[0], &dt); err != nil {
		return fmt.Errorf("failed to decode data type: %w", err)
	}
	var dims []float64
	if err := json.Unmarshal(wire.Only[1], &dims); err != nil {
		return fmt.Errorf("failed to decode shape: %w", err)
	}
	shape := make([]int, len(dims))
	for i, d := range dims {
		if d < 0 || d != math.Trunc(d) || d > math.MaxInt32 {
			return fmt.Errorf("%w: dimension %d is %v", ErrInvalidDimension, i, d)
		}
		shape[i] = int(d)
	}
	var content []float64
	if err := json.Unmarshal(wire.Only[2], &content); err != nil {
		return fmt.Errorf("failed to decode content: %w", err)
	}

	known, err := NewKnown(dt, shape, content)
	if err != nil {
		return err
	}
	*v = known
	return nil
}

// FromAttribute recovers a value from a generic attribute, such as an entry
// of a node's "other" map decoded from graph JSON. It reports false when the
// attribute is not in either wire form.
func FromAttribute(attr any) (Value, bool) {
	switch a := attr.(type) {
	case Value:
		return a, true
	case string:
		if a != unknownTag {
			return Value{}, false
		}
		return Unknown(), true
	case map[string]any:
		if _, ok := a["Only"]; !ok || len(a) != 1 {
			return Value{}, false
		}
	default:
		return Value{}, false
	}

	data, err := json.Marshal(attr)
	if err != nil {
		return Value{}, false
	}
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, false
	}
	return v, true
}
