package tensor

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultThreshold is the largest per-dimension size rendered inline.
const DefaultThreshold = 7

// UnknownText is shown for values that depend on the graph input.
const UnknownText = "depends on input"

// Export artifact naming.
const (
	ExportFilename = "tensor.json"
	ExportMIMEType = "application/json"
)

// Mode is the rendering decision taken for a value.
type Mode string

const (
	ModeUnknown   Mode = "unknown"
	ModeScalar    Mode = "scalar"
	ModeInline    Mode = "inline"
	ModeCollapsed Mode = "collapsed"
)

// Action is a user action offered next to a collapsed rendering.
type Action string

const (
	ActionReveal Action = "reveal"
	ActionExport Action = "export"
)

// Rendering is the compact form of a value.
type Rendering struct {
	Mode    Mode
	Text    string
	Actions []Action
}

// Artifact is a downloadable export of a value.
type Artifact struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Formatter decides between inline and collapsed renderings.
type Formatter struct {
	threshold int
}

// NewFormatter returns a formatter; a non-positive threshold selects
// DefaultThreshold.
func NewFormatter(threshold int) *Formatter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Formatter{threshold: threshold}
}

// Threshold returns the per-dimension inline limit.
func (f *Formatter) Threshold() int {
	return f.threshold
}

// Render returns the compact rendering of v.
func (f *Formatter) Render(v Value) (Rendering, error) {
	if !v.Known {
		return Rendering{Mode: ModeUnknown, Text: UnknownText}, nil
	}
	if err := v.Validate(); err != nil {
		return Rendering{}, err
	}

	if v.Rank() == 0 {
		return Rendering{Mode: ModeScalar, Text: formatNumber(v.Content[0])}, nil
	}

	if f.fitsInline(v.Shape) {
		nested, err := Reshape(v.Shape, v.Content)
		if err != nil {
			return Rendering{}, err
		}
		var b strings.Builder
		writeNested(&b, nested)
		return Rendering{Mode: ModeInline, Text: b.String()}, nil
	}

	return Rendering{
		Mode:    ModeCollapsed,
		Text:    fmt.Sprintf("shape:%s %s", formatShape(v.Shape), v.DataType),
		Actions: []Action{ActionReveal, ActionExport},
	}, nil
}

func (f *Formatter) fitsInline(shape []int) bool {
	for _, d := range shape {
		if d > f.threshold {
			return false
		}
	}
	return true
}

// Detail returns the full row-major nesting of v. Values of rank two and
// above put each outermost row on its own line.
func (f *Formatter) Detail(v Value) (string, error) {
	if !v.Known {
		return UnknownText, nil
	}
	nested, err := Reshape(v.Shape, v.Content)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	rows, ok := nested.([]any)
	if !ok || v.Rank() < 2 {
		writeNested(&b, nested)
		return b.String(), nil
	}
	b.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			b.WriteString(",\n ")
		}
		writeNested(&b, row)
	}
	b.WriteByte(']')
	return b.String(), nil
}

func writeNested(b *strings.Builder, nested any) {
	level, ok := nested.([]any)
	if !ok {
		b.WriteString(formatNumber(nested.(float64)))
		return
	}
	b.WriteByte('[')
	for i, item := range level {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNested(b, item)
	}
	b.WriteByte(']')
}

// Export serializes the nested value as a JSON artifact.
func (f *Formatter) Export(v Value) (Artifact, error) {
	if !v.Known {
		return Artifact{}, ErrUnknownValue
	}
	nested, err := Reshape(v.Shape, v.Content)
	if err != nil {
		return Artifact{}, err
	}
	data, err := json.Marshal(nested)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to marshal tensor: %w", err)
	}
	return Artifact{
		Filename: ExportFilename,
		MIMEType: ExportMIMEType,
		Data:     data,
	}, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
